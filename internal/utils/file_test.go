package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"garment_1_dress":                         "garment_1_dress",
		"garment_2_shirt, blouse":                 "garment_2_shirt__blouse",
		"a/b\\c:d*e?f":                            "a_b_c_d_e_f",
		" .hidden. ":                              "hidden",
		"003_garment_3_bag, wallet":               "003_garment_3_bag__wallet",
		"headband, head covering, hair accessory": "headband__head_covering__hair_accessory",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}
}

func TestEnsureDirAndFileExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))
	assert.False(t, FileExists(dir))

	path := filepath.Join(dir, "f.json")
	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
	assert.True(t, FileExists(path))
}
