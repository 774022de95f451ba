package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingBoxJSONArray(t *testing.T) {
	var d Detection
	require.NoError(t, json.Unmarshal([]byte(`{"label":"dress","score":0.9,"bbox":[10,20,110,220]}`), &d))

	assert.Equal(t, "dress", d.Label)
	assert.Equal(t, Box(10, 20, 110, 220), d.BBox)
	assert.Equal(t, 100.0, d.BBox.Width())
	assert.Equal(t, 200.0, d.BBox.Height())

	out, err := json.Marshal(d.BBox)
	require.NoError(t, err)
	assert.JSONEq(t, `[10,20,110,220]`, string(out))
}

func TestBoundingBoxRejectsWrongArity(t *testing.T) {
	var b BoundingBox
	err := json.Unmarshal([]byte(`[1,2,3]`), &b)
	assert.Error(t, err)
}

func TestSearchHitKeepsHeterogeneousPrice(t *testing.T) {
	var hit SearchHit
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","price":{"extracted_value":42}}`), &hit))

	m, ok := hit.Price.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 42.0, m["extracted_value"])
}

func TestValidationErrorUnwraps(t *testing.T) {
	err := error(NewValidationError("bbox", "[5,0,5,10]", ErrInvalidBox))

	assert.True(t, errors.Is(err, ErrInvalidBox))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "bbox", ve.Field)
	assert.Contains(t, err.Error(), "invalid bounding box")
}
