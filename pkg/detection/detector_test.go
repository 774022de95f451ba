package detection

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/lookfinder/pkg/policy"
	"github.com/menta2k/lookfinder/pkg/types"
)

type fakeClient struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeClient) SimpleQuery(_ context.Context, _, prompt, _ string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func (f *fakeClient) AnalyzeImage(_ context.Context, _, prompt, _ string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func TestPromptListsVocabulary(t *testing.T) {
	prompt := Prompt(policy.Default())
	assert.Contains(t, prompt, `"shirt, blouse"`)
	assert.Contains(t, prompt, `"headband, head covering, hair accessory"`)
	assert.True(t, strings.HasPrefix(prompt, "You are a fashion garment detector."))
	assert.NotContains(t, prompt, "%s")
	assert.NotContains(t, prompt, "\n\t")
}

func TestSanitizeModelJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fenced array", "```json\n[{\"label\": \"dress\"}]\n```", `[{"label": "dress"}]`},
		{"trailing commas", `[{"a": 1,},]`, `[{"a": 1}]`},
		{"comments", "[\n// first\n{\"a\": 1} /* x */\n]", "[\n\n{\"a\": 1} \n]"},
		{"chatter around object", `Here you go: {"detections": []} hope it helps`, `{"detections": []}`},
		{"array before object", `Result: [{"a": 1}]`, `[{"a": 1}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeModelJSON(tt.in))
		})
	}
}

func TestParseDetections(t *testing.T) {
	dets, err := ParseDetections("```json\n[{\"label\": \"dress\", \"score\": 0.9, \"bbox\": [0.1, 0.2, 0.5, 0.9]},]\n```")
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, "dress", dets[0].Label)
	assert.Equal(t, types.Box(0.1, 0.2, 0.5, 0.9), dets[0].BBox)

	dets, err = ParseDetections(`{"detections": [{"label": "shoe", "score": 0.5, "bbox": [1, 2, 3, 4]}]}`)
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, "shoe", dets[0].Label)

	dets, err = ParseDetections(`{"label": "hat", "score": 0.7, "bbox": [0, 0, 0.2, 0.1]}`)
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, "hat", dets[0].Label)

	dets, err = ParseDetections(`[]`)
	require.NoError(t, err)
	assert.Empty(t, dets)

	_, err = ParseDetections("I cannot see any clothing.")
	assert.Error(t, err)
	_, err = ParseDetections("")
	assert.Error(t, err)
	_, err = ParseDetections(`[{"label": "dress", "bbox": [1, 2]}]`)
	assert.Error(t, err)
}

func TestDetectScalesAndFilters(t *testing.T) {
	fc := &fakeClient{reply: `[
		{"label": "Dress", "score": 0.9, "bbox": [0.1, 0.2, 0.5, 0.9]},
		{"label": "robot", "score": 0.9, "bbox": [0.1, 0.1, 0.2, 0.2]},
		{"label": "shoe", "score": 1.4, "bbox": [0.3, 0.3, 0.3, 0.5]},
		{"label": "bag, wallet", "score": 0.6, "bbox": [100, 300, 900, 700]}
	]`}
	d := NewDetector(fc)

	dets, err := d.Detect(context.Background(), "m", "b64", 800, 1000)
	require.NoError(t, err)
	require.Len(t, dets, 2)

	assert.Equal(t, policy.LabelDress, dets[0].Label)
	assert.Equal(t, types.Box(80, 200, 400, 900), dets[0].BBox)
	assert.Equal(t, policy.LabelBag, dets[1].Label)
	assert.Equal(t, types.Box(100, 300, 800, 700), dets[1].BBox, "pixel boxes are clamped to the image")
	assert.Contains(t, fc.prompt, "fashion garment detector")
}

func TestDetectClampsScore(t *testing.T) {
	fc := &fakeClient{reply: `[{"label": "hat", "score": 1.4, "bbox": [0.1, 0.0, 0.3, 0.1]}]`}
	dets, err := NewDetector(fc).Detect(context.Background(), "m", "b64", 100, 100)
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, 1.0, dets[0].Score)
}

func TestDetectErrors(t *testing.T) {
	d := NewDetector(&fakeClient{err: errors.New("backend down")})
	_, err := d.Detect(context.Background(), "m", "b64", 100, 100)
	assert.ErrorContains(t, err, "backend down")

	_, err = d.Detect(context.Background(), "m", "b64", 0, 100)
	assert.True(t, errors.Is(err, types.ErrInvalidImageSize))
}

func TestTestVision(t *testing.T) {
	fc := &fakeClient{reply: "a person in a red dress"}
	out, err := NewDetector(fc).TestVision(context.Background(), "m", "b64")
	require.NoError(t, err)
	assert.Equal(t, "a person in a red dress", out)
	assert.Equal(t, SimpleTestPrompt, fc.prompt)
}
