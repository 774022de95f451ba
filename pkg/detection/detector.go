package detection

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/lithammer/dedent"
	"github.com/rs/zerolog"

	"github.com/menta2k/lookfinder/pkg/client"
	"github.com/menta2k/lookfinder/pkg/policy"
	"github.com/menta2k/lookfinder/pkg/types"
)

// SimpleTestPrompt for testing if the model can see images
const SimpleTestPrompt = `What do you see in this image? Describe it briefly.`

const promptTemplate = `
	You are a fashion garment detector.

	Return JSON only, an array with one object per visible item:
	[
	  {"label": "string", "score": 0.0, "bbox": [0.0, 0.0, 0.0, 0.0]}
	]

	HARD RULES
	- label must be exactly one of: %s
	- bbox is [x1, y1, x2, y2] with x1 < x2 and y1 < y2.
	- All coordinates are normalized to [0,1] (NOT pixels).
	- score is your confidence in [0,1].
	- Report every garment and accessory worn by the person, including
	  shoes, bags, glasses and headwear. Report each shoe separately.
	- If nothing is worn or visible, return [].
	- JSON only. No markdown, no code fences, no comments, no trailing commas.
`

// Prompt returns the detection prompt for the labels accepted by p.
func Prompt(p *policy.Policy) string {
	quoted := make([]string, 0, len(p.Labels()))
	for _, l := range p.Labels() {
		quoted = append(quoted, fmt.Sprintf("%q", l))
	}
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(promptTemplate)), strings.Join(quoted, ", "))
}

// Config holds the detector's label policy and logger.
type Config struct {
	Policy *policy.Policy
	Logger zerolog.Logger
}

// Detector asks a vision model for garment detections
type Detector struct {
	client client.VisionClient
	policy *policy.Policy
	prompt string
	log    zerolog.Logger
}

// NewDetector creates a new detector with a vision client and the default policy
func NewDetector(c client.VisionClient) *Detector {
	return NewDetectorWithConfig(c, Config{Logger: zerolog.Nop()})
}

// NewDetectorWithConfig creates a detector with a custom configuration
func NewDetectorWithConfig(c client.VisionClient, cfg Config) *Detector {
	if cfg.Policy == nil {
		cfg.Policy = policy.Default()
	}
	return &Detector{
		client: c,
		policy: cfg.Policy,
		prompt: Prompt(cfg.Policy),
		log:    cfg.Logger,
	}
}

// Detect implements client.DetectionSource.
func (d *Detector) Detect(ctx context.Context, model, imgB64 string, imageW, imageH int) ([]types.Detection, error) {
	return d.DetectWithPrompt(ctx, model, imgB64, d.prompt, imageW, imageH)
}

// DetectWithPrompt analyzes an image with a custom prompt
func (d *Detector) DetectWithPrompt(ctx context.Context, model, imgB64, prompt string, imageW, imageH int) ([]types.Detection, error) {
	if imageW <= 0 || imageH <= 0 {
		return nil, types.NewValidationError("image_size", fmt.Sprintf("%dx%d", imageW, imageH), types.ErrInvalidImageSize)
	}

	raw, err := d.client.AnalyzeImage(ctx, model, prompt, imgB64)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseDetections(raw)
	if err != nil {
		return nil, err
	}

	out := make([]types.Detection, 0, len(parsed))
	for _, det := range parsed {
		det.Label = strings.ToLower(strings.TrimSpace(det.Label))
		if !d.policy.Accepts(det.Label) {
			d.log.Debug().Str("label", det.Label).Msg("dropping unknown label")
			continue
		}
		box, ok := toPixels(det.BBox, imageW, imageH)
		if !ok {
			d.log.Debug().Str("label", det.Label).Msg("dropping degenerate box")
			continue
		}
		det.BBox = box
		det.Score = clamp(det.Score, 0, 1)
		out = append(out, det)
	}

	d.log.Debug().Int("raw", len(parsed)).Int("accepted", len(out)).Msg("model detections parsed")
	return out, nil
}

// TestVision tests if the model can actually see the image with a simple prompt
func (d *Detector) TestVision(ctx context.Context, model, imgB64 string) (string, error) {
	return d.client.SimpleQuery(ctx, model, SimpleTestPrompt, imgB64)
}

// ParseDetections decodes model output into detections. It accepts a JSON
// array, an object with a "detections" array, or a single detection object,
// after stripping code fences, comments and trailing commas.
func ParseDetections(raw string) ([]types.Detection, error) {
	raw = SanitizeModelJSON(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	var dets []types.Detection
	switch raw[0] {
	case '[':
		if err := json.Unmarshal([]byte(raw), &dets); err != nil {
			return nil, fmt.Errorf("failed to parse detections: %w", err)
		}
	case '{':
		var wrapped struct {
			Detections *[]types.Detection `json:"detections"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapped); err == nil && wrapped.Detections != nil {
			return *wrapped.Detections, nil
		}
		var single types.Detection
		if err := json.Unmarshal([]byte(raw), &single); err != nil {
			return nil, fmt.Errorf("failed to parse detection: %w", err)
		}
		dets = []types.Detection{single}
	default:
		return nil, fmt.Errorf("no JSON found in model response")
	}
	return dets, nil
}

var (
	reBlock    = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reLine     = regexp.MustCompile(`(?m)^\s*//.*$`)
	reInline   = regexp.MustCompile(`(?m)//.*$`)
	reTrailing = regexp.MustCompile(`,(\s*[}\]])`)
)

// SanitizeModelJSON removes code fences, comments, and trailing commas from
// a model response and keeps the outermost JSON array or object.
func SanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	// Strip triple-backtick fences if present
	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.Trim(strings.TrimSpace(raw), "`")

	raw = reBlock.ReplaceAllString(raw, "")
	raw = reLine.ReplaceAllString(raw, "")
	raw = reInline.ReplaceAllString(raw, "")
	raw = reTrailing.ReplaceAllString(raw, "$1")

	// Keep only the outermost [...] or {...}, whichever opens first
	opening, closing := "{", "}"
	arr, obj := strings.Index(raw, "["), strings.Index(raw, "{")
	if arr >= 0 && (obj < 0 || arr < obj) {
		opening, closing = "[", "]"
	}
	if start := strings.Index(raw, opening); start >= 0 {
		if end := strings.LastIndex(raw, closing); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}

// toPixels scales a normalized box to an imageW x imageH image. Boxes with
// any coordinate above 1 are taken to be in pixels already.
func toPixels(b types.BoundingBox, imageW, imageH int) (types.BoundingBox, bool) {
	w, h := float64(imageW), float64(imageH)
	if b.X1 <= 1 && b.Y1 <= 1 && b.X2 <= 1 && b.Y2 <= 1 {
		b = types.Box(b.X1*w, b.Y1*h, b.X2*w, b.Y2*h)
	}
	b = types.Box(
		math.Round(clamp(b.X1, 0, w)),
		math.Round(clamp(b.Y1, 0, h)),
		math.Round(clamp(b.X2, 0, w)),
		math.Round(clamp(b.Y2, 0, h)),
	)
	return b, b.X2 > b.X1 && b.Y2 > b.Y1
}

// clamp ensures a value is within the given bounds
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
