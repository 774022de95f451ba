package client

import (
	"context"

	"github.com/menta2k/lookfinder/pkg/types"
)

// VisionClient is a vision-language model backend. AnalyzeImage returns the
// raw model text; callers parse it.
type VisionClient interface {
	SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error)
	AnalyzeImage(ctx context.Context, model, prompt, imgB64 string) (string, error)
}

// DetectionSource proposes raw garment detections for an image. Boxes are
// returned in pixel coordinates of an imageW x imageH image, regardless of
// the size of the encoded image that was sent.
type DetectionSource interface {
	Detect(ctx context.Context, model, imgB64 string, imageW, imageH int) ([]types.Detection, error)
}
