package refine

import (
	"github.com/menta2k/lookfinder/pkg/geometry"
	"github.com/menta2k/lookfinder/pkg/policy"
	"github.com/menta2k/lookfinder/pkg/types"
)

// filter drops detections outside the vocabulary or below the threshold,
// clamps the rest to the image, then applies the headwear and undersized
// pants guards.
func (r *Refiner) filter(dets []types.Detection, opts Options) []candidate {
	accepted := make([]types.Detection, 0, len(dets))
	for _, d := range dets {
		if !r.policy.Accepts(d.Label) || d.Score < opts.Threshold {
			continue
		}
		d.BBox = geometry.Clamp(d.BBox, opts.ImageWidth, opts.ImageHeight)
		if d.BBox.Width() <= 0 || d.BBox.Height() <= 0 {
			r.log.Debug().Str("label", d.Label).Msg("skipping detection outside the image")
			continue
		}
		accepted = append(accepted, d)
	}

	hasContext := false
	for _, d := range accepted {
		if r.policy.In(policy.GroupHeadContext, d.Label) {
			hasContext = true
			break
		}
	}

	imgW, imgH := float64(opts.ImageWidth), float64(opts.ImageHeight)
	out := make([]candidate, 0, len(accepted))
	for _, d := range accepted {
		w, h := d.BBox.Width(), d.BBox.Height()
		relH := h / imgH

		if r.policy.In(policy.GroupHeadwear, d.Label) {
			if reason := r.rejectHeadwear(d, w/imgW, relH, hasContext, imgH); reason != "" {
				r.log.Debug().Str("label", d.Label).Float64("score", d.Score).
					Interface("bbox", d.BBox).Msg("skipping headwear: " + reason)
				continue
			}
		}

		if d.Label == policy.LabelPants && relH < r.th.PantsMinHeight {
			r.log.Debug().Float64("rel_height", relH).Msg("skipping undersized pants")
			continue
		}

		out = append(out, candidate{Detection: d})
	}
	return out
}

// rejectHeadwear returns why a head-region detection looks like hair, or "".
func (r *Refiner) rejectHeadwear(d types.Detection, relW, relH float64, hasContext bool, imgH float64) string {
	aspect := d.BBox.Width() / (d.BBox.Height() + 1e-5)
	switch {
	case relW > r.th.HeadwearMaxWidth || relH > r.th.HeadwearMaxHeight:
		return "oversized"
	case d.BBox.Y1/imgH > r.th.HeadwearMaxTop || d.BBox.Y2/imgH > r.th.HeadwearMaxBottom:
		return "low position"
	case aspect > r.th.HeadwearMaxAspect || aspect < r.th.HeadwearMinAspect:
		return "abnormal aspect"
	case !hasContext:
		return "no upper garment context"
	case d.Score < r.th.HeadwearMinScore:
		return "weak score"
	}
	return ""
}
