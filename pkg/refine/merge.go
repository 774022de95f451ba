package refine

import (
	"github.com/menta2k/lookfinder/pkg/geometry"
	"github.com/menta2k/lookfinder/pkg/policy"
)

type verdict int

const (
	admit verdict = iota
	discard
	displace
)

// mergeContained builds the kept set from candidates in priority order.
// A candidate that beats an already kept item in a merge displaces it and
// is queued again so it is checked against the updated kept set.
func (r *Refiner) mergeContained(pool []candidate, opts Options) []candidate {
	queue := make([]candidate, len(pool))
	copy(queue, pool)
	kept := make([]candidate, 0, len(pool))

	for len(queue) > 0 {
		det := queue[0]
		queue = queue[1:]

		v, idx := r.compare(det, kept, opts)
		switch v {
		case admit:
			kept = append(kept, det)
		case displace:
			r.log.Debug().Str("keep", det.Label).Float64("score", det.Score).
				Str("drop", kept[idx].Label).Msg("merging overlapping garments")
			kept = append(kept[:idx], kept[idx+1:]...)
			queue = append([]candidate{det}, queue...)
		case discard:
		}
	}
	return kept
}

// compare evaluates det against each kept item in order and returns the
// first decisive verdict, or admit when none applies.
func (r *Refiner) compare(det candidate, kept []candidate, opts Options) (verdict, int) {
	merge := r.policy.MergeThresholds()
	for i, k := range kept {
		iou := geometry.IoU(det.BBox, k.BBox)
		overlap := geometry.OverlapRatio(det.BBox, k.BBox)

		if r.policy.In(policy.GroupCoatLike, det.Label) && r.policy.In(policy.GroupCoatLike, k.Label) &&
			(iou > r.th.CoatMergeIoU || overlap > r.th.CoatMergeOverlap) {
			return stronger(det, k), i
		}

		if r.policy.In(policy.GroupUpperBody, det.Label) && r.policy.In(policy.GroupUpperBody, k.Label) {
			avgW := (det.BBox.Width() + k.BBox.Width()) / 2
			centersClose := geometry.CenterDistance(det.BBox, k.BBox) < merge.CenterDistFraction*max(1.0, avgW)
			if centersClose || iou > merge.IoU || overlap > merge.Overlap {
				return stronger(det, k), i
			}
		}

		keptOuter := r.policy.In(policy.GroupOuterwear, k.Label)
		if keptOuter && !r.policy.In(policy.GroupOuterwear, det.Label) && overlap > r.th.InnerSuppressOverlap {
			if det.Label == policy.LabelBag && det.Score >= r.th.BagKeepScore {
				r.log.Debug().Float64("score", det.Score).Str("outer", k.Label).Msg("retaining confident bag over outerwear")
				continue
			}
			r.log.Debug().Str("inner", det.Label).Str("outer", k.Label).Float64("overlap", overlap).
				Msg("suppressing inner garment under outerwear")
			return discard, i
		}

		if keptOuter && r.policy.In(policy.GroupAccessories, det.Label) {
			_, cy := geometry.Center(det.BBox)
			if cy/float64(opts.ImageHeight) > r.th.AccessoryLine {
				continue
			}
			// above the line: not dropped, just compared with the next kept item
			r.log.Debug().Str("label", det.Label).Str("outer", k.Label).Msg("accessory high on outerwear")
		}
	}
	return admit, -1
}

// stronger keeps the candidate when it scores at least as high as the kept item.
func stronger(det, kept candidate) verdict {
	if det.Score >= kept.Score {
		return displace
	}
	return discard
}

// suppressCoveredPants drops pants hidden under confident outerwear that
// reaches low in the frame.
func (r *Refiner) suppressCoveredPants(kept []candidate, opts Options) []candidate {
	var long []candidate
	for _, c := range kept {
		if r.policy.In(policy.GroupLongOuter, c.Label) && c.BBox.Y2/float64(opts.ImageHeight) > r.th.LongOuterBottom {
			long = append(long, c)
		}
	}
	if len(long) == 0 {
		return kept
	}

	out := make([]candidate, 0, len(kept))
	for _, c := range kept {
		if c.Label == policy.LabelPants && r.coveredBy(c, long) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (r *Refiner) coveredBy(pants candidate, long []candidate) bool {
	for _, outer := range long {
		overlap := geometry.OverlapRatio(pants.BBox, outer.BBox)
		if overlap > r.th.PantsCoveredOverlap && outer.Score > r.th.LongOuterMinScore {
			r.log.Debug().Str("outer", outer.Label).Float64("overlap", overlap).Msg("suppressing pants under long outerwear")
			return true
		}
	}
	return false
}
