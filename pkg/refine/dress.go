package refine

import (
	"github.com/menta2k/lookfinder/pkg/geometry"
	"github.com/menta2k/lookfinder/pkg/policy"
)

// resolveDresses demotes dress detections that are more likely a separate
// top and bottom seen together. It reports whether any score changed.
func (r *Refiner) resolveDresses(pool []candidate) bool {
	changed := false
	for i := range pool {
		dress := &pool[i]
		if dress.Label != policy.LabelDress {
			continue
		}

		bestUpper, bestLower := -1.0, -1.0
		for _, c := range pool {
			if geometry.OverlapRatio(c.BBox, dress.BBox) <= r.th.DressContainment {
				continue
			}
			switch {
			case r.policy.In(policy.GroupUpperBody, c.Label):
				bestUpper = max(bestUpper, c.Score)
			case r.policy.In(policy.GroupLowerBody, c.Label):
				bestLower = max(bestLower, c.Score)
			}
		}
		if bestUpper < 0 || bestLower < 0 {
			continue
		}

		pairAvg := (bestUpper + bestLower) / 2
		demote := false
		switch {
		case dress.Score > r.th.DressKeepScore:
		case dress.Score >= r.th.DressMidScore:
			demote = pairAvg > r.th.DressMidPairAvg
		default:
			demote = pairAvg > r.th.DressLowPairAvg
		}
		if !demote {
			continue
		}

		r.log.Debug().Float64("dress_score", dress.Score).Float64("pair_avg", pairAvg).
			Msg("demoting dress in favour of separates")
		dress.Score *= r.th.DressDemoteFactor
		dress.demoted = true
		changed = true
	}
	return changed
}
