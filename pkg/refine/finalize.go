package refine

import (
	"github.com/menta2k/lookfinder/pkg/geometry"
	"github.com/menta2k/lookfinder/pkg/policy"
)

// clusterShoes merges left/right shoe detections of one pair into a single
// detection covering both.
func (r *Refiner) clusterShoes(kept []candidate) []candidate {
	var shoes, rest []candidate
	for _, c := range kept {
		if c.Label == policy.LabelShoe {
			shoes = append(shoes, c)
		} else {
			rest = append(rest, c)
		}
	}
	if len(shoes) < 2 {
		return kept
	}

	used := make([]bool, len(shoes))
	var merged []candidate
	for i, s1 := range shoes {
		if used[i] {
			continue
		}
		for j := i + 1; j < len(shoes); j++ {
			if used[j] {
				continue
			}
			s2 := shoes[j]
			avgW := (s1.BBox.Width() + s2.BBox.Width()) / 2
			if geometry.IoU(s1.BBox, s2.BBox) > r.th.ShoeMergeIoU ||
				geometry.CenterDistance(s1.BBox, s2.BBox) < r.th.ShoeCenterDistFrac*avgW {
				pair := s1
				pair.BBox = geometry.Union(s1.BBox, s2.BBox)
				pair.Score = max(s1.Score, s2.Score)
				merged = append(merged, pair)
				used[i], used[j] = true, true
				r.log.Debug().Interface("bbox", pair.BBox).Msg("merged shoe pair")
				break
			}
		}
		if !used[i] {
			merged = append(merged, s1)
		}
	}
	return append(rest, merged...)
}

// ensureAccessory re-introduces the best accessory from pool when none
// survived, skipping weak bag detections.
func (r *Refiner) ensureAccessory(kept, pool []candidate) []candidate {
	for _, c := range kept {
		if r.policy.In(policy.GroupAccessories, c.Label) {
			return kept
		}
	}

	best := -1
	for i, c := range pool {
		if !r.policy.In(policy.GroupAccessories, c.Label) {
			continue
		}
		if c.Label == policy.LabelBag && c.Score < r.th.FallbackBagMinScore {
			continue
		}
		if best < 0 || c.Score > pool[best].Score {
			best = i
		}
	}
	if best < 0 {
		return kept
	}
	r.log.Debug().Str("label", pool[best].Label).Float64("score", pool[best].Score).
		Msg("adding accessory to ensure coverage")
	return append(kept, pool[best])
}

// dedupeByLabel keeps the strongest detection of each label. The shoe is
// placed last so it survives regardless of insertion order.
func (r *Refiner) dedupeByLabel(kept []candidate) []candidate {
	best := make(map[string]int, len(kept))
	var out []candidate
	for _, c := range kept {
		i, ok := best[c.Label]
		if !ok {
			best[c.Label] = len(out)
			out = append(out, c)
			continue
		}
		if c.Score > out[i].Score {
			out[i] = c
		}
	}

	if i, ok := best[policy.LabelShoe]; ok {
		shoe := out[i]
		out = append(out[:i], out[i+1:]...)
		out = append(out, shoe)
	}
	return out
}
