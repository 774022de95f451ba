package refine

// Thresholds are the tuned constants of the refinement passes. Relative
// values are fractions of the image width or height.
type Thresholds struct {
	HeadwearMaxWidth  float64 `json:"headwear_max_width"`
	HeadwearMaxHeight float64 `json:"headwear_max_height"`
	HeadwearMaxTop    float64 `json:"headwear_max_top"`
	HeadwearMaxBottom float64 `json:"headwear_max_bottom"`
	HeadwearMinAspect float64 `json:"headwear_min_aspect"`
	HeadwearMaxAspect float64 `json:"headwear_max_aspect"`
	HeadwearMinScore  float64 `json:"headwear_min_score"`

	PantsMinHeight float64 `json:"pants_min_height"`

	DressContainment  float64 `json:"dress_containment"`
	DressKeepScore    float64 `json:"dress_keep_score"`
	DressMidScore     float64 `json:"dress_mid_score"`
	DressMidPairAvg   float64 `json:"dress_mid_pair_avg"`
	DressLowPairAvg   float64 `json:"dress_low_pair_avg"`
	DressDemoteFactor float64 `json:"dress_demote_factor"`
	// DemotedPriorityPenalty is subtracted from the priority of a demoted
	// dress so it sorts after the separates it contains.
	DemotedPriorityPenalty int `json:"demoted_priority_penalty"`

	CoatMergeIoU     float64 `json:"coat_merge_iou"`
	CoatMergeOverlap float64 `json:"coat_merge_overlap"`

	InnerSuppressOverlap float64 `json:"inner_suppress_overlap"`
	BagKeepScore         float64 `json:"bag_keep_score"`
	AccessoryLine        float64 `json:"accessory_line"`

	LongOuterBottom     float64 `json:"long_outer_bottom"`
	LongOuterMinScore   float64 `json:"long_outer_min_score"`
	PantsCoveredOverlap float64 `json:"pants_covered_overlap"`

	ShoeMergeIoU       float64 `json:"shoe_merge_iou"`
	ShoeCenterDistFrac float64 `json:"shoe_center_dist_frac"`

	FallbackBagMinScore float64 `json:"fallback_bag_min_score"`
}

// DefaultThresholds returns the production-tuned thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HeadwearMaxWidth:  0.40,
		HeadwearMaxHeight: 0.35,
		HeadwearMaxTop:    0.25,
		HeadwearMaxBottom: 0.60,
		HeadwearMinAspect: 0.4,
		HeadwearMaxAspect: 2.5,
		HeadwearMinScore:  0.515,

		PantsMinHeight: 0.20,

		DressContainment:       0.5,
		DressKeepScore:         0.75,
		DressMidScore:          0.50,
		DressMidPairAvg:        0.45,
		DressLowPairAvg:        0.35,
		DressDemoteFactor:      0.5,
		DemotedPriorityPenalty: 1,

		CoatMergeIoU:     0.5,
		CoatMergeOverlap: 0.6,

		InnerSuppressOverlap: 0.7,
		BagKeepScore:         0.55,
		AccessoryLine:        0.35,

		LongOuterBottom:     0.7,
		LongOuterMinScore:   0.5,
		PantsCoveredOverlap: 0.6,

		ShoeMergeIoU:       0.1,
		ShoeCenterDistFrac: 0.3,

		FallbackBagMinScore: 0.40,
	}
}
