// Package refine turns the raw detections of one image into a short,
// ordered list of distinct garments.
//
// Refine runs a fixed sequence of deterministic passes: vocabulary and
// threshold filtering, geometric false-positive guards, priority sorting,
// dress-versus-separates resolution, a containment/merge worklist, long
// outerwear pants suppression, shoe clustering, an accessory fallback and a
// final per-label deduplication. A Refiner holds no per-request state and
// is safe for concurrent use.
package refine

import (
	"fmt"
	"math"
	"slices"

	"github.com/rs/zerolog"

	"github.com/menta2k/lookfinder/pkg/geometry"
	"github.com/menta2k/lookfinder/pkg/policy"
	"github.com/menta2k/lookfinder/pkg/types"
)

// Defaults for Options.
const (
	DefaultThreshold   = 0.275
	DefaultExpandRatio = 0.1
	DefaultMaxCrops    = 4
)

// Options are the per-request parameters of a refinement pass.
type Options struct {
	Threshold   float64
	ExpandRatio float64
	// MaxCrops caps the number of kept detections; <= 0 disables the cap.
	MaxCrops    int
	ImageWidth  int
	ImageHeight int
}

// DefaultOptions returns the default options for an image of the given size.
func DefaultOptions(imageWidth, imageHeight int) Options {
	return Options{
		Threshold:   DefaultThreshold,
		ExpandRatio: DefaultExpandRatio,
		MaxCrops:    DefaultMaxCrops,
		ImageWidth:  imageWidth,
		ImageHeight: imageHeight,
	}
}

// Result is the outcome of one refinement pass.
type Result struct {
	Kept []types.Detection `json:"kept"`
	// InitialCount is the number of detections that survived the filters
	// and priority sort, before any merging.
	InitialCount int `json:"initial_count"`
	// CropBoxes holds the expanded crop box of each kept detection.
	CropBoxes []types.BoundingBox `json:"crop_boxes"`
}

// Config holds the refiner's policy, thresholds and logger.
type Config struct {
	Policy     *policy.Policy
	Thresholds Thresholds
	Logger     zerolog.Logger
}

// Refiner applies the refinement passes.
type Refiner struct {
	policy *policy.Policy
	th     Thresholds
	log    zerolog.Logger
}

// New creates a Refiner with default thresholds and no logging.
func New(p *policy.Policy) *Refiner {
	return NewWithConfig(Config{
		Policy:     p,
		Thresholds: DefaultThresholds(),
		Logger:     zerolog.Nop(),
	})
}

// NewWithConfig creates a Refiner with custom configuration.
func NewWithConfig(cfg Config) *Refiner {
	if cfg.Policy == nil {
		cfg.Policy = policy.Default()
	}
	return &Refiner{policy: cfg.Policy, th: cfg.Thresholds, log: cfg.Logger}
}

// candidate carries a detection through the passes together with its
// demotion state, which lowers its effective priority.
type candidate struct {
	types.Detection
	demoted bool
}

// Refine runs every pass over dets and returns the kept detections.
// dets is not modified. Malformed boxes or image sizes are rejected with a
// *types.ValidationError.
func (r *Refiner) Refine(dets []types.Detection, opts Options) (Result, error) {
	if err := validate(dets, opts); err != nil {
		return Result{}, err
	}

	pool := r.filter(dets, opts)
	r.sortByPriority(pool)
	initial := len(pool)
	r.log.Debug().Int("count", initial).Msg("initial garment candidates")

	if r.resolveDresses(pool) {
		r.sortByPriority(pool)
	}

	kept := r.mergeContained(pool, opts)
	kept = r.suppressCoveredPants(kept, opts)
	kept = r.clusterShoes(kept)
	kept = r.ensureAccessory(kept, pool)
	kept = r.dedupeByLabel(kept)
	r.sortByPriority(kept)
	if opts.MaxCrops > 0 && len(kept) > opts.MaxCrops {
		kept = kept[:opts.MaxCrops]
	}

	res := Result{
		Kept:         make([]types.Detection, len(kept)),
		InitialCount: initial,
		CropBoxes:    make([]types.BoundingBox, len(kept)),
	}
	for i, c := range kept {
		d := c.Detection
		d.ID = fmt.Sprintf("garment_%d", i+1)
		res.Kept[i] = d
		res.CropBoxes[i] = geometry.Expand(d.BBox, opts.ImageWidth, opts.ImageHeight, opts.ExpandRatio)
		r.log.Debug().Str("id", d.ID).Str("label", d.Label).Float64("score", d.Score).Msg("kept garment")
	}
	return res, nil
}

// rank is the effective priority used for ordering.
func (r *Refiner) rank(c candidate) int {
	p := r.policy.Priority(c.Label)
	if c.demoted {
		p -= r.th.DemotedPriorityPenalty
	}
	return p
}

// sortByPriority orders candidates by (rank, score) descending, keeping
// the input order of exact ties.
func (r *Refiner) sortByPriority(cs []candidate) {
	slices.SortStableFunc(cs, func(a, b candidate) int {
		if ra, rb := r.rank(a), r.rank(b); ra != rb {
			return rb - ra
		}
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
}

func validate(dets []types.Detection, opts Options) error {
	if opts.ImageWidth <= 0 || opts.ImageHeight <= 0 {
		return types.NewValidationError("image_size",
			fmt.Sprintf("%dx%d", opts.ImageWidth, opts.ImageHeight), types.ErrInvalidImageSize)
	}
	for _, d := range dets {
		if err := geometry.Validate(d.BBox); err != nil {
			return err
		}
		if math.IsNaN(d.Score) || d.Score < 0 || d.Score > 1 {
			return types.NewValidationError("score", fmt.Sprintf("%g", d.Score), types.ErrInvalidScore)
		}
	}
	return nil
}
