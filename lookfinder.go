// Package lookfinder finds shoppable matches for the garments worn in a
// photo.
//
// A vision model proposes raw detections for an image. The refiner reduces
// them to a short list of distinct garments, each garment is cropped and
// sent to a visual search provider, and the pooled hits are normalized,
// ranked and capped per shop domain.
//
// Basic usage:
//
//	finder := lookfinder.New()
//
//	img, err := finder.LoadImage("look.jpg")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	searcher, err := search.NewFileSearcher("hits.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	report, err := finder.ProcessImage(ctx, img, detections, searcher)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, r := range report.Search.Results {
//		fmt.Println(r.Brand, r.ProductName, r.PurchaseURL)
//	}
//
// The components can also be used on their own:
//
//  1. Refiner (pkg/refine): detection filtering, merging and deduplication
//  2. Normalizer (pkg/normalize): search hit cleanup and categorisation
//  3. Ranker (pkg/rank): trust-tier scoring and per-domain caps
//  4. Pipeline (pkg/search): concurrent search over the kept garments
package lookfinder

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/menta2k/lookfinder/pkg/client"
	"github.com/menta2k/lookfinder/pkg/normalize"
	"github.com/menta2k/lookfinder/pkg/policy"
	"github.com/menta2k/lookfinder/pkg/processing"
	"github.com/menta2k/lookfinder/pkg/rank"
	"github.com/menta2k/lookfinder/pkg/refine"
	"github.com/menta2k/lookfinder/pkg/search"
	"github.com/menta2k/lookfinder/pkg/trust"
	"github.com/menta2k/lookfinder/pkg/types"
)

// Version of the lookfinder library
const Version = "1.0.0"

// Config wires the components of a Finder. Zero values fall back to the
// defaults of each component.
type Config struct {
	Policy     *policy.Policy
	Trust      *trust.Table
	Thresholds *refine.Thresholds
	// Options are the refinement options; image size is filled in per image.
	// A non-positive Threshold or MaxCrops takes the refiner default.
	Options refine.Options
	Search  search.Config
	// Crop controls how crops are encoded before they are searched.
	Crop   types.CropConfig
	Logger zerolog.Logger
}

// DefaultConfig returns the default Finder configuration.
func DefaultConfig() Config {
	return Config{
		Options: refine.DefaultOptions(0, 0),
		Search:  search.DefaultConfig(),
		Crop:    types.CropConfig{Quality: 90, Extension: "jpg"},
		Logger:  zerolog.Nop(),
	}
}

// Finder provides a high-level interface for detection refinement and search
type Finder struct {
	policy     *policy.Policy
	trust      *trust.Table
	refiner    *refine.Refiner
	normalizer *normalize.Normalizer
	ranker     *rank.Ranker
	processor  *processing.Processor
	cfg        Config
	log        zerolog.Logger
}

// New creates a new Finder with default configuration
func New() *Finder {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a new Finder with custom configuration
func NewWithConfig(cfg Config) *Finder {
	if cfg.Policy == nil {
		cfg.Policy = policy.Default()
	}
	if cfg.Trust == nil {
		cfg.Trust = trust.Default()
	}
	def := refine.DefaultOptions(0, 0)
	if cfg.Options == (refine.Options{}) {
		cfg.Options = def
	}
	if cfg.Options.Threshold <= 0 {
		cfg.Options.Threshold = def.Threshold
	}
	if cfg.Options.MaxCrops <= 0 {
		cfg.Options.MaxCrops = def.MaxCrops
	}
	th := refine.DefaultThresholds()
	if cfg.Thresholds != nil {
		th = *cfg.Thresholds
	}
	if cfg.Crop.Extension == "" {
		cfg.Crop.Extension = "jpg"
	}
	if cfg.Crop.Quality <= 0 {
		cfg.Crop.Quality = 90
	}
	cfg.Search.Logger = cfg.Logger

	return &Finder{
		policy: cfg.Policy,
		trust:  cfg.Trust,
		refiner: refine.NewWithConfig(refine.Config{
			Policy:     cfg.Policy,
			Thresholds: th,
			Logger:     cfg.Logger.With().Str("component", "refine").Logger(),
		}),
		normalizer: normalize.NewWithConfig(normalize.Config{
			Policy: cfg.Policy,
			Trust:  cfg.Trust,
			Logger: cfg.Logger.With().Str("component", "normalize").Logger(),
		}),
		ranker: rank.NewWithConfig(rank.Config{
			Trust:  cfg.Trust,
			Logger: cfg.Logger.With().Str("component", "rank").Logger(),
		}),
		processor: processing.NewProcessor(),
		cfg:       cfg,
		log:       cfg.Logger,
	}
}

// Report contains the results of processing one image
type Report struct {
	// ImageHash identifies the source image when the caller sets it.
	ImageHash    string                `json:"image_hash,omitempty"`
	Width        int                   `json:"width"`
	Height       int                   `json:"height"`
	InitialCount int                   `json:"initial_count"`
	Detections   []types.Detection     `json:"detections"`
	CropBoxes    []types.BoundingBox   `json:"crop_boxes"`
	Skipped      []string              `json:"skipped,omitempty"`
	Hints        policy.RelevanceHints `json:"relevance_hints"`
	Search       *search.Outcome       `json:"search,omitempty"`
	// Crops are the encoded crops that were searched.
	Crops []search.Crop `json:"-"`
}

// LoadImage loads an image from file
func (f *Finder) LoadImage(path string) (image.Image, error) {
	return f.processor.LoadImage(path)
}

// Processor returns the image processor used for cropping and encoding
func (f *Finder) Processor() *processing.Processor {
	return f.processor
}

// RelevanceHints returns the terms clients can use to pre-filter results
func (f *Finder) RelevanceHints() policy.RelevanceHints {
	return f.policy.RelevanceHints()
}

// Options returns the refinement options for img
func (f *Finder) Options(img image.Image) refine.Options {
	opts := f.cfg.Options
	opts.ImageWidth = img.Bounds().Dx()
	opts.ImageHeight = img.Bounds().Dy()
	return opts
}

// Detect asks src for raw detections. The image is downscaled and encoded
// per send before it is sent; boxes come back in img's pixel space.
func (f *Finder) Detect(ctx context.Context, src client.DetectionSource, model string, img image.Image, send SendOptions) ([]types.Detection, error) {
	b64, err := f.processor.PrepareImageForModel(img, send.Format, send.MaxDim, send.Quality)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image: %w", err)
	}
	dets, err := src.Detect(ctx, model, b64, img.Bounds().Dx(), img.Bounds().Dy())
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}
	return dets, nil
}

// SendOptions control the image sent to a vision model
type SendOptions struct {
	Format  string
	MaxDim  int
	Quality int
}

// Refine reduces raw detections to the kept garments
func (f *Finder) Refine(dets []types.Detection, opts refine.Options) (refine.Result, error) {
	return f.refiner.Refine(dets, opts)
}

// Crop cuts and encodes each kept detection. Crops below the minimum search
// size are skipped and their ids returned.
func (f *Finder) Crop(img image.Image, res refine.Result) ([]search.Crop, []string, error) {
	crops := make([]search.Crop, 0, len(res.Kept))
	var skipped []string
	for i, det := range res.Kept {
		cropped, err := f.processor.CropToBox(img, res.CropBoxes[i])
		if err != nil {
			if errors.Is(err, processing.ErrCropTooSmall) {
				f.log.Debug().Str("garment", det.ID).Str("label", det.Label).Err(err).Msg("skipping crop")
				skipped = append(skipped, det.ID)
				continue
			}
			return nil, nil, fmt.Errorf("failed to crop %s: %w", det.ID, err)
		}

		data, err := f.processor.Encode(cropped, f.cfg.Crop.Extension, f.cfg.Crop.Quality, f.cfg.Crop.Lossless)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode %s: %w", det.ID, err)
		}
		crops = append(crops, search.Crop{Detection: det, Data: data})
	}
	return crops, skipped, nil
}

// Search runs the search pipeline over crops
func (f *Finder) Search(ctx context.Context, s search.Searcher, crops []search.Crop) (*search.Outcome, error) {
	p := search.NewPipeline(s, f.normalizer, f.ranker, f.cfg.Search)
	return p.Run(ctx, crops)
}

// ProcessImage refines dets for img, crops the kept garments and searches
// them. A nil searcher stops after cropping. When ctx is cancelled during
// the search the partial report is returned with the error.
func (f *Finder) ProcessImage(ctx context.Context, img image.Image, dets []types.Detection, s search.Searcher) (*Report, error) {
	opts := f.Options(img)
	res, err := f.Refine(dets, opts)
	if err != nil {
		return nil, fmt.Errorf("refinement failed: %w", err)
	}

	report := &Report{
		Width:        opts.ImageWidth,
		Height:       opts.ImageHeight,
		InitialCount: res.InitialCount,
		Detections:   res.Kept,
		CropBoxes:    res.CropBoxes,
		Hints:        f.RelevanceHints(),
	}

	report.Crops, report.Skipped, err = f.Crop(img, res)
	if err != nil {
		return nil, err
	}

	f.log.Info().Int("raw", len(dets)).Int("kept", len(res.Kept)).
		Int("crops", len(report.Crops)).Msg("image refined")

	if s == nil {
		return report, nil
	}

	report.Search, err = f.Search(ctx, s, report.Crops)
	return report, err
}
