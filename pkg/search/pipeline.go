// Package search fans a visual search out over the kept detections of an
// image and reduces the pooled hits to a ranked, domain-capped result list.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/menta2k/lookfinder/pkg/normalize"
	"github.com/menta2k/lookfinder/pkg/rank"
	"github.com/menta2k/lookfinder/pkg/types"
)

// Config holds the fan-out limits of a Pipeline.
type Config struct {
	// MaxWorkers bounds concurrent searches; the effective pool size is
	// min(MaxWorkers, number of crops).
	MaxWorkers int
	// Timeout bounds each search branch, upload included.
	Timeout time.Duration
	// RateLimit and Burst throttle calls to the upstream searcher.
	RateLimit rate.Limit
	Burst     int
	// MaxHitsPerGarment caps the filtered hits kept per branch; 0 keeps all.
	MaxHitsPerGarment int
	Uploader          Uploader
	Logger            zerolog.Logger
}

// DefaultConfig returns the standard pipeline limits.
func DefaultConfig() Config {
	return Config{
		MaxWorkers:        4,
		Timeout:           25 * time.Second,
		RateLimit:         rate.Every(200 * time.Millisecond),
		Burst:             4,
		MaxHitsPerGarment: 20,
		Logger:            zerolog.Nop(),
	}
}

// Crop is a kept detection together with its encoded crop.
type Crop struct {
	Detection types.Detection
	Data      []byte
}

// Outcome is the aggregate of one pipeline run.
type Outcome struct {
	DetectedGarment *types.Detection         `json:"detected_garment,omitempty"`
	Searched        int                      `json:"searched"`
	Failed          int                      `json:"failed"`
	RawHits         int                      `json:"raw_hits"`
	TotalResults    int                      `json:"total_results"`
	Results         []types.NormalizedResult `json:"results"`
	// CacheKeys maps a result id to the hash of its purchase URL.
	CacheKeys map[string]string `json:"cache_keys,omitempty"`
}

// Pipeline searches every crop and ranks the pooled results.
type Pipeline struct {
	searcher   Searcher
	normalizer *normalize.Normalizer
	ranker     *rank.Ranker
	limiter    *rate.Limiter
	cfg        Config
	log        zerolog.Logger
	tracer     trace.Tracer
}

// NewPipeline creates a Pipeline. Zero limits in cfg fall back to
// DefaultConfig.
func NewPipeline(s Searcher, n *normalize.Normalizer, r *rank.Ranker, cfg Config) *Pipeline {
	def := DefaultConfig()
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = def.MaxWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = def.RateLimit
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	return &Pipeline{
		searcher:   s,
		normalizer: n,
		ranker:     r,
		limiter:    rate.NewLimiter(cfg.RateLimit, cfg.Burst),
		cfg:        cfg,
		log:        cfg.Logger,
		tracer:     otel.Tracer("pkg/search"),
	}
}

type batch struct {
	hits []types.SearchHit
	err  error
}

// Run searches all crops concurrently. A branch that fails or times out is
// logged and contributes no hits; the outcome is built from the branches
// that completed. The returned error is non-nil only when ctx itself was
// cancelled, in which case the partial outcome is still returned.
func (p *Pipeline) Run(ctx context.Context, crops []Crop) (*Outcome, error) {
	out := &Outcome{Results: []types.NormalizedResult{}}
	if len(crops) == 0 {
		return out, nil
	}
	det := crops[0].Detection
	out.DetectedGarment = &det

	ctx, span := p.tracer.Start(ctx, "search.run", trace.WithAttributes(attribute.Int("crops", len(crops))))
	defer span.End()

	batches := make([]batch, len(crops))
	var g errgroup.Group
	g.SetLimit(min(p.cfg.MaxWorkers, len(crops)))
	for i, c := range crops {
		g.Go(func() error {
			batches[i] = p.searchOne(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	// batches are pooled in crop order so arrival order never matters
	var pooled []types.SearchHit
	for i, b := range batches {
		out.Searched++
		if b.err != nil {
			out.Failed++
			p.log.Warn().Err(b.err).Str("garment", crops[i].Detection.ID).
				Str("label", crops[i].Detection.Label).Msg("search branch failed")
			continue
		}
		pooled = append(pooled, b.hits...)
	}
	out.RawHits = len(pooled)

	results := p.ranker.PreFilter(p.normalizer.NormalizeAll(pooled))
	out.Results = p.ranker.RankAndDedupe(results)
	if out.Results == nil {
		out.Results = []types.NormalizedResult{}
	}
	out.TotalResults = len(out.Results)
	out.CacheKeys = make(map[string]string, len(out.Results))
	for _, r := range out.Results {
		out.CacheKeys[r.ID] = HashURL(r.PurchaseURL)
	}
	span.SetAttributes(attribute.Int("results", out.TotalResults), attribute.Int("failed", out.Failed))

	p.log.Info().Int("garments", len(crops)).Int("failed", out.Failed).Int("raw_hits", out.RawHits).
		Int("results", out.TotalResults).Msg("search pipeline complete")

	if err := ctx.Err(); err != nil {
		return out, fmt.Errorf("search interrupted: %w", err)
	}
	return out, nil
}

func (p *Pipeline) searchOne(ctx context.Context, c Crop) batch {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	ctx, span := p.tracer.Start(ctx, "search.garment", trace.WithAttributes(
		attribute.String("garment.id", c.Detection.ID),
		attribute.String("garment.label", c.Detection.Label),
	))
	defer span.End()

	hits, err := p.search(ctx, c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return batch{err: err}
	}

	hits = p.normalizer.FilterHits(hits)
	if p.cfg.MaxHitsPerGarment > 0 && len(hits) > p.cfg.MaxHitsPerGarment {
		hits = hits[:p.cfg.MaxHitsPerGarment]
	}
	span.SetAttributes(attribute.Int("hits", len(hits)))
	return batch{hits: hits}
}

func (p *Pipeline) search(ctx context.Context, c Crop) ([]types.SearchHit, error) {
	q := Query{Detection: c.Detection, Crop: c.Data}
	if p.cfg.Uploader != nil {
		u, err := p.cfg.Uploader.Upload(ctx, c.Detection, c.Data)
		if err != nil {
			return nil, fmt.Errorf("upload failed: %w", err)
		}
		q.ImageURL = u
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	hits, err := p.searcher.Search(ctx, q)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("search timed out after %s: %w", p.cfg.Timeout, err)
		}
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return hits, nil
}
