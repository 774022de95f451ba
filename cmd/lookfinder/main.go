package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/menta2k/lookfinder"
	"github.com/menta2k/lookfinder/internal/config"
	"github.com/menta2k/lookfinder/internal/utils"
	"github.com/menta2k/lookfinder/pkg/client"
	"github.com/menta2k/lookfinder/pkg/detection"
	"github.com/menta2k/lookfinder/pkg/llamacpp"
	"github.com/menta2k/lookfinder/pkg/ollama"
	"github.com/menta2k/lookfinder/pkg/processing"
	"github.com/menta2k/lookfinder/pkg/search"
	"github.com/menta2k/lookfinder/pkg/types"
)

type debugEntry struct {
	File  string            `json:"file"`
	Label string            `json:"label"`
	Score float64           `json:"score"`
	BBox  types.BoundingBox `json:"bbox"`
}

func main() {
	var in, detectionsPath, hitsPath, configPath string
	var verbose, saveConfig bool

	cfg := config.Default()

	flag.StringVar(&in, "in", "", "input image path (jpg/png/webp)")
	flag.StringVar(&detectionsPath, "detections", "", "JSON file of raw detections in pixel coordinates; when empty the vision backend is asked")
	flag.StringVar(&hitsPath, "hits", "", "JSON file of recorded search hits keyed by garment id or label; when empty no search is run")
	flag.StringVar(&configPath, "config", "", "config file (default "+config.GetConfigPath()+" when present)")
	flag.BoolVar(&saveConfig, "save-config", false, "write the effective configuration to -config and exit")
	flag.BoolVar(&verbose, "v", false, "debug logging")

	flag.StringVar(&cfg.Output.OutputDir, "out", cfg.Output.OutputDir, "output directory")
	flag.StringVar(&cfg.Backend.Name, "backend", cfg.Backend.Name, "backend to use: ollama or llamacpp")
	flag.StringVar(&cfg.Backend.URL, "url", cfg.Backend.URL, "vision server URL")
	flag.StringVar(&cfg.Backend.Model, "model", cfg.Backend.Model, "model name")
	flag.StringVar(&cfg.Backend.SendFormat, "sendfmt", cfg.Backend.SendFormat, "format sent to the model: jpg|png")
	flag.IntVar(&cfg.Backend.SendMaxDim, "sendsize", cfg.Backend.SendMaxDim, "max long side sent to the model (px), 0=original")
	flag.IntVar(&cfg.Backend.SendQuality, "sendq", cfg.Backend.SendQuality, "JPEG quality for image sent to the model (1-100)")

	flag.Float64Var(&cfg.Refiner.Threshold, "threshold", cfg.Refiner.Threshold, "minimum detection score")
	flag.Float64Var(&cfg.Refiner.ExpandRatio, "expand", cfg.Refiner.ExpandRatio, "crop box expansion ratio")
	flag.IntVar(&cfg.Refiner.MaxCrops, "max-crops", cfg.Refiner.MaxCrops, "maximum number of garments")

	flag.StringVar(&cfg.Output.Extension, "ext", cfg.Output.Extension, "output format for crops: jpg|png|webp")
	flag.IntVar(&cfg.Output.Quality, "quality", cfg.Output.Quality, "JPEG/WebP output quality for crops (1-100)")
	flag.BoolVar(&cfg.Output.Lossless, "lossless", cfg.Output.Lossless, "WebP output lossless mode for crops")
	flag.BoolVar(&cfg.Output.Debug, "debug", cfg.Output.Debug, "write a box overlay and debug_results.json")

	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := loadConfig(cfg, configPath); err != nil && !(saveConfig && errors.Is(err, os.ErrNotExist)) {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if saveConfig {
		path := configPath
		if path == "" {
			path = config.GetConfigPath()
		}
		if err := cfg.SaveToFile(path); err != nil {
			log.Fatal().Err(err).Msg("failed to save config")
		}
		log.Info().Str("path", path).Msg("config saved")
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if in == "" {
		log.Fatal().Msgf("usage: %s -in image.jpg [-detections dets.json | -backend ollama|llamacpp -url server_url -model name] [-hits hits.json] [-out outdir] [-debug]", filepath.Base(os.Args[0]))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, in, detectionsPath, hitsPath); err != nil {
		log.Fatal().Err(err).Msg("lookfinder failed")
	}
}

// loadConfig merges the config file into cfg, letting flags set on the
// command line win.
func loadConfig(cfg *config.Config, path string) error {
	if path == "" {
		path = config.GetConfigPath()
		if !utils.FileExists(path) {
			return nil
		}
	}

	fromFile, err := config.LoadFromFile(path)
	if err != nil {
		return err
	}

	// reapply explicit flags on top of the file
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	flagged := *cfg
	*cfg = *fromFile
	overrides := map[string]func(){
		"out":       func() { cfg.Output.OutputDir = flagged.Output.OutputDir },
		"backend":   func() { cfg.Backend.Name = flagged.Backend.Name },
		"url":       func() { cfg.Backend.URL = flagged.Backend.URL },
		"model":     func() { cfg.Backend.Model = flagged.Backend.Model },
		"sendfmt":   func() { cfg.Backend.SendFormat = flagged.Backend.SendFormat },
		"sendsize":  func() { cfg.Backend.SendMaxDim = flagged.Backend.SendMaxDim },
		"sendq":     func() { cfg.Backend.SendQuality = flagged.Backend.SendQuality },
		"threshold": func() { cfg.Refiner.Threshold = flagged.Refiner.Threshold },
		"expand":    func() { cfg.Refiner.ExpandRatio = flagged.Refiner.ExpandRatio },
		"max-crops": func() { cfg.Refiner.MaxCrops = flagged.Refiner.MaxCrops },
		"ext":       func() { cfg.Output.Extension = flagged.Output.Extension },
		"quality":   func() { cfg.Output.Quality = flagged.Output.Quality },
		"lossless":  func() { cfg.Output.Lossless = flagged.Output.Lossless },
		"debug":     func() { cfg.Output.Debug = flagged.Output.Debug },
	}
	for name, apply := range overrides {
		if set[name] {
			apply()
		}
	}
	log.Debug().Str("path", path).Msg("loaded config file")
	return nil
}

func run(ctx context.Context, cfg *config.Config, in, detectionsPath, hitsPath string) error {
	table, err := cfg.TrustTable()
	if err != nil {
		return err
	}

	fcfg := lookfinder.DefaultConfig()
	fcfg.Trust = table
	fcfg.Thresholds = &cfg.Refiner.Thresholds
	fcfg.Options = cfg.Options(0, 0)
	fcfg.Search = cfg.SearchLimits()
	fcfg.Crop = types.CropConfig{Quality: cfg.Output.Quality, Lossless: cfg.Output.Lossless, Extension: cfg.Output.Extension}
	fcfg.Logger = log.Logger
	finder := lookfinder.NewWithConfig(fcfg)
	processor := finder.Processor()

	outDir := cfg.Output.OutputDir
	if err := utils.EnsureDir(outDir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	img, err := finder.LoadImage(in)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	dets, err := rawDetections(ctx, cfg, finder, detectionsPath, img)
	if err != nil {
		return err
	}

	var searcher search.Searcher
	if hitsPath != "" {
		fs, err := search.NewFileSearcher(hitsPath)
		if err != nil {
			return err
		}
		searcher = fs
	}

	report, runErr := finder.ProcessImage(ctx, img, dets, searcher)
	if report == nil {
		return runErr
	}
	if runErr != nil {
		log.Warn().Err(runErr).Msg("search interrupted, writing partial results")
	}
	if data, err := os.ReadFile(in); err == nil {
		report.ImageHash = processing.HashImage(data)
	}

	ext := strings.ToLower(cfg.Output.Extension)
	var debugEntries []debugEntry
	for i, c := range report.Crops {
		name := utils.SanitizeFilename(fmt.Sprintf("%03d_%s_%s", i+1, c.Detection.ID, c.Detection.Label)) + "." + ext
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, c.Data, 0o644); err != nil {
			log.Error().Err(err).Str("path", path).Msg("save crop failed")
			continue
		}
		log.Info().Str("path", path).Str("label", c.Detection.Label).Float64("score", c.Detection.Score).Msg("wrote crop")
		debugEntries = append(debugEntries, debugEntry{File: name, Label: c.Detection.Label, Score: c.Detection.Score, BBox: c.Detection.BBox})
	}

	if cfg.Output.Debug {
		overlay := processor.CreateDebugOverlay(img, report.Detections, report.CropBoxes)
		path := filepath.Join(outDir, "debug_boxes."+ext)
		if err := processor.SaveImage(overlay, path, ext, cfg.Output.Quality, cfg.Output.Lossless); err != nil {
			log.Error().Err(err).Msg("debug overlay save failed")
		} else {
			log.Info().Str("path", path).Msg("wrote debug overlay")
		}
		if err := writeJSON(filepath.Join(outDir, "debug_results.json"), debugEntries); err != nil {
			log.Error().Err(err).Msg("debug results save failed")
		}
	}

	if err := writeJSON(filepath.Join(outDir, "results.json"), report); err != nil {
		return err
	}

	total := 0
	if report.Search != nil {
		total = report.Search.TotalResults
	}
	log.Info().Int("garments", len(report.Detections)).Int("crops", len(report.Crops)).
		Int("results", total).Str("out", outDir).Msg("done")
	return runErr
}

// rawDetections reads detections from path, or asks the configured vision
// backend when path is empty.
func rawDetections(ctx context.Context, cfg *config.Config, finder *lookfinder.Finder, path string, img image.Image) ([]types.Detection, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read detections: %w", err)
		}
		dets, err := detection.ParseDetections(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse detections: %w", err)
		}
		log.Info().Int("count", len(dets)).Str("path", path).Msg("loaded detections")
		return dets, nil
	}

	vc, err := newVisionClient(cfg.Backend)
	if err != nil {
		return nil, err
	}
	detector := detection.NewDetectorWithConfig(vc, detection.Config{Logger: log.Logger})
	dets, err := finder.Detect(ctx, detector, cfg.Backend.Model, img, lookfinder.SendOptions{
		Format:  cfg.Backend.SendFormat,
		MaxDim:  cfg.Backend.SendMaxDim,
		Quality: cfg.Backend.SendQuality,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int("count", len(dets)).Str("backend", cfg.Backend.Name).Str("model", cfg.Backend.Model).Msg("model detections")
	return dets, nil
}

func newVisionClient(b config.BackendConfig) (client.VisionClient, error) {
	switch b.Name {
	case config.BackendOllama:
		c, err := ollama.NewClient(b.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return c, nil
	case config.BackendLlamaCpp:
		c, err := llamacpp.NewClient(b.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create llama.cpp client: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s (use 'ollama' or 'llamacpp')", b.Name)
	}
}

func writeJSON(path string, v any) error {
	js, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, js, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
