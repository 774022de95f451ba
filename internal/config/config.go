package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/menta2k/lookfinder/pkg/refine"
	"github.com/menta2k/lookfinder/pkg/search"
	"github.com/menta2k/lookfinder/pkg/trust"
)

// Supported detection backends.
const (
	BackendOllama   = "ollama"
	BackendLlamaCpp = "llamacpp"
)

var imageFormats = []string{"jpg", "jpeg", "png", "webp"}

// Config holds the application configuration
type Config struct {
	Refiner RefinerConfig `json:"refiner"`
	Search  SearchConfig  `json:"search"`
	Backend BackendConfig `json:"backend"`
	Trust   TrustConfig   `json:"trust"`
	Output  OutputConfig  `json:"output"`
}

// RefinerConfig holds the detection refinement parameters
type RefinerConfig struct {
	Threshold   float64           `json:"threshold"`
	ExpandRatio float64           `json:"expand_ratio"`
	MaxCrops    int               `json:"max_crops"`
	Thresholds  refine.Thresholds `json:"thresholds"`
}

// SearchConfig holds the search fan-out limits
type SearchConfig struct {
	MaxWorkers        int     `json:"max_workers"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RatePerSecond     float64 `json:"rate_per_second"`
	Burst             int     `json:"burst"`
	MaxHitsPerGarment int     `json:"max_hits_per_garment"`
}

// BackendConfig selects the vision model that proposes detections
type BackendConfig struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Model       string `json:"model"`
	SendFormat  string `json:"send_format"`
	SendMaxDim  int    `json:"send_max_dim"`
	SendQuality int    `json:"send_quality"`
}

// TrustConfig holds per-tier domain caps and additions to the banned list
type TrustConfig struct {
	Caps        trust.Caps `json:"caps"`
	ExtraBanned []string   `json:"extra_banned,omitempty"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	OutputDir string `json:"output_dir"`
	Extension string `json:"extension"`
	Quality   int    `json:"quality"`
	Lossless  bool   `json:"lossless"`
	Debug     bool   `json:"debug"`
}

// Default returns a configuration with default values
func Default() *Config {
	searchDefaults := search.DefaultConfig()
	return &Config{
		Refiner: RefinerConfig{
			Threshold:   refine.DefaultThreshold,
			ExpandRatio: refine.DefaultExpandRatio,
			MaxCrops:    refine.DefaultMaxCrops,
			Thresholds:  refine.DefaultThresholds(),
		},
		Search: SearchConfig{
			MaxWorkers:        searchDefaults.MaxWorkers,
			TimeoutSeconds:    int(searchDefaults.Timeout / time.Second),
			RatePerSecond:     float64(searchDefaults.RateLimit),
			Burst:             searchDefaults.Burst,
			MaxHitsPerGarment: searchDefaults.MaxHitsPerGarment,
		},
		Backend: BackendConfig{
			Name:        BackendOllama,
			URL:         "http://localhost:11434",
			Model:       "qwen2.5vl:7b",
			SendFormat:  "jpg",
			SendMaxDim:  1024,
			SendQuality: 85,
		},
		Trust: TrustConfig{
			Caps: trust.DefaultCaps(),
		},
		Output: OutputConfig{
			OutputDir: "./output",
			Extension: "jpg",
			Quality:   90,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Fields missing from
// the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Refiner.Threshold < 0 || c.Refiner.Threshold > 1 {
		return fmt.Errorf("refiner.threshold must be between 0 and 1")
	}

	if c.Refiner.ExpandRatio < 0 || c.Refiner.ExpandRatio > 1 {
		return fmt.Errorf("refiner.expand_ratio must be between 0 and 1")
	}

	if c.Refiner.MaxCrops < 1 {
		return fmt.Errorf("refiner.max_crops must be positive")
	}

	if c.Search.MaxWorkers < 1 {
		return fmt.Errorf("search.max_workers must be positive")
	}

	if c.Search.TimeoutSeconds < 1 {
		return fmt.Errorf("search.timeout_seconds must be positive")
	}

	if c.Search.RatePerSecond <= 0 || c.Search.Burst < 1 {
		return fmt.Errorf("search.rate_per_second and search.burst must be positive")
	}

	if c.Search.MaxHitsPerGarment < 0 {
		return fmt.Errorf("search.max_hits_per_garment cannot be negative")
	}

	if c.Backend.Name != BackendOllama && c.Backend.Name != BackendLlamaCpp {
		return fmt.Errorf("backend.name must be %q or %q", BackendOllama, BackendLlamaCpp)
	}

	if !slices.Contains(imageFormats, c.Backend.SendFormat) {
		return fmt.Errorf("backend.send_format must be one of %v", imageFormats)
	}

	if c.Backend.SendQuality < 1 || c.Backend.SendQuality > 100 {
		return fmt.Errorf("backend.send_quality must be between 1 and 100")
	}

	if !slices.Contains(imageFormats, c.Output.Extension) {
		return fmt.Errorf("output.extension must be one of %v", imageFormats)
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	if _, err := c.TrustTable(); err != nil {
		return fmt.Errorf("trust: %w", err)
	}

	return nil
}

// Options returns the refiner options for an image of the given size
func (c *Config) Options(imageWidth, imageHeight int) refine.Options {
	return refine.Options{
		Threshold:   c.Refiner.Threshold,
		ExpandRatio: c.Refiner.ExpandRatio,
		MaxCrops:    c.Refiner.MaxCrops,
		ImageWidth:  imageWidth,
		ImageHeight: imageHeight,
	}
}

// SearchLimits converts the search section into pipeline limits
func (c *Config) SearchLimits() search.Config {
	cfg := search.DefaultConfig()
	cfg.MaxWorkers = c.Search.MaxWorkers
	cfg.Timeout = time.Duration(c.Search.TimeoutSeconds) * time.Second
	cfg.RateLimit = rate.Limit(c.Search.RatePerSecond)
	cfg.Burst = c.Search.Burst
	cfg.MaxHitsPerGarment = c.Search.MaxHitsPerGarment
	return cfg
}

// TrustTable builds the domain trust table from the default lists, the
// extra banned domains and the configured caps.
func (c *Config) TrustTable() (*trust.Table, error) {
	lists := trust.DefaultLists()
	lists.Banned = append(lists.Banned, c.Trust.ExtraBanned...)
	return trust.New(lists, c.Trust.Caps)
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "lookfinder", "config.json")
}
