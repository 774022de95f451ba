package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/menta2k/lookfinder/internal/utils"
	"github.com/menta2k/lookfinder/pkg/types"
)

// Query is one visual search request for a kept detection.
type Query struct {
	Detection types.Detection
	// ImageURL is the public URL of the crop when an Uploader is configured.
	ImageURL string
	// Crop is the encoded crop image.
	Crop []byte
}

// Searcher runs a visual search for one crop.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]types.SearchHit, error)
}

// Uploader publishes a crop and returns a URL a Searcher can fetch.
type Uploader interface {
	Upload(ctx context.Context, det types.Detection, crop []byte) (string, error)
}

// FileSearcher answers queries from recorded search batches. The file is a
// JSON object mapping a detection ID or label to a list of hits; the ID
// takes precedence.
type FileSearcher struct {
	batches map[string][]types.SearchHit
}

// NewFileSearcher loads recorded batches from path.
func NewFileSearcher(path string) (*FileSearcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read search batches: %w", err)
	}

	var batches map[string][]types.SearchHit
	if err := json.Unmarshal(data, &batches); err != nil {
		return nil, fmt.Errorf("failed to parse search batches: %w", err)
	}
	return &FileSearcher{batches: batches}, nil
}

// Search returns the recorded hits for q's detection, or none.
func (s *FileSearcher) Search(ctx context.Context, q Query) ([]types.SearchHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if hits, ok := s.batches[q.Detection.ID]; ok && q.Detection.ID != "" {
		return hits, nil
	}
	return s.batches[q.Detection.Label], nil
}

// DirUploader writes crops into a directory and returns file URLs.
type DirUploader struct {
	Dir       string
	Extension string
}

// Upload writes crop to Dir, named after the detection.
func (u DirUploader) Upload(ctx context.Context, det types.Detection, crop []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := utils.EnsureDir(u.Dir); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := strings.TrimPrefix(u.Extension, ".")
	if ext == "" {
		ext = "jpg"
	}
	name := utils.SanitizeFilename(det.ID + "_" + det.Label)
	path := filepath.Join(u.Dir, name+"."+ext)
	if err := os.WriteFile(path, crop, 0644); err != nil {
		return "", fmt.Errorf("failed to write crop: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve crop path: %w", err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}
