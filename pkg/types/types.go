package types

import (
	"encoding/json"
	"fmt"
)

// BoundingBox is an axis-aligned box in image pixel coordinates.
// It serializes as a four element array [x1, y1, x2, y2].
type BoundingBox struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// Box builds a BoundingBox from corner coordinates.
func Box(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns the horizontal extent of the box
func (b BoundingBox) Width() float64 { return b.X2 - b.X1 }

// Height returns the vertical extent of the box
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }

// MarshalJSON encodes the box as [x1, y1, x2, y2]
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.X1, b.Y1, b.X2, b.Y2})
}

// UnmarshalJSON decodes a box from [x1, y1, x2, y2]
func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("bbox: %w", err)
	}
	if len(coords) != 4 {
		return fmt.Errorf("bbox: expected 4 coordinates, got %d", len(coords))
	}
	*b = BoundingBox{X1: coords[0], Y1: coords[1], X2: coords[2], Y2: coords[3]}
	return nil
}

// Detection is one candidate object instance proposed by a vision model.
// ID is empty until the refiner selects the detection.
type Detection struct {
	ID    string      `json:"id,omitempty"`
	Label string      `json:"label"`
	Score float64     `json:"score"`
	BBox  BoundingBox `json:"bbox"`
}

// SearchHit is a raw visual-search match as returned by the upstream
// search provider. Price may be a number, a string, or a nested object.
type SearchHit struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Source    string `json:"source"`
	Thumbnail string `json:"thumbnail"`
	Snippet   string `json:"snippet"`
	Price     any    `json:"price,omitempty"`
}

// NormalizedResult is the canonical form of a SearchHit.
type NormalizedResult struct {
	ID          string  `json:"id"`
	ProductName string  `json:"product_name"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description,omitempty"`
	PurchaseURL string  `json:"purchase_url"`
}

// CropConfig defines the configuration for writing crops
type CropConfig struct {
	Quality   int
	Lossless  bool
	Extension string
}
