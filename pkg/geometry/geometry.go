// Package geometry implements the box arithmetic used to compare detections:
// intersection-over-union, inner overlap, center distance and expansion.
//
// All functions are total over well-formed boxes and never divide by zero;
// degenerate boxes yield 0 for every ratio.
package geometry

import (
	"fmt"
	"math"

	"github.com/menta2k/lookfinder/pkg/types"
)

// Area returns the box area, 0 for degenerate boxes
func Area(b types.BoundingBox) float64 {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Center returns the box center point
func Center(b types.BoundingBox) (float64, float64) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

func intersection(a, b types.BoundingBox) float64 {
	w := math.Min(a.X2, b.X2) - math.Max(a.X1, b.X1)
	h := math.Min(a.Y2, b.Y2) - math.Max(a.Y1, b.Y1)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// IoU returns the area intersection-over-union of two boxes.
func IoU(a, b types.BoundingBox) float64 {
	inter := intersection(a, b)
	if inter == 0 {
		return 0
	}
	union := Area(a) + Area(b) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// OverlapRatio returns the fraction of inner's area covered by outer.
// It is not symmetric.
func OverlapRatio(inner, outer types.BoundingBox) float64 {
	inter := intersection(inner, outer)
	if inter == 0 {
		return 0
	}
	area := Area(inner)
	if area == 0 {
		return 0
	}
	return inter / area
}

// CenterDistance returns the Euclidean distance between box centers
func CenterDistance(a, b types.BoundingBox) float64 {
	ax, ay := Center(a)
	bx, by := Center(b)
	return math.Hypot(ax-bx, ay-by)
}

// Contains reports whether inner lies within outer, allowing tol pixels of slack.
func Contains(inner, outer types.BoundingBox, tol float64) bool {
	return inner.X1 >= outer.X1-tol && inner.Y1 >= outer.Y1-tol &&
		inner.X2 <= outer.X2+tol && inner.Y2 <= outer.Y2+tol
}

// Union returns the smallest box enclosing both a and b
func Union(a, b types.BoundingBox) types.BoundingBox {
	return types.BoundingBox{
		X1: math.Min(a.X1, b.X1),
		Y1: math.Min(a.Y1, b.Y1),
		X2: math.Max(a.X2, b.X2),
		Y2: math.Max(a.Y2, b.Y2),
	}
}

// Clamp limits the box to [0, imageW] x [0, imageH]
func Clamp(b types.BoundingBox, imageW, imageH int) types.BoundingBox {
	w, h := float64(imageW), float64(imageH)
	return types.BoundingBox{
		X1: clamp(b.X1, 0, w),
		Y1: clamp(b.Y1, 0, h),
		X2: clamp(b.X2, 0, w),
		Y2: clamp(b.Y2, 0, h),
	}
}

// Expand grows the box by ratio of its own width and height on each side,
// clamps it to the image and truncates the coordinates to integers.
func Expand(b types.BoundingBox, imageW, imageH int, ratio float64) types.BoundingBox {
	ew, eh := b.Width()*ratio, b.Height()*ratio
	grown := types.BoundingBox{
		X1: math.Max(0, b.X1-ew),
		Y1: math.Max(0, b.Y1-eh),
		X2: math.Min(float64(imageW), b.X2+ew),
		Y2: math.Min(float64(imageH), b.Y2+eh),
	}
	return types.BoundingBox{
		X1: math.Trunc(grown.X1),
		Y1: math.Trunc(grown.Y1),
		X2: math.Trunc(grown.X2),
		Y2: math.Trunc(grown.Y2),
	}
}

// Validate rejects boxes that violate x1<x2, y1<y2 or carry non-finite values.
func Validate(b types.BoundingBox) error {
	for _, v := range []float64{b.X1, b.Y1, b.X2, b.Y2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return types.NewValidationError("bbox", formatBox(b), types.ErrInvalidBox)
		}
	}
	if b.X2 <= b.X1 || b.Y2 <= b.Y1 {
		return types.NewValidationError("bbox", formatBox(b), types.ErrInvalidBox)
	}
	return nil
}

func formatBox(b types.BoundingBox) string {
	return fmt.Sprintf("[%g,%g,%g,%g]", b.X1, b.Y1, b.X2, b.Y2)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
