package processing

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/lookfinder/pkg/types"
)

// Minimum crop size worth searching for.
const (
	MinCropWidth  = 80
	MinCropHeight = 80
	MinCropArea   = 120 * 120
)

// ErrCropTooSmall is returned for crops below the minimum search size.
var ErrCropTooSmall = errors.New("crop too small")

// Processor handles image processing operations
type Processor struct{}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{}
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.Contains(strings.ToLower(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
	}
	if _, err := f.Seek(0, io.SeekStart); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("image: unknown format for %s", path)
}

// DecodeImage decodes an encoded image with WebP support
func (p *Processor) DecodeImage(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// PrepareImageForModel converts an image to base64 for sending to vision models
func (p *Processor) PrepareImageForModel(img image.Image, format string, maxDim int, quality int) (string, error) {
	if maxDim > 0 {
		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		if w > maxDim || h > maxDim {
			if w >= h {
				img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
			} else {
				img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
			}
		}
	}

	data, err := p.Encode(img, format, quality, false)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// CropToBox cuts the pixel box out of img. Crops smaller than the minimum
// search size are rejected with ErrCropTooSmall.
func (p *Processor) CropToBox(img image.Image, box types.BoundingBox) (image.Image, error) {
	bounds := img.Bounds()
	rect := image.Rect(
		bounds.Min.X+int(math.Floor(box.X1)),
		bounds.Min.Y+int(math.Floor(box.Y1)),
		bounds.Min.X+int(math.Ceil(box.X2)),
		bounds.Min.Y+int(math.Ceil(box.Y2)),
	).Intersect(bounds)
	if rect.Empty() {
		return nil, fmt.Errorf("empty crop rectangle")
	}

	w, h := rect.Dx(), rect.Dy()
	if w < MinCropWidth || h < MinCropHeight || w*h < MinCropArea {
		return nil, fmt.Errorf("%w: %dx%d", ErrCropTooSmall, w, h)
	}
	return imaging.Crop(img, rect), nil
}

// Encode encodes img as jpg, png or webp
func (p *Processor) Encode(img image.Image, format string, quality int, lossless bool) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "webp":
		if err := webp.Encode(&buf, img, &webp.Options{Lossless: lossless, Quality: float32(quality)}); err != nil {
			return nil, err
		}
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, err
		}
	default: // jpg
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// SaveImage saves an image to a file with the specified format and quality
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		return webp.Encode(f, img, opts)
	case "png":
		return imaging.Save(img, path)
	default: // jpg/jpeg
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	}
}

// HashImage returns the hex SHA-256 of encoded image bytes, used as a
// cache key for repeat requests.
func HashImage(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// labelColors are cycled over the kept detections in the overlay.
var labelColors = []color.NRGBA{
	{255, 0, 0, 255},
	{0, 200, 0, 255},
	{0, 120, 255, 255},
	{255, 170, 0, 255},
	{200, 0, 200, 255},
	{0, 200, 200, 255},
}

// CreateDebugOverlay draws each detection box and its crop box onto a copy
// of img. The crop box is drawn with a thinner stroke in the same colour,
// and a score bar along the top edge shows the detection's confidence.
func (p *Processor) CreateDebugOverlay(img image.Image, dets []types.Detection, cropBoxes []types.BoundingBox) image.Image {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()
	stroke := int(math.Max(2, 0.004*float64(min(w, h)))) // ~0.4% of min side

	for i, d := range dets {
		c := labelColors[i%len(labelColors)]
		drawBox(nrgba, d.BBox, c, stroke)
		if i < len(cropBoxes) {
			drawBox(nrgba, cropBoxes[i], c, max(1, stroke/2))
		}

		x0, y0, x1, _ := boxToPixels(d.BBox, w, h)
		barLen := int(float64(x1-x0) * clamp(d.Score, 0, 1))
		for s := 0; s < stroke*2; s++ {
			drawHLine(nrgba, y0+stroke+s, x0, x0+barLen, c)
		}
	}
	return nrgba
}

// Helper functions
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func boxToPixels(box types.BoundingBox, w, h int) (int, int, int, int) {
	x0 := int(clamp(box.X1, 0, float64(w)) + 0.5)
	y0 := int(clamp(box.Y1, 0, float64(h)) + 0.5)
	x1 := int(clamp(box.X2, 0, float64(w)) + 0.5)
	y1 := int(clamp(box.Y2, 0, float64(h)) + 0.5)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return x0, y0, x1, y1
}

func drawBox(img *image.NRGBA, box types.BoundingBox, c color.NRGBA, stroke int) {
	x0, y0, x1, y1 := boxToPixels(box, img.Bounds().Dx(), img.Bounds().Dy())
	for s := 0; s < stroke; s++ {
		drawHLine(img, y0+s, x0, x1, c)
		drawHLine(img, y1-1-s, x0, x1, c)
		drawVLine(img, x0+s, y0, y1, c)
		drawVLine(img, x1-1-s, y0, y1, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	x0, x1 = max(min(x0, x1), 0), min(max(x0, x1), img.Bounds().Dx())
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	y0, y1 = max(min(y0, y1), 0), min(max(y0, y1), img.Bounds().Dy())
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
