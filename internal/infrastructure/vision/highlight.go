package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"bullet-vision/internal/domain/entity"
)

const (
	highlightQuality    = 90
	ringThickness       = 2.0
	centerDotRadius     = 3.0
	highlightSaturation = 0.85
)

// Highlight обводит каждую найденную пробоину окружностью своего цвета,
// отмечает центр точкой и возвращает JPEG.
func (d *HoleDetector) Highlight(imageData []byte, result *entity.Detection) ([]byte, error) {
	img, err := decodeImage(imageData)
	if err != nil {
		return nil, err
	}

	canvas := imaging.Clone(img)
	if result != nil {
		drawBlobs(canvas, result.Blobs)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(highlightQuality)); err != nil {
		return nil, fmt.Errorf("encode highlighted image: %w", err)
	}
	return buf.Bytes(), nil
}

func drawBlobs(canvas *image.NRGBA, blobs []entity.Blob) {
	for i, b := range blobs {
		c := blobColor(i, len(blobs))
		half := ringThickness / 2
		drawRing(canvas, b.X, b.Y, math.Max(b.Radius-half, 0), b.Radius+half, c)
		drawRing(canvas, b.X, b.Y, 0, centerDotRadius, c)
	}
}

// blobColor раскладывает пробоины по кругу оттенков, чтобы соседние отличались.
func blobColor(i, n int) color.NRGBA {
	hue := 0.0
	if n > 0 {
		hue = float64(i) * 360 / float64(n)
	}
	r, g, b := colorful.Hsv(hue, highlightSaturation, 1).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// drawRing закрашивает пиксели на расстоянии [inner, outer] от центра.
func drawRing(canvas *image.NRGBA, cx, cy, inner, outer float64, c color.NRGBA) {
	bounds := canvas.Bounds()
	x0 := max(int(math.Floor(cx-outer)), bounds.Min.X)
	x1 := min(int(math.Ceil(cx+outer)), bounds.Max.X-1)
	y0 := max(int(math.Floor(cy-outer)), bounds.Min.Y)
	y1 := min(int(math.Ceil(cy+outer)), bounds.Max.Y-1)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			if d >= inner && d <= outer {
				canvas.SetNRGBA(x, y, c)
			}
		}
	}
}
