package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

type disk struct {
	x, y, r int
}

// diskImage рисует белые круги на тёмном фоне заданной яркости.
func diskImage(w, h int, background uint8, disks ...disk) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: background, G: background, B: background, A: 255}
			for _, d := range disks {
				dx, dy := x-d.x, y-d.y
				if dx*dx+dy*dy <= d.r*d.r {
					c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
					break
				}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
