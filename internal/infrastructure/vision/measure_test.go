package vision

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"bullet-vision/internal/domain/entity"
)

func labelMap(w, h int) *LabelMap {
	m := &LabelMap{Width: w, Height: h, Pix: make([]int32, w*h)}
	for i := range m.Pix {
		m.Pix[i] = LabelBackground
	}
	return m
}

func fillRect(m *LabelMap, x0, y0, x1, y1 int, label int32) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Pix[y*m.Width+x] = label
		}
	}
}

func labelAt(m *LabelMap, x, y int) int32 {
	return m.Pix[y*m.Width+x]
}

var wideBounds = entity.AreaThresholds{Min: 1, Max: 1 << 30}

func TestMeasureBlobs(t *testing.T) {
	m := labelMap(40, 30)
	fillRect(m, 20, 10, 32, 16, 5) // 72 px, верхняя строка уйдёт под границу
	fillRect(m, 0, 0, 10, 10, 2)   // 100 px
	fillRect(m, 35, 25, 37, 30, 3) // 10 px, шум
	fillRect(m, 0, 10, 40, 11, LabelBoundary)

	blobs := MeasureBlobs(m, wideBounds, DefaultParams())
	require.Len(t, blobs, 2)

	require.Equal(t, 2, blobs[0].Label)
	require.Equal(t, 100, blobs[0].Area)
	require.InDelta(t, 4.5, blobs[0].X, 1e-9)
	require.InDelta(t, 4.5, blobs[0].Y, 1e-9)
	require.InDelta(t, math.Sqrt(100/math.Pi), blobs[0].Radius, 1e-9)

	require.Equal(t, 5, blobs[1].Label)
	require.Equal(t, 60, blobs[1].Area)
}

func TestMeasureBlobs_NoiseFloorIsInclusive(t *testing.T) {
	m := labelMap(20, 20)
	fillRect(m, 0, 0, 10, 5, 2)  // 50 px
	fillRect(m, 0, 10, 7, 17, 3) // 49 px

	blobs := MeasureBlobs(m, wideBounds, DefaultParams())
	require.Len(t, blobs, 1)
	require.Equal(t, 2, blobs[0].Label)
}

func TestMeasureBlobs_EnforceAreaBounds(t *testing.T) {
	m := labelMap(40, 40)
	fillRect(m, 0, 0, 10, 10, 2)   // 100 px
	fillRect(m, 20, 20, 40, 40, 3) // 400 px

	p := DefaultParams()
	bounds := entity.AreaThresholds{Min: 50, Max: 200}
	require.Len(t, MeasureBlobs(m, bounds, p), 2)

	p.EnforceAreaBounds = true
	blobs := MeasureBlobs(m, bounds, p)
	require.Len(t, blobs, 1)
	require.Equal(t, 100, blobs[0].Area)
}

func TestMeasureBlobs_OnlyBackground(t *testing.T) {
	blobs := MeasureBlobs(labelMap(8, 8), wideBounds, DefaultParams())
	require.NotNil(t, blobs)
	require.Empty(t, blobs)
}

func TestMeasureBlobs_LargeMapMatchesExactCentroid(t *testing.T) {
	m := labelMap(500, 400)
	fillRect(m, 100, 50, 301, 351, 2)
	fillRect(m, 400, 10, 410, 390, 7)

	blobs := MeasureBlobs(m, wideBounds, DefaultParams())
	require.Len(t, blobs, 2)
	require.Equal(t, 201*301, blobs[0].Area)
	require.Equal(t, 200.0, blobs[0].X)
	require.Equal(t, 200.0, blobs[0].Y)
	require.Equal(t, 10*380, blobs[1].Area)
	require.Equal(t, 404.5, blobs[1].X)
	require.Equal(t, 199.5, blobs[1].Y)
}
