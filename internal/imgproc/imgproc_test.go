package imgproc

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func grayFrom(rows ...[]uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		copy(img.Pix[y*img.Stride:], row)
	}
	return img
}

func filledGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestGrayscale_BT601Weights(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.Set(0, 0, color.NRGBA{255, 255, 255, 255})
	img.Set(1, 0, color.NRGBA{0, 0, 0, 255})
	img.Set(2, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(3, 0, color.NRGBA{0, 255, 0, 255})

	g := Grayscale(img)
	require.Equal(t, []uint8{255, 0, 76, 150}, g.Pix)
}

func TestGrayscale_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 8, 9))
	g := Grayscale(img)
	require.Equal(t, image.Rect(0, 0, 3, 4), g.Bounds())

	empty := Grayscale(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	require.True(t, empty.Bounds().Empty())
}

func isBinary(img *image.Gray) bool {
	for _, v := range img.Pix {
		if v != 0 && v != 255 {
			return false
		}
	}
	return true
}

func kernelHas(k Kernel, dx, dy int) bool {
	for _, o := range k.Offsets {
		if o.X == dx && o.Y == dy {
			return true
		}
	}
	return false
}

func fieldAt(f *Field, x, y int) float32 {
	return f.Pix[y*f.Width+x]
}

func labelAt(l *Labels, x, y int) int32 {
	return l.Pix[y*l.Width+x]
}

func TestGaussianBlur(t *testing.T) {
	src := filledGray(12, 12, 200)
	require.Equal(t, src.Pix, GaussianBlur(src, 1).Pix)

	blurred := GaussianBlur(src, 5)
	for _, v := range blurred.Pix {
		require.InDelta(t, 200, int(v), 1)
	}
}

func TestGaussianBlur_OpenCVKernel(t *testing.T) {
	require.InDelta(t, 1.1, gaussianSigma(5), 1e-9)
	require.InDelta(t, 1.7, gaussianSigma(9), 1e-9)

	require.Equal(t, []float64{0.0625, 0.25, 0.375, 0.25, 0.0625}, gaussianKernel(5).Matrix)

	k := gaussianKernel(9).Matrix
	var sum float64
	for i, v := range k {
		sum += v
		require.InDelta(t, k[len(k)-1-i], v, 1e-12)
		require.LessOrEqual(t, v, k[4])
	}
	require.InDelta(t, 1, sum, 1e-9)
}

func TestGaussianBlur_SinglePixel(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 9, 9))
	src.Pix[4*src.Stride+4] = 255

	out := GaussianBlur(src, 3)
	require.Equal(t, uint8(64), out.GrayAt(4, 4).Y)
	require.Equal(t, uint8(32), out.GrayAt(5, 4).Y)
	require.Equal(t, uint8(32), out.GrayAt(4, 3).Y)
	require.Equal(t, uint8(16), out.GrayAt(3, 3).Y)
	require.Zero(t, out.GrayAt(6, 4).Y)
}

func TestEllipse_MatchesOpenCVShapes(t *testing.T) {
	cross := Ellipse(3)
	require.Len(t, cross.Offsets, 5)
	require.True(t, kernelHas(cross, 0, 0))
	require.True(t, kernelHas(cross, 1, 0))
	require.True(t, kernelHas(cross, 0, -1))
	require.False(t, kernelHas(cross, 1, 1))

	disk := Ellipse(7)
	require.Len(t, disk.Offsets, 33)
	require.True(t, kernelHas(disk, 0, 3))
	require.False(t, kernelHas(disk, 1, 3))
	require.True(t, kernelHas(disk, 2, 2))
	require.False(t, kernelHas(disk, 3, 2))
	require.True(t, kernelHas(disk, 3, 1))

	require.Len(t, Ellipse(1).Offsets, 1)
}

func TestOpen_RemovesIsolatedPixelAndCorners(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 12, 12))
	src.Pix[1*src.Stride+10] = 255
	for y := 2; y <= 6; y++ {
		for x := 2; x <= 6; x++ {
			src.Pix[y*src.Stride+x] = 255
		}
	}

	out := Open(src, Ellipse(3), 1)
	require.Zero(t, out.GrayAt(10, 1).Y)
	require.Equal(t, uint8(255), out.GrayAt(4, 4).Y)
	require.Equal(t, uint8(255), out.GrayAt(4, 2).Y)
	require.Zero(t, out.GrayAt(2, 2).Y)
	require.True(t, isBinary(out))
	require.Equal(t, uint8(255), src.GrayAt(2, 2).Y)
}

func TestClose_FillsPinhole(t *testing.T) {
	src := filledGray(7, 7, 255)
	src.Pix[3*src.Stride+3] = 0

	out := Close(src, Ellipse(3), 1)
	for _, v := range out.Pix {
		require.Equal(t, uint8(255), v)
	}
}

func TestDilateField(t *testing.T) {
	f := NewField(5, 5)
	f.Pix[2*5+2] = 1
	d := DilateField(f, Ellipse(3))
	require.Equal(t, float32(1), fieldAt(d, 2, 1))
	require.Equal(t, float32(1), fieldAt(d, 3, 2))
	require.Equal(t, float32(0), fieldAt(d, 3, 3))
}

func TestDistanceTransform_Row(t *testing.T) {
	mask := grayFrom([]uint8{0, 255, 255, 255, 255, 255, 0})
	d := DistanceTransform(mask)
	require.Equal(t, []float32{0, 1, 2, 3, 2, 1, 0}, d.Pix)
}

func TestDistanceTransform_Euclidean(t *testing.T) {
	mask := filledGray(5, 5, 255)
	mask.Pix[2*mask.Stride+2] = 0

	d := DistanceTransform(mask)
	require.InDelta(t, 2.8284, fieldAt(d, 0, 0), 1e-4)
	require.InDelta(t, 2.0, fieldAt(d, 2, 0), 1e-6)
	require.InDelta(t, 1.4142, fieldAt(d, 1, 1), 1e-4)
	require.Zero(t, fieldAt(d, 2, 2))
}

func TestDistanceTransform_NoBackground(t *testing.T) {
	d := DistanceTransform(filledGray(4, 3, 255))
	for _, v := range d.Pix {
		require.Zero(t, v)
	}
}

func TestNormalizeMinMax(t *testing.T) {
	f := &Field{Width: 4, Height: 1, Pix: []float32{0, 1, 2, 4}}
	n := NormalizeMinMax(f)
	require.Equal(t, []float32{0, 0.25, 0.5, 1}, n.Pix)
	require.Equal(t, float32(4), f.Pix[3])

	flat := NormalizeMinMax(&Field{Width: 2, Height: 1, Pix: []float32{3, 3}})
	require.Equal(t, []float32{0, 0}, flat.Pix)
}

func TestConnectedComponents_EightConnectivity(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 6, 6))
	for _, p := range []image.Point{{0, 0}, {1, 1}, {4, 4}, {5, 4}} {
		mask.SetGray(p.X, p.Y, color.Gray{Y: 255})
	}

	labels, n := ConnectedComponents(mask)
	require.Equal(t, 3, n)
	require.Equal(t, int32(1), labelAt(labels, 0, 0))
	require.Equal(t, int32(1), labelAt(labels, 1, 1))
	require.Equal(t, int32(2), labelAt(labels, 4, 4))
	require.Equal(t, int32(2), labelAt(labels, 5, 4))
	require.Equal(t, int32(0), labelAt(labels, 3, 3))
	require.Equal(t, int32(2), labels.Max())

	_, n = ConnectedComponents(image.NewGray(image.Rect(0, 0, 3, 3)))
	require.Equal(t, 1, n)
}

func uniformNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestWatershed_SplitsUniformRegionBetweenSeeds(t *testing.T) {
	img := uniformNRGBA(9, 5, color.NRGBA{255, 255, 255, 255})
	markers := NewLabels(9, 5)
	markers.Pix[2*9+2] = 2
	markers.Pix[2*9+6] = 3

	out := Watershed(img, markers)

	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			require.Equal(t, int32(2), labelAt(out, x, y), "pixel %d,%d", x, y)
		}
		require.Equal(t, WatershedBoundary, labelAt(out, 4, y))
		for x := 5; x <= 7; x++ {
			require.Equal(t, int32(3), labelAt(out, x, y), "pixel %d,%d", x, y)
		}
	}
	for x := 0; x < 9; x++ {
		require.Equal(t, WatershedBoundary, labelAt(out, x, 0))
		require.Equal(t, WatershedBoundary, labelAt(out, x, 4))
	}
	require.Equal(t, int32(0), labelAt(markers, 3, 2))
}

func TestWatershed_FollowsColorEdge(t *testing.T) {
	img := uniformNRGBA(12, 5, color.NRGBA{0, 0, 0, 255})
	for y := 0; y < 5; y++ {
		for x := 8; x < 12; x++ {
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	markers := NewLabels(12, 5)
	markers.Pix[2*12+1] = 2
	markers.Pix[2*12+10] = 3

	out := Watershed(img, markers)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 6; x++ {
			require.Equal(t, int32(2), labelAt(out, x, y), "pixel %d,%d", x, y)
		}
		require.Equal(t, WatershedBoundary, labelAt(out, 7, y))
		for x := 8; x <= 10; x++ {
			require.Equal(t, int32(3), labelAt(out, x, y), "pixel %d,%d", x, y)
		}
	}
}
