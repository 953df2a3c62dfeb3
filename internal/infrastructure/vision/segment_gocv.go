//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// segment строит карту регионов средствами OpenCV.
func segment(img *image.NRGBA, p Params) (*LabelMap, int, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, 0, fmt.Errorf("convert image to mat: %w", err)
	}
	defer mat.Close()

	mask := buildCandidateMask(mat, p)
	defer mask.Close()

	markers, seeds := synthesizeMarkers(mask, p)
	defer markers.Close()

	return growRegions(mat, markers), seeds, nil
}

func buildCandidateMask(mat gocv.Mat, p Params) gocv.Mat {
	gray := gocv.NewMat()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	if p.BlurKernel > 1 {
		blur := gocv.NewMat()
		gocv.GaussianBlur(gray, &blur, image.Pt(p.BlurKernel, p.BlurKernel), 0, 0, gocv.BorderDefault)
		gray.Close()
		gray = blur
	}
	defer gray.Close()

	// OpenCV сравнивает строго: src > thresh.
	bw := gocv.NewMat()
	gocv.Threshold(gray, &bw, float32(p.BrightThreshold)-1, 255, gocv.ThresholdBinary)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(p.MorphKernel, p.MorphKernel))
	defer kernel.Close()

	bw = morph(bw, kernel, p.OpenIterations, erode)
	bw = morph(bw, kernel, p.OpenIterations, dilate)
	bw = morph(bw, kernel, p.CloseIterations, dilate)
	return morph(bw, kernel, p.CloseIterations, erode)
}

const (
	erode  = false
	dilate = true
)

// morph применяет эрозию или дилатацию iterations раз и закрывает промежуточные матрицы.
func morph(src gocv.Mat, kernel gocv.Mat, iterations int, grow bool) gocv.Mat {
	for i := 0; i < iterations; i++ {
		dst := gocv.NewMat()
		if grow {
			gocv.Dilate(src, &dst, kernel)
		} else {
			gocv.Erode(src, &dst, kernel)
		}
		src.Close()
		src = dst
	}
	return src
}

func synthesizeMarkers(mask gocv.Mat, p Params) (gocv.Mat, int) {
	dist := gocv.NewMat()
	defer dist.Close()
	nearest := gocv.NewMat()
	defer nearest.Close()
	gocv.DistanceTransform(mask, &dist, &nearest, gocv.DistL2, gocv.DistanceMask5, gocv.DistanceLabelCComp)
	gocv.Normalize(dist, &dist, 0, 1, gocv.NormMinMax)

	peakKernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(p.PeakKernel, p.PeakKernel))
	defer peakKernel.Close()
	localMax := gocv.NewMat()
	defer localMax.Close()
	gocv.Dilate(dist, &localMax, peakKernel)

	peaks := gocv.NewMat()
	defer peaks.Close()
	gocv.Compare(dist, localMax, &peaks, gocv.CompareEQ)

	// Пик и «точно пробоина» проверяются строгими порогами одного поля.
	high := gocv.NewMat()
	defer high.Close()
	gocv.Threshold(dist, &high, float32(math.Max(p.PeakFloor, p.ForegroundThreshold)), 255, gocv.ThresholdBinary)
	high8 := gocv.NewMat()
	defer high8.Close()
	high.ConvertTo(&high8, gocv.MatTypeCV8U)

	seeds := gocv.NewMat()
	defer seeds.Close()
	gocv.BitwiseAnd(peaks, high8, &seeds)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(p.MorphKernel, p.MorphKernel))
	defer kernel.Close()
	sureBg := morph(mask.Clone(), kernel, p.BackgroundDilations, dilate)
	defer sureBg.Close()

	unknown := gocv.NewMat()
	defer unknown.Close()
	gocv.Subtract(sureBg, seeds, &unknown)

	markers := gocv.NewMat()
	n := gocv.ConnectedComponents(seeds, &markers)
	rows, cols := markers.Rows(), markers.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := markers.GetIntAt(y, x) + 1
			if unknown.GetUCharAt(y, x) == 255 {
				v = 0
			}
			markers.SetIntAt(y, x, v)
		}
	}
	return markers, n - 1
}

func growRegions(mat gocv.Mat, markers gocv.Mat) *LabelMap {
	gocv.Watershed(mat, &markers)

	rows, cols := markers.Rows(), markers.Cols()
	out := &LabelMap{Width: cols, Height: rows, Pix: make([]int32, rows*cols)}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := markers.GetIntAt(y, x)
			if v <= 0 {
				v = LabelBoundary
			}
			out.Pix[y*cols+x] = v
		}
	}
	return out
}
