//go:build !gocv
// +build !gocv

package vision

import (
	"image"

	bildsegment "github.com/anthonynsimon/bild/segment"

	"bullet-vision/internal/imgproc"
)

// segment строит карту регионов на чистом Go и возвращает число семян.
func segment(img *image.NRGBA, p Params) (*LabelMap, int, error) {
	mask := buildCandidateMask(img, p)
	markers := synthesizeMarkers(mask, p)
	return growRegions(img, markers), max(int(markers.Max())-1, 0), nil
}

// buildCandidateMask: серый → (размытие) → порог → открытие → закрытие.
func buildCandidateMask(img image.Image, p Params) *image.Gray {
	gray := imgproc.Grayscale(img)
	if p.BlurKernel > 1 {
		gray = imgproc.GaussianBlur(gray, p.BlurKernel)
	}

	// Порог включающий: пиксели >= BrightThreshold становятся 255.
	bw := bildsegment.Threshold(gray, p.BrightThreshold)
	kernel := imgproc.Ellipse(p.MorphKernel)
	bw = imgproc.Open(bw, kernel, p.OpenIterations)
	return imgproc.Close(bw, kernel, p.CloseIterations)
}

// synthesizeMarkers превращает маску в карту маркеров: фон 1, семена 2..N,
// полоса неопределённости между ними 0.
//
// Семенем становится пиксель, который одновременно лежит в «точно пробоине»
// (нормированное расстояние > ForegroundThreshold) и является локальным максимумом
// поля расстояний выше PeakFloor. Поэтому два касающихся отверстия дают два семени,
// пока их пики дальше друг от друга, чем половина PeakKernel.
func synthesizeMarkers(mask *image.Gray, p Params) *imgproc.Labels {
	dist := imgproc.NormalizeMinMax(imgproc.DistanceTransform(mask))
	localMax := imgproc.DilateField(dist, imgproc.Ellipse(p.PeakKernel))

	peakFloor := float32(p.PeakFloor)
	fgFloor := float32(p.ForegroundThreshold)
	seeds := image.NewGray(image.Rect(0, 0, dist.Width, dist.Height))
	for i, d := range dist.Pix {
		if d == localMax.Pix[i] && d > peakFloor && d > fgFloor {
			seeds.Pix[i] = 255
		}
	}

	sureBg := imgproc.Dilate(mask, imgproc.Ellipse(p.MorphKernel), p.BackgroundDilations)

	markers, _ := imgproc.ConnectedComponents(seeds)
	for i := range markers.Pix {
		markers.Pix[i]++
		if sureBg.Pix[i] == 255 && seeds.Pix[i] == 0 {
			markers.Pix[i] = 0
		}
	}
	return markers
}

// growRegions затапливает полосу неопределённости от семян и приводит
// линии раздела к LabelBoundary.
func growRegions(img *image.NRGBA, markers *imgproc.Labels) *LabelMap {
	flooded := imgproc.Watershed(img, markers)

	out := &LabelMap{Width: flooded.Width, Height: flooded.Height, Pix: make([]int32, len(flooded.Pix))}
	for i, v := range flooded.Pix {
		if v <= 0 {
			v = LabelBoundary
		}
		out.Pix[i] = v
	}
	return out
}
