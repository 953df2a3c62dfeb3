package imgproc

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
)

// Веса яркости BT.601, те же, что у cv::cvtColor(COLOR_BGR2GRAY).
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Grayscale переводит изображение в оттенки серого.
// Результат всегда начинается в точке (0, 0).
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	if b.Empty() {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	return redChannel(effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB))
}

// GaussianBlur сглаживает серое изображение гауссовым ядром размера ksize
// с sigma, которую выбирает cv::GaussianBlur при sigma = 0.
// ksize <= 1 возвращает копию без изменений.
func GaussianBlur(src *image.Gray, ksize int) *image.Gray {
	if ksize <= 1 {
		return cloneGray(src)
	}

	k := gaussianKernel(ksize)
	// Bias 0.5 превращает усечение bild в округление.
	opts := &convolution.Options{Bias: 0.5}
	out := convolution.Convolve(src, k, opts)
	out = convolution.Convolve(out, k.Transposed(), opts)
	return redChannel(out)
}

// Биномиальные ядра cv::getGaussianKernel для ksize 3, 5 и 7.
var smallGaussian = map[int][]float64{
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

func gaussianSigma(ksize int) float64 {
	return 0.3*(float64(ksize-1)*0.5-1) + 0.8
}

// gaussianKernel строит нормированное одномерное ядро ksize×1.
func gaussianKernel(ksize int) *convolution.Kernel {
	k := convolution.NewKernel(ksize, 1)
	if fixed, ok := smallGaussian[ksize]; ok {
		copy(k.Matrix, fixed)
		return k
	}

	sigma := gaussianSigma(ksize)
	center := float64(ksize-1) / 2
	var sum float64
	for i := range k.Matrix {
		x := float64(i) - center
		k.Matrix[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += k.Matrix[i]
	}
	for i := range k.Matrix {
		k.Matrix[i] /= sum
	}
	return k
}

// redChannel извлекает красный канал RGBA в серое изображение.
func redChannel(src *image.RGBA) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Pix[y*dst.Stride+x] = src.Pix[y*src.Stride+x*4]
		}
	}
	return dst
}

func cloneGray(src *image.Gray) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[y*src.Stride:y*src.Stride+w])
	}
	return dst
}
