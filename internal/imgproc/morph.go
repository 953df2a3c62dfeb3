package imgproc

import (
	"image"
	"math"
)

// Kernel описывает структурирующий элемент, заданный смещениями от якоря в центре.
type Kernel struct {
	Size    int
	Offsets []image.Point
}

// Ellipse строит эллиптический элемент size×size так же, как
// cv::getStructuringElement(MORPH_ELLIPSE): для 3×3 это крест, для 7×7 круг.
func Ellipse(size int) Kernel {
	if size < 1 {
		size = 1
	}
	r := size / 2
	c := size / 2
	invR2 := 0.0
	if r > 0 {
		invR2 = 1 / float64(r*r)
	}

	k := Kernel{Size: size}
	for i := 0; i < size; i++ {
		dy := i - r
		if abs(dy) > r {
			continue
		}
		dx := int(math.RoundToEven(float64(c) * math.Sqrt(float64(r*r-dy*dy)*invR2)))
		j1 := max(c-dx, 0)
		j2 := min(c+dx+1, size)
		for j := j1; j < j2; j++ {
			k.Offsets = append(k.Offsets, image.Pt(j-c, dy))
		}
	}
	return k
}

// Erode применяет эрозию iterations раз. Пиксели за границей изображения не учитываются.
func Erode(src *image.Gray, k Kernel, iterations int) *image.Gray {
	dst := cloneGray(src)
	for i := 0; i < iterations; i++ {
		dst = morphGray(dst, k, false)
	}
	return dst
}

// Dilate применяет дилатацию iterations раз.
func Dilate(src *image.Gray, k Kernel, iterations int) *image.Gray {
	dst := cloneGray(src)
	for i := 0; i < iterations; i++ {
		dst = morphGray(dst, k, true)
	}
	return dst
}

// Open выполняет эрозию iterations раз, затем дилатацию iterations раз (как morphologyEx).
func Open(src *image.Gray, k Kernel, iterations int) *image.Gray {
	return Dilate(Erode(src, k, iterations), k, iterations)
}

// Close выполняет дилатацию iterations раз, затем эрозию iterations раз.
func Close(src *image.Gray, k Kernel, iterations int) *image.Gray {
	return Erode(Dilate(src, k, iterations), k, iterations)
}

// DilateField возвращает локальный максимум поля в окне элемента.
func DilateField(src *Field, k Kernel) *Field {
	w, h := src.Width, src.Height
	dst := NewField(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := float32(math.Inf(-1))
			for _, o := range k.Offsets {
				nx, ny := x+o.X, y+o.Y
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				if v := src.Pix[ny*w+nx]; v > m {
					m = v
				}
			}
			dst.Pix[y*w+x] = m
		}
	}
	return dst
}

func morphGray(src *image.Gray, k Kernel, dilate bool) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var m uint8
			if !dilate {
				m = 255
			}
			for _, o := range k.Offsets {
				nx, ny := x+o.X, y+o.Y
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				v := src.Pix[ny*src.Stride+nx]
				if dilate && v > m || !dilate && v < m {
					m = v
				}
			}
			dst.Pix[y*dst.Stride+x] = m
		}
	}
	return dst
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
