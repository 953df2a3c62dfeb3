package imgproc

import (
	"image"
	"math"
)

// DistanceTransform считает точное евклидово расстояние от каждого ненулевого
// пикселя маски до ближайшего нулевого (алгоритм Фельценшвальба–Хуттенлохера).
// Если нулевых пикселей нет вовсе, расстояние не определено и поле остаётся нулевым.
func DistanceTransform(mask *image.Gray) *Field {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	out := NewField(w, h)
	if w == 0 || h == 0 {
		return out
	}

	sq := make([]float64, w*h)
	hasZero := false
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.Pix[y*mask.Stride+x] == 0 {
				hasZero = true
				continue
			}
			sq[y*w+x] = math.Inf(1)
		}
	}
	if !hasZero {
		return out
	}

	n := max(w, h)
	f := make([]float64, n)
	d := make([]float64, n)
	v := make([]int, n)
	z := make([]float64, n+1)

	// Сначала столбцы, затем строки.
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			f[y] = sq[y*w+x]
		}
		squaredDistance1D(f[:h], d[:h], v, z)
		for y := 0; y < h; y++ {
			sq[y*w+x] = d[y]
		}
	}
	for y := 0; y < h; y++ {
		copy(f[:w], sq[y*w:(y+1)*w])
		squaredDistance1D(f[:w], d[:w], v, z)
		for x := 0; x < w; x++ {
			out.Pix[y*w+x] = float32(math.Sqrt(d[x]))
		}
	}
	return out
}

// squaredDistance1D строит нижнюю огибающую парабол по конечным точкам f.
// Если конечных точек нет, d заполняется +Inf.
func squaredDistance1D(f, d []float64, v []int, z []float64) {
	k := -1
	for q := range f {
		if math.IsInf(f[q], 1) {
			continue
		}
		if k < 0 {
			k = 0
			v[0] = q
			z[0] = math.Inf(-1)
			z[1] = math.Inf(1)
			continue
		}
		s := intersection(f, q, v[k])
		for s <= z[k] {
			k--
			s = intersection(f, q, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}

	if k < 0 {
		for i := range d {
			d[i] = math.Inf(1)
		}
		return
	}

	k = 0
	for q := range f {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = dq*dq + f[v[k]]
	}
}

func intersection(f []float64, q, p int) float64 {
	fq, fp := f[q]+float64(q*q), f[p]+float64(p*p)
	return (fq - fp) / float64(2*q-2*p)
}

// NormalizeMinMax линейно переводит поле в диапазон [0, 1] (NORM_MINMAX).
// Постоянное поле переводится в нули.
func NormalizeMinMax(src *Field) *Field {
	dst := NewField(src.Width, src.Height)
	if len(src.Pix) == 0 {
		return dst
	}
	lo, hi := src.Pix[0], src.Pix[0]
	for _, v := range src.Pix {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		return dst
	}
	scale := 1 / float64(hi-lo)
	for i, v := range src.Pix {
		dst.Pix[i] = float32(float64(v-lo) * scale)
	}
	return dst
}
