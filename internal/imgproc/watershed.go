package imgproc

import "image"

const (
	// WatershedBoundary помечает линию раздела между бассейнами.
	WatershedBoundary int32 = -1

	inQueue     int32 = -2
	priorityMax       = 256
)

// Watershed выполняет сегментацию по маркерам (затопление Мейера), повторяя
// cv::watershed: метки > 0 задают семена, 0 отмечает неизвестную зону. Соседние пиксели
// обрабатываются в порядке возрастания разницы цвета (максимум по каналам),
// встреча двух разных бассейнов и рамка изображения помечаются WatershedBoundary.
// Входная карта не изменяется.
func Watershed(img *image.NRGBA, markers *Labels) *Labels {
	w, h := markers.Width, markers.Height
	m := markers.Clone()
	for i, v := range m.Pix {
		if v < 0 {
			m.Pix[i] = 0
		}
	}
	if w == 0 || h == 0 {
		return m
	}

	for x := 0; x < w; x++ {
		m.Pix[x] = WatershedBoundary
		m.Pix[(h-1)*w+x] = WatershedBoundary
	}
	for y := 0; y < h; y++ {
		m.Pix[y*w] = WatershedBoundary
		m.Pix[y*w+w-1] = WatershedBoundary
	}

	diff := func(a, b int) int {
		pa := img.Pix[(a/w)*img.Stride+(a%w)*4:]
		pb := img.Pix[(b/w)*img.Stride+(b%w)*4:]
		d := 0
		for c := 0; c < 3; c++ {
			d = max(d, abs(int(pa[c])-int(pb[c])))
		}
		return d
	}

	var queues [priorityMax][]int
	active := priorityMax
	push := func(priority, idx int) {
		queues[priority] = append(queues[priority], idx)
		active = min(active, priority)
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			if m.Pix[i] != 0 {
				continue
			}
			best := priorityMax
			for _, n := range [4]int{i - 1, i + 1, i - w, i + w} {
				if m.Pix[n] > 0 {
					best = min(best, diff(i, n))
				}
			}
			if best < priorityMax {
				push(best, i)
				m.Pix[i] = inQueue
			}
		}
	}

	heads := [priorityMax]int{}
	for {
		for active < priorityMax && heads[active] >= len(queues[active]) {
			active++
		}
		if active == priorityMax {
			break
		}
		i := queues[active][heads[active]]
		heads[active]++

		neighbours := [4]int{i - 1, i + 1, i - w, i + w}
		var lab int32
		for _, n := range neighbours {
			v := m.Pix[n]
			if v <= 0 {
				continue
			}
			if lab == 0 {
				lab = v
			} else if lab != v {
				lab = WatershedBoundary
			}
		}
		if lab == 0 {
			// Соседи-семена могли стать границей; пиксель не принадлежит ни одному бассейну.
			lab = WatershedBoundary
		}
		m.Pix[i] = lab
		if lab == WatershedBoundary {
			continue
		}

		for _, n := range neighbours {
			if m.Pix[n] == 0 {
				push(diff(i, n), n)
				m.Pix[n] = inQueue
			}
		}
	}
	return m
}
