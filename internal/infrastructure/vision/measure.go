package vision

import (
	"sync"

	"github.com/anthonynsimon/bild/parallel"

	"bullet-vision/internal/domain/entity"
)

// regionStats хранит накопленные моменты одного региона: m00, m10, m01.
type regionStats struct {
	area int
	sumX int64
	sumY int64
}

// accumulateRegions за один проход по карте собирает моменты каждой метки >= LabelFirstHole.
// Строки делятся между горутинами, частичные суммы складываются после прохода;
// суммы целочисленные, поэтому результат не зависит от порядка слияния.
func accumulateRegions(m *LabelMap) []regionStats {
	hi := m.MaxLabel()
	if hi < LabelFirstHole {
		return nil
	}

	total := make([]regionStats, hi+1)
	var mu sync.Mutex
	parallel.Line(m.Height, func(start, end int) {
		part := make([]regionStats, hi+1)
		for y := start; y < end; y++ {
			row := m.Pix[y*m.Width : (y+1)*m.Width]
			for x, l := range row {
				if l < LabelFirstHole {
					continue
				}
				s := &part[l]
				s.area++
				s.sumX += int64(x)
				s.sumY += int64(y)
			}
		}

		mu.Lock()
		defer mu.Unlock()
		for l := range part {
			total[l].area += part[l].area
			total[l].sumX += part[l].sumX
			total[l].sumY += part[l].sumY
		}
	})
	return total
}

// MeasureBlobs превращает регионы карты в пробоины в порядке возрастания метки.
// Регионы меньше NoiseFloor и вырожденные регионы пропускаются без ошибки;
// при EnforceAreaBounds отбрасываются и регионы вне границ площади.
func MeasureBlobs(m *LabelMap, thresholds entity.AreaThresholds, p Params) []entity.Blob {
	stats := accumulateRegions(m)

	blobs := make([]entity.Blob, 0, len(stats))
	for l := int(LabelFirstHole); l < len(stats); l++ {
		s := stats[l]
		if s.area < p.NoiseFloor {
			continue
		}
		if p.EnforceAreaBounds && !thresholds.Contains(s.area) {
			continue
		}
		m00 := float64(s.area)
		if m00 == 0 {
			continue
		}
		blobs = append(blobs, entity.Blob{
			Label:  l,
			Area:   s.area,
			X:      float64(s.sumX) / m00,
			Y:      float64(s.sumY) / m00,
			Radius: entity.EquivalentRadius(s.area),
		})
	}
	return blobs
}
