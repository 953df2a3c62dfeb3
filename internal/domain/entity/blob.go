package entity

import "math"

// Blob описывает одну найденную пробоину в пиксельных координатах изображения.
type Blob struct {
	Label  int     // метка региона после watershed
	Area   int     // площадь региона в пикселях
	X      float64 // центр масс по X
	Y      float64 // центр масс по Y
	Radius float64 // радиус равновеликого круга
}

// Normalized возвращает координаты центра в процентах от размеров изображения (0–100).
func (b Blob) Normalized(width, height int) (x, y float64) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return b.X / float64(width) * 100, b.Y / float64(height) * 100
}

// EquivalentRadius возвращает радиус круга той же площади.
func EquivalentRadius(area int) float64 {
	return math.Sqrt(float64(area) / math.Pi)
}

// AreaThresholds хранит правдоподобные границы площади пробоины для конкретного изображения.
type AreaThresholds struct {
	Min int
	Max int
}

// Contains сообщает, попадает ли площадь в границы включительно.
func (t AreaThresholds) Contains(area int) bool {
	return area >= t.Min && area <= t.Max
}
