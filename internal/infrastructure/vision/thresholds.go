package vision

import (
	"math"

	"bullet-vision/internal/domain/entity"
)

// EstimateAreaThresholds выводит правдоподобные границы площади пробоины из размеров
// изображения: по умолчанию от 0.05% до 1% площади кадра, но не меньше 50 и не больше 50000 пикселей.
// Ширина и высота должны быть положительными.
func EstimateAreaThresholds(width, height int, p Params) entity.AreaThresholds {
	total := float64(width) * float64(height)
	return entity.AreaThresholds{
		Min: max(p.MinAreaFloor, int(math.Round(total*p.MinAreaRatio))),
		Max: min(p.MaxAreaCeiling, int(math.Round(total*p.MaxAreaRatio))),
	}
}
