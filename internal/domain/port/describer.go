package port

import (
	"context"

	"bullet-vision/internal/domain/entity"
)

// DetectionDescriber интерфейс описателя результата
type DetectionDescriber interface {
	// Describe генерирует текстовое описание найденных пробоин
	Describe(ctx context.Context, result *entity.Detection) (*entity.Summary, error)
}
