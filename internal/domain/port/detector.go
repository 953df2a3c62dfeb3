package port

import (
	"context"

	"bullet-vision/internal/domain/entity"
)

// HoleDetector интерфейс детектора пробоин
type HoleDetector interface {
	// Detect анализирует изображение и возвращает найденные пробоины
	Detect(ctx context.Context, imageData []byte) (*entity.Detection, error)

	// Highlight создаёт изображение с отмеченными пробоинами
	Highlight(imageData []byte, result *entity.Detection) ([]byte, error)
}
