package vision

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"bullet-vision/internal/domain/entity"
)

// passStats хранит промежуточные счётчики прохода для отладочного лога.
type passStats struct {
	seeds   int
	regions int
}

// DetectHoles выполняет один проход поиска пробоин по декодированному изображению:
// маска кандидатов → маркеры → watershed → измерение регионов.
// Проход детерминирован и не меняет входное изображение.
func DetectHoles(img image.Image, p Params) (*entity.Detection, error) {
	result, _, err := detectHoles(img, p)
	return result, err
}

func detectHoles(img image.Image, p Params) (*entity.Detection, passStats, error) {
	if img == nil {
		return nil, passStats{}, fmt.Errorf("%w: nil image", entity.ErrInvalidImage)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, passStats{}, fmt.Errorf("%w: image has no pixels (%dx%d)", entity.ErrInvalidImage, b.Dx(), b.Dy())
	}
	if err := p.Validate(); err != nil {
		return nil, passStats{}, err
	}

	thresholds := EstimateAreaThresholds(b.Dx(), b.Dy(), p)

	// Копия в NRGBA с началом в (0, 0): дальше все стадии работают с ней.
	labels, seeds, err := segment(imaging.Clone(img), p)
	if err != nil {
		return nil, passStats{}, err
	}

	stats := passStats{seeds: seeds, regions: max(int(labels.MaxLabel()-LabelFirstHole)+1, 0)}
	return &entity.Detection{
		ImageWidth:  b.Dx(),
		ImageHeight: b.Dy(),
		Thresholds:  thresholds,
		Blobs:       MeasureBlobs(labels, thresholds, p),
	}, stats, nil
}
