package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"bullet-vision/internal/domain/entity"
	"bullet-vision/internal/domain/port"
	"bullet-vision/internal/logger"
)

var _ port.HoleDetector = (*HoleDetector)(nil)

// HoleDetector ищет пробоины в закодированных изображениях (JPEG, PNG, GIF, BMP, TIFF).
// Детектор не хранит состояния между вызовами и безопасен для конкурентного использования.
type HoleDetector struct {
	params Params
	log    zerolog.Logger
}

// NewHoleDetector создаёт детектор с проверенными параметрами.
func NewHoleDetector(params Params, log zerolog.Logger) (*HoleDetector, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &HoleDetector{
		params: params,
		log:    logger.Component(log, "detector"),
	}, nil
}

// Params возвращает параметры, с которыми работает детектор.
func (d *HoleDetector) Params() Params {
	return d.params
}

// Detect декодирует изображение и выполняет один проход поиска пробоин.
func (d *HoleDetector) Detect(ctx context.Context, imageData []byte) (*entity.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := decodeImage(imageData)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, stats, err := detectHoles(img, d.params)
	if err != nil {
		return nil, err
	}

	d.log.Debug().
		Int("width", result.ImageWidth).
		Int("height", result.ImageHeight).
		Int("min_area", result.Thresholds.Min).
		Int("max_area", result.Thresholds.Max).
		Int("seeds", stats.seeds).
		Int("regions", stats.regions).
		Int("holes", result.Count()).
		Dur("elapsed", time.Since(start)).
		Msg("detection pass finished")

	return result, nil
}

// decodeImage превращает байты в изображение с учётом EXIF-ориентации.
func decodeImage(imageData []byte) (image.Image, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("%w: empty payload", entity.ErrInvalidImage)
	}
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidImage, err)
	}
	return img, nil
}
