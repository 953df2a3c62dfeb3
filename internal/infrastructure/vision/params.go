package vision

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidParams возвращается, если параметры детектора несовместимы.
var ErrInvalidParams = errors.New("invalid detector params")

// Params собирает все константы конвейера поиска пробоин в одном месте.
// Значения по умолчанию повторяют исходный серверный детектор.
type Params struct {
	// BlurKernel задаёт размер гауссова ядра перед порогом; 0 отключает размытие.
	BlurKernel int `yaml:"blurKernel"`
	// BrightThreshold: пиксели не темнее этого уровня считаются кандидатами.
	BrightThreshold uint8 `yaml:"brightThreshold"`
	// MorphKernel задаёт размер эллиптического элемента для открытия, закрытия и фона.
	MorphKernel     int `yaml:"morphKernel"`
	OpenIterations  int `yaml:"openIterations"`
	CloseIterations int `yaml:"closeIterations"`

	// PeakKernel задаёт окно поиска локальных максимумов поля расстояний.
	PeakKernel int `yaml:"peakKernel"`
	// PeakFloor задаёт минимальную нормированную высоту пика.
	PeakFloor float64 `yaml:"peakFloor"`
	// ForegroundThreshold задаёт порог «точно пробоина» по нормированному расстоянию.
	ForegroundThreshold float64 `yaml:"foregroundThreshold"`
	// BackgroundDilations: сколько раз расширять маску для «точно фон».
	BackgroundDilations int `yaml:"backgroundDilations"`

	// NoiseFloor задаёт абсолютный минимум площади, ниже которого регион отбрасывается.
	NoiseFloor int `yaml:"noiseFloor"`

	MinAreaRatio   float64 `yaml:"minAreaRatio"`
	MinAreaFloor   int     `yaml:"minAreaFloor"`
	MaxAreaRatio   float64 `yaml:"maxAreaRatio"`
	MaxAreaCeiling int     `yaml:"maxAreaCeiling"`
	// EnforceAreaBounds включает отсев по рассчитанным границам площади.
	EnforceAreaBounds bool `yaml:"enforceAreaBounds"`
}

// DefaultParams возвращает параметры по умолчанию.
func DefaultParams() Params {
	return Params{
		BlurKernel:          0,
		BrightThreshold:     200,
		MorphKernel:         3,
		OpenIterations:      1,
		CloseIterations:     1,
		PeakKernel:          7,
		PeakFloor:           0.2,
		ForegroundThreshold: 0.3,
		BackgroundDilations: 1,
		NoiseFloor:          50,
		MinAreaRatio:        0.0005,
		MinAreaFloor:        50,
		MaxAreaRatio:        0.01,
		MaxAreaCeiling:      50000,
	}
}

// Validate проверяет параметры и возвращает ошибку, оборачивающую ErrInvalidParams.
func (p Params) Validate() error {
	switch {
	case p.BlurKernel < 0 || p.BlurKernel > 0 && p.BlurKernel%2 == 0:
		return fmt.Errorf("%w: blurKernel must be 0 or a positive odd number, got %d", ErrInvalidParams, p.BlurKernel)
	case p.BrightThreshold == 0:
		return fmt.Errorf("%w: brightThreshold must be positive", ErrInvalidParams)
	case p.MorphKernel < 1 || p.MorphKernel%2 == 0:
		return fmt.Errorf("%w: morphKernel must be a positive odd number, got %d", ErrInvalidParams, p.MorphKernel)
	case p.PeakKernel < 1 || p.PeakKernel%2 == 0:
		return fmt.Errorf("%w: peakKernel must be a positive odd number, got %d", ErrInvalidParams, p.PeakKernel)
	case p.OpenIterations < 0 || p.CloseIterations < 0 || p.BackgroundDilations < 0:
		return fmt.Errorf("%w: iteration counts must not be negative", ErrInvalidParams)
	case p.PeakFloor < 0 || p.PeakFloor >= 1:
		return fmt.Errorf("%w: peakFloor must be in [0,1), got %g", ErrInvalidParams, p.PeakFloor)
	case p.ForegroundThreshold < 0 || p.ForegroundThreshold >= 1:
		return fmt.Errorf("%w: foregroundThreshold must be in [0,1), got %g", ErrInvalidParams, p.ForegroundThreshold)
	case p.NoiseFloor < 1:
		return fmt.Errorf("%w: noiseFloor must be positive, got %d", ErrInvalidParams, p.NoiseFloor)
	case p.MinAreaRatio <= 0 || p.MaxAreaRatio <= p.MinAreaRatio:
		return fmt.Errorf("%w: area ratios must satisfy 0 < min < max", ErrInvalidParams)
	case p.MinAreaFloor < 1 || p.MaxAreaCeiling < p.MinAreaFloor:
		return fmt.Errorf("%w: area floor and ceiling must satisfy 0 < floor <= ceiling", ErrInvalidParams)
	}
	return nil
}

// LoadParams читает параметры из YAML поверх значений по умолчанию.
// Пустой путь или отсутствующий файл дают параметры по умолчанию.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return Params{}, fmt.Errorf("read detector params: %w", err)
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("parse detector params: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}
