package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"bullet-vision/internal/domain/entity"
	"bullet-vision/internal/domain/port"
)

// DefaultOverlapRadius задаёт радиус в пикселях, начиная с которого пробоина
// похожа на несколько попаданий в одну точку.
const DefaultOverlapRadius = 18.0

var _ port.DetectionDescriber = (*TextDescriber)(nil)

// TextDescriber собирает текстовую сводку по результату поиска пробоин.
type TextDescriber struct {
	OverlapRadius float64
}

// NewTextDescriber создаёт описатель с порогом наложения по умолчанию.
func NewTextDescriber() *TextDescriber {
	return &TextDescriber{OverlapRadius: DefaultOverlapRadius}
}

// Describe считает статистику радиусов и формирует текст для пользователя.
func (d *TextDescriber) Describe(ctx context.Context, result *entity.Detection) (*entity.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, errors.New("detection result is nil")
	}

	summary := &entity.Summary{Overlapping: []int{}}
	radii := make([]float64, len(result.Blobs))
	for i, b := range result.Blobs {
		radii[i] = b.Radius
		if b.Radius > d.OverlapRadius {
			summary.Overlapping = append(summary.Overlapping, i)
		}
	}

	switch len(radii) {
	case 0:
	case 1:
		summary.MeanRadius = radii[0]
	default:
		summary.MeanRadius, summary.StdRadius = stat.MeanStdDev(radii, nil)
	}

	summary.Text = d.text(result, summary)
	return summary, nil
}

func (d *TextDescriber) text(result *entity.Detection, summary *entity.Summary) string {
	var sb strings.Builder

	if !result.HasHoles() {
		sb.WriteString("✅ Пробоины не найдены.\n")
		fmt.Fprintf(&sb, "Изображение: %d×%d px", result.ImageWidth, result.ImageHeight)
		return sb.String()
	}

	fmt.Fprintf(&sb, "🎯 Найдено пробоин: %d\n", result.Count())
	fmt.Fprintf(&sb, "Изображение: %d×%d px, ожидаемая площадь пробоины %d–%d px\n",
		result.ImageWidth, result.ImageHeight, result.Thresholds.Min, result.Thresholds.Max)
	fmt.Fprintf(&sb, "Средний радиус: %.1f ± %.1f px\n", summary.MeanRadius, summary.StdRadius)

	overlapping := make(map[int]bool, len(summary.Overlapping))
	for _, i := range summary.Overlapping {
		overlapping[i] = true
	}

	for i, b := range result.Blobs {
		x, y := b.Normalized(result.ImageWidth, result.ImageHeight)
		fmt.Fprintf(&sb, "\n%d. x=%.1f%%, y=%.1f%%, r=%.1f px", i+1, x, y, b.Radius)
		if overlapping[i] {
			sb.WriteString(" ⚠️ возможно, несколько попаданий")
		}
	}
	return sb.String()
}
