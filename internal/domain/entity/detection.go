package entity

import "errors"

// ErrInvalidImage возвращается для пустых, нечитаемых изображений и изображений без размера.
var ErrInvalidImage = errors.New("invalid image")

// Detection хранит итог одного прохода поиска пробоин.
type Detection struct {
	ImageWidth  int            // ширина изображения
	ImageHeight int            // высота изображения
	Thresholds  AreaThresholds // границы площади, рассчитанные для изображения
	Blobs       []Blob         // найденные пробоины в порядке возрастания метки
}

// Count возвращает число найденных пробоин.
func (d *Detection) Count() int {
	if d == nil {
		return 0
	}
	return len(d.Blobs)
}

// HasHoles сообщает, найдена ли хотя бы одна пробоина.
func (d *Detection) HasHoles() bool {
	return d.Count() > 0
}

// Clone возвращает независимую копию результата.
func (d *Detection) Clone() *Detection {
	if d == nil {
		return nil
	}
	c := *d
	c.Blobs = append([]Blob(nil), d.Blobs...)
	return &c
}

// Summary хранит текстовое описание результата для пользователя.
type Summary struct {
	Text        string
	MeanRadius  float64
	StdRadius   float64
	Overlapping []int // индексы пробоин, похожих на наложение нескольких выстрелов
}
