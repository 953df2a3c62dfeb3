// Package imgproc содержит примитивы обработки изображений с семантикой OpenCV:
// перевод в серый, гауссово размытие, морфологию, преобразование расстояний,
// разметку связных компонент и watershed по маркерам.
//
// Все функции возвращают новые буферы и не меняют входные данные.
package imgproc

// Field хранит одноканальное изображение со значениями float32.
type Field struct {
	Width  int
	Height int
	Pix    []float32
}

// NewField создаёт поле заданного размера, заполненное нулями.
func NewField(width, height int) *Field {
	return &Field{Width: width, Height: height, Pix: make([]float32, width*height)}
}

// Labels хранит одноканальную карту целочисленных меток.
type Labels struct {
	Width  int
	Height int
	Pix    []int32
}

// NewLabels создаёт карту меток заданного размера, заполненную нулями.
func NewLabels(width, height int) *Labels {
	return &Labels{Width: width, Height: height, Pix: make([]int32, width*height)}
}

// Max возвращает наибольшую метку карты (0 для пустой карты).
func (l *Labels) Max() int32 {
	var m int32
	for _, v := range l.Pix {
		if v > m {
			m = v
		}
	}
	return m
}

// Clone возвращает независимую копию карты.
func (l *Labels) Clone() *Labels {
	return &Labels{Width: l.Width, Height: l.Height, Pix: append([]int32(nil), l.Pix...)}
}
