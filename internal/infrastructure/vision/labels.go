package vision

// Метки карты регионов после watershed.
const (
	LabelBoundary   int32 = 0 // линия раздела между регионами
	LabelBackground int32 = 1 // уверенный фон
	LabelFirstHole  int32 = 2 // первая метка кандидата в пробоины
)

// LabelMap хранит результат роста регионов: каждый пиксель несёт ровно одну метку.
// Метки 0 и 1 никогда не попадают в результат.
type LabelMap struct {
	Width  int
	Height int
	Pix    []int32
}

// MaxLabel возвращает наибольшую метку.
func (m *LabelMap) MaxLabel() int32 {
	var hi int32
	for _, v := range m.Pix {
		hi = max(hi, v)
	}
	return hi
}
