package imgproc

import "image"

// ConnectedComponents размечает 8-связные компоненты ненулевых пикселей маски.
// Фон получает метку 0, компоненты получают 1..n-1 в порядке обхода построчно.
// Возвращает карту меток и число меток n вместе с фоном, как cv::connectedComponents.
func ConnectedComponents(mask *image.Gray) (*Labels, int) {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	out := NewLabels(w, h)

	var next int32 = 1
	queue := make([]int, 0, 64)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if mask.Pix[y*mask.Stride+x] == 0 || out.Pix[i] != 0 {
				continue
			}

			out.Pix[i] = next
			queue = append(queue[:0], i)
			for len(queue) > 0 {
				p := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				px, py := p%w, p/w
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := px+dx, py+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						ni := ny*w + nx
						if out.Pix[ni] != 0 || mask.Pix[ny*mask.Stride+nx] == 0 {
							continue
						}
						out.Pix[ni] = next
						queue = append(queue, ni)
					}
				}
			}
			next++
		}
	}
	return out, int(next)
}
