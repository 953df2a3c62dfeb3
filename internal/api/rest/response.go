package rest

import "bullet-vision/internal/domain/entity"

type Coordinate struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

type AreaThresholds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DetectResponse JSON-ответ /detect; тот же формат печатает CLI.
type DetectResponse struct {
	Count          int            `json:"count"`
	Coordinates    []Coordinate   `json:"coordinates"`
	ImageWidth     int            `json:"imageWidth"`
	ImageHeight    int            `json:"imageHeight"`
	AreaThresholds AreaThresholds `json:"areaThresholds"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewDetectResponse переводит результат в JSON-представление.
// Пустой результат даёт "coordinates": [], а не null.
func NewDetectResponse(result *entity.Detection) DetectResponse {
	resp := DetectResponse{Coordinates: make([]Coordinate, 0, result.Count())}
	if result == nil {
		return resp
	}

	for _, b := range result.Blobs {
		resp.Coordinates = append(resp.Coordinates, Coordinate{X: b.X, Y: b.Y, Radius: b.Radius})
	}
	resp.Count = len(resp.Coordinates)
	resp.ImageWidth = result.ImageWidth
	resp.ImageHeight = result.ImageHeight
	resp.AreaThresholds = AreaThresholds{Min: result.Thresholds.Min, Max: result.Thresholds.Max}
	return resp
}
