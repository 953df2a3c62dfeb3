package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"bullet-vision/internal/api/rest"
	"bullet-vision/internal/container"
	"bullet-vision/internal/domain/entity"
	"bullet-vision/internal/infrastructure/report"
	"bullet-vision/internal/infrastructure/storage"
	"bullet-vision/internal/infrastructure/vision"
)

func testContainer(t *testing.T) *container.Container {
	t.Helper()
	detector, err := vision.NewHoleDetector(vision.DefaultParams(), zerolog.Nop())
	require.NoError(t, err)
	return container.New(storage.NewMemoryUserRepository(), detector, report.NewTextDescriber())
}

func TestDetectFile(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 120, 90))
	for y := 0; y < 90; y++ {
		for x := 0; x < 120; x++ {
			c := color.NRGBA{R: 20, G: 20, B: 20, A: 255}
			if dx, dy := x-60, y-45; dx*dx+dy*dy <= 81 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "target.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	var out bytes.Buffer
	require.NoError(t, detectFile(context.Background(), testContainer(t), path, &out))

	var resp rest.DetectResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	require.Equal(t, 120, resp.ImageWidth)
	require.Equal(t, 90, resp.ImageHeight)
	require.InDelta(t, 60, resp.Coordinates[0].X, 1)
}

func TestDetectFile_Errors(t *testing.T) {
	c := testContainer(t)

	err := detectFile(context.Background(), c, filepath.Join(t.TempDir(), "missing.png"), &bytes.Buffer{})
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))
	err = detectFile(context.Background(), c, path, &bytes.Buffer{})
	require.ErrorIs(t, err, entity.ErrInvalidImage)
}
