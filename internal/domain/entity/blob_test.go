package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlobNormalized(t *testing.T) {
	b := Blob{X: 50, Y: 25}
	x, y := b.Normalized(200, 100)
	require.InDelta(t, 25.0, x, 1e-9)
	require.InDelta(t, 25.0, y, 1e-9)

	x, y = b.Normalized(0, 100)
	require.Zero(t, x)
	require.Zero(t, y)
}

func TestEquivalentRadius(t *testing.T) {
	require.InDelta(t, 10.0, EquivalentRadius(int(math.Round(math.Pi*100))), 0.01)
	require.Zero(t, EquivalentRadius(0))
}

func TestAreaThresholdsContains(t *testing.T) {
	th := AreaThresholds{Min: 50, Max: 400}
	require.True(t, th.Contains(50))
	require.True(t, th.Contains(400))
	require.False(t, th.Contains(49))
	require.False(t, th.Contains(401))
}

func TestDetectionCount(t *testing.T) {
	var nilDet *Detection
	require.Zero(t, nilDet.Count())
	require.False(t, nilDet.HasHoles())

	d := &Detection{Blobs: []Blob{{Label: 2}, {Label: 3}}}
	require.Equal(t, 2, d.Count())
	require.True(t, d.HasHoles())

	c := d.Clone()
	c.Blobs[0].Label = 9
	require.Equal(t, 2, d.Blobs[0].Label)
}
