package gsidem

import (
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTerrainRGBRoundTrip(t *testing.T) {
	for _, elevation := range []float32{-10000, -100, -0.1, 0, 0.1, 1, 100.1, 3776, 8848.6} {
		r, g, b := ElevationToRGB(elevation)
		decoded := RGBToElevation(r, g, b)
		if diff := math.Abs(float64(decoded - elevation)); diff > 0.05 {
			t.Errorf("elevation %v decoded as %v", elevation, decoded)
		}
	}
}

func TestElevationToRGB(t *testing.T) {
	// 0m encodes as 100000 = 0x0186a0.
	r, g, b := ElevationToRGB(0)
	assert.Equal(t, uint8(0x01), r)
	assert.Equal(t, uint8(0x86), g)
	assert.Equal(t, uint8(0xa0), b)

	r, g, b = ElevationToRGB(-10000)
	assert.Equal(t, uint8(0), r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, uint8(0), b)
}

func TestTerrainRGBConfigClamp(t *testing.T) {
	minElevation := float32(0)
	maxElevation := float32(100)
	config := &TerrainRGBConfig{MinElevation: &minElevation, MaxElevation: &maxElevation}
	assert.Equal(t, float32(0), config.clamp(-5))
	assert.Equal(t, float32(50), config.clamp(50))
	assert.Equal(t, float32(100), config.clamp(200))

	var nilConfig *TerrainRGBConfig
	assert.Equal(t, float32(-5), nilConfig.clamp(-5))

	assert.Equal(t, float32(-5), (&TerrainRGBConfig{}).clamp(-5))
}

func TestElevationRange(t *testing.T) {
	tiles := []*DemTile{
		{Values: []float32{100.1, NoDataValue, 100.4}},
		{Values: []float32{-2.5, 250}},
	}
	minElevation, maxElevation := ElevationRange(tiles)
	assert.Equal(t, float32(-2.5), minElevation)
	assert.Equal(t, float32(250), maxElevation)

	// All no-data leaves the range at its infinities.
	minElevation, maxElevation = ElevationRange([]*DemTile{{Values: []float32{NoDataValue}}})
	assert.True(t, math.IsInf(float64(minElevation), 1))
	assert.True(t, math.IsInf(float64(maxElevation), -1))
}
