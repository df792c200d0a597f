package gsidem

import "math"

// Mapbox Terrain-RGB encoding: elevation = -10000 + encoded * 0.1, with the
// 24-bit encoded value split across the R, G and B channels.
const (
	terrainRGBBase     = -10000.0
	terrainRGBInterval = 0.1
)

// A TerrainRGBConfig bounds the elevations encoded by WriteTerrainRGB.
// Unset limits leave the corresponding side unclamped.
type TerrainRGBConfig struct {
	MinElevation *float32
	MaxElevation *float32
}

func (c *TerrainRGBConfig) clamp(elevation float32) float32 {
	if c == nil {
		return elevation
	}
	if c.MinElevation != nil && elevation < *c.MinElevation {
		elevation = *c.MinElevation
	}
	if c.MaxElevation != nil && elevation > *c.MaxElevation {
		elevation = *c.MaxElevation
	}
	return elevation
}

// ElevationToRGB encodes an elevation in meters as a Terrain-RGB pixel.
func ElevationToRGB(elevation float32) (r, g, b uint8) {
	encoded := int32(float64(elevation-terrainRGBBase)/terrainRGBInterval + 0.5)
	return uint8(encoded >> 16 & 0xff), uint8(encoded >> 8 & 0xff), uint8(encoded & 0xff)
}

// RGBToElevation decodes a Terrain-RGB pixel back to an elevation in meters.
func RGBToElevation(r, g, b uint8) float32 {
	encoded := int32(r)<<16 | int32(g)<<8 | int32(b)
	return float32(terrainRGBBase + float64(encoded)*terrainRGBInterval)
}

// ElevationRange returns the minimum and maximum elevation across tiles,
// ignoring no-data cells.
func ElevationRange(tiles []*DemTile) (float32, float32) {
	minElevation := float32(math.Inf(1))
	maxElevation := float32(math.Inf(-1))
	for _, tile := range tiles {
		for _, value := range tile.Values {
			if value == NoDataValue {
				continue
			}
			if value < minElevation {
				minElevation = value
			}
			if value > maxElevation {
				maxElevation = value
			}
		}
	}
	return minElevation, maxElevation
}
