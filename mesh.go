package gsidem

import (
	"fmt"
	"math"
)

// A MeshCode is a JIS X 0410 grid square code naming a tile's geographic
// cell: 4 digits for a primary (1°×40') square, 6 for a secondary (1/8
// subdivision) and 8 for a tertiary (1/80 subdivision) square.
type MeshCode string

// ParseMeshCode validates s as a primary, secondary or tertiary mesh code.
func ParseMeshCode(s string) (MeshCode, error) {
	switch len(s) {
	case 4, 6, 8:
	default:
		return "", fmt.Errorf("invalid mesh code %q: length must be 4, 6 or 8", s)
	}
	for i, c := range s {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("invalid mesh code %q: not numeric", s)
		}
		// Secondary subdivision digits run 0-7.
		if (i == 4 || i == 5) && c > '7' {
			return "", fmt.Errorf("invalid mesh code %q: secondary digit out of range", s)
		}
	}
	return MeshCode(s), nil
}

// Bounds returns the mesh cell's envelope as (minLon, minLat, maxLon, maxLat).
func (m MeshCode) Bounds() (float64, float64, float64, float64) {
	d := func(i int) float64 { return float64(m[i] - '0') }

	minLat := (d(0)*10 + d(1)) / 1.5
	minLon := d(2)*10 + d(3) + 100
	latSize := 2.0 / 3.0
	lonSize := 1.0

	if len(m) >= 6 {
		minLat += d(4) * latSize / 8
		minLon += d(5) * lonSize / 8
		latSize /= 8
		lonSize /= 8
	}
	if len(m) == 8 {
		minLat += d(6) * latSize / 10
		minLon += d(7) * lonSize / 10
		latSize /= 10
		lonSize /= 10
	}
	return minLon, minLat, minLon + lonSize, minLat + latSize
}

// MeshCodeForCoord returns the tertiary (8-digit) mesh code containing the
// given coordinate.
func MeshCodeForCoord(lat, lon float64) MeshCode {
	latUnits := lat * 1.5
	primaryLat := int(math.Floor(latUnits))
	primaryLon := int(math.Floor(lon)) - 100

	latFrac := latUnits - math.Floor(latUnits)
	lonFrac := lon - math.Floor(lon)
	secondaryLat := int(latFrac * 8)
	secondaryLon := int(lonFrac * 8)
	tertiaryLat := int(latFrac*80) - secondaryLat*10
	tertiaryLon := int(lonFrac*80) - secondaryLon*10

	return MeshCode(fmt.Sprintf("%02d%02d%d%d%d%d",
		primaryLat, primaryLon, secondaryLat, secondaryLon, tertiaryLat, tertiaryLon))
}
