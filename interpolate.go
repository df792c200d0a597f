package gsidem

import (
	"context"
	"math"
)

// InterpolateBilinear returns bilinearly interpolated elevations at coords,
// each a {lon, lat} pair. Queries touching cells without data come back NaN.
func InterpolateBilinear(ctx context.Context, raster Raster, coords [][]float64) ([]float64, error) {
	originX, originY := raster.Origin()
	xRes, yRes := raster.Resolution()

	rasterCoords := make([]Coord, 4*len(coords))
	cellX := make([]float64, len(coords))
	cellY := make([]float64, len(coords))
	for i, coord := range coords {
		x := (coord[0] - originX) / xRes
		y := (originY - coord[1]) / yRes
		cellX[i] = x
		cellY[i] = y
		x0 := int(math.Floor(x))
		y0 := int(math.Floor(y))
		rasterCoords[4*i+0] = Coord{X: x0, Y: y0}
		rasterCoords[4*i+1] = Coord{X: x0 + 1, Y: y0}
		rasterCoords[4*i+2] = Coord{X: x0, Y: y0 + 1}
		rasterCoords[4*i+3] = Coord{X: x0 + 1, Y: y0 + 1}
	}
	samples, err := raster.Samples(ctx, rasterCoords)
	if err != nil {
		return nil, err
	}
	result := make([]float64, len(coords))
	for i := range coords {
		dx := cellX[i] - math.Floor(cellX[i])
		dy := cellY[i] - math.Floor(cellY[i])
		result[i] = 0 +
			samples[4*i+0]*(1-dx)*(1-dy) +
			samples[4*i+1]*dx*(1-dy) +
			samples[4*i+2]*(1-dx)*dy +
			samples[4*i+3]*dx*dy
	}
	return result, nil
}
