package gsidem

import (
	"context"
	"math"
	"strings"
)

// TopLat returns the latitude of the grid's northern edge. OriginLat records
// the envelope's lower corner, so the northern edge is derived.
func (t *DemTile) TopLat() float64 {
	return t.OriginLat + float64(t.Rows)*t.YRes
}

// Bounds returns the tile's envelope as (minLon, minLat, maxLon, maxLat).
func (t *DemTile) Bounds() (float64, float64, float64, float64) {
	return t.OriginLon, t.OriginLat, t.OriginLon + float64(t.Cols)*t.XRes, t.TopLat()
}

// Resolution returns the cell size in degrees per cell.
func (t *DemTile) Resolution() (float64, float64) {
	return t.XRes, t.YRes
}

// Origin returns the geographic coordinate of grid cell (0, 0), the tile's
// northwest corner.
func (t *DemTile) Origin() (float64, float64) {
	return t.OriginLon, t.TopLat()
}

// At returns the elevation at grid cell c. ok is false if the cell is outside
// the grid, not covered by the decoded sequence, or a no-data cell.
func (t *DemTile) At(c Coord) (float32, bool) {
	if c.X < 0 || c.X >= t.Cols || c.Y < 0 || c.Y >= t.Rows {
		return 0, false
	}
	index := t.Rule.index(t.Rows, t.Cols, t.StartPoint, c)
	if index < 0 || index >= len(t.Values) {
		return 0, false
	}
	value := t.Values[index]
	if value == NoDataValue {
		return 0, false
	}
	return value, true
}

// Samples returns the elevations at coords. Missing samples are represented
// by NaNs.
func (t *DemTile) Samples(ctx context.Context, coords []Coord) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	samples := make([]float64, len(coords))
	for i, coord := range coords {
		if value, ok := t.At(coord); ok {
			samples[i] = float64(value)
		} else {
			samples[i] = math.NaN()
		}
	}
	return samples, nil
}

// Grid materializes the dense rows×cols raster in row-major order. Cells not
// covered by the decoded sequence and no-data cells are set to fill. The tile
// itself never holds this buffer; callers choose their own fill policy.
func (t *DemTile) Grid(fill float32) [][]float32 {
	grid := make([][]float32, t.Rows)
	flat := make([]float32, t.Rows*t.Cols)
	for y := range grid {
		row := flat[y*t.Cols : (y+1)*t.Cols]
		for x := range row {
			if value, ok := t.At(Coord{X: x, Y: y}); ok {
				row[x] = value
			} else {
				row[x] = fill
			}
		}
		grid[y] = row
	}
	return grid
}

// GeoTransform returns the GDAL-style affine transform anchored at the
// northwest corner: {originX, xRes, 0, originY, 0, -yRes}.
func (t *DemTile) GeoTransform() [6]float64 {
	return [6]float64{t.OriginLon, t.XRes, 0, t.TopLat(), 0, -t.YRes}
}

// EPSG guesses the EPSG code for the tile's CRS identifier: 6668 (JGD2011
// geographic) for jgd2011 identifiers, 4326 otherwise.
func (t *DemTile) EPSG() int {
	if strings.Contains(strings.ToLower(t.Metadata.CRSIdentifier), "jgd2011") {
		return 6668
	}
	return 4326
}
