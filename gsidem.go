// Package gsidem parses DEM (digital elevation model) tiles published by the
// Geospatial Information Authority of Japan as FGD GML documents, and provides
// raster access, Terrain-RGB encoding and GeoTIFF output for the parsed tiles.
package gsidem

import (
	"context"
	"fmt"
)

// NoDataValue is the elevation recorded for grid cells that carry no sample.
const NoDataValue float32 = -9999

// A Coord is a grid coordinate within a tile. X is the column, Y is the row.
// Row 0 is the northern edge of the tile.
type Coord struct {
	X int
	Y int
}

type Raster interface {
	Samples(ctx context.Context, coords []Coord) ([]float64, error)
	Resolution() (float64, float64)
	Origin() (float64, float64)
}

// A SampleClass classifies a decoded tuple-list entry.
type SampleClass uint8

const (
	// ClassGround is an ordinary ground-surface elevation sample.
	ClassGround SampleClass = iota
	// ClassNoData marks a cell for which the source records no elevation.
	ClassNoData
)

// A Sample is one decoded tuple-list entry.
type Sample struct {
	Class SampleClass
	Value float32
}

// Metadata identifies the source tile. It is populated once by Parse and never
// mutated afterwards.
type Metadata struct {
	MeshCode      string
	DemType       string
	CRSIdentifier string
}

func (m Metadata) String() string {
	return fmt.Sprintf("Metadata(meshCode=%s, demType=%s, crs=%s)", m.MeshCode, m.DemType, m.CRSIdentifier)
}

// A DemTile is one parsed DEM tile. Values holds the decoded elevations in
// decode order; together with StartPoint and Rule it is sufficient to
// reconstruct the dense rows×cols raster (see Grid), which the tile itself
// never materializes. No-data cells appear in Values as NoDataValue.
//
// A DemTile is immutable once returned by Parse.
type DemTile struct {
	Rows       int
	Cols       int
	OriginLon  float64
	OriginLat  float64
	XRes       float64
	YRes       float64
	StartPoint Coord
	Rule       SequenceRule
	Values     []float32
	Metadata   Metadata
}

// Shape returns the grid extent as (rows, cols).
func (t *DemTile) Shape() (int, int) {
	return t.Rows, t.Cols
}

func (t *DemTile) String() string {
	return fmt.Sprintf("DemTile(rows=%d, cols=%d, origin=(%g, %g), resolution=(%g, %g), meshCode=%s)",
		t.Rows, t.Cols, t.OriginLon, t.OriginLat, t.XRes, t.YRes, t.Metadata.MeshCode)
}
