package gsidem

import (
	"context"
	"io/fs"
	"math"
)

// An ElevationService answers geographic elevation queries against a TileSet,
// resolving coordinates to tertiary mesh tiles and interpolating bilinearly
// within each tile.
type ElevationService struct {
	tileSet *TileSet
}

func NewElevationService(fsys fs.FS, options ...TileSetOption) (*ElevationService, error) {
	tileSet, err := NewTileSet(append([]TileSetOption{WithFS(fsys)}, options...)...)
	if err != nil {
		return nil, err
	}
	return &ElevationService{
		tileSet: tileSet,
	}, nil
}

// Elevations returns the elevations at coords, each a {lon, lat} pair.
// Coordinates in tiles that do not exist, or touching cells without data, are
// represented by NaNs.
func (s *ElevationService) Elevations(ctx context.Context, coords [][]float64) ([]float64, error) {
	elevations := make([]float64, len(coords))

	// Group indexes by mesh code.
	type groupStruct struct {
		coords  [][]float64
		indexes []int
	}
	groupsByMeshCode := make(map[MeshCode]groupStruct)
	for index, coord := range coords {
		meshCode := MeshCodeForCoord(coord[1], coord[0])
		group := groupsByMeshCode[meshCode]
		group.coords = append(group.coords, coord)
		group.indexes = append(group.indexes, index)
		groupsByMeshCode[meshCode] = group
	}

	// Populate elevations one tile at a time.
	for meshCode, group := range groupsByMeshCode {
		tile, err := s.tileSet.Tile(ctx, meshCode)
		if err != nil {
			return nil, err
		}
		if tile == nil {
			for _, index := range group.indexes {
				elevations[index] = math.NaN()
			}
			continue
		}
		tileElevations, err := InterpolateBilinear(ctx, tile, group.coords)
		if err != nil {
			return nil, err
		}
		for groupIndex, index := range group.indexes {
			elevations[index] = tileElevations[groupIndex]
		}
	}

	return elevations, nil
}
