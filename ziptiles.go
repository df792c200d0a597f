package gsidem

import (
	"archive/zip"
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ParseZip parses every .xml entry of the ZIP archive at path, the
// distribution format used for DEM tiles. Entries are parsed in parallel;
// the returned tiles are in archive order. Merging tiles into a mosaic is
// left to the caller.
func ParseZip(ctx context.Context, path string) ([]*DemTile, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var entries []*zip.File
	for _, file := range reader.File {
		if strings.HasSuffix(strings.ToLower(file.Name), ".xml") {
			entries = append(entries, file)
		}
	}

	tiles := make([]*DemTile, len(entries))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, entry := range entries {
		i, entry := i, entry
		group.Go(func() error {
			rc, err := entry.Open()
			if err != nil {
				return fmt.Errorf("%s: %w", entry.Name, err)
			}
			defer rc.Close()
			tile, err := ParseContext(ctx, rc)
			if err != nil {
				return fmt.Errorf("%s: %w", entry.Name, err)
			}
			tiles[i] = tile
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return tiles, nil
}
