package gsidem

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/alecthomas/assert/v2"
)

func testTileFS() fstest.MapFS {
	doc := testDoc{
		mesh:   "52394000",
		lower:  "35.0 139.0",
		upper:  "35.008333333333333 139.0125",
		tuples: "ground-surface,100 ground-surface,101 ground-surface,102 ground-surface,103",
	}.render()
	return fstest.MapFS{
		"52394000.xml": &fstest.MapFile{Data: []byte(doc)},
	}
}

func TestTileSet(t *testing.T) {
	ctx := context.Background()
	tileSet, err := NewTileSet(WithFS(testTileFS()))
	assert.NoError(t, err)

	tile, err := tileSet.Tile(ctx, "52394000")
	assert.NoError(t, err)
	assert.NotZero(t, tile)
	assert.Equal(t, "52394000", tile.Metadata.MeshCode)
	assert.Equal(t, []float32{100, 101, 102, 103}, tile.Values)

	// Repeated lookups return the cached tile.
	again, err := tileSet.Tile(ctx, "52394000")
	assert.NoError(t, err)
	assert.Equal(t, tile, again)
	if tile != again {
		t.Error("expected cached tile to be the same instance")
	}
}

func TestTileSetMissing(t *testing.T) {
	ctx := context.Background()
	tileSet, err := NewTileSet(WithFS(testTileFS()))
	assert.NoError(t, err)

	for i := 0; i < 2; i++ {
		tile, err := tileSet.Tile(ctx, "53394611")
		assert.NoError(t, err)
		assert.Zero(t, tile)
	}
}

func TestTileSetFilenameFunc(t *testing.T) {
	fsys := testTileFS()
	fsys["FG-GML-5239-40-00-DEM5A.xml"] = fsys["52394000.xml"]
	delete(fsys, "52394000.xml")

	tileSet, err := NewTileSet(
		WithFS(fsys),
		WithTileFilenameFunc(func(meshCode MeshCode) string {
			return "FG-GML-" + string(meshCode[:4]) + "-" + string(meshCode[4:6]) + "-" + string(meshCode[6:]) + "-DEM5A.xml"
		}),
	)
	assert.NoError(t, err)

	tile, err := tileSet.Tile(context.Background(), "52394000")
	assert.NoError(t, err)
	assert.NotZero(t, tile)
}

func TestTileSetCacheSize(t *testing.T) {
	_, err := NewTileSet(WithFS(testTileFS()), WithCacheSize(1))
	assert.NoError(t, err)

	_, err = NewTileSet(WithFS(testTileFS()), WithCacheSize(0))
	assert.Error(t, err)
}

func TestTileSetMalformedTile(t *testing.T) {
	fsys := fstest.MapFS{
		"52394000.xml": &fstest.MapFile{Data: []byte("<Dataset")},
	}
	tileSet, err := NewTileSet(WithFS(fsys))
	assert.NoError(t, err)

	_, err = tileSet.Tile(context.Background(), "52394000")
	assert.Error(t, err)
}
