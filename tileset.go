package gsidem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	missingTileCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gsidem_missing_tile_cache_hits_total",
		Help: "The total number of hits on the missing tile cache",
	})
	missingTileCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gsidem_missing_tile_cache_misses_total",
		Help: "The total number of misses on the missing tile cache",
	})
	tileCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gsidem_tile_cache_hits_total",
		Help: "The total number of hits on the parsed tile cache",
	})
	tileCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gsidem_tile_cache_misses_total",
		Help: "The total number of misses on the parsed tile cache",
	})
	tileCacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gsidem_tile_cache_evictions_total",
		Help: "The total number of evictions from the parsed tile cache",
	})
)

// A TileFilenameFunc returns the filename of the tile for a mesh code.
type TileFilenameFunc func(MeshCode) string

// A TileSet is a set of FGD GML DEM tiles under one filesystem, addressed by
// mesh code. Parsed tiles are cached; each parse is independent, so a TileSet
// is safe for concurrent use.
type TileSet struct {
	mutex            sync.Mutex
	fsys             fs.FS
	cacheSize        int
	tileFilenameFunc TileFilenameFunc
	missingTiles     sync.Map
	tileCache        *lru.Cache[MeshCode, *DemTile]
}

// A TileSetOption sets an option on a TileSet.
type TileSetOption func(*TileSet)

// NewTileSet returns a new TileSet with the given options.
func NewTileSet(options ...TileSetOption) (*TileSet, error) {
	s := &TileSet{
		cacheSize: 32,
		tileFilenameFunc: func(meshCode MeshCode) string {
			return fmt.Sprintf("%s.xml", meshCode)
		},
	}
	for _, option := range options {
		option(s)
	}

	var err error
	s.tileCache, err = lru.New[MeshCode, *DemTile](s.cacheSize)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func WithCacheSize(cacheSize int) TileSetOption {
	return func(s *TileSet) {
		s.cacheSize = cacheSize
	}
}

func WithFS(fsys fs.FS) TileSetOption {
	return func(s *TileSet) {
		s.fsys = fsys
	}
}

func WithTileFilenameFunc(tileFilenameFunc TileFilenameFunc) TileSetOption {
	return func(s *TileSet) {
		s.tileFilenameFunc = tileFilenameFunc
	}
}

// Tile returns the tile for meshCode, parsing it on first use. A missing
// tile file returns (nil, nil) and is remembered so the filesystem is not
// probed again.
func (s *TileSet) Tile(ctx context.Context, meshCode MeshCode) (*DemTile, error) {
	if _, ok := s.missingTiles.Load(meshCode); ok {
		missingTileCacheHits.Inc()
		return nil, nil
	}

	if tile, ok := s.tileCache.Get(meshCode); ok {
		tileCacheHits.Inc()
		return tile, nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.missingTiles.Load(meshCode); ok {
		missingTileCacheHits.Inc()
		return nil, nil
	}

	if tile, ok := s.tileCache.Get(meshCode); ok {
		tileCacheHits.Inc()
		return tile, nil
	}

	tileCacheMisses.Inc()

	tile, err := s.parseTile(ctx, meshCode)
	if err != nil {
		return nil, err
	}
	if tile == nil {
		return nil, nil
	}

	if eviction := s.tileCache.Add(meshCode, tile); eviction {
		tileCacheEvictions.Inc()
	}

	return tile, nil
}

// parseTile parses the tile file for meshCode from the tile set's filesystem.
func (s *TileSet) parseTile(ctx context.Context, meshCode MeshCode) (*DemTile, error) {
	filename := s.tileFilenameFunc(meshCode)
	file, err := s.fsys.Open(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.missingTiles.Store(meshCode, struct{}{})
		missingTileCacheMisses.Inc()
		return nil, nil
	case err != nil:
		return nil, err
	}
	defer file.Close()
	return ParseContext(ctx, file)
}
