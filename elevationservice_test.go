package gsidem_test

import (
	"context"
	"math"
	"testing"
	"testing/fstest"

	"github.com/alecthomas/assert/v2"

	"github.com/gsi-tools/go-gsidem"
)

const serviceTileXML = `<?xml version="1.0" encoding="UTF-8"?>
<Dataset xmlns="http://fgd.gsi.go.jp/spec/2008/FGD_GMLSchema"
         xmlns:gml="http://www.opengis.net/gml/3.2">
  <DEM gml:id="DEM001">
    <type>5mメッシュ（標高）</type>
    <mesh>52394000</mesh>
    <coverage gml:id="DEM001-1">
      <gml:boundedBy>
        <gml:Envelope srsName="fguuid:jgd2011.bl">
          <gml:lowerCorner>35.0 139.0</gml:lowerCorner>
          <gml:upperCorner>35.008333333333333 139.0125</gml:upperCorner>
        </gml:Envelope>
      </gml:boundedBy>
      <gml:gridDomain>
        <gml:Grid dimension="2" gml:id="DEM001-2">
          <gml:limits>
            <gml:GridEnvelope>
              <gml:low>0 0</gml:low>
              <gml:high>1 1</gml:high>
            </gml:GridEnvelope>
          </gml:limits>
        </gml:Grid>
      </gml:gridDomain>
      <gml:rangeSet>
        <gml:DataBlock>
          <gml:tupleList>
地表面,100.
地表面,101.
地表面,102.
地表面,103.
          </gml:tupleList>
        </gml:DataBlock>
      </gml:rangeSet>
      <gml:coverageFunction>
        <gml:GridFunction>
          <gml:sequenceRule order="+x-y">Linear</gml:sequenceRule>
          <gml:startPoint>0 0</gml:startPoint>
        </gml:GridFunction>
      </gml:coverageFunction>
    </coverage>
  </DEM>
</Dataset>`

func TestElevationService(t *testing.T) {
	fsys := fstest.MapFS{
		"52394000.xml": &fstest.MapFile{Data: []byte(serviceTileXML)},
	}
	service, err := gsidem.NewElevationService(fsys)
	assert.NoError(t, err)

	// The tile spans 35.0..35.00833 x 139.0..139.0125 with a 2x2 grid, so the
	// tile center sits halfway between all four cell corners.
	centerLon := 139.0 + 0.0125/4
	centerLat := 35.008333333333333 - 0.008333333333333/4

	elevations, err := service.Elevations(context.Background(), [][]float64{
		{centerLon, centerLat},
		{139.767, 35.681}, // no tile for this mesh
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(elevations))
	if diff := math.Abs(elevations[0] - 101.5); diff > 1e-6 {
		t.Errorf("expected 101.5, got %v", elevations[0])
	}
	assert.True(t, math.IsNaN(elevations[1]))
}

func TestElevationServiceGroupsQueries(t *testing.T) {
	fsys := fstest.MapFS{
		"52394000.xml": &fstest.MapFile{Data: []byte(serviceTileXML)},
	}
	service, err := gsidem.NewElevationService(fsys)
	assert.NoError(t, err)

	centerLon := 139.0 + 0.0125/4
	centerLat := 35.008333333333333 - 0.008333333333333/4

	// Interleave hits and misses; results must come back in query order.
	elevations, err := service.Elevations(context.Background(), [][]float64{
		{139.767, 35.681},
		{centerLon, centerLat},
		{139.767, 35.681},
		{centerLon, centerLat},
	})
	assert.NoError(t, err)
	assert.True(t, math.IsNaN(elevations[0]))
	assert.False(t, math.IsNaN(elevations[1]))
	assert.True(t, math.IsNaN(elevations[2]))
	assert.False(t, math.IsNaN(elevations[3]))
}
