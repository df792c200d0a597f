package gsidem

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestMetadataString(t *testing.T) {
	meta := Metadata{MeshCode: "62414077", DemType: "5mメッシュ（標高）", CRSIdentifier: "fguuid:jgd2011.bl"}
	assert.Equal(t, "Metadata(meshCode=62414077, demType=5mメッシュ（標高）, crs=fguuid:jgd2011.bl)", meta.String())
}

func TestDemTileString(t *testing.T) {
	tile := testTile()
	assert.Equal(t, "DemTile(rows=2, cols=2, origin=(139, 35), resolution=(0.0005, 0.0005), meshCode=62414077)", tile.String())
}

func TestErrorStrings(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want string
	}{
		{
			err:  &MalformedDocumentError{Reason: "line 3"},
			want: "malformed document: line 3",
		},
		{
			err:  &UnsupportedSchemaError{Element: "Dataset", Namespace: "urn:example"},
			want: `unsupported schema: element "Dataset" in namespace "urn:example"`,
		},
		{
			err:  &MissingFieldError{Field: "gml:low"},
			want: "missing required field gml:low",
		},
		{
			err:  &MalformedSampleError{Token: "a,b", Index: 4},
			want: `malformed sample "a,b" at index 4`,
		},
		{
			err:  &GridOverflowError{Rows: 2, Cols: 2, Capacity: 4, Samples: 5},
			want: "grid overflow: 5 samples do not fit in 2x2 grid (capacity 4 from start point)",
		},
	} {
		assert.Equal(t, tc.want, tc.err.Error())
	}
}
