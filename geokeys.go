package gsidem

import "errors"

var errGeoKeys = errors.New("invalid geokey directory")

type GeoKey uint16

const (
	GeoKeyGTModelType  GeoKey = 1024
	GeoKeyGTRasterType GeoKey = 1025
	GeoKeyGeodeticCRS  GeoKey = 2048
)

const (
	gtModelTypeGeographic   = 2
	gtRasterTypePixelIsArea = 1
)

// geoKeyDirectory encodes short-valued geokeys as a GeoKeyDirectoryTag value.
// Keys must be given in ascending order.
func geoKeyDirectory(keys []GeoKey, values []uint16) []uint16 {
	directory := make([]uint16, 0, 4+4*len(keys))
	directory = append(directory, 1, 1, 0, uint16(len(keys)))
	for i, key := range keys {
		directory = append(directory, uint16(key), 0, 1, values[i])
	}
	return directory
}

// parseGeoKeyDirectory decodes the short-valued keys of a GeoKeyDirectoryTag
// value. Keys stored in the double or ASCII params tags are ignored.
func parseGeoKeyDirectory(directory []uint16) (map[GeoKey]int, error) {
	if len(directory) < 4 {
		return nil, errGeoKeys
	}
	if keyDirectoryVersion := int(directory[0]); keyDirectoryVersion != 1 {
		return nil, errGeoKeys
	}
	if keyRevision := int(directory[1]); keyRevision != 1 {
		return nil, errGeoKeys
	}
	numberOfKeys := int(directory[3])
	if len(directory) != 4+4*numberOfKeys {
		return nil, errGeoKeys
	}
	params := make(map[GeoKey]int)
	for i := 0; i < numberOfKeys; i++ {
		keyValues := directory[4+4*i : 4+4*(i+1)]
		key := GeoKey(keyValues[0])
		tiffTagLocation := int(keyValues[1])
		numberOfValues := int(keyValues[2])
		if tiffTagLocation != 0 {
			continue
		}
		if numberOfValues != 1 {
			return nil, errGeoKeys
		}
		params[key] = int(keyValues[3])
	}
	return params, nil
}
