package gsidem

import (
	"bytes"
	"cmp"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"slices"
)

// TIFF tags used by the writer. The set mirrors what GDAL and QGIS need to
// georeference a raster: strip layout, sample format, the GeoTIFF model tags
// and GDAL's nodata tag.
const (
	tagImageWidth                = 256
	tagImageLength               = 257
	tagBitsPerSample             = 258
	tagCompression               = 259
	tagPhotometricInterpretation = 262
	tagStripOffsets              = 273
	tagSamplesPerPixel           = 277
	tagRowsPerStrip              = 278
	tagStripByteCounts           = 279
	tagSampleFormat              = 339
	tagModelPixelScale           = 33550
	tagModelTiepoint             = 33922
	tagGeoKeyDirectory           = 34735
	tagGDALNoData                = 42113
)

const (
	typeShort  = 3
	typeLong   = 4
	typeASCII  = 2
	typeDouble = 12
)

const (
	compressionDeflate    = 8
	photometricMinIsBlack = 1
	photometricRGB        = 2
	sampleFormatUint      = 1
	sampleFormatIEEEFloat = 3
)

// A GeoTIFFWriter writes DemTiles as georeferenced, deflate-compressed TIFF
// files: single-band float32 for elevations, or three-band uint8 Terrain-RGB.
type GeoTIFFWriter struct{}

func NewGeoTIFFWriter() *GeoTIFFWriter {
	return &GeoTIFFWriter{}
}

// Write writes tile as a single-band float32 GeoTIFF. No-data cells are
// written as NoDataValue and declared via GDAL's nodata tag.
func (w *GeoTIFFWriter) Write(tile *DemTile, path string) error {
	pixelData := make([]byte, 4*tile.Rows*tile.Cols)
	i := 0
	for _, row := range tile.Grid(NoDataValue) {
		for _, value := range row {
			binary.LittleEndian.PutUint32(pixelData[i:], math.Float32bits(value))
			i += 4
		}
	}

	// ImageWidth, ImageLength and RowsPerStrip are written as LONG so merged
	// or high-resolution grids above 65535 cells per axis stay intact.
	entries := []ifdEntry{
		longEntry(tagImageWidth, uint32(tile.Cols)),
		longEntry(tagImageLength, uint32(tile.Rows)),
		shortEntry(tagBitsPerSample, 32),
		shortEntry(tagCompression, compressionDeflate),
		shortEntry(tagPhotometricInterpretation, photometricMinIsBlack),
		shortEntry(tagSamplesPerPixel, 1),
		longEntry(tagRowsPerStrip, uint32(tile.Rows)),
		shortEntry(tagSampleFormat, sampleFormatIEEEFloat),
	}
	entries = append(entries, w.geoEntries(tile)...)
	entries = append(entries, asciiEntry(tagGDALNoData, fmt.Sprintf("%g", NoDataValue)))
	return writeTIFF(path, entries, pixelData)
}

// WriteTerrainRGB writes tile as a three-band uint8 Terrain-RGB GeoTIFF.
// No-data cells are written as black.
func (w *GeoTIFFWriter) WriteTerrainRGB(tile *DemTile, path string, config *TerrainRGBConfig) error {
	pixelData := make([]byte, 3*tile.Rows*tile.Cols)
	i := 0
	for _, row := range tile.Grid(NoDataValue) {
		for _, value := range row {
			if value != NoDataValue {
				pixelData[i], pixelData[i+1], pixelData[i+2] = ElevationToRGB(config.clamp(value))
			}
			i += 3
		}
	}

	entries := []ifdEntry{
		longEntry(tagImageWidth, uint32(tile.Cols)),
		longEntry(tagImageLength, uint32(tile.Rows)),
		shortsEntry(tagBitsPerSample, []uint16{8, 8, 8}),
		shortEntry(tagCompression, compressionDeflate),
		shortEntry(tagPhotometricInterpretation, photometricRGB),
		shortEntry(tagSamplesPerPixel, 3),
		longEntry(tagRowsPerStrip, uint32(tile.Rows)),
		shortsEntry(tagSampleFormat, []uint16{sampleFormatUint, sampleFormatUint, sampleFormatUint}),
	}
	entries = append(entries, w.geoEntries(tile)...)
	return writeTIFF(path, entries, pixelData)
}

// geoEntries returns the georeferencing tags shared by both output formats.
func (w *GeoTIFFWriter) geoEntries(tile *DemTile) []ifdEntry {
	transform := tile.GeoTransform()
	return []ifdEntry{
		doublesEntry(tagModelPixelScale, []float64{tile.XRes, tile.YRes, 0}),
		doublesEntry(tagModelTiepoint, []float64{0, 0, 0, transform[0], transform[3], 0}),
		shortsEntry(tagGeoKeyDirectory, geoKeyDirectory(
			[]GeoKey{GeoKeyGTModelType, GeoKeyGTRasterType, GeoKeyGeodeticCRS},
			[]uint16{gtModelTypeGeographic, gtRasterTypePixelIsArea, uint16(tile.EPSG())},
		)),
	}
}

// An ifdEntry is one IFD entry with its value already encoded little-endian.
type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value []byte
}

func shortEntry(tag uint16, value uint16) ifdEntry {
	return shortsEntry(tag, []uint16{value})
}

func shortsEntry(tag uint16, values []uint16) ifdEntry {
	value := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(value[2*i:], v)
	}
	return ifdEntry{tag: tag, typ: typeShort, count: uint32(len(values)), value: value}
}

func longEntry(tag uint16, v uint32) ifdEntry {
	value := make([]byte, 4)
	binary.LittleEndian.PutUint32(value, v)
	return ifdEntry{tag: tag, typ: typeLong, count: 1, value: value}
}

func doublesEntry(tag uint16, values []float64) ifdEntry {
	value := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(value[8*i:], math.Float64bits(v))
	}
	return ifdEntry{tag: tag, typ: typeDouble, count: uint32(len(values)), value: value}
}

func asciiEntry(tag uint16, s string) ifdEntry {
	value := append([]byte(s), 0)
	return ifdEntry{tag: tag, typ: typeASCII, count: uint32(len(value)), value: value}
}

// writeTIFF deflate-compresses pixelData into a single strip and lays out a
// little-endian TIFF: header, strip, out-of-line values, then the IFD. The
// strip entries are added here; entries must otherwise be sorted by tag.
func writeTIFF(path string, entries []ifdEntry, pixelData []byte) error {
	var compressed bytes.Buffer
	zlibWriter := zlib.NewWriter(&compressed)
	if _, err := zlibWriter.Write(pixelData); err != nil {
		return err
	}
	if err := zlibWriter.Close(); err != nil {
		return err
	}

	const headerSize = 8
	stripOffset := uint32(headerSize)
	entries = append(entries,
		longEntry(tagStripOffsets, stripOffset),
		longEntry(tagStripByteCounts, uint32(compressed.Len())),
	)
	sortEntries(entries)

	// Out-of-line values follow the strip, word-aligned.
	offset := stripOffset + uint32(compressed.Len())
	offset += offset % 2
	var external bytes.Buffer
	for i := range entries {
		if len(entries[i].value) > 4 {
			valueOffset := offset + uint32(external.Len())
			external.Write(entries[i].value)
			if external.Len()%2 != 0 {
				external.WriteByte(0)
			}
			value := make([]byte, 4)
			binary.LittleEndian.PutUint32(value, valueOffset)
			entries[i].value = value
		}
	}
	ifdOffset := offset + uint32(external.Len())

	var buf bytes.Buffer
	buf.WriteString("II")
	binary.Write(&buf, binary.LittleEndian, uint16(42))
	binary.Write(&buf, binary.LittleEndian, ifdOffset)
	buf.Write(compressed.Bytes())
	for buf.Len() < int(offset) {
		buf.WriteByte(0)
	}
	buf.Write(external.Bytes())
	binary.Write(&buf, binary.LittleEndian, uint16(len(entries)))
	for _, entry := range entries {
		binary.Write(&buf, binary.LittleEndian, entry.tag)
		binary.Write(&buf, binary.LittleEndian, entry.typ)
		binary.Write(&buf, binary.LittleEndian, entry.count)
		value := make([]byte, 4)
		copy(value, entry.value)
		buf.Write(value)
	}
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // no next IFD

	return os.WriteFile(path, buf.Bytes(), 0o666)
}

func sortEntries(entries []ifdEntry) {
	slices.SortFunc(entries, func(a, b ifdEntry) int {
		return cmp.Compare(a.tag, b.tag)
	})
}
