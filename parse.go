package gsidem

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const gmlNamespace = "http://www.opengis.net/gml/3.2"

// Recognized FGD dataset namespaces. The GSI has published the schema under
// more than one URI; both carry the same DEM structure.
var fgdNamespaces = map[string]struct{}{
	"http://fgd.gsi.go.jp/spec/2008/FGD_GMLSchema": {},
	"http://fgd.gsi.go.jp/spec/2008/FGD_Dataset":   {},
}

// Parse reads a single FGD GML DEM document from r and returns the parsed
// tile. The document is processed as a stream of XML events; the tuple list
// is decoded incrementally, so memory use is bounded by the number of samples
// rather than the document size.
func Parse(r io.Reader) (*DemTile, error) {
	return ParseContext(context.Background(), r)
}

// ParseContext is Parse with cooperative cancellation. ctx is checked only at
// stream-read boundaries; a canceled parse never returns a partial tile.
func ParseContext(ctx context.Context, r io.Reader) (*DemTile, error) {
	p := &parser{
		decoder: xml.NewDecoder(&contextReader{ctx: ctx, r: r}),
	}
	return p.run()
}

// ParseFile parses the FGD GML DEM document at path. Open and read errors are
// propagated unchanged.
func ParseFile(path string) (*DemTile, error) {
	return ParseFileContext(context.Background(), path)
}

func ParseFileContext(ctx context.Context, path string) (*DemTile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseContext(ctx, f)
}

// A contextReader fails reads once ctx is canceled. Cancellation is only
// observed here, so a token being decoded is never interrupted midway.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *contextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

type parser struct {
	decoder *xml.Decoder

	sawDataset bool

	meshCode *string
	demType  *string
	crs      *string

	lowerLat, lowerLon *float64
	upperLat, upperLon *float64
	gridLow, gridHigh  *Coord
	rule               *SequenceRule
	start              *Coord

	sawTupleList bool
	tuples       tupleDecoder
}

func (p *parser) run() (*DemTile, error) {
	for {
		tok, err := p.decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapDecodeError(err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !p.sawDataset {
			if _, ok := fgdNamespaces[se.Name.Space]; !ok || se.Name.Local != "Dataset" {
				return nil, &UnsupportedSchemaError{Element: se.Name.Local, Namespace: se.Name.Space}
			}
			p.sawDataset = true
			continue
		}
		if err := p.element(se); err != nil {
			return nil, err
		}
	}
	return p.finish()
}

// element dispatches one start element. Elements outside the small set the
// format defines are ignored.
func (p *parser) element(se xml.StartElement) error {
	if _, ok := fgdNamespaces[se.Name.Space]; ok {
		switch se.Name.Local {
		case "type":
			return p.text(se, &p.demType)
		case "mesh":
			return p.text(se, &p.meshCode)
		}
		return nil
	}
	if se.Name.Space != gmlNamespace {
		// A GML namespace other than 3.2 means the document is a different
		// schema version, not a document with extra vendor elements.
		if strings.HasPrefix(se.Name.Space, "http://www.opengis.net/gml") {
			return &UnsupportedSchemaError{Element: se.Name.Local, Namespace: se.Name.Space}
		}
		return nil
	}
	switch se.Name.Local {
	case "Envelope":
		for _, attr := range se.Attr {
			if attr.Name.Local == "srsName" {
				v := attr.Value
				p.crs = &v
			}
		}
	case "lowerCorner":
		return p.latLonPair(se, &p.lowerLat, &p.lowerLon)
	case "upperCorner":
		return p.latLonPair(se, &p.upperLat, &p.upperLon)
	case "low":
		return p.gridPair(se, &p.gridLow)
	case "high":
		return p.gridPair(se, &p.gridHigh)
	case "sequenceRule":
		for _, attr := range se.Attr {
			if attr.Name.Local == "order" {
				rule, err := ParseSequenceRule(attr.Value)
				if err != nil {
					return &MalformedDocumentError{Reason: "gml:sequenceRule", Err: err}
				}
				p.rule = &rule
			}
		}
	case "startPoint":
		return p.gridPair(se, &p.start)
	case "tupleList":
		return p.tupleList(se)
	}
	return nil
}

// elementText collects the character data of the element started by se.
func (p *parser) elementText(se xml.StartElement) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := p.decoder.Token()
		if err != nil {
			return "", wrapDecodeError(err)
		}
		switch tok := tok.(type) {
		case xml.CharData:
			sb.Write(tok)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return sb.String(), nil
}

func (p *parser) text(se xml.StartElement, dst **string) error {
	s, err := p.elementText(se)
	if err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	*dst = &s
	return nil
}

// latLonPair reads a "lat lon" pair such as an envelope corner.
func (p *parser) latLonPair(se xml.StartElement, lat, lon **float64) error {
	s, err := p.elementText(se)
	if err != nil {
		return err
	}
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return &MalformedDocumentError{Reason: fmt.Sprintf("gml:%s: expected \"lat lon\", got %q", se.Name.Local, s)}
	}
	latV, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return &MalformedDocumentError{Reason: "gml:" + se.Name.Local, Err: err}
	}
	lonV, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return &MalformedDocumentError{Reason: "gml:" + se.Name.Local, Err: err}
	}
	*lat, *lon = &latV, &lonV
	return nil
}

// gridPair reads an "x y" grid index pair such as gml:low or gml:startPoint.
func (p *parser) gridPair(se xml.StartElement, dst **Coord) error {
	s, err := p.elementText(se)
	if err != nil {
		return err
	}
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return &MalformedDocumentError{Reason: fmt.Sprintf("gml:%s: expected \"x y\", got %q", se.Name.Local, s)}
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return &MalformedDocumentError{Reason: "gml:" + se.Name.Local, Err: err}
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return &MalformedDocumentError{Reason: "gml:" + se.Name.Local, Err: err}
	}
	*dst = &Coord{X: x, Y: y}
	return nil
}

// tupleList streams the tuple-list character data through the sample decoder
// without materializing the block.
func (p *parser) tupleList(se xml.StartElement) error {
	p.sawTupleList = true
	depth := 1
	for depth > 0 {
		tok, err := p.decoder.Token()
		if err != nil {
			return wrapDecodeError(err)
		}
		switch tok := tok.(type) {
		case xml.CharData:
			if err := p.tuples.write(tok); err != nil {
				return err
			}
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return p.tuples.flush()
}

func (p *parser) finish() (*DemTile, error) {
	if !p.sawDataset {
		return nil, &MalformedDocumentError{Reason: "document contains no elements"}
	}
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"type", p.demType != nil},
		{"mesh", p.meshCode != nil},
		{"gml:Envelope srsName", p.crs != nil},
		{"gml:lowerCorner", p.lowerLat != nil},
		{"gml:upperCorner", p.upperLat != nil},
		{"gml:low", p.gridLow != nil},
		{"gml:high", p.gridHigh != nil},
		{"gml:tupleList", p.sawTupleList && len(p.tuples.samples) > 0},
		{"gml:sequenceRule order", p.rule != nil},
		{"gml:startPoint", p.start != nil},
	} {
		if !f.ok {
			return nil, &MissingFieldError{Field: f.name}
		}
	}

	rows := p.gridHigh.Y - p.gridLow.Y + 1
	cols := p.gridHigh.X - p.gridLow.X + 1
	start := Coord{X: p.start.X - p.gridLow.X, Y: p.start.Y - p.gridLow.Y}

	meta := Metadata{
		MeshCode:      *p.meshCode,
		DemType:       *p.demType,
		CRSIdentifier: *p.crs,
	}
	return assemble(meta, *p.lowerLat, *p.lowerLon, *p.upperLat, *p.upperLon, rows, cols, *p.rule, start, p.tuples.samples)
}

// wrapDecodeError classifies a decoder error: cancellation and read errors
// pass through, everything else is malformed markup.
func wrapDecodeError(err error) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &MalformedDocumentError{Reason: fmt.Sprintf("line %d", syntaxErr.Line), Err: err}
	}
	if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
		return &MalformedDocumentError{Reason: "unexpected end of document", Err: err}
	}
	return err
}
