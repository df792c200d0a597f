package gsidem

import (
	"strconv"
	"strings"
)

// Tuple-list categories that carry a real elevation. Everything else is
// treated as no-data. The upstream data uses 地表面 ("ground surface");
// ground-surface appears in English-language test exports.
var groundCategories = map[string]struct{}{
	"地表面":            {},
	"ground-surface": {},
}

// A tupleDecoder incrementally decodes the whitespace-separated
// "category,value" tokens of a gml:tupleList text block. The block may be
// arbitrarily large, so it is fed chunk by chunk as the document is read;
// a token split across two chunks is carried over in rem.
type tupleDecoder struct {
	rem     []byte
	n       int
	samples []Sample
}

func (d *tupleDecoder) write(chunk []byte) error {
	start := -1
	for i, c := range chunk {
		if c == ' ' || c == '\n' || c == '\r' || c == '\t' {
			if start >= 0 {
				if err := d.token(chunk[start:i]); err != nil {
					return err
				}
				start = -1
			} else if len(d.rem) > 0 {
				if err := d.token(nil); err != nil {
					return err
				}
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		d.rem = append(d.rem, chunk[start:]...)
	}
	return nil
}

// flush decodes any token left after the final chunk.
func (d *tupleDecoder) flush() error {
	if len(d.rem) == 0 {
		return nil
	}
	return d.token(nil)
}

// token decodes the token formed by rem plus tail and appends the sample.
func (d *tupleDecoder) token(tail []byte) error {
	token := string(append(d.rem, tail...))
	d.rem = d.rem[:0]
	index := d.n
	d.n++

	comma := strings.IndexByte(token, ',')
	if comma < 0 || strings.IndexByte(token[comma+1:], ',') >= 0 {
		return &MalformedSampleError{Token: token, Index: index}
	}
	category, suffix := token[:comma], token[comma+1:]
	value, err := strconv.ParseFloat(suffix, 32)
	if err != nil {
		return &MalformedSampleError{Token: token, Index: index}
	}

	if _, ok := groundCategories[category]; ok {
		d.samples = append(d.samples, Sample{Class: ClassGround, Value: float32(value)})
	} else {
		d.samples = append(d.samples, Sample{Class: ClassNoData, Value: NoDataValue})
	}
	return nil
}
