package gsidem

import "fmt"

// An Axis names a grid axis. AxisX runs along columns, AxisY along rows.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// A SequenceRule is the traversal directive from gml:sequenceRule's order
// attribute, e.g. "+x-y": the first sign/axis pair is the fast axis, the
// second the slow axis. Signs are geographic: +x is eastward, +y is
// northward. Because row 0 is the northern edge of the grid, -y advances the
// row index and +y decreases it.
type SequenceRule struct {
	FastAxis Axis
	FastStep int // step in grid indices along the fast axis
	SlowStep int // step in grid indices along the slow axis
}

// ParseSequenceRule parses an order directive such as "+x-y".
func ParseSequenceRule(order string) (SequenceRule, error) {
	if len(order) != 4 {
		return SequenceRule{}, fmt.Errorf("invalid sequence rule order %q", order)
	}
	fastAxis, fastStep, err := parseAxisStep(order[0], order[1])
	if err != nil {
		return SequenceRule{}, fmt.Errorf("invalid sequence rule order %q: %w", order, err)
	}
	slowAxis, slowStep, err := parseAxisStep(order[2], order[3])
	if err != nil {
		return SequenceRule{}, fmt.Errorf("invalid sequence rule order %q: %w", order, err)
	}
	if fastAxis == slowAxis {
		return SequenceRule{}, fmt.Errorf("invalid sequence rule order %q: axis repeated", order)
	}
	return SequenceRule{FastAxis: fastAxis, FastStep: fastStep, SlowStep: slowStep}, nil
}

func parseAxisStep(sign, axis byte) (Axis, int, error) {
	var step int
	switch sign {
	case '+':
		step = 1
	case '-':
		step = -1
	default:
		return 0, 0, fmt.Errorf("bad sign %q", sign)
	}
	switch axis {
	case 'x':
		// +x is eastward, which is the direction of increasing column.
		return AxisX, step, nil
	case 'y':
		// +y is northward, which is the direction of decreasing row.
		return AxisY, -step, nil
	default:
		return 0, 0, fmt.Errorf("bad axis %q", axis)
	}
}

func (r SequenceRule) String() string {
	sign := func(axis Axis, step int) byte {
		if axis == AxisY {
			step = -step
		}
		if step > 0 {
			return '+'
		}
		return '-'
	}
	name := func(axis Axis) byte {
		if axis == AxisX {
			return 'x'
		}
		return 'y'
	}
	slowAxis := AxisY
	if r.FastAxis == AxisY {
		slowAxis = AxisX
	}
	return string([]byte{sign(r.FastAxis, r.FastStep), name(r.FastAxis), sign(slowAxis, r.SlowStep), name(slowAxis)})
}

// axes returns the traversal geometry in directed coordinates: the fast and
// slow axis lengths, and the start position measured in the direction of
// travel (0 is the first cell visited along that axis).
func (r SequenceRule) axes(rows, cols int, start Coord) (fastLen, slowLen, fastStart, slowStart int) {
	if r.FastAxis == AxisX {
		fastLen, slowLen = cols, rows
		fastStart = directed(start.X, cols, r.FastStep)
		slowStart = directed(start.Y, rows, r.SlowStep)
	} else {
		fastLen, slowLen = rows, cols
		fastStart = directed(start.Y, rows, r.FastStep)
		slowStart = directed(start.X, cols, r.SlowStep)
	}
	return fastLen, slowLen, fastStart, slowStart
}

func directed(index, length, step int) int {
	if step > 0 {
		return index
	}
	return length - 1 - index
}

// capacity returns the number of grid cells reachable from start under r.
func (r SequenceRule) capacity(rows, cols int, start Coord) int {
	fastLen, slowLen, fastStart, slowStart := r.axes(rows, cols, start)
	return (slowLen-slowStart)*fastLen - fastStart
}

// index returns the decode-order index of grid cell c for a traversal from
// start, or -1 if the traversal does not reach c before the start point.
func (r SequenceRule) index(rows, cols int, start, c Coord) int {
	fastLen, _, fastStart, slowStart := r.axes(rows, cols, start)
	var fast, slow int
	if r.FastAxis == AxisX {
		fast = directed(c.X, cols, r.FastStep)
		slow = directed(c.Y, rows, r.SlowStep)
	} else {
		fast = directed(c.Y, rows, r.FastStep)
		slow = directed(c.X, cols, r.SlowStep)
	}
	index := (slow-slowStart)*fastLen + fast - fastStart
	if index < 0 {
		return -1
	}
	return index
}

// assemble validates the extracted metadata against the decoded sample
// sequence and constructs the tile. Samples are kept in decode order; no-data
// entries occupy their grid cell and carry NoDataValue.
func assemble(meta Metadata, lowerLat, lowerLon, upperLat, upperLon float64, rows, cols int, rule SequenceRule, start Coord, samples []Sample) (*DemTile, error) {
	if rows < 1 || cols < 1 {
		return nil, &MalformedDocumentError{Reason: fmt.Sprintf("grid envelope declares %dx%d grid", rows, cols)}
	}
	if start.X < 0 || start.X >= cols || start.Y < 0 || start.Y >= rows {
		return nil, &MalformedDocumentError{Reason: fmt.Sprintf("start point (%d, %d) outside %dx%d grid", start.X, start.Y, rows, cols)}
	}
	xRes := (upperLon - lowerLon) / float64(cols)
	yRes := (upperLat - lowerLat) / float64(rows)
	if xRes <= 0 || yRes <= 0 {
		return nil, &MalformedDocumentError{Reason: "degenerate envelope: upper corner does not exceed lower corner"}
	}
	if capacity := rule.capacity(rows, cols, start); len(samples) > capacity {
		return nil, &GridOverflowError{Rows: rows, Cols: cols, Capacity: capacity, Samples: len(samples)}
	}

	values := make([]float32, len(samples))
	for i, sample := range samples {
		values[i] = sample.Value
	}
	return &DemTile{
		Rows:       rows,
		Cols:       cols,
		OriginLon:  lowerLon,
		OriginLat:  originLat(lowerLat, upperLat),
		XRes:       xRes,
		YRes:       yRes,
		StartPoint: start,
		Rule:       rule,
		Values:     values,
		Metadata:   meta,
	}, nil
}

// originLatUsesLowerCorner pins the origin-latitude convention: OriginLat is
// the latitude of the envelope's lower corner, even though grid row 0 is the
// northern edge. This matches the behavior established by existing consumers;
// TopLat derives the northern edge when one is needed.
const originLatUsesLowerCorner = true

func originLat(lowerLat, upperLat float64) float64 {
	if originLatUsesLowerCorner {
		return lowerLat
	}
	return upperLat
}
