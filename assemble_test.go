package gsidem

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseSequenceRule(t *testing.T) {
	for _, tc := range []struct {
		order string
		want  SequenceRule
	}{
		{order: "+x-y", want: SequenceRule{FastAxis: AxisX, FastStep: 1, SlowStep: 1}},
		{order: "+x+y", want: SequenceRule{FastAxis: AxisX, FastStep: 1, SlowStep: -1}},
		{order: "-x-y", want: SequenceRule{FastAxis: AxisX, FastStep: -1, SlowStep: 1}},
		{order: "+y+x", want: SequenceRule{FastAxis: AxisY, FastStep: -1, SlowStep: 1}},
		{order: "-y-x", want: SequenceRule{FastAxis: AxisY, FastStep: 1, SlowStep: -1}},
	} {
		t.Run(tc.order, func(t *testing.T) {
			rule, err := ParseSequenceRule(tc.order)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, rule)
			assert.Equal(t, tc.order, rule.String())
		})
	}
}

func TestParseSequenceRuleInvalid(t *testing.T) {
	for _, order := range []string{"", "+x", "+x-z", "*x-y", "+x-x", "+y+y", "+x-y+z"} {
		_, err := ParseSequenceRule(order)
		assert.Error(t, err, "%q", order)
	}
}

func TestSequenceRuleCapacity(t *testing.T) {
	plusXMinusY := SequenceRule{FastAxis: AxisX, FastStep: 1, SlowStep: 1}
	for _, tc := range []struct {
		name       string
		rule       SequenceRule
		rows, cols int
		start      Coord
		want       int
	}{
		{name: "full grid", rule: plusXMinusY, rows: 2, cols: 2, start: Coord{}, want: 4},
		{name: "mid row start", rule: plusXMinusY, rows: 3, cols: 4, start: Coord{X: 2, Y: 0}, want: 10},
		{name: "last row", rule: plusXMinusY, rows: 3, cols: 4, start: Coord{X: 0, Y: 2}, want: 4},
		{name: "last cell", rule: plusXMinusY, rows: 3, cols: 4, start: Coord{X: 3, Y: 2}, want: 1},
		{
			name: "reverse traversal",
			rule: SequenceRule{FastAxis: AxisX, FastStep: -1, SlowStep: -1},
			rows: 3, cols: 4, start: Coord{X: 3, Y: 2},
			want: 12,
		},
		{
			name: "column major",
			rule: SequenceRule{FastAxis: AxisY, FastStep: 1, SlowStep: 1},
			rows: 3, cols: 4, start: Coord{X: 1, Y: 1},
			want: 8,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.rule.capacity(tc.rows, tc.cols, tc.start))
		})
	}
}

func TestSequenceRuleIndex(t *testing.T) {
	// Under "+x-y" from the grid origin, decode order is row-major from the
	// north-west corner.
	rule := SequenceRule{FastAxis: AxisX, FastStep: 1, SlowStep: 1}
	wantOrder := []Coord{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
		{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1},
	}
	for i, c := range wantOrder {
		assert.Equal(t, i, rule.index(2, 3, Coord{}, c))
	}

	// Cells before a mid-grid start point are not reachable.
	start := Coord{X: 1, Y: 1}
	assert.Equal(t, -1, rule.index(2, 3, start, Coord{X: 0, Y: 0}))
	assert.Equal(t, -1, rule.index(2, 3, start, Coord{X: 0, Y: 1}))
	assert.Equal(t, 0, rule.index(2, 3, start, Coord{X: 1, Y: 1}))
	assert.Equal(t, 1, rule.index(2, 3, start, Coord{X: 2, Y: 1}))
}

func TestAssembleErrors(t *testing.T) {
	meta := Metadata{MeshCode: "62414077"}
	rule := SequenceRule{FastAxis: AxisX, FastStep: 1, SlowStep: 1}
	samples := []Sample{{Class: ClassGround, Value: 1}}

	_, err := assemble(meta, 35, 139, 35.001, 139.001, 0, 2, rule, Coord{}, samples)
	var malformedErr *MalformedDocumentError
	assert.True(t, errors.As(err, &malformedErr))

	_, err = assemble(meta, 35, 139, 35.001, 139.001, 2, 2, rule, Coord{X: 2, Y: 0}, samples)
	assert.True(t, errors.As(err, &malformedErr))

	// Inverted envelope.
	_, err = assemble(meta, 35.001, 139, 35, 139.001, 2, 2, rule, Coord{}, samples)
	assert.True(t, errors.As(err, &malformedErr))
}
