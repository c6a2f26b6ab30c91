package callable

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Tabulated is a labelled data table. A parameter bound to one turns its
// function parameters into interpolants.
type Tabulated struct {
	Label string
	X, Y  []float64
}

// NewTabulated builds a table from loaded rows. Single-column rows are values
// sampled at 0, 1, 2, ...; two-column rows are (x, y) pairs.
func NewTabulated(label string, rows [][]float64) (Tabulated, error) {
	t := Tabulated{Label: label}
	if len(rows) == 0 {
		return t, fmt.Errorf("data %q is empty", label)
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return t, fmt.Errorf("data %q: row %d has %d columns, expected %d", label, i+1, len(row), width)
		}
		switch width {
		case 1:
			t.X = append(t.X, float64(i))
			t.Y = append(t.Y, row[0])
		case 2:
			t.X = append(t.X, row[0])
			t.Y = append(t.Y, row[1])
		default:
			return t, fmt.Errorf("data %q: expected 1 or 2 columns, got %d", label, width)
		}
	}
	return t, nil
}

// Equal reports whether both tables hold the same label and samples.
func (t Tabulated) Equal(o Tabulated) bool {
	return t.Label == o.Label &&
		len(t.X) == len(o.X) && len(t.Y) == len(o.Y) &&
		floats.Equal(t.X, o.X) && floats.Equal(t.Y, o.Y)
}
