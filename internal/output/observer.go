package output

import (
	"go.uber.org/multierr"

	"github.com/sorbentlab/breakthrough/internal/column"
	"github.com/sorbentlab/breakthrough/internal/discretization"
)

// MultiObserver fans a committed frame out to the column trace and every
// per-component breakthrough-curve writer, implementing
// internal/simulation.Observer.
type MultiObserver struct {
	Column     *ColumnWriter
	Components []*ComponentWriter
	Disc       discretization.Params
}

func (m *MultiObserver) WriteFrame(g *column.GridDescriptor, s *column.State, step int, t float64) error {
	var errs error
	if m.Column != nil {
		if err := m.Column.WriteFrame(g, s, m.Disc); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	for _, cw := range m.Components {
		if err := cw.WriteRow(g, s, t); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
