// Package output writes the plain, script-free data streams a run produces:
// a full-state column trace and one normalized breakthrough-curve file per
// component. Every writer takes an io.Writer, so tests substitute a
// bytes.Buffer instead of touching disk.
package output

import (
	"fmt"
	"io"

	"github.com/sorbentlab/breakthrough/internal/column"
	"github.com/sorbentlab/breakthrough/internal/discretization"
)

// ColumnWriter emits blank-line separated frames, one per WriteFrame call:
// N+1 lines of `z V Pt {Q Qeq P Pnorm dPdt dQdt}×Ncomp`.
type ColumnWriter struct {
	w     io.Writer
	wrote bool
}

func NewColumnWriter(w io.Writer) *ColumnWriter { return &ColumnWriter{w: w} }

// WriteFrame recomputes dQ/dt and dP/dt fresh from the committed state for
// diagnostic display; these do not feed back into the integrator.
func (cw *ColumnWriter) WriteFrame(g *column.GridDescriptor, s *column.State, disc discretization.Params) error {
	if cw.wrote {
		if _, err := fmt.Fprintln(cw.w); err != nil {
			return err
		}
	}
	cw.wrote = true

	deriv := column.NewDerivatives(g)
	discretization.LDF(g, s, deriv)
	discretization.PressureApproach1(g, s, deriv, disc)

	for i := 0; i < g.Nodes(); i++ {
		z := float64(i) * g.Dx
		line := fmt.Sprintf("%g %g %g", z, s.V[i], s.Pt[i])
		for j := 0; j < g.Ncomp; j++ {
			idx := g.Idx(i, j)
			var pnorm float64
			if s.Pt[i] != 0 {
				pnorm = s.P[idx] / s.Pt[i]
			}
			line += fmt.Sprintf(" %g %g %g %g %g %g",
				s.Q[idx], s.Qeq[idx], s.P[idx], pnorm, deriv.DPdt[idx], deriv.DQdt[idx])
		}
		if _, err := fmt.Fprintln(cw.w, line); err != nil {
			return err
		}
	}
	return nil
}
