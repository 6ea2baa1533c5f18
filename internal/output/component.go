package output

import (
	"fmt"
	"io"

	"github.com/sorbentlab/breakthrough/internal/column"
)

// ComponentWriter emits the normalized breakthrough curve for one
// component: τ = t·v_in/L, t[min], and P[N,k]/((p_total+dptdx·L)·Yi0[k]).
type ComponentWriter struct {
	w      io.Writer
	Index  int
	Yi0    float64
	VIn    float64
	L      float64
	PTotal float64
	DPtDx  float64
}

func NewComponentWriter(w io.Writer, index int, yi0, vIn, l, pTotal, dptdx float64) *ComponentWriter {
	return &ComponentWriter{w: w, Index: index, Yi0: yi0, VIn: vIn, L: l, PTotal: pTotal, DPtDx: dptdx}
}

// WriteRow appends one breakthrough-curve sample at time t.
func (cw *ComponentWriter) WriteRow(g *column.GridDescriptor, s *column.State, t float64) error {
	tau := t * cw.VIn / cw.L
	tMin := t / 60
	denom := (cw.PTotal + cw.DPtDx*cw.L) * cw.Yi0
	var pnorm float64
	if denom != 0 {
		pnorm = s.P[g.Idx(g.N, cw.Index)] / denom
	}
	_, err := fmt.Fprintf(cw.w, "%g %g %g\n", tau, tMin, pnorm)
	return err
}
