// Package momentum implements the two mutually exclusive velocity closures:
// velocity-from-continuity (this file) and the Ergun-coupled quadratic
// (ergun.go).
package momentum

import "github.com/sorbentlab/breakthrough/internal/column"

// ContinuityParams carries the constants the material-balance closure needs.
type ContinuityParams struct {
	R       float64
	T       float64
	Epsilon float64
	RhoP    float64
	VIn     float64
}

// Continuity is the baseline velocity closure used by the implicit solver:
// it enforces the overall material balance, marching V forward from the
// fixed inlet value V[0]=v_in. The net molar consumption
// by sorption at node i (Σ_j Kl[j]*(qeq-q), converted to a pressure-flux
// term via the ideal-gas prefactor) is subtracted from the total pressure
// flux Pt*V as it advances to i+1.
type Continuity struct {
	Params ContinuityParams
}

func NewContinuity(p ContinuityParams) *Continuity { return &Continuity{Params: p} }

// Compute fills s.V given the current Pt, Q, and Qeq. s.V[0] is pinned to
// c.Params.VIn.
func (c *Continuity) Compute(g *column.GridDescriptor, s *column.State) {
	s.V[0] = c.Params.VIn
	flux := s.Pt[0] * c.Params.VIn
	for i := 0; i < g.N; i++ {
		var sink float64
		for j := 0; j < g.Ncomp; j++ {
			idx := g.Idx(i, j)
			sink += g.Comps[j].Kl * (s.Qeq[idx] - s.Q[idx])
		}
		prefactor := c.Params.R * c.Params.T * ((1 - c.Params.Epsilon) / c.Params.Epsilon) * c.Params.RhoP
		flux -= g.Dx * prefactor * sink
		if s.Pt[i+1] != 0 {
			s.V[i+1] = flux / s.Pt[i+1]
		}
	}
}
