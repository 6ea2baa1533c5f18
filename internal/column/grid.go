// Package column owns the node-indexed arrays of the fixed-bed breakthrough
// PDE and the invariants that every other component of the solver relies on.
package column

import "fmt"

// GridDescriptor is the immutable geometry and component layout of a run,
// computed once at construction.
type GridDescriptor struct {
	N      int // number of intervals; nodes are indexed 0..N
	Ncomp  int
	Dx     float64 // L / N
	L      float64
	Comps  []Component

	// MaxIsothermTerms sizes the per-node IAST scratch.
	MaxIsothermTerms int

	// CarrierIndex is the index of the carrier component within Comps.
	CarrierIndex int
}

// NewGridDescriptor validates and builds the immutable grid geometry.
func NewGridDescriptor(n, maxIsothermTerms int, length float64, comps []Component) (*GridDescriptor, error) {
	if n < 2 {
		return nil, NewSimError(ConfigInvalid, 0, -1, fmt.Errorf("NumberOfGridPoints must be >= 2, got %d", n))
	}
	if len(comps) < 2 {
		return nil, NewSimError(ConfigInvalid, 0, -1, fmt.Errorf("need a carrier plus at least one adsorbing component"))
	}
	carrier := -1
	for i, c := range comps {
		if c.Carrier {
			if carrier >= 0 {
				return nil, NewSimError(ConfigInvalid, 0, -1, fmt.Errorf("more than one component flagged as carrier"))
			}
			carrier = i
		}
	}
	if carrier < 0 {
		return nil, NewSimError(ConfigInvalid, 0, -1, fmt.Errorf("no carrier component flagged"))
	}
	return &GridDescriptor{
		N:                n,
		Ncomp:            len(comps),
		Dx:               length / float64(n),
		L:                length,
		Comps:            comps,
		MaxIsothermTerms: maxIsothermTerms,
		CarrierIndex:     carrier,
	}, nil
}

// Nodes returns N+1, the number of grid nodes.
func (g *GridDescriptor) Nodes() int { return g.N + 1 }

// Idx returns the flat, node-major component-contiguous index of node i,
// component j.
func (g *GridDescriptor) Idx(i, j int) int { return i*g.Ncomp + j }

// State holds the mutable per-node and per-node-per-component arrays.
// Arrays are allocated once and never reallocated.
type State struct {
	Pt []float64 // length Nodes()
	V  []float64 // length Nodes()

	P   []float64 // length Nodes()*Ncomp
	Q   []float64
	Qeq []float64
	Y   []float64

	// T is non-nil only when a non-isothermal caller (out of scope for this
	// repository) supplies an energy channel.
	T []float64
}

// Derivatives holds the per-stage time-derivative buffers computed by
// internal/discretization and consumed by internal/integrator.
type Derivatives struct {
	DPdt []float64
	DQdt []float64
	DYdt []float64

	// DPtdt is the total-pressure time derivative, length Nodes(). Only the
	// mole-fraction integrator variant fills and consumes it; the
	// partial-pressure variant derives Pt from Sum(P) each stage instead.
	DPtdt []float64

	// DTdt mirrors State.T: non-nil only for a non-isothermal extension.
	DTdt []float64
}

// NewState allocates a zeroed State sized for g.
func NewState(g *GridDescriptor) *State {
	nodes := g.Nodes()
	return &State{
		Pt:  make([]float64, nodes),
		V:   make([]float64, nodes),
		P:   make([]float64, nodes*g.Ncomp),
		Q:   make([]float64, nodes*g.Ncomp),
		Qeq: make([]float64, nodes*g.Ncomp),
		Y:   make([]float64, nodes*g.Ncomp),
	}
}

// NewDerivatives allocates a zeroed Derivatives sized for g.
func NewDerivatives(g *GridDescriptor) *Derivatives {
	nodes := g.Nodes()
	return &Derivatives{
		DPdt:  make([]float64, nodes*g.Ncomp),
		DQdt:  make([]float64, nodes*g.Ncomp),
		DYdt:  make([]float64, nodes*g.Ncomp),
		DPtdt: make([]float64, nodes),
	}
}

// Clone deep-copies a State — used to build the RK "new" shadow buffers so
// stage writes never touch the committed state in place.
func (s *State) Clone() *State {
	c := &State{
		Pt:  append([]float64(nil), s.Pt...),
		V:   append([]float64(nil), s.V...),
		P:   append([]float64(nil), s.P...),
		Q:   append([]float64(nil), s.Q...),
		Qeq: append([]float64(nil), s.Qeq...),
		Y:   append([]float64(nil), s.Y...),
	}
	if s.T != nil {
		c.T = append([]float64(nil), s.T...)
	}
	return c
}

// CopyInto overwrites dst's arrays with src's contents (same lengths).
func (dst *State) CopyInto(src *State) {
	copy(dst.Pt, src.Pt)
	copy(dst.V, src.V)
	copy(dst.P, src.P)
	copy(dst.Q, src.Q)
	copy(dst.Qeq, src.Qeq)
	copy(dst.Y, src.Y)
	if src.T != nil && dst.T != nil {
		copy(dst.T, src.T)
	}
}

// ReconstructP sets P[i,j] = Y[i,j] * Pt[i] for every node, node-major. Used
// by the commit step of the mole-fraction integrator variant to keep P
// consistent with the integrated (Y, Pt) pair exactly, rather than letting
// rounding drift the two apart.
func (s *State) ReconstructP(g *GridDescriptor) {
	nodes := g.Nodes()
	for i := 0; i < nodes; i++ {
		pt := s.Pt[i]
		for j := 0; j < g.Ncomp; j++ {
			idx := g.Idx(i, j)
			s.P[idx] = s.Y[idx] * pt
		}
	}
}

// ReconstructY sets Y[i,j] = P[i,j] / Pt[i] for every node — the dual of
// ReconstructP, used by the baseline (P,Q) integrator variant where Y is a
// derived quantity rather than an integrated one.
func (s *State) ReconstructY(g *GridDescriptor) {
	nodes := g.Nodes()
	for i := 0; i < nodes; i++ {
		pt := s.Pt[i]
		for j := 0; j < g.Ncomp; j++ {
			idx := g.Idx(i, j)
			if pt != 0 {
				s.Y[idx] = s.P[idx] / pt
			}
		}
	}
}

// SumPressures returns Σ_j P[i,j] for node i.
func (s *State) SumPressures(g *GridDescriptor, i int) float64 {
	var sum float64
	for j := 0; j < g.Ncomp; j++ {
		sum += s.P[g.Idx(i, j)]
	}
	return sum
}

// SumMoleFractions returns Σ_j Y[i,j] for node i.
func (s *State) SumMoleFractions(g *GridDescriptor, i int) float64 {
	var sum float64
	for j := 0; j < g.Ncomp; j++ {
		sum += s.Y[g.Idx(i, j)]
	}
	return sum
}

// CheckInvariants validates the mole-fraction and pressure closure and
// non-negativity properties of a State to within the given tolerances.
// Intended for tests and for an optional debug-mode driver check, not the
// hot path.
func (s *State) CheckInvariants(g *GridDescriptor, moleFracTol, pressureRelTol, negTol float64) error {
	nodes := g.Nodes()
	for i := 0; i < nodes; i++ {
		if d := s.SumMoleFractions(g, i) - 1; d > moleFracTol || d < -moleFracTol {
			return fmt.Errorf("node %d: mole fractions sum to %v, want 1", i, s.SumMoleFractions(g, i))
		}
		sumP := s.SumPressures(g, i)
		if d := sumP - s.Pt[i]; d > pressureRelTol*s.Pt[i] || d < -pressureRelTol*s.Pt[i] {
			return fmt.Errorf("node %d: partial pressures sum to %v, want Pt=%v", i, sumP, s.Pt[i])
		}
		for j := 0; j < g.Ncomp; j++ {
			idx := g.Idx(i, j)
			if s.P[idx] < -negTol {
				return fmt.Errorf("node %d comp %d: negative partial pressure %v", i, j, s.P[idx])
			}
			if s.Q[idx] < -negTol {
				return fmt.Errorf("node %d comp %d: negative loading %v", i, j, s.Q[idx])
			}
		}
	}
	return nil
}
