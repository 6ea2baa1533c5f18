// Package discretization computes the spatial derivative fields dQ/dt,
// dP/dt, dY/dt from a snapshot (Q, Qeq, V, P, Y, Pt). It never allocates on
// the hot path: callers supply the Derivatives buffer to fill.
package discretization

import "github.com/sorbentlab/breakthrough/internal/column"

// Params carries the physical constants the stencils need beyond the grid
// geometry itself.
type Params struct {
	R       float64 // universal gas constant [J/(mol*K)]
	T       float64 // column temperature [K]
	Epsilon float64 // void fraction
	RhoP    float64 // particle density [kg/m^3]
}

// Prefactor returns R*T*((1-eps)/eps)*rho_p*Kl[j], the sorption-sink scaling
// factor used by both the Approach-1 pressure stencil and the Approach-2
// mole-fraction stencil.
func (p Params) Prefactor(kl float64) float64 {
	return p.R * p.T * ((1 - p.Epsilon) / p.Epsilon) * p.RhoP * kl
}

// LDF fills out.DQdt with the linear-driving-force loading derivative at
// every node and component: dq/dt[i,j] = Kl[j]*(qeq[i,j]-q[i,j]). This holds
// unconditionally at every boundary, in both discretization approaches.
func LDF(g *column.GridDescriptor, s *column.State, out *column.Derivatives) {
	nodes := g.Nodes()
	for i := 0; i < nodes; i++ {
		for j := 0; j < g.Ncomp; j++ {
			idx := g.Idx(i, j)
			out.DQdt[idx] = g.Comps[j].Kl * (s.Qeq[idx] - s.Q[idx])
		}
	}
}

// PressureApproach1 fills out.DPdt using the mass-balance-derived stencil:
// one-sided convection -V[i]*(P[i+1]-P[i])/dx plus a velocity-divergence
// term plus the sorption sink. Node 0 is left untouched
// (Dirichlet inlet, reset at commit); callers relying on that must zero
// out.DPdt[0,*] themselves if reusing a buffer across approaches.
func PressureApproach1(g *column.GridDescriptor, s *column.State, out *column.Derivatives, p Params) {
	dx := g.Dx
	N := g.N
	for j := 0; j < g.Ncomp; j++ {
		prefactor := p.Prefactor(g.Comps[j].Kl)
		for i := 1; i < N; i++ {
			idx := g.Idx(i, j)
			idxP1 := g.Idx(i+1, j)
			conv := -s.V[i] * (s.P[idxP1] - s.P[idx]) / dx
			div := -s.P[idx] * (s.V[i+1] - s.V[i]) / dx
			sink := -prefactor * (s.Qeq[idx] - s.Q[idx])
			out.DPdt[idx] = conv + div + sink
		}
		// Outlet: only the divergence term and sorption sink remain — the
		// forward difference convection has no i+1 to draw from.
		idxN := g.Idx(N, j)
		div := -s.P[idxN] * (s.V[N] - s.V[N-1]) / dx
		sink := -prefactor * (s.Qeq[idxN] - s.Q[idxN])
		out.DPdt[idxN] = div + sink
	}
}

// MoleFractionApproach2 fills out.DYdt using the Ergun-coupled stencil: a
// second-order central axial-dispersion Laplacian, first-order upwind
// (backward) advection, and a
// pressure-weighted sorption source. dy/dt[0,j]=0 (Dirichlet). The outlet
// uses one-sided differences with the Danckwerts ghost substitution
// y[N+1]=y[N] (zero gradient), which is why the diffusion Laplacian at N
// collapses to a single backward difference.
func MoleFractionApproach2(g *column.GridDescriptor, s *column.State, out *column.Derivatives, p Params) {
	dx := g.Dx
	dx2 := dx * dx
	N := g.N
	for j := 0; j < g.Ncomp; j++ {
		prefactor := p.Prefactor(g.Comps[j].Kl)
		d := g.Comps[j].D
		out.DYdt[g.Idx(0, j)] = 0
		for i := 1; i < N; i++ {
			idx := g.Idx(i, j)
			idxM1 := g.Idx(i-1, j)
			idxP1 := g.Idx(i+1, j)
			diff := d * (s.Y[idxP1] - 2*s.Y[idx] + s.Y[idxM1]) / dx2
			adv := -s.V[i] * (s.Y[idx] - s.Y[idxM1]) / dx
			var source float64
			if s.Pt[i] != 0 {
				source = -(prefactor / s.Pt[i]) * (s.Qeq[idx] - s.Q[idx])
			}
			out.DYdt[idx] = diff + adv + source
		}
		idxN := g.Idx(N, j)
		idxNm1 := g.Idx(N-1, j)
		diff := d * (s.Y[idxNm1] - s.Y[idxN]) / dx2
		adv := -s.V[N] * (s.Y[idxN] - s.Y[idxNm1]) / dx
		var source float64
		if s.Pt[N] != 0 {
			source = -(prefactor / s.Pt[N]) * (s.Qeq[idxN] - s.Q[idxN])
		}
		out.DYdt[idxN] = diff + adv + source
	}
}

// TotalPressure fills out.DPtdt, the total-pressure counterpart of
// PressureApproach1 obtained by summing the per-component partial-pressure
// balance over j. Used by the mole-fraction integrator variant, where Pt is
// carried as an independent unknown rather than reconstructed as Σ_j P[i,j].
//
// Node 0 uses the same forward-differenced convection and divergence terms
// as the interior nodes (it only needs V[0], Pt[0], and Pt[1], all already
// available) — the Ergun closure leaves Pt[0] to this stencil rather than
// pinning it Dirichlet; see boundary.Config.ErgunCoupled.
func TotalPressure(g *column.GridDescriptor, s *column.State, out *column.Derivatives, p Params) {
	dx := g.Dx
	N := g.N
	for i := 0; i < N; i++ {
		conv := -s.V[i] * (s.Pt[i+1] - s.Pt[i]) / dx
		div := -s.Pt[i] * (s.V[i+1] - s.V[i]) / dx
		var sink float64
		for j := 0; j < g.Ncomp; j++ {
			idx := g.Idx(i, j)
			sink -= p.Prefactor(g.Comps[j].Kl) * (s.Qeq[idx] - s.Q[idx])
		}
		out.DPtdt[i] = conv + div + sink
	}
	div := -s.Pt[N] * (s.V[N] - s.V[N-1]) / dx
	var sink float64
	for j := 0; j < g.Ncomp; j++ {
		idxN := g.Idx(N, j)
		sink -= p.Prefactor(g.Comps[j].Kl) * (s.Qeq[idxN] - s.Q[idxN])
	}
	out.DPtdt[N] = div + sink
}
