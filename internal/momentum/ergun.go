package momentum

import (
	"math"

	"github.com/sorbentlab/breakthrough/internal/column"
)

// ErgunParams carries the physical constants the Ergun momentum closure
// needs beyond the carrier gas properties.
type ErgunParams struct {
	Gas     CarrierGasProperties
	R       float64
	T       float64
	Epsilon float64
	VIn     float64
}

// Ergun is the semi-empirical packed-bed momentum closure combining a
// laminar (Kozeny-Carman) and turbulent (Burke-Plummer) pressure-drop
// contribution.
type Ergun struct {
	Params ErgunParams
}

func NewErgun(p ErgunParams) *Ergun { return &Ergun{Params: p} }

// quadraticCoeffs returns the a, b coefficients of the Ergun quadratic
// a*V^2 + b*V + c = 0, which do not vary along the column (they are
// evaluated once at v_in and the column temperature).
func (e *Ergun) quadraticCoeffs() (a, b float64) {
	p := e.Params
	dp := p.Gas.ParticleD
	mu := p.Gas.Viscosity(p.T)
	absVin := math.Abs(p.VIn)
	sign := 1.0
	if p.VIn < 0 {
		sign = -1.0
	}
	a = 1.75 * (1 - p.Epsilon) * p.Gas.MolarMass / (p.Epsilon * dp * p.R) * absVin * sign
	b = 150 * mu * (1 - p.Epsilon) * (1 - p.Epsilon) / (p.Epsilon * p.Epsilon * dp * dp)
	return
}

// solveQuadratic solves a*V^2+b*V+c=0 and returns the root whose sign
// matches v_in, the physically consistent one for the prevailing flow
// direction.
func solveQuadratic(a, b, c, vIn float64) float64 {
	if a == 0 {
		if b == 0 {
			return vIn
		}
		return -c / b
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		disc = 0
	}
	sq := math.Sqrt(disc)
	r1 := (-b + sq) / (2 * a)
	r2 := (-b - sq) / (2 * a)
	if vIn >= 0 {
		if r1 >= r2 {
			return r1
		}
		return r2
	}
	if r1 <= r2 {
		return r1
	}
	return r2
}

// Compute fills s.V[1..N] by solving the Ergun quadratic at every interior
// and outlet node from the current pressure profile s.Pt; s.V[0] is pinned
// to v_in.
func (e *Ergun) Compute(g *column.GridDescriptor, s *column.State) {
	a, b := e.quadraticCoeffs()
	s.V[0] = e.Params.VIn
	for i := 1; i <= g.N; i++ {
		c := (s.Pt[i] - s.Pt[i-1]) / g.Dx
		s.V[i] = solveQuadratic(a, b, c, e.Params.VIn)
	}
}

// pressureGradient evaluates dPt/dz at the given local pressure, holding V
// fixed at v_in and using the ideal-gas density rho_g = Pt*M/(R*T) — the
// Ergun ODE used to seed the initial pressure profile.
func (e *Ergun) pressureGradient(pt float64) float64 {
	p := e.Params
	dp := p.Gas.ParticleD
	mu := p.Gas.Viscosity(p.T)
	rhoG := pt * p.Gas.MolarMass / (p.R * p.T)
	burkePlummer := 1.75 * (1 - p.Epsilon) * rhoG / (p.Epsilon * dp) * p.VIn * math.Abs(p.VIn)
	kozenyCarman := 150 * mu * (1 - p.Epsilon) * (1 - p.Epsilon) / (p.Epsilon * p.Epsilon * dp * dp) * p.VIn
	return -(burkePlummer + kozenyCarman)
}

// InitialPressureProfile integrates the Ergun ODE backward from Pt[N]=pTotal
// via explicit Euler, evaluating the derivative at the already-known
// downstream point of each interval.
func (e *Ergun) InitialPressureProfile(g *column.GridDescriptor, pTotal float64) []float64 {
	pt := make([]float64, g.Nodes())
	pt[g.N] = pTotal
	for i := g.N - 1; i >= 0; i-- {
		grad := e.pressureGradient(pt[i+1])
		pt[i] = pt[i+1] - grad*g.Dx
	}
	return pt
}

// ForwardIntegratePressure reconstructs the profile from pt[0] by solving,
// at every step, the same implicit relation InitialPressureProfile used
// (pt[i] = pt[i+1] - grad(pt[i+1])*dx) for the unknown pt[i+1] via Newton.
// Round-tripping a profile through InitialPressureProfile and then this
// function reproduces the original to within Newton tolerance.
func (e *Ergun) ForwardIntegratePressure(g *column.GridDescriptor, pt0 float64) []float64 {
	pt := make([]float64, g.Nodes())
	pt[0] = pt0
	for i := 0; i < g.N; i++ {
		target := pt[i]
		guess := pt[i]
		for iter := 0; iter < 50; iter++ {
			f := guess - e.pressureGradient(guess)*g.Dx - target
			if math.Abs(f) < 1e-10 {
				break
			}
			const h = 1e-6
			fp := (guess + h - e.pressureGradient(guess+h)*g.Dx - target - f) / h
			if fp == 0 {
				break
			}
			guess -= f / fp
		}
		pt[i+1] = guess
	}
	return pt
}
