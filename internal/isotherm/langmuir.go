package isotherm

import "math"

// Langmuir is the single-component Langmuir isotherm q(p) = qsat*b*p/(1+b*p).
type Langmuir struct {
	Qsat float64 // mol/kg
	B    float64 // Pa^-1
}

// Loading returns the pure-component equilibrium loading at pressure p.
func (l Langmuir) Loading(p float64) float64 {
	if p <= 0 {
		return 0
	}
	return l.Qsat * l.B * p / (1 + l.B*p)
}

// SpreadingPressure returns the reduced spreading pressure
// Psi(P) = ∫_0^P q(p)/p dp = Qsat * ln(1 + B*P), the coupling variable IAST
// equates across components.
func (l Langmuir) SpreadingPressure(p float64) float64 {
	if p <= 0 {
		return 0
	}
	return l.Qsat * math.Log1p(l.B*p)
}

// InversePressure returns the hypothetical pure-component pressure P0 such
// that SpreadingPressure(P0) == psi.
func (l Langmuir) InversePressure(psi float64) float64 {
	if psi <= 0 {
		return 0
	}
	return (math.Exp(psi/l.Qsat) - 1) / l.B
}
