package isotherm

import (
	"math"

	"github.com/sorbentlab/breakthrough/internal/equilibrium"
)

// IAST implements equilibrium.Oracle using ideal adsorbed solution theory
// over per-component Langmuir isotherms. This is the concrete stand-in for
// the black-box predictMixture routine: the PDE core never imports this
// package directly, only equilibrium.Oracle.
type IAST struct {
	// Isotherms holds one Langmuir isotherm per component, in the same
	// component order the core uses. Carrier's entry is ignored.
	Isotherms []Langmuir
	// CarrierIndex marks the non-adsorbing component; it is always assigned
	// zero adsorbed mole fraction and loading.
	CarrierIndex int
	// MaxIter caps the outer Newton iteration on the spreading pressure.
	MaxIter int
	// Tol is the convergence tolerance on Σx_j - 1.
	Tol float64
}

// NewIAST builds an IAST oracle with the package defaults (MaxIter=100,
// Tol=1e-10); callers may overwrite either field afterwards.
func NewIAST(isotherms []Langmuir, carrierIndex int) *IAST {
	return &IAST{Isotherms: isotherms, CarrierIndex: carrierIndex, MaxIter: 100, Tol: 1e-10}
}

// PredictMixture implements equilibrium.Oracle.
func (m *IAST) PredictMixture(y []float64, pt float64, p0, psi []float64) (xi, ni []float64, innerIters int, err error) {
	n := len(m.Isotherms)
	xi = make([]float64, n)
	ni = make([]float64, n)

	// Total adsorbing mole fraction; the carrier contributes to Pt but not
	// to adsorption.
	var yAds float64
	for j := 0; j < n; j++ {
		if j == m.CarrierIndex {
			continue
		}
		yAds += y[j]
	}
	if yAds <= 0 {
		return xi, ni, 0, nil
	}

	// Warm start: reuse the previous Psi if present, else a crude estimate.
	psiGuess := psi[0]
	if psiGuess <= 0 {
		psiGuess = 1.0
	}

	f := func(psiVal float64) float64 {
		var sum float64
		for j := 0; j < n; j++ {
			if j == m.CarrierIndex || y[j] <= 0 {
				continue
			}
			p0j := m.Isotherms[j].InversePressure(psiVal)
			if p0j <= 0 {
				return math.Inf(1)
			}
			sum += y[j] * pt / p0j
		}
		return sum - 1
	}

	const h = 1e-6
	psiVal := psiGuess
	converged := false
	for iter := 0; iter < m.MaxIter; iter++ {
		innerIters = iter + 1
		fv := f(psiVal)
		if math.Abs(fv) < m.Tol {
			converged = true
			break
		}
		fp := (f(psiVal+h*psiVal+h) - fv) / (h*psiVal + h)
		if fp == 0 || math.IsNaN(fp) || math.IsInf(fp, 0) {
			return nil, nil, innerIters, &equilibrium.ErrDiverged{Iter: innerIters}
		}
		next := psiVal - fv/fp
		if next <= 0 {
			next = psiVal / 2
		}
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return nil, nil, innerIters, &equilibrium.ErrDiverged{Iter: innerIters}
		}
		psiVal = next
	}
	if !converged {
		return nil, nil, innerIters, &equilibrium.ErrDiverged{Iter: innerIters}
	}
	psi[0] = psiVal

	var invQt float64
	for j := 0; j < n; j++ {
		if j == m.CarrierIndex || y[j] <= 0 {
			continue
		}
		p0j := m.Isotherms[j].InversePressure(psiVal)
		if len(p0) > j {
			p0[j] = p0j
		}
		xi[j] = y[j] * pt / p0j
		qj0 := m.Isotherms[j].Loading(p0j)
		if qj0 > 0 {
			invQt += xi[j] / qj0
		}
	}
	if invQt <= 0 {
		return xi, ni, innerIters, nil
	}
	qt := 1 / invQt
	for j := 0; j < n; j++ {
		ni[j] = xi[j] * qt
	}
	return xi, ni, innerIters, nil
}
