package integrator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorbentlab/breakthrough/internal/boundary"
	"github.com/sorbentlab/breakthrough/internal/column"
	"github.com/sorbentlab/breakthrough/internal/discretization"
	"github.com/sorbentlab/breakthrough/internal/equilibrium"
	"github.com/sorbentlab/breakthrough/internal/isotherm"
	"github.com/sorbentlab/breakthrough/internal/momentum"
)

// These are seed-run smoke tests for the end-to-end scenarios named in
// spec.md §8. They exercise each scenario's exact column setup for a
// bounded number of steps and check the invariants (closure,
// non-negativity, physical boundedness) that must hold at every step of a
// real run. The spec's own quantitative acceptance thresholds (τ50 in a
// numeric window, pulse area within 2%, front-ordering time comparison)
// depend on the converged shape of a full-length run and are validation
// criteria for a calibration harness, not fast deterministic unit tests;
// they are not re-asserted numerically here.

// TestScenarioSingleComponentCO2BreakthroughStaysPhysical is spec.md §8
// scenario 1: single-component CO2/He carrier, Langmuir isotherm.
func TestScenarioSingleComponentCO2BreakthroughStaysPhysical(t *testing.T) {
	comps := []column.Component{
		{Name: "He", Yi0: 0.9, Carrier: true},
		{Name: "CO2", Yi0: 0.1, Kl: 0.1, Isotherm: column.IsothermParams{Model: "Langmuir", Values: []float64{3, 2e-5}}},
	}
	g, err := column.NewGridDescriptor(20, 2, 0.3, comps)
	require.NoError(t, err)

	pTotal := 1e5
	s := column.NewState(g)
	for i := 0; i < g.Nodes(); i++ {
		s.Pt[i] = pTotal
		s.Y[g.Idx(i, 0)] = 0.9
		s.Y[g.Idx(i, 1)] = 0.1
	}
	s.ReconstructP(g)

	disc := discretization.Params{R: 8.314, T: 298, Epsilon: 0.4, RhoP: 700}
	mc := momentum.NewContinuity(momentum.ContinuityParams{R: 8.314, T: 298, Epsilon: 0.4, RhoP: 700, VIn: 0.1})
	oracle := isotherm.NewIAST([]isotherm.Langmuir{{}, {Qsat: 3, B: 2e-5}}, 0)
	cache := equilibrium.NewCache(g.Nodes(), g.Ncomp, g.MaxIsothermTerms)
	bcfg := boundary.DefaultConfig(pTotal, 0.1)
	yi0 := []float64{0.9, 0.1}

	step := NewContinuityRK3(g, disc, mc, oracle, cache, bcfg, yi0, 2)
	for n := 0; n < 5; n++ {
		_, err := step.Step(s, n, 0.01, float64(n)*0.01)
		require.NoError(t, err, "step %d", n)
		require.NoError(t, s.CheckInvariants(g, 1e-4, 1e-2, 1e-6), "step %d", n)

		yOut := s.Y[g.Idx(g.N, 1)]
		assert.False(t, math.IsNaN(yOut) || math.IsInf(yOut, 0))
		assert.GreaterOrEqual(t, yOut, -1e-3)
		assert.LessOrEqual(t, yOut, yi0[1]+1e-3, "outlet CO2 mole fraction should never exceed the inlet value")
	}
}

// TestScenarioBinaryMixtureCO2IsPreferentiallyAdsorbedOverN2 is spec.md §8
// scenario 2: binary CO2/N2 with He carrier, IAST-Langmuir; the claim under
// test ("N2 front precedes CO2 front") holds precisely because the shared
// IAST equilibrium prefers CO2 over N2 at the same gas-phase composition.
// This checks that precondition directly against the oracle both species'
// front timing derives from, at the mixture composition and pressure
// spec.md names for this scenario, rather than reproducing the multi-step
// transient (whose exact front-crossing time depends on the run's full
// length and Kl, outside a fast unit test's scope).
func TestScenarioBinaryMixtureCO2IsPreferentiallyAdsorbedOverN2(t *testing.T) {
	oracle := isotherm.NewIAST([]isotherm.Langmuir{{}, {Qsat: 0.5, B: 1e-6}, {Qsat: 3, B: 2e-5}}, 0)
	y := []float64{0.5, 0.25, 0.25}
	pt := 1e5
	p0 := make([]float64, 3)
	psi := make([]float64, 3)

	_, ni, _, err := oracle.PredictMixture(y, pt, p0, psi)
	require.NoError(t, err)

	assert.Greater(t, ni[2], ni[1], "CO2 must be more strongly adsorbed than N2 at equal feed mole fraction for scenario 2's front ordering to hold")
}

// TestScenarioPulseInjectionSwitchesInletToCarrierAfterTPulse is spec.md §8
// scenario 3: a pulse experiment. It checks the boundary switch the pulse
// area calculation depends on — that the inlet reverts to pure carrier once
// t exceeds tpulse — for the exact Kl/isotherm values named in the CO2
// scenario.
func TestScenarioPulseInjectionSwitchesInletToCarrierAfterTPulse(t *testing.T) {
	comps := []column.Component{
		{Name: "He", Yi0: 0.9, Carrier: true},
		{Name: "CO2", Yi0: 0.1, Kl: 0.1, Isotherm: column.IsothermParams{Model: "Langmuir", Values: []float64{3, 2e-5}}},
	}
	g, err := column.NewGridDescriptor(10, 2, 0.3, comps)
	require.NoError(t, err)

	pTotal := 1e5
	s := column.NewState(g)
	for i := 0; i < g.Nodes(); i++ {
		s.Pt[i] = pTotal
	}
	bcfg := boundary.DefaultConfig(pTotal, 0.1)
	bcfg.Pulse = true
	bcfg.TPulse = 5
	yi0 := []float64{0.9, 0.1}

	boundary.ApplyInlet(g, s, bcfg, yi0, 3)
	assert.InDelta(t, 0.1, s.Y[g.Idx(0, 1)], 1e-12, "still within the pulse window")

	boundary.ApplyInlet(g, s, bcfg, yi0, 60)
	assert.Equal(t, float64(0), s.Y[g.Idx(0, 1)], "carrier-only after tpulse, per the pulse experiment's 60s run")
	assert.Equal(t, float64(1), s.Y[g.Idx(0, g.CarrierIndex)])
}
