package integrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorbentlab/breakthrough/internal/boundary"
	"github.com/sorbentlab/breakthrough/internal/column"
	"github.com/sorbentlab/breakthrough/internal/discretization"
	"github.com/sorbentlab/breakthrough/internal/equilibrium"
	"github.com/sorbentlab/breakthrough/internal/momentum"
)

// passiveOracle reports zero uptake everywhere, turning the adsorbing
// component into an inert tracer so closure invariants can be checked
// without coupling to an isotherm.
type passiveOracle struct{}

func (passiveOracle) PredictMixture(y []float64, pt float64, p0, psi []float64) (xi, ni []float64, innerIters int, err error) {
	return make([]float64, len(y)), make([]float64, len(y)), 0, nil
}

func newTestSetup(t *testing.T) (*column.GridDescriptor, *column.State) {
	t.Helper()
	comps := []column.Component{
		{Name: "He", Yi0: 0.9, Carrier: true},
		{Name: "CO2", Yi0: 0.1, Kl: 0}, // passive tracer
	}
	g, err := column.NewGridDescriptor(10, 2, 0.3, comps)
	require.NoError(t, err)

	s := column.NewState(g)
	for i := 0; i < g.Nodes(); i++ {
		s.Pt[i] = 1e5
		s.Y[g.Idx(i, 0)] = 0.9
		s.Y[g.Idx(i, 1)] = 0.1
	}
	s.ReconstructP(g)
	return g, s
}

func TestContinuityRK3PreservesClosureInvariants(t *testing.T) {
	g, s := newTestSetup(t)
	disc := discretization.Params{R: 8.314, T: 298, Epsilon: 0.4, RhoP: 700}
	mc := momentum.NewContinuity(momentum.ContinuityParams{R: 8.314, T: 298, Epsilon: 0.4, RhoP: 700, VIn: 0.1})
	cache := equilibrium.NewCache(g.Nodes(), g.Ncomp, g.MaxIsothermTerms)
	bcfg := boundary.DefaultConfig(1e5, 0.1)
	yi0 := []float64{0.9, 0.1}

	step := NewContinuityRK3(g, disc, mc, passiveOracle{}, cache, bcfg, yi0, 2)
	_, err := step.Step(s, 0, 0.001, 0)
	require.NoError(t, err)

	assert.NoError(t, s.CheckInvariants(g, 1e-6, 1e-4, 1e-9))
}

// recordingOracle reports a fixed nonzero loading for every node so a
// momentum closure downstream can be checked against it directly.
type recordingOracle struct{ loading float64 }

func (o recordingOracle) PredictMixture(y []float64, pt float64, p0, psi []float64) (xi, ni []float64, innerIters int, err error) {
	ni = make([]float64, len(y))
	for j := range ni {
		ni[j] = o.loading
	}
	return make([]float64, len(y)), ni, 1, nil
}

// qeqSpyMomentum records s.Qeq at node 1 (an interior node untouched by the
// boundary condition) every time Compute runs, so the RK3 stepper's ordering
// between EquilibrateAll and Momentum.Compute can be checked directly.
type qeqSpyMomentum struct {
	g    *column.GridDescriptor
	seen []float64
}

func (m *qeqSpyMomentum) Compute(g *column.GridDescriptor, s *column.State) {
	m.seen = append(m.seen, s.Qeq[g.Idx(1, 1)])
}

func TestContinuityRK3MomentumSeesFreshEquilibriumEveryStage(t *testing.T) {
	g, s := newTestSetup(t)
	disc := discretization.Params{R: 8.314, T: 298, Epsilon: 0.4, RhoP: 700}
	spy := &qeqSpyMomentum{g: g}
	cache := equilibrium.NewCache(g.Nodes(), g.Ncomp, g.MaxIsothermTerms)
	bcfg := boundary.DefaultConfig(1e5, 0.1)
	yi0 := []float64{0.9, 0.1}
	const loading = 3.5

	step := NewContinuityRK3(g, disc, spy, recordingOracle{loading: loading}, cache, bcfg, yi0, 2)
	_, err := step.Step(s, 0, 0.001, 0)
	require.NoError(t, err)

	require.Len(t, spy.seen, 3, "one Momentum.Compute call per RK3 stage")
	for k, qeq := range spy.seen {
		assert.Equal(t, loading, qeq, "stage %d: Momentum.Compute must see this stage's own oracle output", k)
	}
}

func TestContinuityRK3ZeroStepIsIdempotent(t *testing.T) {
	g, s := newTestSetup(t)
	disc := discretization.Params{R: 8.314, T: 298, Epsilon: 0.4, RhoP: 700}
	mc := momentum.NewContinuity(momentum.ContinuityParams{R: 8.314, T: 298, Epsilon: 0.4, RhoP: 700, VIn: 0.1})
	cache := equilibrium.NewCache(g.Nodes(), g.Ncomp, g.MaxIsothermTerms)
	bcfg := boundary.DefaultConfig(1e5, 0.1)
	yi0 := []float64{0.9, 0.1}

	before := s.Clone()
	step := NewContinuityRK3(g, disc, mc, passiveOracle{}, cache, bcfg, yi0, 2)
	_, err := step.Step(s, 0, 0, 0)
	require.NoError(t, err)

	assert.InDeltaSlice(t, before.Q, s.Q, 1e-12)
	assert.InDeltaSlice(t, before.P, s.P, 1e-6)
}
