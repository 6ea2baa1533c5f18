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

func TestImplicitStepConvergesAndPreservesClosure(t *testing.T) {
	comps := []column.Component{
		{Name: "He", Yi0: 0.9, Carrier: true},
		{Name: "CO2", Yi0: 0.1, Kl: 0},
	}
	g, err := column.NewGridDescriptor(4, 2, 0.2, comps)
	require.NoError(t, err)

	s := column.NewState(g)
	for i := 0; i < g.Nodes(); i++ {
		s.Pt[i] = 1e5
		s.Y[g.Idx(i, 0)] = 0.9
		s.Y[g.Idx(i, 1)] = 0.1
	}
	s.ReconstructP(g)

	disc := discretization.Params{R: 8.314, T: 298, Epsilon: 0.4, RhoP: 700}
	mc := momentum.NewContinuity(momentum.ContinuityParams{R: 8.314, T: 298, Epsilon: 0.4, RhoP: 700, VIn: 0.05})
	cache := equilibrium.NewCache(g.Nodes(), g.Ncomp, g.MaxIsothermTerms)
	bcfg := boundary.DefaultConfig(1e5, 0.05)
	yi0 := []float64{0.9, 0.1}

	im := NewImplicit(g, disc, mc, passiveOracle{}, cache, bcfg, yi0, 1)
	_, err = im.Step(s, 0, 0.01, 0)
	require.NoError(t, err)

	assert.NoError(t, s.CheckInvariants(g, 1e-4, 1e-3, 1e-6))
}
