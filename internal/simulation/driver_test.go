package simulation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorbentlab/breakthrough/internal/column"
	"github.com/sorbentlab/breakthrough/internal/integrator"
)

type countingStrategy struct {
	calls   int
	failAt  int
	onStep  func(s *column.State, step int)
}

func (c *countingStrategy) Step(s *column.State, step int, dt, t float64) (integrator.StepResult, error) {
	c.calls++
	if c.failAt > 0 && step == c.failAt {
		return integrator.StepResult{}, errors.New("injected step failure")
	}
	if c.onStep != nil {
		c.onStep(s, step)
	}
	return integrator.StepResult{AvgIters: 1}, nil
}

func testGridAndState(t *testing.T) (*column.GridDescriptor, *column.State) {
	t.Helper()
	comps := []column.Component{
		{Name: "He", Carrier: true},
		{Name: "CO2", Kl: 0.05},
	}
	g, err := column.NewGridDescriptor(4, 2, 1.0, comps)
	require.NoError(t, err)
	s := column.NewState(g)
	return g, s
}

func TestDriverRunsFixedStepCount(t *testing.T) {
	g, s := testGridAndState(t)
	strat := &countingStrategy{}
	d := &Driver{Grid: g, Strategy: strat, Cfg: Config{Dt: 0.1, Nsteps: 5}, Cancel: &CancelToken{}}

	steps, err := d.Run(s)
	require.NoError(t, err)
	assert.Equal(t, 5, steps)
	assert.Equal(t, 5, strat.calls)
}

func TestDriverStopsOnCancelBeforeNextStep(t *testing.T) {
	g, s := testGridAndState(t)
	cancel := &CancelToken{}
	strat := &countingStrategy{onStep: func(*column.State, int) {}}
	strat.onStep = func(*column.State, int) {
		if strat.calls == 3 {
			cancel.Cancel()
		}
	}
	d := &Driver{Grid: g, Strategy: strat, Cfg: Config{Dt: 0.1, Nsteps: 100}, Cancel: cancel}

	steps, err := d.Run(s)
	require.NoError(t, err)
	assert.Equal(t, 3, steps)
}

func TestDriverPropagatesStepError(t *testing.T) {
	g, s := testGridAndState(t)
	strat := &countingStrategy{failAt: 2}
	d := &Driver{Grid: g, Strategy: strat, Cfg: Config{Dt: 0.1, Nsteps: 10}, Cancel: &CancelToken{}}

	steps, err := d.Run(s)
	assert.Error(t, err)
	assert.Equal(t, 2, steps)
}

func TestDriverAutoStopsShortlyAfterConvergence(t *testing.T) {
	g, s := testGridAndState(t)
	yi0 := []float64{0.9, 0.1}
	pTotal := 1e5
	s.P[g.Idx(g.N, 0)] = pTotal * yi0[0]
	s.P[g.Idx(g.N, 1)] = pTotal * yi0[1]

	strat := &countingStrategy{}
	d := &Driver{
		Grid:     g,
		Strategy: strat,
		Cfg:      Config{Dt: 0.1, Nsteps: 1000, AutoSteps: true, PTotal: pTotal, DPtDx: 0, L: 1},
		Yi0:      yi0,
		Cancel:   &CancelToken{},
	}

	steps, err := d.Run(s)
	require.NoError(t, err)
	assert.Less(t, steps, 5)
}

// TestScenarioAutoConvergenceStopsWithinTenPercentExtraSteps is spec.md §8
// scenario 5: once the outlet reaches the converged mole fraction, the
// driver must stop within 10% extra steps, i.e. at exactly
// ceil(1.1*stepConverged) per the converged rule in Driver.Run.
func TestScenarioAutoConvergenceStopsWithinTenPercentExtraSteps(t *testing.T) {
	g, s := testGridAndState(t)
	yi0 := []float64{0.9, 0.1}
	pTotal := 1e5

	const stepConverged = 20
	strat := &countingStrategy{onStep: func(st *column.State, step int) {
		if step == stepConverged-1 {
			st.P[g.Idx(g.N, 0)] = pTotal * yi0[0]
			st.P[g.Idx(g.N, 1)] = pTotal * yi0[1]
		}
	}}
	d := &Driver{
		Grid:     g,
		Strategy: strat,
		Cfg:      Config{Dt: 0.1, Nsteps: 1000, AutoSteps: true, PTotal: pTotal, DPtDx: 0, L: 1},
		Yi0:      yi0,
		Cancel:   &CancelToken{},
	}

	steps, err := d.Run(s)
	require.NoError(t, err)
	assert.Equal(t, int(math.Ceil(1.1*float64(stepConverged))), steps)
}

func TestCancelTokenReportsState(t *testing.T) {
	c := &CancelToken{}
	assert.False(t, c.Cancelled())
	c.Cancel()
	assert.True(t, c.Cancelled())
}
