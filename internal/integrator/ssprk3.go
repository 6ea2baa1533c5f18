package integrator

import (
	"github.com/sorbentlab/breakthrough/internal/boundary"
	"github.com/sorbentlab/breakthrough/internal/column"
	"github.com/sorbentlab/breakthrough/internal/discretization"
	"github.com/sorbentlab/breakthrough/internal/equilibrium"
)

// rk3Weights are the Shu-Osher SSP-RK3 stage coefficients: stage k combines
// U0, the previous stage, and dt*F(previous stage) with these weights.
var rk3Weights = [3]struct{ wa, wb, dtw float64 }{
	{0, 1, 1},
	{0.75, 0.25, 0.25},
	{1.0 / 3, 2.0 / 3, 2.0 / 3},
}

// ContinuityRK3 integrates the (Q, P) pair with the velocity-from-continuity
// momentum closure — the baseline explicit variant. Pt is derived each stage
// as Σ_j P[i,j] rather than integrated directly.
type ContinuityRK3 struct {
	Grid     *column.GridDescriptor
	Disc     discretization.Params
	Momentum MomentumComputer
	Oracle   equilibrium.Oracle
	Cache    *equilibrium.Cache
	Boundary boundary.Config
	Yi0      []float64
	Workers  int

	u0, stage *column.State
	deriv     *column.Derivatives
}

// NewContinuityRK3 allocates the shadow buffers the stepper reuses across
// steps.
func NewContinuityRK3(g *column.GridDescriptor, disc discretization.Params, mc MomentumComputer,
	oracle equilibrium.Oracle, cache *equilibrium.Cache, cfg boundary.Config, yi0 []float64, workers int) *ContinuityRK3 {
	return &ContinuityRK3{
		Grid: g, Disc: disc, Momentum: mc, Oracle: oracle, Cache: cache,
		Boundary: cfg, Yi0: yi0, Workers: workers,
		u0:    column.NewState(g),
		stage: column.NewState(g),
		deriv: column.NewDerivatives(g),
	}
}

func (c *ContinuityRK3) Step(s *column.State, step int, dt, t float64) (StepResult, error) {
	g := c.Grid
	c.u0.CopyInto(s)
	copy(c.stage.Qeq, s.Qeq)
	var totalIters float64
	for k := 0; k < 3; k++ {
		w := rk3Weights[k]
		discretization.LDF(g, s, c.deriv)
		discretization.PressureApproach1(g, s, c.deriv, c.Disc)

		blend(c.stage.Q, c.u0.Q, s.Q, w.wa, w.wb, w.dtw*dt, c.deriv.DQdt)
		blend(c.stage.P, c.u0.P, s.P, w.wa, w.wb, w.dtw*dt, c.deriv.DPdt)
		for i := 0; i < g.Nodes(); i++ {
			c.stage.Pt[i] = c.stage.SumPressures(g, i)
		}
		c.stage.ReconstructY(g)
		boundary.ApplyInlet(g, c.stage, c.Boundary, c.Yi0, t)

		avgIters, err := equilibrium.EquilibrateAll(g, c.stage, c.Oracle, c.Cache, c.Workers, step)
		totalIters += avgIters
		if err != nil {
			return StepResult{}, err
		}
		c.Momentum.Compute(g, c.stage)

		s.CopyInto(c.stage)
	}
	return StepResult{AvgIters: totalIters / 3}, nil
}

// ErgunRK3 integrates the (Q, Y, Pt) triple with the Ergun momentum closure.
// P is reconstructed from Y and Pt each stage to hold the sum-to-Pt
// invariant exactly rather than accumulate rounding drift.
type ErgunRK3 struct {
	Grid     *column.GridDescriptor
	Disc     discretization.Params
	Momentum MomentumComputer
	Oracle   equilibrium.Oracle
	Cache    *equilibrium.Cache
	Boundary boundary.Config
	Yi0      []float64
	Workers  int

	u0, stage *column.State
	deriv     *column.Derivatives
}

func NewErgunRK3(g *column.GridDescriptor, disc discretization.Params, mc MomentumComputer,
	oracle equilibrium.Oracle, cache *equilibrium.Cache, cfg boundary.Config, yi0 []float64, workers int) *ErgunRK3 {
	return &ErgunRK3{
		Grid: g, Disc: disc, Momentum: mc, Oracle: oracle, Cache: cache,
		Boundary: cfg, Yi0: yi0, Workers: workers,
		u0:    column.NewState(g),
		stage: column.NewState(g),
		deriv: column.NewDerivatives(g),
	}
}

func (c *ErgunRK3) Step(s *column.State, step int, dt, t float64) (StepResult, error) {
	g := c.Grid
	c.u0.CopyInto(s)
	copy(c.stage.Qeq, s.Qeq)
	var totalIters float64
	for k := 0; k < 3; k++ {
		w := rk3Weights[k]
		discretization.LDF(g, s, c.deriv)
		discretization.MoleFractionApproach2(g, s, c.deriv, c.Disc)
		discretization.TotalPressure(g, s, c.deriv, c.Disc)

		blend(c.stage.Q, c.u0.Q, s.Q, w.wa, w.wb, w.dtw*dt, c.deriv.DQdt)
		blend(c.stage.Y, c.u0.Y, s.Y, w.wa, w.wb, w.dtw*dt, c.deriv.DYdt)
		blend(c.stage.Pt, c.u0.Pt, s.Pt, w.wa, w.wb, w.dtw*dt, c.deriv.DPtdt)
		c.stage.ReconstructP(g)
		boundary.ApplyInlet(g, c.stage, c.Boundary, c.Yi0, t)

		avgIters, err := equilibrium.EquilibrateAll(g, c.stage, c.Oracle, c.Cache, c.Workers, step)
		totalIters += avgIters
		if err != nil {
			return StepResult{}, err
		}
		c.Momentum.Compute(g, c.stage)

		s.CopyInto(c.stage)
	}
	return StepResult{AvgIters: totalIters / 3}, nil
}
