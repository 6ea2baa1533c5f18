// Package integrator advances a column.State by one time step. Three
// mutually exclusive strategies share the same discretization, oracle, and
// boundary machinery but differ in which state triple they integrate and
// which momentum closure recomputes velocity: ContinuityRK3, ErgunRK3, and
// Implicit.
package integrator

import "github.com/sorbentlab/breakthrough/internal/column"

// MomentumComputer recomputes s.V from the current pressure/loading
// snapshot. internal/momentum.Continuity and internal/momentum.Ergun both
// satisfy it, which is what lets the two SSP-RK3 variants below share one
// stage-loop shape.
type MomentumComputer interface {
	Compute(g *column.GridDescriptor, s *column.State)
}

// StepResult reports what a Strategy accomplished for one committed step,
// consumed by the driver's progress line.
type StepResult struct {
	AvgIters float64
}

// Strategy advances a committed State by one step in place.
type Strategy interface {
	Step(s *column.State, step int, dt, t float64) (StepResult, error)
}

// blend computes dst[k] = wa*a[k] + wb*b[k] + dtw*deriv[k] elementwise. It is
// the shared arithmetic of every SSP-RK3 stage, whichever state field it is
// applied to.
func blend(dst, a, b []float64, wa, wb, dtw float64, deriv []float64) {
	for k := range dst {
		dst[k] = wa*a[k] + wb*b[k] + dtw*deriv[k]
	}
}
