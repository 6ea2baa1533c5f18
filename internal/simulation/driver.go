package simulation

import (
	"log"
	"math"

	"github.com/sorbentlab/breakthrough/internal/boundary"
	"github.com/sorbentlab/breakthrough/internal/column"
	"github.com/sorbentlab/breakthrough/internal/integrator"
)

// Config bundles the driver's control parameters, independent of which
// integrator.Strategy or grid the run uses.
type Config struct {
	Dt         float64
	Nsteps     int
	AutoSteps  bool
	WriteEvery int
	PrintEvery int

	// PTotal, DPtDx, and L feed the auto-stop convergence check; see
	// converged below.
	PTotal float64
	DPtDx  float64
	L      float64
}

// Driver runs the time-stepping loop: Strategy.Step, then observer
// emission, then a cooperative cancellation check, until Nsteps is reached
// or (AutoSteps and the breakthrough convergence criterion fires).
type Driver struct {
	Grid     *column.GridDescriptor
	Strategy integrator.Strategy
	Cfg      Config
	Yi0      []float64
	Observer Observer
	Cancel   *CancelToken
}

// Run executes the loop starting from state s, mutated in place, and
// returns the number of steps actually taken.
func (d *Driver) Run(s *column.State) (int, error) {
	nsteps := d.Cfg.Nsteps
	autoArmed := d.Cfg.AutoSteps
	var t float64
	step := 0
	for step < nsteps {
		if d.Cancel != nil && d.Cancel.Cancelled() {
			break
		}

		res, err := d.Strategy.Step(s, step, d.Cfg.Dt, t)
		if err != nil {
			return step, err
		}
		step++
		t += d.Cfg.Dt

		if perr := boundary.CheckOutletPressure(d.Grid, s, step); perr != nil {
			return step, perr
		}

		if autoArmed && d.converged(s) {
			nsteps = int(math.Ceil(1.1 * float64(step)))
			autoArmed = false
		}

		if d.Cfg.WriteEvery > 0 && step%d.Cfg.WriteEvery == 0 {
			if d.Cancel != nil && d.Cancel.Cancelled() {
				break
			}
			if d.Observer != nil {
				if werr := d.Observer.WriteFrame(d.Grid, s, step, t); werr != nil {
					log.Printf("observer write failed at step %d: %v", step, werr)
				}
			}
		}
		if d.Cfg.PrintEvery > 0 && step%d.Cfg.PrintEvery == 0 {
			log.Printf("step %d  t=%.6g  avg IAST iters=%.2f", step, t, res.AvgIters)
		}
	}
	return step, nil
}

// converged implements the auto-stop rule: τ = max_j |P[N,j]/((p_total +
// dptdx·L)·Yi0[j]) − 1|; the run is considered converged once τ < 0.01.
func (d *Driver) converged(s *column.State) bool {
	g := d.Grid
	n := g.N
	var tau float64
	for j := 0; j < g.Ncomp; j++ {
		if d.Yi0[j] == 0 {
			continue
		}
		denom := (d.Cfg.PTotal + d.Cfg.DPtDx*d.Cfg.L) * d.Yi0[j]
		if denom == 0 {
			continue
		}
		if v := math.Abs(s.P[g.Idx(n, j)]/denom - 1); v > tau {
			tau = v
		}
	}
	return tau < 0.01
}
