package equilibrium

import (
	"errors"
	"math"
	"runtime"
	"sync"

	"go.uber.org/multierr"

	"github.com/sorbentlab/breakthrough/internal/column"
)

// EquilibrateAll refreshes s.Qeq at every node by calling oracle once per
// node, in parallel across a bounded worker pool.
// Each goroutine touches only the Cache slots owned by its node index, so no
// locking is required.
//
// It returns the mean inner-iteration count across all nodes (used by the
// driver's progress line) and a combined error aggregating
// every node's failure, so a run where several nodes diverge from the same
// root cause reports all of them instead of only the first goroutine to
// fail.
func EquilibrateAll(g *column.GridDescriptor, s *column.State, oracle Oracle, cache *Cache, workers, step int) (avgIters float64, err error) {
	nodes := g.Nodes()
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > nodes {
		workers = nodes
	}

	type result struct {
		iters int
		err   error
	}
	results := make([]result, nodes)

	var wg sync.WaitGroup
	chunk := (nodes + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= nodes {
			break
		}
		if end > nodes {
			end = nodes
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				y := s.Y[g.Idx(i, 0):g.Idx(i, 0)+g.Ncomp]
				p0, psi := cache.NodeView(i, g.Ncomp, g.MaxIsothermTerms)
				xi, ni, iters, callErr := oracle.PredictMixture(y, s.Pt[i], p0, psi)
				if callErr != nil {
					var div *ErrDiverged
					if errors.As(callErr, &div) {
						div.Node = i
					}
					results[i] = result{iters: iters, err: column.NewSimError(column.EquilibriumDiverged, step, i, callErr)}
					continue
				}
				for j := 0; j < g.Ncomp; j++ {
					if math.IsNaN(ni[j]) || math.IsInf(ni[j], 0) || math.IsNaN(xi[j]) || math.IsInf(xi[j], 0) {
						results[i] = result{iters: iters, err: column.NewSimError(column.NumericalBreakdown, step, i,
							errNonFinite{})}
						break
					}
					s.Qeq[g.Idx(i, j)] = ni[j]
				}
				results[i].iters = iters
			}
		}(start, end)
	}
	wg.Wait()

	var totalIters int
	for i := 0; i < nodes; i++ {
		totalIters += results[i].iters
		if results[i].err != nil {
			err = multierr.Append(err, results[i].err)
		}
	}
	if nodes > 0 {
		avgIters = float64(totalIters) / float64(nodes)
	}
	return avgIters, err
}

type errNonFinite struct{}

func (errNonFinite) Error() string { return "equilibrium oracle produced a non-finite value" }
