// Package equilibrium defines the boundary contract between the PDE core and
// the isotherm/IAST prediction routine. The core only depends on the Oracle
// interface; internal/isotherm supplies one concrete implementation.
package equilibrium

import "fmt"

// ErrDiverged is returned by an Oracle when its internal Newton iteration
// exceeds its cap. The PDE core surfaces this as a fatal error for the step.
type ErrDiverged struct {
	Node int
	Iter int
}

func (e *ErrDiverged) Error() string {
	return fmt.Sprintf("equilibrium oracle diverged at node %d after %d iterations", e.Node, e.Iter)
}

// Cache is per-node scratch owned by the grid and passed by reference to
// accelerate the oracle's warm starts. It is a flat, node-indexed arena with
// no cross-references.
type Cache struct {
	// P0 holds the hypothetical single-component pressures, size
	// Ncomp*MaxIsothermTerms per node.
	P0 []float64
	// Psi holds the reduced spreading pressure, size MaxIsothermTerms per
	// node.
	Psi []float64
}

// NewCache allocates a scratch arena for `nodes` grid points.
func NewCache(nodes, ncomp, maxIsothermTerms int) *Cache {
	return &Cache{
		P0:  make([]float64, nodes*ncomp*maxIsothermTerms),
		Psi: make([]float64, nodes*maxIsothermTerms),
	}
}

// NodeView returns the P0/Psi scratch slices owned by node i. Because the
// arena is partitioned by node index, concurrent calls with distinct i are
// race-free.
func (c *Cache) NodeView(i, ncomp, maxIsothermTerms int) (p0, psi []float64) {
	p0Start := i * ncomp * maxIsothermTerms
	psiStart := i * maxIsothermTerms
	return c.P0[p0Start : p0Start+ncomp*maxIsothermTerms], c.Psi[psiStart : psiStart+maxIsothermTerms]
}

// Oracle is the black-box predictMixture contract: given the current gas
// mole fractions (summing to one within ε) and total
// pressure at a node, it returns the equilibrium adsorbed mole fractions and
// loadings, plus the number of inner Newton iterations it took.
//
// Implementations must be safe for concurrent use across distinct nodes
// sharing distinct Cache scratch: the oracle must not mutate
// any state outside the p0/psi slices it is given.
type Oracle interface {
	PredictMixture(y []float64, pt float64, p0, psi []float64) (xi, ni []float64, innerIters int, err error)
}
