// Package linalg supplies the sparse Jacobian assembly, GMRES solve, and
// dense block preconditioner the implicit time integrator needs.
package linalg

import (
	"errors"

	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"

	"github.com/james-bowman/sparse"
)

// BlockInverse factors and inverts a small dense block via LU
// (Getrf/Getri), mirroring the teacher's own Matrix.Inverse.
func BlockInverse(block *mat.Dense) (*mat.Dense, error) {
	n, m := block.Dims()
	if n != m {
		return nil, errors.New("linalg: block must be square")
	}
	inv := mat.DenseCopyOf(block)
	ipiv := make([]int, n)
	if ok := lapack64.Getrf(inv.RawMatrix(), ipiv); !ok {
		return nil, errors.New("linalg: singular block, cannot factor")
	}
	work := make([]float64, n*n)
	if ok := lapack64.Getri(inv.RawMatrix(), ipiv, work, n*n); !ok {
		return nil, errors.New("linalg: singular block, cannot invert")
	}
	return inv, nil
}

// BlockJacobiPreconditioner applies the inverse of each diagonal block as a
// right preconditioner for GMRES: cheap relative to a full sparse LU, and
// adequate because off-diagonal coupling between adjacent nodes is weak
// relative to each node's own oracle-driven diagonal block.
type BlockJacobiPreconditioner struct {
	BlockSize int
	Inverses  []*mat.Dense
}

// Apply implements Preconditioner.
func (p *BlockJacobiPreconditioner) Apply(r []float64) []float64 {
	out := make([]float64, len(r))
	for node, inv := range p.Inverses {
		lo := node * p.BlockSize
		hi := lo + p.BlockSize
		seg := mat.NewVecDense(p.BlockSize, append([]float64(nil), r[lo:hi]...))
		var res mat.VecDense
		res.MulVec(inv, seg)
		copy(out[lo:hi], res.RawVector().Data)
	}
	return out
}

// BuildBlockJacobi extracts and inverts the nodes diagonal blockSize×blockSize
// blocks of a from a CSR Jacobian.
func BuildBlockJacobi(a *sparse.CSR, blockSize, nodes int) (*BlockJacobiPreconditioner, error) {
	invs := make([]*mat.Dense, nodes)
	for node := 0; node < nodes; node++ {
		lo := node * blockSize
		block := mat.NewDense(blockSize, blockSize, nil)
		for i := 0; i < blockSize; i++ {
			for j := 0; j < blockSize; j++ {
				block.Set(i, j, a.At(lo+i, lo+j))
			}
		}
		inv, err := BlockInverse(block)
		if err != nil {
			return nil, err
		}
		invs[node] = inv
	}
	return &BlockJacobiPreconditioner{BlockSize: blockSize, Inverses: invs}, nil
}
