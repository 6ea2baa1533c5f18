package linalg

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/james-bowman/sparse"
)

// Preconditioner applies an approximate inverse of the system matrix.
type Preconditioner interface {
	Apply(r []float64) []float64
}

// GMRES solves A x = b by right-preconditioned GMRES, orthogonalizing a
// Krylov basis with Givens rotations and back-substituting the resulting
// upper-triangular least-squares system — the GMRES shape of the teacher's
// own BlockSparse.GMRES, adapted to a james-bowman/sparse.CSR matrix and a
// real (non-stub) triangular solve. It runs a single cycle of at most
// maxIter Krylov vectors with no restart, and returns the best iterate of
// that cycle whether or not tol was reached.
func GMRES(a *sparse.CSR, b []float64, precond Preconditioner, tol float64, maxIter int) ([]float64, error) {
	n := len(b)
	x := make([]float64, n)
	bVec := mat.NewVecDense(n, append([]float64(nil), b...))
	beta := mat.Norm(bVec, 2)
	if beta == 0 {
		return x, nil
	}

	v := make([]*mat.VecDense, maxIter+1)
	z := make([]*mat.VecDense, maxIter)
	h := make([][]float64, maxIter+1)
	for i := range h {
		h[i] = make([]float64, maxIter)
	}
	cs := make([]float64, maxIter)
	sn := make([]float64, maxIter)
	g := make([]float64, maxIter+1)
	g[0] = beta

	v[0] = mat.NewVecDense(n, nil)
	v[0].ScaleVec(1/beta, bVec)

	k := 0
	for ; k < maxIter; k++ {
		zk := mat.NewVecDense(n, precond.Apply(v[k].RawVector().Data))
		z[k] = zk
		w := mat.NewVecDense(n, nil)
		w.MulVec(a, zk)

		for i := 0; i <= k; i++ {
			h[i][k] = mat.Dot(w, v[i])
			w.AddScaledVec(w, -h[i][k], v[i])
		}
		hNorm := mat.Norm(w, 2)
		h[k+1][k] = hNorm

		for i := 0; i < k; i++ {
			temp := cs[i]*h[i][k] + sn[i]*h[i+1][k]
			h[i+1][k] = -sn[i]*h[i][k] + cs[i]*h[i+1][k]
			h[i][k] = temp
		}
		denom := math.Hypot(h[k][k], h[k+1][k])
		if denom == 0 {
			cs[k], sn[k] = 1, 0
		} else {
			cs[k] = h[k][k] / denom
			sn[k] = h[k+1][k] / denom
		}
		h[k][k] = cs[k]*h[k][k] + sn[k]*h[k+1][k]
		h[k+1][k] = 0
		g[k+1] = -sn[k] * g[k]
		g[k] = cs[k] * g[k]

		converged := math.Abs(g[k+1]) < tol*beta
		if hNorm > 1e-14 && k+1 < maxIter {
			v[k+1] = mat.NewVecDense(n, nil)
			v[k+1].ScaleVec(1/hNorm, w)
		}
		if converged || hNorm <= 1e-14 {
			k++
			break
		}
	}
	if k == 0 {
		return x, nil
	}

	y := make([]float64, k)
	for i := k - 1; i >= 0; i-- {
		sum := g[i]
		for j := i + 1; j < k; j++ {
			sum -= h[i][j] * y[j]
		}
		y[i] = sum / h[i][i]
	}

	xVec := mat.NewVecDense(n, x)
	for i := 0; i < k; i++ {
		xVec.AddScaledVec(xVec, y[i], z[i])
	}
	return xVec.RawVector().Data, nil
}
