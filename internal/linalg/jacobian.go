package linalg

import "github.com/james-bowman/sparse"

// AssembleFD builds a block-tridiagonal sparse Jacobian of residual around u
// by finite differences. It relies on the block-tridiagonal structure the
// caller guarantees: perturbing node k's unknowns can only change the
// residual at nodes k-1, k, and k+1, so only those rows are scanned for each
// perturbed column instead of the full n×n dense difference.
func AssembleFD(residual func(u []float64) []float64, u []float64, blockSize, nodes int) *sparse.CSR {
	r0 := residual(u)
	dok := sparse.NewDOK(len(u), len(u))
	const h = 1e-6
	for node := 0; node < nodes; node++ {
		lo := node - 1
		if lo < 0 {
			lo = 0
		}
		hi := node + 1
		if hi >= nodes {
			hi = nodes - 1
		}
		for k := node * blockSize; k < (node+1)*blockSize; k++ {
			orig := u[k]
			step := h * (1 + absF(orig))
			u[k] = orig + step
			rp := residual(u)
			u[k] = orig
			for row := lo * blockSize; row < (hi+1)*blockSize; row++ {
				dv := (rp[row] - r0[row]) / step
				if dv != 0 {
					dok.Set(row, k, dv)
				}
			}
		}
	}
	return dok.ToCSR()
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
