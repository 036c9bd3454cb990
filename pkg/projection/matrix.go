package projection

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix builds the standard off-center perspective projection matrix
// (the glFrustum construction) in row-major order. For a centered eye it
// reduces to an ordinary symmetric perspective matrix.
func (f Frustum) Matrix() *mat.Dense {
	rl := f.Right - f.Left
	tb := f.Top - f.Bottom
	fn := f.Far - f.Near

	return mat.NewDense(4, 4, []float64{
		2 * f.Near / rl, 0, (f.Right + f.Left) / rl, 0,
		0, 2 * f.Near / tb, (f.Top + f.Bottom) / tb, 0,
		0, 0, -(f.Far + f.Near) / fn, -2 * f.Far * f.Near / fn,
		0, 0, -1, 0,
	})
}

// InverseMatrix returns the inverse projection matrix, for unprojecting
// screen coordinates back into the world (e.g. picking against the
// window plane).
func (f Frustum) InverseMatrix() (*mat.Dense, error) {
	var inv mat.Dense
	if err := inv.Inverse(f.Matrix()); err != nil {
		return nil, fmt.Errorf("invert projection matrix: %w", err)
	}
	return &inv, nil
}
