package modematrix

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular reports a stiffness matrix that cannot be factorized, which
// happens for mechanisms such as an untensioned radially laced wheel.
var ErrSingular = errors.New("modematrix: singular stiffness matrix")

// Solve returns dm with K·dm = f.
func Solve(k mat.Matrix, f mat.Vector) (*mat.VecDense, error) {
	var lu mat.LU
	lu.Factorize(k)
	if lu.Det() == 0 {
		return nil, ErrSingular
	}
	var dm mat.VecDense
	if err := lu.SolveVecTo(&dm, false, f); err != nil {
		return nil, errors.Join(ErrSingular, err)
	}
	return &dm, nil
}
