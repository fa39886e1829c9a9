/*
 * dielectric.go, part of godefect.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package defect

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const symmetryTol = 1e-6

//DielectricTensor is a symmetric 3x3 relative permittivity tensor.
type DielectricTensor [3][3]float64

//IsotropicDielectric returns eps times the identity.
func IsotropicDielectric(eps float64) DielectricTensor {
	return DielectricTensor{{eps, 0, 0}, {0, eps, 0}, {0, 0, eps}}
}

//NewDielectricTensor returns the sum of the ionic and electronic contributions.
//It returns an error if the result is not symmetric, or not positive definite.
func NewDielectricTensor(ionic, electronic [3][3]float64) (DielectricTensor, error) {
	var D DielectricTensor
	for i := range D {
		for j := range D[i] {
			D[i][j] = ionic[i][j] + electronic[i][j]
		}
	}
	return D, D.Check()
}

//Check returns an error if the tensor is not symmetric or not positive definite.
func (D DielectricTensor) Check() error {
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if math.Abs(D[i][j]-D[j][i]) > symmetryTol {
				return NewError(fmt.Sprintf("dielectric tensor is not symmetric: %v", D), "DielectricTensor.Check", true)
			}
		}
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(D.Sym()); !ok {
		return NewError(fmt.Sprintf("dielectric tensor is not positive definite: %v", D), "DielectricTensor.Check", true)
	}
	return nil
}

//Dense returns the tensor as a new Dense.
func (D DielectricTensor) Dense() *mat.Dense {
	return mat.NewDense(3, 3, D.flat())
}

//Sym returns the symmetrized tensor as a new SymDense.
func (D DielectricTensor) Sym() *mat.SymDense {
	s := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			s.SetSym(i, j, (D[i][j]+D[j][i])/2)
		}
	}
	return s
}

func (D DielectricTensor) flat() []float64 {
	return []float64{D[0][0], D[0][1], D[0][2], D[1][0], D[1][1], D[1][2], D[2][0], D[2][1], D[2][2]}
}

//Det returns the determinant of the tensor
func (D DielectricTensor) Det() float64 {
	return mat.Det(D.Dense())
}

//Average returns the trace of the tensor divided by 3.
func (D DielectricTensor) Average() float64 {
	return (D[0][0] + D[1][1] + D[2][2]) / 3
}
