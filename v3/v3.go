/*
 * v3.go, part of godefect.
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

package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const appzero float64 = 1e-12 //Everything equal or less than this is considered zero.

//Matrix is a set of vectors in 3D space. Each row is a vector.
type Matrix struct {
	*mat.Dense
}

//Zeros returns a zero-filled Matrix with vecs vectors.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//FromVecs builds a Matrix with one row per vector in vecs.
func FromVecs(vecs ...r3.Vec) *Matrix {
	F := Zeros(len(vecs))
	for i, v := range vecs {
		F.SetVec(i, v)
	}
	return F
}

//NVecs returns the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(not3xXMatrix)
	}
	return r
}

//VecView returns a view of the ith vector of the matrix.
//Changes in the view are reflected in F and vice-versa.
func (F *Matrix) VecView(i int) *Matrix {
	return &Matrix{F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)}
}

//Vec returns a copy of the ith vector of F as an r3.Vec
func (F *Matrix) Vec(i int) r3.Vec {
	return r3.Vec{X: F.At(i, 0), Y: F.At(i, 1), Z: F.At(i, 2)}
}

//SetVec sets the ith vector of F to v.
func (F *Matrix) SetVec(i int, v r3.Vec) {
	F.Set(i, 0, v.X)
	F.Set(i, 1, v.Y)
	F.Set(i, 2, v.Z)
}

//Vecs returns all the vectors of F as a slice of r3.Vec
func (F *Matrix) Vecs() []r3.Vec {
	ret := make([]r3.Vec, F.NVecs())
	for i := range ret {
		ret[i] = F.Vec(i)
	}
	return ret
}

//AddVec adds the vector vec to each vector of A, putting the result in the receiver.
func (F *Matrix) AddVec(A *Matrix, vec r3.Vec) {
	ar, _ := A.Dims()
	fr, _ := F.Dims()
	if ar != fr {
		panic(mat.ErrShape)
	}
	for i := 0; i < ar; i++ {
		F.SetVec(i, r3.Add(A.Vec(i), vec))
	}
}

//SubVec subtracts the vector vec from each vector of A, putting
//the result in the receiver.
func (F *Matrix) SubVec(A *Matrix, vec r3.Vec) {
	F.AddVec(A, r3.Scale(-1, vec))
}

//Dot returns the dot product between the first vectors of F and B.
func (F *Matrix) Dot(B *Matrix) float64 {
	return r3.Dot(F.Vec(0), B.Vec(0))
}

//Norm returns the Euclidean norm of the first vector of F.
func (F *Matrix) Norm() float64 {
	return r3.Norm(F.Vec(0))
}

//Unit puts in the first vector of F the unit vector in the direction of the first vector of A.
//If A is a zero vector, F is set to zero.
func (F *Matrix) Unit(A *Matrix) {
	v := A.Vec(0)
	n := r3.Norm(v)
	if n <= appzero {
		F.SetVec(0, r3.Vec{})
		return
	}
	F.SetVec(0, r3.Scale(1/n, v))
}

//MulVecs puts in F the product of the vectors of A with the 3x3 matrix B, i.e. each
//row vector v of A becomes vB. With B a lattice matrix and A fractional coordinates,
//F gets the cartesian coordinates.
func (F *Matrix) MulVecs(A *Matrix, B mat.Matrix) {
	if r, c := B.Dims(); r != 3 || c != 3 {
		panic(mat.ErrShape)
	}
	F.Dense.Mul(A.Dense, B)
}

//Centroid returns the geometric center of the vectors in F.
func (F *Matrix) Centroid() r3.Vec {
	var c r3.Vec
	n := F.NVecs()
	if n == 0 {
		return c
	}
	for i := 0; i < n; i++ {
		c = r3.Add(c, F.Vec(i))
	}
	return r3.Scale(1/float64(n), c)
}

//String returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r, _ := F.Dims()
	v := make([]string, 0, r)
	for i := 0; i < r; i++ {
		v = append(v, fmt.Sprintf("%8.4f %8.4f %8.4f", F.At(i, 0), F.At(i, 1), F.At(i, 2)))
	}
	return "\n[" + strings.Join(v, "\n ") + " ]"
}

//PanicMsg is the type used for panics in v3.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const not3xXMatrix = PanicMsg("goDefect/v3: A v3.Matrix should have 3 columns")
