/*
 * v3_test.go, part of godefect.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestViewAndVecOps(Te *testing.T) {
	A := FromVecs(r3.Vec{X: 1}, r3.Vec{Y: 2}, r3.Vec{Z: 3})
	view := A.VecView(1)
	view.Set(0, 0, 100)
	assert.Equal(Te, 100.0, A.At(1, 0))
	A.AddVec(A, r3.Vec{X: 1, Y: 1, Z: 1})
	assert.Equal(Te, r3.Vec{X: 2, Y: 1, Z: 1}, A.Vec(0))
	A.SubVec(A, r3.Vec{X: 1, Y: 1, Z: 1})
	assert.Equal(Te, r3.Vec{X: 1}, A.Vec(0))
	assert.InDelta(Te, 101.0/3.0, A.Centroid().X, 1e-12)
}

func TestVecsNormUnit(Te *testing.T) {
	a := FromVecs(r3.Vec{X: 1}, r3.Vec{X: 3, Y: 4})
	assert.Equal(Te, []r3.Vec{{X: 1}, {X: 3, Y: 4}}, a.Vecs())
	b := a.VecView(1)
	assert.InDelta(Te, 3.0, a.Dot(b), 1e-15)
	assert.InDelta(Te, 5.0, b.Norm(), 1e-12)
	u := Zeros(1)
	u.Unit(b)
	assert.InDelta(Te, 1.0, u.Norm(), 1e-12)
	assert.InDelta(Te, 0.6, u.At(0, 0), 1e-12)
	z := Zeros(1)
	u.Unit(z)
	assert.Equal(Te, r3.Vec{}, u.Vec(0))
	assert.Panics(Te, func() { (&Matrix{mat.NewDense(1, 2, nil)}).NVecs() })
}

func TestMulVecs(Te *testing.T) {
	frac := FromVecs(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, r3.Vec{X: 1})
	lat := mat.NewDense(3, 3, []float64{10, 0, 0, 0, 10, 0, 0, 0, 10})
	cart := Zeros(2)
	cart.MulVecs(frac, lat)
	assert.Equal(Te, r3.Vec{X: 5, Y: 5, Z: 5}, cart.Vec(0))
	assert.Equal(Te, r3.Vec{X: 10}, cart.Vec(1))
}
