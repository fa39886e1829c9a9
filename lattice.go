/*
 * lattice.go, part of godefect.
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
	"encoding/json"
	"fmt"
	"math"

	v3 "github.com/rmera/godefect/v3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const minVolume = 1e-8 //A^3, anything smaller is a degenerate cell.

//Lattice is a crystal lattice. Its rows are the three lattice vectors, in Angstrom.
//A Lattice is never modified after creation.
type Lattice struct {
	vecs [3]r3.Vec
}

//NewLattice returns a Lattice with the rows of m as lattice vectors.
//It returns an error if the vectors are coplanar.
func NewLattice(m [3][3]float64) (Lattice, error) {
	var L Lattice
	for i, row := range m {
		L.vecs[i] = r3.Vec{X: row[0], Y: row[1], Z: row[2]}
	}
	if L.Volume() < minVolume {
		return Lattice{}, NewError(fmt.Sprintf("degenerate lattice, volume %g", L.Volume()), "NewLattice", true)
	}
	return L, nil
}

//CubicLattice returns a cubic lattice with lattice constant a. It panics if a<=0.
func CubicLattice(a float64) Lattice {
	if a <= 0 {
		panic("goDefect: CubicLattice needs a positive lattice constant")
	}
	return Lattice{vecs: [3]r3.Vec{{X: a}, {Y: a}, {Z: a}}}
}

//Vectors returns the three lattice vectors.
func (L Lattice) Vectors() [3]r3.Vec {
	return L.vecs
}

//Array returns the lattice matrix as an array with one lattice vector per row.
func (L Lattice) Array() [3][3]float64 {
	var ret [3][3]float64
	for i, v := range L.vecs {
		ret[i] = [3]float64{v.X, v.Y, v.Z}
	}
	return ret
}

//Matrix returns a new 3x3 Dense with one lattice vector per row.
func (L Lattice) Matrix() *mat.Dense {
	a := L.Array()
	return mat.NewDense(3, 3, []float64{a[0][0], a[0][1], a[0][2], a[1][0], a[1][1], a[1][2], a[2][0], a[2][1], a[2][2]})
}

func (L Lattice) signedVolume() float64 {
	return r3.Dot(L.vecs[0], r3.Cross(L.vecs[1], L.vecs[2]))
}

//Volume returns the volume of the cell.
func (L Lattice) Volume() float64 {
	return math.Abs(L.signedVolume())
}

//Abc returns the lengths of the lattice vectors.
func (L Lattice) Abc() [3]float64 {
	return [3]float64{r3.Norm(L.vecs[0]), r3.Norm(L.vecs[1]), r3.Norm(L.vecs[2])}
}

//Reciprocal returns the reciprocal lattice, including the 2*pi factor.
func (L Lattice) Reciprocal() Lattice {
	v := L.signedVolume()
	f := 2 * math.Pi / v
	var R Lattice
	for i := 0; i < 3; i++ {
		R.vecs[i] = r3.Scale(f, r3.Cross(L.vecs[(i+1)%3], L.vecs[(i+2)%3]))
	}
	return R
}

//Cartesian returns the cartesian coordinates of the fractional coordinates frac.
func (L Lattice) Cartesian(frac [3]float64) r3.Vec {
	ret := r3.Scale(frac[0], L.vecs[0])
	ret = r3.Add(ret, r3.Scale(frac[1], L.vecs[1]))
	return r3.Add(ret, r3.Scale(frac[2], L.vecs[2]))
}

//Fractional returns the fractional coordinates of the cartesian point cart.
func (L Lattice) Fractional(cart r3.Vec) [3]float64 {
	R := L.Reciprocal()
	var ret [3]float64
	for i := range ret {
		ret[i] = r3.Dot(R.vecs[i], cart) / (2 * math.Pi)
	}
	return ret
}

//CartesianMatrix returns a v3.Matrix with the cartesian coordinates for each set of
//fractional coordinates in frac.
func (L Lattice) CartesianMatrix(frac [][3]float64) *v3.Matrix {
	vecs := make([]r3.Vec, len(frac))
	for i, c := range frac {
		vecs[i] = r3.Vec{X: c[0], Y: c[1], Z: c[2]}
	}
	f := v3.FromVecs(vecs...)
	ret := v3.Zeros(len(frac))
	ret.MulVecs(f, L.Matrix())
	return ret
}

//MinimumImage returns the periodic image of the fractional vector d that is
//shortest in cartesian space, and the lattice translation that was subtracted from d to get it.
//The 27 images around the rounded vector are checked, which is enough for
//reasonably shaped cells.
func (L Lattice) MinimumImage(d [3]float64) ([3]float64, [3]int) {
	var base [3]float64
	for i := range d {
		base[i] = math.Round(d[i])
	}
	best := math.Inf(1)
	var bestvec [3]float64
	var bestimage [3]int
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			for k := -1; k <= 1; k++ {
				n := [3]float64{base[0] + float64(i), base[1] + float64(j), base[2] + float64(k)}
				t := [3]float64{d[0] - n[0], d[1] - n[1], d[2] - n[2]}
				dist := r3.Norm(L.Cartesian(t))
				if dist < best {
					best = dist
					bestvec = t
					bestimage = [3]int{int(n[0]), int(n[1]), int(n[2])}
				}
			}
		}
	}
	return bestvec, bestimage
}

//DistanceAndImage returns the minimum-image distance between the fractional coordinates
//f1 and f2, and the lattice translation which, added to f2, gives the closest image to f1.
func (L Lattice) DistanceAndImage(f1, f2 [3]float64) (float64, [3]int) {
	d := [3]float64{f2[0] - f1[0], f2[1] - f1[1], f2[2] - f1[2]}
	t, n := L.MinimumImage(d)
	return r3.Norm(L.Cartesian(t)), [3]int{-n[0], -n[1], -n[2]}
}

//Distance returns the minimum-image distance between the fractional coordinates f1 and f2.
func (L Lattice) Distance(f1, f2 [3]float64) float64 {
	d, _ := L.DistanceAndImage(f1, f2)
	return d
}

//MaxSphereRadius returns the largest radius of a sphere obtained from the distances between
//the three pairs of parallel lattice planes. For each axis i the distance is
//|(a_{i-2} x a_{i-1}) . a_i| / |a_{i-2} x a_{i-1}|, and the largest of the three, halved, is returned.
func (L Lattice) MaxSphereRadius() float64 {
	var distances [3]float64
	for i := 0; i < 3; i++ {
		cross := r3.Cross(L.vecs[(i+1)%3], L.vecs[(i+2)%3]) //indexes i-2 and i-1, modulo 3.
		distances[i] = math.Abs(r3.Dot(cross, L.vecs[i])) / r3.Norm(cross)
	}
	return math.Max(distances[0], math.Max(distances[1], distances[2])) / 2.0
}

//Equal returns true if all the elements of the lattice matrices of L and O
//differ by less than tol.
func (L Lattice) Equal(O Lattice, tol float64) bool {
	a := L.Array()
	b := O.Array()
	for i := range a {
		for j := range a[i] {
			if math.Abs(a[i][j]-b[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

func (L Lattice) String() string {
	a := L.Array()
	return fmt.Sprintf("[[%.6f %.6f %.6f] [%.6f %.6f %.6f] [%.6f %.6f %.6f]]",
		a[0][0], a[0][1], a[0][2], a[1][0], a[1][1], a[1][2], a[2][0], a[2][1], a[2][2])
}

//MarshalJSON encodes the lattice as its 3x3 matrix.
func (L Lattice) MarshalJSON() ([]byte, error) {
	return json.Marshal(L.Array())
}

//UnmarshalJSON decodes a 3x3 lattice matrix.
func (L *Lattice) UnmarshalJSON(b []byte) error {
	var a [3][3]float64
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	nl, err := NewLattice(a)
	if err != nil {
		return err
	}
	*L = nl
	return nil
}

//WrapFrac returns the fractional coordinates f translated into [0,1).
func WrapFrac(f [3]float64) [3]float64 {
	var ret [3]float64
	for i, v := range f {
		r := v - math.Floor(v)
		if r >= 1 {
			r = 0
		}
		ret[i] = r
	}
	return ret
}
