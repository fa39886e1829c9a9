/*
 * displacements.go, part of godefect.
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

package compare

import (
	"math"

	v3 "github.com/rmera/godefect/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

//displacements shorter than this (A) have no meaningful direction
const zeroLength = 1e-5

//Displacement describes how one atom moved from the perfect to the defect structure.
type Displacement struct {
	Species            string     `json:"species"`
	OriginalPos        [3]float64 `json:"original_pos"` //fractional
	FinalPos           [3]float64 `json:"final_pos"`    //fractional
	DistanceFromDefect float64    `json:"distance_from_defect"`
	Disp               r3.Vec     `json:"disp_vector"` //cartesian, A
	Norm               float64    `json:"displace_distance"`
	//Angle between the displacement and the direction from the defect center to the
	//original position, in degrees. nil if either vector has no length.
	Angle *float64 `json:"angle"`
}

//Displacements returns one Displacement per atom of the defect structure, in the defect structure
//order, with nil for inserted atoms. center is the defect center, in fractional coordinates.
func (C *Comparator) Displacements(center [3]float64) []*Displacement {
	L := C.perfect.Lattice()
	mapping := C.AtomMapping()
	if len(mapping) == 0 {
		return nil
	}
	ini := make([]r3.Vec, len(mapping))
	fdisp := make([][3]float64, len(mapping))
	for j, i := range mapping {
		if i < 0 {
			continue
		}
		p := C.perfect.Site(i).Frac
		f := C.defect.Site(j).Frac
		ini[j] = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
		fdisp[j], _ = L.MinimumImage([3]float64{f[0] - p[0], f[1] - p[1], f[2] - p[2]})
	}
	rel := v3.FromVecs(ini...)
	rel.SubVec(rel, r3.Vec{X: center[0], Y: center[1], Z: center[2]})
	fdir := make([][3]float64, len(mapping))
	for j, v := range rel.Vecs() {
		fdir[j], _ = L.MinimumImage([3]float64{v.X, v.Y, v.Z})
	}
	disps := L.CartesianMatrix(fdisp)
	dirs := L.CartesianMatrix(fdir)
	ret := make([]*Displacement, len(mapping))
	for j, i := range mapping {
		if i < 0 {
			continue
		}
		d := disps.VecView(j)
		dir := dirs.VecView(j)
		ret[j] = &Displacement{
			Species:            C.defect.Site(j).Species,
			OriginalPos:        C.perfect.Site(i).Frac,
			FinalPos:           C.defect.Site(j).Frac,
			DistanceFromDefect: dir.Norm(),
			Disp:               d.Vec(0),
			Norm:               d.Norm(),
			Angle:              angle(d, dir),
		}
	}
	return ret
}

//angle returns the angle, in degrees, between the first vectors of a and b,
//or nil if either is too short.
func angle(a, b *v3.Matrix) *float64 {
	if a.Norm() < zeroLength || b.Norm() < zeroLength {
		return nil
	}
	ua, ub := v3.Zeros(1), v3.Zeros(1)
	ua.Unit(a)
	ub.Unit(b)
	cos := math.Max(-1, math.Min(1, ua.Dot(ub)))
	ang := math.Acos(cos) * 180 / math.Pi
	return &ang
}
