/*
 * comparator.go, part of godefect.
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
	"fmt"

	defect "github.com/rmera/godefect"
	v3 "github.com/rmera/godefect/v3"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

const defLatticeTol = 1e-5

//Comparator holds the atom correspondence between a defective and a perfect supercell
//sharing the same lattice. It is immutable once built.
type Comparator struct {
	defect  *defect.Structure
	perfect *defect.Structure
	distTol float64
	pToD    []int //for each perfect atom, the index of its partner in the defect structure, or -1
	dToP    []int //the other way around
}

//New builds a Comparator for the defect and perfect structures, matching atoms
//of the same species closer than distTol (A). It returns a LatticeMismatchError if
//the two lattices differ by more than latticeTol, if given, or 1e-5 A otherwise.
func New(defectStr, perfectStr *defect.Structure, distTol float64, latticeTol ...float64) (*Comparator, error) {
	ltol := defLatticeTol
	if len(latticeTol) > 0 && latticeTol[0] > 0 {
		ltol = latticeTol[0]
	}
	return newComparator(defectStr, perfectStr, distTol, ltol)
}

//NewFromConfig is like New but takes the matching and lattice tolerances from C.
func NewFromConfig(defectStr, perfectStr *defect.Structure, C *defect.Config) (*Comparator, error) {
	if C == nil {
		C = defect.DefaultConfig()
	}
	return newComparator(defectStr, perfectStr, C.DistTol, C.LatticeTolerance)
}

func newComparator(defectStr, perfectStr *defect.Structure, distTol, latticeTol float64) (*Comparator, error) {
	if defectStr == nil || perfectStr == nil {
		return nil, defect.NewError("nil structure given", "compare.New", true)
	}
	if distTol <= 0 {
		return nil, defect.NewError(fmt.Sprintf("distance tolerance must be positive, got %g", distTol), "compare.New", true)
	}
	if !defectStr.Lattice().Equal(perfectStr.Lattice(), latticeTol) {
		return nil, defect.LatticeMismatchError{A: defectStr.Lattice(), B: perfectStr.Lattice()}
	}
	C := &Comparator{defect: defectStr, perfect: perfectStr, distTol: distTol}
	C.pToD = match(perfectStr, defectStr, distTol)
	C.dToP = match(defectStr, perfectStr, distTol)
	defect.Logger().Debug("structures compared",
		zap.Int("defect_atoms", defectStr.Len()),
		zap.Int("perfect_atoms", perfectStr.Len()),
		zap.Ints("removed", C.RemovedIndices()),
		zap.Ints("inserted", C.InsertedIndices()))
	return C, nil
}

//match returns, for each site in from, the index of the only site in to with the same species
//within tol, using the minimum-image convention. Sites with no such partner, or with more than one, get -1.
func match(from, to *defect.Structure, tol float64) []int {
	L := from.Lattice()
	ret := make([]int, from.Len())
	for i := range ret {
		ret[i] = -1
		s := from.Site(i)
		found := 0
		for j := 0; j < to.Len(); j++ {
			t := to.Site(j)
			if t.Species != s.Species || L.Distance(s.Frac, t.Frac) > tol {
				continue
			}
			found++
			ret[i] = j
		}
		if found > 1 {
			defect.Logger().Warn("ambiguous site match, site left unmapped", zap.Int("site", i), zap.String("species", s.Species), zap.Int("candidates", found))
			ret[i] = -1
		}
	}
	return ret
}

//DefectStructure returns the defect structure
func (C *Comparator) DefectStructure() *defect.Structure { return C.defect }

//PerfectStructure returns the perfect structure
func (C *Comparator) PerfectStructure() *defect.Structure { return C.perfect }

//AtomMapping returns, for each atom of the defect structure, the index of the corresponding
//atom in the perfect structure, or -1 if there is none (inserted atoms).
func (C *Comparator) AtomMapping() []int {
	ret := make([]int, len(C.dToP))
	for j, i := range C.dToP {
		ret[j] = -1
		if i >= 0 && C.pToD[i] == j {
			ret[j] = i
		}
	}
	return ret
}

//RemovedIndices returns the indexes of the perfect-structure atoms with no consistent partner
//in the defect structure.
func (C *Comparator) RemovedIndices() []int {
	return inconsistent(C.pToD, C.dToP)
}

//InsertedIndices returns the indexes of the defect-structure atoms with no consistent partner
//in the perfect structure.
func (C *Comparator) InsertedIndices() []int {
	return inconsistent(C.dToP, C.pToD)
}

func inconsistent(forward, backward []int) []int {
	ret := make([]int, 0)
	for i, j := range forward {
		if j < 0 || backward[j] != i {
			ret = append(ret, i)
		}
	}
	return ret
}

//DefectCenterCoord returns the center of the removed and inserted atoms, in fractional
//coordinates wrapped into [0,1). Periodic images are taken with respect to the first of those atoms.
//It returns ErrNoDefect if there are no removed or inserted atoms.
func (C *Comparator) DefectCenterCoord() ([3]float64, error) {
	coords := make([][3]float64, 0)
	for _, i := range C.RemovedIndices() {
		coords = append(coords, C.perfect.Site(i).Frac)
	}
	for _, j := range C.InsertedIndices() {
		coords = append(coords, C.defect.Site(j).Frac)
	}
	if len(coords) == 0 {
		return [3]float64{}, defect.ErrNoDefect
	}
	L := C.perfect.Lattice()
	ref := coords[0]
	rel := make([]r3.Vec, 0, len(coords))
	for _, c := range coords {
		t, _ := L.MinimumImage([3]float64{c[0] - ref[0], c[1] - ref[1], c[2] - ref[2]})
		rel = append(rel, r3.Vec{X: t[0], Y: t[1], Z: t[2]})
	}
	m := v3.FromVecs(rel...).Centroid()
	return defect.WrapFrac([3]float64{ref[0] + m.X, ref[1] + m.Y, ref[2] + m.Z}), nil
}

//SiteDiff classifies the removed and inserted atoms. A removed and an inserted atom of different
//species closer than the matching tolerance are recorded as a substitution pair.
func (C *Comparator) SiteDiff() *SiteDiff {
	L := C.perfect.Lattice()
	ret := &SiteDiff{}
	inserted := C.InsertedIndices()
	used := make([]bool, len(inserted))
	for _, i := range C.RemovedIndices() {
		ps := C.perfect.Site(i)
		best := -1
		bestDist := C.distTol
		for k, j := range inserted {
			ds := C.defect.Site(j)
			if used[k] || ds.Species == ps.Species {
				continue
			}
			if d := L.Distance(ps.Frac, ds.Frac); d <= bestDist {
				best = k
				bestDist = d
			}
		}
		entry := SiteEntry{Index: i, Species: ps.Species, Frac: ps.Frac}
		if best < 0 {
			ret.Removed = append(ret.Removed, entry)
			continue
		}
		used[best] = true
		ret.RemovedBySub = append(ret.RemovedBySub, entry)
		ds := C.defect.Site(inserted[best])
		ret.InsertedBySub = append(ret.InsertedBySub, SiteEntry{Index: inserted[best], Species: ds.Species, Frac: ds.Frac})
	}
	for k, j := range inserted {
		if used[k] {
			continue
		}
		ds := C.defect.Site(j)
		ret.Inserted = append(ret.Inserted, SiteEntry{Index: j, Species: ds.Species, Frac: ds.Frac})
	}
	return ret
}
