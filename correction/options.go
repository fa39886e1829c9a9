/*
 * options.go, part of godefect.
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

package correction

import (
	defect "github.com/rmera/godefect"
	"github.com/rmera/godefect/ewald"
)

//Options contains the parameters for MakeEfnvCorrection and MakeGkfoCorrection
type Options struct {
	accuracy     float64
	radius       float64 //0 or less means the largest sphere inside the supercell
	calcAllSites bool
	distTol      float64
	latticeTol   float64
	defectCoords *[3]float64 //nil means "ask the structure comparator"
}

//DefaultOptions returns the usual settings: Ewald accuracy 15, an automatic defect region radius,
//point-charge potentials only outside the defect region and a matching tolerance of 1 A.
func DefaultOptions() *Options {
	return OptionsFromConfig(defect.DefaultConfig())
}

//OptionsFromConfig returns Options with the values in C.
func OptionsFromConfig(C *defect.Config) *Options {
	if C == nil {
		C = defect.DefaultConfig()
	}
	r := new(Options)
	r.accuracy = C.EwaldAccuracy
	if r.accuracy <= 0 {
		r.accuracy = ewald.DefaultAccuracy
	}
	r.radius = C.DefectRegionRadius
	r.calcAllSites = C.CalcAllSites
	r.distTol = C.DistTol
	r.latticeTol = C.LatticeTolerance
	return r
}

//Accuracy returns the accuracy of the Ewald sums, and sets it to a new value, if given.
func (O *Options) Accuracy(a ...float64) float64 {
	if len(a) > 0 && a[0] > 0 {
		O.accuracy = a[0]
	}
	return O.accuracy
}

//DefectRegionRadius returns the radius (A) of the defect region, and sets it to
//a new value, if given. A value of 0 or less means the radius will be
//the one of the largest sphere inside the supercell.
func (O *Options) DefectRegionRadius(r ...float64) float64 {
	if len(r) > 0 {
		O.radius = r[0]
	}
	return O.radius
}

//CalcAllSites returns whether point-charge potentials are obtained for all the sites,
//and sets it to a new value, if given.
func (O *Options) CalcAllSites(b ...bool) bool {
	if len(b) > 0 {
		O.calcAllSites = b[0]
	}
	return O.calcAllSites
}

//DistTol returns the atom-matching tolerance, in A, and sets it to a new value, if given.
func (O *Options) DistTol(d ...float64) float64 {
	if len(d) > 0 && d[0] > 0 {
		O.distTol = d[0]
	}
	return O.distTol
}

//Returns the defect center in fractional coordinates, and sets it to a new value
//if given. The boolean is false if no center was set, in which case it is
//obtained by comparing the perfect and defect structures.
func (O *Options) DefectCoords(c ...[3]float64) ([3]float64, bool) {
	if len(c) > 0 {
		cc := c[0]
		O.defectCoords = &cc
	}
	if O.defectCoords == nil {
		return [3]float64{}, false
	}
	return *O.defectCoords, true
}
