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

package cpd

import defect "github.com/rmera/godefect"

//Options contains the parameters for building chemical potential diagrams
type Options struct {
	largeMinus float64
	vertexTol  float64
}

//DefaultOptions returns a lower bound of -1e5 eV for the relative chemical potentials, and a tolerance
//of 1e-3 eV for a vertex to belong to a composition.
func DefaultOptions() *Options {
	return OptionsFromConfig(defect.DefaultConfig())
}

//OptionsFromConfig returns Options with the values in C.
func OptionsFromConfig(C *defect.Config) *Options {
	if C == nil {
		C = defect.DefaultConfig()
	}
	return &Options{largeMinus: C.LargeMinusNumber, vertexTol: C.VertexTolerance}
}

//LargeMinusNumber returns the lower bound for all relative chemical potentials,
//and sets it to a new value, if a negative one is given.
func (O *Options) LargeMinusNumber(n ...float64) float64 {
	if len(n) > 0 && n[0] < 0 {
		O.largeMinus = n[0]
	}
	return O.largeMinus
}

//VertexTolerance returns the absolute tolerance used to decide whether a vertex lies on the plane of
//a composition, and sets it to a new value, if a positive one is given.
func (O *Options) VertexTolerance(t ...float64) float64 {
	if len(t) > 0 && t[0] > 0 {
		O.vertexTol = t[0]
	}
	return O.vertexTol
}
