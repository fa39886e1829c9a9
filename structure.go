/*
 * structure.go, part of godefect.
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

	v3 "github.com/rmera/godefect/v3"
)

/**Note: Many functions here panic instead of returning errors. This is because they are "fundamental"
 * functions. If something goes wrong here, the program is most likely wrong and should
 * crash. Most panics are related to accessing out-of-bounds sites**/

//Site is one atom of a crystal structure.
type Site struct {
	Species string     `json:"species"`
	Frac    [3]float64 `json:"frac_coords"`
}

//Structure is a crystal structure: a lattice and an ordered list of sites.
//Structures are treated as immutable. Functions that need to move atoms around work on a Copy.
type Structure struct {
	lattice Lattice
	sites   []Site
}

//NewStructure returns a structure with the given lattice and sites. The sites are copied.
func NewStructure(lattice Lattice, sites []Site) (*Structure, error) {
	for i, s := range sites {
		if s.Species == "" {
			return nil, NewError(fmt.Sprintf("site %d has no species", i), "NewStructure", true)
		}
	}
	S := &Structure{lattice: lattice, sites: make([]Site, len(sites))}
	copy(S.sites, sites)
	return S, nil
}

//Lattice returns the lattice of the structure.
func (S *Structure) Lattice() Lattice {
	return S.lattice
}

//Len returns the number of sites in the structure.
func (S *Structure) Len() int {
	return len(S.sites)
}

//Site returns the ith site. It panics if i is out of range.
func (S *Structure) Site(i int) Site {
	return S.sites[i]
}

//Sites returns a copy of the sites of the structure.
func (S *Structure) Sites() []Site {
	ret := make([]Site, len(S.sites))
	copy(ret, S.sites)
	return ret
}

//Copy returns a deep copy of the structure.
func (S *Structure) Copy() *Structure {
	ret := &Structure{lattice: S.lattice, sites: make([]Site, len(S.sites))}
	copy(ret.sites, S.sites)
	return ret
}

//FracCoords returns the fractional coordinates of all the sites
func (S *Structure) FracCoords() [][3]float64 {
	ret := make([][3]float64, len(S.sites))
	for i, s := range S.sites {
		ret[i] = s.Frac
	}
	return ret
}

//CartCoords returns a v3.Matrix with the cartesian coordinates of all the sites.
func (S *Structure) CartCoords() *v3.Matrix {
	return S.lattice.CartesianMatrix(S.FracCoords())
}

//Distance returns the minimum-image distance between the sites i and j.
func (S *Structure) Distance(i, j int) float64 {
	return S.lattice.Distance(S.sites[i].Frac, S.sites[j].Frac)
}

//Composition returns the composition of the structure.
func (S *Structure) Composition() *Composition {
	C := NewComposition()
	for _, s := range S.sites {
		C.Add(s.Species, 1)
	}
	return C
}

//Wrapped returns a copy of the structure with all the fractional coordinates in [0,1).
func (S *Structure) Wrapped() *Structure {
	ret := S.Copy()
	for i, s := range ret.sites {
		ret.sites[i].Frac = WrapFrac(s.Frac)
	}
	return ret
}

type jsonStructure struct {
	Lattice Lattice `json:"lattice"`
	Sites   []Site  `json:"sites"`
}

//MarshalJSON encodes the structure.
func (S *Structure) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonStructure{Lattice: S.lattice, Sites: S.sites})
}

//UnmarshalJSON decodes a structure.
func (S *Structure) UnmarshalJSON(b []byte) error {
	var a jsonStructure
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	S.lattice = a.Lattice
	S.sites = a.Sites
	return nil
}

//CalcResults contains the results of a first-principles calculation that the
//corrections need.
type CalcResults struct {
	Structure      *Structure `json:"structure"`
	Energy         float64    `json:"energy"`
	Potentials     []float64  `json:"potentials"` //electrostatic potential at each atom, in V.
	ElectronicConv bool       `json:"electronic_conv"`
	IonicConv      bool       `json:"ionic_conv"`
	Magnetization  float64    `json:"magnetization"`
}

//Check returns an error if the calculation results are inconsistent, e.g. if there is
//not one potential per atom.
func (C *CalcResults) Check() error {
	if C.Structure == nil {
		return NewError("calculation results without a structure", "CalcResults.Check", true)
	}
	if len(C.Potentials) != C.Structure.Len() {
		return NewError(fmt.Sprintf("%d potentials given for %d atoms", len(C.Potentials), C.Structure.Len()), "CalcResults.Check", true)
	}
	if !C.ElectronicConv || !C.IonicConv {
		Logger().Sugar().Warnf("Calculation results are not converged (electronic: %v, ionic: %v)", C.ElectronicConv, C.IonicConv)
	}
	return nil
}
