/*
 * energies.go, part of godefect.
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

import (
	"fmt"
	"io"
	"math"

	defect "github.com/rmera/godefect"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//MissingReferenceError is returned when there is no elemental energy for Element.
type MissingReferenceError struct {
	Element string
}

func (err MissingReferenceError) Error() string {
	return fmt.Sprintf("goDefect/cpd: no reference energy for element %s", err.Element)
}

//CompositionEnergy is the total energy of one formula, as written, of a compound.
type CompositionEnergy struct {
	Energy float64 `yaml:"energy" json:"energy"`
	Source string  `yaml:"source,omitempty" json:"source,omitempty"`
}

//CompositionEnergies maps formulas to their energies.
type CompositionEnergies map[string]CompositionEnergy

//ReadCompositionEnergies reads YAML-encoded composition energies from r.
func ReadCompositionEnergies(r io.Reader) (CompositionEnergies, error) {
	ret := make(CompositionEnergies)
	if err := yaml.NewDecoder(r).Decode(&ret); err != nil {
		return nil, defect.ErrDecorate(err, "ReadCompositionEnergies")
	}
	for f := range ret {
		if _, err := defect.ParseComposition(f); err != nil {
			return nil, defect.ErrDecorate(err, "ReadCompositionEnergies")
		}
	}
	return ret, nil
}

//WriteYAML writes the energies to w
func (C CompositionEnergies) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(map[string]CompositionEnergy(C))
}

//Formulas returns the formulas, sorted.
func (C CompositionEnergies) Formulas() []string {
	ret := make([]string, 0, len(C))
	for f := range C {
		ret = append(ret, f)
	}
	slices.Sort(ret)
	return ret
}

//Elements returns all the elements present, sorted by atomic number.
func (C CompositionEnergies) Elements() ([]string, error) {
	ret := make([]string, 0)
	for _, f := range C.Formulas() {
		comp, err := defect.ParseComposition(f)
		if err != nil {
			return nil, defect.ErrDecorate(err, "CompositionEnergies.Elements")
		}
		for _, el := range comp.Elements() {
			if !slices.Contains(ret, el) {
				ret = append(ret, el)
			}
		}
	}
	sortElements(ret)
	return ret, nil
}

func sortElements(els []string) {
	slices.SortFunc(els, func(a, b string) int {
		return defect.AtomicNumber(a) - defect.AtomicNumber(b)
	})
}

//StandardEnergies maps elements to their reference energies per atom.
type StandardEnergies map[string]float64

//StdEnergies returns, for each element present in C, the lowest energy per atom
//among its elemental phases. It returns a MissingReferenceError if some element has no elemental phase.
func (C CompositionEnergies) StdEnergies() (StandardEnergies, error) {
	ret := make(StandardEnergies)
	for _, f := range C.Formulas() {
		comp, err := defect.ParseComposition(f)
		if err != nil {
			return nil, defect.ErrDecorate(err, "CompositionEnergies.StdEnergies")
		}
		if !comp.IsElement() {
			continue
		}
		el := comp.Elements()[0]
		e := C[f].Energy / comp.NumAtoms()
		if prev, ok := ret[el]; !ok || e < prev {
			ret[el] = e
		}
	}
	els, err := C.Elements()
	if err != nil {
		return nil, err
	}
	for _, el := range els {
		if _, ok := ret[el]; !ok {
			return nil, MissingReferenceError{Element: el}
		}
	}
	return ret, nil
}

//RelativeEnergies maps formulas to their energies per atom relative to the standard energies
//of their elements, i.e. their formation energies per atom.
type RelativeEnergies map[string]float64

//RelativeEnergies returns the energies per atom relative to the standard energies std.
func (C CompositionEnergies) RelativeEnergies(std StandardEnergies) (RelativeEnergies, error) {
	ret := make(RelativeEnergies)
	for _, f := range C.Formulas() {
		comp, err := defect.ParseComposition(f)
		if err != nil {
			return nil, defect.ErrDecorate(err, "CompositionEnergies.RelativeEnergies")
		}
		e := C[f].Energy
		for _, el := range comp.Elements() {
			mu, ok := std[el]
			if !ok {
				return nil, MissingReferenceError{Element: el}
			}
			e -= mu * comp.Amount(el)
		}
		ret[f] = e / comp.NumAtoms()
	}
	return ret, nil
}

//Formulas returns the formulas, sorted.
func (R RelativeEnergies) Formulas() []string {
	ret := make([]string, 0, len(R))
	for f := range R {
		ret = append(ret, f)
	}
	slices.Sort(ret)
	return ret
}

//HostEnergies returns the energies of the compositions made only of elements.
func (R RelativeEnergies) HostEnergies(elements []string) RelativeEnergies {
	ret := make(RelativeEnergies)
	for f, e := range R {
		comp, err := defect.ParseComposition(f)
		if err != nil {
			continue
		}
		if comp.SubsetOf(elements) {
			ret[f] = e
		}
	}
	return ret
}

//UnstableCompositions returns the formulas whose relative energy is above the
//convex hull by more than tol, given the vertices of the diagram. A composition is above the hull
//if, at every vertex, it is less stable than the phases in equilibrium there.
func (R RelativeEnergies) UnstableCompositions(D *ChemPotDiag, tol float64) []string {
	ret := make([]string, 0)
	for _, f := range R.HostEnergies(D.VertexElements).Formulas() {
		comp := defect.MustParseComposition(f)
		x := comp.Fractions(D.VertexElements)
		best := math.Inf(1)
		for _, v := range D.vertices {
			best = math.Min(best, R[f]-dot(x, v))
		}
		if best > tol {
			ret = append(ret, f)
		}
	}
	return ret
}

//WriteYAML writes the relative energies to w
func (R RelativeEnergies) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(map[string]float64(R))
}

//ReadRelativeEnergies reads YAML-encoded relative energies from r.
func ReadRelativeEnergies(r io.Reader) (RelativeEnergies, error) {
	ret := make(RelativeEnergies)
	if err := yaml.NewDecoder(r).Decode(&ret); err != nil {
		return nil, defect.ErrDecorate(err, "ReadRelativeEnergies")
	}
	return ret, nil
}
