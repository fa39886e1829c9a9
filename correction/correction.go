/*
 * correction.go, part of godefect.
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

//Package correction obtains finite-size corrections for the energies of charged
//defects in periodic supercells: the extended FNV correction and its generalization
//to transitions between charge states (GKFO).
package correction

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

//Correction is an energy correction to a defect formation energy, in eV.
type Correction interface {
	CorrectionEnergy() (float64, error)
}

//ManualCorrection is a correction with a fixed energy, e.g. one obtained elsewhere.
type ManualCorrection struct {
	Energy float64 `json:"manual_correction_energy"`
}

func (M ManualCorrection) CorrectionEnergy() (float64, error) {
	return M.Energy, nil
}

//NoCalculatedPotentialSiteError is returned when no site has a point-charge potential
//outside the defect region. The radius is probably too large for the supercell.
type NoCalculatedPotentialSiteError struct {
	Radius float64
}

func (err NoCalculatedPotentialSiteError) Error() string {
	return fmt.Sprintf("goDefect/correction: no site with a calculated point-charge potential outside the defect region (radius %.4f A)", err.Radius)
}

//PotentialSite is the electrostatic potential information for one atom of the defect supercell.
type PotentialSite struct {
	Specie    string  `json:"specie"`
	Distance  float64 `json:"distance"`  //from the defect center, in A
	Potential float64 `json:"potential"` //defect minus perfect potential, in V
	//Potential from the point charge model, in V. nil if it was not calculated.
	PcPotential *float64 `json:"pc_potential"`
}

//DiffPot returns Potential - PcPotential. The bool is false if PcPotential was not calculated.
func (P PotentialSite) DiffPot() (float64, bool) {
	if P.PcPotential == nil {
		return 0, false
	}
	return P.Potential - *P.PcPotential, true
}

//outsideSites returns the sites farther than radius from the defect, with a point charge potential.
func outsideSites(sites []PotentialSite, radius float64) []PotentialSite {
	ret := make([]PotentialSite, 0, len(sites))
	for _, s := range sites {
		if s.Distance > radius && s.PcPotential != nil {
			ret = append(ret, s)
		}
	}
	return ret
}

//averageDiff returns the mean DiffPot of the sites outside radius.
func averageDiff(sites []PotentialSite, radius float64) (float64, error) {
	out := outsideSites(sites, radius)
	if len(out) == 0 {
		return 0, NoCalculatedPotentialSiteError{Radius: radius}
	}
	diffs := make([]float64, len(out))
	for i, s := range out {
		diffs[i], _ = s.DiffPot()
	}
	return stat.Mean(diffs, nil), nil
}

func pointer(f float64) *float64 {
	return &f
}
