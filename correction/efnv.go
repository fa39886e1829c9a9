/*
 * efnv.go, part of godefect.
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
	"fmt"

	defect "github.com/rmera/godefect"
	"github.com/rmera/godefect/compare"
	"github.com/rmera/godefect/ewald"
	"go.uber.org/zap"
)

//ExtendedFnvCorrection is the extended Freysoldt-Neugebauer-Van de Walle correction
//for a defect with charge Charge.
type ExtendedFnvCorrection struct {
	Charge                int             `json:"charge"`
	PointChargeCorrection float64         `json:"point_charge_correction"` //eV
	DefectRegionRadius    float64         `json:"defect_region_radius"`    //A
	Sites                 []PotentialSite `json:"sites"`
	DefectCoords          [3]float64      `json:"defect_coords"` //fractional
}

//OutsideSites returns the sites outside the defect region for which the point-charge
//potential was obtained.
func (E *ExtendedFnvCorrection) OutsideSites() []PotentialSite {
	return outsideSites(E.Sites, E.DefectRegionRadius)
}

//AveragePotentialDiff returns the mean difference between the calculated and point-charge
//potentials over the sites outside the defect region, in V.
func (E *ExtendedFnvCorrection) AveragePotentialDiff() (float64, error) {
	return averageDiff(E.Sites, E.DefectRegionRadius)
}

//AlignmentCorrection returns -AveragePotentialDiff*Charge, in eV.
func (E *ExtendedFnvCorrection) AlignmentCorrection() (float64, error) {
	ave, err := E.AveragePotentialDiff()
	if err != nil {
		return 0, err
	}
	return -ave * float64(E.Charge), nil
}

//CorrectionEnergy returns the sum of the point charge and alignment corrections, in eV.
func (E *ExtendedFnvCorrection) CorrectionEnergy() (float64, error) {
	align, err := E.AlignmentCorrection()
	if err != nil {
		return 0, err
	}
	return E.PointChargeCorrection + align, nil
}

func (E *ExtendedFnvCorrection) String() string {
	ave, err := E.AveragePotentialDiff()
	if err != nil {
		return fmt.Sprintf("charge %d, point charge correction %.4f eV, %s", E.Charge, E.PointChargeCorrection, err.Error())
	}
	align := -ave * float64(E.Charge)
	return fmt.Sprintf("charge %d, point charge correction %.4f eV, defect region radius %.4f A, potential difference %.4f V, alignment correction %.4f eV, total correction %.4f eV",
		E.Charge, E.PointChargeCorrection, E.DefectRegionRadius, ave, align, E.PointChargeCorrection+align)
}

//MakeEfnvCorrection obtains the extended FNV correction for a defect with the given charge. defectCalc and perfectCalc
//contain the supercell calculations, with one electrostatic potential per atom, and eps is the total dielectric tensor.
//If O is nil, DefaultOptions() is used. A NoCalculatedPotentialSiteError is returned if no atom
//lies outside the defect region.
func MakeEfnvCorrection(charge int, defectCalc, perfectCalc *defect.CalcResults, eps defect.DielectricTensor, O *Options) (*ExtendedFnvCorrection, error) {
	if O == nil {
		O = DefaultOptions()
	}
	for _, c := range []*defect.CalcResults{defectCalc, perfectCalc} {
		if c == nil {
			return nil, defect.NewError("nil calculation results", "MakeEfnvCorrection", true)
		}
		if err := c.Check(); err != nil {
			return nil, defect.ErrDecorate(err, "MakeEfnvCorrection")
		}
	}
	dstr := defectCalc.Structure
	comp, err := compare.New(dstr, perfectCalc.Structure, O.distTol, O.latticeTol)
	if err != nil {
		return nil, defect.ErrDecorate(err, "MakeEfnvCorrection")
	}
	center, given := O.DefectCoords()
	if !given {
		center, err = comp.DefectCenterCoord()
		if err != nil {
			return nil, defect.ErrDecorate(err, "MakeEfnvCorrection")
		}
	}
	L := dstr.Lattice()
	q := float64(charge)
	pcc := 0.0
	var ew *ewald.Ewald //not needed for neutral defects
	if charge != 0 {
		ew, err = ewald.New(L, eps, O.accuracy)
		if err != nil {
			return nil, defect.ErrDecorate(err, "MakeEfnvCorrection")
		}
		pcc = -ew.LatticeEnergy() * q * q
	}
	radius := O.radius
	if radius <= 0 {
		radius = L.MaxSphereRadius()
	}
	sites := make([]PotentialSite, 0, dstr.Len())
	for j, i := range comp.AtomMapping() {
		if i < 0 {
			continue
		}
		s := dstr.Site(j)
		dist := L.Distance(center, s.Frac)
		site := PotentialSite{
			Specie:    s.Species,
			Distance:  dist,
			Potential: defectCalc.Potentials[j] - perfectCalc.Potentials[i],
		}
		if dist > radius || O.calcAllSites {
			site.PcPotential = pcPotential(ew, s.Frac, center, q)
		}
		sites = append(sites, site)
	}
	ret := &ExtendedFnvCorrection{
		Charge:                charge,
		PointChargeCorrection: pcc,
		DefectRegionRadius:    radius,
		Sites:                 sites,
		DefectCoords:          center,
	}
	if len(ret.OutsideSites()) == 0 {
		return nil, NoCalculatedPotentialSiteError{Radius: radius}
	}
	defect.Logger().Debug("eFNV correction",
		zap.Int("charge", charge),
		zap.Float64("point_charge_correction", pcc),
		zap.Float64("defect_region_radius", radius),
		zap.Int("sites", len(sites)),
		zap.Int("outside_sites", len(ret.OutsideSites())))
	return ret, nil
}

//pcPotential returns the potential, in V, of the periodic charges q placed at center, at the position frac.
func pcPotential(ew *ewald.Ewald, frac, center [3]float64, q float64) *float64 {
	if q == 0 {
		return pointer(0.0)
	}
	rel := [3]float64{frac[0] - center[0], frac[1] - center[1], frac[2] - center[2]}
	return pointer(ew.AtomicSitePotential(rel) * q * ewald.UnitConversion)
}
