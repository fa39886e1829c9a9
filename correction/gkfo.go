/*
 * gkfo.go, part of godefect.
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
	"github.com/rmera/godefect/ewald"
	"go.uber.org/zap"
)

//GkfoCorrection is the correction for the energy of a transition from an initial
//charge state, with its eFNV correction, to a charge state with AdditionalCharge
//more, in which the atoms keep the initial geometry.
type GkfoCorrection struct {
	InitEfnvCorrection *ExtendedFnvCorrection `json:"init_efnv_correction"`
	AdditionalCharge   int                    `json:"additional_charge"`
	PC2ndTerm          float64                `json:"pc_2nd_term"` //eV
	//final minus initial potentials, with point charge potentials for the additional charge.
	GkfoSites                     []PotentialSite `json:"gkfo_sites"`
	AveDielectricTensor           float64         `json:"ave_dielectric_tensor"`
	AveElectronicDielectricTensor float64         `json:"ave_electronic_dielectric_tensor"`
}

//NewGkfoCorrection returns a GkfoCorrection with the given terms. It returns an error if init is nil
//or the dielectric constants are not positive.
func NewGkfoCorrection(init *ExtendedFnvCorrection, additionalCharge int, pc2ndTerm float64, sites []PotentialSite, aveEps, aveEpsElectronic float64) (*GkfoCorrection, error) {
	if init == nil {
		return nil, defect.NewError("nil initial eFNV correction", "NewGkfoCorrection", true)
	}
	if aveEps <= 0 || aveEpsElectronic <= 0 {
		return nil, defect.NewError(fmt.Sprintf("dielectric constants must be positive, got %g and %g", aveEps, aveEpsElectronic), "NewGkfoCorrection", true)
	}
	return &GkfoCorrection{
		InitEfnvCorrection:            init,
		AdditionalCharge:              additionalCharge,
		PC2ndTerm:                     pc2ndTerm,
		GkfoSites:                     sites,
		AveDielectricTensor:           aveEps,
		AveElectronicDielectricTensor: aveEpsElectronic,
	}, nil
}

//InitCharge returns the charge of the initial state
func (G *GkfoCorrection) InitCharge() int { return G.InitEfnvCorrection.Charge }

//FinalCharge returns the charge of the final state
func (G *GkfoCorrection) FinalCharge() int { return G.InitEfnvCorrection.Charge + G.AdditionalCharge }

//PC1stTerm returns 2*pcc/q*dq, where pcc and q are the point charge correction and the
//charge of the initial state. It is 0 for a neutral initial state.
func (G *GkfoCorrection) PC1stTerm() float64 {
	q := G.InitEfnvCorrection.Charge
	if q == 0 {
		return 0
	}
	return 2 * G.InitEfnvCorrection.PointChargeCorrection / float64(q) * float64(G.AdditionalCharge)
}

//OutsideSites returns the sites of the transition outside the defect region which have
//a point charge potential.
func (G *GkfoCorrection) OutsideSites() []PotentialSite {
	return outsideSites(G.GkfoSites, G.InitEfnvCorrection.DefectRegionRadius)
}

//AveragePotentialDiffByAddition is the mean potential difference, for the sites outside
//the defect region, caused by the additional charge.
func (G *GkfoCorrection) AveragePotentialDiffByAddition() (float64, error) {
	return averageDiff(G.GkfoSites, G.InitEfnvCorrection.DefectRegionRadius)
}

//Alignment1stTerm returns -AveragePotentialDiffByAddition*AdditionalCharge
func (G *GkfoCorrection) Alignment1stTerm() (float64, error) {
	ave, err := G.AveragePotentialDiffByAddition()
	if err != nil {
		return 0, err
	}
	return -ave * float64(G.AdditionalCharge), nil
}

//Alignment2ndTerm returns minus the average potential difference of the initial state times AdditionalCharge.
func (G *GkfoCorrection) Alignment2ndTerm() (float64, error) {
	ave, err := G.InitEfnvCorrection.AveragePotentialDiff()
	if err != nil {
		return 0, err
	}
	return -ave * float64(G.AdditionalCharge), nil
}

//Alignment3rdTerm returns -(eps_electronic/eps)*q*AveragePotentialDiffByAddition, with q the initial charge.
func (G *GkfoCorrection) Alignment3rdTerm() (float64, error) {
	ave, err := G.AveragePotentialDiffByAddition()
	if err != nil {
		return 0, err
	}
	ratio := G.AveElectronicDielectricTensor / G.AveDielectricTensor
	return -ratio * float64(G.InitCharge()) * ave, nil
}

//CorrectionEnergy returns the sum of the five terms, in eV.
func (G *GkfoCorrection) CorrectionEnergy() (float64, error) {
	a1, err := G.Alignment1stTerm()
	if err != nil {
		return 0, err
	}
	a2, err := G.Alignment2ndTerm()
	if err != nil {
		return 0, err
	}
	a3, err := G.Alignment3rdTerm()
	if err != nil {
		return 0, err
	}
	return G.PC1stTerm() + G.PC2ndTerm + a1 + a2 + a3, nil
}

//MakeGkfoCorrection obtains the GKFO correction for adding additionalCharge to the defect described
//by init. initCalc and finalCalc are the calculations before and after adding the charge, with the same
//atoms in the same order. eps is the total dielectric tensor, and epsElectronic its electronic (ion-clamped)
//part, which screens the additional charge. Only the accuracy and the CalcAllSites settings of O are used.
func MakeGkfoCorrection(init *ExtendedFnvCorrection, additionalCharge int, finalCalc, initCalc *defect.CalcResults, eps, epsElectronic defect.DielectricTensor, O *Options) (*GkfoCorrection, error) {
	if O == nil {
		O = DefaultOptions()
	}
	if init == nil {
		return nil, defect.NewError("nil initial eFNV correction", "MakeGkfoCorrection", true)
	}
	for _, c := range []*defect.CalcResults{finalCalc, initCalc} {
		if c == nil {
			return nil, defect.NewError("nil calculation results", "MakeGkfoCorrection", true)
		}
		if err := c.Check(); err != nil {
			return nil, defect.ErrDecorate(err, "MakeGkfoCorrection")
		}
	}
	fstr := finalCalc.Structure
	if fstr.Len() != initCalc.Structure.Len() {
		return nil, defect.NewError(fmt.Sprintf("initial and final states have %d and %d atoms", initCalc.Structure.Len(), fstr.Len()), "MakeGkfoCorrection", true)
	}
	if err := eps.Check(); err != nil {
		return nil, defect.ErrDecorate(err, "MakeGkfoCorrection")
	}
	L := fstr.Lattice()
	dq := float64(additionalCharge)
	pc2nd := 0.0
	var ew *ewald.Ewald
	if additionalCharge != 0 {
		var err error
		ew, err = ewald.New(L, epsElectronic, O.accuracy)
		if err != nil {
			return nil, defect.ErrDecorate(err, "MakeGkfoCorrection")
		}
		pc2nd = -ew.LatticeEnergy() * dq * dq
	}
	center := init.DefectCoords
	radius := init.DefectRegionRadius
	sites := make([]PotentialSite, 0, fstr.Len())
	for k := 0; k < fstr.Len(); k++ {
		s := fstr.Site(k)
		dist := L.Distance(center, s.Frac)
		site := PotentialSite{
			Specie:    s.Species,
			Distance:  dist,
			Potential: finalCalc.Potentials[k] - initCalc.Potentials[k],
		}
		if dist > radius || O.calcAllSites {
			site.PcPotential = pcPotential(ew, s.Frac, center, dq)
		}
		sites = append(sites, site)
	}
	G, err := NewGkfoCorrection(init, additionalCharge, pc2nd, sites, eps.Average(), epsElectronic.Average())
	if err != nil {
		return nil, defect.ErrDecorate(err, "MakeGkfoCorrection")
	}
	if len(G.OutsideSites()) == 0 {
		return nil, NoCalculatedPotentialSiteError{Radius: radius}
	}
	defect.Logger().Debug("GKFO correction",
		zap.Int("initial_charge", init.Charge),
		zap.Int("additional_charge", additionalCharge),
		zap.Float64("pc_1st_term", G.PC1stTerm()),
		zap.Float64("pc_2nd_term", pc2nd))
	return G, nil
}
