/*
 * ewald.go, part of godefect.
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

//Package ewald implements the Ewald sum of a point charge, with its neutralizing background, in an anisotropic dielectric.
package ewald

import (
	"encoding/json"
	"fmt"
	"math"

	defect "github.com/rmera/godefect"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

//UnitConversion is e*1e10/eps0, it turns e/A/(relative permittivity) into V.
const UnitConversion = 180.95128169876497

//DefaultAccuracy is the accuracy used when none is given.
const DefaultAccuracy = 15.0

//Ewald evaluates lattice sums for a periodic array of point charges
//in an anisotropic dielectric medium. The lattice vectors entering the real and reciprocal sums are
//obtained once, at construction, and an Ewald is never modified afterwards.
type Ewald struct {
	lattice  defect.Lattice
	eps      defect.DielectricTensor
	epsMat   *r3.Mat
	epsInv   *r3.Mat
	rootDet  float64 //sqrt(det eps)
	volume   float64
	param    float64
	accuracy float64
	realVecs []r3.Vec //lattice translations, the origin included
	recVecs  []r3.Vec //reciprocal lattice vectors, the origin excluded
}

//New returns an Ewald for the lattice L and dielectric tensor eps. The accuracy
//sets the cutoffs of the real and reciprocal sums. If a positive param is given, it is used as the
//Ewald parameter, otherwise it is derived from the lattice and dielectric tensor.
func New(L defect.Lattice, eps defect.DielectricTensor, accuracy float64, param ...float64) (*Ewald, error) {
	if err := eps.Check(); err != nil {
		return nil, defect.ErrDecorate(err, "ewald.New")
	}
	if accuracy <= 0 {
		return nil, defect.NewError(fmt.Sprintf("accuracy must be positive, got %g", accuracy), "ewald.New", true)
	}
	E := &Ewald{lattice: L, eps: eps, accuracy: accuracy, volume: L.Volume()}
	var inv mat.Dense
	if err := inv.Inverse(eps.Dense()); err != nil {
		return nil, defect.NewError("can't invert the dielectric tensor: "+err.Error(), "ewald.New", true)
	}
	E.epsMat = r3.NewMat(flat(eps.Dense()))
	E.epsInv = r3.NewMat(flat(&inv))
	E.rootDet = math.Sqrt(eps.Det())
	if len(param) > 0 && param[0] > 0 {
		E.param = param[0]
	} else {
		E.param = defaultParam(L, E.rootDet)
	}
	E.realVecs = latticePoints(L, E.RealCutoff(), true)
	E.recVecs = latticePoints(L.Reciprocal(), E.RecCutoff(), false)
	defect.Logger().Debug("Ewald sums prepared",
		zap.Float64("ewald_param", E.param),
		zap.Float64("accuracy", accuracy),
		zap.Float64("real_cutoff", E.RealCutoff()),
		zap.Float64("rec_cutoff", E.RecCutoff()),
		zap.Int("real_vectors", len(E.realVecs)),
		zap.Int("rec_vectors", len(E.recVecs)))
	return E, nil
}

//NewFromConfig returns an Ewald using the accuracy in C.
func NewFromConfig(L defect.Lattice, eps defect.DielectricTensor, C *defect.Config) (*Ewald, error) {
	if C == nil {
		C = defect.DefaultConfig()
	}
	return New(L, eps, C.EwaldAccuracy)
}

func flat(D *mat.Dense) []float64 {
	ret := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		ret = append(ret, D.RawRowView(i)...)
	}
	return ret
}

//defaultParam returns sqrt(l_g/l_r/2)*V^(1/3)/sqrt(det eps), where l_r and l_g are the geometric
//means of the norms of the real and reciprocal lattice vectors.
func defaultParam(L defect.Lattice, rootDet float64) float64 {
	abc := L.Abc()
	rabc := L.Reciprocal().Abc()
	lr := stat.GeometricMean(abc[:], nil)
	lg := stat.GeometricMean(rabc[:], nil)
	return math.Sqrt(lg/lr/2) * math.Cbrt(L.Volume()) / rootDet
}

//latticePoints returns the points of the lattice L not farther than cutoff from the origin.
//Along each axis i the grid spans at least ceil(cutoff/|a_i|) cells. For skewed cells that
//is not enough, so the count is raised to ceil(cutoff/d_i), with d_i the spacing between
//the lattice planes normal to the ith reciprocal vector.
func latticePoints(L defect.Lattice, cutoff float64, origin bool) []r3.Vec {
	abc := L.Abc()
	rabc := L.Reciprocal().Abc()
	var n [3]int
	for i := range n {
		n[i] = int(math.Ceil(cutoff / abc[i]))
		if planes := int(math.Ceil(cutoff * rabc[i] / (2 * math.Pi))); planes > n[i] {
			defect.Logger().Debug("skewed cell, more lattice shells needed", zap.Int("axis", i), zap.Int("by_length", n[i]), zap.Int("by_planes", planes))
			n[i] = planes
		}
	}
	ret := make([]r3.Vec, 0)
	for i := -n[0]; i <= n[0]; i++ {
		for j := -n[1]; j <= n[1]; j++ {
			for k := -n[2]; k <= n[2]; k++ {
				if i == 0 && j == 0 && k == 0 {
					if origin {
						ret = append(ret, r3.Vec{})
					}
					continue
				}
				v := L.Cartesian([3]float64{float64(i), float64(j), float64(k)})
				if r3.Norm(v) <= cutoff {
					ret = append(ret, v)
				}
			}
		}
	}
	return ret
}

//Lattice returns the lattice of the Ewald sums.
func (E *Ewald) Lattice() defect.Lattice { return E.lattice }

//Dielectric returns the dielectric tensor.
func (E *Ewald) Dielectric() defect.DielectricTensor { return E.eps }

//Param returns the Ewald parameter (gamma), in 1/A.
func (E *Ewald) Param() float64 { return E.param }

//Accuracy returns the accuracy parameter.
func (E *Ewald) Accuracy() float64 { return E.accuracy }

//RealCutoff returns the largest norm of the lattice vectors summed in real space.
func (E *Ewald) RealCutoff() float64 { return E.accuracy / E.param }

//RecCutoff returns the largest norm of the reciprocal lattice vectors summed.
func (E *Ewald) RecCutoff() float64 { return 2 * E.param * E.accuracy }

//NRealVectors returns the number of lattice vectors in the real space sum.
func (E *Ewald) NRealVectors() int { return len(E.realVecs) }

//NRecVectors returns the number of reciprocal lattice vectors in the reciprocal sum.
func (E *Ewald) NRecVectors() int { return len(E.recVecs) }

//Real returns the real space sum over the lattice vectors R of erfc(g*sqrt(x eps^-1 x))/sqrt(x eps^-1 x),
//with x=R-shift, divided by 4*pi*sqrt(det eps). The R=0 term is included only if includeSelf is true.
//Terms with x=0 are always skipped.
func (E *Ewald) Real(includeSelf bool, shift r3.Vec) float64 {
	var sum float64
	for _, R := range E.realVecs {
		if !includeSelf && R == (r3.Vec{}) {
			continue
		}
		x := r3.Sub(R, shift)
		q := r3.Dot(x, E.epsInv.MulVec(x))
		if q < 1e-20 {
			continue
		}
		root := math.Sqrt(q)
		sum += math.Erfc(E.param*root) / root
	}
	return sum / (4 * math.Pi * E.rootDet)
}

//Rec returns the reciprocal space sum over the nonzero reciprocal lattice vectors G of
//exp(-G eps G/4g^2)/(G eps G)*cos(G.r), divided by the cell volume.
func (E *Ewald) Rec(r r3.Vec) float64 {
	var sum float64
	g2 := 4 * E.param * E.param
	for _, G := range E.recVecs {
		q := r3.Dot(G, E.epsMat.MulVec(G))
		sum += math.Exp(-q/g2) / q * math.Cos(r3.Dot(G, r))
	}
	return sum / E.volume
}

//DiffPot returns the correction for the finite width of the Gaussian charges, -0.25/(V g^2).
func (E *Ewald) DiffPot() float64 {
	return -0.25 / (E.volume * E.param * E.param)
}

//Self returns the self-interaction term, -g/(2*pi*sqrt(pi*det eps)).
func (E *Ewald) Self() float64 {
	return -E.param / (2 * math.Pi * math.Sqrt(math.Pi) * E.rootDet)
}

//LatticeEnergy returns the electrostatic energy, in eV, of a unit point charge in the
//periodic dielectric medium with a compensating background. The energy of a charge q is
//LatticeEnergy()*q^2.
func (E *Ewald) LatticeEnergy() float64 {
	var origin r3.Vec
	e := (E.Real(false, origin) + E.Rec(origin) + E.DiffPot() + E.Self()) / 2
	return e * UnitConversion
}

//AtomicSitePotential returns the potential of the periodic unit point charges at the position
//relFrac, given in fractional coordinates relative to one of the charges. Multiply by
//charge*UnitConversion to get the potential in V.
func (E *Ewald) AtomicSitePotential(relFrac [3]float64) float64 {
	t, _ := E.lattice.MinimumImage(relFrac)
	shift := E.lattice.Cartesian(t)
	return E.Real(true, shift) + E.Rec(shift) + E.DiffPot()
}

//Parameters returns the EwaldParameters record for E.
func (E *Ewald) Parameters() Parameters {
	return Parameters{Lattice: E.lattice, Dielectric: E.eps, Param: E.param, Accuracy: E.accuracy}
}

//Parameters is the serializable form of an Ewald.
type Parameters struct {
	Lattice    defect.Lattice          `json:"lattice"`
	Dielectric defect.DielectricTensor `json:"dielectric_tensor"`
	Param      float64                 `json:"ewald_param"`
	Accuracy   float64                 `json:"accuracy"`
}

//Ewald builds the Ewald described by P.
func (P Parameters) Ewald() (*Ewald, error) {
	return New(P.Lattice, P.Dielectric, P.Accuracy, P.Param)
}

//MarshalJSON encodes the Ewald as its Parameters.
func (E *Ewald) MarshalJSON() ([]byte, error) {
	return json.Marshal(E.Parameters())
}

//UnmarshalJSON decodes a Parameters record and rebuilds the lattice sums.
func (E *Ewald) UnmarshalJSON(b []byte) error {
	var P Parameters
	if err := json.Unmarshal(b, &P); err != nil {
		return err
	}
	ne, err := P.Ewald()
	if err != nil {
		return err
	}
	*E = *ne
	return nil
}
