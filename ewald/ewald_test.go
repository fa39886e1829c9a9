/*
 * ewald_test.go, part of godefect.
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

package ewald

import (
	"encoding/json"
	"math"
	"testing"

	defect "github.com/rmera/godefect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//Madelung constant of a simple cubic array of point charges in a neutralizing background.
const madelungSC = 2.8372974794806

func cubic(Te *testing.T, a, eps, accuracy float64) *Ewald {
	Te.Helper()
	E, err := New(defect.CubicLattice(a), defect.IsotropicDielectric(eps), accuracy)
	require.NoError(Te, err)
	return E
}

func TestDefaultParam(Te *testing.T) {
	E := cubic(Te, 10, 4, DefaultAccuracy)
	assert.InDelta(Te, math.Sqrt(math.Pi)/8, E.Param(), 1e-12)
	assert.InDelta(Te, DefaultAccuracy/E.Param(), E.RealCutoff(), 1e-12)
	assert.InDelta(Te, 2*DefaultAccuracy*E.Param(), E.RecCutoff(), 1e-12)
	E2, err := New(defect.CubicLattice(10), defect.IsotropicDielectric(4), 10, 0.3)
	require.NoError(Te, err)
	assert.Equal(Te, 0.3, E2.Param())
}

func TestMadelung(Te *testing.T) {
	E := cubic(Te, 10, 4, DefaultAccuracy)
	expected := -madelungSC / (2 * 4 * 10) / (4 * math.Pi) * UnitConversion
	assert.InEpsilon(Te, expected, E.LatticeEnergy(), 1e-8)
	//the result can't depend on the Ewald parameter
	E2, err := New(defect.CubicLattice(10), defect.IsotropicDielectric(4), 20, 0.35)
	require.NoError(Te, err)
	assert.InEpsilon(Te, expected, E2.LatticeEnergy(), 1e-8)
}

func TestDielectricScaling(Te *testing.T) {
	e4 := cubic(Te, 10, 4, DefaultAccuracy).LatticeEnergy()
	e2 := cubic(Te, 10, 2, DefaultAccuracy).LatticeEnergy()
	assert.InEpsilon(Te, 2*e4, e2, 1e-6)
	e20 := cubic(Te, 20, 4, DefaultAccuracy).LatticeEnergy()
	assert.InEpsilon(Te, e4/2, e20, 1e-6)
}

func TestConvergence(Te *testing.T) {
	e10 := cubic(Te, 10, 4, 10).LatticeEnergy()
	e30 := cubic(Te, 10, 4, 30).LatticeEnergy()
	assert.InDelta(Te, e30, e10, 1e-4)
	assert.False(Te, math.IsNaN(e10) || math.IsInf(e10, 0))
}

func TestAtomicSitePotential(Te *testing.T) {
	E := cubic(Te, 10, 4, DefaultAccuracy)
	ref := E.AtomicSitePotential([3]float64{0.3, 0, 0})
	for _, f := range [][3]float64{{0, 0.3, 0}, {0, 0, -0.3}, {-0.3, 0, 0}, {0.7, 0, 0}, {1.3, -1, 2}} {
		assert.InDelta(Te, ref, E.AtomicSitePotential(f), 1e-10, f)
	}
	assert.Greater(Te, E.AtomicSitePotential([3]float64{0.1, 0, 0}), E.AtomicSitePotential([3]float64{0.5, 0, 0}))
	//Close to the charge, the potential is the bare Coulomb one plus twice the lattice energy.
	r := 0.01
	bare := 1 / (4 * math.Pi * 4 * r)
	assert.InDelta(Te, 2*E.LatticeEnergy()/UnitConversion, E.AtomicSitePotential([3]float64{r / 10, 0, 0})-bare, 1e-5)
}

func TestAnisotropic(Te *testing.T) {
	eps := defect.DielectricTensor{{4, 0, 0}, {0, 4, 0}, {0, 0, 8}}
	E, err := New(defect.CubicLattice(10), eps, DefaultAccuracy)
	require.NoError(Te, err)
	x := E.AtomicSitePotential([3]float64{0.3, 0, 0})
	y := E.AtomicSitePotential([3]float64{0, 0.3, 0})
	z := E.AtomicSitePotential([3]float64{0, 0, 0.3})
	assert.InDelta(Te, x, y, 1e-10)
	assert.NotEqual(Te, x, z)
	iso := cubic(Te, 10, 4, DefaultAccuracy).LatticeEnergy()
	//a larger dielectric constant along z screens more.
	assert.Less(Te, math.Abs(E.LatticeEnergy()), math.Abs(iso))
}

func TestSkewedCell(Te *testing.T) {
	ang := 15 * math.Pi / 180
	L, err := defect.NewLattice([3][3]float64{{10, 0, 0}, {10 * math.Cos(ang), 10 * math.Sin(ang), 0}, {0, 0, 10}})
	require.NoError(Te, err)
	eps := defect.IsotropicDielectric(4)
	E, err := New(L, eps, DefaultAccuracy)
	require.NoError(Te, err)
	//the lattice energy can't depend on the Ewald parameter
	for _, f := range []float64{0.7, 1.5} {
		E2, err := New(L, eps, DefaultAccuracy, f*E.Param())
		require.NoError(Te, err)
		assert.InEpsilon(Te, E.LatticeEnergy(), E2.LatticeEnergy(), 1e-8, f)
		assert.InDelta(Te, E.AtomicSitePotential([3]float64{0.2, 0.3, 0.1}), E2.AtomicSitePotential([3]float64{0.2, 0.3, 0.1}), 1e-8, f)
	}
}

func TestBadInput(Te *testing.T) {
	_, err := New(defect.CubicLattice(10), defect.IsotropicDielectric(4), 0)
	assert.Error(Te, err)
	_, err = New(defect.CubicLattice(10), defect.DielectricTensor{{1, 0, 0}, {0, -1, 0}, {0, 0, 1}}, 10)
	assert.Error(Te, err)
}

func TestJSON(Te *testing.T) {
	E := cubic(Te, 10, 4, 12)
	b, err := json.Marshal(E)
	require.NoError(Te, err)
	E2 := new(Ewald)
	require.NoError(Te, json.Unmarshal(b, E2))
	assert.Equal(Te, E.Param(), E2.Param())
	assert.Equal(Te, E.Accuracy(), E2.Accuracy())
	assert.Equal(Te, E.NRealVectors(), E2.NRealVectors())
	assert.InDelta(Te, E.LatticeEnergy(), E2.LatticeEnergy(), 1e-12)
}
