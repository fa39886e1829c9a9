/*
 * composition_test.go, part of godefect.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComposition(Te *testing.T) {
	cases := []struct {
		formula string
		amounts map[string]float64
		reduced string
	}{
		{"MgO", map[string]float64{"Mg": 1, "O": 1}, "MgO"},
		{"Mg2SiO4", map[string]float64{"Mg": 2, "Si": 1, "O": 4}, "Mg2SiO4"},
		{"Ca(OH)2", map[string]float64{"Ca": 1, "O": 2, "H": 2}, "CaO2H2"},
		{"Ti2O4", map[string]float64{"Ti": 2, "O": 4}, "TiO2"},
		{"Li0.5CoO2", map[string]float64{"Li": 0.5, "Co": 1, "O": 2}, ""},
		{"O2", map[string]float64{"O": 2}, "O"},
	}
	for _, c := range cases {
		C, err := ParseComposition(c.formula)
		require.NoError(Te, err, c.formula)
		for el, a := range c.amounts {
			assert.InDelta(Te, a, C.Amount(el), 1e-12, c.formula)
		}
		if c.reduced != "" {
			assert.Equal(Te, c.reduced, C.ReducedFormula(), c.formula)
		}
	}
	for _, bad := range []string{"", "Xx2", "Mg(O", "MgO)", "mgo", "Mg-O"} {
		_, err := ParseComposition(bad)
		assert.Error(Te, err, bad)
	}
}

func TestCompositionFractions(Te *testing.T) {
	C := MustParseComposition("Mg2SiO4")
	assert.InDelta(Te, 7.0, C.NumAtoms(), 1e-12)
	assert.Equal(Te, []float64{2.0 / 7, 4.0 / 7, 0}, C.Fractions([]string{"Mg", "O", "Zn"}))
	assert.True(Te, C.SubsetOf([]string{"O", "Si", "Mg", "Zn"}))
	assert.False(Te, C.SubsetOf([]string{"O", "Mg"}))
	assert.False(Te, C.IsElement())
	assert.True(Te, MustParseComposition("O2").IsElement())
	assert.True(Te, MustParseComposition("MgO").AlmostEqual(MustParseComposition("Mg2O2"), 1e-8))
	assert.False(Te, MustParseComposition("MgO").AlmostEqual(MustParseComposition("MgO2"), 1e-8))
	R := MustParseComposition("Li0.5CoO2").Reduced()
	assert.InDelta(Te, 1.0, R.NumAtoms(), 1e-12)
	assert.InDelta(Te, 1.0/7, R.Amount("Li"), 1e-12)
	assert.Equal(Te, 12, AtomicNumber("Mg"))
	assert.Equal(Te, 0, AtomicNumber("Xx"))
}
