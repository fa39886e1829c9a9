/*
 * comparator_test.go, part of godefect.
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

package compare

import (
	"errors"
	"math"
	"testing"

	defect "github.com/rmera/godefect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func structure(Te *testing.T, a float64, sites ...defect.Site) *defect.Structure {
	Te.Helper()
	S, err := defect.NewStructure(defect.CubicLattice(a), sites)
	require.NoError(Te, err)
	return S
}

func site(species string, x, y, z float64) defect.Site {
	return defect.Site{Species: species, Frac: [3]float64{x, y, z}}
}

func TestIdentity(Te *testing.T) {
	P := structure(Te, 10, site("Mg", 0, 0, 0), site("O", 0.5, 0, 0), site("Mg", 0.5, 0.5, 0), site("O", 0, 0.5, 0))
	C, err := New(P.Copy(), P, 1.0)
	require.NoError(Te, err)
	assert.Equal(Te, []int{0, 1, 2, 3}, C.AtomMapping())
	assert.Empty(Te, C.RemovedIndices())
	assert.Empty(Te, C.InsertedIndices())
	_, err = C.DefectCenterCoord()
	assert.True(Te, errors.Is(err, defect.ErrNoDefect))
	D := C.SiteDiff()
	assert.False(Te, D.IsVacancy() || D.IsInterstitial() || D.IsSubstitution() || D.IsComplex())
	assert.Equal(Te, "perfect", D.String())
}

func TestVacancy(Te *testing.T) {
	P := structure(Te, 10, site("Mg", 0, 0, 0), site("Mg", 0.25, 0.25, 0.25))
	D := structure(Te, 10, site("Mg", 0, 0, 0))
	C, err := New(D, P, 1.0)
	require.NoError(Te, err)
	assert.Equal(Te, []int{1}, C.RemovedIndices())
	assert.Equal(Te, []int{}, C.InsertedIndices())
	assert.Equal(Te, []int{0}, C.AtomMapping())
	center, err := C.DefectCenterCoord()
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{0.25, 0.25, 0.25}, center[:], 1e-12)
	diff := C.SiteDiff()
	assert.True(Te, diff.IsVacancy())
	assert.Equal(Te, "Va_Mg2", diff.String())
}

func TestTiedMatch(Te *testing.T) {
	P := structure(Te, 10, site("Mg", 0, 0, 0), site("O", 0.5, 0.5, 0.5))
	D := structure(Te, 10, site("Mg", 0.04, 0, 0), site("Mg", 0.96, 0, 0), site("O", 0.5, 0.5, 0.5))
	C, err := New(D, P, 1.0)
	require.NoError(Te, err)
	//both Mg are 0.4 A from the perfect Mg, so neither is mapped
	assert.Equal(Te, []int{-1, -1, 1}, C.AtomMapping())
	assert.Equal(Te, []int{0}, C.RemovedIndices())
	assert.Equal(Te, []int{0, 1}, C.InsertedIndices())
	disps := C.Displacements([3]float64{})
	require.Len(Te, disps, 3)
	assert.Nil(Te, disps[0])
	assert.Nil(Te, disps[1])
	assert.NotNil(Te, disps[2])
}

func TestSubstitution(Te *testing.T) {
	P := structure(Te, 10, site("Mg", 0, 0, 0), site("O", 0.5, 0.5, 0.5))
	D := structure(Te, 10, site("Mg", 0, 0, 0), site("N", 0.5, 0.5, 0.52))
	C, err := New(D, P, 1.0)
	require.NoError(Te, err)
	assert.Equal(Te, []int{1}, C.RemovedIndices())
	assert.Equal(Te, []int{1}, C.InsertedIndices())
	diff := C.SiteDiff()
	require.True(Te, diff.IsSubstitution())
	assert.Equal(Te, "O", diff.RemovedBySub[0].Species)
	assert.Equal(Te, "N", diff.InsertedBySub[0].Species)
	assert.Equal(Te, "N_O2", diff.String())
	center, err := C.DefectCenterCoord()
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{0.5, 0.5, 0.51}, center[:], 1e-12)
}

//The two inserted atoms sit on opposite faces of the cell, so their center
//is only right if periodic images are considered.
func TestCenterAcrossBoundary(Te *testing.T) {
	P := structure(Te, 10, site("Mg", 0, 0, 0))
	D := structure(Te, 10, site("Mg", 0, 0, 0), site("Li", 0.98, 0.5, 0.5), site("Li", 0.02, 0.5, 0.5))
	C, err := New(D, P, 1.0)
	require.NoError(Te, err)
	assert.Equal(Te, []int{1, 2}, C.InsertedIndices())
	center, err := C.DefectCenterCoord()
	require.NoError(Te, err)
	assert.InDelta(Te, 0.0, P.Lattice().Distance(center, [3]float64{0, 0.5, 0.5}), 1e-8)
	for _, c := range center {
		assert.True(Te, c >= 0 && c < 1)
	}
	assert.True(Te, C.SiteDiff().IsComplex())
}

func TestLatticeMismatch(Te *testing.T) {
	P := structure(Te, 10, site("Mg", 0, 0, 0))
	D := structure(Te, 10.1, site("Mg", 0, 0, 0))
	_, err := New(D, P, 1.0)
	var mismatch defect.LatticeMismatchError
	assert.True(Te, errors.As(err, &mismatch))
	_, err = NewFromConfig(D, P, &defect.Config{DistTol: 1, LatticeTolerance: 0.5})
	assert.NoError(Te, err)
}

func TestDisplacements(Te *testing.T) {
	P := structure(Te, 10, site("Mg", 0, 0, 0), site("O", 0.5, 0.1, 0), site("Mg", 0.5, 0.5, 0))
	D := structure(Te, 10, site("Mg", 0, 0, 0), site("O", 0.5, 0.11, 0))
	C, err := New(D, P, 1.0)
	require.NoError(Te, err)
	center, err := C.DefectCenterCoord()
	require.NoError(Te, err)
	disps := C.Displacements(center)
	require.Len(Te, disps, 2)
	assert.Nil(Te, disps[0].Angle) //it didn't move
	assert.InDelta(Te, 5*math.Sqrt2, disps[0].DistanceFromDefect, 1e-10)
	O := disps[1]
	assert.InDelta(Te, 0.1, O.Norm, 1e-10)
	assert.InDelta(Te, 4.0, O.DistanceFromDefect, 1e-10)
	require.NotNil(Te, O.Angle)
	assert.InDelta(Te, 180.0, *O.Angle, 1e-6)
}
