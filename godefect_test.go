/*
 * godefect_test.go, part of godefect.
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
	"bytes"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestLatticeBasics(Te *testing.T) {
	L, err := NewLattice([3][3]float64{{4, 0, 0}, {0, 5, 0}, {0, 0, 6}})
	require.NoError(Te, err)
	assert.InDelta(Te, 120.0, L.Volume(), 1e-10)
	assert.Equal(Te, [3]float64{4, 5, 6}, L.Abc())
	R := L.Reciprocal()
	assert.InDelta(Te, 2*math.Pi/4, R.Abc()[0], 1e-12)
	f := [3]float64{0.25, 0.5, 0.75}
	c := L.Cartesian(f)
	assert.Equal(Te, r3.Vec{X: 1, Y: 2.5, Z: 4.5}, c)
	back := L.Fractional(c)
	for i := range f {
		assert.InDelta(Te, f[i], back[i], 1e-12)
	}
	_, err = NewLattice([3][3]float64{{1, 0, 0}, {2, 0, 0}, {0, 0, 1}})
	assert.Error(Te, err)
}

func TestMinimumImage(Te *testing.T) {
	L := CubicLattice(10)
	d, image := L.DistanceAndImage([3]float64{0.05, 0, 0}, [3]float64{0.95, 0, 0})
	assert.InDelta(Te, 1.0, d, 1e-12)
	assert.Equal(Te, [3]int{-1, 0, 0}, image)
	assert.InDelta(Te, math.Sqrt(3)*2.5, L.Distance([3]float64{}, [3]float64{0.25, 0.25, 0.25}), 1e-12)
	//skewed cell, the naive rounding is not enough here.
	H, err := NewLattice([3][3]float64{{5, 0, 0}, {4.5, 2, 0}, {0, 0, 5}})
	require.NoError(Te, err)
	dist := H.Distance([3]float64{0, 0, 0}, [3]float64{0.45, 0.45, 0})
	naive := r3.Norm(H.Cartesian([3]float64{0.45, 0.45, 0}))
	assert.Less(Te, dist, naive)
}

func TestMaxSphereRadius(Te *testing.T) {
	L, err := NewLattice([3][3]float64{{10, 0, 0}, {0, 12, 0}, {0, 0, 8}})
	require.NoError(Te, err)
	assert.InDelta(Te, 6.0, L.MaxSphereRadius(), 1e-12)
	assert.InDelta(Te, 5.0, CubicLattice(10).MaxSphereRadius(), 1e-12)
}

func TestWrapFrac(Te *testing.T) {
	w := WrapFrac([3]float64{-0.25, 1.5, -1e-17})
	assert.InDelta(Te, 0.75, w[0], 1e-15)
	assert.InDelta(Te, 0.5, w[1], 1e-15)
	assert.True(Te, w[2] >= 0 && w[2] < 1)
}

func TestStructure(Te *testing.T) {
	S, err := NewStructure(CubicLattice(10), []Site{{"Mg", [3]float64{0, 0, 0}}, {"O", [3]float64{0.5, 0.5, 1.5}}})
	require.NoError(Te, err)
	assert.Equal(Te, 2, S.Len())
	assert.Equal(Te, "MgO", S.Composition().Formula())
	cart := S.CartCoords()
	assert.Equal(Te, r3.Vec{X: 5, Y: 5, Z: 15}, cart.Vec(1))
	W := S.Wrapped()
	assert.InDelta(Te, 0.5, W.Site(1).Frac[2], 1e-15)
	assert.InDelta(Te, 1.5, S.Site(1).Frac[2], 1e-15) //the original is not modified
	_, err = NewStructure(CubicLattice(10), []Site{{"", [3]float64{}}})
	assert.Error(Te, err)
}

func TestDielectric(Te *testing.T) {
	D, err := NewDielectricTensor([3][3]float64{{1, 0, 0}, {0, 2, 0}, {0, 0, 3}}, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	require.NoError(Te, err)
	assert.InDelta(Te, 24.0, D.Det(), 1e-10)
	assert.InDelta(Te, 3.0, D.Average(), 1e-12)
	_, err = NewDielectricTensor([3][3]float64{{1, 1, 0}, {0, 1, 0}, {0, 0, 1}}, [3][3]float64{})
	assert.Error(Te, err)
	assert.Error(Te, IsotropicDielectric(-1).Check())
}

func TestConfig(Te *testing.T) {
	C, err := ReadConfig(strings.NewReader("dist_tol = 0.5\newald_accuracy = 20.0\ncalc_all_sites = true\n"))
	require.NoError(Te, err)
	assert.Equal(Te, 0.5, C.DistTol)
	assert.Equal(Te, 20.0, C.EwaldAccuracy)
	assert.True(Te, C.CalcAllSites)
	assert.Equal(Te, defLargeMinusNumber, C.LargeMinusNumber) //not in the file
	var b bytes.Buffer
	require.NoError(Te, C.WriteConfig(&b))
	C2, err := ReadConfig(&b)
	require.NoError(Te, err)
	assert.Equal(Te, C, C2)
	_, err = ReadConfig(strings.NewReader("large_minus_number = 10.0\n"))
	assert.Error(Te, err)
	_, err = ReadConfig(strings.NewReader("log_level = \"loud\"\n"))
	assert.Error(Te, err)
}

func TestLogger(Te *testing.T) {
	C := DefaultConfig()
	C.LogLevel = "debug"
	require.NoError(Te, SetLoggerFromConfig(C))
	assert.True(Te, Logger().Core().Enabled(zapcore.DebugLevel))
	SetLogger(nil)
	assert.False(Te, Logger().Core().Enabled(zapcore.ErrorLevel))
}

func TestJSONFiles(Te *testing.T) {
	S, err := NewStructure(CubicLattice(4.2), []Site{{"Mg", [3]float64{0, 0, 0}}, {"O", [3]float64{0.5, 0.5, 0.5}}})
	require.NoError(Te, err)
	dir := Te.TempDir()
	for _, name := range []string{"structure.json", "structure.json" + ZstdExt} {
		p := filepath.Join(dir, name)
		require.NoError(Te, WriteJSON(p, S))
		S2 := new(Structure)
		require.NoError(Te, ReadJSON(p, S2))
		assert.True(Te, S.Lattice().Equal(S2.Lattice(), 1e-12))
		assert.Equal(Te, S.Sites(), S2.Sites())
	}
}

func TestErrDecorate(Te *testing.T) {
	err := ErrDecorate(NewError("boom", "inner", true), "outer")
	var d DecoratedError
	require.True(Te, errors.As(err, &d))
	assert.True(Te, d.Critical())
	assert.Equal(Te, []string{"inner", "outer"}, d.Decorate(""))
	err = ErrDecorate(fmt.Errorf("wrapped: %w", err), "outermost")
	require.True(Te, errors.As(err, &d))
	assert.Equal(Te, []string{"inner", "outer", "outermost"}, d.Decorate(""))
	assert.Nil(Te, Error{}.Decorate("nothing"))
	plain := ErrDecorate(errors.New("plain"), "outer")
	assert.Contains(Te, plain.Error(), "outer")
	assert.Nil(Te, ErrDecorate(nil, "outer"))
}
