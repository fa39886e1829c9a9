/*
 * config.go, part of godefect.
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
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml"
	"go.uber.org/zap/zapcore"
)

const (
	defDistTol            float64 = 1.0 //Angstrom
	defEwaldAccuracy      float64 = 15.0
	defLargeMinusNumber   float64 = -1e5
	defVertexTolerance    float64 = 1e-3
	defLatticeTolerance   float64 = 1e-5
	defDefectRegionRadius float64 = 0 //0 means "use the largest sphere fitting in the supercell"
	defLogLevel                   = "warn"
)

//Config contains the parameters shared by the goDefect packages. Each package
//builds its own options from a Config, so there is no global state.
//A Config can be read from a TOML file.
type Config struct {
	DistTol            float64 `toml:"dist_tol"`             //Tolerance for matching atoms between structures, in A.
	EwaldAccuracy      float64 `toml:"ewald_accuracy"`       //Controls the real and reciprocal cutoffs of the Ewald sums.
	DefectRegionRadius float64 `toml:"defect_region_radius"` //0 or less means automatic.
	CalcAllSites       bool    `toml:"calc_all_sites"`       //Calculate point-charge potentials also inside the defect region.
	LargeMinusNumber   float64 `toml:"large_minus_number"`   //Lower bound for the relative chemical potentials.
	VertexTolerance    float64 `toml:"vertex_tolerance"`     //Absolute tolerance for a vertex to lie on a composition plane.
	LatticeTolerance   float64 `toml:"lattice_tolerance"`    //Absolute tolerance for two lattice matrices to be the same.
	LogLevel           string  `toml:"log_level"`
}

//DefaultConfig returns the default setting for a Config
func DefaultConfig() *Config {
	return &Config{
		DistTol:            defDistTol,
		EwaldAccuracy:      defEwaldAccuracy,
		DefectRegionRadius: defDefectRegionRadius,
		LargeMinusNumber:   defLargeMinusNumber,
		VertexTolerance:    defVertexTolerance,
		LatticeTolerance:   defLatticeTolerance,
		LogLevel:           defLogLevel,
	}
}

//Validate returns an error if some parameter of the Config makes no sense.
func (C *Config) Validate() error {
	switch {
	case C.DistTol <= 0:
		return NewError(fmt.Sprintf("dist_tol must be positive, got %g", C.DistTol), "Config.Validate", true)
	case C.EwaldAccuracy <= 0:
		return NewError(fmt.Sprintf("ewald_accuracy must be positive, got %g", C.EwaldAccuracy), "Config.Validate", true)
	case C.LargeMinusNumber >= 0:
		return NewError(fmt.Sprintf("large_minus_number must be negative, got %g", C.LargeMinusNumber), "Config.Validate", true)
	case C.VertexTolerance <= 0 || C.LatticeTolerance <= 0:
		return NewError("tolerances must be positive", "Config.Validate", true)
	}
	if _, err := zapcore.ParseLevel(C.LogLevel); err != nil {
		return NewError(fmt.Sprintf("unknown log_level %q", C.LogLevel), "Config.Validate", true)
	}
	return nil
}

//ReadConfig reads a TOML configuration from r. Fields absent in r keep
//their default values.
func ReadConfig(r io.Reader) (*Config, error) {
	C := DefaultConfig()
	if err := toml.NewDecoder(r).Decode(C); err != nil {
		return nil, ErrDecorate(err, "ReadConfig")
	}
	if err := C.Validate(); err != nil {
		return nil, ErrDecorate(err, "ReadConfig")
	}
	return C, nil
}

//ConfigFileRead reads a TOML configuration file.
func ConfigFileRead(name string) (*Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	C, err := ReadConfig(f)
	if err != nil {
		return nil, ErrDecorate(err, "ConfigFileRead "+name)
	}
	return C, nil
}

//WriteConfig writes C in TOML format to w.
func (C *Config) WriteConfig(w io.Writer) error {
	b, err := toml.Marshal(*C)
	if err != nil {
		return ErrDecorate(err, "WriteConfig")
	}
	_, err = w.Write(b)
	return err
}
