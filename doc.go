/*
 * doc.go, part of godefect.
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

/*Package defect is the main package of the goDefect library. It provides the crystal structure,
composition and dielectric data types shared by the analysis packages, and the facilities
(configuration, logging, errors, persistence) they all use.


	**goDefect Capabilities**

    Matches the atoms of a defective supercell to those of the perfect supercell, classifying
	the vacancies, interstitials and substitutions, and locating the defect center (package compare).

    Evaluates lattice energies and site potentials of a Gaussian-smeared point charge in an
	anisotropic dielectric medium through Ewald summation (package ewald).

    Builds the extended FNV finite-size correction for charged defects and its GKFO
	extension for transitions between charge states (package correction).

    Builds chemical potential diagrams by half-space intersection, and obtains the
	equilibrium points of a target compound with their competing phases and the chemical
	potentials of impurity elements (package cpd).

The calculations themselves are pure functions of their inputs. Reading VASP outputs is
left to the caller, who fills the CalcResults and Structure types.

Coordinates are kept as fractional coordinates in the Structure type. Cartesian coordinates
are given as v3.Matrix objects, where each row represents one point in space.
*/
package defect
