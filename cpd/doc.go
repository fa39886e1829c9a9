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

//Package cpd builds chemical potential diagrams. The relative chemical potentials of the host
//elements are bounded, for each compound, by its formation energy per atom, and from above by zero.
//The vertices of the resulting convex region are obtained by intersecting the bounding planes, and
//grouped by the compounds whose planes contain them.
//
//For a target compound, the vertices of its face are the points of equilibrium with the competing
//phases, which are the ones used to get defect formation energies. The chemical potentials of
//impurity elements at each of those points are the largest that do not lead to the precipitation
//of another compound.
//
//Before enumerating vertices, the constraints implied by the others (compounds above the hull,
//elements repeating the upper bounds) are dropped with one linear program each. The enumeration
//still tries every subset of as many bounding planes as there are elements, so its cost grows
//as C(m, n) for m bounding planes and n elements. Quinary systems with tens of stable compounds
//can take seconds.
//
//Energies are read and written as YAML.
package cpd
