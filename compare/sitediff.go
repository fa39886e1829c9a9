/*
 * sitediff.go, part of godefect.
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
	"fmt"
	"strings"
)

//SiteEntry is one atom that differs between the perfect and defect structures.
//Index refers to the perfect structure for removed atoms, and to the defect structure
//for inserted ones.
type SiteEntry struct {
	Index   int        `json:"index"`
	Species string     `json:"species"`
	Frac    [3]float64 `json:"frac_coords"`
}

//SiteDiff partitions the atoms that differ between the perfect and defect
//structures.
type SiteDiff struct {
	Removed       []SiteEntry `json:"removed"`
	Inserted      []SiteEntry `json:"inserted"`
	RemovedBySub  []SiteEntry `json:"removed_by_sub"`
	InsertedBySub []SiteEntry `json:"inserted_by_sub"`
}

//IsVacancy returns true if exactly one atom was removed and nothing else changed.
func (S *SiteDiff) IsVacancy() bool {
	return len(S.Removed) == 1 && len(S.Inserted) == 0 && len(S.RemovedBySub) == 0
}

//IsInterstitial returns true if exactly one atom was inserted and nothing else changed.
func (S *SiteDiff) IsInterstitial() bool {
	return len(S.Inserted) == 1 && len(S.Removed) == 0 && len(S.RemovedBySub) == 0
}

//IsSubstitution returns true if there is exactly one substitution pair and nothing else.
func (S *SiteDiff) IsSubstitution() bool {
	return len(S.RemovedBySub) == 1 && len(S.Removed) == 0 && len(S.Inserted) == 0
}

//IsComplex returns true for defects that are none of the simple kinds, but are still defects.
func (S *SiteDiff) IsComplex() bool {
	n := len(S.Removed) + len(S.Inserted) + len(S.RemovedBySub)
	return n > 0 && !S.IsVacancy() && !S.IsInterstitial() && !S.IsSubstitution()
}

//String returns a short description such as "Va_O1" or "Mg_Al3". Atoms are counted from 1.
func (S *SiteDiff) String() string {
	parts := make([]string, 0, len(S.Removed)+len(S.Inserted)+len(S.RemovedBySub))
	for _, r := range S.Removed {
		parts = append(parts, fmt.Sprintf("Va_%s%d", r.Species, r.Index+1))
	}
	for i, r := range S.RemovedBySub {
		parts = append(parts, fmt.Sprintf("%s_%s%d", S.InsertedBySub[i].Species, r.Species, r.Index+1))
	}
	for _, in := range S.Inserted {
		parts = append(parts, fmt.Sprintf("%s_i%d", in.Species, in.Index+1))
	}
	if len(parts) == 0 {
		return "perfect"
	}
	return strings.Join(parts, "+")
}
