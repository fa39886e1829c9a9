/*
 * io.go, part of godefect.
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

package cpd

import (
	"encoding/json"
	"io"

	defect "github.com/rmera/godefect"
	"gopkg.in/yaml.v3"
)

type jsonChemPotDiag struct {
	VertexElements   []string                `json:"vertex_elements"`
	Vertices         [][]float64             `json:"vertices"`
	LargeMinusNumber float64                 `json:"large_minus_number"`
	Polygons         map[string][][]float64  `json:"polygons"`
	Target           string                  `json:"target,omitempty"`
	TargetVertices   map[string]TargetVertex `json:"target_vertices,omitempty"`
}

//MarshalJSON encodes the diagram, including the raw vertices.
func (D *ChemPotDiag) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonChemPotDiag{
		VertexElements:   D.VertexElements,
		Vertices:         D.vertices,
		LargeMinusNumber: D.largeMinus,
		Polygons:         D.Polygons,
		Target:           D.Target,
		TargetVertices:   D.TargetVertices,
	})
}

//UnmarshalJSON decodes a diagram.
func (D *ChemPotDiag) UnmarshalJSON(b []byte) error {
	var j jsonChemPotDiag
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	*D = ChemPotDiag{
		VertexElements: j.VertexElements,
		Polygons:       j.Polygons,
		Target:         j.Target,
		TargetVertices: j.TargetVertices,
		vertices:       j.Vertices,
		largeMinus:     j.LargeMinusNumber,
	}
	return nil
}

//TargetVertexList is the YAML form of the target vertices of a diagram.
type TargetVertexList struct {
	Target   string                  `yaml:"target"`
	Vertices map[string]TargetVertex `yaml:"vertices"`
}

//WriteTargetVertices writes the target and its vertices to w, in YAML.
func (D *ChemPotDiag) WriteTargetVertices(w io.Writer) error {
	if D.Target == "" {
		return defect.NewError("the diagram has no target", "ChemPotDiag.WriteTargetVertices", true)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(TargetVertexList{Target: D.Target, Vertices: D.TargetVertices}); err != nil {
		return defect.ErrDecorate(err, "ChemPotDiag.WriteTargetVertices")
	}
	return enc.Close()
}

//ReadTargetVertices reads a YAML list of target vertices, as written by WriteTargetVertices.
func ReadTargetVertices(r io.Reader) (*TargetVertexList, error) {
	ret := new(TargetVertexList)
	if err := yaml.NewDecoder(r).Decode(ret); err != nil {
		return nil, defect.ErrDecorate(err, "ReadTargetVertices")
	}
	return ret, nil
}
