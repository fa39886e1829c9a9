/*
 * cpd.go, part of godefect.
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
	"fmt"
	"math"
	"strings"

	defect "github.com/rmera/godefect"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
	"gonum.org/v1/gonum/stat/combin"
)

const (
	feasibilityTol = 1e-6 //relative to the right hand side of each constraint
	sameVertexTol  = 1e-6 //eV
	maxCond        = 1e12 //systems worse conditioned than this are taken as singular
	redundancyTol  = 1e-9
)

//TargetUnstableError is returned when the target compound is not stable against
//its competing phases, so it has no region in the diagram.
type TargetUnstableError struct {
	Target string
}

func (err TargetUnstableError) Error() string {
	return fmt.Sprintf("goDefect/cpd: target %s is unstable, it has no region in the chemical potential diagram", err.Target)
}

//TargetVertex is one vertex of the region of the target compound in the chemical potential diagram.
type TargetVertex struct {
	ChemPot         map[string]float64 `yaml:"chem_pot" json:"chem_pot"` //relative chemical potentials of the host elements
	CompetingPhases []string           `yaml:"competing_phases" json:"competing_phases"`
	//Chemical potentials of the impurity elements in equilibrium with the target at this vertex,
	//and the phases that limit them.
	ImpurityChemPots map[string]float64 `yaml:"impurity_chem_pots,omitempty" json:"impurity_chem_pots,omitempty"`
	ImpurityPhases   map[string]string  `yaml:"impurity_phases,omitempty" json:"impurity_phases,omitempty"`
}

//ChemPotDiag is a chemical potential diagram: the region of relative chemical potentials of
//VertexElements in which each compound is stable.
type ChemPotDiag struct {
	VertexElements []string `json:"vertex_elements"`
	//vertices of the region of each stable composition. Coordinates at the lower bound
	//are replaced by 1.1 times the most negative other coordinate.
	Polygons       map[string][][]float64  `json:"polygons"`
	Target         string                  `json:"target,omitempty"`
	TargetVertices map[string]TargetVertex `json:"target_vertices,omitempty"`
	vertices       [][]float64
	largeMinus     float64
}

type halfSpace struct {
	a       []float64
	b       float64
	formula string //empty for the bounds
}

func (h halfSpace) eval(x []float64) float64 {
	return floats.Dot(h.a, x) - h.b
}

func dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

//NewChemPotDiag builds the chemical potential diagram of the given elements from the relative
//energies, in eV/atom, of their compounds. Compositions with other elements are used only
//to obtain impurity chemical potentials. If target is not empty, the vertices of its region are obtained.
//A TargetUnstableError is returned if the target has no region.
func NewChemPotDiag(rel RelativeEnergies, elements []string, target string, O *Options) (*ChemPotDiag, error) {
	if O == nil {
		O = DefaultOptions()
	}
	if len(elements) == 0 {
		return nil, defect.NewError("no elements given", "NewChemPotDiag", true)
	}
	for _, el := range elements {
		if !defect.IsElementSymbol(el) {
			return nil, defect.NewError(fmt.Sprintf("unknown element %q", el), "NewChemPotDiag", true)
		}
		if _, ok := findComposition(rel, el); !ok {
			return nil, MissingReferenceError{Element: el}
		}
	}
	D := &ChemPotDiag{VertexElements: slices.Clone(elements), largeMinus: O.largeMinus}
	host := rel.HostEnergies(elements)
	hs := halfSpaces(host, elements, O.largeMinus)
	center, radius, err := interiorPoint(hs, len(elements))
	if err != nil {
		return nil, defect.ErrDecorate(err, "NewChemPotDiag")
	}
	bounding := irredundant(hs, len(elements))
	D.vertices = vertices(bounding, len(elements))
	defect.Logger().Debug("chemical potential diagram",
		zap.Strings("elements", elements),
		zap.Int("compositions", len(host)),
		zap.Int("bounding_planes", len(bounding)),
		zap.Float64s("interior_point", center),
		zap.Float64("interior_radius", radius),
		zap.Int("vertices", len(D.vertices)))
	D.checkLowerBound()
	polygons := make(map[string][]int)
	for _, h := range hs {
		if h.formula == "" {
			continue
		}
		idx := make([]int, 0)
		for k, v := range D.vertices {
			if math.Abs(h.eval(v)) <= O.vertexTol {
				idx = append(idx, k)
			}
		}
		if len(idx) > 0 {
			polygons[h.formula] = idx
		}
	}
	D.Polygons = D.geometry(polygons)
	if target == "" {
		return D, nil
	}
	tf, ok := findComposition(host, target)
	if !ok {
		return nil, defect.NewError(fmt.Sprintf("target %s is not among the compositions of %v", target, elements), "NewChemPotDiag", true)
	}
	tidx, ok := polygons[tf]
	if !ok {
		return nil, TargetUnstableError{Target: target}
	}
	D.Target = tf
	D.TargetVertices = make(map[string]TargetVertex, len(tidx))
	impurities := impurityElements(rel, elements)
	for n, k := range tidx {
		v := D.vertices[k]
		tv := TargetVertex{ChemPot: make(map[string]float64, len(elements)), CompetingPhases: make([]string, 0)}
		for i, el := range elements {
			tv.ChemPot[el] = v[i]
		}
		for f, idx := range polygons {
			if f != tf && slices.Contains(idx, k) {
				tv.CompetingPhases = append(tv.CompetingPhases, f)
			}
		}
		slices.Sort(tv.CompetingPhases)
		if len(impurities) > 0 {
			tv.ImpurityChemPots = make(map[string]float64, len(impurities))
			tv.ImpurityPhases = make(map[string]string, len(impurities))
		}
		for _, imp := range impurities {
			mu, phase, err := impurityChemPot(rel, elements, imp, v)
			if err != nil {
				return nil, defect.ErrDecorate(err, "NewChemPotDiag")
			}
			tv.ImpurityChemPots[imp] = mu
			tv.ImpurityPhases[imp] = phase
		}
		D.TargetVertices[Label(n)] = tv
	}
	return D, nil
}

//halfSpaces returns one constraint per composition in host, followed by the upper (0)
//and lower (largeMinus) bounds for each element.
func halfSpaces(host RelativeEnergies, elements []string, largeMinus float64) []halfSpace {
	hs := make([]halfSpace, 0, len(host)+2*len(elements))
	for _, f := range host.Formulas() {
		comp := defect.MustParseComposition(f)
		hs = append(hs, halfSpace{a: comp.Fractions(elements), b: host[f], formula: f})
	}
	for i := range elements {
		up := make([]float64, len(elements))
		up[i] = 1
		down := make([]float64, len(elements))
		down[i] = -1
		hs = append(hs, halfSpace{a: up, b: 0}, halfSpace{a: down, b: -largeMinus})
	}
	return hs
}

//findComposition returns the formula in rel with the same composition as formula.
func findComposition(rel RelativeEnergies, formula string) (string, bool) {
	if _, ok := rel[formula]; ok {
		return formula, true
	}
	comp, err := defect.ParseComposition(formula)
	if err != nil {
		return "", false
	}
	for _, f := range rel.Formulas() {
		c, err := defect.ParseComposition(f)
		if err != nil {
			continue
		}
		if c.AlmostEqual(comp, 1e-8) {
			return f, true
		}
	}
	return "", false
}

//impurityElements returns the elements in rel that are not in host, sorted by atomic number.
func impurityElements(rel RelativeEnergies, host []string) []string {
	ret := make([]string, 0)
	for _, f := range rel.Formulas() {
		comp, err := defect.ParseComposition(f)
		if err != nil {
			continue
		}
		for _, el := range comp.Elements() {
			if !slices.Contains(host, el) && !slices.Contains(ret, el) {
				ret = append(ret, el)
			}
		}
	}
	sortElements(ret)
	return ret
}

//impurityChemPot returns the largest chemical potential of imp compatible with the host chemical potentials
//mu, and the phase that sets it. Only the compounds of imp with the host elements are considered.
func impurityChemPot(rel RelativeEnergies, host []string, imp string, mu []float64) (float64, string, error) {
	allowed := append(slices.Clone(host), imp)
	best := math.Inf(1)
	phase := ""
	for _, f := range rel.Formulas() {
		comp, err := defect.ParseComposition(f)
		if err != nil || !comp.SubsetOf(allowed) {
			continue
		}
		x := comp.AtomicFraction(imp)
		if x == 0 {
			continue
		}
		val := (rel[f] - dot(comp.Fractions(host), mu)) / x
		if val < best {
			best = val
			phase = f
		}
	}
	if phase == "" {
		return 0, "", MissingReferenceError{Element: imp}
	}
	return best, phase, nil
}

//interiorPoint returns the center and radius of the largest ball inside the polytope, obtained
//by linear programming. It returns an error if the polytope has no interior.
func interiorPoint(hs []halfSpace, dim int) ([]float64, float64, error) {
	//variables: the center and the radius. We maximize the radius.
	n := dim + 1
	c := make([]float64, n)
	c[dim] = -1
	G := mat.NewDense(len(hs)+1, n, nil)
	h := make([]float64, len(hs)+1)
	for k, s := range hs {
		for i, v := range s.a {
			G.Set(k, i, v)
		}
		G.Set(k, dim, floats.Norm(s.a, 2))
		h[k] = s.b
	}
	G.Set(len(hs), dim, -1) //radius >= 0
	cNew, aNew, bNew := lp.Convert(c, G, h, nil, nil)
	_, x, err := lp.Simplex(cNew, aNew, bNew, 0, nil)
	if err != nil {
		return nil, 0, defect.NewError("no interior point for the chemical potential region: "+err.Error(), "interiorPoint", true)
	}
	//Convert splits the free variables into positive and negative parts.
	center := make([]float64, dim)
	for i := range center {
		center[i] = x[i] - x[n+i]
	}
	radius := x[dim] - x[n+dim]
	if radius <= 0 {
		return nil, 0, defect.NewError("the chemical potential region has no interior", "interiorPoint", true)
	}
	return center, radius, nil
}

//irredundant returns the constraints in hs that are not implied by the others. Each one is
//dropped if the largest value of its left hand side, subject to the constraints still kept,
//does not exceed its right hand side. The polytope is the same, but its vertices can be
//enumerated over far fewer plane combinations, since compounds above the hull and
//repeated planes are gone.
func irredundant(hs []halfSpace, dim int) []halfSpace {
	kept := slices.Clone(hs)
	for k := 0; k < len(kept); {
		others := make([]halfSpace, 0, len(kept)-1)
		others = append(others, kept[:k]...)
		others = append(others, kept[k+1:]...)
		top, ok := maximize(others, kept[k].a, dim)
		if ok && top <= kept[k].b+redundancyTol*(1+math.Abs(kept[k].b)) {
			kept = others
			continue
		}
		k++
	}
	return kept
}

//maximize returns the largest value of a.x subject to hs. It returns false
//if the problem is unbounded or can't be solved.
func maximize(hs []halfSpace, a []float64, dim int) (float64, bool) {
	if len(hs) == 0 {
		return 0, false
	}
	c := make([]float64, dim)
	for i, v := range a {
		c[i] = -v
	}
	G := mat.NewDense(len(hs), dim, nil)
	h := make([]float64, len(hs))
	for k, s := range hs {
		G.SetRow(k, s.a)
		h[k] = s.b
	}
	cNew, aNew, bNew := lp.Convert(c, G, h, nil, nil)
	opt, _, err := lp.Simplex(cNew, aNew, bNew, 0, nil)
	if err != nil {
		return 0, false
	}
	return -opt, true
}

//vertices returns the vertices of the polytope given by hs, obtained as the feasible
//intersections of every dim planes.
func vertices(hs []halfSpace, dim int) [][]float64 {
	ret := make([][]float64, 0)
	A := mat.NewDense(dim, dim, nil)
	b := mat.NewVecDense(dim, nil)
	var lu mat.LU
	var x mat.VecDense
	idx := make([]int, dim)
	gen := combin.NewCombinationGenerator(len(hs), dim)
	for gen.Next() {
		gen.Combination(idx)
		for r, k := range idx {
			A.SetRow(r, hs[k].a)
			b.SetVec(r, hs[k].b)
		}
		lu.Factorize(A)
		if lu.Cond() > maxCond {
			continue
		}
		if err := lu.SolveVecTo(&x, false, b); err != nil {
			continue
		}
		v := make([]float64, dim)
		for i := range v {
			v[i] = x.AtVec(i)
		}
		if !feasible(hs, v) || contains(ret, v) {
			continue
		}
		ret = append(ret, v)
	}
	return ret
}

func feasible(hs []halfSpace, v []float64) bool {
	for _, h := range hs {
		if h.eval(v) > feasibilityTol*(1+math.Abs(h.b)) {
			return false
		}
	}
	return true
}

func contains(vs [][]float64, v []float64) bool {
	for _, w := range vs {
		if floats.EqualApprox(w, v, sameVertexTol) {
			return true
		}
	}
	return false
}

func (D *ChemPotDiag) atLowerBound(c float64) bool {
	return math.Abs(c-D.largeMinus) <= sameVertexTol*(1+math.Abs(D.largeMinus))
}

//checkLowerBound warns if some vertex, not on the lower bound, gets close to it, in which
//case the bound may be cutting the real region.
func (D *ChemPotDiag) checkLowerBound() {
	for _, v := range D.vertices {
		for i, c := range v {
			if !D.atLowerBound(c) && c < D.largeMinus/10 {
				defect.Logger().Warn("chemical potential close to the lower bound, consider a more negative bound",
					zap.String("element", D.VertexElements[i]),
					zap.Float64("chem_pot", c),
					zap.Float64("lower_bound", D.largeMinus))
			}
		}
	}
}

//geometry returns the vertex coordinates of each polygon, with the coordinates on the lower bound
//replaced by 1.1 times the most negative coordinate not on it.
func (D *ChemPotDiag) geometry(polygons map[string][]int) map[string][][]float64 {
	minimum := 0.0
	for _, v := range D.vertices {
		for _, c := range v {
			if !D.atLowerBound(c) {
				minimum = math.Min(minimum, c)
			}
		}
	}
	repl := D.largeMinus
	if minimum < 0 {
		repl = 1.1 * minimum
	}
	ret := make(map[string][][]float64, len(polygons))
	for f, idx := range polygons {
		vs := make([][]float64, 0, len(idx))
		for _, k := range idx {
			v := slices.Clone(D.vertices[k])
			for i, c := range v {
				if D.atLowerBound(c) {
					v[i] = repl
				}
			}
			vs = append(vs, v)
		}
		ret[f] = vs
	}
	return ret
}

//Label returns the label of the ith vertex: A, B, ..., Z, AA, AB, ...
func Label(i int) string {
	var b []byte
	for n := i; n >= 0; n = n/26 - 1 {
		b = append(b, byte('A'+n%26))
	}
	slices.Reverse(b)
	return string(b)
}

//Labels returns the labels of the target vertices, in order.
func (D *ChemPotDiag) Labels() []string {
	ret := make([]string, 0, len(D.TargetVertices))
	for l := range D.TargetVertices {
		ret = append(ret, l)
	}
	slices.SortFunc(ret, func(a, b string) int {
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return strings.Compare(a, b)
	})
	return ret
}

//Vertices returns the vertices of the diagram, without the replacements done in Polygons.
func (D *ChemPotDiag) Vertices() [][]float64 {
	ret := make([][]float64, len(D.vertices))
	for i, v := range D.vertices {
		ret[i] = slices.Clone(v)
	}
	return ret
}

//Range returns the lowest and highest relative chemical potential of the element el among
//the vertices not on the lower bound.
func (D *ChemPotDiag) Range(el string) (float64, float64, error) {
	i := slices.Index(D.VertexElements, el)
	if i < 0 {
		return 0, 0, defect.NewError(fmt.Sprintf("element %s not in the diagram", el), "ChemPotDiag.Range", true)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range D.vertices {
		if D.atLowerBound(v[i]) {
			continue
		}
		lo = math.Min(lo, v[i])
		hi = math.Max(hi, v[i])
	}
	return lo, hi, nil
}

//AbsChemPot returns the absolute chemical potentials at the target vertex with the given label,
//for both host and impurity elements, adding the standard energies std.
func (D *ChemPotDiag) AbsChemPot(label string, std StandardEnergies) (map[string]float64, error) {
	tv, ok := D.TargetVertices[label]
	if !ok {
		return nil, defect.NewError(fmt.Sprintf("no target vertex %s", label), "ChemPotDiag.AbsChemPot", true)
	}
	ret := make(map[string]float64, len(tv.ChemPot)+len(tv.ImpurityChemPots))
	for _, m := range []map[string]float64{tv.ChemPot, tv.ImpurityChemPots} {
		for el, mu := range m {
			ref, ok := std[el]
			if !ok {
				return nil, MissingReferenceError{Element: el}
			}
			ret[el] = mu + ref
		}
	}
	return ret, nil
}
