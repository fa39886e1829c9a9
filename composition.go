/*
 * composition.go, part of godefect.
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
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
)

const compositionTol = 1e-8

//Composition maps elements to amounts. The order in which the elements were
//first added is kept, and used when writing formulas.
type Composition struct {
	order   []string
	amounts map[string]float64
}

//NewComposition returns an empty composition.
func NewComposition() *Composition {
	return &Composition{amounts: make(map[string]float64)}
}

//ParseComposition parses a chemical formula such as "MgO", "Mg2SiO4", "Ca(OH)2" or "Li0.5CoO2".
func ParseComposition(formula string) (*Composition, error) {
	formula = strings.TrimSpace(formula)
	if formula == "" {
		return nil, NewError("empty formula", "ParseComposition", true)
	}
	C := NewComposition()
	p := &formulaParser{s: []rune(formula)}
	if err := p.group(C, 1, false); err != nil {
		return nil, ErrDecorate(err, "ParseComposition "+formula)
	}
	if C.NumAtoms() <= 0 {
		return nil, NewError(fmt.Sprintf("formula %q has no atoms", formula), "ParseComposition", true)
	}
	return C, nil
}

//MustParseComposition is like ParseComposition but panics on error.
func MustParseComposition(formula string) *Composition {
	C, err := ParseComposition(formula)
	if err != nil {
		panic(err.Error())
	}
	return C
}

type formulaParser struct {
	s   []rune
	pos int
}

//group parses elements and parenthesized groups, adding them to C multiplied
//by mult, until the end of the string, or a closing parenthesis if inner is true.
func (p *formulaParser) group(C *Composition, mult float64, inner bool) error {
	for p.pos < len(p.s) {
		r := p.s[p.pos]
		switch {
		case r == '(':
			p.pos++
			sub := NewComposition()
			if err := p.group(sub, 1, true); err != nil {
				return err
			}
			n, err := p.number()
			if err != nil {
				return err
			}
			for _, el := range sub.order {
				C.Add(el, sub.amounts[el]*n*mult)
			}
		case r == ')':
			if !inner {
				return NewError(fmt.Sprintf("unbalanced parenthesis at position %d", p.pos), "formulaParser.group", true)
			}
			p.pos++
			return nil
		case unicode.IsUpper(r):
			start := p.pos
			p.pos++
			for p.pos < len(p.s) && unicode.IsLower(p.s[p.pos]) {
				p.pos++
			}
			el := string(p.s[start:p.pos])
			if !IsElementSymbol(el) {
				return NewError(fmt.Sprintf("unknown element %q", el), "formulaParser.group", true)
			}
			n, err := p.number()
			if err != nil {
				return err
			}
			C.Add(el, n*mult)
		default:
			return NewError(fmt.Sprintf("unexpected character %q at position %d", r, p.pos), "formulaParser.group", true)
		}
	}
	if inner {
		return NewError("unclosed parenthesis", "formulaParser.group", true)
	}
	return nil
}

//number parses an optional amount. A missing amount means 1.
func (p *formulaParser) number() (float64, error) {
	start := p.pos
	for p.pos < len(p.s) && (unicode.IsDigit(p.s[p.pos]) || p.s[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 1, nil
	}
	return strconv.ParseFloat(string(p.s[start:p.pos]), 64)
}

//Add adds n atoms of element el to the composition.
func (C *Composition) Add(el string, n float64) {
	if _, ok := C.amounts[el]; !ok {
		C.order = append(C.order, el)
	}
	C.amounts[el] += n
}

//Copy returns a copy of the composition
func (C *Composition) Copy() *Composition {
	ret := NewComposition()
	for _, el := range C.order {
		ret.Add(el, C.amounts[el])
	}
	return ret
}

//Elements returns the elements in the composition, in the order they were added.
func (C *Composition) Elements() []string {
	ret := make([]string, 0, len(C.order))
	for _, el := range C.order {
		if C.amounts[el] > compositionTol {
			ret = append(ret, el)
		}
	}
	return ret
}

//Amount returns the amount of el in the composition (0 if absent).
func (C *Composition) Amount(el string) float64 {
	return C.amounts[el]
}

//NumAtoms returns the total number of atoms.
func (C *Composition) NumAtoms() float64 {
	v := make([]float64, 0, len(C.amounts))
	for _, a := range C.amounts {
		v = append(v, a)
	}
	return floats.Sum(v)
}

//AtomicFraction returns the fraction of the atoms that are el.
func (C *Composition) AtomicFraction(el string) float64 {
	n := C.NumAtoms()
	if n == 0 {
		return 0
	}
	return C.amounts[el] / n
}

//Fractions returns the atomic fractions of the given elements, in the same order.
func (C *Composition) Fractions(elements []string) []float64 {
	ret := make([]float64, len(elements))
	for i, el := range elements {
		ret[i] = C.AtomicFraction(el)
	}
	return ret
}

//IsElement returns true if the composition contains only one element.
func (C *Composition) IsElement() bool {
	return len(C.Elements()) == 1
}

//SubsetOf returns true if all the elements of the composition are in elements.
func (C *Composition) SubsetOf(elements []string) bool {
	for _, el := range C.Elements() {
		if !slices.Contains(elements, el) {
			return false
		}
	}
	return true
}

//Reduced returns the composition divided by the greatest common divisor of its amounts,
//if they are all integers, or normalized to one atom otherwise.
func (C *Composition) Reduced() *Composition {
	els := C.Elements()
	div := 0
	for _, el := range els {
		a := C.amounts[el]
		if math.Abs(a-math.Round(a)) > compositionTol {
			div = 0
			break
		}
		div = gcd(div, int(math.Round(a)))
	}
	factor := float64(div)
	if div == 0 {
		factor = C.NumAtoms()
	}
	ret := NewComposition()
	for _, el := range els {
		ret.Add(el, C.amounts[el]/factor)
	}
	return ret
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

//Formula returns a formula string for the composition, with the elements in the order
//they were added and amounts of 1 omitted.
func (C *Composition) Formula() string {
	var b strings.Builder
	for _, el := range C.Elements() {
		b.WriteString(el)
		a := C.amounts[el]
		if math.Abs(a-1) < compositionTol {
			continue
		}
		if math.Abs(a-math.Round(a)) < compositionTol {
			b.WriteString(strconv.Itoa(int(math.Round(a))))
			continue
		}
		b.WriteString(strconv.FormatFloat(a, 'g', -1, 64))
	}
	return b.String()
}

//ReducedFormula returns the formula of the reduced composition.
func (C *Composition) ReducedFormula() string {
	return C.Reduced().Formula()
}

func (C *Composition) String() string {
	return C.Formula()
}

//AlmostEqual returns true if C and O have the same atomic fractions, within tol.
//Compositions that differ only by a factor are therefore equal.
func (C *Composition) AlmostEqual(O *Composition, tol float64) bool {
	els := C.Elements()
	for _, el := range O.Elements() {
		if !slices.Contains(els, el) {
			els = append(els, el)
		}
	}
	return floats.EqualApprox(C.Fractions(els), O.Fractions(els), tol)
}
