/*
 * interfaces.go, part of godefect.
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
	"errors"
	"fmt"
)

//Periodic is the basic interface for a crystal structure.
type Periodic interface {
	//Lattice returns the lattice of the structure
	Lattice() Lattice

	//Site returns the ith site. Should panic if
	//out of range.
	Site(i int) Site

	Len() int
}

//Errors

// DecoratedError is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type DecoratedError interface {
	Error() string
	Decorate(string) []string //Each call returns the decoration slice resulting from the current call. An empty string just returns the current value.
	Critical() bool
}

//Error is the general error type for the defect package. Copies of an Error share
//their decoration, so decorating a copy obtained with errors.As decorates the original.
type Error struct {
	message  string
	deco     *[]string
	critical bool
}

//NewError returns a new Error with the given message, decorated with the caller name.
func NewError(message, caller string, critical bool) Error {
	return Error{message: message, deco: &[]string{caller}, critical: critical}
}

func (err Error) Error() string { return "goDefect: " + err.message }

//Decorate adds new information to the error
func (err Error) Decorate(dec string) []string {
	if err.deco == nil {
		return nil
	}
	if dec != "" {
		*err.deco = append(*err.deco, dec)
	}
	return *err.deco
}

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

//ErrDecorate decorates err with the caller's name if err implements DecoratedError.
//Other errors are wrapped with the caller name instead.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var d DecoratedError
	if errors.As(err, &d) {
		d.Decorate(caller)
		return err
	}
	return fmt.Errorf("%s: %w", caller, err)
}

//ErrNoDefect is returned when a defect center is requested for two structures
//that show neither removed nor inserted atoms.
var ErrNoDefect = errors.New("goDefect: no removed or inserted atoms, the defect center is undefined")

//LatticeMismatchError is returned when the lattices of the structures that should
//share them (defect and perfect supercells) differ.
type LatticeMismatchError struct {
	A, B Lattice
}

func (err LatticeMismatchError) Error() string {
	return fmt.Sprintf("goDefect: lattices differ:\n%v\nvs\n%v", err.A, err.B)
}
