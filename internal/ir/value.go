// Package ir implements the three-address-code intermediate representation:
// values, instructions, basic blocks, functions and their control-flow
// graphs, the TAC text adapter, and the pretty printer.
package ir

import (
	"regexp"
	"strconv"
)

// Value is a tagged union of Const and Var.
type Value interface {
	isValue()
	String() string
}

// Const is a signed integer literal. Arithmetic on Const values during
// constant folding is evaluated at int64 (two's-complement 64-bit) width.
type Const struct {
	Val int64
}

func (Const) isValue() {}

func (c Const) String() string { return strconv.FormatInt(c.Val, 10) }

// Var is a named value: either a temporary (name matches tempPattern) or a
// named local.
type Var struct {
	Name string
}

func (Var) isValue() {}

func (v Var) String() string { return v.Name }

var tempPattern = regexp.MustCompile(`^t[0-9]+$`)

// IsTemp reports whether name denotes a compiler-generated temporary
// ("t" followed by one or more digits) rather than a named local.
func IsTemp(name string) bool {
	return tempPattern.MatchString(name)
}

// ValuesEqual reports structural equality of two Values, used by passes that
// need to compare operands (e.g. self-alias detection in copy propagation).
func ValuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case Const:
		bv, ok := b.(Const)
		return ok && av.Val == bv.Val
	case Var:
		bv, ok := b.(Var)
		return ok && av.Name == bv.Name
	default:
		return false
	}
}
