// Package function turns the text of a single-variable curve equation such
// as "y = x^2" or "x = sin(y)" into an evaluable function of one real
// argument. The dependent axis is inferred from the text; a bare expression
// like "x^2" is read as "y = x^2".
package function

import (
	"errors"
	"fmt"
	"math"
)

// Axis names one of the two coordinate axes of the curve plane.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Other returns the opposite axis.
func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

// ErrNoFunction is returned when the text names no axis letter at all, so
// there is nothing to draw.
var ErrNoFunction = errors.New("no function")

// Func is a parsed curve equation. It is immutable and safe for concurrent use.
type Func struct {
	// Dependent is the solved-for axis: "x = ..." is AxisX, evaluated over y.
	Dependent Axis
	// Text is the full input text.
	Text string
	// Expr is the expression part that was compiled.
	Expr string

	prog *program
}

// Independent returns the free axis the function is evaluated over.
func (f *Func) Independent() Axis {
	return f.Dependent.Other()
}

// Eval evaluates the function at t. The result may be NaN or infinite for
// inputs outside the function's domain; callers must check.
func (f *Func) Eval(t float64) float64 {
	return f.prog.eval(t)
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (f *Func) String() string {
	return fmt.Sprintf("%s = %s", f.Dependent, f.Expr)
}

// Parse builds a Func from equation text.
//
// The text is scanned left to right and the last 'x' or 'y' seen before an
// '=' becomes the dependent axis; the expression is everything after the
// '='. Without an '=', the opposite of the last letter seen becomes the
// dependent axis and the whole text is the expression. Text without any
// axis letter yields ErrNoFunction; a malformed expression yields a
// *SyntaxError.
func Parse(text string) (*Func, error) {
	var (
		letter byte
		start  = -1
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == 'x' || c == 'y' {
			letter = c
		}
		if c == '=' {
			start = i + 1
			break
		}
	}
	if letter == 0 {
		return nil, ErrNoFunction
	}

	dep := axisOf(letter)
	expr := text
	if start >= 0 {
		expr = text[start:]
	} else {
		dep = dep.Other()
	}

	fn, err := compile(expr, dep.Other().String())
	if err != nil {
		return nil, err
	}
	return &Func{
		Dependent: dep,
		Text:      text,
		Expr:      expr,
		prog:      fn,
	}, nil
}

// MustParse is like Parse but panics on error. It is intended for tests and
// package-level defaults.
func MustParse(text string) *Func {
	f, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("function: Parse(%q): %v", text, err))
	}
	return f
}

func axisOf(c byte) Axis {
	if c == 'x' {
		return AxisX
	}
	return AxisY
}
