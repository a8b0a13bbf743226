// Package solid builds triangulated solids from parsed curves: solids of
// revolution about an arbitrary straight axis, and solids of known
// equilateral-triangle cross-section. Builders are pure: each call samples,
// triangulates and returns a brand new mesh, or an error and no mesh.
package solid

import (
	"errors"
	"fmt"

	"github.com/chazu/solidviz/pkg/function"
	"github.com/chazu/solidviz/pkg/sample"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	// ErrNoSolid marks a build that produced nothing because an equation
	// could not be parsed. It is an expected condition while a user is
	// still typing.
	ErrNoSolid = errors.New("no solid")

	// ErrInvalidParameter marks a build rejected for a bad numeric input:
	// detail below 3, a non-positive step or degenerate bounds.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Window is the sampling window and step shared by every builder of a tool.
type Window struct {
	Bounds sample.Bounds
	Step   float64
}

// points samples f over the window. Sampler input errors are reported as
// ErrInvalidParameter.
func (w Window) points(f *function.Func) ([]v3.Vec, error) {
	pts, err := sample.Points(f, w.Bounds, w.Step)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	return pts, nil
}

// parse wraps function.Parse so every parse failure is an ErrNoSolid.
func parse(role, text string) (*function.Func, error) {
	f, err := function.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q: %w", ErrNoSolid, role, text, err)
	}
	return f, nil
}
