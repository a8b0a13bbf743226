package solid

import (
	"fmt"

	"github.com/chazu/solidviz/pkg/function"
	"github.com/chazu/solidviz/pkg/kernel"
)

// RevolutionParams describes a solid of revolution.
type RevolutionParams struct {
	Curve    *function.Func
	Axis     *function.Func
	Detail   int
	DrawCaps bool
}

// ParseRevolution parses curve and axis text into RevolutionParams.
func ParseRevolution(curve, axis string, detail int, caps bool) (RevolutionParams, error) {
	c, err := parse("curve", curve)
	if err != nil {
		return RevolutionParams{}, err
	}
	a, err := parse("axis", axis)
	if err != nil {
		return RevolutionParams{}, err
	}
	return RevolutionParams{Curve: c, Axis: a, Detail: detail, DrawCaps: caps}, nil
}

// BuildRevolution lathes the sampled curve about the axis line.
//
// The profile is moved into lathe space with the resolved axis transform,
// revolved by k about +Y and the assembled mesh, caps included, is moved
// back with the inverse transform. A curve with no surviving samples gives
// an empty mesh and no error.
func BuildRevolution(p RevolutionParams, w Window, k kernel.Kernel) (*kernel.Mesh, error) {
	if p.Curve == nil || p.Axis == nil {
		return nil, fmt.Errorf("%w: missing curve or axis", ErrNoSolid)
	}
	if p.Detail < kernel.MinDetail {
		return nil, fmt.Errorf("%w: detail must be at least %d, got %d", ErrInvalidParameter, kernel.MinDetail, p.Detail)
	}

	pts, err := w.points(p.Curve)
	if err != nil {
		return nil, err
	}

	axis := ResolveAxis(p.Axis)
	if !axis.Valid() {
		return nil, fmt.Errorf("%w: axis %q is undefined at 0 or 1", ErrNoSolid, p.Axis.Text)
	}

	profile := Apply(axis.Forward(), pts)
	m, err := k.Revolve(profile, p.Detail, p.DrawCaps)
	if err != nil {
		return nil, fmt.Errorf("revolve with %s kernel: %w", k.Name(), err)
	}
	return m.Transform(axis.Inverse()), nil
}

// Revolution parses and builds in one step.
func Revolution(curve, axis string, detail int, caps bool, w Window, k kernel.Kernel) (*kernel.Mesh, error) {
	p, err := ParseRevolution(curve, axis, detail, caps)
	if err != nil {
		return nil, err
	}
	return BuildRevolution(p, w, k)
}
