// Package sample walks a parsed curve over a bounded window at a fixed step
// and produces the ordered point sequence the solid builders consume.
package sample

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/solidviz/pkg/function"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	ErrInvalidBounds = errors.New("invalid bounds")
	ErrInvalidStep   = errors.New("invalid step")
)

// Bounds is the rectangular sampling window in the curve plane.
type Bounds struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Fallback is the oversized window used where bounds are not enforced,
// such as the axis guide line of a revolution.
var Fallback = Bounds{Left: -500, Right: 500, Top: 500, Bottom: -500}

// Validate checks Left < Right and Bottom < Top.
func (b Bounds) Validate() error {
	if !(b.Left < b.Right) {
		return fmt.Errorf("%w: left %v must be less than right %v", ErrInvalidBounds, b.Left, b.Right)
	}
	if !(b.Bottom < b.Top) {
		return fmt.Errorf("%w: bottom %v must be less than top %v", ErrInvalidBounds, b.Bottom, b.Top)
	}
	return nil
}

// Width returns Right - Left.
func (b Bounds) Width() float64 { return b.Right - b.Left }

// Height returns Top - Bottom.
func (b Bounds) Height() float64 { return b.Top - b.Bottom }

// Center returns the midpoint of the window.
func (b Bounds) Center() v3.Vec {
	return v3.Vec{X: (b.Left + b.Right) / 2, Y: (b.Top + b.Bottom) / 2}
}

// Contains reports whether p lies inside the window, edges included.
func (b Bounds) Contains(p v3.Vec) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Bottom && p.Y <= b.Top
}

// Range returns the closed interval the window spans along axis a.
func (b Bounds) Range(a function.Axis) (lo, hi float64) {
	if a == function.AxisX {
		return b.Left, b.Right
	}
	return b.Bottom, b.Top
}

// Points samples f over b at the given step.
//
// The independent axis is walked from its lower bound to its upper bound
// inclusive by repeated addition of step, so the last sample may land just
// short of the upper bound through round-off. Samples whose value is not
// finite or falls outside the dependent-axis range are dropped; no point is
// interpolated across the resulting gap. All points have Z == 0. A step too
// small to advance the accumulator at this magnitude ends the walk.
func Points(f *function.Func, b Bounds, step float64) ([]v3.Vec, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if !(step > 0) || !function.Finite(step) {
		return nil, fmt.Errorf("%w: step must be positive, got %v", ErrInvalidStep, step)
	}

	lo, hi := b.Range(f.Independent())
	vlo, vhi := b.Range(f.Dependent)

	var points []v3.Vec
	for t := lo; t <= hi && t+step != t; t += step {
		v := f.Eval(t)
		if !function.Finite(v) || v < vlo || v > vhi {
			continue
		}
		if f.Dependent == function.AxisY {
			points = append(points, v3.Vec{X: t, Y: v})
		} else {
			points = append(points, v3.Vec{X: v, Y: t})
		}
	}
	return points, nil
}

// Count returns the number of domain steps Points will evaluate for f over
// b, before any filtering. It is computed in closed form, so it is cheap
// even for a step far too small to sample.
func Count(f *function.Func, b Bounds, step float64) int {
	if b.Validate() != nil || !(step > 0) || !function.Finite(step) {
		return 0
	}
	lo, hi := b.Range(f.Independent())
	if lo+step == lo {
		return 1
	}
	n := math.Floor((hi-lo)/step) + 1
	if n >= math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}
