package solid

import (
	"math"

	"github.com/chazu/solidviz/pkg/function"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Axis places an arbitrary straight rotation axis onto the lathe's canonical
// +Y axis.
type Axis struct {
	// Angle is the rotation about +Z, in radians, applied after the pivot
	// translation.
	Angle float64
	// Pivot is the translation that moves the axis intercept to the origin.
	Pivot v3.Vec
}

// ResolveAxis derives the rotation angle and pivot for an axis function.
//
// The slope is the secant axis(1) - axis(0). That is exact for a linear
// axis; for any other function the secant line between 0 and 1 is used as
// the axis instead. For an axis solved for x (x = m*y + c) the angle is
// atan(m) and the pivot (-c, 0, 0); for an axis solved for y the angle is
// pi/2 - atan(m) and the pivot (0, -c, 0).
func ResolveAxis(axis *function.Func) Axis {
	c := axis.Eval(0)
	slope := axis.Eval(1) - c
	if axis.Dependent == function.AxisX {
		return Axis{Angle: math.Atan(slope), Pivot: v3.Vec{X: -c}}
	}
	return Axis{Angle: math.Pi/2 - math.Atan(slope), Pivot: v3.Vec{Y: -c}}
}

// Valid reports whether the angle and pivot are finite. An axis function
// that is undefined at 0 or 1 cannot be resolved.
func (a Axis) Valid() bool {
	return function.Finite(a.Angle) && function.Finite(a.Pivot.X) && function.Finite(a.Pivot.Y)
}

// Forward maps the curve plane into lathe space: translate by the pivot,
// then rotate by Angle about +Z.
func (a Axis) Forward() sdf.M44 {
	return sdf.RotateZ(a.Angle).Mul(sdf.Translate3d(a.Pivot))
}

// Inverse undoes Forward: rotate by -Angle about +Z, then translate by
// -Pivot.
func (a Axis) Inverse() sdf.M44 {
	return sdf.Translate3d(a.Pivot.MulScalar(-1)).Mul(sdf.RotateZ(-a.Angle))
}

// Apply maps every point through m and returns the new slice.
func Apply(m sdf.M44, points []v3.Vec) []v3.Vec {
	out := make([]v3.Vec, len(points))
	for i, p := range points {
		out[i] = m.MulPosition(p)
	}
	return out
}
