// Package kernel defines the triangle mesh that every solid builder
// produces and the lathe kernel interface used by solids of revolution.
// Implementations (lathe, sdfx) sit behind the interface so the revolution
// builder can swap an exact ring mesh for a marching-cubes surface without
// changing the rest of the system.
package kernel

import (
	"errors"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MinDetail is the smallest angular segment count a lathe accepts.
const MinDetail = 3

// ErrDetail is returned by kernels asked for fewer than MinDetail segments.
var ErrDetail = errors.New("detail must be at least 3")

// Kernel revolves a canonical profile about the +Y axis.
//
// The profile lies in the XY plane: X is the signed radius and Y the height
// along the axis. Consecutive profile points are joined in order. When caps
// is set, each profile end whose signed radius X is strictly greater than
// zero is closed with a disc perpendicular to the axis. Caps test the sign,
// not the distance from the axis: an end with X < 0 stays open. For example
// y=x^2 revolved about y=0 maps every point to X <= 0 and gets no caps.
type Kernel interface {
	Name() string
	Revolve(profile []v3.Vec, detail int, caps bool) (*Mesh, error)
}
