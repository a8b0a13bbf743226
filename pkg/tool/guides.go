package tool

import (
	"math"

	"github.com/chazu/solidviz/pkg/function"
	"github.com/chazu/solidviz/pkg/kernel"
	"github.com/chazu/solidviz/pkg/sample"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MinGridSize is the smallest grid drawn behind the curve plane.
const MinGridSize = 30

// Guides is the 2D reference geometry drawn with a tool: the curve and
// axis polylines, the translucent bound plane and the grid extent.
type Guides struct {
	Curve    []v3.Vec     `json:"curve"`
	Axis     []v3.Vec     `json:"axis,omitempty"`
	Bounds   *kernel.Mesh `json:"bounds"`
	GridSize float64      `json:"gridSize"`
}

// BuildGuides computes the guides for s. A curve or axis that does not
// parse is simply left out. The axis line is not clipped to the tool
// bounds; it uses sample.Fallback.
func BuildGuides(s State) Guides {
	g := Guides{
		Curve:    Polyline(s.Curve, s.Bounds, s.Step),
		Bounds:   BoundPlane(s.Bounds),
		GridSize: GridSize(s.Bounds),
	}
	if s.Kind == KindRevolution {
		g.Axis = Polyline(s.Axis, sample.Fallback, s.Step)
	}
	return g
}

// Polyline samples text over b, or returns nil if it cannot.
func Polyline(text string, b sample.Bounds, step float64) []v3.Vec {
	f, err := function.Parse(text)
	if err != nil {
		return nil
	}
	pts, err := sample.Points(f, b, step)
	if err != nil {
		return nil
	}
	return pts
}

// BoundPlane is a two-triangle rectangle covering b at z = 0.
func BoundPlane(b sample.Bounds) *kernel.Mesh {
	m := &kernel.Mesh{
		Vertices: []v3.Vec{
			{X: b.Left, Y: b.Bottom},
			{X: b.Right, Y: b.Bottom},
			{X: b.Right, Y: b.Top},
			{X: b.Left, Y: b.Top},
		},
		Faces:    []kernel.Face{{0, 1, 2}, {0, 2, 3}},
		Color:    "#ffff00",
		PartName: "bounds",
	}
	m.ComputeFaceNormals()
	return m
}

// GridSize is twice the largest distance from the origin to any bound
// edge, and never less than 2*MinGridSize.
func GridSize(b sample.Bounds) float64 {
	return 2 * math.Max(math.Max(MinGridSize, b.Right), math.Max(math.Max(-b.Left, b.Top), -b.Bottom))
}
