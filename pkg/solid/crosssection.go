package solid

import (
	"math"

	"github.com/chazu/solidviz/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DiagonalSuffix is appended to the curve text to form the distance to the
// diagonal y = x. The append is textual, so "x^2" becomes "x^2-x".
const DiagonalSuffix = "-x"

// CrossSectionParams describes a solid of known cross-section. DrawCaps is
// carried for symmetry with RevolutionParams; the sweep is never closed.
type CrossSectionParams struct {
	Curve    string
	DrawCaps bool
}

// CrossSection is the result of BuildCrossSection.
type CrossSection struct {
	// Curve holds the sampled stations.
	Curve []v3.Vec
	// Diagonal holds the samples of the curve minus x. They are not placed
	// in the mesh.
	Diagonal []v3.Vec
	Mesh     *kernel.Mesh
}

// DiagonalText returns the difference equation for curve.
func DiagonalText(curve string) string {
	return curve + DiagonalSuffix
}

// BuildCrossSection sweeps an equilateral triangle along the sampled curve.
//
// Each station i contributes three vertices: the curve point P, its foot on
// the baseline (x, 0, 0) and the apex (x, y/2, y*sqrt(3)/2). Consecutive
// stations are joined by six faces: two on the base plane, two from the
// curve edge to the apex and two from the apex down to the baseline. k
// stations give 3k vertices and 6(k-1) faces.
func BuildCrossSection(p CrossSectionParams, w Window) (*CrossSection, error) {
	curve, err := parse("curve", p.Curve)
	if err != nil {
		return nil, err
	}
	diag, err := parse("diagonal", DiagonalText(p.Curve))
	if err != nil {
		return nil, err
	}

	pts, err := w.points(curve)
	if err != nil {
		return nil, err
	}
	dpts, err := w.points(diag)
	if err != nil {
		return nil, err
	}

	return &CrossSection{
		Curve:    pts,
		Diagonal: dpts,
		Mesh:     sweepTriangles(pts),
	}, nil
}

func sweepTriangles(pts []v3.Vec) *kernel.Mesh {
	k := len(pts)
	m := &kernel.Mesh{Vertices: make([]v3.Vec, 0, 3*k)}
	h := math.Sqrt(3) / 2
	for _, pt := range pts {
		m.Vertices = append(m.Vertices,
			pt,
			v3.Vec{X: pt.X},
			v3.Vec{X: pt.X, Y: pt.Y / 2, Z: h * pt.Y},
		)
	}

	if k >= 2 {
		m.Faces = make([]kernel.Face, 0, 6*(k-1))
	}
	for s := 0; s+1 < k; s++ {
		i := uint32(3 * s)
		m.Faces = append(m.Faces,
			// base
			kernel.Face{i + 0, i + 3, i + 1},
			kernel.Face{i + 1, i + 3, i + 4},
			// curve to apex
			kernel.Face{i + 0, i + 2, i + 3},
			kernel.Face{i + 2, i + 5, i + 3},
			// apex to baseline
			kernel.Face{i + 1, i + 4, i + 2},
			kernel.Face{i + 2, i + 4, i + 5},
		)
	}
	m.ComputeFaceNormals()
	return m
}
