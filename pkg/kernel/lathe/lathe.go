// Package lathe implements kernel.Kernel by sweeping the profile through
// evenly spaced angular slices and stitching consecutive slices with quads.
// Triangle counts are exact: every consecutive profile pair contributes
// 2*detail side triangles and every cap contributes detail triangles.
package lathe

import (
	"fmt"
	"math"

	"github.com/chazu/solidviz/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Lathe)(nil)

// Lathe is the exact ring-mesh kernel.
type Lathe struct{}

// New returns a new Lathe kernel.
func New() *Lathe {
	return &Lathe{}
}

// Name returns "exact".
func (l *Lathe) Name() string { return "exact" }

// Revolve sweeps profile about +Y in detail slices. The slices share a seam,
// so the side surface has detail*len(profile) vertices. A profile with fewer
// than two points yields an empty mesh.
func (l *Lathe) Revolve(profile []v3.Vec, detail int, caps bool) (*kernel.Mesh, error) {
	if detail < kernel.MinDetail {
		return nil, fmt.Errorf("lathe: %w, got %d", kernel.ErrDetail, detail)
	}
	n := len(profile)
	if n < 2 {
		return &kernel.Mesh{}, nil
	}

	m := &kernel.Mesh{
		Vertices: make([]v3.Vec, 0, detail*n+2),
		Faces:    make([]kernel.Face, 0, 2*detail*(n-1)+2*detail),
	}

	for i := 0; i < detail; i++ {
		phi := 2 * math.Pi * float64(i) / float64(detail)
		sin, cos := math.Sincos(phi)
		for _, p := range profile {
			m.Vertices = append(m.Vertices, v3.Vec{X: p.X * sin, Y: p.Y, Z: p.X * cos})
		}
	}

	at := func(slice, j int) uint32 {
		return uint32((slice%detail)*n + j)
	}
	for i := 0; i < detail; i++ {
		for j := 0; j < n-1; j++ {
			a := at(i, j)
			b := at(i+1, j)
			c := at(i+1, j+1)
			d := at(i, j+1)
			m.Faces = append(m.Faces, kernel.Face{a, b, d}, kernel.Face{c, d, b})
		}
	}

	if caps {
		first, last := profile[0], profile[n-1]
		// Only a positive signed radius is capped. Each disc faces away
		// from the other end of the profile.
		if first.X > 0 {
			addCap(m, detail, 0, first.Y, first.Y >= last.Y, at)
		}
		if last.X > 0 {
			addCap(m, detail, n-1, last.Y, last.Y > first.Y, at)
		}
	}

	m.ComputeFaceNormals()
	return m, nil
}

// addCap closes profile row j with a fan of detail triangles around a new
// centre vertex on the axis at height y. The rim reuses the ring vertices so
// the cap is stitched to the side surface.
func addCap(m *kernel.Mesh, detail, j int, y float64, up bool, at func(slice, j int) uint32) {
	center := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, v3.Vec{Y: y})
	for i := 0; i < detail; i++ {
		a, b := at(i, j), at(i+1, j)
		if up {
			m.Faces = append(m.Faces, kernel.Face{center, a, b})
		} else {
			m.Faces = append(m.Faces, kernel.Face{center, b, a})
		}
	}
}
