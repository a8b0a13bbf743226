// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. The profile is closed
// against the axis, revolved as a signed distance field and meshed with
// marching cubes, so the result is always a closed surface.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/solidviz/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution along the
// longest side of the bounding box.
const defaultMeshCells = 64

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a new SdfxKernel with the default resolution.
func New() *SdfxKernel {
	return &SdfxKernel{cells: defaultMeshCells}
}

// NewWithCells returns an SdfxKernel meshing at the given resolution.
func NewWithCells(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// Name returns "sdf".
func (k *SdfxKernel) Name() string { return "sdf" }

// Revolve builds the solid swept by profile about +Y.
//
// The detail parameter is validated but otherwise ignored since the SDF
// represents a smooth surface, and caps cannot be turned off: the region
// between the profile and the axis is always filled. Radii are taken as
// absolute values.
func (k *SdfxKernel) Revolve(profile []v3.Vec, detail int, caps bool) (*kernel.Mesh, error) {
	if detail < kernel.MinDetail {
		return nil, fmt.Errorf("sdfx: %w, got %d", kernel.ErrDetail, detail)
	}
	if len(profile) < 2 {
		return &kernel.Mesh{}, nil
	}

	s, err := revolveProfile(profile)
	if err != nil {
		return nil, err
	}
	return k.toMesh(s), nil
}

// revolveProfile closes the profile against the axis and revolves it.
// sdf.Revolve3D sweeps the 2D X coordinate about the 3D Z axis, so the
// result is rotated to put that axis on +Y.
func revolveProfile(profile []v3.Vec) (sdf.SDF3, error) {
	first, last := profile[0], profile[len(profile)-1]

	poly := make([]v2.Vec, 0, len(profile)+2)
	poly = append(poly, v2.Vec{X: 0, Y: first.Y})
	for _, p := range profile {
		poly = append(poly, v2.Vec{X: math.Abs(p.X), Y: p.Y})
	}
	poly = append(poly, v2.Vec{X: 0, Y: last.Y})

	s2, err := sdf.Polygon2D(poly)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	s3, err := sdf.Revolve3D(s2)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Revolve3D: %w", err)
	}
	return sdf.Transform3D(s3, sdf.RotateX(-math.Pi/2)), nil
}

// toMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) toMesh(s sdf.SDF3) *kernel.Mesh {
	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(s, renderer)

	m := &kernel.Mesh{
		Vertices: make([]v3.Vec, 0, len(triangles)*3),
		Faces:    make([]kernel.Face, 0, len(triangles)),
		Normals:  make([]v3.Vec, 0, len(triangles)),
	}
	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			m.Vertices = append(m.Vertices, tri[j])
		}
		base := uint32(i * 3)
		m.Faces = append(m.Faces, kernel.Face{base, base + 1, base + 2})
		m.Normals = append(m.Normals, tri.Normal())
	}
	return m
}
