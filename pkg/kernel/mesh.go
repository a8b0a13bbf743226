package kernel

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Face is a triangle given as three indices into Mesh.Vertices.
type Face [3]uint32

// Mesh is a triangulated solid. Meshes are built wholesale and treated as
// immutable once returned; every operation here returns a new mesh.
type Mesh struct {
	Vertices []v3.Vec `json:"vertices"`
	Faces    []Face   `json:"faces"`
	Normals  []v3.Vec `json:"normals"`  // one per face, from vertex winding
	Color    string   `json:"color"`    // "#rrggbb"
	PartName string   `json:"partName"` // which tool this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no faces.
func (m *Mesh) IsEmpty() bool {
	return len(m.Faces) == 0
}

// Validate checks that every face index refers to a vertex and that there is
// one normal per face.
func (m *Mesh) Validate() error {
	n := uint32(len(m.Vertices))
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx >= n {
				return fmt.Errorf("face %d: vertex index %d out of range (%d vertices)", i, idx, n)
			}
		}
	}
	if m.Normals != nil && len(m.Normals) != len(m.Faces) {
		return fmt.Errorf("%d normals for %d faces", len(m.Normals), len(m.Faces))
	}
	return nil
}

// Triangle returns the corner positions of face i.
func (m *Mesh) Triangle(i int) [3]v3.Vec {
	f := m.Faces[i]
	return [3]v3.Vec{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// faceNormal returns the unit normal of a counter-clockwise triangle, or the
// zero vector for a degenerate one.
func faceNormal(a, b, c v3.Vec) v3.Vec {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Length()
	if l == 0 || math.IsNaN(l) {
		return v3.Vec{}
	}
	return n.MulScalar(1 / l)
}

// ComputeFaceNormals fills Normals from the vertex winding of each face.
func (m *Mesh) ComputeFaceNormals() {
	m.Normals = make([]v3.Vec, len(m.Faces))
	for i := range m.Faces {
		t := m.Triangle(i)
		m.Normals[i] = faceNormal(t[0], t[1], t[2])
	}
}

// Transform returns a copy of the mesh with every vertex mapped through t.
// Normals are recomputed from the transformed winding.
func (m *Mesh) Transform(t sdf.M44) *Mesh {
	out := &Mesh{
		Vertices: make([]v3.Vec, len(m.Vertices)),
		Faces:    append([]Face(nil), m.Faces...),
		Color:    m.Color,
		PartName: m.PartName,
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = t.MulPosition(v)
	}
	out.ComputeFaceNormals()
	return out
}

// Merge returns a new mesh holding the geometry of all inputs, with face
// indices rebased. Color and PartName are taken from the first mesh.
func Merge(meshes ...*Mesh) *Mesh {
	out := &Mesh{}
	for i, m := range meshes {
		if m == nil {
			continue
		}
		if i == 0 {
			out.Color = m.Color
			out.PartName = m.PartName
		}
		base := uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, f := range m.Faces {
			out.Faces = append(out.Faces, Face{f[0] + base, f[1] + base, f[2] + base})
		}
	}
	out.ComputeFaceNormals()
	return out
}

// BoundingBox returns the axis-aligned bounding box. An empty mesh returns
// two zero vectors.
func (m *Mesh) BoundingBox() (min, max v3.Vec) {
	if len(m.Vertices) == 0 {
		return v3.Vec{}, v3.Vec{}
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = v3.Vec{X: math.Min(min.X, v.X), Y: math.Min(min.Y, v.Y), Z: math.Min(min.Z, v.Z)}
		max = v3.Vec{X: math.Max(max.X, v.X), Y: math.Max(max.Y, v.Y), Z: math.Max(max.Z, v.Z)}
	}
	return min, max
}

// Flat is the renderer-facing form of a mesh: flat float32 arrays with 3
// floats per vertex, 3 floats per vertex normal and 3 indices per triangle.
// Vertices are unshared so each carries its face's normal.
type Flat struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
}

// Flatten converts the mesh to its renderer-facing form.
func (m *Mesh) Flatten() Flat {
	numVerts := len(m.Faces) * 3
	fl := Flat{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Indices:  make([]uint32, 0, numVerts),
	}
	normals := m.Normals
	if len(normals) != len(m.Faces) {
		c := *m
		c.ComputeFaceNormals()
		normals = c.Normals
	}
	for i := range m.Faces {
		tri := m.Triangle(i)
		n := normals[i]
		for j := 0; j < 3; j++ {
			v := tri[j]
			fl.Vertices = append(fl.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			fl.Normals = append(fl.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			fl.Indices = append(fl.Indices, uint32(i*3+j))
		}
	}
	return fl
}
