package kernel

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/floats/scalar"
)

// unitQuad is a 1x1 square in the XY plane split into two triangles.
func unitQuad() *Mesh {
	m := &Mesh{
		Vertices: []v3.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		Faces:    []Face{{0, 1, 2}, {0, 2, 3}},
		Color:    "#44aa88",
		PartName: "quad",
	}
	m.ComputeFaceNormals()
	return m
}

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []v3.Vec
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []v3.Vec{{X: 1, Y: 2, Z: 3}}, 1},
		{"four vertices", unitQuad().Vertices, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name  string
		faces []Face
		want  int
	}{
		{"empty", nil, 0},
		{"one triangle", []Face{{0, 1, 2}}, 1},
		{"two triangles", []Face{{0, 1, 2}, {2, 3, 0}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Faces: tt.faces}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("vertices without faces", func(t *testing.T) {
		m := &Mesh{Vertices: []v3.Vec{{X: 1}}}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for a mesh with no faces, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		if unitQuad().IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshValidate(t *testing.T) {
	if err := unitQuad().Validate(); err != nil {
		t.Fatalf("Validate() on quad: %v", err)
	}

	bad := unitQuad()
	bad.Faces = append(bad.Faces, Face{0, 3, 4})
	bad.Normals = make([]v3.Vec, len(bad.Faces))
	if err := bad.Validate(); err == nil {
		t.Error("expected out-of-range index error")
	}

	short := unitQuad()
	short.Normals = short.Normals[:1]
	if err := short.Validate(); err == nil {
		t.Error("expected normal count mismatch error")
	}
}

func TestComputeFaceNormals(t *testing.T) {
	m := unitQuad()
	for i, n := range m.Normals {
		if n != (v3.Vec{Z: 1}) {
			t.Errorf("normal %d = %v, want +Z", i, n)
		}
	}

	degenerate := &Mesh{
		Vertices: []v3.Vec{{}, {X: 1}, {X: 2}},
		Faces:    []Face{{0, 1, 2}},
	}
	degenerate.ComputeFaceNormals()
	if degenerate.Normals[0] != (v3.Vec{}) {
		t.Errorf("degenerate normal = %v, want zero", degenerate.Normals[0])
	}
}

func TestMeshTransform(t *testing.T) {
	m := unitQuad()
	moved := m.Transform(sdf.Translate3d(v3.Vec{X: 10, Y: 0, Z: 5}))

	if moved == m {
		t.Fatal("Transform must return a new mesh")
	}
	if m.Vertices[0] != (v3.Vec{}) {
		t.Fatalf("original mesh mutated: %v", m.Vertices[0])
	}
	if got := moved.Vertices[2]; got != (v3.Vec{X: 11, Y: 1, Z: 5}) {
		t.Errorf("translated vertex = %v", got)
	}
	if moved.PartName != "quad" || moved.Color != "#44aa88" {
		t.Errorf("metadata not carried over: %q %q", moved.PartName, moved.Color)
	}

	rotated := m.Transform(sdf.RotateX(math.Pi))
	for i, n := range rotated.Normals {
		if !scalar.EqualWithinAbs(n.Z, -1, 1e-12) {
			t.Errorf("rotated normal %d = %v, want -Z", i, n)
		}
	}
}

func TestMerge(t *testing.T) {
	a := unitQuad()
	b := unitQuad().Transform(sdf.Translate3d(v3.Vec{Z: 1}))
	m := Merge(a, nil, b)

	if m.VertexCount() != 8 || m.TriangleCount() != 4 {
		t.Fatalf("merged counts = %d verts, %d tris", m.VertexCount(), m.TriangleCount())
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if m.Faces[2] != (Face{4, 5, 6}) {
		t.Errorf("second mesh faces not rebased: %v", m.Faces[2])
	}
	if m.PartName != "quad" {
		t.Errorf("PartName = %q", m.PartName)
	}
}

func TestBoundingBox(t *testing.T) {
	min, max := (&Mesh{}).BoundingBox()
	if min != (v3.Vec{}) || max != (v3.Vec{}) {
		t.Errorf("empty bbox = %v %v", min, max)
	}
	m := unitQuad().Transform(sdf.Translate3d(v3.Vec{X: -2, Y: 3, Z: 1}))
	min, max = m.BoundingBox()
	if min != (v3.Vec{X: -2, Y: 3, Z: 1}) || max != (v3.Vec{X: -1, Y: 4, Z: 1}) {
		t.Errorf("bbox = %v %v", min, max)
	}
}

func TestFlatten(t *testing.T) {
	fl := unitQuad().Flatten()
	if len(fl.Vertices) != 2*3*3 {
		t.Fatalf("vertices length %d, want 18", len(fl.Vertices))
	}
	if len(fl.Vertices) != len(fl.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(fl.Vertices), len(fl.Normals))
	}
	if len(fl.Indices) != 6 {
		t.Fatalf("indices length %d, want 6", len(fl.Indices))
	}
	for i := 2; i < len(fl.Normals); i += 3 {
		if fl.Normals[i] != 1 {
			t.Fatalf("normal z at %d = %v, want 1", i, fl.Normals[i])
		}
	}

	// Missing normals are computed on the fly without touching the mesh.
	bare := &Mesh{Vertices: unitQuad().Vertices, Faces: unitQuad().Faces}
	if got := bare.Flatten(); len(got.Normals) != 18 {
		t.Errorf("normals length %d, want 18", len(got.Normals))
	}
	if bare.Normals != nil {
		t.Error("Flatten mutated the mesh")
	}
}
