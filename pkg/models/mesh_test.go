package models

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/umbra/pkg/math3d"
)

// quad returns a unit square in the z=0 plane split into two faces, with
// no normals or texture coordinates.
func quad() *Mesh {
	m := NewMesh("quad")
	m.Positions = []math3d.Vec3{
		math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 1, 0), math3d.V3(0, 1, 0),
	}
	m.Faces = []Face{
		{V: [3]int{0, 1, 2}, T: [3]int{-1, -1, -1}, N: [3]int{-1, -1, -1}},
		{V: [3]int{0, 2, 3}, T: [3]int{-1, -1, -1}, N: [3]int{-1, -1, -1}},
	}
	return m
}

func TestMeshValidate(t *testing.T) {
	m := quad()
	m.EnsureAttributes()
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Mesh)
		kind   string
	}{
		{"position past end", func(m *Mesh) { m.Faces[1].V[2] = 4 }, "position"},
		{"negative position", func(m *Mesh) { m.Faces[0].V[0] = -1 }, "position"},
		{"texcoord past end", func(m *Mesh) { m.Faces[0].T[1] = 9 }, "texcoord"},
		{"missing normal", func(m *Mesh) { m.Faces[1].N[0] = -1 }, "normal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := m.Clone()
			tt.mutate(bad)
			err := bad.Validate()
			if !errors.Is(err, ErrInvalidIndex) {
				t.Fatalf("Validate() = %v, want ErrInvalidIndex", err)
			}
			var ie *IndexError
			if !errors.As(err, &ie) || ie.Kind != tt.kind {
				t.Errorf("error %v does not name the %s index", err, tt.kind)
			}
		})
	}
}

func TestMeshNormalsSkipBadPositions(t *testing.T) {
	m := quad()
	m.Faces[1].V[2] = 9
	m.EnsureAttributes()
	m.CalculateNormals()

	var ie *IndexError
	if err := m.Validate(); !errors.As(err, &ie) || ie.Face != 1 || ie.Kind != "position" {
		t.Errorf("Validate() = %v, want a position error on face 1", err)
	}
	if m.Normals[0] != math3d.V3(0, 0, 1) {
		t.Errorf("valid face normal = %v, want +Z", m.Normals[0])
	}
}

func TestMeshEnsureAttributes(t *testing.T) {
	m := quad()
	m.EnsureAttributes()

	if len(m.TexCoords) != 1 || m.TexCoords[0] != (math3d.Vec2{}) {
		t.Errorf("TexCoords = %v, want a single (0,0)", m.TexCoords)
	}
	if len(m.Normals) != len(m.Positions) {
		t.Fatalf("len(Normals) = %d, want one per position", len(m.Normals))
	}
	for i, n := range m.Normals {
		if math.Abs(n.Z-1) > 1e-12 {
			t.Errorf("normal %d = %v, want +Z", i, n)
		}
	}

	// Existing attributes are left alone.
	m.TexCoords[0] = math3d.V2(0.5, 0.5)
	m.EnsureAttributes()
	if len(m.TexCoords) != 1 || m.TexCoords[0] != math3d.V2(0.5, 0.5) {
		t.Errorf("EnsureAttributes rewrote complete texcoords: %v", m.TexCoords)
	}
}

func TestMeshNormals(t *testing.T) {
	// Two faces folded along the x axis at a right angle.
	m := NewMesh("fold")
	m.Positions = []math3d.Vec3{
		math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), math3d.V3(0, 0, 1),
	}
	m.Faces = []Face{
		{V: [3]int{0, 1, 2}},
		{V: [3]int{0, 3, 1}},
	}

	m.CalculateNormals()
	if len(m.Normals) != 2 {
		t.Fatalf("flat normals = %d, want one per face", len(m.Normals))
	}
	if m.Normals[0] != math3d.V3(0, 0, 1) || m.Normals[1] != math3d.V3(0, 1, 0) {
		t.Errorf("flat normals = %v", m.Normals)
	}
	if m.Faces[1].N != [3]int{1, 1, 1} {
		t.Errorf("face 1 N = %v", m.Faces[1].N)
	}

	m.CalculateSmoothNormals()
	shared := m.Normals[0]
	want := math3d.V3(0, 1, 1).Normalize()
	if math.Abs(shared.Y-want.Y) > 1e-12 || math.Abs(shared.Z-want.Z) > 1e-12 || shared.X != 0 {
		t.Errorf("shared vertex normal = %v, want %v", shared, want)
	}
	if m.Faces[1].N != m.Faces[1].V {
		t.Errorf("smooth normals should index by position: %v", m.Faces[1].N)
	}
}

func TestMeshCorner(t *testing.T) {
	m := quad()
	m.TexCoords = []math3d.Vec2{math3d.V2(0.25, 0.75)}
	m.Faces[1].T = [3]int{0, 0, 0}
	m.EnsureAttributes()

	pos, n, uv := m.Corner(1, 1)
	if pos != math3d.V3(1, 1, 0) {
		t.Errorf("pos = %v", pos)
	}
	if uv != math3d.V2(0.25, 0.75) {
		t.Errorf("uv = %v", uv)
	}
	if math.Abs(n.Len()-1) > 1e-12 {
		t.Errorf("normal %v is not unit length", n)
	}
	if m.TriangleCount() != 2 || m.VertexCount() != 4 {
		t.Errorf("counts = %d, %d", m.TriangleCount(), m.VertexCount())
	}
}

func TestMeshBounds(t *testing.T) {
	m := NewMesh("box")
	m.Positions = []math3d.Vec3{math3d.V3(-1, 2, 3), math3d.V3(4, -5, 6), math3d.V3(0, 0, -7)}
	m.CalculateBounds()

	lo, hi := m.Bounds()
	if lo != math3d.V3(-1, -5, -7) || hi != math3d.V3(4, 2, 6) {
		t.Errorf("Bounds = %v, %v", lo, hi)
	}
	if got := m.Center(); got != math3d.V3(1.5, -1.5, -0.5) {
		t.Errorf("Center = %v", got)
	}
	if got := m.Size(); got != math3d.V3(5, 7, 13) {
		t.Errorf("Size = %v", got)
	}
}

func TestMeshClone(t *testing.T) {
	m := quad()
	m.EnsureAttributes()
	clone := m.Clone()

	clone.Positions[0] = math3d.V3(9, 9, 9)
	clone.Faces[0].V[0] = 3
	if m.Positions[0] == clone.Positions[0] || m.Faces[0].V[0] == 3 {
		t.Error("Clone shares storage with the original")
	}
}
