// Package models provides triangle mesh loading and representation for Umbra.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/umbra/pkg/math3d"
)

// ErrInvalidIndex is returned when a face refers to a position, texture
// coordinate or normal the mesh does not have.
var ErrInvalidIndex = errors.New("invalid mesh index")

// IndexError reports which face corner holds a bad index.
type IndexError struct {
	Face   int
	Corner int
	Kind   string // "position", "texcoord" or "normal"
	Index  int
	Len    int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("face %d corner %d: %s index %d out of range [0,%d)",
		e.Face, e.Corner, e.Kind, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrInvalidIndex }

// Mesh is an indexed triangle mesh. Positions, texture coordinates and
// normals are indexed independently, as OBJ files do.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	Normals   []math3d.Vec3
	TexCoords []math3d.Vec2
	Faces     []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is one triangle. A negative T or N index means the attribute is
// missing; EnsureAttributes fills those in.
type Face struct {
	V [3]int // Indices into Mesh.Positions
	T [3]int // Indices into Mesh.TexCoords
	N [3]int // Indices into Mesh.Normals
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

func checkIndex(face, corner int, kind string, idx, n int) error {
	if idx < 0 || idx >= n {
		return &IndexError{Face: face, Corner: corner, Kind: kind, Index: idx, Len: n}
	}
	return nil
}

// ValidatePositions checks only the position indices. Loaders run it
// before EnsureAttributes, which reads positions to build normals.
func (m *Mesh) ValidatePositions() error {
	for i, f := range m.Faces {
		for k := range 3 {
			if err := checkIndex(i, k, "position", f.V[k], len(m.Positions)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate checks that every face index is in range.
func (m *Mesh) Validate() error {
	if err := m.ValidatePositions(); err != nil {
		return err
	}
	for i, f := range m.Faces {
		for k := range 3 {
			if err := checkIndex(i, k, "texcoord", f.T[k], len(m.TexCoords)); err != nil {
				return err
			}
			if err := checkIndex(i, k, "normal", f.N[k], len(m.Normals)); err != nil {
				return err
			}
		}
	}
	return nil
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Corner returns the attributes of one corner of a face.
// Implements render.MeshRenderer interface.
func (m *Mesh) Corner(face, corner int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	f := &m.Faces[face]
	return m.Positions[f.V[corner]], m.Normals[f.N[corner]], m.TexCoords[f.T[corner]]
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Positions) == 0 {
		return
	}

	m.BoundsMin = m.Positions[0]
	m.BoundsMax = m.Positions[0]

	for _, p := range m.Positions[1:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Bounds returns the axis-aligned bounding box.
func (m *Mesh) Bounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

func (m *Mesh) inRange(f Face) bool {
	for _, v := range f.V {
		if v < 0 || v >= len(m.Positions) {
			return false
		}
	}
	return true
}

func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Positions[f.V[0]]
	edge1 := m.Positions[f.V[1]].Sub(v0)
	edge2 := m.Positions[f.V[2]].Sub(v0)
	return edge1.Cross(edge2)
}

// CalculateNormals replaces the normals with one flat normal per face.
func (m *Mesh) CalculateNormals() {
	m.Normals = make([]math3d.Vec3, len(m.Faces))
	for i := range m.Faces {
		if m.inRange(m.Faces[i]) {
			m.Normals[i] = m.faceNormal(m.Faces[i]).Normalize()
		}
		m.Faces[i].N = [3]int{i, i, i}
	}
}

// CalculateSmoothNormals replaces the normals with one averaged normal per
// position. Face normals are accumulated unnormalized, so larger faces
// weigh more.
func (m *Mesh) CalculateSmoothNormals() {
	m.Normals = make([]math3d.Vec3, len(m.Positions))

	for i := range m.Faces {
		f := &m.Faces[i]
		f.N = f.V
		if !m.inRange(*f) {
			// Left for Validate to report.
			continue
		}
		n := m.faceNormal(*f)
		for k := range 3 {
			m.Normals[f.V[k]] = m.Normals[f.V[k]].Add(n)
		}
	}

	for i := range m.Normals {
		m.Normals[i] = m.Normals[i].Normalize()
	}
}

// EnsureAttributes fills in missing texture coordinates and normals so
// every face can be shaded. Corners without a texture coordinate map to
// (0,0). If any corner lacks a normal, smooth normals are computed for the
// whole mesh.
func (m *Mesh) EnsureAttributes() {
	missingUV, missingNormal := false, len(m.Normals) == 0
	for _, f := range m.Faces {
		for k := range 3 {
			missingUV = missingUV || f.T[k] < 0
			missingNormal = missingNormal || f.N[k] < 0
		}
	}

	if missingUV || len(m.TexCoords) == 0 {
		zero := len(m.TexCoords)
		m.TexCoords = append(m.TexCoords, math3d.Vec2{})
		for i := range m.Faces {
			for k := range 3 {
				if m.Faces[i].T[k] < 0 {
					m.Faces[i].T[k] = zero
				}
			}
		}
	}

	if missingNormal && len(m.Faces) > 0 {
		m.CalculateSmoothNormals()
	}
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Positions: make([]math3d.Vec3, len(m.Positions)),
		Normals:   make([]math3d.Vec3, len(m.Normals)),
		TexCoords: make([]math3d.Vec2, len(m.TexCoords)),
		Faces:     make([]Face, len(m.Faces)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Positions, m.Positions)
	copy(clone.Normals, m.Normals)
	copy(clone.TexCoords, m.TexCoords)
	copy(clone.Faces, m.Faces)
	return clone
}
