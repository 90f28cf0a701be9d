package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/umbra/pkg/math3d"
)

// LoadGLTF loads a .gltf or .glb file. Every triangle primitive of every
// mesh is merged into one Mesh; node transforms are not applied.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	if err := mesh.ValidatePositions(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mesh.EnsureAttributes()
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// processMesh appends the geometry of a glTF mesh. glTF attributes share
// one index per vertex, so V, T and N triples are equal for every face.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Skip non-triangle primitives (lines, points, strips)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		basePos := len(mesh.Positions)
		baseNormal, baseUV := -1, -1
		for _, p := range positions {
			mesh.Positions = append(mesh.Positions, vec3(p))
		}
		if len(normals) == len(positions) {
			baseNormal = len(mesh.Normals)
			for _, n := range normals {
				mesh.Normals = append(mesh.Normals, vec3(n))
			}
		}
		if len(uvs) == len(positions) {
			baseUV = len(mesh.TexCoords)
			for _, uv := range uvs {
				// glTF puts v=0 at the top of the image; textures here sample bottom-up.
				mesh.TexCoords = append(mesh.TexCoords, math3d.V2(float64(uv[0]), 1-float64(uv[1])))
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			var f Face
			for k := range 3 {
				idx := int(indices[i+k])
				if idx >= len(positions) {
					// Checked per primitive so an index cannot reach into the next one.
					return &IndexError{Face: len(mesh.Faces), Corner: k, Kind: "position", Index: idx, Len: len(positions)}
				}
				f.V[k] = basePos + idx
				f.T[k], f.N[k] = -1, -1
				if baseUV >= 0 {
					f.T[k] = baseUV + idx
				}
				if baseNormal >= 0 {
					f.N[k] = baseNormal + idx
				}
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}
	return nil
}

func vec3(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}
