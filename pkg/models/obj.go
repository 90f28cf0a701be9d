package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/umbra/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// ParseOBJ reads OBJ geometry from r. Only v, vt, vn and f records are
// used; objects and groups are merged into one mesh and polygons are split
// into triangle fans. Missing normals are computed and missing texture
// coordinates map to (0,0).
func ParseOBJ(r io.Reader) (*Mesh, error) {
	mesh := NewMesh("")
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var v [3]float64
			if v, err = parseFloats(fields[1:], 3); err == nil {
				mesh.Positions = append(mesh.Positions, math3d.V3(v[0], v[1], v[2]))
			}
		case "vt":
			var v [3]float64
			if v, err = parseFloats(fields[1:], 2); err == nil {
				mesh.TexCoords = append(mesh.TexCoords, math3d.V2(v[0], v[1]))
			}
		case "vn":
			var v [3]float64
			if v, err = parseFloats(fields[1:], 3); err == nil {
				mesh.Normals = append(mesh.Normals, math3d.V3(v[0], v[1], v[2]))
			}
		case "f":
			err = mesh.parseFace(fields[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := mesh.ValidatePositions(); err != nil {
		return nil, err
	}
	mesh.EnsureAttributes()
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// parseFloats parses at least n numbers; extra components (w) are ignored.
func parseFloats(fields []string, n int) ([3]float64, error) {
	var out [3]float64
	if len(fields) < n {
		return out, fmt.Errorf("expected %d components, got %d", n, len(fields))
	}
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return out, err
		}
		out[i] = f
	}
	return out, nil
}

// parseFace handles v, v/t, v//n and v/t/n corners and fans polygons.
func (m *Mesh) parseFace(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("face with %d vertices", len(args))
	}

	vs := make([]int, len(args))
	ts := make([]int, len(args))
	ns := make([]int, len(args))
	for i, arg := range args {
		parts := strings.Split(arg+"//", "/")
		var err error
		if vs[i], err = fixIndex(parts[0], len(m.Positions)); err != nil {
			return err
		}
		if ts[i], err = fixIndex(parts[1], len(m.TexCoords)); err != nil {
			return err
		}
		if ns[i], err = fixIndex(parts[2], len(m.Normals)); err != nil {
			return err
		}
	}

	for i := 1; i < len(args)-1; i++ {
		m.Faces = append(m.Faces, Face{
			V: [3]int{vs[0], vs[i], vs[i+1]},
			T: [3]int{ts[0], ts[i], ts[i+1]},
			N: [3]int{ns[0], ns[i], ns[i+1]},
		})
	}
	return nil
}

// fixIndex converts a 1-based or negative (relative) OBJ index to a
// 0-based one. An empty value yields -1.
func fixIndex(value string, length int) (int, error) {
	if value == "" {
		return -1, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("bad index %q: %w", value, err)
	}
	switch {
	case parsed < 0 && parsed+length >= 0:
		return parsed + length, nil
	case parsed <= 0:
		return 0, fmt.Errorf("index %d: %w", parsed, ErrInvalidIndex)
	}
	return parsed - 1, nil
}
