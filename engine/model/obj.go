package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadOBJ reads a Wavefront OBJ file from disk and builds a Mesh from it.
// See ParseOBJ for the supported subset.
//
// Parameters:
//   - name: the mesh identifier
//   - path: the OBJ file path
//
// Returns:
//   - Mesh: the parsed mesh
//   - error: an error if the file cannot be read or parsed
func LoadOBJ(name, path string) (Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open obj file %s: %w", path, err)
	}
	defer f.Close()
	return ParseOBJ(name, f)
}

// ParseOBJ builds a Mesh from Wavefront OBJ data. Supported statements are
// "v" (position), "vn" (normal), "vt" (texture coordinate), and "f" (face);
// everything else is skipped. Faces with more than three corners are fan
// triangulated.
//
// Plain position-only faces ("f 1 2 3") keep their shared indices and produce
// an indexed mesh, with flat normals generated when no "vn" statements appear.
// Faces that reference normals or texture coordinates per corner ("f 1/1/1 ...")
// are expanded into non-indexed geometry, since OBJ indexes each attribute
// stream independently.
//
// Parameters:
//   - name: the mesh identifier
//   - r: the OBJ data stream
//
// Returns:
//   - Mesh: the parsed mesh
//   - error: an error if a statement is malformed
func ParseOBJ(name string, r io.Reader) (Mesh, error) {
	var (
		positions [][3]float32
		normals   [][3]float32
		texCoords [][2]float32

		corners    []objCorner
		flatFaces  []uint32
		multiAttrs bool
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseFloats3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
			}
			positions = append(positions, v)
		case "vn":
			v, err := parseFloats3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
			}
			normals = append(normals, v)
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("obj line %d: vt needs 2 components", lineNo)
			}
			u, err1 := strconv.ParseFloat(fields[1], 32)
			v, err2 := strconv.ParseFloat(fields[2], 32)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("obj line %d: bad vt component", lineNo)
			}
			texCoords = append(texCoords, [2]float32{float32(u), float32(v)})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: face needs at least 3 corners", lineNo)
			}
			face := make([]objCorner, 0, len(fields)-1)
			for _, spec := range fields[1:] {
				c, multi, err := parseCorner(spec)
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
				}
				multiAttrs = multiAttrs || multi
				face = append(face, c)
			}
			// Fan triangulation around the first corner.
			for i := 1; i+1 < len(face); i++ {
				corners = append(corners, face[0], face[i], face[i+1])
				flatFaces = append(flatFaces, uint32(face[0].pos), uint32(face[i].pos), uint32(face[i+1].pos))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read obj data: %w", err)
	}
	if len(positions) == 0 {
		return nil, ErrNoGeometry
	}

	if !multiAttrs {
		opts := []MeshBuilderOption{
			WithPositions(positions),
			WithIndices(flatFaces),
		}
		if len(normals) == len(positions) {
			opts = append(opts, WithNormals(normals))
		}
		return NewMesh(name, opts...)
	}

	// Per-corner attribute indices: expand into non-indexed geometry.
	expPos := make([][3]float32, 0, len(corners))
	var expNorm [][3]float32
	var expUV [][2]float32
	for _, c := range corners {
		if c.pos < 0 || c.pos >= len(positions) {
			return nil, fmt.Errorf("obj: face references vertex %d of %d", c.pos+1, len(positions))
		}
		expPos = append(expPos, positions[c.pos])
		if c.norm >= 0 {
			if c.norm >= len(normals) {
				return nil, fmt.Errorf("obj: face references normal %d of %d", c.norm+1, len(normals))
			}
			expNorm = append(expNorm, normals[c.norm])
		}
		if c.uv >= 0 {
			if c.uv >= len(texCoords) {
				return nil, fmt.Errorf("obj: face references texcoord %d of %d", c.uv+1, len(texCoords))
			}
			expUV = append(expUV, texCoords[c.uv])
		}
	}

	opts := []MeshBuilderOption{WithPositions(expPos)}
	if len(expNorm) == len(expPos) {
		opts = append(opts, WithNormals(expNorm))
	}
	if len(expUV) == len(expPos) {
		opts = append(opts, WithTexCoords(expUV))
	}
	return NewMesh(name, opts...)
}

// objCorner holds zero-based attribute indices for one face corner. Missing
// attributes are -1.
type objCorner struct {
	pos  int
	uv   int
	norm int
}

// parseCorner parses a face corner spec ("7", "7/2", "7//3", "7/2/3") into
// zero-based indices. The second return reports whether the corner carried
// per-corner uv/normal indices.
func parseCorner(spec string) (objCorner, bool, error) {
	c := objCorner{uv: -1, norm: -1}
	parts := strings.Split(spec, "/")

	pos, err := strconv.Atoi(parts[0])
	if err != nil {
		return c, false, fmt.Errorf("bad face index %q", parts[0])
	}
	c.pos = pos - 1

	multi := false
	if len(parts) > 1 && parts[1] != "" {
		uv, err := strconv.Atoi(parts[1])
		if err != nil {
			return c, false, fmt.Errorf("bad texcoord index %q", parts[1])
		}
		c.uv = uv - 1
		multi = true
	}
	if len(parts) > 2 && parts[2] != "" {
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return c, false, fmt.Errorf("bad normal index %q", parts[2])
		}
		c.norm = n - 1
		multi = true
	}
	return c, multi, nil
}

func parseFloats3(fields []string) ([3]float32, error) {
	var out [3]float32
	if len(fields) < 3 {
		return out, fmt.Errorf("need 3 components, have %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return out, fmt.Errorf("bad component %q", fields[i])
		}
		out[i] = float32(v)
	}
	return out, nil
}
