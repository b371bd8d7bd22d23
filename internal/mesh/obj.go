package mesh

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// parseOBJ reads the subset of Wavefront OBJ this service cares about:
// vertex positions and faces. Texture/normal slots in face references are
// accepted and ignored; polygons are fan-triangulated.
func parseOBJ(data []byte) (*Mesh, error) {
	var m Mesh
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, errors.Errorf("obj: short vertex on line %d", line)
			}
			var v Vec3
			var err error
			if v.X, err = strconv.ParseFloat(fields[1], 64); err == nil {
				if v.Y, err = strconv.ParseFloat(fields[2], 64); err == nil {
					v.Z, err = strconv.ParseFloat(fields[3], 64)
				}
			}
			if err != nil {
				return nil, errors.Wrapf(err, "obj: bad vertex on line %d", line)
			}
			m.Vertices = append(m.Vertices, v)
		case "f":
			if len(fields) < 4 {
				return nil, errors.Errorf("obj: face with fewer than 3 vertices on line %d", line)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				i, err := objVertexIndex(ref, len(m.Vertices))
				if err != nil {
					return nil, errors.Wrapf(err, "obj: bad face on line %d", line)
				}
				idx = append(idx, i)
			}
			for i := 1; i+1 < len(idx); i++ {
				m.Faces = append(m.Faces, Face{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "obj: read")
	}
	return &m, nil
}

// objVertexIndex resolves a face vertex reference ("7", "7/1", "7//3",
// "7/1/3", or negative relative indices) to a zero-based vertex index.
func objVertexIndex(ref string, vertexCount int) (int, error) {
	if slash := strings.IndexByte(ref, '/'); slash >= 0 {
		ref = ref[:slash]
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, err
	}
	switch {
	case n > 0 && n <= vertexCount:
		return n - 1, nil
	case n < 0 && -n <= vertexCount:
		return vertexCount + n, nil
	default:
		return 0, errors.Errorf("vertex index %d out of range", n)
	}
}
