package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Binary STL layout: 80-byte header, uint32 facet count, then 50 bytes per
// facet (normal + three vertices as little-endian float32 triplets, plus an
// unused uint16 attribute byte count).
const (
	stlHeaderSize = 80
	stlFacetSize  = 50
)

func parseSTL(data []byte) (*Mesh, error) {
	if isBinarySTL(data) {
		return parseBinarySTL(data)
	}
	return parseASCIISTL(data)
}

// isBinarySTL decides between the two STL encodings. The "solid" prefix is
// not a reliable discriminator (binary exporters write it too), so the facet
// count arithmetic is checked first.
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(data[stlHeaderSize : stlHeaderSize+4])
	expected := uint64(stlHeaderSize) + 4 + uint64(count)*stlFacetSize
	return expected == uint64(len(data))
}

func parseBinarySTL(data []byte) (*Mesh, error) {
	count := binary.LittleEndian.Uint32(data[stlHeaderSize : stlHeaderSize+4])
	b := newBuilder()
	off := stlHeaderSize + 4
	for i := uint32(0); i < count; i++ {
		// The 12-byte facet normal is skipped; winding carries orientation.
		tri := [3]Vec3{}
		for v := 0; v < 3; v++ {
			base := off + 12 + v*12
			tri[v] = Vec3{
				X: float64(float32FromLE(data[base:])),
				Y: float64(float32FromLE(data[base+4:])),
				Z: float64(float32FromLE(data[base+8:])),
			}
		}
		b.triangle(tri[0], tri[1], tri[2])
		off += stlFacetSize
	}
	return b.build(), nil
}

func float32FromLE(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func parseASCIISTL(data []byte) (*Mesh, error) {
	b := newBuilder()
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var tri []Vec3
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		if len(fields) < 4 {
			return nil, errors.Errorf("stl: short vertex on line %d", line)
		}
		var v Vec3
		var err error
		if v.X, err = strconv.ParseFloat(fields[1], 64); err == nil {
			if v.Y, err = strconv.ParseFloat(fields[2], 64); err == nil {
				v.Z, err = strconv.ParseFloat(fields[3], 64)
			}
		}
		if err != nil {
			return nil, errors.Wrapf(err, "stl: bad vertex on line %d", line)
		}
		tri = append(tri, v)
		if len(tri) == 3 {
			b.triangle(tri[0], tri[1], tri[2])
			tri = tri[:0]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "stl: read")
	}
	if len(tri) != 0 {
		return nil, errors.New("stl: truncated facet")
	}
	return b.build(), nil
}
