// Package mesh loads STL and OBJ byte streams into an indexed triangle mesh
// and derives the geometric quantities the quoting engine needs: volume,
// surface area, axis-aligned extents and triangle count. Cleanup of sloppy
// input (duplicate faces, degenerate faces, unreferenced vertices) is
// best-effort and never fails a load on its own.
package mesh

import (
	"math"
	"sort"
)

// Vec3 is a point or direction in model space, in millimeters.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Cross returns the cross product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Dot returns the dot product v · w.
func (v Vec3) Dot(w Vec3) float64 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Length returns the euclidean norm of v.
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Face indexes three vertices of a Mesh, counter-clockwise when viewed
// from outside for a well-formed solid.
type Face [3]int

// Mesh is an indexed triangle soup.
type Mesh struct {
	Vertices []Vec3
	Faces    []Face
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int { return len(m.Faces) }

// IsEmpty reports whether the mesh has no usable geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Faces) == 0 || len(m.Vertices) == 0 }

// Volume computes the enclosed volume in mm³ using the divergence theorem
// over signed tetrahedra. The absolute value is returned so meshes with
// uniformly inverted winding still quote correctly.
func (m *Mesh) Volume() float64 {
	var signed float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		signed += a.Dot(b.Cross(c)) / 6.0
	}
	return math.Abs(signed)
}

// SurfaceArea computes the total face area in mm².
func (m *Mesh) SurfaceArea() float64 {
	var area float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		area += b.Sub(a).Cross(c.Sub(a)).Length() / 2.0
	}
	return area
}

// Extents returns the axis-aligned bounding box dimensions in mm.
func (m *Mesh) Extents() [3]float64 {
	if len(m.Vertices) == 0 {
		return [3]float64{}
	}
	min := m.Vertices[0]
	max := m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		min.Z = math.Min(min.Z, v.Z)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		max.Z = math.Max(max.Z, v.Z)
	}
	return [3]float64{max.X - min.X, max.Y - min.Y, max.Z - min.Z}
}

// degenerateAreaEps is the face area (mm²) below which a triangle is
// considered a sliver and dropped during cleanup.
const degenerateAreaEps = 1e-12

// RemoveDuplicateFaces drops faces that reference the same vertex triple,
// irrespective of winding. The first occurrence wins.
func (m *Mesh) RemoveDuplicateFaces() {
	seen := make(map[[3]int]struct{}, len(m.Faces))
	kept := m.Faces[:0]
	for _, f := range m.Faces {
		key := [3]int{f[0], f[1], f[2]}
		sort.Ints(key[:])
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, f)
	}
	m.Faces = kept
}

// RemoveDegenerateFaces drops faces with repeated vertex indices or
// effectively zero area.
func (m *Mesh) RemoveDegenerateFaces() {
	kept := m.Faces[:0]
	for _, f := range m.Faces {
		if f[0] == f[1] || f[1] == f[2] || f[0] == f[2] {
			continue
		}
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		if b.Sub(a).Cross(c.Sub(a)).Length()/2.0 < degenerateAreaEps {
			continue
		}
		kept = append(kept, f)
	}
	m.Faces = kept
}

// RemoveUnreferencedVertices compacts the vertex array to only the vertices
// still referenced by a face and remaps face indices accordingly.
func (m *Mesh) RemoveUnreferencedVertices() {
	remap := make(map[int]int, len(m.Vertices))
	kept := make([]Vec3, 0, len(m.Vertices))
	for fi, f := range m.Faces {
		for i, idx := range f {
			to, ok := remap[idx]
			if !ok {
				to = len(kept)
				kept = append(kept, m.Vertices[idx])
				remap[idx] = to
			}
			m.Faces[fi][i] = to
		}
	}
	m.Vertices = kept
}
