package mesh

// builder accumulates triangles into an indexed mesh, merging vertices that
// are bitwise identical. STL repeats every shared vertex per facet, so the
// merge is what makes unreferenced-vertex and duplicate-face cleanup
// meaningful afterwards.
type builder struct {
	mesh  Mesh
	index map[Vec3]int
}

func newBuilder() *builder {
	return &builder{index: make(map[Vec3]int)}
}

func (b *builder) vertex(v Vec3) int {
	if i, ok := b.index[v]; ok {
		return i
	}
	i := len(b.mesh.Vertices)
	b.mesh.Vertices = append(b.mesh.Vertices, v)
	b.index[v] = i
	return i
}

func (b *builder) triangle(v1, v2, v3 Vec3) {
	b.mesh.Faces = append(b.mesh.Faces, Face{b.vertex(v1), b.vertex(v2), b.vertex(v3)})
}

func (b *builder) build() *Mesh {
	m := b.mesh
	return &m
}
