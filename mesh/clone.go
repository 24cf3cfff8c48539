package mesh

import (
	"maps"
)

// Clone returns a deep copy sharing no mutable state with m. Handles are
// preserved, so a VertexID of m names the same vertex in the copy. The vertex
// function and logger are carried over.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		opts:        m.opts,
		log:         m.log,
		vertices:    make([]*Vertex, len(m.vertices)),
		edges:       make([]*Edge, len(m.edges)),
		triangles:   make([]*Triangle, len(m.triangles)),
		freeEdges:   append([]EdgeID(nil), m.freeEdges...),
		freeTris:    append([]TriangleID(nil), m.freeTris...),
		edgeIndex:   maps.Clone(m.edgeIndex),
		first:       m.first,
		last:        m.last,
		nVertices:   m.nVertices,
		nTriangles:  m.nTriangles,
		nEdges:      m.nEdges,
		toFlip:      append([]EdgeID(nil), m.toFlip...),
		encroachedS: append([]EdgeID(nil), m.encroachedS...),
		vertexFunc:  m.vertexFunc,
	}
	for i, v := range m.vertices {
		c.vertices[i] = v.clone()
	}
	for i, e := range m.edges {
		c.edges[i] = e.clone()
	}
	for i, t := range m.triangles {
		c.triangles[i] = t.clone()
	}
	return c
}
