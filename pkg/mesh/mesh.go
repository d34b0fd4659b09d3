// Package mesh defines the GPU-ready indexed triangle mesh produced by the
// loader and the kernel. A Mesh is an interleaved vertex array plus an index
// array referencing it, ready for upload as a vertex/index buffer pair.
package mesh

import (
	"fmt"

	"github.com/chewxy/math32"
)

// VertexStride is the number of float32 values per interleaved vertex.
const VertexStride = 6

// VertexIndex is an index into a mesh's vertex sequence.
type VertexIndex = uint32

// Vertex is a single interleaved record: position followed by normal.
type Vertex struct {
	Position [3]float32 `json:"position"`
	Normal   [3]float32 `json:"normal"`
}

// Mesh is an indexed triangle mesh. Vertices are in first-encounter order,
// Indices holds one triple per triangle.
type Mesh struct {
	Name     string        `json:"name"`
	Vertices []Vertex      `json:"vertices"`
	Indices  []VertexIndex `json:"indices"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Validate checks that the index sequence describes whole triangles and that
// every index refers to an existing vertex.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh: %d indices is not a multiple of 3", len(m.Indices))
	}
	n := len(m.Vertices)
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("mesh: index %d at position %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

// Interleaved flattens the vertices into [px,py,pz,nx,ny,nz, ...].
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*VertexStride)
	for _, v := range m.Vertices {
		out = append(out, v.Position[0], v.Position[1], v.Position[2])
		out = append(out, v.Normal[0], v.Normal[1], v.Normal[2])
	}
	return out
}

// Positions returns the flat position array, 3 floats per vertex.
func (m *Mesh) Positions() []float32 {
	out := make([]float32, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		out = append(out, v.Position[0], v.Position[1], v.Position[2])
	}
	return out
}

// Normals returns the flat normal array, 3 floats per vertex.
func (m *Mesh) Normals() []float32 {
	out := make([]float32, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		out = append(out, v.Normal[0], v.Normal[1], v.Normal[2])
	}
	return out
}

// Triangle returns the three vertices of triangle i.
func (m *Mesh) Triangle(i int) [3]Vertex {
	return [3]Vertex{
		m.Vertices[m.Indices[i*3]],
		m.Vertices[m.Indices[i*3+1]],
		m.Vertices[m.Indices[i*3+2]],
	}
}

// Bounds returns the axis-aligned bounding box of all vertex positions.
// An empty mesh returns zero vectors.
func (m *Mesh) Bounds() (min, max [3]float32) {
	if len(m.Vertices) == 0 {
		return min, max
	}
	min = m.Vertices[0].Position
	max = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for a := 0; a < 3; a++ {
			min[a] = math32.Min(min[a], v.Position[a])
			max[a] = math32.Max(max[a], v.Position[a])
		}
	}
	return min, max
}
