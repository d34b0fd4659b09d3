// Package export writes meshes to interchange formats.
package export

import (
	"fmt"

	"github.com/chazu/objview/pkg/mesh"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Triangles expands an indexed mesh back into a triangle soup.
func Triangles(m *mesh.Mesh) []*sdf.Triangle3 {
	out := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		verts := m.Triangle(i)
		var t sdf.Triangle3
		for j, v := range verts {
			t[j] = v3.Vec{
				X: float64(v.Position[0]),
				Y: float64(v.Position[1]),
				Z: float64(v.Position[2]),
			}
		}
		out = append(out, &t)
	}
	return out
}

// STL writes m as a binary STL file at path. STL stores one face normal per
// triangle, so per-vertex normals are not preserved.
func STL(path string, m *mesh.Mesh) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := render.SaveSTL(path, Triangles(m)); err != nil {
		return fmt.Errorf("export: %s: %w", path, err)
	}
	return nil
}
