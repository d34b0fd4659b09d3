// Package loader turns a parsed OBJ document into an indexed mesh. Corners
// that share the same position and normal references collapse into a single
// vertex; every corner still yields one index.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/objview/pkg/mesh"
	"github.com/chazu/objview/pkg/obj"
)

var (
	// ErrIO reports that the source could not be opened or read.
	ErrIO = errors.New("loader: cannot read source")
	// ErrParse reports that the source is not valid OBJ text.
	ErrParse = errors.New("loader: cannot parse source")
	// ErrStructure reports a document without exactly one object holding
	// exactly one geometry group.
	ErrStructure = errors.New("loader: unexpected structure")
	// ErrUnsupportedPrimitive reports a shape that is not a triangle.
	ErrUnsupportedPrimitive = errors.New("loader: unsupported non-triangle shape")
	// ErrMissingNormal reports a triangle corner without a usable normal.
	ErrMissingNormal = errors.New("loader: missing normal for a vertex")
	// ErrIndexOutOfRange reports a corner whose position index does not
	// exist in the document.
	ErrIndexOutOfRange = errors.New("loader: position index out of range")
)

// RawVertexKey identifies a referenced vertex by its source indices. The
// texture-coordinate index is not part of the key.
type RawVertexKey struct {
	Position int
	Normal   int
}

// Stats summarizes a parsed document before it is built.
type Stats struct {
	Object    string
	Positions int
	Shapes    int
}

// Load reads the OBJ file at path and builds its mesh.
func Load(path string) (*mesh.Mesh, error) {
	set, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Build(set)
}

// ParseFile reads and parses the OBJ file at path without building it.
func ParseFile(path string) (*obj.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return Parse(path, bytes.NewReader(data))
}

// LoadReader parses OBJ text from r and builds its mesh. name is used only
// in error messages.
func LoadReader(name string, r io.Reader) (*mesh.Mesh, error) {
	set, err := Parse(name, r)
	if err != nil {
		return nil, err
	}
	return Build(set)
}

// Parse parses OBJ text from r, mapping failures onto the loader's errors.
func Parse(name string, r io.Reader) (*obj.Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, name, err)
	}
	set, err := obj.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, name, err)
	}
	return set, nil
}

// Inspect checks the document's structure and reports its size.
func Inspect(set *obj.Set) (Stats, error) {
	geom, err := single(set)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Object:    set.Objects[0].Name,
		Positions: len(set.Positions),
		Shapes:    len(geom.Shapes),
	}, nil
}

// single returns the only geometry group of the only object.
func single(set *obj.Set) (*obj.Geometry, error) {
	if set == nil || len(set.Objects) != 1 {
		n := 0
		if set != nil {
			n = len(set.Objects)
		}
		return nil, fmt.Errorf("%w: expecting a single object, got %d", ErrStructure, n)
	}
	o := &set.Objects[0]
	if len(o.Geometry) != 1 {
		return nil, fmt.Errorf("%w: expecting a single geometry in object %q, got %d", ErrStructure, o.Name, len(o.Geometry))
	}
	return &o.Geometry[0], nil
}

// Build validates set and produces its mesh. Vertices appear in the order
// their key is first met; indices follow the source triangle order and each
// triangle's own winding.
func Build(set *obj.Set) (*mesh.Mesh, error) {
	geom, err := single(set)
	if err != nil {
		return nil, err
	}

	cache := make(map[RawVertexKey]mesh.VertexIndex)
	vertices := make([]mesh.Vertex, 0)
	indices := make([]mesh.VertexIndex, 0, len(geom.Shapes)*3)

	for si, shape := range geom.Shapes {
		if !shape.IsTriangle() {
			return nil, fmt.Errorf("%w: shape %d is a %s with %d corners",
				ErrUnsupportedPrimitive, si, shape.Kind, len(shape.Corners))
		}
		for ci, c := range shape.Corners {
			key := RawVertexKey{Position: c.Position, Normal: c.Normal}
			if idx, ok := cache[key]; ok {
				indices = append(indices, idx)
				continue
			}

			if c.Position < 0 || c.Position >= len(set.Positions) {
				return nil, fmt.Errorf("%w: shape %d corner %d references position %d of %d",
					ErrIndexOutOfRange, si, ci, c.Position, len(set.Positions))
			}
			if !c.HasNormal() || c.Normal >= len(set.Normals) {
				return nil, fmt.Errorf("%w: shape %d corner %d", ErrMissingNormal, si, ci)
			}

			idx := mesh.VertexIndex(len(vertices))
			cache[key] = idx
			vertices = append(vertices, mesh.Vertex{
				Position: set.Positions[c.Position],
				Normal:   set.Normals[c.Normal],
			})
			indices = append(indices, idx)
		}
	}

	return &mesh.Mesh{
		Name:     set.Objects[0].Name,
		Vertices: vertices,
		Indices:  indices,
	}, nil
}
