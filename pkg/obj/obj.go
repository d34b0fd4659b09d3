// Package obj holds the post-parse view of a Wavefront OBJ document: named
// objects, each split into geometry groups of primitive shapes whose corners
// reference shared position, texture-coordinate and normal arrays.
//
// Vertex data and faces are tokenized by the g3n OBJ decoder. Object and
// group boundaries, lines, points and short faces are read by this package.
package obj

// NoIndex marks an absent texture-coordinate or normal reference.
const NoIndex = -1

// Corner is one vertex reference of a shape. Indices are zero-based.
type Corner struct {
	Position int
	TexCoord int
	Normal   int
}

// HasNormal reports whether the corner references a normal.
func (c Corner) HasNormal() bool {
	return c.Normal != NoIndex
}

// HasTexCoord reports whether the corner references a texture coordinate.
func (c Corner) HasTexCoord() bool {
	return c.TexCoord != NoIndex
}

// ShapeKind is the OBJ element a shape was read from.
type ShapeKind int

const (
	ShapeFace ShapeKind = iota
	ShapeLine
	ShapePoint
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeFace:
		return "face"
	case ShapeLine:
		return "line"
	case ShapePoint:
		return "point"
	}
	return "unknown"
}

// Shape is a primitive. Group is the name from the last `g` line before it,
// if any.
type Shape struct {
	Kind    ShapeKind
	Group   string
	Corners []Corner
}

// IsTriangle reports whether the shape is a face with exactly three corners.
func (s Shape) IsTriangle() bool {
	return s.Kind == ShapeFace && len(s.Corners) == 3
}

// Geometry is a run of shapes sharing one material.
type Geometry struct {
	Material string
	Shapes   []Shape
}

// Object is a named object made of one or more geometry groups.
type Object struct {
	Name     string
	Geometry []Geometry
}

// ShapeCount returns the number of shapes across all geometry groups.
func (o *Object) ShapeCount() int {
	n := 0
	for _, g := range o.Geometry {
		n += len(g.Shapes)
	}
	return n
}

// Set is a parsed document.
type Set struct {
	Objects   []Object
	Positions [][3]float32
	Normals   [][3]float32
	TexCoords [][2]float32
	Warnings  []string
}

// CornerCount returns the number of shape corners across all objects.
func (s *Set) CornerCount() int {
	n := 0
	for _, o := range s.Objects {
		for _, g := range o.Geometry {
			for _, sh := range g.Shapes {
				n += len(sh.Corners)
			}
		}
	}
	return n
}
