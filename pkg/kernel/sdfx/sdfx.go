// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/objview/pkg/kernel"
	"github.com/chazu/objview/pkg/loader"
	"github.com/chazu/objview/pkg/mesh"
	"github.com/chazu/objview/pkg/obj"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells is the marching cubes resolution used unless WithCells
// overrides it.
const DefaultMeshCells = 64

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithCells sets the marching cubes cell count along the longest axis.
func WithCells(n int) Option {
	return func(k *SdfxKernel) {
		if n > 0 {
			k.cells = n
		}
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{cells: DefaultMeshCells}
	for _, o := range opts {
		o(k)
	}
	return k
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with the given dimensions centered on the origin.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return wrap(s)
}

// Sphere creates a sphere centered on the origin.
func (k *SdfxKernel) Sphere(radius float64) kernel.Solid {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Sphere3D: %v", err))
	}
	return wrap(s)
}

// Cylinder creates a Z-aligned cylinder centered on the origin.
func (k *SdfxKernel) Cylinder(height, radius float64) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return wrap(s)
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to an indexed mesh. Marching cubes yields a
// triangle soup; identical positions and face normals are welded into shared
// index arrays and the result is built like any loaded document.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*mesh.Mesh, error) {
	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(unwrap(s), renderer)

	set := soupToSet("solid", triangles)
	m, err := loader.Build(set)
	if err != nil {
		return nil, fmt.Errorf("sdfx: %w", err)
	}
	return m, nil
}

// soupToSet welds a triangle soup into a single-object, single-group set.
// Degenerate triangles have no face normal and are dropped.
func soupToSet(name string, triangles []*sdf.Triangle3) *obj.Set {
	set := &obj.Set{}
	positions := make(map[[3]float32]int)
	normals := make(map[[3]float32]int)

	intern := func(table map[[3]float32]int, list *[][3]float32, v [3]float32) int {
		if i, ok := table[v]; ok {
			return i
		}
		i := len(*list)
		table[v] = i
		*list = append(*list, v)
		return i
	}

	shapes := make([]obj.Shape, 0, len(triangles))
	for _, tri := range triangles {
		e1 := tri[1].Sub(tri[0])
		e2 := tri[2].Sub(tri[0])
		n := e1.Cross(e2)
		if n.Length() == 0 {
			continue
		}
		ni := intern(normals, &set.Normals, toF32(n.Normalize()))

		corners := make([]obj.Corner, 3)
		for j := 0; j < 3; j++ {
			pi := intern(positions, &set.Positions, toF32(tri[j]))
			corners[j] = obj.Corner{Position: pi, TexCoord: obj.NoIndex, Normal: ni}
		}
		shapes = append(shapes, obj.Shape{Corners: corners})
	}

	set.Objects = []obj.Object{{
		Name:     name,
		Geometry: []obj.Geometry{{Shapes: shapes}},
	}}
	return set
}

func toF32(v v3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
