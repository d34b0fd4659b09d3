package loader

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/chazu/objview/pkg/mesh"
	"github.com/chazu/objview/pkg/obj"
)

// tri builds a triangle shape from (position, normal) pairs.
func tri(pn ...[2]int) obj.Shape {
	s := obj.Shape{}
	for _, p := range pn {
		s.Corners = append(s.Corners, obj.Corner{Position: p[0], TexCoord: obj.NoIndex, Normal: p[1]})
	}
	return s
}

// makeSet wraps shapes in one object with one geometry group.
func makeSet(positions, normals int, shapes ...obj.Shape) *obj.Set {
	set := &obj.Set{
		Objects: []obj.Object{{
			Name:     "test",
			Geometry: []obj.Geometry{{Shapes: shapes}},
		}},
	}
	for i := 0; i < positions; i++ {
		set.Positions = append(set.Positions, [3]float32{float32(i), 0, 0})
	}
	for i := 0; i < normals; i++ {
		set.Normals = append(set.Normals, [3]float32{0, 0, float32(i + 1)})
	}
	return set
}

func TestBuildSingleTriangle(t *testing.T) {
	set := makeSet(3, 3, tri([2]int{0, 0}, [2]int{1, 1}, [2]int{2, 2}))

	m, err := Build(set)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if m.VertexCount() != 3 {
		t.Errorf("expected 3 vertices, got %d", m.VertexCount())
	}
	if want := []mesh.VertexIndex{0, 1, 2}; !reflect.DeepEqual(m.Indices, want) {
		t.Errorf("indices = %v, want %v", m.Indices, want)
	}
	if m.Name != "test" {
		t.Errorf("name = %q, want %q", m.Name, "test")
	}
	if m.Vertices[2].Position != [3]float32{2, 0, 0} || m.Vertices[2].Normal != [3]float32{0, 0, 3} {
		t.Errorf("vertex 2 = %+v", m.Vertices[2])
	}
}

func TestBuildReusesSharedCorners(t *testing.T) {
	set := makeSet(4, 1,
		tri([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}),
		tri([2]int{0, 0}, [2]int{1, 0}, [2]int{3, 0}),
	)

	m, err := Build(set)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if m.VertexCount() != 4 {
		t.Errorf("expected 4 vertices, got %d", m.VertexCount())
	}
	if want := []mesh.VertexIndex{0, 1, 2, 0, 1, 3}; !reflect.DeepEqual(m.Indices, want) {
		t.Errorf("indices = %v, want %v", m.Indices, want)
	}
}

func TestBuildKeepsWinding(t *testing.T) {
	set := makeSet(3, 1,
		tri([2]int{2, 0}, [2]int{0, 0}, [2]int{1, 0}),
		tri([2]int{1, 0}, [2]int{0, 0}, [2]int{2, 0}),
	)
	m, err := Build(set)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	// First-encounter order: position 2 -> 0, position 0 -> 1, position 1 -> 2.
	if want := []mesh.VertexIndex{0, 1, 2, 2, 1, 0}; !reflect.DeepEqual(m.Indices, want) {
		t.Errorf("indices = %v, want %v", m.Indices, want)
	}
	if m.Vertices[0].Position != [3]float32{2, 0, 0} {
		t.Errorf("vertex 0 position = %v, want [2 0 0]", m.Vertices[0].Position)
	}
}

func TestBuildSamePositionDifferentNormal(t *testing.T) {
	set := makeSet(3, 2,
		tri([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}),
		tri([2]int{0, 1}, [2]int{2, 1}, [2]int{1, 1}),
	)
	m, err := Build(set)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if m.VertexCount() != 6 {
		t.Errorf("expected 6 vertices, got %d", m.VertexCount())
	}
}

func TestBuildIgnoresTexCoordInKey(t *testing.T) {
	set := makeSet(3, 1,
		obj.Shape{Corners: []obj.Corner{
			{Position: 0, TexCoord: 0, Normal: 0},
			{Position: 1, TexCoord: 1, Normal: 0},
			{Position: 2, TexCoord: 2, Normal: 0},
		}},
		obj.Shape{Corners: []obj.Corner{
			{Position: 0, TexCoord: 5, Normal: 0},
			{Position: 2, TexCoord: 6, Normal: 0},
			{Position: 1, TexCoord: obj.NoIndex, Normal: 0},
		}},
	)
	m, err := Build(set)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if m.VertexCount() != 3 {
		t.Errorf("expected 3 vertices, got %d", m.VertexCount())
	}
}

func TestBuildEmptyGeometry(t *testing.T) {
	m, err := Build(makeSet(0, 0))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !m.IsEmpty() || len(m.Indices) != 0 {
		t.Errorf("expected empty mesh, got %d vertices %d indices", m.VertexCount(), len(m.Indices))
	}
}

func TestBuildErrors(t *testing.T) {
	twoObjects := makeSet(3, 1, tri([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}))
	twoObjects.Objects = append(twoObjects.Objects, twoObjects.Objects[0])

	twoGroups := makeSet(3, 1, tri([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}))
	twoGroups.Objects[0].Geometry = append(twoGroups.Objects[0].Geometry, obj.Geometry{Material: "other"})

	noGroups := makeSet(3, 1)
	noGroups.Objects[0].Geometry = nil

	quad := makeSet(4, 1, tri([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}, [2]int{3, 0}))

	line := makeSet(2, 1, tri([2]int{0, 0}, [2]int{1, 0}))

	// A polyline through three points has three corners but is not a face.
	polyline := makeSet(3, 1, tri([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}))
	polyline.Objects[0].Geometry[0].Shapes[0].Kind = obj.ShapeLine

	tests := []struct {
		name string
		set  *obj.Set
		want error
	}{
		{"nil set", nil, ErrStructure},
		{"no objects", &obj.Set{}, ErrStructure},
		{"two objects", twoObjects, ErrStructure},
		{"two geometry groups", twoGroups, ErrStructure},
		{"no geometry groups", noGroups, ErrStructure},
		{"quad", quad, ErrUnsupportedPrimitive},
		{"line", line, ErrUnsupportedPrimitive},
		{"three-point polyline", polyline, ErrUnsupportedPrimitive},
		{"missing normal", makeSet(3, 1, tri([2]int{0, 0}, [2]int{1, obj.NoIndex}, [2]int{2, 0})), ErrMissingNormal},
		{"normal out of range", makeSet(3, 1, tri([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 4})), ErrMissingNormal},
		{"position out of range", makeSet(3, 1, tri([2]int{0, 0}, [2]int{1, 0}, [2]int{9, 0})), ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(tt.set)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Build() error = %v, want %v", err, tt.want)
			}
			if m != nil {
				t.Error("Build() returned a partial mesh on failure")
			}
		})
	}
}

func TestBuildQuadAfterValidTriangles(t *testing.T) {
	set := makeSet(4, 1,
		tri([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}),
		tri([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}, [2]int{3, 0}),
	)
	if _, err := Build(set); !errors.Is(err, ErrUnsupportedPrimitive) {
		t.Fatalf("Build() error = %v, want %v", err, ErrUnsupportedPrimitive)
	}
}

// TestBuildInvariants checks the dedup, index-validity and index-count
// properties over a generated strip of triangles.
func TestBuildInvariants(t *testing.T) {
	const positions, normals = 17, 3
	var shapes []obj.Shape
	for i := 0; i+2 < positions; i++ {
		n := i % normals
		shapes = append(shapes, tri([2]int{i, n}, [2]int{i + 1, n}, [2]int{i + 2, (n + 1) % normals}))
	}
	set := makeSet(positions, normals, shapes...)

	distinct := map[RawVertexKey]bool{}
	for _, s := range shapes {
		for _, c := range s.Corners {
			distinct[RawVertexKey{Position: c.Position, Normal: c.Normal}] = true
		}
	}

	m, err := Build(set)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if m.VertexCount() != len(distinct) {
		t.Errorf("vertex count = %d, want %d distinct keys", m.VertexCount(), len(distinct))
	}
	if len(m.Indices) != 3*len(shapes) {
		t.Errorf("index count = %d, want %d", len(m.Indices), 3*len(shapes))
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	again, err := Build(set)
	if err != nil {
		t.Fatalf("second Build() error = %v", err)
	}
	if !reflect.DeepEqual(m, again) {
		t.Error("building the same set twice produced different meshes")
	}
}

func TestInspect(t *testing.T) {
	set := makeSet(4, 1,
		tri([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}),
		tri([2]int{0, 0}, [2]int{1, 0}, [2]int{3, 0}),
	)
	st, err := Inspect(set)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if st != (Stats{Object: "test", Positions: 4, Shapes: 2}) {
		t.Errorf("Inspect() = %+v", st)
	}

	if _, err := Inspect(&obj.Set{}); !errors.Is(err, ErrStructure) {
		t.Errorf("Inspect() on empty set error = %v, want %v", err, ErrStructure)
	}
}

// --- file-based tests ---

func testdata(name string) string {
	return filepath.Join("testdata", name)
}

func TestLoadFiles(t *testing.T) {
	tests := []struct {
		file      string
		vertices  int
		triangles int
		name      string
	}{
		{"triangle.obj", 3, 1, "tri"},
		{"two_triangles.obj", 4, 2, "pair"},
		{"cube.obj", 24, 12, "cube"},
		{"group_line.obj", 4, 2, "panel"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			m, err := Load(testdata(tt.file))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if m.VertexCount() != tt.vertices {
				t.Errorf("vertices = %d, want %d", m.VertexCount(), tt.vertices)
			}
			if m.TriangleCount() != tt.triangles {
				t.Errorf("triangles = %d, want %d", m.TriangleCount(), tt.triangles)
			}
			if m.Name != tt.name {
				t.Errorf("name = %q, want %q", m.Name, tt.name)
			}
			if err := m.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestLoadTwoTrianglesIndices(t *testing.T) {
	m, err := Load(testdata("two_triangles.obj"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := []mesh.VertexIndex{0, 1, 2, 0, 1, 3}; !reflect.DeepEqual(m.Indices, want) {
		t.Errorf("indices = %v, want %v", m.Indices, want)
	}
}

func TestLoadDeterministic(t *testing.T) {
	a, err := Load(testdata("cube.obj"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	b, err := Load(testdata("cube.obj"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("loading the same file twice produced different meshes")
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		file string
		want error
	}{
		{"does_not_exist.obj", ErrIO},
		{"two_objects.obj", ErrStructure},
		{"two_materials.obj", ErrStructure},
		{"quad.obj", ErrUnsupportedPrimitive},
		{"no_normals.obj", ErrMissingNormal},
		{"line_element.obj", ErrUnsupportedPrimitive},
		{"point_element.obj", ErrUnsupportedPrimitive},
		{"two_corner_face.obj", ErrUnsupportedPrimitive},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			m, err := Load(testdata(tt.file))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Load() error = %v, want %v", err, tt.want)
			}
			if m != nil {
				t.Error("Load() returned a mesh on failure")
			}
		})
	}
}

func TestLoadReaderParseError(t *testing.T) {
	_, err := LoadReader("inline", strings.NewReader("o bad\nv 0 0 0\nl 1 x\n"))
	if !errors.Is(err, ErrParse) {
		t.Fatalf("LoadReader() error = %v, want %v", err, ErrParse)
	}
	if !strings.Contains(err.Error(), "inline") {
		t.Errorf("error %q does not name the source", err)
	}
}
