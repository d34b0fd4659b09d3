package main

import (
	"fmt"
	"log"

	"github.com/chazu/objview/pkg/engine"
	"github.com/chazu/objview/pkg/kernel"
	"github.com/chazu/objview/pkg/loader"
	"github.com/chazu/objview/pkg/mesh"
	"github.com/chazu/objview/pkg/view"
)

// defaultColor is the part color reported when none is configured.
const defaultColor = "#4A90D9"

// App wires the scene engine, the OBJ loader and the procedural kernel.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData is the JSON-serializable mesh format handed to a renderer.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// ErrorData is a JSON-serializable error.
type ErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ViewResult is the full result of resolving a scene.
type ViewResult struct {
	Scene  *view.Scene `json:"scene"`
	Mesh   *MeshData   `json:"mesh"`
	Errors []ErrorData `json:"errors"`

	mesh *mesh.Mesh
}

// NewApp creates an App using k for procedural meshes.
func NewApp(k kernel.Kernel) *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: k,
	}
}

// Scene evaluates a scene script.
func (a *App) Scene(source string) (*view.Scene, []ErrorData) {
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("scene fatal error: %v", err)
		return nil, []ErrorData{{Message: err.Error()}}
	}
	if len(evalErrs) > 0 {
		out := make([]ErrorData, 0, len(evalErrs))
		for _, e := range evalErrs {
			out = append(out, ErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return nil, out
	}
	return s, nil
}

// Evaluate runs a scene script and resolves the mesh it names.
func (a *App) Evaluate(source string) ViewResult {
	s, errs := a.Scene(source)
	if len(errs) > 0 {
		return ViewResult{Errors: errs}
	}
	return a.Show(s)
}

// Open loads the OBJ file at path with the default scene.
func (a *App) Open(path string) ViewResult {
	s := view.DefaultScene()
	s.MeshPath = path
	return a.Show(s)
}

// Show resolves the scene's mesh: the OBJ file if one is named, otherwise
// its primitive, otherwise a unit cube.
func (a *App) Show(s *view.Scene) ViewResult {
	result := ViewResult{Scene: s, Errors: []ErrorData{}}

	var (
		m   *mesh.Mesh
		err error
	)
	if s.MeshPath != "" {
		m, err = a.load(s.MeshPath)
	} else {
		p := view.DefaultPrimitive()
		if s.Primitive != nil {
			p = *s.Primitive
		}
		m, err = a.tessellate(p)
	}
	return result.attach(m, err)
}

// Primitive tessellates p with the default scene.
func (a *App) Primitive(p view.Primitive) ViewResult {
	s := view.DefaultScene()
	s.Primitive = &p
	return a.Show(s)
}

// attach records either the built mesh or the error that prevented it.
func (r ViewResult) attach(m *mesh.Mesh, err error) ViewResult {
	if err != nil {
		log.Printf("mesh error: %v", err)
		r.Errors = append(r.Errors, ErrorData{Message: err.Error()})
		return r
	}
	log.Printf("%d unique vertices, %d triangles", m.VertexCount(), m.TriangleCount())
	r.mesh = m
	r.Mesh = &MeshData{
		Vertices: m.Positions(),
		Normals:  m.Normals(),
		Indices:  m.Indices,
		PartName: m.Name,
		Color:    defaultColor,
	}
	return r
}

// load parses, reports and builds an OBJ file.
func (a *App) load(path string) (*mesh.Mesh, error) {
	log.Printf("loading %s", path)
	set, err := loader.ParseFile(path)
	if err != nil {
		return nil, err
	}
	for _, w := range set.Warnings {
		log.Printf("obj warning: %s", w)
	}

	stats, err := loader.Inspect(set)
	if err != nil {
		return nil, err
	}
	log.Printf("object %q", stats.Object)
	log.Printf("%d vertices", stats.Positions)
	log.Printf("%d shapes", stats.Shapes)

	return loader.Build(set)
}

// tessellate turns a procedural solid into a mesh.
func (a *App) tessellate(p view.Primitive) (*mesh.Mesh, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	log.Printf("tessellating %s", p.Kind)
	m, err := a.kernel.ToMesh(a.solid(p))
	if err != nil {
		return nil, fmt.Errorf("tessellation failed: %w", err)
	}
	m.Name = string(p.Kind)
	return m, nil
}

// solid builds the kernel solid for a validated primitive tree.
func (a *App) solid(p view.Primitive) kernel.Solid {
	k := a.kernel
	switch p.Kind {
	case view.PrimBox:
		return k.Box(p.Size[0], p.Size[1], p.Size[2])
	case view.PrimSphere:
		return k.Sphere(p.Radius)
	case view.PrimCylinder:
		return k.Cylinder(p.Height, p.Radius)
	case view.PrimTranslate:
		return k.Translate(a.solid(p.Children[0]), p.Vector[0], p.Vector[1], p.Vector[2])
	case view.PrimRotate:
		return k.Rotate(a.solid(p.Children[0]), p.Vector[0], p.Vector[1], p.Vector[2])
	}

	s := a.solid(p.Children[0])
	for _, c := range p.Children[1:] {
		switch p.Kind {
		case view.PrimUnion:
			s = k.Union(s, a.solid(c))
		case view.PrimDifference:
			s = k.Difference(s, a.solid(c))
		case view.PrimIntersection:
			s = k.Intersection(s, a.solid(c))
		}
	}
	return s
}
