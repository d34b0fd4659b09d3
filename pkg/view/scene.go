package view

import (
	"fmt"

	"github.com/chewxy/math32"
)

// PrimitiveKind names a procedural solid or an operation on solids.
type PrimitiveKind string

const (
	PrimBox      PrimitiveKind = "box"
	PrimSphere   PrimitiveKind = "sphere"
	PrimCylinder PrimitiveKind = "cylinder"

	PrimUnion        PrimitiveKind = "union"
	PrimDifference   PrimitiveKind = "difference"
	PrimIntersection PrimitiveKind = "intersection"
	PrimTranslate    PrimitiveKind = "translate"
	PrimRotate       PrimitiveKind = "rotate"
)

// Primitive describes a procedural solid shown when no mesh file is given.
// Boolean operations combine their children left to right; transforms apply
// Vector to their single child.
type Primitive struct {
	Kind     PrimitiveKind `json:"kind"`
	Size     [3]float64    `json:"size,omitempty"`     // box
	Radius   float64       `json:"radius,omitempty"`   // sphere, cylinder
	Height   float64       `json:"height,omitempty"`   // cylinder
	Vector   [3]float64    `json:"vector,omitempty"`   // translate offset, rotate angles in degrees
	Children []Primitive   `json:"children,omitempty"` // operands
}

// DefaultPrimitive is a unit cube.
func DefaultPrimitive() Primitive {
	return Primitive{Kind: PrimBox, Size: [3]float64{1, 1, 1}}
}

// Validate checks that the primitive and all of its operands are usable.
func (p Primitive) Validate() error {
	switch p.Kind {
	case PrimBox:
		if p.Size[0] <= 0 || p.Size[1] <= 0 || p.Size[2] <= 0 {
			return fmt.Errorf("box size must be positive, got %v", p.Size)
		}
	case PrimSphere:
		if p.Radius <= 0 {
			return fmt.Errorf("sphere radius must be positive, got %g", p.Radius)
		}
	case PrimCylinder:
		if p.Radius <= 0 || p.Height <= 0 {
			return fmt.Errorf("cylinder radius and height must be positive, got %g, %g", p.Radius, p.Height)
		}
	case PrimUnion, PrimDifference, PrimIntersection:
		if len(p.Children) < 2 {
			return fmt.Errorf("%s needs at least 2 solids, got %d", p.Kind, len(p.Children))
		}
	case PrimTranslate, PrimRotate:
		if len(p.Children) != 1 {
			return fmt.Errorf("%s needs exactly 1 solid, got %d", p.Kind, len(p.Children))
		}
	default:
		return fmt.Errorf("unknown primitive kind %q", p.Kind)
	}
	for i, c := range p.Children {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s operand %d: %w", p.Kind, i, err)
		}
	}
	return nil
}

// Scene is everything needed to present one mesh.
type Scene struct {
	Window    Window     `json:"window"`
	Camera    Camera     `json:"camera"`
	MeshPath  string     `json:"meshPath,omitempty"`
	Primitive *Primitive `json:"primitive,omitempty"`
}

// DefaultScene returns the default window and camera with no mesh source.
func DefaultScene() *Scene {
	return &Scene{
		Window: DefaultWindow(),
		Camera: DefaultCamera(),
	}
}

// Validate checks window and camera parameters.
func (s *Scene) Validate() error {
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return fmt.Errorf("view: window size must be positive, got %dx%d", s.Window.Width, s.Window.Height)
	}
	c := s.Camera
	if c.FovY <= 0 || c.FovY >= math32.Pi {
		return fmt.Errorf("view: fovy must be in (0, pi), got %g", c.FovY)
	}
	if c.Near <= 0 || c.Far <= c.Near {
		return fmt.Errorf("view: need 0 < near < far, got near=%g far=%g", c.Near, c.Far)
	}
	if c.Eye.Sub(c.Target).Len() == 0 {
		return fmt.Errorf("view: camera eye and target coincide")
	}
	if s.Primitive != nil {
		if err := s.Primitive.Validate(); err != nil {
			return fmt.Errorf("view: %w", err)
		}
	}
	return nil
}
