package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/objview/pkg/view"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/go-gl/mathgl/mgl32"
)

// sexpVec3 carries a vector between builtins.
type sexpVec3 struct {
	vec [3]float64
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

func (v *sexpVec3) mgl() mgl32.Vec3 {
	return mgl32.Vec3{float32(v.vec[0]), float32(v.vec[1]), float32(v.vec[2])}
}

// sexpSolid carries a procedural solid between builtins.
type sexpSolid struct {
	prim view.Primitive
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("#<solid %s>", s.prim.Kind)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// kwArgs splits an argument list into keyword and positional arguments.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := keywordName(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// unknown returns an error naming the first keyword not in allowed.
func (a kwArgs) unknown(fn string, allowed ...string) error {
	for name := range a.kw {
		found := false
		for _, ok := range allowed {
			if name == ok {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s: unknown keyword :%s", fn, name)
		}
	}
	return nil
}

// keywordName reports whether s is a preprocessed keyword.
func keywordName(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toPositive(s zygo.Sexp) (float64, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("expected positive number, got %g", f)
	}
	return f, nil
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		if _, kw := keywordName(s); kw {
			return "", fmt.Errorf("expected string, got keyword")
		}
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (*sexpVec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v, nil
	}
	return nil, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func toSolid(s zygo.Sexp) (*sexpSolid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// registerBuiltins installs the scene builtins. Each one mutates scene.
// Solid constructors return the solid and also make it the scene's mesh
// source, so the last mesh file or solid built wins and an enclosing
// operation replaces its operands.
//
// Source code must be preprocessed with preprocessSource() so that
// :keyword tokens reach the builtins as recognizable strings.
func registerBuiltins(env *zygo.Zlisp, scene *view.Scene) {

	// (vec3 x y z)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		v := &sexpVec3{}
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			v.vec[i] = f
		}
		return v, nil
	})

	// (window :width 960 :height 540 :title "viewer")
	env.AddFunction("window", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknown("window", "width", "height", "title"); err != nil {
			return zygo.SexpNull, err
		}
		w := scene.Window
		if v, ok := pa.kw["width"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("window: width: %w", err)
			}
			w.Width = n
		}
		if v, ok := pa.kw["height"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("window: height: %w", err)
			}
			w.Height = n
		}
		if v, ok := pa.kw["title"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("window: title: %w", err)
			}
			w.Title = s
		}
		scene.Window = w
		return zygo.SexpNull, nil
	})

	// (camera :eye (vec3 2 2 2) :target (vec3 0 0 0) :up (vec3 0 1 0)
	//         :fovy 90 :near 0.1 :far 10)
	env.AddFunction("camera", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknown("camera", "eye", "target", "up", "fovy", "near", "far"); err != nil {
			return zygo.SexpNull, err
		}
		c := scene.Camera
		vecs := []struct {
			key string
			dst *mgl32.Vec3
		}{{"eye", &c.Eye}, {"target", &c.Target}, {"up", &c.Up}}
		for _, f := range vecs {
			if v, ok := pa.kw[f.key]; ok {
				vec, err := toVec3(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("camera: %s: %w", f.key, err)
				}
				*f.dst = vec.mgl()
			}
		}
		if v, ok := pa.kw["fovy"]; ok {
			deg, err := toPositive(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("camera: fovy: %w", err)
			}
			c.FovY = float32(deg * math.Pi / 180)
		}
		if v, ok := pa.kw["near"]; ok {
			f, err := toPositive(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("camera: near: %w", err)
			}
			c.Near = float32(f)
		}
		if v, ok := pa.kw["far"]; ok {
			f, err := toPositive(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("camera: far: %w", err)
			}
			c.Far = float32(f)
		}
		scene.Camera = c
		return zygo.SexpNull, nil
	})

	// (mesh "model.obj")
	env.AddFunction("mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("mesh requires exactly 1 argument, got %d", len(args))
		}
		path, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: path: %w", err)
		}
		if path == "" {
			return zygo.SexpNull, fmt.Errorf("mesh: path must not be empty")
		}
		scene.MeshPath = path
		scene.Primitive = nil
		return zygo.SexpNull, nil
	})

	// (box :size (vec3 1 1 1))
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknown("box", "size"); err != nil {
			return zygo.SexpNull, err
		}
		p := view.DefaultPrimitive()
		if v, ok := pa.kw["size"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
			p.Size = vec.vec
		}
		return setPrimitive(scene, p)
	})

	// (sphere :radius 1)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknown("sphere", "radius"); err != nil {
			return zygo.SexpNull, err
		}
		p := view.Primitive{Kind: view.PrimSphere, Radius: 1}
		if v, ok := pa.kw["radius"]; ok {
			f, err := toPositive(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
			}
			p.Radius = f
		}
		return setPrimitive(scene, p)
	})

	// (cylinder :height 1 :radius 0.5)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknown("cylinder", "height", "radius"); err != nil {
			return zygo.SexpNull, err
		}
		p := view.Primitive{Kind: view.PrimCylinder, Height: 1, Radius: 0.5}
		if v, ok := pa.kw["height"]; ok {
			f, err := toPositive(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
			}
			p.Height = f
		}
		if v, ok := pa.kw["radius"]; ok {
			f, err := toPositive(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
			}
			p.Radius = f
		}
		return setPrimitive(scene, p)
	})

	// (union a b ...), (difference a b ...), (intersection a b ...)
	for _, kind := range []view.PrimitiveKind{view.PrimUnion, view.PrimDifference, view.PrimIntersection} {
		env.AddFunction(string(kind), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least 2 solids, got %d", kind, len(args))
			}
			p := view.Primitive{Kind: kind}
			for i, arg := range args {
				s, err := toSolid(arg)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", kind, i, err)
				}
				p.Children = append(p.Children, s.prim)
			}
			return setPrimitive(scene, p)
		})
	}

	// (translate solid (vec3 x y z)), (rotate solid (vec3 x y z)) in degrees
	for _, kind := range []view.PrimitiveKind{view.PrimTranslate, view.PrimRotate} {
		env.AddFunction(string(kind), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires a solid and a vec3, got %d arguments", kind, len(args))
			}
			s, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
			}
			v, err := toVec3(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
			}
			return setPrimitive(scene, view.Primitive{
				Kind:     kind,
				Vector:   v.vec,
				Children: []view.Primitive{s.prim},
			})
		})
	}
}

func setPrimitive(scene *view.Scene, p view.Primitive) (zygo.Sexp, error) {
	if err := p.Validate(); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", p.Kind, err)
	}
	scene.Primitive = &p
	scene.MeshPath = ""
	return &sexpSolid{prim: p}, nil
}
