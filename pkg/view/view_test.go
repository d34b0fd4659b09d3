package view

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestClearColor(t *testing.T) {
	tests := []struct {
		name string
		t    float32
		want [4]float32
	}{
		{"start", 0, [4]float32{1, 0, 0.5, 1}},
		{"quarter turn", math.Pi / 2, [4]float32{0, 1, 0.5, 1}},
		{"half turn", math.Pi, [4]float32{-1, 0, 0.5, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClearColor(tt.t)
			for i := range got {
				if !near(got[i], tt.want[i]) {
					t.Errorf("ClearColor(%v) = %v, want %v", tt.t, got, tt.want)
					break
				}
			}
		})
	}
}

func TestClockElapsed(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock(start)

	if got := c.Elapsed(start); got != 0 {
		t.Errorf("Elapsed(start) = %v, want 0", got)
	}
	if got := c.Elapsed(start.Add(1500 * time.Millisecond)); !near(got, 1.5) {
		t.Errorf("Elapsed(+1.5s) = %v, want 1.5", got)
	}
	col := c.ClearColorAt(start)
	if col != [4]float32{1, 0, 0.5, 1} {
		t.Errorf("ClearColorAt(start) = %v", col)
	}
}

func TestDefaultCameraMatrices(t *testing.T) {
	c := DefaultCamera()
	w := DefaultWindow()

	want := mgl32.Perspective(math.Pi/2, 960.0/540.0, 0.1, 10)
	if got := c.Projection(w.Aspect()); !got.ApproxEqual(want) {
		t.Errorf("Projection() = %v, want %v", got, want)
	}

	view := c.View()
	// The origin is straight ahead of the camera, at distance |(2,2,2)|.
	p := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !near(p.X(), 0) || !near(p.Y(), 0) {
		t.Errorf("origin in view space = %v, want on the -Z axis", p)
	}
	if !near(p.Z(), -float32(math.Sqrt(12))) {
		t.Errorf("origin depth = %v, want %v", p.Z(), -math.Sqrt(12))
	}
}

func TestWindowAspect(t *testing.T) {
	if got := (Window{Width: 200, Height: 100}).Aspect(); got != 2 {
		t.Errorf("Aspect() = %v, want 2", got)
	}
	if got := (Window{}).Aspect(); got != 1 {
		t.Errorf("Aspect() of empty window = %v, want 1", got)
	}
}

func TestTriangle(t *testing.T) {
	tri := Triangle()
	if len(tri) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(tri))
	}
	if tri[0].Color != [3]uint8{255, 0, 0} || tri[2].Position != [2]float32{0, 0.5} {
		t.Errorf("Triangle() = %+v", tri)
	}
}

func TestSceneValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Scene)
		wantErr bool
	}{
		{"default", func(s *Scene) {}, false},
		{"zero width", func(s *Scene) { s.Window.Width = 0 }, true},
		{"far before near", func(s *Scene) { s.Camera.Far = 0.05 }, true},
		{"flat fov", func(s *Scene) { s.Camera.FovY = 0 }, true},
		{"eye on target", func(s *Scene) { s.Camera.Eye = s.Camera.Target }, true},
		{"good primitive", func(s *Scene) { p := DefaultPrimitive(); s.Primitive = &p }, false},
		{"bad sphere", func(s *Scene) { s.Primitive = &Primitive{Kind: PrimSphere} }, true},
		{"unknown primitive", func(s *Scene) { s.Primitive = &Primitive{Kind: "torus"} }, true},
		{"union", func(s *Scene) {
			s.Primitive = &Primitive{Kind: PrimUnion, Children: []Primitive{DefaultPrimitive(), {Kind: PrimSphere, Radius: 1}}}
		}, false},
		{"union of one", func(s *Scene) {
			s.Primitive = &Primitive{Kind: PrimUnion, Children: []Primitive{DefaultPrimitive()}}
		}, true},
		{"translate", func(s *Scene) {
			s.Primitive = &Primitive{Kind: PrimTranslate, Vector: [3]float64{1, 0, 0}, Children: []Primitive{DefaultPrimitive()}}
		}, false},
		{"rotate without solid", func(s *Scene) { s.Primitive = &Primitive{Kind: PrimRotate} }, true},
		{"bad nested operand", func(s *Scene) {
			inner := Primitive{Kind: PrimTranslate, Children: []Primitive{{Kind: PrimSphere}}}
			s.Primitive = &Primitive{Kind: PrimDifference, Children: []Primitive{DefaultPrimitive(), inner}}
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultScene()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
