// Package view describes how a mesh is presented: window size, camera
// transform, clear color over time, and the scene that ties them together.
// Nothing here opens a window; values are handed to whatever renderer the
// caller drives.
package view

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Window describes the output surface.
type Window struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
}

// DefaultWindow returns a 960x540 window.
func DefaultWindow() Window {
	return Window{Width: 960, Height: 540, Title: "Hello, world!"}
}

// Aspect returns width / height, or 1 for a degenerate window.
func (w Window) Aspect() float32 {
	if w.Width <= 0 || w.Height <= 0 {
		return 1
	}
	return float32(w.Width) / float32(w.Height)
}

// Camera is a perspective camera looking from Eye at Target.
type Camera struct {
	Eye    mgl32.Vec3 `json:"eye"`
	Target mgl32.Vec3 `json:"target"`
	Up     mgl32.Vec3 `json:"up"`
	FovY   float32    `json:"fovy"` // radians
	Near   float32    `json:"near"`
	Far    float32    `json:"far"`
}

// DefaultCamera looks at the origin from (2, 2, 2) with a 90 degree field
// of view.
func DefaultCamera() Camera {
	return Camera{
		Eye:    mgl32.Vec3{2, 2, 2},
		Target: mgl32.Vec3{0, 0, 0},
		Up:     mgl32.Vec3{0, 1, 0},
		FovY:   math32.Pi / 2,
		Near:   0.1,
		Far:    10,
	}
}

// Projection returns the perspective projection matrix for aspect.
func (c Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// View returns the world-to-camera matrix.
func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Target, c.Up)
}

// ClearColor returns the background color at t seconds: red and green
// oscillate out of phase, blue is fixed at one half.
func ClearColor(t float32) [4]float32 {
	return [4]float32{math32.Cos(t), math32.Sin(t), 0.5, 1}
}

// Clock is the per-run frame timer. Create one per render loop.
type Clock struct {
	start time.Time
}

// NewClock returns a clock started at start.
func NewClock(start time.Time) *Clock {
	return &Clock{start: start}
}

// StartClock returns a clock started now.
func StartClock() *Clock {
	return NewClock(time.Now())
}

// Elapsed returns seconds since the clock started, at millisecond
// resolution.
func (c *Clock) Elapsed(now time.Time) float32 {
	return float32(now.Sub(c.start).Milliseconds()) * 1e-3
}

// ClearColorAt returns the clear color for the frame drawn at now.
func (c *Clock) ClearColorAt(now time.Time) [4]float32 {
	return ClearColor(c.Elapsed(now))
}

// ColorVertex is a 2-D vertex with an 8-bit RGB color.
type ColorVertex struct {
	Position [2]float32
	Color    [3]uint8
}

// Triangle returns the red/green/blue demo triangle in clip space.
func Triangle() []ColorVertex {
	return []ColorVertex{
		{Position: [2]float32{-0.5, -0.5}, Color: [3]uint8{255, 0, 0}},
		{Position: [2]float32{0.5, -0.5}, Color: [3]uint8{0, 255, 0}},
		{Position: [2]float32{0, 0.5}, Color: [3]uint8{0, 0, 255}},
	}
}
