package earthview

import (
	"github.com/deadsy/sdfx/vec/v3"
	"math"
)

//-----------------------------------------------------------------------------
// CONSTANTS
//-----------------------------------------------------------------------------

const (
	// OrbitGain is the proportional gain pulling the angular velocity towards its target.
	OrbitGain = 30.
	// OrbitMaxAngularVelocity bounds both the angular velocity and its target (radians/second).
	OrbitMaxAngularVelocity = 2.5
	// OrbitMinZoom and OrbitMaxZoom bound the zoom factor.
	OrbitMinZoom = 0.43
	OrbitMaxZoom = 3.
	// OrbitBaseRadius is the camera distance to the origin at zoom 1.
	OrbitBaseRadius = 16.
	// OrbitMaxStep caps the time step integrated at once (seconds), e.g. after the window was suspended.
	OrbitMaxStep = 1.

	wheelStep     = 0.1
	wheelExponent = 0.3
)

//-----------------------------------------------------------------------------
// STATE
//-----------------------------------------------------------------------------

// OrbitState is the full state vector of the orbit camera.
type OrbitState struct {
	Angle                 float64 // Azimuth in radians, accumulated without wrapping
	AngularVelocity       float64 // Radians per second
	TargetAngularVelocity float64 // Set from the horizontal pointer position
	Zoom                  float64 // Scales the orbit radius
}

// DefaultOrbitState is the state of a freshly created orbit.
func DefaultOrbitState() OrbitState {
	return OrbitState{Zoom: 1}
}

// Camera is the read-only view of the orbit used to render a frame.
type Camera struct {
	Position, Target, Up v3.Vec
}

//-----------------------------------------------------------------------------
// CONTROLLER
//-----------------------------------------------------------------------------

// Orbit is the orbit/zoom controller: pointer and wheel events set targets, Step integrates the motion.
// It is not safe for concurrent use: events and frames are expected to come from the same goroutine.
type Orbit struct {
	state    OrbitState
	pointerY float64 // Normalized vertical pointer position, kept for inspection only
}

// NewOrbit creates an orbit with the default state.
func NewOrbit() *Orbit {
	return &Orbit{state: DefaultOrbitState()}
}

// Reset restores the default state.
func (o *Orbit) Reset() {
	o.state = DefaultOrbitState()
	o.pointerY = 0
}

// State returns a copy of the current state.
func (o *Orbit) State() OrbitState {
	return o.state
}

// PointerY returns the last normalized vertical pointer position (unused by the orbit itself).
func (o *Orbit) PointerY() float64 {
	return o.pointerY
}

// Step advances the orbit by dt seconds using an explicit Euler step of the damped control law.
// Steps longer than OrbitMaxStep are shortened to it.
func (o *Orbit) Step(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	dt = math.Min(dt, OrbitMaxStep)
	accel := OrbitGain * (o.state.TargetAngularVelocity - o.state.AngularVelocity)
	o.state.AngularVelocity = Clamp(o.state.AngularVelocity+dt*accel, -OrbitMaxAngularVelocity, OrbitMaxAngularVelocity)
	o.state.Angle += dt * o.state.AngularVelocity
}

// PointerMove maps the pointer position inside the surface rectangle (left, top, width, height) to a target
// angular velocity: -max on the left border, 0 at the center and +max on the right border.
func (o *Orbit) PointerMove(x, y, left, top, width, height float64) {
	if normalizedX := (x - left) / width; width > 0 && !math.IsNaN(normalizedX) {
		o.state.TargetAngularVelocity = Clamp(OrbitMaxAngularVelocity*(2*normalizedX-1),
			-OrbitMaxAngularVelocity, OrbitMaxAngularVelocity)
	}
	if normalizedY := (y - top) / height; height > 0 && !math.IsNaN(normalizedY) {
		o.pointerY = normalizedY
	}
}

// Wheel applies a scroll event with the given vertical delta (DOM convention: positive scrolls down, zooming out).
func (o *Orbit) Wheel(deltaY float64) {
	if math.IsNaN(deltaY) {
		return
	}
	factor := 1 + wheelStep*math.Tanh(deltaY)
	o.state.Zoom = Clamp(o.state.Zoom*math.Pow(factor, wheelExponent), OrbitMinZoom, OrbitMaxZoom)
}

// Camera places the camera on a horizontal circle around the origin, looking at it.
func (o *Orbit) Camera() Camera {
	radius := OrbitBaseRadius * o.state.Zoom
	return Camera{
		Position: v3.Vec{X: radius * math.Cos(o.state.Angle), Z: radius * math.Sin(o.state.Angle)},
		Target:   v3.Vec{},
		Up:       v3.Vec{Y: 1},
	}
}
