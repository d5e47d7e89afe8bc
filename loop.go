package earthview

import (
	"errors"
	"sync/atomic"
	"time"
)

// ErrStopped is returned when starting a loop (or renderer) that was already stopped.
var ErrStopped = errors.New("earthview: stopped")

// Scheduler requests a single callback before the next display repaint (requestAnimationFrame-like).
// The callback receives the timestamp of the frame.
type Scheduler interface {
	RequestFrame(func(now time.Time))
}

// Controller is the state advanced by a Loop once per frame.
type Controller interface {
	Step(dt float64)
	Camera() Camera
}

// Loop is the per-frame update/render cycle: it steps the controller with the time elapsed since the previous
// frame, renders once and schedules itself again until stopped.
type Loop struct {
	ctrl    Controller
	sched   Scheduler
	render  func(Camera)
	last    time.Time
	hasLast bool
	started bool
	stopped atomic.Bool
	frames  atomic.Uint64
}

// NewLoop creates a loop that is not yet running (see Start).
func NewLoop(ctrl Controller, sched Scheduler, render func(Camera)) *Loop {
	return &Loop{ctrl: ctrl, sched: sched, render: render}
}

// Start requests the first frame. Starting a running loop does nothing.
func (l *Loop) Start() error {
	if l.stopped.Load() {
		return ErrStopped
	}
	if l.started {
		return nil
	}
	l.started = true
	l.sched.RequestFrame(l.frame)
	return nil
}

// Stop prevents any further frame from being rendered or scheduled. It may be called from any goroutine.
func (l *Loop) Stop() {
	l.stopped.Store(true)
}

// Stopped reports whether Stop was called.
func (l *Loop) Stopped() bool {
	return l.stopped.Load()
}

// Frames returns the number of rendered frames.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

func (l *Loop) frame(now time.Time) {
	if l.stopped.Load() {
		return
	}
	dt := 0.
	if l.hasLast {
		dt = now.Sub(l.last).Seconds()
		if dt < 0 { // Clock went backwards
			dt = 0
		}
	}
	l.last, l.hasLast = now, true
	l.ctrl.Step(dt)
	if l.render != nil {
		l.render(l.ctrl.Camera())
	}
	l.frames.Add(1)
	if !l.stopped.Load() {
		l.sched.RequestFrame(l.frame)
	}
}
