package earthview

import (
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-9

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestOrbitDefaults(t *testing.T) {
	o := NewOrbit()
	if got := o.State(); got != (OrbitState{Zoom: 1}) {
		t.Fatalf("unexpected default state %+v", got)
	}
	cam := o.Camera()
	if !near(cam.Position.X, 16, eps) || cam.Position.Y != 0 || !near(cam.Position.Z, 0, eps) {
		t.Fatalf("unexpected default camera position %+v", cam.Position)
	}
	if cam.Target.Length() != 0 || cam.Up.Y != 1 {
		t.Fatalf("camera must look at the origin with +Y up, got %+v", cam)
	}
}

func TestOrbitStepZeroDt(t *testing.T) {
	o := NewOrbit()
	o.PointerMove(100, 0, 0, 0, 100, 100) // Full speed target
	before := o.State()
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		o.Step(dt)
		if got := o.State(); got != before {
			t.Fatalf("Step(%v) changed the state from %+v to %+v", dt, before, got)
		}
	}
}

func TestOrbitStepSaturates(t *testing.T) {
	o := NewOrbit()
	o.PointerMove(200, 0, 0, 0, 200, 100)
	if got := o.State().TargetAngularVelocity; !near(got, 2.5, eps) {
		t.Fatalf("expected target 2.5 on the right border, got %v", got)
	}
	o.Step(0.1) // 0.1*30*2.5 = 7.5 -> clamped to 2.5
	st := o.State()
	if !near(st.AngularVelocity, 2.5, eps) {
		t.Fatalf("expected clamped angular velocity 2.5, got %v", st.AngularVelocity)
	}
	if !near(st.Angle, 0.25, eps) {
		t.Fatalf("expected angle 0.25, got %v", st.Angle)
	}
}

func TestOrbitStepDamped(t *testing.T) {
	o := NewOrbit()
	o.PointerMove(60, 0, 0, 0, 100, 100) // target = 2.5*(2*0.6-1) = 0.5
	o.Step(0.01)                         // velocity = 0.01*30*0.5 = 0.15
	st := o.State()
	if !near(st.AngularVelocity, 0.15, eps) || !near(st.Angle, 0.0015, eps) {
		t.Fatalf("unexpected state after a damped step: %+v", st)
	}
	for i := 0; i < 1000; i++ {
		o.Step(0.01)
	}
	if got := o.State().AngularVelocity; !near(got, 0.5, 1e-6) {
		t.Fatalf("velocity should converge to the target 0.5, got %v", got)
	}
}

func TestOrbitAngleIsNotWrapped(t *testing.T) {
	o := NewOrbit()
	o.PointerMove(1, 0, 0, 0, 1, 1)
	for i := 0; i < 1000; i++ {
		o.Step(0.05)
	}
	st := o.State()
	if st.Angle < 2*math.Pi*10 {
		t.Fatalf("angle should keep accumulating, got %v", st.Angle)
	}
	cam := o.Camera()
	radius := math.Hypot(cam.Position.X, cam.Position.Z)
	if !near(radius, 16, 1e-9) || cam.Position.Y != 0 {
		t.Fatalf("camera left its orbit: %+v", cam.Position)
	}
	if !near(cam.Position.X, 16*math.Cos(st.Angle), 1e-9) || !near(cam.Position.Z, 16*math.Sin(st.Angle), 1e-9) {
		t.Fatalf("camera position does not follow the angle: %+v", cam.Position)
	}
}

func TestOrbitPointerMonotonic(t *testing.T) {
	o := NewOrbit()
	const width = 800.
	prev := math.Inf(-1)
	for x := -100.; x <= width+100; x += 7 {
		o.PointerMove(x, 0, 0, 0, width, 600)
		got := o.State().TargetAngularVelocity
		if got < prev {
			t.Fatalf("target decreased from %v to %v at x=%v", prev, got, x)
		}
		if got < -OrbitMaxAngularVelocity || got > OrbitMaxAngularVelocity {
			t.Fatalf("target %v out of bounds at x=%v", got, x)
		}
		prev = got
	}
	o.PointerMove(width/2, 0, 0, 0, width, 600)
	if got := o.State().TargetAngularVelocity; !near(got, 0, eps) {
		t.Fatalf("expected no spin at the center, got %v", got)
	}
}

func TestOrbitPointerOffsets(t *testing.T) {
	o := NewOrbit()
	o.PointerMove(50, 30, 10, 20, 100, 40)
	if got := o.State().TargetAngularVelocity; !near(got, -0.5, eps) {
		t.Fatalf("expected target -0.5, got %v", got)
	}
	if got := o.PointerY(); !near(got, 0.25, eps) {
		t.Fatalf("vertical position must use the top offset, got %v", got)
	}
	before := o.State()
	o.PointerMove(50, 30, 10, 20, 0, 0) // Degenerate surface
	if o.State() != before {
		t.Fatalf("a zero-width surface must be ignored")
	}
	nan := math.NaN()
	for _, args := range [][6]float64{
		{nan, nan, 10, 20, 100, 40},
		{50, 30, nan, nan, 100, 40},
		{50, 30, 10, 20, nan, nan},
	} {
		o.PointerMove(args[0], args[1], args[2], args[3], args[4], args[5])
		if o.State() != before || !near(o.PointerY(), 0.25, eps) {
			t.Fatalf("PointerMove%v changed the state to %+v", args, o.State())
		}
	}
	o.Step(0.016)
	if st := o.State(); math.IsNaN(st.Angle) || math.IsNaN(st.AngularVelocity) {
		t.Fatalf("state became non-finite after a NaN pointer: %+v", st)
	}
}

func TestOrbitStepLongStall(t *testing.T) {
	o := NewOrbit()
	o.PointerMove(100, 0, 0, 0, 100, 100)
	o.Step(1e308)
	st := o.State()
	if !near(st.AngularVelocity, OrbitMaxAngularVelocity, eps) || !near(st.Angle, OrbitMaxAngularVelocity*OrbitMaxStep, eps) {
		t.Fatalf("a long step should be capped to %vs, got %+v", OrbitMaxStep, st)
	}
	cam := o.Camera()
	if math.IsNaN(cam.Position.X) || math.IsNaN(cam.Position.Z) {
		t.Fatalf("camera position is not finite: %+v", cam.Position)
	}
}

func TestOrbitWheel(t *testing.T) {
	o := NewOrbit()
	o.Wheel(0)
	if got := o.State().Zoom; got != 1 {
		t.Fatalf("a zero delta must not change the zoom, got %v", got)
	}
	o.Wheel(10)
	want := math.Pow(1+0.1*math.Tanh(10), 0.3)
	got := o.State().Zoom
	if !near(got, want, 1e-12) || got < 1.02 || got > 1.04 {
		t.Fatalf("unexpected zoom %v (want %v)", got, want)
	}
	if cam := o.Camera(); !near(cam.Position.Length(), 16*got, 1e-9) {
		t.Fatalf("camera radius should follow the zoom, got %v", cam.Position.Length())
	}
}

func TestOrbitWheelSaturates(t *testing.T) {
	o := NewOrbit()
	for i := 0; i < 1000; i++ {
		o.Wheel(1e9)
		if z := o.State().Zoom; z > OrbitMaxZoom {
			t.Fatalf("zoom %v above the maximum", z)
		}
	}
	if z := o.State().Zoom; z != OrbitMaxZoom {
		t.Fatalf("expected zoom to saturate at %v, got %v", OrbitMaxZoom, z)
	}
	for i := 0; i < 1000; i++ {
		o.Wheel(-1e9)
		if z := o.State().Zoom; z < OrbitMinZoom {
			t.Fatalf("zoom %v below the minimum", z)
		}
	}
	if z := o.State().Zoom; z != OrbitMinZoom {
		t.Fatalf("expected zoom to saturate at %v, got %v", OrbitMinZoom, z)
	}
}

func TestOrbitRandomInputsStayBounded(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	o := NewOrbit()
	for i := 0; i < 20000; i++ {
		switch rnd.Intn(3) {
		case 0:
			o.Step(rnd.Float64() * math.Pow(10, float64(rnd.Intn(4)-2)))
		case 1:
			o.PointerMove(rnd.NormFloat64()*1000, rnd.NormFloat64()*1000, 0, 0, 1+rnd.Float64()*2000, 1+rnd.Float64()*2000)
		case 2:
			o.Wheel(rnd.NormFloat64() * math.Pow(10, float64(rnd.Intn(6))))
		}
		st := o.State()
		for _, v := range []float64{st.Angle, st.AngularVelocity, st.TargetAngularVelocity, st.Zoom} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("non-finite state %+v at step %d", st, i)
			}
		}
		if math.Abs(st.AngularVelocity) > OrbitMaxAngularVelocity || math.Abs(st.TargetAngularVelocity) > OrbitMaxAngularVelocity {
			t.Fatalf("velocity out of bounds %+v at step %d", st, i)
		}
		if st.Zoom < OrbitMinZoom || st.Zoom > OrbitMaxZoom {
			t.Fatalf("zoom out of bounds %+v at step %d", st, i)
		}
	}
}

func TestOrbitReset(t *testing.T) {
	o := NewOrbit()
	o.PointerMove(10, 10, 0, 0, 100, 100)
	o.Wheel(5)
	o.Step(0.5)
	o.Reset()
	if got := o.State(); got != DefaultOrbitState() {
		t.Fatalf("reset did not restore defaults: %+v", got)
	}
}
