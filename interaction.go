package earthview

import (
	"fmt"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// wheelDeltaPerNotch converts ebiten wheel offsets (notches, positive up) to DOM-like pixel deltas (positive down).
const wheelDeltaPerNotch = -100.

// wheelDelta maps a vertical ebiten wheel offset to the delta expected by Orbit.Wheel.
func wheelDelta(yoff float64) float64 {
	return yoff * wheelDeltaPerNotch
}

// nextResInv returns the resolution divider after a finer (+) and/or coarser (-) request.
func nextResInv(resInv int, finer, coarser bool) int {
	if finer {
		resInv = clampResInv(resInv / 2)
	}
	if coarser {
		resInv = clampResInv(resInv * 2)
	}
	return resInv
}

// onUpdateInputs handles inputs
func (r *Renderer) onUpdateInputs() {
	cx, cy := getCursor()
	r.onPointer(cx, cy)
	_, wheelUpDown := ebiten.Wheel()
	r.onWheel(wheelUpDown)
	// Reset camera
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		r.orbit.Reset()
	}
	// Bounding boxes
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		r.implStateLock.Lock()
		r.implState.DrawBounds = !r.implState.DrawBounds
		r.implStateLock.Unlock()
	}
	// Resolution
	finer := inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) || inpututil.IsKeyJustPressed(ebiten.KeyEqual)
	coarser := inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) || inpututil.IsKeyJustPressed(ebiten.KeyMinus)
	if finer || coarser {
		r.implStateLock.Lock()
		r.implState.ResInv = nextResInv(r.implState.ResInv, finer, coarser)
		r.implStateLock.Unlock()
	}
}

// onPointer spins the orbit only when the pointer moved, as a browser would report it.
func (r *Renderer) onPointer(cx, cy int) {
	if cx == r.lastCursor[0] && cy == r.lastCursor[1] {
		return
	}
	r.lastCursor = [2]int{cx, cy}
	r.implStateLock.RLock()
	width, height := r.implState.Width, r.implState.Height
	r.implStateLock.RUnlock()
	r.orbit.PointerMove(float64(cx), float64(cy), 0, 0, float64(width), float64(height))
}

// onWheel zooms for a vertical wheel offset in notches.
func (r *Renderer) onWheel(yoff float64) {
	if yoff != 0 {
		r.orbit.Wheel(wheelDelta(yoff))
	}
}

func getCursor() (int, int) {
	cx, cy := ebiten.CursorPosition()
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 { // Override cursor with touch if available
		cx, cy = ebiten.TouchPosition(ids[0])
	}
	return cx, cy
}

// drawUI draws the state and the controls
func (r *Renderer) drawUI(screen *ebiten.Image) {
	// Notify when rendering takes longer than a frame
	if r.skippedFrame {
		ebitenutil.DebugPrintAt(screen, "Rendering...", 5, 5)
	}

	st := r.orbit.State()
	r.implStateLock.RLock()
	msg := fmt.Sprintf("TPS: %0.2f/%d FPS: %0.2f\nZoom: %.2f\nSpin: %+.2f rad/s\nResolution: %.2f [+/-]\nBounds: %t [B]\n"+
		"Reset camera [R]\nSpin [Move pointer]\nZoom [MouseWheel]",
		ebiten.ActualTPS(), ebiten.TPS(), ebiten.ActualFPS(), st.Zoom, st.AngularVelocity,
		1/float64(r.implState.ResInv), r.implState.DrawBounds)
	height := r.implState.Height
	r.implStateLock.RUnlock()
	ebitenutil.DebugPrintAt(screen, msg, 5, height-8*16-5)
}
