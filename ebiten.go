package earthview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"time"
)

// rendererEbitenGame hides the private ebiten implementation while behaving like a *Renderer internally
type rendererEbitenGame struct {
	*Renderer
}

func (r rendererEbitenGame) Update() error {
	if r.loop.Stopped() {
		return ebiten.Termination
	}
	r.onUpdateInputs()
	return nil
}

func (r rendererEbitenGame) Draw(screen *ebiten.Image) {
	r.sched.fire() // Draw follows the display refresh: run the pending frame (if any)
	r.drawScene(screen)
	r.drawUI(screen)
}

func (r rendererEbitenGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	r.implStateLock.Lock()
	r.implState.Width, r.implState.Height = outsideWidth, outsideHeight
	r.implStateLock.Unlock()
	return outsideWidth, outsideHeight // Use all available pixels, no re-scaling (unless ResInv is modified)
}

// drawScene uploads the latest rasterization (if it changed) and stretches it over the screen.
func (r *Renderer) drawScene(screen *ebiten.Image) {
	r.cachedRenderLock.Lock()
	if r.cachedRender != nil && r.cachedRenderDirty {
		size := r.cachedRender.Rect.Size()
		if r.screenImg == nil || r.screenImg.Bounds().Size() != size {
			if r.screenImg != nil {
				r.screenImg.Deallocate()
			}
			r.screenImg = ebiten.NewImage(size.X, size.Y)
		}
		r.screenImg.WritePixels(r.cachedRender.Pix) // Opaque output: premultiplied == non-premultiplied
		r.cachedRenderDirty = false
	}
	r.cachedRenderLock.Unlock()
	if r.screenImg == nil {
		return
	}
	src, dst := r.screenImg.Bounds().Size(), screen.Bounds().Size()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(dst.X)/float64(src.X), float64(dst.Y)/float64(src.Y))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(r.screenImg, op)
}

//-----------------------------------------------------------------------------
// FRAME SCHEDULER
//-----------------------------------------------------------------------------

// frameScheduler implements Scheduler on top of ebiten's Draw calls: a requested callback runs on the next fire.
// Like ebiten itself, it must be used from a single goroutine.
type frameScheduler struct {
	pending func(now time.Time)
	now     func() time.Time
}

func newFrameScheduler() *frameScheduler {
	return &frameScheduler{now: time.Now}
}

func (s *frameScheduler) RequestFrame(cb func(now time.Time)) {
	s.pending = cb
}

// fire runs the pending callback, reporting whether there was one.
func (s *frameScheduler) fire() bool {
	cb := s.pending
	if cb == nil {
		return false
	}
	s.pending = nil // The callback may request the next frame
	cb(s.now())
	return true
}
