package earthview

import (
	"context"
	"github.com/Yeicor/earthview/internal"
	"github.com/barkimedes/go-deepcopy"
	"github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/subchen/go-trylock/v2"
	"image"
	"image/color"
	"log"
	"os"
	"os/signal"
	"sync"
	"time"
)

//-----------------------------------------------------------------------------
// CONFIGURATION
//-----------------------------------------------------------------------------

// Option configures a Renderer (see NewRenderer).
type Option func(r *Renderer)

// OptAssets sets the texture paths (defaults to DefaultAssetPaths("assets")).
func OptAssets(paths AssetPaths) Option {
	return func(r *Renderer) {
		r.assets = paths
	}
}

// OptAssetLoader replaces the texture loader (e.g. to change the retry policy or the maximum texture size).
func OptAssetLoader(loader *AssetLoader) Option {
	return func(r *Renderer) {
		r.loader = loader
	}
}

// OptWatchAssets rebuilds the scene whenever a texture changes on disk.
func OptWatchAssets(enable bool) Option {
	return func(r *Renderer) {
		r.watchAssets = enable
	}
}

// OptResolution sets how many screen pixels (on each axis) share a rendered pixel: higher is faster and blurrier.
func OptResolution(resInv int) Option {
	return func(r *Renderer) {
		r.implState.ResInv = clampResInv(resInv)
	}
}

// OptSunPosition moves the sun and its light.
func OptSunPosition(pos v3.Vec) Option {
	return func(r *Renderer) {
		r.sunPos = pos
	}
}

// OptBackground sets the clear color, visible only where the starfield is missing.
func OptBackground(c color.RGBA) Option {
	return func(r *Renderer) {
		r.raster.Background = c
	}
}

// OptShowBounds enables the bounding box overlay from the start.
func OptShowBounds(show bool) Option {
	return func(r *Renderer) {
		r.implState.DrawBounds = show
	}
}

// OptWindowTitle sets the window title.
func OptWindowTitle(title string) Option {
	return func(r *Renderer) {
		r.title = title
	}
}

//-----------------------------------------------------------------------------
// RENDERER
//-----------------------------------------------------------------------------

const (
	minResInv = 1
	maxResInv = 16
)

// Renderer owns the scene, the orbit controller and the frame loop, and shows them in an ebiten window (see Run).
type Renderer struct {
	// Configuration
	assets      AssetPaths
	loader      *AssetLoader
	sunPos      v3.Vec
	watchAssets bool
	title       string
	// Animation (only touched from the game loop goroutine)
	orbit *Orbit
	loop  *Loop
	sched *frameScheduler
	// Scene (swapped as a whole on asset reloads)
	sceneLock sync.RWMutex
	scene     *Scene
	// Rendering
	implState         *internal.RendererState
	implStateLock     sync.RWMutex
	renderingLock     trylock.TryLocker
	renderingWg       sync.WaitGroup
	raster            *SceneRenderer
	cachedRender      *image.NRGBA
	cachedRenderDirty bool
	cachedRenderLock  sync.RWMutex
	screenImg         *ebiten.Image
	skippedFrame      bool // The last frame reused the previous image
	// Input
	lastCursor [2]int
	// Lifecycle
	watcher  *assetWatcher
	stopOnce sync.Once
}

// NewRenderer loads the textures, builds the scene and prepares (but does not start) the frame loop.
// Texture failures are logged and replaced by flat colors.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		assets:        DefaultAssetPaths("assets"),
		loader:        NewAssetLoader(),
		sunPos:        DefaultSunPosition,
		title:         "EarthView",
		orbit:         NewOrbit(),
		sched:         newFrameScheduler(),
		implState:     &internal.RendererState{ResInv: 2},
		renderingLock: trylock.New(),
		raster:        NewSceneRenderer(),
		lastCursor:    [2]int{-1, -1},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.loop = NewLoop(r.orbit, r.sched, r.renderFrame)
	r.reloadAssets()
	if r.watchAssets {
		w, err := watchAssets(r.assets.All(), 200*time.Millisecond, func() {
			log.Println("[EarthView] Assets changed, rebuilding the scene...")
			r.reloadAssets()
		})
		if err != nil {
			return nil, err
		}
		r.watcher = w
	}
	return r, nil
}

// Run opens the window and blocks until it is closed or Stop is called.
func (r *Renderer) Run() error {
	if err := r.loop.Start(); err != nil {
		return err
	}
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, signals()...)
	defer signal.Stop(sigs)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigs:
			log.Println("[EarthView] Signal received, stopping...")
			r.Stop()
		case <-done:
		}
	}()

	ebiten.SetWindowTitle(r.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	log.Println("[EarthView] Starting render loop")
	err := ebiten.RunGame(rendererEbitenGame{r})
	r.Stop()
	r.waitRender()
	log.Println("[EarthView] Render loop finished after", r.loop.Frames(), "frames")
	return err
}

// Stop ends the frame loop (no frame is scheduled anymore), closes the window and stops watching assets.
func (r *Renderer) Stop() {
	r.stopOnce.Do(func() {
		r.loop.Stop()
		if r.watcher != nil {
			if err := r.watcher.Close(); err != nil {
				log.Println("[EarthView] Error closing asset watcher:", err)
			}
		}
	})
}

// Orbit exposes the orbit controller (e.g. to feed input from another source).
func (r *Renderer) Orbit() *Orbit {
	return r.orbit
}

// Scene returns the current scene.
func (r *Renderer) Scene() *Scene {
	r.sceneLock.RLock()
	defer r.sceneLock.RUnlock()
	return r.scene
}

// reloadAssets loads every texture and swaps in a freshly built scene.
func (r *Renderer) reloadAssets() {
	textures, err := r.loader.Load(context.Background(), r.assets)
	if err != nil {
		log.Println("[EarthView] Some textures could not be loaded (using flat colors):", err)
	}
	scene := &Scene{}
	BuildSceneAt(scene, textures, r.sunPos)
	bounds := internal.CollectBounds(scene)
	r.sceneLock.Lock()
	r.scene = scene
	r.sceneLock.Unlock()
	r.implStateLock.Lock()
	r.implState.Bounds = bounds
	r.implStateLock.Unlock()
	log.Println("[EarthView] Scene ready with", len(scene.Bodies), "bodies and", len(scene.Lights), "lights")
}

// renderFrame is the render sink of the frame loop: it records the camera and starts a rasterization.
func (r *Renderer) renderFrame(cam Camera) {
	r.implStateLock.Lock()
	r.implState.CamPos, r.implState.CamTarget, r.implState.CamUp = cam.Position, cam.Target, cam.Up
	r.implStateLock.Unlock()
	r.rerender()
}

// rerender rasterizes the current state in the background. If a rasterization is already running the request is
// dropped and the previous image stays on screen.
func (r *Renderer) rerender() {
	ctx, cancelFunc := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancelFunc()
	if !r.renderingLock.TryLock(ctx) {
		r.skippedFrame = true
		return
	}
	r.skippedFrame = false
	r.implStateLock.RLock() // Clone the state to avoid locking while the rendering is happening
	state := deepcopy.MustAnything(r.implState).(*internal.RendererState)
	r.implStateLock.RUnlock()
	scene := r.Scene()
	r.renderingWg.Add(1)
	go func() {
		defer r.renderingWg.Done()
		defer r.renderingLock.Unlock()
		var bounds []sdf.Box3
		if state.DrawBounds {
			bounds = state.Bounds
		}
		w, h := state.RenderSize()
		img := r.raster.Render(scene, Camera{Position: state.CamPos, Target: state.CamTarget, Up: state.CamUp}, w, h, bounds)
		r.cachedRenderLock.Lock()
		r.cachedRender = img
		r.cachedRenderDirty = true
		r.cachedRenderLock.Unlock()
	}()
}

// waitRender blocks until the rasterization in flight (if any) is done.
func (r *Renderer) waitRender() {
	r.renderingWg.Wait()
}

func clampResInv(resInv int) int {
	return int(Clamp(float64(resInv), minResInv, maxResInv))
}
