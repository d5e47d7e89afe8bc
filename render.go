package earthview

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/fogleman/fauxgl"
	"image"
	"image/color"
	"math"
)

const (
	cameraFovY = 45. // Degrees
	cameraNear = 0.1
	cameraFar  = 500.
)

var defaultBoundsColor = color.RGBA{R: 255, G: 64, B: 160, A: 255}

// SceneRenderer rasterizes a Scene on the CPU. The rendering context is reused while the image size does not change.
// It is not safe for concurrent use.
type SceneRenderer struct {
	Background  color.RGBA
	BoundsColor color.RGBA
	lastContext *fauxgl.Context
}

// NewSceneRenderer creates a renderer with a black background.
func NewSceneRenderer() *SceneRenderer {
	return &SceneRenderer{Background: color.RGBA{A: 255}, BoundsColor: defaultBoundsColor}
}

// Render draws the scene seen from cam into a new image of the given size. Bounds are drawn as wireframe boxes on top.
// The returned image is owned by the caller.
func (sr *SceneRenderer) Render(scene *Scene, cam Camera, width, height int, bounds []sdf.Box3) *image.NRGBA {
	matrix := sr.reset(cam, width, height)
	ctx := sr.lastContext
	eye := toFauxglVector(cam.Position)

	// Opaque bodies first (in scene order), then transparent ones on top
	for pass := 0; pass < 2; pass++ {
		for _, body := range scene.Bodies {
			if body.Material.Transparent != (pass == 1) || body.mesh == nil {
				continue
			}
			ctx.Shader = newMaterialShader(matrix, &body.Material, scene.Lights, eye)
			ctx.WriteDepth = body.Material.DepthWrite
			ctx.AlphaBlend = body.Material.Transparent
			ctx.Cull = sideToCull(body.Material.Side)
			ctx.Wireframe = false
			ctx.DrawMesh(body.mesh)
		}
	}

	if len(bounds) > 0 {
		ctx.Shader = fauxgl.NewSolidColorShader(matrix, fauxgl.MakeColor(sr.BoundsColor))
		ctx.WriteDepth = false
		ctx.Cull = fauxgl.CullNone
		ctx.Wireframe = true
		for _, bb := range bounds {
			ctx.DrawMesh(fauxgl.NewCubeOutlineForBox(fauxgl.Box{
				Min: toFauxglVector(bb.Min),
				Max: toFauxglVector(bb.Max),
			}))
		}
	}

	src := ctx.Image().(*image.NRGBA)
	out := image.NewNRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	return out
}

func (sr *SceneRenderer) reset(cam Camera, width, height int) fauxgl.Matrix {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if sr.lastContext == nil || sr.lastContext.Width != width || sr.lastContext.Height != height {
		// Rebuild rendering context only when needed
		sr.lastContext = fauxgl.NewContext(width, height)
	} else {
		sr.lastContext.ClearDepthBuffer()
	}
	sr.lastContext.ClearColorBufferWith(fauxgl.MakeColor(sr.Background))
	sr.lastContext.ReadDepth = true
	aspectRatio := float64(width) / float64(height)
	return cameraMatrix(cam, aspectRatio)
}

func cameraMatrix(cam Camera, aspectRatio float64) fauxgl.Matrix {
	up := cam.Up
	if up.Length() == 0 || math.IsNaN(up.Length()) {
		up.Y = 1
	}
	return fauxgl.LookAt(toFauxglVector(cam.Position), toFauxglVector(cam.Target), toFauxglVector(up)).
		Perspective(cameraFovY, aspectRatio, cameraNear, cameraFar)
}

func sideToCull(side Side) fauxgl.Cull {
	switch side {
	case BackSide:
		return fauxgl.CullFront
	case DoubleSide:
		return fauxgl.CullNone
	default:
		return fauxgl.CullBack
	}
}
