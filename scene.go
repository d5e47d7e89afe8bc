package earthview

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/v3"
	"github.com/fogleman/fauxgl"
)

//-----------------------------------------------------------------------------
// SCENE GRAPH
//-----------------------------------------------------------------------------

// Side selects which faces of a body are rasterized.
type Side int

const (
	FrontSide  Side = iota // Outside faces only (closed opaque bodies)
	BackSide               // Inside faces only (the camera lives inside the body)
	DoubleSide             // Both
)

// Material describes how a body is shaded. Nil textures fall back to Color.
type Material struct {
	Diffuse  fauxgl.Texture `walk:"-"`
	Bump     fauxgl.Texture `walk:"-"`
	Specular fauxgl.Texture `walk:"-"`
	Alpha    fauxgl.Texture `walk:"-"` // Alpha mask (red channel)

	Color       fauxgl.Color // Base color (multiplied by the diffuse texture when present)
	Unlit       bool         // Emissive-only shading, ignores lights
	Opacity     float64      // Multiplies the alpha mask, only for transparent materials
	Transparent bool
	DepthWrite  bool
	Side        Side
	BumpScale   float64
	Shininess   float64
}

// Body is a sphere placed in the scene.
type Body struct {
	Name     string
	Center   v3.Vec
	Radius   float64
	Material Material
	mesh     *fauxgl.Mesh
}

// Mesh returns the triangles of the body in world space.
func (b *Body) Mesh() *fauxgl.Mesh {
	return b.mesh
}

// BoundingBox returns the world space bounds of the body.
func (b *Body) BoundingBox() sdf.Box3 {
	r := v3.Vec{X: b.Radius, Y: b.Radius, Z: b.Radius}
	return sdf.Box3{Min: b.Center.Sub(r), Max: b.Center.Add(r)}
}

// PointLight emits light in all directions from Position.
type PointLight struct {
	Position  v3.Vec
	Color     fauxgl.Color
	Intensity float64
}

// Scene is the set of bodies and lights to render. It is never modified once built.
type Scene struct {
	Bodies []*Body
	Lights []*PointLight
}

// Body returns the body with the given name, or nil.
func (s *Scene) Body(name string) *Body {
	for _, b := range s.Bodies {
		if b.Name == name {
			return b
		}
	}
	return nil
}

//-----------------------------------------------------------------------------
// BUILDER
//-----------------------------------------------------------------------------

const (
	BodyPlanet = "planet"
	BodyClouds = "clouds"
	BodyStars  = "stars"
	BodySun    = "sun"

	PlanetRadius = 5.
	CloudsRadius = 5.05
	StarsRadius  = 90.
	SunRadius    = 1.
	CloudOpacity = 0.8
)

// DefaultSunPosition is where the sun (and its light) are placed unless configured otherwise.
var DefaultSunPosition = v3.Vec{X: 60}

var (
	planetFallbackColor = fauxgl.Color{R: 0.16, G: 0.35, B: 0.78, A: 1}
	starsFallbackColor  = fauxgl.Color{R: 0.02, G: 0.02, B: 0.05, A: 1}
	sunColor            = fauxgl.Color{R: 1, G: 0.93, B: 0.7, A: 1}
)

// BuildScene inserts the planet, its cloud shell, the starfield, the sun and its light into scene, using the sun
// position DefaultSunPosition. Textures may be nil or partially loaded.
func BuildScene(scene *Scene, textures *Textures) {
	BuildSceneAt(scene, textures, DefaultSunPosition)
}

// BuildSceneAt is BuildScene with a custom sun position.
func BuildSceneAt(scene *Scene, textures *Textures, sunPos v3.Vec) {
	if textures == nil {
		textures = &Textures{}
	}
	planetColor, starsColor := fauxgl.Gray(1), fauxgl.Gray(1)
	if textures.PlanetDiffuse == nil {
		planetColor = planetFallbackColor
	}
	if textures.Stars == nil {
		starsColor = starsFallbackColor
	}
	scene.Bodies = append(scene.Bodies,
		newBody(BodyPlanet, v3.Vec{}, PlanetRadius, 48, 24, Material{
			Diffuse:    textures.PlanetDiffuse,
			Bump:       textures.PlanetBump,
			Specular:   textures.PlanetSpecular,
			Color:      planetColor,
			DepthWrite: true,
			Side:       FrontSide,
			BumpScale:  0.05,
			Shininess:  10,
		}),
		newBody(BodyClouds, v3.Vec{}, CloudsRadius, 48, 24, Material{
			Diffuse:     textures.CloudDiffuse,
			Alpha:       textures.CloudAlpha,
			Color:       fauxgl.Gray(1),
			Opacity:     CloudOpacity,
			Transparent: true,
			DepthWrite:  false, // The shell is too close to the surface to share the depth buffer
			Side:        DoubleSide,
		}),
		newBody(BodyStars, v3.Vec{}, StarsRadius, 32, 16, Material{
			Diffuse:    textures.Stars,
			Color:      starsColor,
			Unlit:      true,
			DepthWrite: true,
			Side:       BackSide,
		}),
		newBody(BodySun, sunPos, SunRadius, 16, 8, Material{
			Color:      sunColor,
			Unlit:      true,
			DepthWrite: true,
			Side:       FrontSide,
		}),
	)
	scene.Lights = append(scene.Lights, &PointLight{Position: sunPos, Color: fauxgl.Gray(1), Intensity: 1})
}

func newBody(name string, center v3.Vec, radius float64, segments, rings int, mat Material) *Body {
	mesh := newUVSphere(radius, segments, rings)
	if center != (v3.Vec{}) {
		mesh.Transform(fauxgl.Translate(toFauxglVector(center)))
	}
	return &Body{Name: name, Center: center, Radius: radius, Material: mat, mesh: mesh}
}

func toFauxglVector(v v3.Vec) fauxgl.Vector {
	return fauxgl.Vector{X: v.X, Y: v.Y, Z: v.Z}
}
