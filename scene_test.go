package earthview

import (
	"github.com/deadsy/sdfx/vec/v3"
	"github.com/fogleman/fauxgl"
	"image"
	"testing"
)

func TestBuildScene(t *testing.T) {
	scene := &Scene{}
	BuildScene(scene, nil)

	wantOrder := []string{BodyPlanet, BodyClouds, BodyStars, BodySun}
	if len(scene.Bodies) != len(wantOrder) {
		t.Fatalf("expected %d bodies, got %d", len(wantOrder), len(scene.Bodies))
	}
	for i, name := range wantOrder {
		if scene.Bodies[i].Name != name {
			t.Fatalf("body %d: expected %q, got %q", i, name, scene.Bodies[i].Name)
		}
		if scene.Bodies[i].Mesh() == nil || len(scene.Bodies[i].Mesh().Triangles) == 0 {
			t.Fatalf("body %q has no mesh", name)
		}
	}

	planet, clouds, stars, sun := scene.Body(BodyPlanet), scene.Body(BodyClouds), scene.Body(BodyStars), scene.Body(BodySun)
	if clouds.Radius <= planet.Radius || clouds.Center != planet.Center {
		t.Errorf("clouds must be a slightly larger concentric shell")
	}
	if !clouds.Material.Transparent || clouds.Material.DepthWrite || clouds.Material.Side != DoubleSide {
		t.Errorf("clouds must be transparent, double sided and not write depth: %+v", clouds.Material)
	}
	if clouds.Material.Opacity <= 0 || clouds.Material.Opacity >= 1 {
		t.Errorf("clouds must be semi-transparent, got opacity %v", clouds.Material.Opacity)
	}
	if !stars.Material.Unlit || stars.Material.Side != BackSide || stars.Radius < 16*OrbitMaxZoom {
		t.Errorf("stars must be an unlit inverted sphere enclosing every camera position: %+v", stars)
	}
	if planet.Material.Unlit || planet.Material.Transparent || !planet.Material.DepthWrite {
		t.Errorf("planet must be lit and opaque: %+v", planet.Material)
	}
	if !sun.Material.Unlit || sun.Center != DefaultSunPosition {
		t.Errorf("sun must be emissive and placed at %v: %+v", DefaultSunPosition, sun)
	}
	if len(scene.Lights) != 1 || scene.Lights[0].Position != sun.Center {
		t.Fatalf("expected a single point light at the sun, got %+v", scene.Lights)
	}
	if scene.Body("moon") != nil {
		t.Errorf("unknown bodies must not be found")
	}
}

func TestBuildSceneTextures(t *testing.T) {
	tex := fauxgl.NewImageTexture(image.NewNRGBA(image.Rect(0, 0, 4, 2)))
	textures := &Textures{PlanetDiffuse: tex, PlanetBump: tex, PlanetSpecular: tex, CloudDiffuse: tex, CloudAlpha: tex, Stars: tex}
	scene := &Scene{}
	BuildSceneAt(scene, textures, v3.Vec{Z: -30})

	planet := scene.Body(BodyPlanet)
	if planet.Material.Diffuse == nil || planet.Material.Bump == nil || planet.Material.Specular == nil {
		t.Errorf("planet textures not assigned")
	}
	if planet.Material.Color != fauxgl.Gray(1) {
		t.Errorf("textured planet must not be tinted, got %+v", planet.Material.Color)
	}
	if c := scene.Body(BodyClouds); c.Material.Diffuse == nil || c.Material.Alpha == nil {
		t.Errorf("cloud textures not assigned")
	}
	if scene.Body(BodyStars).Material.Diffuse == nil {
		t.Errorf("star texture not assigned")
	}
	sun := scene.Body(BodySun)
	if sun.Center != (v3.Vec{Z: -30}) || scene.Lights[0].Position != sun.Center {
		t.Errorf("custom sun position not honored")
	}
	bb := sun.BoundingBox()
	if bb.Min != (v3.Vec{X: -1, Y: -1, Z: -31}) || bb.Max != (v3.Vec{X: 1, Y: 1, Z: -29}) {
		t.Errorf("unexpected sun bounds %+v", bb)
	}
	mb := sun.Mesh().BoundingBox()
	if !near(mb.Min.Z, -31, 1e-9) || !near(mb.Max.Z, -29, 1e-9) {
		t.Errorf("sun mesh not moved to its center: %+v", mb)
	}
}

func TestUVSphere(t *testing.T) {
	const segments, rings = 12, 6
	mesh := newUVSphere(2, segments, rings)
	if got, want := len(mesh.Triangles), segments*rings*2-2*segments; got != want {
		t.Fatalf("expected %d triangles, got %d", want, got)
	}
	for _, tri := range mesh.Triangles {
		for _, v := range []fauxgl.Vertex{tri.V1, tri.V2, tri.V3} {
			if !near(v.Position.Length(), 2, 1e-9) {
				t.Fatalf("vertex %+v is not on the sphere", v.Position)
			}
			if v.Texture.X < 0 || v.Texture.X > 1 || v.Texture.Y < 0 || v.Texture.Y > 1 {
				t.Fatalf("texture coordinate %+v out of range", v.Texture)
			}
		}
		// Counter-clockwise seen from outside: the face normal points away from the center
		n := tri.V2.Position.Sub(tri.V1.Position).Cross(tri.V3.Position.Sub(tri.V1.Position))
		centroid := tri.V1.Position.Add(tri.V2.Position).Add(tri.V3.Position)
		if n.Dot(centroid) <= 0 {
			t.Fatalf("triangle %+v faces inwards", tri)
		}
	}
}
