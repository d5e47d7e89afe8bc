package earthview

import (
	"github.com/fogleman/fauxgl"
	"math"
)

const (
	ambientLight      = 0.08
	cloudFallbackMask = 0.35 // Cloud coverage when no alpha mask is available
	bumpSampleStep    = 1. / 1024
	bumpStrength      = 64.
)

// materialShader renders a single Material lit by point lights: diffuse texture, bump-mapped normals, specular map
// and alpha mask. Positions and normals are expected in world space.
type materialShader struct {
	matrix fauxgl.Matrix
	mat    *Material
	lights []*PointLight
	eye    fauxgl.Vector
}

func newMaterialShader(matrix fauxgl.Matrix, mat *Material, lights []*PointLight, eye fauxgl.Vector) *materialShader {
	return &materialShader{matrix: matrix, mat: mat, lights: lights, eye: eye}
}

func (s *materialShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex {
	v.Output = s.matrix.MulPositionW(v.Position)
	return v
}

func (s *materialShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	u, t := v.Texture.X, v.Texture.Y
	base := s.mat.Color
	if s.mat.Diffuse != nil {
		base = mulColor(base, s.mat.Diffuse.BilinearSample(u, t))
	}
	alpha := 1.
	if s.mat.Transparent {
		alpha = s.mat.Opacity
		if s.mat.Alpha != nil {
			alpha *= s.mat.Alpha.BilinearSample(u, t).R
		} else if s.mat.Diffuse == nil {
			alpha *= cloudFallbackMask
		}
	}
	if s.mat.Unlit {
		return fauxgl.Color{R: base.R, G: base.G, B: base.B, A: alpha}
	}

	normal := v.Normal.Normalize()
	if s.mat.Bump != nil && s.mat.BumpScale != 0 {
		normal = s.bumpNormal(normal, u, t)
	}
	toEye := s.eye.Sub(v.Position).Normalize()
	if s.mat.Side == DoubleSide && normal.Dot(toEye) < 0 { // Seen from the inside
		normal = normal.Negate()
	}
	specStrength := 0.
	if s.mat.Specular != nil {
		specStrength = s.mat.Specular.BilinearSample(u, t).R
	}

	light, spec := ambientLight, 0.
	for _, l := range s.lights {
		toLight := toFauxglVector(l.Position).Sub(v.Position).Normalize()
		diffuse := math.Max(0, normal.Dot(toLight))
		light += diffuse * l.Intensity
		if specStrength > 0 && diffuse > 0 && s.mat.Shininess > 0 {
			reflected := normal.MulScalar(2 * normal.Dot(toLight)).Sub(toLight)
			spec += math.Pow(math.Max(0, reflected.Dot(toEye)), s.mat.Shininess) * specStrength * l.Intensity
		}
	}
	return fauxgl.Color{
		R: base.R*light + spec,
		G: base.G*light + spec,
		B: base.B*light + spec,
		A: alpha,
	}
}

// bumpNormal perturbs the sphere normal along the height gradient of the bump map (red channel).
func (s *materialShader) bumpNormal(normal fauxgl.Vector, u, t float64) fauxgl.Vector {
	tangent := fauxgl.Vector{X: -normal.Z, Z: normal.X}
	if tangent.Length() < 1e-6 { // Poles
		return normal
	}
	tangent = tangent.Normalize()
	bitangent := normal.Cross(tangent).Normalize()
	h := s.mat.Bump.BilinearSample(u, t).R
	dhdu := s.mat.Bump.BilinearSample(u+bumpSampleStep, t).R - h
	dhdv := s.mat.Bump.BilinearSample(u, t+bumpSampleStep).R - h
	k := s.mat.BumpScale * bumpStrength
	return normal.Sub(tangent.MulScalar(dhdu * k)).Sub(bitangent.MulScalar(dhdv * k)).Normalize()
}

func mulColor(a, b fauxgl.Color) fauxgl.Color {
	return fauxgl.Color{R: a.R * b.R, G: a.G * b.G, B: a.B * b.B, A: a.A * b.A}
}
