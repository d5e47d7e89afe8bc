package earthview

import (
	"github.com/fogleman/fauxgl"
	"math"
)

// newUVSphere builds a latitude/longitude sphere of the given radius centered at the origin, with texture coordinates
// spanning [0, 1] (u around the Y axis, v from the south to the north pole) and counter-clockwise outside faces.
func newUVSphere(radius float64, segments, rings int) *fauxgl.Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}
	vertex := func(ring, seg int) fauxgl.Vertex {
		theta := float64(ring) * math.Pi / float64(rings)
		phi := float64(seg) * 2 * math.Pi / float64(segments)
		normal := fauxgl.Vector{
			X: math.Cos(phi) * math.Sin(theta),
			Y: math.Cos(theta),
			Z: math.Sin(phi) * math.Sin(theta),
		}
		return fauxgl.Vertex{
			Position: normal.MulScalar(radius),
			Normal:   normal,
			Texture:  fauxgl.Vector{X: float64(seg) / float64(segments), Y: 1 - float64(ring)/float64(rings)},
			Color:    fauxgl.Gray(1),
		}
	}
	triangles := make([]*fauxgl.Triangle, 0, segments*rings*2)
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			cur, right := vertex(ring, seg), vertex(ring, seg+1)
			down, downRight := vertex(ring+1, seg), vertex(ring+1, seg+1)
			if ring != 0 { // Degenerate at the north pole
				triangles = append(triangles, &fauxgl.Triangle{V1: cur, V2: right, V3: down})
			}
			if ring != rings-1 { // Degenerate at the south pole
				triangles = append(triangles, &fauxgl.Triangle{V1: right, V2: downRight, V3: down})
			}
		}
	}
	return fauxgl.NewTriangleMesh(triangles)
}
