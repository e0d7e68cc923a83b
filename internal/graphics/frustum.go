package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type plane struct {
	a, b, c, d float32
}

// Frustum holds the six clip planes of a projection*view matrix.
// Order: left, right, bottom, top, near, far.
type Frustum [6]plane

// NewFrustum extracts normalized planes from clip (projection * view).
func NewFrustum(clip mgl32.Mat4) Frustum {
	row := func(i int) [4]float32 {
		// mgl32 is column-major
		return [4]float32{clip[i], clip[4+i], clip[8+i], clip[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	var f Frustum
	for i, src := range [3][4]float32{r0, r1, r2} {
		var pos, neg plane
		pos = plane{r3[0] + src[0], r3[1] + src[1], r3[2] + src[2], r3[3] + src[3]}
		neg = plane{r3[0] - src[0], r3[1] - src[1], r3[2] - src[2], r3[3] - src[3]}
		f[2*i] = normalizePlane(pos)
		f[2*i+1] = normalizePlane(neg)
	}
	return f
}

func normalizePlane(p plane) plane {
	l := float32(math.Sqrt(float64(p.a*p.a + p.b*p.b + p.c*p.c)))
	if l == 0 {
		return p
	}
	return plane{p.a / l, p.b / l, p.c / l, p.d / l}
}

// IntersectsAABB reports whether the box is at least partly inside.
// Conservative: boxes near corners may pass.
func (f Frustum) IntersectsAABB(min, max mgl32.Vec3) bool {
	for _, p := range f {
		// positive vertex for this plane normal
		px := max.X()
		if p.a < 0 {
			px = min.X()
		}
		py := max.Y()
		if p.b < 0 {
			py = min.Y()
		}
		pz := max.Z()
		if p.c < 0 {
			pz = min.Z()
		}
		if p.a*px+p.b*py+p.c*pz+p.d < 0 {
			return false
		}
	}
	return true
}
