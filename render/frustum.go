package render

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FrustumPlane indexes the planes of a Frustum.
type FrustumPlane int

const (
	PlaneLeft FrustumPlane = iota
	PlaneRight
	PlaneTop
	PlaneBottom
	PlaneNear
	PlaneFar

	planeCount = 6
)

var planeNames = [planeCount]string{"left", "right", "top", "bottom", "near", "far"}

func (p FrustumPlane) String() string {
	if p < 0 || int(p) >= planeCount {
		return fmt.Sprintf("FrustumPlane(%d)", int(p))
	}
	return planeNames[p]
}

// Frustum is the view volume of a camera as six inward-facing planes.
// Each plane is (nx, ny, nz, w) with a unit normal, so n·p + w is the signed
// distance of p from the plane and is positive inside.
type Frustum struct {
	planes [planeCount]mgl32.Vec4
}

// NewFrustum extracts the planes of viewProjection (projection × inverse camera
// transform) by adding and subtracting its fourth row and each of the other rows.
func NewFrustum(viewProjection mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := viewProjection.Rows()

	raw := [planeCount]mgl32.Vec4{
		PlaneLeft:   r3.Add(r0),
		PlaneRight:  r3.Sub(r0),
		PlaneTop:    r3.Sub(r1),
		PlaneBottom: r3.Add(r1),
		PlaneNear:   r3.Add(r2),
		PlaneFar:    r3.Sub(r2),
	}

	var f Frustum
	for i, plane := range raw {
		f.planes[i] = plane.Mul(1 / plane.Vec3().Len())
	}
	return f
}

// FrustumFromCamera builds the frustum of a camera with the given projection
// placed at cameraTransform. It fails with ErrSingularTransform if the
// transform has no finite inverse.
func FrustumFromCamera(projection, cameraTransform mgl32.Mat4) (Frustum, error) {
	det := cameraTransform.Det()
	if mgl32.FloatEqual(det, 0) || math.IsNaN(float64(det)) || math.IsInf(float64(det), 0) {
		return Frustum{}, fmt.Errorf("%w (det=%g)", ErrSingularTransform, det)
	}
	return NewFrustum(projection.Mul4(cameraTransform.Inv())), nil
}

// Plane returns one of the six normalised planes.
func (f Frustum) Plane(p FrustumPlane) mgl32.Vec4 {
	return f.planes[p]
}

// CheckSphere reports whether a sphere may be visible. It is rejected only
// when n·center + w <= -radius for some plane; a sphere straddling a plane
// passes. Spheres outside the frustum near its corners can still pass.
func (f Frustum) CheckSphere(center mgl32.Vec3, radius float32) bool {
	for _, plane := range f.planes {
		if plane.Vec3().Dot(center)+plane.W() <= -radius {
			return false
		}
	}
	return true
}
