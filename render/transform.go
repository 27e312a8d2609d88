package render

import "github.com/go-gl/mathgl/mgl32"

// GlobalTransform is an entity's final local-to-world matrix for the frame.
// It must be up to date before the visibility pass runs.
type GlobalTransform struct {
	Matrix mgl32.Mat4
}

// IdentityTransform places an entity at the world origin, unrotated and unscaled.
func IdentityTransform() GlobalTransform {
	return GlobalTransform{Matrix: mgl32.Ident4()}
}

// NewGlobalTransform builds translate × rotate(Y) × scale.
func NewGlobalTransform(position mgl32.Vec3, yaw float32, scale mgl32.Vec3) GlobalTransform {
	m := mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(mgl32.HomogRotate3DY(yaw)).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
	return GlobalTransform{Matrix: m}
}

// TransformPoint maps a local-space point into world space.
func (t GlobalTransform) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, t.Matrix)
}

// Position is the world-space location of the local origin.
func (t GlobalTransform) Position() mgl32.Vec3 {
	return t.TransformPoint(mgl32.Vec3{})
}

// MaxScale is the largest of the three diagonal terms. It stands in for the
// scale factor of a bounding radius and is exact only for unrotated transforms.
func (t GlobalTransform) MaxScale() float32 {
	return max(t.Matrix.At(0, 0), t.Matrix.At(1, 1), t.Matrix.At(2, 2))
}
