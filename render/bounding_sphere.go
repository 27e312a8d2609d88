package render

import "github.com/go-gl/mathgl/mgl32"

// BoundingSphere is the volume frustum culling tests an entity against.
// Center is in the entity's local space and is moved by its GlobalTransform.
// Entities without one are treated as DefaultBoundingSphere.
type BoundingSphere struct {
	Center mgl32.Vec3
	Radius float32
}

// DefaultBoundingSphere is the unit sphere at the local origin.
func DefaultBoundingSphere() BoundingSphere {
	return BoundingSphere{Radius: 1}
}

// NewBoundingSphere creates a sphere around center.
func NewBoundingSphere(center mgl32.Vec3, radius float32) BoundingSphere {
	return BoundingSphere{Center: center, Radius: radius}
}

// OriginSphere creates a sphere of the given radius at the local origin.
func OriginSphere(radius float32) BoundingSphere {
	return BoundingSphere{Radius: radius}
}
