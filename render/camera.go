package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/sightline/ecs"
)

// Camera is a projection attached to an entity; the entity's GlobalTransform
// places it in the world. Cameras look down their local -Z axis.
type Camera struct {
	Projection mgl32.Mat4
}

// ActiveCamera names the camera visibility is computed for.
// When it is missing or its entity no longer has a Camera and a GlobalTransform,
// the first camera in the world is used instead.
type ActiveCamera struct {
	Entity *ecs.EntityRef
}

// NewActiveCamera points the storage's ActiveCamera singleton at id.
func NewActiveCamera(storage *ecs.Storage, id ecs.EntityId) *ActiveCamera {
	active := ecs.NewSingleton[ActiveCamera](storage).Get()
	active.Entity = storage.CreateEntityRef(id)
	return active
}

const (
	defaultNear = 0.1
	defaultFar  = 2000
)

// StandardCamera2D is an orthographic camera spanning [-1, 1] on X and Y.
// It is the fallback used when the world has no camera at all.
func StandardCamera2D() Camera {
	return OrthographicCamera(-1, 1, -1, 1, defaultNear, defaultFar)
}

// StandardCamera3D is a 60° perspective camera for a width×height viewport.
func StandardCamera3D(width, height float32) Camera {
	return PerspectiveCamera(width/height, mgl32.DegToRad(60), defaultNear, defaultFar)
}

// PerspectiveCamera builds a perspective camera. fovy is in radians.
func PerspectiveCamera(aspect, fovy, near, far float32) Camera {
	return Camera{Projection: mgl32.Perspective(fovy, aspect, near, far)}
}

// OrthographicCamera builds an orthographic camera.
func OrthographicCamera(left, right, bottom, top, near, far float32) Camera {
	return Camera{Projection: mgl32.Ortho(left, right, bottom, top, near, far)}
}
