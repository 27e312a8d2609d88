package scene_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/sightline/ecs"
	"github.com/plus3/sightline/render"
	"github.com/plus3/sightline/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrbit_StartsAtEye(t *testing.T) {
	eye := mgl32.Vec3{30, 10, -40}
	target := mgl32.Vec3{5, 0, 5}

	orbit := scene.NewOrbit(eye, target, 1)
	assert.True(t, orbit.Eye().ApproxEqualThreshold(eye, 1e-3))
	assert.InDelta(t, 10, orbit.Height, 1e-5)
}

func TestOrbitSystem(t *testing.T) {
	storage := newStorage()
	cfg := scene.Default()
	cfg.Groups = nil
	cfg.Camera.Position = mgl32.Vec3{100, 0, 0}
	cfg.Camera.OrbitSpeed = math.Pi / 2
	pop, err := scene.Populate(storage, cfg)
	require.NoError(t, err)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&scene.OrbitSystem{})
	visibility := render.NewVisibilitySortingSystem(nil)
	scheduler.Register(visibility)

	// A quarter turn per second moves the camera from +X to +Z.
	scheduler.Once(1)

	pos := ecs.ReadComponent[render.GlobalTransform](storage, pop.Camera).Position()
	assert.True(t, pos.ApproxEqualThreshold(mgl32.Vec3{0, 0, 100}, 1e-2), "got %v", pos)
	assert.Equal(t, render.CameraActive, visibility.Stats().CameraSource)
	assert.NoError(t, visibility.LastError())
}
