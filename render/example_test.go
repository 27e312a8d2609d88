package render_test

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/sightline/ecs"
	"github.com/plus3/sightline/render"
)

// ExampleVisibilitySortingSystem culls a small scene seen by a camera at the
// origin looking down -Z and prints the draw lists.
func ExampleVisibilitySortingSystem() {
	registry := ecs.NewComponentRegistry()
	render.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	scheduler := ecs.NewScheduler(storage)
	system := render.NewVisibilitySortingSystem(nil)
	scheduler.Register(system)

	camera := storage.Spawn(
		render.PerspectiveCamera(1, mgl32.DegToRad(90), 0.1, 100),
		render.IdentityTransform(),
		render.Hidden{},
	)
	render.NewActiveCamera(storage, camera)

	at := func(x, y, z float32) render.GlobalTransform {
		return render.GlobalTransform{Matrix: mgl32.Translate3D(x, y, z)}
	}
	storage.Spawn(at(0, 0, -5), render.OriginSphere(1))
	storage.Spawn(at(0, 0, 5), render.OriginSphere(1))
	glassNear := storage.Spawn(at(0, 0, -2), render.Transparent{})
	glassFar := storage.Spawn(at(0, 0, -5), render.Transparent{})

	scheduler.Once(1.0 / 60)

	vis := ecs.NewSingleton[render.Visibility](storage).Get()
	stats := system.Stats()
	fmt.Println("camera:", stats.CameraSource)
	fmt.Println("culled:", stats.Culled)
	fmt.Println("opaque:", vis.VisibleUnordered.Len())
	fmt.Println("far glass first:", vis.VisibleOrdered[0] == glassFar && vis.VisibleOrdered[1] == glassNear)
	// Output:
	// camera: active
	// culled: 1
	// opaque: 1
	// far glass first: true
}
