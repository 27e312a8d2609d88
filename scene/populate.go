package scene

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/sightline/ecs"
	"github.com/plus3/sightline/render"
)

// Member tags an entity with the index of the group that spawned it.
type Member struct {
	Group int
}

// RegisterComponents registers the scene components and everything render needs.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	render.RegisterComponents(registry)
	ecs.RegisterComponent[Member](registry)
	ecs.RegisterComponent[Orbit](registry)
}

// Population summarises what Populate spawned.
type Population struct {
	Camera      ecs.EntityId
	Entities    int
	Transparent int
	Hidden      int
	PerGroup    map[string]int
}

// Populate spawns the camera, makes it the active camera, and spawns every
// group. The same Config always yields the same world.
func Populate(storage *ecs.Storage, cfg Config) (Population, error) {
	if err := cfg.Validate(); err != nil {
		return Population{}, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	pop := Population{PerGroup: make(map[string]int, len(cfg.Groups))}
	pop.Camera = spawnCamera(storage, cfg.Camera)
	render.NewActiveCamera(storage, pop.Camera)

	for gi, g := range cfg.Groups {
		for range g.Count {
			offset := mgl32.Vec3{
				(rng.Float32()*2 - 1) * g.Spread,
				(rng.Float32()*2 - 1) * g.Spread,
				(rng.Float32()*2 - 1) * g.Spread,
			}
			scale := g.Scale[0] + rng.Float32()*(g.Scale[1]-g.Scale[0])
			yaw := rng.Float32() * 2 * math.Pi

			components := []any{
				render.NewGlobalTransform(g.Center.Add(offset), yaw, mgl32.Vec3{scale, scale, scale}),
				Member{Group: gi},
			}
			if g.Radius > 0 {
				components = append(components, render.OriginSphere(g.Radius))
			}
			if rng.Float64() < g.Transparent {
				components = append(components, render.Transparent{})
				pop.Transparent++
			}
			if rng.Float64() < g.Hidden {
				components = append(components, render.Hidden{})
				pop.Hidden++
			}

			storage.Spawn(components...)
		}
		pop.PerGroup[g.Name] += g.Count
		pop.Entities += g.Count
	}

	return pop, nil
}

// Projection builds the camera's projection matrix.
func (c CameraConfig) Projection() render.Camera {
	if c.Kind == KindOrthographic {
		w := c.Extent * c.Aspect
		return render.OrthographicCamera(-w, w, -c.Extent, c.Extent, c.Near, c.Far)
	}
	return render.PerspectiveCamera(c.Aspect, mgl32.DegToRad(c.FovY), c.Near, c.Far)
}

func spawnCamera(storage *ecs.Storage, c CameraConfig) ecs.EntityId {
	components := []any{
		c.Projection(),
		lookAt(c.Position, c.Target),
		// cameras have no geometry of their own
		render.Hidden{},
	}
	if c.OrbitSpeed != 0 {
		components = append(components, NewOrbit(c.Position, c.Target, c.OrbitSpeed))
	}
	return storage.Spawn(components...)
}

// lookAt returns the camera-to-world transform of a camera at eye facing target.
func lookAt(eye, target mgl32.Vec3) render.GlobalTransform {
	up := mgl32.Vec3{0, 1, 0}
	if dir := target.Sub(eye).Normalize(); dir.Cross(up).Len() < 1e-4 {
		up = mgl32.Vec3{0, 0, -1}
	}
	return render.GlobalTransform{Matrix: mgl32.LookAtV(eye, target, up).Inv()}
}

// String is a one-line summary for logs.
func (p Population) String() string {
	return fmt.Sprintf("%d entities (%d transparent, %d hidden) in %d groups", p.Entities, p.Transparent, p.Hidden, len(p.PerGroup))
}
