package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/sightline/ecs"
	"github.com/plus3/sightline/render"
)

// Orbit circles an entity around Target in the XZ plane, keeping it pointed
// at Target.
type Orbit struct {
	Target mgl32.Vec3
	Radius float32
	Height float32
	Angle  float32
	// Speed in radians per second.
	Speed float32
}

// NewOrbit starts an orbit from the current eye position.
func NewOrbit(eye, target mgl32.Vec3, speed float32) Orbit {
	d := eye.Sub(target)
	return Orbit{
		Target: target,
		Radius: float32(math.Hypot(float64(d.X()), float64(d.Z()))),
		Height: d.Y(),
		Angle:  float32(math.Atan2(float64(d.Z()), float64(d.X()))),
		Speed:  speed,
	}
}

// Eye is the orbiting position for the current angle.
func (o Orbit) Eye() mgl32.Vec3 {
	sin, cos := math.Sincos(float64(o.Angle))
	return o.Target.Add(mgl32.Vec3{
		o.Radius * float32(cos),
		o.Height,
		o.Radius * float32(sin),
	})
}

// OrbitSystem advances every Orbit and rewrites the GlobalTransform.
// Register it before render.VisibilitySortingSystem.
type OrbitSystem struct {
	Orbiting ecs.Query[struct {
		*Orbit
		*render.GlobalTransform
	}]
}

func (s *OrbitSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Orbiting.Values() {
		item.Orbit.Angle = float32(math.Mod(float64(item.Orbit.Angle+item.Orbit.Speed*float32(frame.DeltaTime)), 2*math.Pi))
		*item.GlobalTransform = lookAt(item.Orbit.Eye(), item.Orbit.Target)
	}
}
