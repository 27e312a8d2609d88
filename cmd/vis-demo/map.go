package main

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/kamstrup/intmap"
	"github.com/plus3/sightline/ecs"
	"github.com/plus3/sightline/render"
	"github.com/plus3/sightline/scene"
)

var (
	backgroundColor  = color.RGBA{24, 26, 32, 255}
	opaqueColor      = color.RGBA{186, 225, 255, 255}
	transparentColor = color.RGBA{255, 179, 186, 110}
	culledColor      = color.RGBA{90, 90, 100, 255}
	cameraColor      = color.RGBA{255, 255, 186, 255}
)

type mapEntity struct {
	ecs.EntityId
	Transform *render.GlobalTransform
	Sphere    *render.BoundingSphere `ecs:"optional"`
	Camera    *render.Camera         `ecs:"without"`
	Hidden    *render.Hidden         `ecs:"without"`
}

// MapRenderer draws the world projected onto the XZ plane.
type MapRenderer struct {
	storage  *ecs.Storage
	entities *ecs.View[mapEntity]
	visible  *intmap.Set[ecs.EntityId]
	extent   float32
}

// NewMapRenderer sizes the map so every group of cfg and its camera fit.
func NewMapRenderer(storage *ecs.Storage, cfg scene.Config) *MapRenderer {
	extent := max(abs(cfg.Camera.Position.X()), abs(cfg.Camera.Position.Z()))
	for _, g := range cfg.Groups {
		extent = max(extent, abs(g.Center.X())+g.Spread, abs(g.Center.Z())+g.Spread)
	}
	return &MapRenderer{
		storage:  storage,
		entities: ecs.NewView[mapEntity](storage),
		visible:  intmap.NewSet[ecs.EntityId](1024),
		extent:   extent * 1.1,
	}
}

func (m *MapRenderer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	var vis *render.Visibility
	if !m.storage.ReadSingleton(&vis) {
		ebitenutil.DebugPrint(screen, "waiting for first visibility pass")
		return
	}

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	scale := float32(min(w, h)) / (2 * m.extent)
	project := func(p mgl32.Vec3) (float32, float32) {
		return float32(w)/2 + p.X()*scale, float32(h)/2 + p.Z()*scale
	}

	vis.CollectInto(m.visible)

	culled := 0
	for id, e := range m.entities.Iter() {
		if m.visible.Has(id) {
			continue
		}
		culled++
		x, y := project(e.Transform.TransformPoint(sphereOf(&e).Center))
		vector.StrokeCircle(screen, x, y, max(sphereRadius(&e)*scale, 1), 1, culledColor, false)
	}

	for _, id := range vis.Unordered() {
		e := m.entities.Get(id)
		if e == nil {
			continue
		}
		x, y := project(e.Transform.TransformPoint(sphereOf(e).Center))
		vector.DrawFilledCircle(screen, x, y, max(sphereRadius(e)*scale, 1.5), opaqueColor, false)
	}

	// Ordered entities are painted last and far to near so nearer ones blend on top.
	for _, id := range vis.VisibleOrdered {
		e := m.entities.Get(id)
		if e == nil {
			continue
		}
		x, y := project(e.Transform.TransformPoint(sphereOf(e).Center))
		vector.DrawFilledCircle(screen, x, y, max(sphereRadius(e)*scale, 1.5), transparentColor, true)
	}

	var active *render.ActiveCamera
	if m.storage.ReadSingleton(&active) && active.Entity != nil {
		if id, ok := m.storage.ResolveEntityRef(active.Entity); ok {
			if t := ecs.ReadComponent[render.GlobalTransform](m.storage, id); t != nil {
				x, y := project(t.Position())
				vector.DrawFilledRect(screen, x-4, y-4, 8, 8, cameraColor, false)
			}
		}
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS %.0f  opaque %d  transparent %d  culled %d\nQ/Esc to quit",
		ebiten.ActualFPS(), vis.Len()-len(vis.VisibleOrdered), len(vis.VisibleOrdered), culled))
}

func sphereOf(e *mapEntity) render.BoundingSphere {
	if e.Sphere != nil {
		return *e.Sphere
	}
	return render.DefaultBoundingSphere()
}

func sphereRadius(e *mapEntity) float32 {
	return sphereOf(e).Radius * e.Transform.MaxScale()
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
