package debugui

import (
	"github.com/plus3/sightline/ecs"
	"github.com/plus3/sightline/render"
)

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
	timer         *FrameTimer
}

type VisibilityInspectorComponent struct {
	maxRows  int
	selected ecs.EntityId
}

type EntityInspectorComponent struct {
	selectedEntityId ecs.EntityId
}

// RegisterComponents registers the components this package spawns.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
}

// Spawn adds the performance, visibility and entity panels to storage.
// visibility may be nil, in which case only the performance panel is shown.
func Spawn(storage *ecs.Storage, scheduler *ecs.Scheduler, visibility *render.VisibilitySortingSystem) {
	perf := NewPerformanceStatsComponent(120)
	storage.Spawn(ImguiItem{Render: func() {
		perf.Render(storage, scheduler.GetStats())
	}})

	if visibility == nil {
		return
	}

	inspector := NewVisibilityInspectorComponent(200)
	entity := NewEntityInspectorComponent()
	storage.Spawn(ImguiItem{Render: func() {
		var vis *render.Visibility
		if !storage.ReadSingleton(&vis) {
			return
		}
		selected := inspector.Render(storage, vis, visibility.Stats(), visibility.LastError())
		entity.Render(storage, selected)
	}})
}
