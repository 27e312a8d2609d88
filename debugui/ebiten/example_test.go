package ebiten_test

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sightline/debugui"
	debugui_ebiten "github.com/plus3/sightline/debugui/ebiten"
	"github.com/plus3/sightline/ecs"
)

// Game runs the scheduler inside an ImGui frame and draws the overlay last.
type Game struct {
	scheduler    *ecs.Scheduler
	imguiBackend *ecs.Singleton[debugui_ebiten.ImguiBackend]
}

func (g *Game) Update() error {
	g.imguiBackend.Get().BeginFrame()
	g.scheduler.Once(1.0 / 60.0)
	g.imguiBackend.Get().EndFrame()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.imguiBackend.Get().Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.imguiBackend.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	registry := ecs.NewComponentRegistry()
	debugui.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	backend := debugui_ebiten.Install(storage, "ImGui Example", 1280, 720)

	storage.Spawn(debugui.ImguiItem{
		Render: func() {
			imgui.Begin("Debug Window")
			imgui.Text("Hello from a system!")
			imgui.End()
		},
	})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&debugui.ImguiSystem{})

	if err := ebiten.RunGame(&Game{scheduler: scheduler, imguiBackend: backend}); err != nil {
		panic(err)
	}
}
