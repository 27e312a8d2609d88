// Command vis-demo shows a scene from above while the visibility pass runs
// against its orbiting camera. Visible entities are filled, culled ones are
// outlined, and the debug panels show the ordered lists.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sightline/debugui"
	debugui_ebiten "github.com/plus3/sightline/debugui/ebiten"
	"github.com/plus3/sightline/ecs"
	"github.com/plus3/sightline/internal/logging"
	"github.com/plus3/sightline/render"
	"github.com/plus3/sightline/scene"
	"go.uber.org/zap"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
)

type Game struct {
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler
	Backend   *ecs.Singleton[debugui_ebiten.ImguiBackend]
	Map       *MapRenderer
}

func main() {
	scenePath := flag.String("scene", "", "Scene YAML file; the built-in scene is used when empty.")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error.")
	flag.Parse()

	logger, err := logging.New(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	cfg := scene.Default()
	if *scenePath != "" {
		if cfg, err = scene.Load(*scenePath); err != nil {
			logger.Fatal("load scene", zap.String("path", *scenePath), zap.Error(err))
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)
	debugui.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	pop, err := scene.Populate(storage, cfg)
	if err != nil {
		logger.Fatal("populate scene", zap.Error(err))
	}
	logger.Info("scene populated", zap.Stringer("population", pop))

	backend := debugui_ebiten.Install(storage, "Sightline - Visibility Demo", ScreenWidth, ScreenHeight)

	scheduler := ecs.NewScheduler(storage)
	scheduler.SetLogger(logger)
	scheduler.Register(&scene.OrbitSystem{})
	visibility := render.NewVisibilitySortingSystem(logger)
	scheduler.Register(visibility)
	scheduler.Register(&debugui.ImguiSystem{})

	debugui.Spawn(storage, scheduler, visibility)

	game := &Game{
		Storage:   storage,
		Scheduler: scheduler,
		Backend:   backend,
		Map:       NewMapRenderer(storage, cfg),
	}

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("run game", zap.Error(err))
	}
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.Backend.Get().BeginFrame()
	g.Scheduler.Once(1.0 / 60.0)
	g.Backend.Get().EndFrame()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.Map.Draw(screen)
	g.Backend.Get().Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.Backend.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
