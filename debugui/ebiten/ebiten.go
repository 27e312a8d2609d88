// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sightline/ecs"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// It is stored as a singleton so the game loop can reach it through the storage.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Install creates the backend window and stores it as storage's ImguiBackend
// singleton. imgui.ini persistence is disabled.
func Install(storage *ecs.Storage, title string, width, height int) *ecs.Singleton[ImguiBackend] {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")

	return ecs.NewSingleton(storage, ImguiBackend{EbitenBackend: backend})
}
