package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/sightline/ecs"
	"github.com/plus3/sightline/render"
)

// VisibilityRow is one visible entity as listed by the inspector.
type VisibilityRow struct {
	Entity      ecs.EntityId
	Transparent bool
	// DistanceSq is the squared distance from the camera to the sphere centre.
	DistanceSq float32
}

func NewVisibilityInspectorComponent(maxRows int) *VisibilityInspectorComponent {
	return &VisibilityInspectorComponent{maxRows: maxRows}
}

// CollectVisibilityRows lists transparent entities in draw order followed by
// opaque ones in id order, at most limit rows in total.
func CollectVisibilityRows(storage *ecs.Storage, vis *render.Visibility, camera ecs.EntityId, limit int) []VisibilityRow {
	origin := mgl32.Vec3{}
	if t := ecs.ReadComponent[render.GlobalTransform](storage, camera); t != nil {
		origin = t.Position()
	}

	rows := make([]VisibilityRow, 0, min(limit, vis.Len()))
	add := func(id ecs.EntityId, transparent bool) bool {
		if len(rows) >= limit {
			return false
		}
		rows = append(rows, VisibilityRow{
			Entity:      id,
			Transparent: transparent,
			DistanceSq:  centroid(storage, id).Sub(origin).LenSqr(),
		})
		return true
	}

	for _, id := range vis.VisibleOrdered {
		if !add(id, true) {
			return rows
		}
	}
	for _, id := range vis.Unordered() {
		if !add(id, false) {
			return rows
		}
	}
	return rows
}

func centroid(storage *ecs.Storage, id ecs.EntityId) mgl32.Vec3 {
	t := ecs.ReadComponent[render.GlobalTransform](storage, id)
	if t == nil {
		return mgl32.Vec3{}
	}
	sphere := render.DefaultBoundingSphere()
	if s := ecs.ReadComponent[render.BoundingSphere](storage, id); s != nil {
		sphere = *s
	}
	return t.TransformPoint(sphere.Center)
}

// Render draws the inspector and returns the entity selected in its list.
func (vi *VisibilityInspectorComponent) Render(storage *ecs.Storage, vis *render.Visibility, stats render.VisibilityStats, lastErr error) ecs.EntityId {
	imgui.SetNextWindowPosV(imgui.NewVec2(380, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(420, 480), imgui.CondOnce)
	if !imgui.BeginV("Visibility", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return vi.selected
	}

	camera := "default 2D"
	if stats.Camera != 0 {
		camera = fmt.Sprintf("%d", stats.Camera)
	}
	imgui.Text(fmt.Sprintf("Camera: %s (%s)", camera, stats.CameraSource))
	imgui.Text(fmt.Sprintf("Frames: %d, skipped: %d", stats.Frames, stats.SkippedFrames))
	if lastErr != nil {
		imgui.Text(fmt.Sprintf("Last error: %v", lastErr))
	}
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Candidates: %d", stats.Candidates))
	imgui.Text(fmt.Sprintf("Culled: %d", stats.Culled))
	imgui.Text(fmt.Sprintf("Opaque: %d", stats.Opaque))
	imgui.Text(fmt.Sprintf("Transparent: %d", stats.Transparent))
	imgui.Text(fmt.Sprintf("Digest: %016x", vis.Digest()))
	imgui.Separator()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("VisibleTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("#")
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Distance²")
		imgui.TableHeadersRow()

		for i, row := range CollectVisibilityRows(storage, vis, stats.Camera, vi.maxRows) {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", i))

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(fmt.Sprintf("%d", row.Entity), vi.selected == row.Entity, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				vi.selected = row.Entity
			}

			imgui.TableNextColumn()
			if row.Transparent {
				imgui.Text("transparent")
			} else {
				imgui.Text("opaque")
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f", row.DistanceSq))
		}
		imgui.EndTable()
	}

	imgui.End()
	return vi.selected
}
