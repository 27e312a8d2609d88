package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sightline/ecs"
)

func NewEntityInspectorComponent() *EntityInspectorComponent {
	return &EntityInspectorComponent{}
}

// Render shows every component of the selected entity. Numeric, bool and
// string fields are editable in place.
func (ci *EntityInspectorComponent) Render(storage *ecs.Storage, selectedEntityId ecs.EntityId) {
	imgui.SetNextWindowPosV(imgui.NewVec2(810, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 360), imgui.CondOnce)
	if !imgui.BeginV("Entity Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selectedEntityId = selectedEntityId

	if ci.selectedEntityId == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	archetype := storage.GetArchetypeById(ci.selectedEntityId.ArchetypeId())
	if archetype == nil || !storage.Alive(ci.selectedEntityId) {
		imgui.Text(fmt.Sprintf("Entity %d no longer exists", ci.selectedEntityId))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", ci.selectedEntityId))
	imgui.Text(fmt.Sprintf("Archetype: 0x%X", archetype.ID()))
	imgui.Separator()

	for _, compType := range archetype.Types() {
		component := storage.GetComponent(ci.selectedEntityId, compType)
		if component == nil {
			continue
		}

		if imgui.TreeNodeStr(compType.String()) {
			ci.renderComponent(reflect.ValueOf(component).Elem())
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *EntityInspectorComponent) renderComponent(val reflect.Value) {
	if val.Kind() == reflect.Struct && val.NumField() == 0 {
		imgui.Text("(marker)")
		return
	}

	fields := globalReflectionCache.GetFields(val.Type())
	if len(fields) == 0 {
		renderField(val.Type().Name(), val, FieldInfo{IsVector: isVector(val.Type())})
		return
	}

	for _, field := range fields {
		fieldVal := val.Field(field.Index)
		if field.IsPointer {
			if fieldVal.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", field.Name))
				continue
			}
			fieldVal = fieldVal.Elem()
		}
		renderField(field.Name, fieldVal, field)
	}
}

// renderField draws one value. val must be addressable for edits to apply.
func renderField(name string, val reflect.Value, field FieldInfo) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	editable := val.CanSet()
	label := func(suffix string) string {
		imgui.Text(fmt.Sprintf("%s%s:", name, suffix))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		return fmt.Sprintf("##%s%s", name, suffix)
	}

	if field.IsVector {
		for i := 0; i < val.Len(); i++ {
			v := float32(val.Index(i).Float())
			if imgui.InputFloat(label(fmt.Sprintf("[%d]", i)), &v) && editable {
				val.Index(i).SetFloat(float64(v))
			}
		}
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		if imgui.InputInt(label(""), &v) && editable {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		if imgui.InputInt(label(""), &v) && editable && v >= 0 {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		if imgui.InputFloat(label(""), &v) && editable {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && editable {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		if imgui.InputTextWithHint(label(""), "", &v, imgui.InputTextFlagsNone, nil) && editable {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range globalReflectionCache.GetFields(val.Type()) {
				nested := val.Field(nf.Index)
				if nf.IsPointer {
					if nested.IsNil() {
						imgui.Text(fmt.Sprintf("%s: nil", nf.Name))
						continue
					}
					nested = nested.Elem()
				}
				renderField(nf.Name, nested, nf)
			}
			imgui.TreePop()
		}

	case reflect.Slice, reflect.Array:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}
