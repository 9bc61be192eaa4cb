package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
)

// ValueViewer shows the exported fields of a struct, such as the loaded
// configuration, as a read-only tree.
type ValueViewer struct {
	Title string
	Value any
}

func (v *ValueViewer) Render() {
	if !imgui.BeginV(v.Title, nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	val := reflect.ValueOf(v.Value)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if !val.IsValid() || val.Kind() != reflect.Struct {
		imgui.Text(describe(val))
		imgui.End()
		return
	}

	for _, field := range globalReflectionCache.Fields(val.Type()) {
		renderField(field, val.Field(field.Index))
	}

	imgui.End()
}

func renderField(field FieldInfo, val reflect.Value) {
	if field.kind == fieldSecret {
		imgui.Text(fmt.Sprintf("%s: %s", field.Label, masked(val)))
		return
	}
	if field.Pointer {
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", field.Label))
			return
		}
		val = val.Elem()
	}

	if field.kind == fieldNested {
		if imgui.TreeNodeStr(field.Label) {
			for _, nested := range globalReflectionCache.Fields(val.Type()) {
				renderField(nested, val.Field(nested.Index))
			}
			imgui.TreePop()
		}
		return
	}
	imgui.Text(fmt.Sprintf("%s: %s", field.Label, describe(val)))
}

// masked hides a secret but still tells an unset one apart.
func masked(val reflect.Value) string {
	if !val.IsValid() || val.IsZero() {
		return "(unset)"
	}
	return "******"
}

// describe formats a leaf value for display.
func describe(val reflect.Value) string {
	if !val.IsValid() {
		return "<invalid>"
	}
	switch val.Kind() {
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("[%d items]", val.Len())
	case reflect.Map:
		return fmt.Sprintf("map[%d items]", val.Len())
	case reflect.Func:
		if val.IsNil() {
			return "nil"
		}
		return "func"
	case reflect.Interface:
		if val.IsNil() {
			return "nil"
		}
		return fmt.Sprintf("%T", val.Interface())
	case reflect.String:
		return fmt.Sprintf("%q", val.String())
	}
	if val.CanInterface() {
		return fmt.Sprintf("%v", val.Interface())
	}
	return val.Kind().String()
}
