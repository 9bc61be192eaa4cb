// Package debugui draws Dear ImGui debug windows on top of a running game.
// Render functions are queued as deferred frame commands so they run after
// the simulation systems of the same tick.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/blockfall/loop"
)

// Item holds a Dear ImGui render function.
type Item struct {
	Render func()
}

// InputState tracks whether ImGui is consuming mouse or keyboard input.
// Front-ends check it before forwarding keys to the game.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay is the set of windows drawn each frame.
type Overlay struct {
	Items []Item
	Input InputState
}

// Add appends a render function.
func (o *Overlay) Add(render func()) {
	o.Items = append(o.Items, Item{Render: render})
}

// System updates the overlay input state and queues every item's render
// function. It works with any world type.
type System[W any] struct {
	Overlay *Overlay
}

func (s *System[W]) Execute(frame *loop.Frame[W]) {
	io := imgui.CurrentIO()
	s.Overlay.Input.WantCaptureMouse = io.WantCaptureMouse()
	s.Overlay.Input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	for _, item := range s.Overlay.Items {
		frame.Commands.Defer(item.Render)
	}
}
