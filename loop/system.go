package loop

// System is one step of a frame. Systems run in registration order and may
// keep their own state between frames.
type System[W any] interface {
	Execute(frame *Frame[W])
}

// SystemFunc adapts a plain function to a System.
type SystemFunc[W any] func(frame *Frame[W])

func (f SystemFunc[W]) Execute(frame *Frame[W]) { f(frame) }
