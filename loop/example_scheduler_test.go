package loop_test

import (
	"fmt"
	"time"

	"github.com/plus3/blockfall/loop"
)

type Clock struct {
	Ticks int
}

type TickSystem struct{}

func (TickSystem) Execute(frame *loop.Frame[*Clock]) {
	frame.World.Ticks++
	fmt.Printf("tick %d at %dms\n", frame.World.Ticks, frame.NowMillis())
}

type ReportSystem struct{}

func (ReportSystem) Execute(frame *loop.Frame[*Clock]) {
	ticks := frame.World.Ticks
	frame.Commands.Defer(func() {
		fmt.Printf("flushed after tick %d\n", ticks)
	})
}

// ExampleScheduler demonstrates externally driven ticks. Systems run in
// registration order and deferred commands run once all systems are done.
func ExampleScheduler() {
	scheduler := loop.NewScheduler(&Clock{})
	scheduler.Register(TickSystem{})
	scheduler.Register(ReportSystem{})

	scheduler.Once(0)
	scheduler.Once(16 * time.Millisecond)

	fmt.Println("frames:", scheduler.Stats().Frames)

	// Output:
	// tick 1 at 0ms
	// flushed after tick 1
	// tick 2 at 16ms
	// flushed after tick 2
	// frames: 2
}
