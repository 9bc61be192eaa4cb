package loop

import "time"

// Frame is passed to every system during one scheduler tick.
type Frame[W any] struct {
	// Now is the monotonic time of this tick, measured from the scheduler epoch.
	Now time.Duration
	// DeltaTime is the time since the previous tick, in seconds.
	DeltaTime float64
	World     W
	Commands  *Commands
}

func newFrame[W any](now, last time.Duration, world W) *Frame[W] {
	return &Frame[W]{
		Now:       now,
		DeltaTime: (now - last).Seconds(),
		World:     world,
		Commands:  newCommands(),
	}
}

// NowMillis returns Now in whole milliseconds.
func (f *Frame[W]) NowMillis() int64 {
	return f.Now.Milliseconds()
}

// TickTime converts a tick count at a fixed rate of tps ticks per second
// into a frame time, for hosts such as Ebiten that call Update at a fixed
// rate instead of reporting a clock.
func TickTime(tick int64, tps int) time.Duration {
	return time.Duration(tick) * time.Second / time.Duration(tps)
}
