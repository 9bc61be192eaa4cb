package game

// Command is a player action queued for the next frame.
type Command uint8

const (
	CommandLeft Command = iota
	CommandRight
	CommandDown
	CommandRotate
	CommandDrop
	CommandPause
	CommandStart
)

func (c Command) String() string {
	switch c {
	case CommandLeft:
		return "left"
	case CommandRight:
		return "right"
	case CommandDown:
		return "down"
	case CommandRotate:
		return "rotate"
	case CommandDrop:
		return "drop"
	case CommandPause:
		return "pause"
	case CommandStart:
		return "start"
	}
	return "unknown"
}

// DefaultInputCapacity is the queue size used when none is given.
const DefaultInputCapacity = 32

// Input is a bounded FIFO of commands. Front-ends push from the tick
// goroutine; InputSystem drains it once per frame.
type Input struct {
	queue    []Command
	capacity int
	dropped  int
}

func NewInput(capacity int) *Input {
	if capacity <= 0 {
		capacity = DefaultInputCapacity
	}
	return &Input{
		queue:    make([]Command, 0, capacity),
		capacity: capacity,
	}
}

// Push appends c and reports whether it was accepted. A full queue drops
// the new command.
func (in *Input) Push(c Command) bool {
	if len(in.queue) >= in.capacity {
		in.dropped++
		return false
	}
	in.queue = append(in.queue, c)
	return true
}

// Drain returns the queued commands in push order and empties the queue.
func (in *Input) Drain() []Command {
	if len(in.queue) == 0 {
		return nil
	}
	out := make([]Command, len(in.queue))
	copy(out, in.queue)
	in.queue = in.queue[:0]
	return out
}

func (in *Input) Len() int { return len(in.queue) }

// Dropped returns how many commands were rejected because the queue was full.
func (in *Input) Dropped() int { return in.dropped }
