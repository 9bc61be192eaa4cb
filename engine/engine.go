// Package engine implements the falling-block simulation: the board, the
// active piece, collision, rotation with wall kicks, line clearing and the
// score/level progression. It has no clock or renderer of its own; a driver
// calls its methods once per input event or timer tick and reads its state.
package engine

import (
	"math/rand/v2"

	"github.com/kamstrup/intmap"
	"github.com/sirupsen/logrus"
)

// State is the engine lifecycle state.
type State uint8

const (
	Idle State = iota
	Running
	Paused
	GameOver
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case GameOver:
		return "game over"
	}
	return "unknown"
}

// Direction is a translation of the active piece.
type Direction uint8

const (
	Left Direction = iota
	Right
	Down
)

func (d Direction) offset() (dx, dy int) {
	switch d {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	}
	return 0, 0
}

// RandSource picks piece kinds. *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	IntN(n int) int
}

// Summary is the result of a finished session.
type Summary struct {
	Score int `json:"score"`
	Level int `json:"level"`
	Lines int `json:"lines"`
}

// Hooks are optional callbacks invoked synchronously after the matching
// state change has been applied.
type Hooks struct {
	Locked       func(p Piece)
	LinesCleared func(n int)
	GameOver     func(s Summary)
}

// Config holds the board size and progression constants.
type Config struct {
	Rows int
	Cols int

	// Drop interval in milliseconds: BaseInterval at level 1, reduced by
	// IntervalStep per level, never below MinInterval.
	BaseInterval int64
	MinInterval  int64
	IntervalStep int64

	LinesPerLevel int
	LineScore     int

	// Seed seeds the default random source. Ignored when Rand is set.
	// Zero picks a random seed.
	Seed uint64
	Rand RandSource

	Hooks Hooks
	Log   logrus.FieldLogger
}

// DefaultConfig returns a 20×10 board with the classic progression:
// 100 points per line times the level, a new level every 10 lines, and a
// drop interval of 1000ms at level 1 shrinking by 100ms per level to 100ms.
func DefaultConfig() Config {
	return Config{
		Rows:          20,
		Cols:          10,
		BaseInterval:  1000,
		MinInterval:   100,
		IntervalStep:  100,
		LinesPerLevel: 10,
		LineScore:     100,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Rows <= 0 {
		c.Rows = d.Rows
	}
	if c.Cols <= 0 {
		c.Cols = d.Cols
	}
	if c.BaseInterval <= 0 {
		c.BaseInterval = d.BaseInterval
	}
	if c.MinInterval <= 0 {
		c.MinInterval = d.MinInterval
	}
	if c.IntervalStep < 0 {
		c.IntervalStep = d.IntervalStep
	}
	if c.LinesPerLevel <= 0 {
		c.LinesPerLevel = d.LinesPerLevel
	}
	if c.LineScore <= 0 {
		c.LineScore = d.LineScore
	}
	if c.Rand == nil {
		seed := c.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		c.Rand = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if c.Log == nil {
		c.Log = logrus.StandardLogger()
	}
	return c
}

// Engine owns the board, the active piece and the game state. It is not
// safe for concurrent use; all calls must come from one goroutine.
type Engine struct {
	cfg   Config
	board *Board
	piece *Piece
	state State

	score        int
	level        int
	lines        int
	dropInterval int64

	// Drop clock. lastDrop is only meaningful while clockSet; frozen holds
	// the time already waited since the last drop while the clock is
	// detached (before the first tick and while paused).
	lastDrop int64
	lastTick int64
	frozen   int64
	clockSet bool

	spawned *intmap.Map[Kind, int]
	summary Summary
}

// New creates an idle engine. Zero fields of cfg take their DefaultConfig values.
func New(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:          cfg,
		board:        NewBoard(cfg.Rows, cfg.Cols),
		state:        Idle,
		level:        1,
		dropInterval: cfg.BaseInterval,
		spawned:      intmap.New[Kind, int](int(kindCount)),
	}
}

// Start resets the board and game state and spawns the first piece. It can
// be called from any state.
func (e *Engine) Start() {
	e.board.reset()
	e.score = 0
	e.level = 1
	e.lines = 0
	e.dropInterval = e.cfg.BaseInterval
	e.lastDrop = 0
	e.lastTick = 0
	e.frozen = 0
	e.clockSet = false
	e.summary = Summary{}
	e.spawned.Clear()

	p := e.spawn()
	e.piece = &p
	e.state = Running

	e.cfg.Log.WithFields(logrus.Fields{
		"rows": e.cfg.Rows,
		"cols": e.cfg.Cols,
	}).Debug("engine: session started")
}

// TogglePause switches between Running and Paused and reports whether the
// engine is paused afterwards. It does nothing in any other state.
func (e *Engine) TogglePause() bool {
	switch e.state {
	case Running:
		if e.clockSet {
			e.frozen = e.lastTick - e.lastDrop
		}
		e.clockSet = false
		e.state = Paused
		return true
	case Paused:
		e.state = Running
		return false
	}
	return false
}

// Move translates the active piece one cell if the destination is free and
// reports whether it moved. It is a no-op unless the engine is running.
func (e *Engine) Move(dir Direction) bool {
	if !e.active() {
		return false
	}
	dx, dy := dir.offset()
	if e.board.Collides(*e.piece, dx, dy) {
		return false
	}
	e.piece.X += dx
	e.piece.Y += dy
	return true
}

// Rotate turns the active piece clockwise, applying a wall kick when needed,
// and reports whether the rotation was accepted.
func (e *Engine) Rotate() bool {
	if !e.active() {
		return false
	}
	rotated, ok := Rotate(*e.piece, e.board)
	if ok {
		*e.piece = rotated
	}
	return ok
}

// HardDrop moves the active piece down until it rests, locks it, and
// returns the number of rows it fell.
func (e *Engine) HardDrop() int {
	if !e.active() {
		return 0
	}
	rows := 0
	for e.Move(Down) {
		rows++
	}
	e.lock()
	return rows
}

// Advance runs the automatic drop for a tick at time now (milliseconds,
// monotonic). Once more than the drop interval has passed since the last
// drop, the piece moves down one row or locks if it cannot. The first tick
// after Start or after resuming from pause only re-attaches the clock.
// It reports whether a drop step happened.
func (e *Engine) Advance(now int64) bool {
	if !e.active() {
		return false
	}
	e.lastTick = now

	if !e.clockSet {
		e.lastDrop = now - e.frozen
		e.frozen = 0
		e.clockSet = true
		return false
	}

	if now-e.lastDrop <= e.dropInterval {
		return false
	}

	if !e.Move(Down) {
		e.lock()
	}
	e.lastDrop = now
	return true
}

func (e *Engine) active() bool {
	return e.state == Running && e.piece != nil
}

func (e *Engine) spawn() Piece {
	kind := Kinds[e.cfg.Rand.IntN(len(Kinds))]
	count, _ := e.spawned.Get(kind)
	e.spawned.Put(kind, count+1)
	return NewPiece(kind, e.cfg.Cols)
}

func (e *Engine) lock() {
	locked := *e.piece
	e.board.Merge(locked)
	if e.cfg.Hooks.Locked != nil {
		e.cfg.Hooks.Locked(locked)
	}

	e.clearLines()

	next := e.spawn()
	e.piece = &next
	if e.board.Collides(next, 0, 0) {
		e.gameOver()
	}
}

func (e *Engine) clearLines() int {
	n := e.board.clearFullRows()
	if n == 0 {
		return 0
	}

	e.lines += n
	e.score += n * e.cfg.LineScore * e.level
	e.level = e.lines/e.cfg.LinesPerLevel + 1
	e.dropInterval = max(e.cfg.MinInterval, e.cfg.BaseInterval-int64(e.level-1)*e.cfg.IntervalStep)

	if e.cfg.Hooks.LinesCleared != nil {
		e.cfg.Hooks.LinesCleared(n)
	}
	return n
}

func (e *Engine) gameOver() {
	if e.state == GameOver {
		return
	}
	e.state = GameOver
	e.summary = Summary{Score: e.score, Level: e.level, Lines: e.lines}

	e.cfg.Log.WithFields(logrus.Fields{
		"score": e.score,
		"level": e.level,
		"lines": e.lines,
	}).Info("engine: game over")

	if e.cfg.Hooks.GameOver != nil {
		e.cfg.Hooks.GameOver(e.summary)
	}
}
