// Package game drives an engine from a frame scheduler: queued player input,
// gravity, sound cues and leaderboard recording each run as a system.
package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/loop"
)

// Recorder stores the score of a finished session and returns the updated
// top list. *leaderboard.Board satisfies it.
type Recorder interface {
	Record(ctx context.Context, score int) ([]int, error)
}

// Sounds plays event cues. *audio.Player satisfies it.
type Sounds interface {
	PlayLock()
	PlayLineClear(rows int)
	PlayGameOver()
}

// Options configures a World. Only Engine is required; the zero value of
// every other field disables the matching feature.
type Options struct {
	Engine        engine.Config
	Log           logrus.FieldLogger
	Leaderboard   Recorder
	Sounds        Sounds
	InputCapacity int

	// RecordTimeout bounds a leaderboard write. Defaults to 2s.
	RecordTimeout time.Duration
}

// Events collects what happened to the engine during the current frame.
// InputSystem resets it at the start of every frame.
type Events struct {
	Locked   int
	Cleared  int
	GameOver *engine.Summary

	// Session is the session that ended, captured when GameOver fired.
	Session uuid.UUID
}

// World is the value every game system receives.
type World struct {
	Engine  *engine.Engine
	Input   *Input
	Session uuid.UUID
	Log     logrus.FieldLogger

	Leaderboard   Recorder
	Sounds        Sounds
	RecordTimeout time.Duration

	// HighScores is the last list returned by the leaderboard.
	HighScores []int

	events Events
}

// NewWorld creates a world around a new idle engine. Hooks already present
// in opts.Engine are kept and run before the world records the event.
func NewWorld(opts Options) *World {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	timeout := opts.RecordTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	w := &World{
		Input:         NewInput(opts.InputCapacity),
		Log:           log,
		Leaderboard:   opts.Leaderboard,
		Sounds:        opts.Sounds,
		RecordTimeout: timeout,
	}

	cfg := opts.Engine
	if cfg.Log == nil {
		cfg.Log = log
	}
	hooks := cfg.Hooks
	cfg.Hooks = engine.Hooks{
		Locked: func(p engine.Piece) {
			if hooks.Locked != nil {
				hooks.Locked(p)
			}
			w.events.Locked++
		},
		LinesCleared: func(n int) {
			if hooks.LinesCleared != nil {
				hooks.LinesCleared(n)
			}
			w.events.Cleared += n
		},
		GameOver: func(s engine.Summary) {
			if hooks.GameOver != nil {
				hooks.GameOver(s)
			}
			w.events.GameOver = &s
			w.events.Session = w.Session
		},
	}
	w.Engine = engine.New(cfg)
	return w
}

// Events returns the engine events seen so far this frame.
func (w *World) Events() Events { return w.events }

// Start begins a new session with a fresh session id.
func (w *World) Start() {
	w.Session = uuid.New()
	w.Engine.Start()
	w.Log.WithField("session", w.Session.String()).Info("game: session started")
}

// Apply runs a single command against the engine.
func (w *World) Apply(c Command) {
	e := w.Engine
	switch c {
	case CommandLeft:
		e.Move(engine.Left)
	case CommandRight:
		e.Move(engine.Right)
	case CommandDown:
		e.Move(engine.Down)
	case CommandRotate:
		e.Rotate()
	case CommandDrop:
		e.HardDrop()
	case CommandPause:
		before := e.State()
		paused := e.TogglePause()
		if before == engine.Running || before == engine.Paused {
			w.Log.WithFields(logrus.Fields{
				"session": w.Session.String(),
				"paused":  paused,
			}).Debug("game: pause toggled")
		}
	case CommandStart:
		w.Start()
	}
}

// NewScheduler returns a scheduler running the game systems in dispatch
// order: input, gravity, sound, score.
func NewScheduler(w *World) *loop.Scheduler[*World] {
	s := loop.NewScheduler(w)
	s.Register(&InputSystem{})
	s.Register(&GravitySystem{})
	s.Register(&SoundSystem{})
	s.Register(&ScoreSystem{})
	return s
}
