package game

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/plus3/blockfall/loop"
)

// InputSystem applies every queued command in order.
type InputSystem struct {
	Applied int64
}

func (s *InputSystem) Execute(frame *loop.Frame[*World]) {
	w := frame.World
	w.events = Events{}
	for _, c := range w.Input.Drain() {
		w.Apply(c)
		s.Applied++
	}
}

// GravitySystem advances the automatic drop clock.
type GravitySystem struct{}

func (s *GravitySystem) Execute(frame *loop.Frame[*World]) {
	frame.World.Engine.Advance(frame.NowMillis())
}

// SoundSystem plays one cue per frame for the most significant event.
type SoundSystem struct{}

func (s *SoundSystem) Execute(frame *loop.Frame[*World]) {
	w := frame.World
	if w.Sounds == nil {
		return
	}
	switch ev := w.events; {
	case ev.GameOver != nil:
		w.Sounds.PlayGameOver()
	case ev.Cleared > 0:
		w.Sounds.PlayLineClear(ev.Cleared)
	case ev.Locked > 0:
		w.Sounds.PlayLock()
	}
}

// ScoreSystem records the final score of a session once it is over. The
// write happens after the frame's systems ran; a failure is logged and
// leaves the engine untouched.
type ScoreSystem struct {
	Recorded int64
	Failed   int64
}

func (s *ScoreSystem) Execute(frame *loop.Frame[*World]) {
	w := frame.World
	summary := w.events.GameOver
	if summary == nil || w.Leaderboard == nil {
		return
	}

	score := summary.Score
	log := w.Log.WithFields(logrus.Fields{
		"session": w.events.Session.String(),
		"score":   summary.Score,
		"level":   summary.Level,
		"lines":   summary.Lines,
	})

	frame.Commands.Defer(func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.RecordTimeout)
		defer cancel()

		scores, err := w.Leaderboard.Record(ctx, score)
		if err != nil {
			s.Failed++
			log.WithError(err).Warn("game: failed to record score")
			return
		}
		s.Recorded++
		w.HighScores = scores
		log.Info("game: score recorded")
	})
}
