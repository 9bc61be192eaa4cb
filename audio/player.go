// Package audio plays short synthesized cues for game events.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

type note struct {
	freq     float64
	duration time.Duration
}

var (
	lockCue     = []note{{freq: 220, duration: 40 * time.Millisecond}}
	gameOverCue = []note{
		{freq: 392, duration: 150 * time.Millisecond},
		{freq: 330, duration: 150 * time.Millisecond},
		{freq: 262, duration: 300 * time.Millisecond},
	}
)

// lineClearCue rises one step per cleared row.
func lineClearCue(rows int) []note {
	notes := make([]note, 0, rows)
	freq := 523.25
	for range rows {
		notes = append(notes, note{freq: freq, duration: 70 * time.Millisecond})
		freq *= 1.25
	}
	return notes
}

// Player owns the speaker. A player that was never initialised, or whose
// initialisation failed, stays silent.
type Player struct {
	mu          sync.Mutex
	volume      float64
	initialized bool
}

// NewPlayer creates a player with volume in [0, 1].
func NewPlayer(volume float64) *Player {
	return &Player{volume: min(max(volume, 0), 1)}
}

// Init opens the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	p.initialized = true
	return nil
}

// Close stops playback and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

func (p *Player) PlayLock()              { p.play(lockCue) }
func (p *Player) PlayLineClear(rows int) { p.play(lineClearCue(rows)) }
func (p *Player) PlayGameOver()          { p.play(gameOverCue) }

func (p *Player) play(notes []note) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || len(notes) == 0 || p.volume == 0 {
		return
	}

	streamers := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		tone, err := generators.SineTone(sampleRate, n.freq)
		if err != nil {
			continue
		}
		streamers = append(streamers, beep.Take(sampleRate.N(n.duration), tone))
	}

	speaker.Play(&effects.Gain{
		Streamer: beep.Seq(streamers...),
		Gain:     p.volume - 1,
	})
}
