package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/loop"
)

const (
	boardX    = 1
	boardY    = 1
	cellWidth = 2
)

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	ghostStyle  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
)

// Terminal renders a game world with tcell and turns key presses into
// game commands.
type Terminal struct {
	screen    tcell.Screen
	world     *game.World
	scheduler *loop.Scheduler[*game.World]
	tick      time.Duration
}

func NewTerminal(screen tcell.Screen, world *game.World, scheduler *loop.Scheduler[*game.World], tick time.Duration) *Terminal {
	return &Terminal{
		screen:    screen,
		world:     world,
		scheduler: scheduler,
		tick:      tick,
	}
}

// commandForKey maps a key press to a game command. quit is true for the
// keys that leave the program.
func commandForKey(ev *tcell.EventKey) (cmd game.Command, ok, quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return 0, false, true
	case tcell.KeyLeft:
		return game.CommandLeft, true, false
	case tcell.KeyRight:
		return game.CommandRight, true, false
	case tcell.KeyDown:
		return game.CommandDown, true, false
	case tcell.KeyUp:
		return game.CommandRotate, true, false
	case tcell.KeyEnter:
		return game.CommandStart, true, false
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			return game.CommandDrop, true, false
		case 'x', 'w':
			return game.CommandRotate, true, false
		case 'a', 'h':
			return game.CommandLeft, true, false
		case 'd', 'l':
			return game.CommandRight, true, false
		case 's', 'j':
			return game.CommandDown, true, false
		case 'p':
			return game.CommandPause, true, false
		case 'n':
			return game.CommandStart, true, false
		case 'q':
			return 0, false, true
		}
	}
	return 0, false, false
}

// Run ticks the scheduler and redraws until the context is cancelled or a
// quit key is pressed.
func (t *Terminal) Run(ctx context.Context) {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	events := pollEvents(t.screen, done)

	epoch := time.Now()
	t.scheduler.Once(0)
	t.Draw()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				cmd, ok, quit := commandForKey(ev)
				if quit {
					return
				}
				if ok {
					t.world.Input.Push(cmd)
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}

		case now := <-ticker.C:
			t.scheduler.Once(now.Sub(epoch))
			t.Draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed, then closes the returned channel.
func pollEvents(screen interface{ PollEvent() tcell.Event }, done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 100)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}

func colorStyle(c engine.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.GetColor(string(c)))
}

func (t *Terminal) setCell(x, y int, r rune, style tcell.Style) {
	for i := range cellWidth {
		t.screen.SetContent(boardX+1+x*cellWidth+i, boardY+1+y, r, nil, style)
	}
}

func (t *Terminal) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

// Draw renders the board, the ghost, the active piece and the side panel.
func (t *Terminal) Draw() {
	t.screen.Clear()

	e := t.world.Engine
	board := e.Board()
	rows, cols := board.Rows(), board.Cols()
	width := cols * cellWidth

	for y := 0; y <= rows+1; y++ {
		t.screen.SetContent(boardX, boardY+y, '│', nil, borderStyle)
		t.screen.SetContent(boardX+width+1, boardY+y, '│', nil, borderStyle)
	}
	for x := 0; x <= width+1; x++ {
		t.screen.SetContent(boardX+x, boardY, '─', nil, borderStyle)
		t.screen.SetContent(boardX+x, boardY+rows+1, '─', nil, borderStyle)
	}
	t.screen.SetContent(boardX, boardY, '┌', nil, borderStyle)
	t.screen.SetContent(boardX+width+1, boardY, '┐', nil, borderStyle)
	t.screen.SetContent(boardX, boardY+rows+1, '└', nil, borderStyle)
	t.screen.SetContent(boardX+width+1, boardY+rows+1, '┘', nil, borderStyle)

	for y := range rows {
		for x := range cols {
			if c := board.At(x, y); c != engine.Empty {
				t.setCell(x, y, '█', colorStyle(c))
			}
		}
	}

	if p, ok := e.Piece(); ok && e.State() != engine.Idle {
		if ghostY, ok := e.GhostY(); ok && ghostY != p.Y && e.State() != engine.GameOver {
			ghost := p
			ghost.Y = ghostY
			ghost.Cells(func(x, y int) {
				if y >= 0 {
					t.setCell(x, y, '░', ghostStyle)
				}
			})
		}
		style := colorStyle(p.Color)
		p.Cells(func(x, y int) {
			if y >= 0 {
				t.setCell(x, y, '█', style)
			}
		})
	}

	panelX := boardX + width + 4
	t.text(panelX, boardY, "BLOCKFALL", titleStyle)
	t.text(panelX, boardY+2, fmt.Sprintf("Score  %d", e.Score()), textStyle)
	t.text(panelX, boardY+3, fmt.Sprintf("Level  %d", e.Level()), textStyle)
	t.text(panelX, boardY+4, fmt.Sprintf("Lines  %d", e.Lines()), textStyle)
	t.text(panelX, boardY+6, statusLine(e.State()), titleStyle)

	t.text(panelX, boardY+8, "High Scores", titleStyle)
	for i, score := range t.world.HighScores {
		t.text(panelX, boardY+9+i, fmt.Sprintf("%2d. %d", i+1, score), textStyle)
	}

	helpY := boardY + 10 + max(len(t.world.HighScores), 1)
	for i, line := range []string{
		"←/→/↓ move  ↑ rotate",
		"space drop  p pause",
		"enter start  q quit",
	} {
		t.text(panelX, helpY+i, line, borderStyle)
	}

	t.screen.Show()
}

func statusLine(s engine.State) string {
	switch s {
	case engine.Idle:
		return "Press enter to start"
	case engine.Paused:
		return "Paused"
	case engine.GameOver:
		return "Game over"
	}
	return ""
}
