package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/plus3/blockfall/debugui"
	debugui_ebiten "github.com/plus3/blockfall/debugui/ebiten"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/loop"
)

const (
	cellSize   = 30
	boardLeft  = 20
	boardTop   = 20
	panelWidth = 200

	// Held movement keys repeat after repeatDelay ticks, every repeatRate ticks.
	repeatDelay = 12
	repeatRate  = 4
)

var (
	backgroundColor = color.RGBA{0x10, 0x10, 0x18, 0xff}
	gridColor       = color.RGBA{0x28, 0x28, 0x34, 0xff}
	ghostColor      = color.RGBA{0x60, 0x60, 0x70, 0xff}
)

type keyBinding struct {
	key    ebiten.Key
	cmd    game.Command
	repeat bool
}

var bindings = []keyBinding{
	{ebiten.KeyArrowLeft, game.CommandLeft, true},
	{ebiten.KeyArrowRight, game.CommandRight, true},
	{ebiten.KeyArrowDown, game.CommandDown, true},
	{ebiten.KeyArrowUp, game.CommandRotate, false},
	{ebiten.KeySpace, game.CommandDrop, false},
	{ebiten.KeyP, game.CommandPause, false},
	{ebiten.KeyEnter, game.CommandStart, false},
}

// GUI implements ebiten.Game for a game world with an optional ImGui
// inspector on top.
type GUI struct {
	world     *game.World
	scheduler *loop.Scheduler[*game.World]
	backend   *debugui_ebiten.ImguiBackend
	overlay   *debugui.Overlay
	palette   map[engine.Color]color.Color
	ticks     int64
}

// NewGUI wires the overlay into scheduler. When showInspector is set, the
// inspector and a read-only view of settings are drawn every frame.
func NewGUI(world *game.World, scheduler *loop.Scheduler[*game.World], backend *debugui_ebiten.ImguiBackend, showInspector bool, settings any) *GUI {
	g := &GUI{
		world:     world,
		scheduler: scheduler,
		backend:   backend,
		overlay:   &debugui.Overlay{},
		palette:   make(map[engine.Color]color.Color),
	}

	if showInspector {
		inspector := debugui.NewInspector(120)
		timer := debugui.NewFrameTimer()
		g.overlay.Add(func() {
			inspector.Render(world.Engine, scheduler.Stats(), timer.DeltaTime())
		})
		viewer := &debugui.ValueViewer{Title: "Configuration", Value: settings}
		g.overlay.Add(viewer.Render)
	}
	scheduler.Register(&debugui.System[*game.World]{Overlay: g.overlay})
	return g
}

// repeating reports whether a key held for d ticks should fire this tick.
func repeating(d int) bool {
	return d == 1 || (d >= repeatDelay && (d-repeatDelay)%repeatRate == 0)
}

// colorOf converts a color token such as "#00FFFF" to an image color.
// Unparseable tokens render white.
func colorOf(c engine.Color) color.Color {
	parsed, err := colorful.Hex(string(c))
	if err != nil {
		return color.White
	}
	r, g, b := parsed.RGB255()
	return color.RGBA{r, g, b, 0xff}
}

func (g *GUI) color(c engine.Color) color.Color {
	if cached, ok := g.palette[c]; ok {
		return cached
	}
	clr := colorOf(c)
	g.palette[c] = clr
	return clr
}

func (g *GUI) readInput() {
	if g.overlay.Input.WantCaptureKeyboard {
		return
	}
	for _, b := range bindings {
		if b.repeat {
			if repeating(inpututil.KeyPressDuration(b.key)) {
				g.world.Input.Push(b.cmd)
			}
			continue
		}
		if inpututil.IsKeyJustPressed(b.key) {
			g.world.Input.Push(b.cmd)
		}
	}
}

func (g *GUI) Update() error {
	g.backend.BeginFrame()

	g.readInput()
	g.ticks++
	g.scheduler.Once(loop.TickTime(g.ticks, ebiten.TPS()))

	g.backend.EndFrame()
	return nil
}

func (g *GUI) fillCell(screen *ebiten.Image, x, y int, clr color.Color) {
	vector.DrawFilledRect(screen,
		float32(boardLeft+x*cellSize+1), float32(boardTop+y*cellSize+1),
		cellSize-2, cellSize-2, clr, false)
}

func (g *GUI) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	e := g.world.Engine
	board := e.Board()
	rows, cols := board.Rows(), board.Cols()

	for y := range rows {
		for x := range cols {
			if c := board.At(x, y); c != engine.Empty {
				g.fillCell(screen, x, y, g.color(c))
			} else {
				g.fillCell(screen, x, y, gridColor)
			}
		}
	}

	if p, ok := e.Piece(); ok && e.State() != engine.Idle {
		if ghostY, ok := e.GhostY(); ok && e.State() != engine.GameOver {
			ghost := p
			ghost.Y = ghostY
			ghost.Cells(func(x, y int) {
				if y >= 0 {
					g.fillCell(screen, x, y, ghostColor)
				}
			})
		}
		clr := g.color(p.Color)
		p.Cells(func(x, y int) {
			if y >= 0 {
				g.fillCell(screen, x, y, clr)
			}
		})
	}

	panelX := boardLeft + cols*cellSize + 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SCORE %d\nLEVEL %d\nLINES %d", e.Score(), e.Level(), e.Lines()), panelX, boardTop)
	switch e.State() {
	case engine.Idle:
		ebitenutil.DebugPrintAt(screen, "ENTER to start", panelX, boardTop+60)
	case engine.Paused:
		ebitenutil.DebugPrintAt(screen, "PAUSED", panelX, boardTop+60)
	case engine.GameOver:
		ebitenutil.DebugPrintAt(screen, "GAME OVER\nENTER to restart", panelX, boardTop+60)
	}

	scores := "HIGH SCORES"
	for i, s := range g.world.HighScores {
		scores += fmt.Sprintf("\n%2d. %d", i+1, s)
	}
	ebitenutil.DebugPrintAt(screen, scores, panelX, boardTop+110)

	g.backend.Draw(screen)
}

func (g *GUI) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// windowSize fits the board and side panel.
func windowSize(rows, cols int) (int, int) {
	return boardLeft*2 + cols*cellSize + panelWidth, boardTop*2 + rows*cellSize
}
