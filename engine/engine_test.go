package engine

import (
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence replays a fixed list of kinds, cycling when exhausted.
type sequence struct {
	kinds []Kind
	next  int
}

func (s *sequence) IntN(n int) int {
	k := s.kinds[s.next%len(s.kinds)]
	s.next++
	return int(k)
}

func newTestEngine(kinds ...Kind) *Engine {
	log, _ := logtest.NewNullLogger()
	return New(Config{Rand: &sequence{kinds: kinds}, Log: log})
}

func fillRow(b *Board, y int, except ...int) {
	skip := make(map[int]bool, len(except))
	for _, x := range except {
		skip[x] = true
	}
	for x := range b.Cols() {
		if !skip[x] {
			b.Set(x, y, "#FFFFFF")
		}
	}
}

func TestNewBoard(t *testing.T) {
	for _, dims := range [][2]int{{20, 10}, {1, 1}, {40, 7}} {
		b := NewBoard(dims[0], dims[1])
		assert.Equal(t, dims[0], b.Rows())
		assert.Equal(t, dims[1], b.Cols())
		assert.True(t, b.IsEmpty())

		snap := b.Snapshot()
		require.Len(t, snap, dims[0])
		for _, row := range snap {
			require.Len(t, row, dims[1])
			for _, c := range row {
				assert.Equal(t, Empty, c)
			}
		}
	}

	assert.Panics(t, func() { NewBoard(0, 10) })
}

func TestCollidesBounds(t *testing.T) {
	b := NewBoard(20, 10)

	for _, kind := range Kinds {
		p := NewPiece(kind, b.Cols())
		w, h := p.Shape.Width(), p.Shape.Height()

		p.X = 0
		assert.False(t, b.Collides(p, 0, 0), "%s at left wall", kind)
		assert.True(t, b.Collides(p, -1, 0), "%s past left wall", kind)

		p.X = b.Cols() - w
		assert.False(t, b.Collides(p, 0, 0), "%s at right wall", kind)
		assert.True(t, b.Collides(p, 1, 0), "%s past right wall", kind)

		p.Y = b.Rows() - h
		assert.False(t, b.Collides(p, 0, 0), "%s on floor", kind)
		assert.True(t, b.Collides(p, 0, 1), "%s through floor", kind)
	}
}

func TestCollidesOpenTop(t *testing.T) {
	b := NewBoard(20, 10)
	fillRow(b, 0)

	p := NewPiece(KindO, b.Cols())
	p.Y = -2
	assert.False(t, b.Collides(p, 0, 0), "rows above the board are open")
	assert.True(t, b.Collides(p, 0, 1), "overlapping a filled visible row")
}

func TestCollidesFilledCell(t *testing.T) {
	b := NewBoard(20, 10)
	b.Set(5, 19, "#FF0000")

	p := NewPiece(KindI, b.Cols())
	p.Y = 18
	assert.False(t, b.Collides(p, 0, 0))
	assert.True(t, b.Collides(p, 0, 1))
	assert.False(t, b.Collides(p, -3, 1))
}

func TestMergeDropsCellsAboveBoard(t *testing.T) {
	b := NewBoard(20, 10)
	p := NewPiece(KindJ, b.Cols())
	p.Y = -1

	b.Merge(p)

	// J is [[1,0,0],[1,1,1]]; only its bottom row lands on row 0.
	for x := range b.Cols() {
		want := x >= p.X && x < p.X+3
		assert.Equal(t, want, b.Filled(x, 0), "column %d", x)
	}
	assert.Equal(t, ColorOf(KindJ), b.At(p.X, 0))
	assert.False(t, b.Filled(p.X, 1))
}

func TestNewPieceIsCentred(t *testing.T) {
	tests := []struct {
		kind Kind
		x    int
	}{
		{KindI, 3},
		{KindJ, 4},
		{KindL, 4},
		{KindO, 4},
		{KindS, 4},
		{KindT, 4},
		{KindZ, 4},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			p := NewPiece(tt.kind, 10)
			assert.Equal(t, tt.x, p.X)
			assert.Equal(t, 0, p.Y)
			assert.Equal(t, ColorOf(tt.kind), p.Color)
		})
	}
}

func TestShapeRotate(t *testing.T) {
	t.Run("clockwise T", func(t *testing.T) {
		got := ShapeOf(KindT).Rotate()
		want := Shape{
			{true, false},
			{true, true},
			{true, false},
		}
		assert.True(t, want.Equal(got), "got %v", got)
	})

	t.Run("I becomes vertical", func(t *testing.T) {
		got := ShapeOf(KindI).Rotate()
		assert.Equal(t, 4, got.Height())
		assert.Equal(t, 1, got.Width())
	})

	t.Run("four turns are identity", func(t *testing.T) {
		for _, kind := range Kinds {
			s := ShapeOf(kind)
			assert.True(t, s.Equal(s.Rotate().Rotate().Rotate().Rotate()), "%s", kind)
		}
	})

	t.Run("table is not aliased", func(t *testing.T) {
		s := ShapeOf(KindO)
		s[0][0] = false
		assert.True(t, ShapeOf(KindO)[0][0])
	})
}

func TestRotateO(t *testing.T) {
	b := NewBoard(20, 10)
	p := NewPiece(KindO, b.Cols())

	rotated, ok := Rotate(p, b)
	require.True(t, ok)
	assert.True(t, p.Shape.Equal(rotated.Shape))
	assert.Equal(t, p.X, rotated.X)
	assert.Equal(t, p.Y, rotated.Y)
}

func TestRotateWallKick(t *testing.T) {
	vertical := func(x int) Piece {
		p := NewPiece(KindI, 10)
		p.Shape = p.Shape.Rotate()
		p.X = x
		p.Y = 10
		return p
	}

	t.Run("left wall kicks right", func(t *testing.T) {
		b := NewBoard(20, 10)
		b.Set(1, 10, "#FFFFFF")

		rotated, ok := Rotate(vertical(0), b)
		require.True(t, ok)
		assert.Contains(t, []int{1, 2}, rotated.X)
		assert.Equal(t, 1, rotated.Shape.Height())
		assert.False(t, b.Collides(rotated, 0, 0))
	})

	t.Run("right wall kicks left", func(t *testing.T) {
		b := NewBoard(20, 10)

		rotated, ok := Rotate(vertical(8), b)
		require.True(t, ok)
		assert.Equal(t, 6, rotated.X)
	})

	t.Run("first free kick wins", func(t *testing.T) {
		b := NewBoard(20, 10)
		p := vertical(4)
		b.Set(7, 10, "#FFFFFF")

		// in place covers 4..7; -1 covers 3..6 and is free
		rotated, ok := Rotate(p, b)
		require.True(t, ok)
		assert.Equal(t, 3, rotated.X)
	})

	t.Run("rejected rotation leaves piece unchanged", func(t *testing.T) {
		b := NewBoard(20, 10)
		p := vertical(9)

		rotated, ok := Rotate(p, b)
		assert.False(t, ok)
		assert.Equal(t, p.X, rotated.X)
		assert.True(t, p.Shape.Equal(rotated.Shape))
	})
}

func TestClearLinesScoring(t *testing.T) {
	t.Run("single row at level 1", func(t *testing.T) {
		e := newTestEngine(KindO)
		e.Start()
		fillRow(e.board, 19)

		assert.Equal(t, 1, e.clearLines())
		assert.Equal(t, 100, e.Score())
		assert.Equal(t, 1, e.Lines())
		assert.Equal(t, 1, e.Level())
		assert.True(t, e.Board().IsEmpty())
	})

	t.Run("single row at level 3", func(t *testing.T) {
		e := newTestEngine(KindO)
		e.Start()
		e.lines = 20
		e.level = 3
		fillRow(e.board, 19)

		e.clearLines()
		assert.Equal(t, 300, e.Score())
		assert.Equal(t, 21, e.Lines())
	})

	t.Run("flat per-line award", func(t *testing.T) {
		e := newTestEngine(KindO)
		e.Start()
		for y := 16; y < 20; y++ {
			fillRow(e.board, y)
		}

		assert.Equal(t, 4, e.clearLines())
		assert.Equal(t, 400, e.Score())
	})

	t.Run("level and interval progression", func(t *testing.T) {
		e := newTestEngine(KindO)
		e.Start()
		e.lines = 9
		fillRow(e.board, 19)

		e.clearLines()
		assert.Equal(t, 10, e.Lines())
		assert.Equal(t, 2, e.Level())
		assert.Equal(t, int64(900), e.DropInterval())
	})

	t.Run("interval floors at 100ms", func(t *testing.T) {
		e := newTestEngine(KindO)
		e.Start()
		e.lines = 99
		e.level = 10
		fillRow(e.board, 19)

		e.clearLines()
		assert.Equal(t, 100, e.Lines())
		assert.Equal(t, 11, e.Level())
		assert.Equal(t, int64(100), e.DropInterval())
	})

	t.Run("no full rows changes nothing", func(t *testing.T) {
		e := newTestEngine(KindO)
		e.Start()
		fillRow(e.board, 19, 0)

		assert.Equal(t, 0, e.clearLines())
		assert.Equal(t, 0, e.Score())
		assert.Equal(t, int64(1000), e.DropInterval())
	})
}

func TestClearFullRowsReexaminesIndex(t *testing.T) {
	t.Run("adjacent rows", func(t *testing.T) {
		b := NewBoard(20, 10)
		b.Set(3, 17, "marker")
		fillRow(b, 18)
		fillRow(b, 19)

		assert.Equal(t, 2, b.clearFullRows())
		assert.Equal(t, Color("marker"), b.At(3, 19))
		assert.False(t, b.Filled(3, 17))
		assert.False(t, b.Filled(3, 18))
	})

	t.Run("gapped rows", func(t *testing.T) {
		b := NewBoard(20, 10)
		fillRow(b, 17)
		fillRow(b, 18, 0)
		fillRow(b, 19)
		b.Set(2, 16, "marker")

		assert.Equal(t, 2, b.clearFullRows())
		assert.False(t, b.Filled(0, 19))
		assert.True(t, b.Filled(1, 19))
		assert.Equal(t, Color("marker"), b.At(2, 18))
	})

	t.Run("whole board", func(t *testing.T) {
		b := NewBoard(4, 3)
		for y := range 4 {
			fillRow(b, y)
		}
		assert.Equal(t, 4, b.clearFullRows())
		assert.True(t, b.IsEmpty())
	})
}

func TestHardDropSettlesOnFloor(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			var locked Piece
			log, _ := logtest.NewNullLogger()
			e := New(Config{
				Rand:  &sequence{kinds: []Kind{kind}},
				Log:   log,
				Hooks: Hooks{Locked: func(p Piece) { locked = p }},
			})
			e.Start()

			rows := e.HardDrop()
			want := e.Board().Rows() - ShapeOf(kind).Height()
			assert.Equal(t, want, locked.Y)
			assert.Equal(t, want, rows)
			assert.Equal(t, Running, e.State())
		})
	}
}

func TestGhostY(t *testing.T) {
	e := newTestEngine(KindT)
	_, ok := e.GhostY()
	assert.False(t, ok)

	e.Start()
	y, ok := e.GhostY()
	require.True(t, ok)
	assert.Equal(t, 18, y)

	p, _ := e.Piece()
	assert.Equal(t, 0, p.Y, "ghost must not move the piece")
}

func TestGameOverOnBlockedSpawn(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	var summaries []Summary
	e := New(Config{
		Rand:  &sequence{kinds: []Kind{KindO}},
		Log:   log,
		Hooks: Hooks{GameOver: func(s Summary) { summaries = append(summaries, s) }},
	})
	e.Start()
	fillRow(e.board, 2, 0)

	e.HardDrop()
	require.Equal(t, GameOver, e.State())
	require.Len(t, summaries, 1)

	// further commands and ticks are no-ops
	e.HardDrop()
	assert.False(t, e.Move(Left))
	assert.False(t, e.Rotate())
	assert.False(t, e.Advance(1_000_000))
	assert.False(t, e.TogglePause())

	assert.Len(t, summaries, 1)
	summary, ok := e.Summary()
	require.True(t, ok)
	assert.Equal(t, Summary{Score: 0, Level: 1, Lines: 0}, summary)

	gameOverLogs := 0
	for _, entry := range hook.AllEntries() {
		if entry.Message == "engine: game over" {
			gameOverLogs++
		}
	}
	assert.Equal(t, 1, gameOverLogs)

	e.Start()
	assert.Equal(t, Running, e.State())
	assert.True(t, e.Board().IsEmpty())
	_, ok = e.Summary()
	assert.False(t, ok)
}

func TestCommandsIgnoredUnlessRunning(t *testing.T) {
	e := newTestEngine(KindT)

	assert.False(t, e.Move(Down))
	assert.False(t, e.Rotate())
	assert.Equal(t, 0, e.HardDrop())
	assert.False(t, e.Advance(5000))
	assert.False(t, e.TogglePause())
	assert.Equal(t, Idle, e.State())

	e.Start()
	require.True(t, e.TogglePause())
	assert.True(t, e.Paused())

	before, _ := e.Piece()
	assert.False(t, e.Move(Left))
	assert.False(t, e.Rotate())
	assert.Equal(t, 0, e.HardDrop())
	after, _ := e.Piece()
	assert.Equal(t, before, after)

	assert.False(t, e.TogglePause())
	assert.True(t, e.Running())
	assert.True(t, e.Move(Left))
}

func TestAdvanceDropTimer(t *testing.T) {
	e := newTestEngine(KindT)
	e.Start()

	assert.False(t, e.Advance(0), "first tick attaches the clock")
	assert.False(t, e.Advance(1000), "interval must be exceeded")
	assert.True(t, e.Advance(1001))

	p, _ := e.Piece()
	assert.Equal(t, 1, p.Y)

	assert.False(t, e.Advance(2001))
	assert.True(t, e.Advance(2002))
	p, _ = e.Piece()
	assert.Equal(t, 2, p.Y)
}

func TestAdvanceLocksWhenBlocked(t *testing.T) {
	var locks int
	log, _ := logtest.NewNullLogger()
	e := New(Config{
		Rand:  &sequence{kinds: []Kind{KindO}},
		Log:   log,
		Hooks: Hooks{Locked: func(Piece) { locks++ }},
	})
	e.Start()
	for e.Move(Down) {
	}

	e.Advance(0)
	assert.True(t, e.Advance(1001))
	assert.Equal(t, 1, locks)
	assert.True(t, e.Board().Filled(4, 19))

	p, _ := e.Piece()
	assert.Equal(t, 0, p.Y, "a fresh piece spawned")
}

func TestPauseFreezesDropClock(t *testing.T) {
	e := newTestEngine(KindT)
	e.Start()

	e.Advance(1000)
	e.Advance(1500)
	require.True(t, e.TogglePause())

	assert.False(t, e.Advance(10_000))
	require.False(t, e.TogglePause())

	// 500ms had elapsed before the pause; 500ms more are needed after it.
	assert.False(t, e.Advance(20_000))
	assert.False(t, e.Advance(20_500))
	assert.True(t, e.Advance(20_501))

	p, _ := e.Piece()
	assert.Equal(t, 1, p.Y)
}

func TestSpawnCounts(t *testing.T) {
	e := newTestEngine(KindI, KindO, KindI)
	e.Start()
	e.HardDrop()
	e.HardDrop()

	counts := e.SpawnCounts()
	assert.Equal(t, 2, counts[KindI])
	assert.Equal(t, 1, counts[KindO])
	assert.NotContains(t, counts, KindZ)

	e.Start()
	assert.Len(t, e.SpawnCounts(), 1)
}

func TestLinesClearedHook(t *testing.T) {
	var cleared []int
	log, _ := logtest.NewNullLogger()
	e := New(Config{
		Rand:  &sequence{kinds: []Kind{KindI}},
		Log:   log,
		Hooks: Hooks{LinesCleared: func(n int) { cleared = append(cleared, n) }},
	})
	e.Start()
	fillRow(e.board, 19, 3, 4, 5, 6)

	e.HardDrop()
	assert.Equal(t, []int{1}, cleared)
	assert.Equal(t, 100, e.Score())
	assert.True(t, e.Board().IsEmpty())
}

func TestSeededEnginesAgree(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	a := New(Config{Seed: 42, Log: log})
	b := New(Config{Seed: 42, Log: log})
	a.Start()
	b.Start()

	for range 20 {
		pa, _ := a.Piece()
		pb, _ := b.Piece()
		require.Equal(t, pa.Kind, pb.Kind)
		a.HardDrop()
		b.HardDrop()
	}
}
