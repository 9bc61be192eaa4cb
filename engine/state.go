package engine

// Board returns the engine's board. It is owned by the engine; callers
// should only read it.
func (e *Engine) Board() *Board { return e.board }

// Piece returns the active piece. ok is false before the first Start.
func (e *Engine) Piece() (p Piece, ok bool) {
	if e.piece == nil {
		return Piece{}, false
	}
	return *e.piece, true
}

func (e *Engine) State() State           { return e.state }
func (e *Engine) Running() bool          { return e.state == Running }
func (e *Engine) Paused() bool           { return e.state == Paused }
func (e *Engine) Score() int             { return e.score }
func (e *Engine) Level() int             { return e.level }
func (e *Engine) Lines() int             { return e.lines }
func (e *Engine) DropInterval() int64    { return e.dropInterval }
func (e *Engine) Config() Config         { return e.cfg }
func (e *Engine) Dimensions() (int, int) { return e.cfg.Rows, e.cfg.Cols }

// Summary returns the final score, level and lines once the session ended.
func (e *Engine) Summary() (Summary, bool) {
	if e.state != GameOver {
		return Summary{}, false
	}
	return e.summary, true
}

// GhostY returns the row the active piece would come to rest on if it were
// hard dropped now.
func (e *Engine) GhostY() (int, bool) {
	if e.piece == nil {
		return 0, false
	}
	dy := 0
	for !e.board.Collides(*e.piece, 0, dy+1) {
		dy++
	}
	return e.piece.Y + dy, true
}

// SpawnCounts returns how many pieces of each kind were spawned this session.
func (e *Engine) SpawnCounts() map[Kind]int {
	counts := make(map[Kind]int, e.spawned.Len())
	for _, kind := range Kinds {
		if n, ok := e.spawned.Get(kind); ok {
			counts[kind] = n
		}
	}
	return counts
}
