package engine

// Board is a fixed rows×cols grid of cells. Dimensions never change once
// created; only the cell contents do.
type Board struct {
	rows  int
	cols  int
	cells []Color
}

// NewBoard creates an empty board.
func NewBoard(rows, cols int) *Board {
	if rows <= 0 || cols <= 0 {
		panic("board dimensions must be positive")
	}
	return &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]Color, rows*cols),
	}
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

// At returns the cell at column x, row y. Coordinates outside the board read as Empty.
func (b *Board) At(x, y int) Color {
	if !b.inside(x, y) {
		return Empty
	}
	return b.cells[y*b.cols+x]
}

// Filled reports whether the cell at (x, y) holds a locked block.
func (b *Board) Filled(x, y int) bool {
	return b.At(x, y) != Empty
}

// Set writes a cell. Writes outside the board are ignored.
func (b *Board) Set(x, y int, c Color) {
	if !b.inside(x, y) {
		return
	}
	b.cells[y*b.cols+x] = c
}

// Snapshot returns a copy of the grid indexed [row][col].
func (b *Board) Snapshot() [][]Color {
	out := make([][]Color, b.rows)
	for y := range b.rows {
		out[y] = make([]Color, b.cols)
		copy(out[y], b.row(y))
	}
	return out
}

// IsEmpty reports whether no cell is filled.
func (b *Board) IsEmpty() bool {
	for _, c := range b.cells {
		if c != Empty {
			return false
		}
	}
	return true
}

func (b *Board) inside(x, y int) bool {
	return x >= 0 && x < b.cols && y >= 0 && y < b.rows
}

func (b *Board) row(y int) []Color {
	return b.cells[y*b.cols : (y+1)*b.cols]
}

func (b *Board) reset() {
	clear(b.cells)
}

// Collides reports whether piece, shifted by (dx, dy), leaves the board on the
// left, right or bottom, or overlaps a filled cell. Rows above the board are
// open: a cell with y < 0 never collides.
func (b *Board) Collides(p Piece, dx, dy int) bool {
	for row := range p.Shape {
		for col, occupied := range p.Shape[row] {
			if !occupied {
				continue
			}

			x := p.X + col + dx
			y := p.Y + row + dy

			if x < 0 || x >= b.cols || y >= b.rows {
				return true
			}

			if y >= 0 && b.cells[y*b.cols+x] != Empty {
				return true
			}
		}
	}
	return false
}

// Merge writes the piece color into every occupied cell that lies on the
// board. Cells above the top row are dropped.
func (b *Board) Merge(p Piece) {
	for row := range p.Shape {
		for col, occupied := range p.Shape[row] {
			if !occupied {
				continue
			}
			y := p.Y + row
			if y < 0 {
				continue
			}
			b.Set(p.X+col, y, p.Color)
		}
	}
}

func (b *Board) rowFull(y int) bool {
	for _, c := range b.row(y) {
		if c == Empty {
			return false
		}
	}
	return true
}

// clearFullRows removes every full row, shifting the rows above it down and
// leaving empty rows at the top. It returns the number of rows removed.
//
// The scan runs bottom to top. After a row is removed the same index holds
// what used to be the row above it, so the index is examined again.
func (b *Board) clearFullRows() int {
	cleared := 0
	y := b.rows - 1
	for y >= 0 {
		if !b.rowFull(y) {
			y--
			continue
		}

		// rows [0, y) move down to [1, y]
		copy(b.cells[b.cols:(y+1)*b.cols], b.cells[:y*b.cols])
		clear(b.cells[:b.cols])
		cleared++
	}
	return cleared
}
