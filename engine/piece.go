package engine

// Piece is a shape in play. X and Y place the top-left corner of Shape on the board.
type Piece struct {
	Kind  Kind
	Shape Shape
	Color Color
	X, Y  int
}

// wallKicks are the horizontal offsets tried, in order, when a rotation
// collides in place.
var wallKicks = [...]int{-1, 1, -2, 2}

// NewPiece returns a piece of the given kind horizontally centred on a board
// cols wide, at row 0.
func NewPiece(kind Kind, cols int) Piece {
	shape := ShapeOf(kind)
	return Piece{
		Kind:  kind,
		Shape: shape,
		Color: ColorOf(kind),
		X:     cols/2 - shape.Width()/2,
		Y:     0,
	}
}

// Cells calls fn with the board coordinates of every occupied cell.
func (p Piece) Cells(fn func(x, y int)) {
	for row := range p.Shape {
		for col, occupied := range p.Shape[row] {
			if occupied {
				fn(p.X+col, p.Y+row)
			}
		}
	}
}

// Rotate turns p clockwise against board. If the turned shape collides in
// place, each wall kick is tried in order and the first free position wins.
// When nothing fits, p is returned unchanged and ok is false.
func Rotate(p Piece, board *Board) (rotated Piece, ok bool) {
	rotated = p
	rotated.Shape = p.Shape.Rotate()

	if !board.Collides(rotated, 0, 0) {
		return rotated, true
	}

	for _, kick := range wallKicks {
		if !board.Collides(rotated, kick, 0) {
			rotated.X = p.X + kick
			return rotated, true
		}
	}

	return p, false
}
