package engine

// Kind identifies one of the seven piece shapes.
type Kind uint8

const (
	KindI Kind = iota
	KindJ
	KindL
	KindO
	KindS
	KindT
	KindZ

	kindCount
)

// Kinds lists every piece kind in table order.
var Kinds = [kindCount]Kind{KindI, KindJ, KindL, KindO, KindS, KindT, KindZ}

func (k Kind) String() string {
	switch k {
	case KindI:
		return "I"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	case KindO:
		return "O"
	case KindS:
		return "S"
	case KindT:
		return "T"
	case KindZ:
		return "Z"
	}
	return "?"
}

// Color is the opaque token a locked cell carries. The zero value is an empty cell.
type Color string

const Empty Color = ""

// Shape is a boolean occupancy matrix indexed [row][col].
type Shape [][]bool

var shapeTable = [kindCount]Shape{
	KindI: {
		{true, true, true, true},
	},
	KindJ: {
		{true, false, false},
		{true, true, true},
	},
	KindL: {
		{false, false, true},
		{true, true, true},
	},
	KindO: {
		{true, true},
		{true, true},
	},
	KindS: {
		{false, true, true},
		{true, true, false},
	},
	KindT: {
		{false, true, false},
		{true, true, true},
	},
	KindZ: {
		{true, true, false},
		{false, true, true},
	},
}

var colorTable = [kindCount]Color{
	KindI: "#00FFFF",
	KindJ: "#0000FF",
	KindL: "#FF7F00",
	KindO: "#FFFF00",
	KindS: "#00FF00",
	KindT: "#800080",
	KindZ: "#FF0000",
}

// ShapeOf returns a private copy of the spawn shape for kind.
func ShapeOf(kind Kind) Shape {
	return shapeTable[kind].clone()
}

// ColorOf returns the color token for kind.
func ColorOf(kind Kind) Color {
	return colorTable[kind]
}

func (s Shape) Height() int {
	return len(s)
}

func (s Shape) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

func (s Shape) clone() Shape {
	out := make(Shape, len(s))
	for i := range s {
		out[i] = make([]bool, len(s[i]))
		copy(out[i], s[i])
	}
	return out
}

// Rotate returns the shape turned 90 degrees clockwise: the transpose with
// each resulting row reversed. A h×w shape becomes w×h.
func (s Shape) Rotate() Shape {
	h := s.Height()
	w := s.Width()
	rotated := make(Shape, w)
	for i := range w {
		rotated[i] = make([]bool, h)
		for j := range h {
			rotated[i][j] = s[h-1-j][i]
		}
	}
	return rotated
}

// Equal reports whether two shapes have identical dimensions and cells.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if len(s[i]) != len(other[i]) {
			return false
		}
		for j := range s[i] {
			if s[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}
