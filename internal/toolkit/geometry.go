package toolkit

// Box is a rectangle in layout coordinates.
type Box struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Contains checks if a point is within this box
func (b Box) Contains(x, y float64) bool {
	if b.Empty() {
		return false
	}
	return x >= float64(b.X) && x < float64(b.X+b.Width) &&
		y >= float64(b.Y) && y < float64(b.Y+b.Height)
}

// Union returns the smallest box containing both b and o. An empty box is
// the identity element.
func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	x1, y1 := min(b.X, o.X), min(b.Y, o.Y)
	x2, y2 := max(b.X+b.Width, o.X+o.Width), max(b.Y+b.Height, o.Y+o.Height)
	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Edges is a bitmask of window edges, used by interactive resize.
type Edges uint32

const (
	EdgeTop Edges = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// EdgeNone is the empty edge mask.
const EdgeNone Edges = 0

func (e Edges) Has(edge Edges) bool {
	return e&edge != 0
}
