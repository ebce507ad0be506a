// Package rectpack provides the shelf rectangle packer used by texture planes.
package rectpack

// Rect is a packed rectangle in plane pixel coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Shelf implements shelf-based rectangle packing.
//
// Rectangles are placed left-to-right on horizontal shelves. Each shelf is as
// tall as the tallest item placed on it; when a shelf is full a new one is
// started below the last one.
type Shelf struct {
	width   int
	height  int
	padding int
	shelves []shelf

	usedArea int
}

type shelf struct {
	y      int // top
	height int // tallest item so far
	x      int // next free column
}

// New creates a packer for a region of the given dimensions.
func New(width, height, padding int) *Shelf {
	return &Shelf{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// Pack finds space for a w×h rectangle.
// It returns false when the rectangle does not fit anywhere.
func (p *Shelf) Pack(w, h int) (Rect, bool) {
	if w <= 0 || h <= 0 {
		return Rect{}, false
	}
	paddedW := w + p.padding
	paddedH := h + p.padding

	for i := range p.shelves {
		s := &p.shelves[i]
		if s.x+paddedW > p.width {
			continue
		}
		if h > s.height {
			// Only the last shelf can grow downwards.
			if i != len(p.shelves)-1 || s.y+paddedH > p.height {
				continue
			}
			s.height = h
		}
		r := Rect{X: s.x, Y: s.y, Width: w, Height: h}
		s.x += paddedW
		p.usedArea += w * h
		return r, true
	}

	newY := p.nextShelfY()
	if newY+paddedH > p.height || paddedW > p.width {
		return Rect{}, false
	}
	p.shelves = append(p.shelves, shelf{y: newY, height: h, x: paddedW})
	p.usedArea += w * h
	return Rect{X: 0, Y: newY, Width: w, Height: h}, true
}

func (p *Shelf) nextShelfY() int {
	if len(p.shelves) == 0 {
		return 0
	}
	last := p.shelves[len(p.shelves)-1]
	return last.y + last.height + p.padding
}

// Utilization returns the fraction of the region covered by packed rectangles.
func (p *Shelf) Utilization() float64 {
	if p.width <= 0 || p.height <= 0 {
		return 0
	}
	return float64(p.usedArea) / float64(p.width*p.height)
}
