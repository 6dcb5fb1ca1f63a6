package cloud

// rect is an axis-aligned rectangle given by its center and full extents.
type rect struct {
	cx, cy float64
	w, h   float64
}

func (r rect) left() float64   { return r.cx - r.w/2 }
func (r rect) right() float64  { return r.cx + r.w/2 }
func (r rect) top() float64    { return r.cy - r.h/2 }
func (r rect) bottom() float64 { return r.cy + r.h/2 }

// collides reports whether a and b overlap once both are inflated by Padding
// on every side. Touching rectangles collide.
func (a rect) collides(b rect) bool {
	return !(a.right()+Padding < b.left()-Padding ||
		a.left()-Padding > b.right()+Padding ||
		a.bottom()+Padding < b.top()-Padding ||
		a.top()-Padding > b.bottom()+Padding)
}

func collidesAny(r rect, placed []PlacedWord) bool {
	for _, p := range placed {
		if r.collides(p.rect()) {
			return true
		}
	}
	return false
}

// Overlaps reports whether two placed words are closer than the required
// padding. It is the collision test the layout uses, exposed for callers
// that verify or post-process results.
func Overlaps(a, b PlacedWord) bool {
	return a.rect().collides(b.rect())
}
