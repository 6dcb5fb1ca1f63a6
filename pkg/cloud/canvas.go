package cloud

import "math"

// canvas is the mutable state of one layout pass.
//
// Words are positioned in a content frame that never moves, so coordinates of
// already-placed words stay valid while the canvas grows. (minX, minY) is the
// canvas top-left corner in that frame; it only ever decreases. (cx, cy) is
// the spiral anchor. Growing the left or top edge by e moves the anchor by
// e/2 relative to the canvas origin, which keeps it at the middle of the
// grown span.
type canvas struct {
	minX, minY    float64
	width, height float64
	cx, cy        float64
}

func newCanvas() *canvas {
	return &canvas{
		width:  InitialWidth,
		height: InitialHeight,
		cx:     InitialWidth / 2,
		cy:     InitialHeight / 2,
	}
}

// fit grows the canvas until r lies inside it.
func (c *canvas) fit(r rect) {
	if left := r.left(); left < c.minX {
		e := c.minX - left + GrowthMargin
		c.minX -= e
		c.width += e
		c.cx -= e / 2
	}
	if right := r.right(); right > c.minX+c.width {
		c.width = right - c.minX + GrowthMargin
	}
	if top := r.top(); top < c.minY {
		e := c.minY - top + GrowthMargin
		c.minY -= e
		c.height += e
		c.cy -= e / 2
	}
	if bottom := r.bottom(); bottom > c.minY+c.height {
		c.height = bottom - c.minY + GrowthMargin
	}
}

// place positions w by spiral search around the canvas center, falling back
// to the slot right of the last placed word when the search is exhausted.
// placed must be non-empty.
func (c *canvas) place(w *PlacedWord, placed []PlacedWord) {
	angle, radius := 0.0, InitialRadius

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		cand := rect{
			cx: c.cx + radius*math.Cos(angle),
			cy: c.cy + radius*math.Sin(angle),
			w:  w.Width,
			h:  w.Height,
		}
		c.fit(cand)
		w.Attempts = attempt

		if !collidesAny(cand, placed) {
			w.X, w.Y = cand.cx, cand.cy
			return
		}

		angle += AngleStep
		radius = SpiralTightness * angle
		if radius > MaxSpiralRadius {
			break
		}
	}

	last := placed[len(placed)-1]
	w.X = last.X + last.Width/2 + w.Width/2 + FallbackGap
	w.Y = last.Y
	w.Fallback = true
	c.fit(w.rect())
}

// bounds returns the current canvas size.
func (c *canvas) bounds() Bounds {
	return Bounds{Width: c.width, Height: c.height}
}

// result converts content-frame placements to canvas coordinates.
func (c *canvas) result(placed []PlacedWord) Result {
	for i := range placed {
		placed[i].X -= c.minX
		placed[i].Y -= c.minY
	}
	return Result{Words: placed, Bounds: c.bounds()}
}
