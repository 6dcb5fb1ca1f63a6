package cloud

import (
	"cmp"
	"slices"

	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
)

// =============================================================================
// Layout Constants
// =============================================================================

const (
	// InitialWidth and InitialHeight are the canvas size before any growth.
	InitialWidth  = 480.0
	InitialHeight = 240.0

	// GrowthMargin is added beyond the overflow whenever the canvas grows.
	GrowthMargin = 30.0

	// Padding is applied to every side of both rectangles in the collision
	// test, so adjacent words end up at least 2*Padding apart.
	Padding = 2.5

	// InitialRadius is the spiral radius of the first candidate point.
	InitialRadius = 12.0

	// SpiralTightness is k in r = k·θ.
	SpiralTightness = 2.4

	// AngleStep is the angle increment between spiral candidates, in radians.
	AngleStep = 0.05

	// MaxSpiralRadius and MaxAttempts bound the search for one word.
	MaxSpiralRadius = 480.0
	MaxAttempts     = 5000

	// FallbackGap separates a fallback placement from the previous word.
	FallbackGap = 12.0
)

// =============================================================================
// Types
// =============================================================================

// KeywordCount is one distinct normalized keyword and its frequency.
type KeywordCount struct {
	Text  string `json:"text" bson:"text"`
	Count int    `json:"count" bson:"count"`
}

// PlacedWord is a keyword with its final position and style.
// X and Y are the center of the word's rectangle.
type PlacedWord struct {
	Text     string  `json:"text" bson:"text"`
	Count    int     `json:"count" bson:"count"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`
	FontSize float64 `json:"font_size" bson:"font_size"`
	Color    ColorID `json:"color" bson:"color"`

	// Fallback is set when the spiral search gave up and the word was put
	// next to its predecessor. Fallback words may overlap other words.
	Fallback bool `json:"fallback,omitempty" bson:"fallback,omitempty"`

	// Attempts is the number of spiral candidates evaluated (0 for the first word).
	Attempts int `json:"attempts,omitempty" bson:"attempts,omitempty"`
}

// Left, Top, Right and Bottom return the rectangle edges.
func (w PlacedWord) Left() float64   { return w.X - w.Width/2 }
func (w PlacedWord) Top() float64    { return w.Y - w.Height/2 }
func (w PlacedWord) Right() float64  { return w.X + w.Width/2 }
func (w PlacedWord) Bottom() float64 { return w.Y + w.Height/2 }

func (w PlacedWord) rect() rect {
	return rect{cx: w.X, cy: w.Y, w: w.Width, h: w.Height}
}

// Bounds is the canvas size.
type Bounds struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// DefaultBounds returns the canvas size of an empty layout.
func DefaultBounds() Bounds {
	return Bounds{Width: InitialWidth, Height: InitialHeight}
}

// Result is a complete layout: the placed words in placement order and the
// canvas that contains them.
type Result struct {
	Words  []PlacedWord `json:"words" bson:"words"`
	Bounds Bounds       `json:"bounds" bson:"bounds"`
}

// Fallbacks returns how many words were placed by the fallback rule.
func (r Result) Fallbacks() int {
	n := 0
	for _, w := range r.Words {
		if w.Fallback {
			n++
		}
	}
	return n
}

// =============================================================================
// Engine
// =============================================================================

// Engine lays out word clouds using a fixed Measurer. An Engine holds no
// per-layout state and may be shared between goroutines as long as its
// Measurer is safe for concurrent use.
type Engine struct {
	measurer Measurer
}

// New returns an Engine that measures words with m.
func New(m Measurer) *Engine {
	return &Engine{measurer: m}
}

// Layout is shorthand for New(m).Layout(keywords).
func Layout(m Measurer, keywords []KeywordCount) (Result, error) {
	return New(m).Layout(keywords)
}

// Layout places every keyword. The input is not modified and is expected to
// hold one entry per distinct keyword; duplicates are placed as separate
// words. The only error source is the Measurer, reported with code
// MEASUREMENT_FAILED.
func (e *Engine) Layout(keywords []KeywordCount) (Result, error) {
	if e.measurer == nil {
		return Result{}, apperrors.New(apperrors.ErrCodeMeasurement, "no text measurer configured")
	}
	if len(keywords) == 0 {
		return Result{Words: []PlacedWord{}, Bounds: DefaultBounds()}, nil
	}

	placed, c, err := e.place(rank(keywords))
	if err != nil {
		return Result{}, err
	}
	return c.result(placed), nil
}

// place runs the placement loop over keywords already in rank order and
// returns the words in content-frame coordinates with the final canvas.
func (e *Engine) place(sorted []KeywordCount) ([]PlacedWord, *canvas, error) {
	maxCount := sorted[0].Count
	c := newCanvas()
	placed := make([]PlacedWord, 0, len(sorted))

	for i, kw := range sorted {
		size := FontSize(kw.Count, maxCount)
		w, h, err := measureBox(e.measurer, kw.Text, size)
		if err != nil {
			return nil, nil, err
		}

		word := PlacedWord{
			Text:     kw.Text,
			Count:    kw.Count,
			Width:    w,
			Height:   h,
			FontSize: size,
			Color:    ColorFor(kw.Text),
		}

		if i == 0 {
			word.X, word.Y = c.cx, c.cy
			c.fit(word.rect())
		} else {
			c.place(&word, placed)
		}
		placed = append(placed, word)
	}

	return placed, c, nil
}

// rank returns a copy of keywords ordered by count descending.
// The sort is stable so equal counts keep their input order.
func rank(keywords []KeywordCount) []KeywordCount {
	sorted := slices.Clone(keywords)
	slices.SortStableFunc(sorted, func(a, b KeywordCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return sorted
}
