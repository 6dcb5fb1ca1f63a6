package cloud

import (
	"math"

	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
)

// Box sizing constants.
const (
	// HorizontalPadding is added to the measured advance width.
	HorizontalPadding = 4.8

	// LineHeight is the ratio of box height to font size.
	LineHeight = 1.3
)

// Measurer reports the advance width of text set in the layout's bold font
// at the given pixel size. Implementations must return an error rather than
// an estimate when they cannot measure: a guessed width breaks the
// no-overlap guarantee.
type Measurer interface {
	MeasureWidth(text string, fontSize float64) (float64, error)
}

// MeasureFunc adapts a function to the Measurer interface.
type MeasureFunc func(text string, fontSize float64) (float64, error)

// MeasureWidth calls f.
func (f MeasureFunc) MeasureWidth(text string, fontSize float64) (float64, error) {
	return f(text, fontSize)
}

// measureBox returns the rectangle a word occupies: measured width rounded up
// plus HorizontalPadding, and a height of fontSize*LineHeight rounded up.
func measureBox(m Measurer, text string, fontSize float64) (w, h float64, err error) {
	adv, err := m.MeasureWidth(text, fontSize)
	if err != nil {
		return 0, 0, apperrors.Wrap(apperrors.ErrCodeMeasurement, err, "measure %q at %.1fpx", text, fontSize)
	}
	if math.IsNaN(adv) || math.IsInf(adv, 0) || adv < 0 {
		return 0, 0, apperrors.New(apperrors.ErrCodeMeasurement, "measure %q at %.1fpx: invalid width %v", text, fontSize, adv)
	}
	return math.Ceil(adv) + HorizontalPadding, math.Ceil(fontSize * LineHeight), nil
}
