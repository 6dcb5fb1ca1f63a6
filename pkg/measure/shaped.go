package measure

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/fonts"
)

// Shaped measures the advance of HarfBuzz-shaped text.
//
// The parsed font.Font is read-only and shared. A font.Face is created per
// call and HarfbuzzShaper instances are pooled, since neither is safe for
// concurrent use.
type Shaped struct {
	font    *font.Font
	shapers sync.Pool
}

// NewShaped parses the embedded bold font.
func NewShaped() (*Shaped, error) {
	face, err := font.ParseTTF(bytes.NewReader(fonts.BoldTTF()))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMeasurement, err, "parse embedded font")
	}
	return &Shaped{
		font: face.Font,
		shapers: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}, nil
}

// MeasureWidth implements cloud.Measurer.
func (s *Shaped) MeasureWidth(text string, fontSize float64) (float64, error) {
	if err := checkInput(text, fontSize); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}

	runes := []rune(text)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(s.font),
		Size:      floatToFixed(fontSize),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.shapers.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.shapers.Put(hb)

	adv := out.Advance
	if adv < 0 {
		adv = -adv
	}
	return fixedToFloat(adv), nil
}

// Name returns the backend name.
func (s *Shaped) Name() string { return NameShaped }

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
