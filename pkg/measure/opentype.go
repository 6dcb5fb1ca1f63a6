package measure

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/fonts"
)

// referenceSize is the size of the single face OpenType measures with.
// Unhinted advances are linear in size, so widths at other sizes are scaled
// from it. Large enough that 26.6 rounding stays well below a pixel.
const referenceSize = 64.0

// OpenType measures advance widths from the font's hmtx and kern tables.
//
// font.Face values keep scratch buffers and are not safe for concurrent use,
// so every measurement holds the lock.
type OpenType struct {
	mu   sync.Mutex
	face font.Face
}

// NewOpenType parses the embedded bold font.
func NewOpenType() (*OpenType, error) {
	f, err := opentype.Parse(fonts.BoldTTF())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMeasurement, err, "parse embedded font")
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    referenceSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMeasurement, err, "create face at %.0fpx", referenceSize)
	}
	return &OpenType{face: face}, nil
}

// MeasureWidth implements cloud.Measurer.
func (o *OpenType) MeasureWidth(text string, fontSize float64) (float64, error) {
	if err := checkInput(text, fontSize); err != nil {
		return 0, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.face == nil {
		return 0, apperrors.New(apperrors.ErrCodeMeasurement, "measurer is closed")
	}
	adv := fixedToFloat(font.MeasureString(o.face, text))
	return adv * fontSize / referenceSize, nil
}

// Close releases the face. Later measurements fail.
func (o *OpenType) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.face == nil {
		return nil
	}
	err := o.face.Close()
	o.face = nil
	return err
}

// Name returns the backend name.
func (o *OpenType) Name() string { return NameOpenType }
