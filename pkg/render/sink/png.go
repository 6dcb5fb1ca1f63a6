package sink

import (
	"bytes"
	"image/png"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/fonts"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGBackground sets the fill color as a hex string (default white).
// An empty string leaves the canvas transparent.
func WithPNGBackground(hex string) PNGOption {
	return func(r *pngRenderer) { r.background = hex }
}

// maxPNGPixels bounds the raster size; huge fallback chains can produce
// very wide canvases.
const maxPNGPixels = 64 << 20

// RenderPNG rasterizes the layout with the embedded bold font.
func RenderPNG(res cloud.Result, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) || math.IsInf(r.scale, 0) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid PNG scale %v", r.scale)
	}

	// Checked in float64 so huge bounds cannot wrap around in int.
	fw := math.Ceil(res.Bounds.Width * r.scale)
	fh := math.Ceil(res.Bounds.Height * r.scale)
	if !(fw >= 1 && fh >= 1 && fw*fh <= maxPNGPixels) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "PNG size %.0fx%.0f out of range", fw, fh)
	}
	w, h := int(fw), int(fh)

	ft, err := truetype.Parse(fonts.BoldTTF())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "parse embedded font")
	}

	dc := gg.NewContext(w, h)
	if r.background != "" {
		dc.SetHexColor(r.background)
		dc.Clear()
	}

	// gg transforms string origins but not glyphs, so positions and sizes
	// are scaled here instead of through dc.Scale.
	faces := make(map[float64]font.Face)
	for i := len(res.Words) - 1; i >= 0; i-- {
		word := res.Words[i]
		size := word.FontSize * r.scale
		face, ok := faces[size]
		if !ok {
			face = truetype.NewFace(ft, &truetype.Options{Size: size, Hinting: font.HintingFull})
			faces[size] = face
		}
		dc.SetFontFace(face)
		dc.SetHexColor(word.Color.Hex())
		dc.DrawStringAnchored(word.Text, word.X*r.scale, word.Y*r.scale, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode PNG")
	}
	return buf.Bytes(), nil
}
