// Package fonts provides the font used to measure and draw word clouds.
//
// Layout measurement, PNG rasterization and the optional SVG @font-face all
// use the same face, Go Bold, which ships with golang.org/x/image. Keeping a
// single source of glyph metrics is what makes the measured rectangles match
// the rendered text.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
)

// BoldTTF returns the TrueType data of the layout font.
func BoldTTF() []byte {
	return gobold.TTF
}

// Cache for the base64-encoded font (computed once on first access).
var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// BoldTTFBase64 returns the font data as a base64 string for data: URLs.
// The result is cached after first computation.
func BoldTTFBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(gobold.TTF)
	})
	return ttfBase64
}

// FontFamily is the CSS font-family name of the embedded font.
const FontFamily = "Go"

// FallbackFontFamily lists system fonts with similar metrics for SVGs
// rendered without the embedded face.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`
