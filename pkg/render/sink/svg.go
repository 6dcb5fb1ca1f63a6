package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/fonts"
)

// Weight classes by count relative to the most frequent word.
const (
	WeightExtraBold = "w-extrabold"
	WeightBold      = "w-bold"
	WeightMedium    = "w-medium"
)

const wordCSS = `
    .word { font-family: %s; cursor: default; transition: transform 0.3s ease; transform-box: fill-box; transform-origin: center; }
    .word:hover { transform: scale(1.1); }
    .w-extrabold { font-weight: 800; }
    .w-bold { font-weight: 700; }
    .w-medium { font-weight: 500; }`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	embedFont  bool
	background string
	title      string
}

// WithEmbeddedFont inlines the layout font as a base64 @font-face so the SVG
// renders with the exact metrics it was measured with.
func WithEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = true } }

// WithBackground fills the canvas with a CSS color.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithTitle sets the document <title>, used by screen readers.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// RenderSVG renders res as a standalone SVG document.
//
// Words are emitted in reverse placement order so that, where fallback words
// overlap, the more frequent word paints on top.
func RenderSVG(res cloud.Result, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := res.Bounds.Width, res.Bounds.Height
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" role="img">`+"\n",
		w, h, w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}

	renderStyle(&buf, r.embedFont)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	maxCount := MaxCount(res.Words)
	for i := len(res.Words) - 1; i >= 0; i-- {
		renderWord(&buf, res.Words[i], maxCount)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderStyle(buf *bytes.Buffer, embed bool) {
	buf.WriteString("  <style>")
	if embed {
		fmt.Fprintf(buf, "\n    @font-face { font-family: '%s'; font-weight: 100 900; src: url(data:font/ttf;base64,%s) format('truetype'); }",
			fonts.FontFamily, fonts.BoldTTFBase64())
	}
	fmt.Fprintf(buf, wordCSS, fonts.FallbackFontFamily)
	buf.WriteString("\n  </style>\n")
}

func renderWord(buf *bytes.Buffer, w cloud.PlacedWord, maxCount int) {
	text := escapeXML(w.Text)
	fmt.Fprintf(buf,
		`  <text class="word %s" x="%.2f" y="%.2f" font-size="%.2f" fill="%s" text-anchor="middle" dominant-baseline="central">`,
		WeightClass(w.Count, maxCount), w.X, w.Y, w.FontSize, w.Color.Hex())
	fmt.Fprintf(buf, "<title>%s (%d)</title>%s</text>\n", text, w.Count, text)
}

// WeightClass returns the CSS weight class for a word: extra bold above two
// thirds of the top count, bold above one third, medium otherwise.
func WeightClass(count, maxCount int) string {
	if maxCount < 1 {
		maxCount = 1
	}
	ratio := float64(count) / float64(maxCount)
	switch {
	case ratio > 0.66:
		return WeightExtraBold
	case ratio > 0.33:
		return WeightBold
	default:
		return WeightMedium
	}
}

// MaxCount returns the highest count among words, or 0 for none.
func MaxCount(words []cloud.PlacedWord) int {
	m := 0
	for _, w := range words {
		m = max(m, w.Count)
	}
	return m
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
