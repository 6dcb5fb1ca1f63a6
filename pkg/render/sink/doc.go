// Package sink provides output format renderers for word-cloud layouts.
//
// # Overview
//
// A "sink" transforms a computed [cloud.Result] into a final output format:
//
//   - SVG: one centered <text> element per word with a hover tooltip
//   - PNG: raster output drawn with fogleman/gg using the layout font
//   - JSON: the layout itself, for caching and round-trip rendering
//
// # SVG Output
//
// [RenderSVG] sizes the document to the layout bounds and anchors each word
// at its center point. Words get a weight class from their count relative
// to the most frequent word, and a <title> tooltip of the form "word (n)".
//
//	svg := sink.RenderSVG(res,
//	    sink.WithEmbeddedFont(),
//	    sink.WithBackground("#ffffff"),
//	)
//
// # PNG Output
//
// [RenderPNG] rasterizes the same geometry at a scale factor (default 2 for
// high-DPI screens). It draws with the embedded bold font, so no system
// fonts or external tools are needed.
//
// # JSON Output
//
// [RenderJSON] writes the layout with the name of the measurement backend
// that produced it; [ParseJSON] reads it back.
//
// [cloud.Result]: github.com/matzehuels/wordcloud/pkg/cloud#Result
package sink
