// Package render turns computed word-cloud layouts into output artifacts.
//
// All renderers live in the [sink] subpackage and take a [cloud.Result] as
// produced by the layout engine. They never re-measure text: positions and
// font sizes come from the layout, so a layout renders identically no
// matter which format is requested.
//
//	svg := sink.RenderSVG(res, sink.WithEmbeddedFont())
//	png, err := sink.RenderPNG(res, sink.WithScale(2))
//	doc, err := sink.RenderJSON(res, sink.WithJSONMeasurer("opentype"))
//
// [sink]: github.com/matzehuels/wordcloud/pkg/render/sink
// [cloud.Result]: github.com/matzehuels/wordcloud/pkg/cloud#Result
package render
