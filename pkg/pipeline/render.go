package pipeline

import (
	"fmt"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(layout cloud.Result, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(layout, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders a single format.
func RenderFormat(layout cloud.Result, format string, opts Options) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data = sink.RenderSVG(layout, buildSVGOptions(opts)...)
	case FormatPNG:
		data, err = sink.RenderPNG(layout, buildPNGOptions(opts)...)
	case FormatJSON:
		data, err = sink.RenderJSON(layout, sink.WithJSONMeasurer(opts.Measurer))
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.EmbedFont {
		svgOpts = append(svgOpts, sink.WithEmbeddedFont())
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}

func buildPNGOptions(opts Options) []sink.PNGOption {
	pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
	if opts.Background != "" {
		pngOpts = append(pngOpts, sink.WithPNGBackground(opts.Background))
	}
	return pngOpts
}
