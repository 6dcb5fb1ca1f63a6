// Package pipeline provides the word-cloud pipeline shared by the CLI and
// the HTTP server.
//
// This package implements the complete source → layout → render pipeline.
// By centralizing it, the CLI and the server cache, log and validate the
// same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Source: Load a board's ranked keywords from a [source.Source]
//  2. Layout: Place the keywords with the [cloud] engine
//  3. Render: Generate output in various formats (SVG, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage is cached by content hash.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	runner.Source = src
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    BoardID: "6f1c…",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	layout, err := runner.Layout(ctx, keywords, opts)
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"io"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/cloud"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/keyword"
	"github.com/matzehuels/wordcloud/pkg/measure"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultLimit is the number of keywords loaded per board.
	DefaultLimit = keyword.DefaultLimit

	// DefaultMeasurer is the text measurement backend.
	DefaultMeasurer = measure.Default

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// MaxScale bounds the PNG scale factor.
	MaxScale = 8.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatPNG, FormatJSON}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the word-cloud pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Source options
	BoardID string `json:"board_id,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Refresh bool   `json:"refresh,omitempty"` // Bypass the keyword and layout caches

	// Layout options
	Measurer string `json:"measurer,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	EmbedFont  bool     `json:"embed_font,omitempty"`
	Background string   `json:"background,omitempty"`
	Title      string   `json:"title,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// BoardID is the board the keywords were loaded from, if any.
	BoardID string

	// Keywords is the ranked keyword list that was laid out.
	Keywords []cloud.KeywordCount

	// KeywordsHash is the content hash of Keywords.
	KeywordsHash string

	// Layout is the computed word placement.
	Layout cloud.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	KeywordCount int
	Fallbacks    int
	Width        float64
	Height       float64
	SourceTime   time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SourceHit bool // Whether keywords came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return apperrors.New(apperrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMeasurer checks that a measurer name is known.
func ValidateMeasurer(name string) error {
	if !measure.Valid(name) {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"invalid measurer: %q (must be one of: opentype, shaped)", name)
	}
	return nil
}

// ValidateScale checks a PNG scale factor.
func ValidateScale(scale float64) error {
	if scale <= 0 || scale > MaxScale || math.IsNaN(scale) {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"invalid scale: %v (must be in (0, %v])", scale, MaxScale)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSource(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForSource checks the fields needed to load a board's keywords.
func (o *Options) ValidateForSource() error {
	if err := apperrors.ValidateBoardID(o.BoardID); err != nil {
		return err
	}
	if o.Limit == 0 {
		o.Limit = DefaultLimit
	}
	if err := apperrors.ValidateLimit(o.Limit); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Measurer == "" {
		o.Measurer = DefaultMeasurer
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return ValidateMeasurer(o.Measurer)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateMeasurer(o.Measurer); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateScale(o.Scale)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Measurer: o.Measurer}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Options that do not affect a format are left out of its key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
		k.Background = o.Background
	case FormatSVG:
		k.EmbedFont = o.EmbedFont
		k.Background = o.Background
		k.Title = o.Title
	case FormatJSON:
		k.Measurer = o.Measurer
	}
	return k
}
