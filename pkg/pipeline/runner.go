package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/cloud"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/keyword"
	"github.com/matzehuels/wordcloud/pkg/measure"
	"github.com/matzehuels/wordcloud/pkg/observability"
	"github.com/matzehuels/wordcloud/pkg/render/sink"
	"github.com/matzehuels/wordcloud/pkg/source"
)

// Cache key types reported to observability hooks.
const (
	keyTypeKeywords = "keywords"
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner doesn't store pipeline results. Measurers are created on first
// use and shared, so multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Source provides board keywords. It is only required by Execute and
	// Keywords.
	Source source.Source

	// TTL overrides the layout and artifact cache lifetimes when positive.
	TTL time.Duration

	mu        sync.Mutex
	measurers map[string]cloud.Measurer
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		measurers: make(map[string]cloud.Measurer),
	}
}

// Execute runs the complete source → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Source
	sourceStart := time.Now()
	kws, sourceHit, err := r.KeywordsWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	sourceTime := time.Since(sourceStart)

	r.Logger.Info("loaded keywords",
		"board", opts.BoardID,
		"keywords", len(kws),
		"duration", sourceTime)

	result, err := r.Run(ctx, kws, opts)
	if err != nil {
		return nil, err
	}
	result.BoardID = opts.BoardID
	result.Stats.SourceTime = sourceTime
	result.CacheInfo.SourceHit = sourceHit
	return result, nil
}

// Run lays out and renders an already ranked keyword list. It is the
// pipeline without the source stage.
func (r *Runner) Run(ctx context.Context, kws []cloud.KeywordCount, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Keywords:  kws,
		Artifacts: make(map[string][]byte),
	}
	result.Stats.KeywordCount = len(kws)

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.LayoutWithCacheInfo(ctx, kws, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.KeywordsHash, _ = cache.HashJSON(kws)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Fallbacks = layout.Fallbacks()
	result.Stats.Width = layout.Bounds.Width
	result.Stats.Height = layout.Bounds.Height
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"words", len(layout.Words),
		"width", layout.Bounds.Width,
		"height", layout.Bounds.Height,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// KeywordsWithCacheInfo loads the board's ranked keywords with caching and
// returns cache hit info. Keyword lists are cached briefly since boards keep
// receiving submissions.
func (r *Runner) KeywordsWithCacheInfo(ctx context.Context, opts Options) (kws []cloud.KeywordCount, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSource(); err != nil {
		return nil, false, err
	}
	if r.Source == nil {
		return nil, false, apperrors.New(apperrors.ErrCodeInvalidConfig, "no keyword source configured")
	}

	hooks := observability.Pipeline()
	hooks.OnSourceStart(ctx, opts.BoardID)
	start := time.Now()
	defer func() {
		hooks.OnSourceComplete(ctx, opts.BoardID, len(kws), time.Since(start), err)
	}()

	cacheKey := r.Keyer.KeywordsKey(opts.BoardID, opts.Limit)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, ok := r.cacheGet(ctx, cacheKey, keyTypeKeywords); ok {
			var cached []cloud.KeywordCount
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, true, nil
			}
		}
	}

	kws, err = r.Source.TopKeywords(ctx, opts.BoardID, opts.Limit)
	if err != nil {
		return nil, false, err
	}
	if data, err := json.Marshal(kws); err == nil {
		r.cacheSet(ctx, cacheKey, keyTypeKeywords, data, cache.TTLKeywords)
	}
	return kws, false, nil
}

// Keywords is a convenience wrapper that calls KeywordsWithCacheInfo and discards the cache hit info.
func (r *Runner) Keywords(ctx context.Context, opts Options) ([]cloud.KeywordCount, error) {
	kws, _, err := r.KeywordsWithCacheInfo(ctx, opts)
	return kws, err
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit info.
// The cache key is the content hash of the keyword list plus the measurer,
// since layouts depend on measured widths.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, kws []cloud.KeywordCount, opts Options) (res cloud.Result, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return cloud.Result{}, false, err
	}
	if err := keyword.Validate(kws); err != nil {
		return cloud.Result{}, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Measurer, len(kws))
	start := time.Now()
	defer func() {
		hooks.OnLayoutComplete(ctx, opts.Measurer, res.Fallbacks(), time.Since(start), err)
	}()

	kwHash, err := cache.HashJSON(kws)
	if err != nil {
		return cloud.Result{}, false, fmt.Errorf("hash keywords: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(kwHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, ok := r.cacheGet(ctx, cacheKey, keyTypeLayout); ok {
			// If deserialization fails, fall through to recompute
			if doc, err := sink.ParseJSON(data); err == nil {
				return doc.Result, true, nil
			}
		}
	}

	m, err := r.measurer(opts.Measurer)
	if err != nil {
		return cloud.Result{}, false, err
	}
	res, err = GenerateLayout(m, kws, opts)
	if err != nil {
		return cloud.Result{}, false, err
	}

	if data, err := sink.RenderJSON(res, sink.WithJSONMeasurer(opts.Measurer), sink.WithJSONCompact()); err == nil {
		r.cacheSet(ctx, cacheKey, keyTypeLayout, data, r.ttl(cache.TTLLayout))
	}
	return res, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, kws []cloud.KeywordCount, opts Options) (cloud.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, kws, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The hit flag is true only when every requested format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout cloud.Result, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	layoutHash, err := cache.HashJSON(layout)
	if err != nil {
		return nil, false, fmt.Errorf("hash layout: %w", err)
	}

	artifacts = make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, ok := r.cacheGet(ctx, cacheKey, keyTypeArtifact); ok {
			artifacts[format] = data
			continue
		}
		allCached = false

		data, err := RenderFormat(layout, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		r.cacheSet(ctx, cacheKey, keyTypeArtifact, data, r.ttl(cache.TTLArtifact))
	}

	return artifacts, allCached, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout cloud.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

// Close releases resources held by the runner: the cache, the source and
// any measurers that were opened.
func (r *Runner) Close() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	r.mu.Lock()
	for name, m := range r.measurers {
		if c, ok := m.(io.Closer); ok {
			keep(c.Close())
		}
		delete(r.measurers, name)
	}
	r.mu.Unlock()

	if r.Source != nil {
		keep(r.Source.Close())
	}
	if r.Cache != nil {
		keep(r.Cache.Close())
	}
	return first
}

// measurer returns the shared measurer for name, creating it on first use.
func (r *Runner) measurer(name string) (cloud.Measurer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.measurers == nil {
		r.measurers = make(map[string]cloud.Measurer)
	}
	if m, ok := r.measurers[name]; ok {
		return m, nil
	}
	m, err := measure.ByName(name)
	if err != nil {
		return nil, err
	}
	r.measurers[name] = m
	return m, nil
}

func (r *Runner) cacheGet(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) cacheSet(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
