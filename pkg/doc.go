// Package pkg provides the core libraries for wordcloud keyword boards.
//
// # Overview
//
// Visitors submit short keywords to a board. Wordcloud counts them, places
// the most frequent on a growing canvas without overlap, and renders the
// result as SVG, PNG or JSON. The pkg directory is organized into:
//
//  1. [cloud] - The layout engine (font sizing, spiral search, canvas growth)
//  2. [keyword] and [source] - Submissions, normalization and board backends
//  3. [measure] and [fonts] - Text measurement against the embedded font
//  4. [render] - Output sinks for SVG, PNG and JSON
//  5. [pipeline] - Orchestration (source → layout → render) with caching
//
// # Architecture
//
// The typical data flow:
//
//	Board submissions (file or MongoDB)
//	         ↓
//	    [source] package (top N approved keywords)
//	         ↓
//	    [cloud] package (placed words + bounds)
//	         ↓
//	    [render/sink] package
//	         ↓
//	    SVG/PNG/JSON output
//
// # Quick Start
//
//	m, _ := measure.ByName(measure.Default)
//	kws := keyword.Aggregate(keyword.Approved("Go", "go!", "Rust"), 25)
//	res, _ := cloud.Layout(m, kws)
//	svg := sink.RenderSVG(res, sink.WithTitle("Team retro"))
//
// # Supporting Packages
//
// [cache] - Content-addressed caching of keyword lists, layouts and artifacts
// with file, Redis and no-op backends.
//
// [config] - TOML configuration file loading and validation.
//
// [server] - The HTTP API built on chi.
//
// [observability] - Hooks for pipeline, cache and HTTP metrics.
//
// [errors] - Coded errors and input validation shared by every entry point.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [cloud]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/cloud
// [keyword]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/keyword
// [source]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/source
// [measure]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/measure
// [fonts]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/fonts
// [render]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/errors
package pkg
