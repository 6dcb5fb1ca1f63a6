package pipeline

import (
	"github.com/matzehuels/wordcloud/pkg/cloud"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout places keywords with the given measurer.
// The result's Fallbacks count is non-zero when the spiral search gave up
// on some words; those words may overlap their neighbours.
func GenerateLayout(m cloud.Measurer, keywords []cloud.KeywordCount, opts Options) (cloud.Result, error) {
	res, err := cloud.Layout(m, keywords)
	if err != nil {
		return cloud.Result{}, err
	}
	if n := res.Fallbacks(); n > 0 && opts.Logger != nil {
		opts.Logger.Warn("words placed without a free spot", "fallbacks", n, "words", len(res.Words))
	}
	return res, nil
}
