// Package keyword turns raw board submissions into the ranked keyword list
// the layout engine consumes.
//
// Submissions are normalized so that "Go!", " go " and "GO" count as the same
// keyword, only approved submissions are counted, and the result is capped
// to the top N entries by frequency.
package keyword

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
)

// DefaultLimit is the number of keywords in a cloud when none is requested.
const DefaultLimit = 25

// Submission is one visitor entry on a board.
type Submission struct {
	BoardID  string `json:"board_id,omitempty" toml:"board_id" bson:"board_id"`
	Text     string `json:"text" toml:"text" bson:"text"`
	Approved bool   `json:"approved" toml:"approved" bson:"approved"`
}

// Normalize folds text to its keyword form: trimmed, lowercased, with every
// run of whitespace or punctuation collapsed to a single space.
func Normalize(text string) string {
	// Casers are stateful and not safe to share.
	lower := cases.Lower(language.Und).String(strings.TrimSpace(text))

	var b strings.Builder
	b.Grow(len(lower))
	gap := false
	for _, r := range lower {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			gap = true
			continue
		}
		if gap && b.Len() > 0 {
			b.WriteByte(' ')
		}
		gap = false
		b.WriteRune(r)
	}
	return b.String()
}

// ClampLimit maps a requested limit onto [1, MaxLimit], using DefaultLimit
// for zero or negative values.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > apperrors.MaxLimit:
		return apperrors.MaxLimit
	default:
		return limit
	}
}

// Aggregate counts approved submissions by normalized text and returns the
// top entries by count. Ties keep the order in which keywords first appeared.
// Submissions that normalize to the empty string are skipped.
func Aggregate(subs []Submission, limit int) []cloud.KeywordCount {
	limit = ClampLimit(limit)

	index := make(map[string]int)
	var counts []cloud.KeywordCount
	for _, s := range subs {
		if !s.Approved {
			continue
		}
		norm := Normalize(s.Text)
		if norm == "" {
			continue
		}
		if i, ok := index[norm]; ok {
			counts[i].Count++
			continue
		}
		index[norm] = len(counts)
		counts = append(counts, cloud.KeywordCount{Text: norm, Count: 1})
	}

	slices.SortStableFunc(counts, func(a, b cloud.KeywordCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}
	if counts == nil {
		counts = []cloud.KeywordCount{}
	}
	return counts
}

// Approved wraps plain texts as approved submissions.
func Approved(texts ...string) []Submission {
	subs := make([]Submission, len(texts))
	for i, t := range texts {
		subs[i] = Submission{Text: t, Approved: true}
	}
	return subs
}
