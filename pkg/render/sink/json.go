package sink

import (
	"encoding/json"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	measurer string
	compact  bool
}

// WithJSONMeasurer records the measurement backend that produced the layout.
// Layouts are only reproducible against the same backend.
func WithJSONMeasurer(name string) JSONOption { return func(r *jsonRenderer) { r.measurer = name } }

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// Document is the JSON layout format: the layout result plus the name of the
// measurer that produced it.
type Document struct {
	Measurer string `json:"measurer,omitempty"`
	cloud.Result
}

// RenderJSON exports the layout as a JSON document. Words keep placement
// order. The output round-trips through [ParseJSON].
func RenderJSON(res cloud.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	if res.Words == nil {
		res.Words = []cloud.PlacedWord{}
	}
	doc := Document{Measurer: r.measurer, Result: res}
	if r.compact {
		return json.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ParseJSON reads a document written by RenderJSON.
func ParseJSON(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode layout")
	}
	if doc.Bounds.Width <= 0 || doc.Bounds.Height <= 0 {
		return Document{}, apperrors.New(apperrors.ErrCodeInvalidFormat, "layout has no bounds")
	}
	if doc.Words == nil {
		doc.Words = []cloud.PlacedWord{}
	}
	return doc, nil
}
