package sink

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
)

func TestRenderJSONRoundTrip(t *testing.T) {
	res := testResult()
	data, err := RenderJSON(res, WithJSONMeasurer("opentype"))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if !strings.Contains(string(data), `"measurer": "opentype"`) {
		t.Errorf("measurer missing from output:\n%s", data)
	}
	if !strings.Contains(string(data), `"font_size": 38.4`) {
		t.Errorf("word fields should be inlined:\n%s", data)
	}

	doc, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if doc.Measurer != "opentype" {
		t.Errorf("Measurer = %q", doc.Measurer)
	}
	if diff := cmp.Diff(res, doc.Result); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderJSONEmptyWords(t *testing.T) {
	data, err := RenderJSON(cloud.Result{Bounds: cloud.DefaultBounds()}, WithJSONCompact())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"words":[]`) {
		t.Errorf("empty layout should encode words as []: %s", data)
	}
}

func TestParseJSONErrors(t *testing.T) {
	for _, input := range []string{`{`, `{"words":[]}`, `{"bounds":{"width":0,"height":10}}`} {
		if _, err := ParseJSON([]byte(input)); !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
			t.Errorf("ParseJSON(%s) error = %v, want %s", input, err, apperrors.ErrCodeInvalidFormat)
		}
	}
}
