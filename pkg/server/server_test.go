package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/cloud"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/keyword"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/render/sink"
	"github.com/matzehuels/wordcloud/pkg/source"
)

var testBoard = uuid.NewString()

// readOnlySource serves fixed boards.
type readOnlySource struct {
	mu   sync.Mutex
	subs map[string][]keyword.Submission
}

func (s *readOnlySource) TopKeywords(_ context.Context, boardID string, limit int) ([]cloud.KeywordCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs, ok := s.subs[boardID]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeBoardNotFound, "board %s not found", boardID)
	}
	return keyword.Aggregate(subs, limit), nil
}

func (s *readOnlySource) Close() error { return nil }

// memorySource also accepts submissions.
type memorySource struct{ readOnlySource }

func (s *memorySource) Submit(_ context.Context, sub keyword.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.BoardID] = append(s.subs[sub.BoardID], sub)
	return nil
}

func newTestServer(t *testing.T, src source.Source, opts Options) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	runner := pipeline.NewRunner(fc, nil, logger)
	runner.Source = src
	ts := httptest.NewServer(New(runner, logger, opts).Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = runner.Close()
	})
	return ts
}

func fruitSource() *memorySource {
	return &memorySource{readOnlySource{subs: map[string][]keyword.Submission{
		testBoard: keyword.Approved("Apple", "apple", "Banana", "cherry!", "apple"),
	}}}
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, fruitSource(), Options{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if _, err := uuid.Parse(resp.Header.Get(requestIDHeader)); err != nil {
		t.Errorf("X-Request-ID = %q, want a UUID", resp.Header.Get(requestIDHeader))
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t, fruitSource(), Options{})
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get(requestIDHeader); got != id {
		t.Errorf("X-Request-ID = %q, want %q", got, id)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	ts := newTestServer(t, fruitSource(), Options{})
	body := `{"keywords":[{"text":"go","count":5},{"text":"rust","count":2}]}`

	resp, err := http.Post(ts.URL+"/api/v1/layout", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get(cacheHeader) != "miss" {
		t.Errorf("X-Cache = %q, want miss", resp.Header.Get(cacheHeader))
	}

	data, _ := io.ReadAll(resp.Body)
	doc, err := sink.ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error: %v", err)
	}
	if len(doc.Words) != 2 || doc.Words[0].Text != "go" {
		t.Errorf("words = %+v", doc.Words)
	}
	if doc.Measurer != pipeline.DefaultMeasurer {
		t.Errorf("measurer = %q, want %q", doc.Measurer, pipeline.DefaultMeasurer)
	}

	// Same body again is served from cache.
	resp2, err := http.Post(ts.URL+"/api/v1/layout", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.Header.Get(cacheHeader) != "hit" {
		t.Errorf("second X-Cache = %q, want hit", resp2.Header.Get(cacheHeader))
	}
}

func TestRenderEndpoint(t *testing.T) {
	ts := newTestServer(t, fruitSource(), Options{})
	body := `{"keywords":[{"text":"go","count":5}]}`

	tests := []struct {
		query       string
		contentType string
		prefix      []byte
	}{
		{"", "image/svg+xml", []byte("<svg")},
		{"?format=svg", "image/svg+xml", []byte("<svg")},
		{"?format=png", "image/png", []byte("\x89PNG")},
		{"?format=json", "application/json", []byte("{")},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/v1/render"+tt.query, "application/json", strings.NewReader(body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			data, _ := io.ReadAll(resp.Body)
			if !bytes.HasPrefix(data, tt.prefix) {
				t.Errorf("body starts with %.10q, want %q", data, tt.prefix)
			}
		})
	}
}

func TestBadRequests(t *testing.T) {
	ts := newTestServer(t, fruitSource(), Options{})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   apperrors.Code
	}{
		{"malformed json", http.MethodPost, "/api/v1/layout", `{"keywords":`, 400, apperrors.ErrCodeInvalidFormat},
		{"unknown field", http.MethodPost, "/api/v1/layout", `{"words":[]}`, 400, apperrors.ErrCodeInvalidFormat},
		{"zero count", http.MethodPost, "/api/v1/layout", `{"keywords":[{"text":"go","count":0}]}`, 400, apperrors.ErrCodeInvalidInput},
		{"blank keyword", http.MethodPost, "/api/v1/layout", `{"keywords":[{"text":" ","count":1}]}`, 400, apperrors.ErrCodeInvalidKeyword},
		{"bad measurer", http.MethodPost, "/api/v1/layout", `{"keywords":[],"measurer":"pango"}`, 400, apperrors.ErrCodeInvalidInput},
		{"pdf", http.MethodPost, "/api/v1/render?format=pdf", `{"keywords":[]}`, 400, apperrors.ErrCodeInvalidFormat},
		{"bad board id", http.MethodGet, "/api/v1/boards/not-a-uuid/cloud", "", 400, apperrors.ErrCodeInvalidBoard},
		{"unknown board", http.MethodGet, "/api/v1/boards/" + uuid.NewString() + "/cloud", "", 404, apperrors.ErrCodeBoardNotFound},
		{"bad limit", http.MethodGet, "/api/v1/boards/" + testBoard + "/cloud?limit=many", "", 400, apperrors.ErrCodeInvalidInput},
		{"limit too large", http.MethodGet, "/api/v1/boards/" + testBoard + "/cloud?limit=51", "", 400, apperrors.ErrCodeInvalidInput},
		{"unknown route", http.MethodGet, "/api/v2/nothing", "", 404, apperrors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body := decodeError(t, resp); body.Code != tt.code {
				t.Errorf("code = %s, want %s (message %q)", body.Code, tt.code, body.Message)
			}
		})
	}
}

func TestBoardCloud(t *testing.T) {
	ts := newTestServer(t, fruitSource(), Options{})

	resp, err := http.Get(ts.URL + "/api/v1/boards/" + testBoard + "/cloud?format=json")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	data, _ := io.ReadAll(resp.Body)
	doc, err := sink.ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error: %v", err)
	}
	want := []string{"apple", "banana", "cherry"}
	if len(doc.Words) != len(want) {
		t.Fatalf("got %d words, want %d", len(doc.Words), len(want))
	}
	for i, w := range want {
		if doc.Words[i].Text != w {
			t.Errorf("word %d = %q, want %q", i, doc.Words[i].Text, w)
		}
	}
	if doc.Words[0].Count != 3 {
		t.Errorf("apple count = %d, want 3", doc.Words[0].Count)
	}
}

func TestSubmitThenCloud(t *testing.T) {
	src := fruitSource()
	ts := newTestServer(t, src, Options{AutoApprove: true})
	board := uuid.NewString()

	for _, text := range []string{"Zig!", "zig", "Odin"} {
		resp, err := http.Post(ts.URL+"/api/v1/boards/"+board+"/submissions", "application/json",
			strings.NewReader(`{"text":"`+text+`"}`))
		if err != nil {
			t.Fatal(err)
		}
		var got submitResponse
		_ = json.NewDecoder(resp.Body).Decode(&got)
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("submit %q status = %d, want 201", text, resp.StatusCode)
		}
		if !got.Approved || got.Normalized != keyword.Normalize(text) {
			t.Errorf("submit %q response = %+v", text, got)
		}
	}

	resp, err := http.Get(ts.URL + "/api/v1/boards/" + board + "/cloud?format=json")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	doc, err := sink.ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error: %v", err)
	}
	if len(doc.Words) != 2 || doc.Words[0].Text != "zig" || doc.Words[0].Count != 2 {
		t.Errorf("words = %+v", doc.Words)
	}
}

func TestSubmitManualModeration(t *testing.T) {
	src := fruitSource()
	ts := newTestServer(t, src, Options{AutoApprove: false})

	resp, err := http.Post(ts.URL+"/api/v1/boards/"+testBoard+"/submissions", "application/json",
		strings.NewReader(`{"text":"durian"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	subs := src.subs[testBoard]
	if last := subs[len(subs)-1]; last.Approved {
		t.Error("submission stored approved under manual moderation")
	}
}

func TestSubmitErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    source.Source
		board  string
		body   string
		status int
		code   apperrors.Code
	}{
		{"read-only source", &readOnlySource{subs: map[string][]keyword.Submission{}}, testBoard, `{"text":"go"}`, 501, apperrors.ErrCodeUnsupported},
		{"punctuation only", fruitSource(), testBoard, `{"text":"?!"}`, 400, apperrors.ErrCodeInvalidKeyword},
		{"empty", fruitSource(), testBoard, `{"text":""}`, 400, apperrors.ErrCodeInvalidKeyword},
		{"bad board", fruitSource(), "nope", `{"text":"go"}`, 400, apperrors.ErrCodeInvalidBoard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.src, Options{AutoApprove: true})
			resp, err := http.Post(ts.URL+"/api/v1/boards/"+tt.board+"/submissions", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body := decodeError(t, resp); body.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Code, tt.code)
			}
		})
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger), logger, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	if err := <-done; err != nil {
		t.Errorf("ListenAndServe() error after cancel: %v", err)
	}
}
