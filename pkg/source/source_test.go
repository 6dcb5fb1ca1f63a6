package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/keyword"
)

func writeBoard(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	txtBoard := uuid.NewString()
	jsonBoard := uuid.NewString()
	otherBoard := uuid.NewString()

	writeBoard(t, dir, txtBoard+".txt", "Go\ngo!\nRust\n# comment\nZig\nGO\nrust\n")
	writeBoard(t, dir, jsonBoard+".json", `[
		{"text": "Kubernetes"},
		{"text": "kubernetes", "approved": false},
		{"text": "Docker", "board_id": "`+jsonBoard+`"},
		{"text": "Nomad", "board_id": "`+otherBoard+`"}
	]`)

	src, err := NewFileSource(dir)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}
	defer src.Close()
	ctx := context.Background()

	got, err := src.TopKeywords(ctx, txtBoard, 2)
	if err != nil {
		t.Fatalf("TopKeywords(txt): %v", err)
	}
	want := []cloud.KeywordCount{{Text: "go", Count: 3}, {Text: "rust", Count: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("txt board mismatch (-want +got):\n%s", diff)
	}

	got, err = src.TopKeywords(ctx, jsonBoard, 0)
	if err != nil {
		t.Fatalf("TopKeywords(json): %v", err)
	}
	want = []cloud.KeywordCount{{Text: "kubernetes", Count: 1}, {Text: "docker", Count: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("json board mismatch (-want +got):\n%s", diff)
	}
}

func TestFileSourceErrors(t *testing.T) {
	src, err := NewFileSource(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := src.TopKeywords(ctx, uuid.NewString(), 10); !apperrors.Is(err, apperrors.ErrCodeBoardNotFound) {
		t.Errorf("missing board error = %v, want %s", err, apperrors.ErrCodeBoardNotFound)
	}
	if _, err := src.TopKeywords(ctx, "../../etc/passwd", 10); !apperrors.Is(err, apperrors.ErrCodeInvalidBoard) {
		t.Errorf("invalid id error = %v, want %s", err, apperrors.ErrCodeInvalidBoard)
	}

	if _, err := NewFileSource(filepath.Join(t.TempDir(), "missing")); !apperrors.Is(err, apperrors.ErrCodeSourceUnavailable) {
		t.Errorf("missing dir error = %v, want %s", err, apperrors.ErrCodeSourceUnavailable)
	}
	if _, err := NewFileSource(""); !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("empty dir error = %v, want %s", err, apperrors.ErrCodeInvalidConfig)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	src, err := Open(ctx, Options{Backend: BackendFile, Path: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	if _, ok := src.(*FileSource); !ok {
		t.Errorf("Open(file) = %T", src)
	}

	if _, err := Open(ctx, Options{Backend: "postgres"}); !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("unknown backend error = %v", err)
	}
	if _, err := Open(ctx, Options{Backend: BackendMongo}); !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("mongo without URI error = %v", err)
	}
}

type memorySource struct {
	FileSource
	subs []keyword.Submission
}

func (m *memorySource) Submit(_ context.Context, sub keyword.Submission) error {
	m.subs = append(m.subs, sub)
	return nil
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	board := uuid.NewString()

	mem := &memorySource{}
	if err := Submit(ctx, mem, keyword.Submission{BoardID: board, Text: "Go!", Approved: true}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(mem.subs) != 1 || mem.subs[0].Text != "Go!" {
		t.Errorf("stored = %+v", mem.subs)
	}

	tests := []struct {
		name string
		sub  keyword.Submission
		code apperrors.Code
	}{
		{"bad board", keyword.Submission{BoardID: "nope", Text: "go"}, apperrors.ErrCodeInvalidBoard},
		{"blank", keyword.Submission{BoardID: board, Text: "   "}, apperrors.ErrCodeInvalidKeyword},
		{"punctuation only", keyword.Submission{BoardID: board, Text: "?!"}, apperrors.ErrCodeInvalidKeyword},
	}
	for _, tt := range tests {
		if err := Submit(ctx, mem, tt.sub); !apperrors.Is(err, tt.code) {
			t.Errorf("%s: error = %v, want %s", tt.name, err, tt.code)
		}
	}

	fs, _ := NewFileSource(t.TempDir())
	if err := Submit(ctx, fs, keyword.Submission{BoardID: board, Text: "go"}); !apperrors.Is(err, apperrors.ErrCodeUnsupported) {
		t.Errorf("file source submit error = %v, want %s", err, apperrors.ErrCodeUnsupported)
	}
}

func TestTopKeywordsPipeline(t *testing.T) {
	p := topKeywordsPipeline("board-1", 25)
	var stages []string
	for _, stage := range p {
		stages = append(stages, stage[0].Key)
	}
	if diff := cmp.Diff([]string{"$match", "$group", "$sort", "$limit"}, stages); diff != "" {
		t.Errorf("pipeline stages mismatch (-want +got):\n%s", diff)
	}
	if got := p[3][0].Value; got != 25 {
		t.Errorf("$limit = %v, want 25", got)
	}
}
