package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/keyword"
)

// boardExtensions are tried in order when looking up a board file.
var boardExtensions = []string{".txt", ".json", ".toml"}

// FileSource reads boards from a directory holding one submissions file per
// board, named <board-id>.txt, .json or .toml.
type FileSource struct {
	dir string
}

// NewFileSource returns a source reading from dir.
func NewFileSource(dir string) (*FileSource, error) {
	if dir == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "file source needs a directory")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeSourceUnavailable, err, "open submissions directory")
	}
	if !info.IsDir() {
		return nil, apperrors.New(apperrors.ErrCodeSourceUnavailable, "%s is not a directory", dir)
	}
	return &FileSource{dir: dir}, nil
}

// TopKeywords implements Source.
func (s *FileSource) TopKeywords(ctx context.Context, boardID string, limit int) ([]cloud.KeywordCount, error) {
	if err := apperrors.ValidateBoardID(boardID); err != nil {
		return nil, err
	}
	subs, err := s.read(boardID)
	if err != nil {
		return nil, err
	}

	// Exports may hold several boards; keep entries for this one.
	kept := subs[:0]
	for _, sub := range subs {
		if sub.BoardID == "" || sub.BoardID == boardID {
			kept = append(kept, sub)
		}
	}
	return keyword.Aggregate(kept, limit), nil
}

func (s *FileSource) read(boardID string) ([]keyword.Submission, error) {
	for _, ext := range boardExtensions {
		path := filepath.Join(s.dir, boardID+ext)
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeSourceUnavailable, err, "open board %s", boardID)
		}
		subs, err := keyword.ReadSubmissions(f, keyword.FormatForPath(path))
		f.Close()
		return subs, err
	}
	return nil, apperrors.New(apperrors.ErrCodeBoardNotFound, "board %s not found", boardID)
}

// Close implements Source.
func (s *FileSource) Close() error { return nil }

var _ Source = (*FileSource)(nil)
