// Package source loads the ranked keyword list of a board.
//
// A [Source] answers one question: what are the top N approved keywords on
// this board, and how often was each submitted? [FileSource] reads exported
// submission files from a directory; [MongoSource] aggregates a live
// submissions collection. Both return the same ordering: count descending,
// ties by normalized text for Mongo and by first appearance for files.
package source

import (
	"context"
	"fmt"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/keyword"
)

// Backend names.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// Source provides ranked keywords for a board.
type Source interface {
	// TopKeywords returns at most limit keywords of the board, most
	// frequent first. limit is clamped to [1, MaxLimit].
	TopKeywords(ctx context.Context, boardID string, limit int) ([]cloud.KeywordCount, error)

	// Close releases connections or handles.
	Close() error
}

// Submitter is implemented by sources that accept new submissions.
type Submitter interface {
	Submit(ctx context.Context, sub keyword.Submission) error
}

// Options selects and configures a backend.
type Options struct {
	Backend string

	// Path is the submissions directory for the file backend.
	Path string

	Mongo MongoOptions
}

// Open returns the backend selected by opts.Backend.
func Open(ctx context.Context, opts Options) (Source, error) {
	switch opts.Backend {
	case BackendFile, "":
		src, err := NewFileSource(opts.Path)
		if err != nil {
			return nil, err
		}
		return src, nil
	case BackendMongo:
		src, err := NewMongoSource(ctx, opts.Mongo)
		if err != nil {
			return nil, err
		}
		if err := src.EnsureIndexes(ctx); err != nil {
			_ = src.Close()
			return nil, err
		}
		return src, nil
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown source backend %q", opts.Backend)
	}
}

// Submit stores sub if src accepts submissions.
func Submit(ctx context.Context, src Source, sub keyword.Submission) error {
	s, ok := src.(Submitter)
	if !ok {
		return apperrors.New(apperrors.ErrCodeUnsupported, "source does not accept submissions")
	}
	if err := apperrors.ValidateBoardID(sub.BoardID); err != nil {
		return err
	}
	if err := apperrors.ValidateKeyword(sub.Text); err != nil {
		return err
	}
	if keyword.Normalize(sub.Text) == "" {
		return apperrors.New(apperrors.ErrCodeInvalidKeyword, "keyword has no letters or digits")
	}
	if err := s.Submit(ctx, sub); err != nil {
		return fmt.Errorf("submit to board %s: %w", sub.BoardID, err)
	}
	return nil
}
