package keyword

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
)

// Submission file formats.
const (
	FormatText = "txt"
	FormatJSON = "json"
	FormatTOML = "toml"
)

// FormatForPath infers the submission file format from its extension.
// Unknown extensions are read as plain text.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatText
	}
}

// fileSubmission is the on-disk form; a missing approved flag means approved.
type fileSubmission struct {
	BoardID  string `json:"board_id" toml:"board_id"`
	Text     string `json:"text" toml:"text"`
	Approved *bool  `json:"approved" toml:"approved"`
}

func (f fileSubmission) submission() Submission {
	return Submission{
		BoardID:  f.BoardID,
		Text:     f.Text,
		Approved: f.Approved == nil || *f.Approved,
	}
}

// ReadSubmissions parses submissions in the given format:
//
//   - txt: one approved submission per non-blank line; lines starting with
//     '#' are comments
//   - json: an array of strings or of {"text", "approved", "board_id"} objects
//   - toml: [[submission]] tables with text, approved and board_id keys
func ReadSubmissions(r io.Reader, format string) ([]Submission, error) {
	switch format {
	case FormatText, "":
		return readText(r)
	case FormatJSON:
		return readJSON(r)
	case FormatTOML:
		return readTOML(r)
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported submission format: %s", format)
	}
}

func readText(r io.Reader) ([]Submission, error) {
	var subs []Submission
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		subs = append(subs, Submission{Text: line, Approved: true})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read submissions: %w", err)
	}
	return subs, nil
}

func readJSON(r io.Reader) ([]Submission, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read submissions: %w", err)
	}

	var texts []string
	if err := json.Unmarshal(data, &texts); err == nil {
		return Approved(texts...), nil
	}

	var raw []fileSubmission
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode submissions")
	}
	subs := make([]Submission, len(raw))
	for i, f := range raw {
		subs[i] = f.submission()
	}
	return subs, nil
}

func readTOML(r io.Reader) ([]Submission, error) {
	var doc struct {
		Submission []fileSubmission `toml:"submission"`
	}
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode submissions")
	}
	subs := make([]Submission, len(doc.Submission))
	for i, f := range doc.Submission {
		subs[i] = f.submission()
	}
	return subs, nil
}

// DecodeKeywords parses a JSON array of {"text", "count"} objects and
// validates every entry.
func DecodeKeywords(data []byte) ([]cloud.KeywordCount, error) {
	data = bytes.TrimSpace(data)
	var kws []cloud.KeywordCount
	if err := json.Unmarshal(data, &kws); err != nil {
		// Accept the {"keywords": [...]} envelope used by the HTTP API.
		var env struct {
			Keywords []cloud.KeywordCount `json:"keywords"`
		}
		if err2 := json.Unmarshal(data, &env); err2 != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode keywords")
		}
		kws = env.Keywords
	}
	if err := Validate(kws); err != nil {
		return nil, err
	}
	if kws == nil {
		kws = []cloud.KeywordCount{}
	}
	return kws, nil
}

// Validate checks a ranked keyword list: at most MaxLimit entries, each with
// valid text and a positive count.
func Validate(kws []cloud.KeywordCount) error {
	if len(kws) > apperrors.MaxLimit {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"too many keywords (%d, max %d)", len(kws), apperrors.MaxLimit)
	}
	for i, kw := range kws {
		if err := apperrors.ValidateKeyword(kw.Text); err != nil {
			return fmt.Errorf("keyword %d: %w", i, err)
		}
		if err := apperrors.ValidateCount(kw.Text, kw.Count); err != nil {
			return fmt.Errorf("keyword %d: %w", i, err)
		}
	}
	return nil
}
