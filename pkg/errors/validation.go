package errors

import (
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxKeywordLength is the longest submission accepted, in runes.
const MaxKeywordLength = 80

// MaxLimit caps how many ranked keywords a single cloud may hold.
const MaxLimit = 50

// ValidateKeyword validates raw submission text before normalization.
//
// The rules mirror the submission form:
//   - No empty or whitespace-only text
//   - Maximum length of 80 runes
//   - Valid UTF-8 without control characters
func ValidateKeyword(text string) error {
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidKeyword, "keyword is not valid UTF-8")
	}

	blank := true
	for _, r := range text {
		if unicode.IsControl(r) && r != '\t' {
			return New(ErrCodeInvalidKeyword, "keyword contains invalid control characters")
		}
		if !unicode.IsSpace(r) {
			blank = false
		}
	}
	if blank {
		return New(ErrCodeInvalidKeyword, "keyword cannot be empty")
	}

	if n := utf8.RuneCountInString(text); n > MaxKeywordLength {
		return New(ErrCodeInvalidKeyword, "keyword too long (%d runes, max %d)", n, MaxKeywordLength)
	}

	return nil
}

// ValidateBoardID validates a board identifier. Boards are addressed by UUID.
func ValidateBoardID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidBoard, "board id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidBoard, err, "invalid board id: %q", id)
	}
	return nil
}

// ValidateLimit validates a top-N keyword limit.
func ValidateLimit(limit int) error {
	if limit < 1 || limit > MaxLimit {
		return New(ErrCodeInvalidInput, "limit must be between 1 and %d, got %d", MaxLimit, limit)
	}
	return nil
}

// ValidateCount validates a keyword frequency.
func ValidateCount(text string, count int) error {
	if count < 1 {
		return New(ErrCodeInvalidInput, "count for %q must be at least 1, got %d", text, count)
	}
	return nil
}
