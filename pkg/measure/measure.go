package measure

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
)

// Backend names accepted by ByName.
const (
	NameOpenType = "opentype"
	NameShaped   = "shaped"

	// Default is the backend used when none is configured.
	Default = NameOpenType
)

// Names returns the supported backend names.
func Names() []string {
	return []string{NameOpenType, NameShaped}
}

// ByName returns the measurer registered under name. The empty string
// selects Default.
func ByName(name string) (cloud.Measurer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameOpenType:
		return NewOpenType()
	case NameShaped:
		return NewShaped()
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig,
			"unknown measurer %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
}

// Valid reports whether name selects a known backend.
func Valid(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	return n == "" || slices.Contains(Names(), n)
}

func checkInput(text string, fontSize float64) error {
	if !utf8.ValidString(text) {
		return apperrors.New(apperrors.ErrCodeMeasurement, "text is not valid UTF-8")
	}
	if fontSize <= 0 {
		return apperrors.New(apperrors.ErrCodeMeasurement, "font size must be positive, got %v", fontSize)
	}
	return nil
}
