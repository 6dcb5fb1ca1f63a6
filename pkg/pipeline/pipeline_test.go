package pipeline

import (
	"testing"

	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"pdf", true},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want %s", tt.format, apperrors.GetCode(err), apperrors.ErrCodeInvalidFormat)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateMeasurer(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"opentype", false},
		{"shaped", false},
		{"freetype", true},
	}

	for _, tt := range tests {
		err := ValidateMeasurer(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMeasurer(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestValidateScale(t *testing.T) {
	tests := []struct {
		scale   float64
		wantErr bool
	}{
		{1, false},
		{2.5, false},
		{MaxScale, false},
		{0, true},
		{-1, true},
		{MaxScale + 1, true},
	}

	for _, tt := range tests {
		err := ValidateScale(tt.scale)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateScale(%v) error = %v, wantErr %v", tt.scale, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateForSource(t *testing.T) {
	opts := Options{BoardID: "board-1"}
	if err := opts.ValidateForSource(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if opts.Limit != DefaultLimit {
		t.Errorf("Limit should be %d, got %d", DefaultLimit, opts.Limit)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}

	// Missing board
	opts = Options{}
	if err := opts.ValidateForSource(); !apperrors.Is(err, apperrors.ErrCodeInvalidBoard) {
		t.Errorf("Missing board error = %v, want %s", err, apperrors.ErrCodeInvalidBoard)
	}

	// Limit out of range
	opts = Options{BoardID: "board-1", Limit: apperrors.MaxLimit + 1}
	if err := opts.ValidateForSource(); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("Large limit error = %v, want %s", err, apperrors.ErrCodeInvalidInput)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{BoardID: "board-1"}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalLimit := opts.Limit
	originalMeasurer := opts.Measurer
	originalScale := opts.Scale

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Limit != originalLimit {
		t.Error("Limit changed on second call")
	}
	if opts.Measurer != originalMeasurer {
		t.Error("Measurer changed on second call")
	}
	if opts.Scale != originalScale {
		t.Error("Scale changed on second call")
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.Measurer != DefaultMeasurer {
		t.Errorf("Measurer should be %s, got %s", DefaultMeasurer, opts.Measurer)
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 3, EmbedFont: true, Background: "#000", Title: "t", Measurer: "shaped"}

	png := opts.ArtifactKeyOpts(FormatPNG)
	if png.Scale != 3 || png.EmbedFont || png.Title != "" {
		t.Errorf("png key opts = %+v", png)
	}
	svg := opts.ArtifactKeyOpts(FormatSVG)
	if svg.Scale != 0 || !svg.EmbedFont || svg.Title != "t" {
		t.Errorf("svg key opts = %+v", svg)
	}
	js := opts.ArtifactKeyOpts(FormatJSON)
	if js.Measurer != "shaped" || js.Background != "" {
		t.Errorf("json key opts = %+v", js)
	}
}
