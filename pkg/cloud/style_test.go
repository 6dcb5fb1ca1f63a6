package cloud

import (
	"math"
	"testing"
)

func TestFontSize(t *testing.T) {
	tests := []struct {
		count, max int
		want       float64
	}{
		{10, 10, 38.4},
		{5, 10, 23.4},
		{1, 10, 11.4},
		{0, 10, 8.4},
		{20, 10, 38.4},
		{-3, 10, 8.4},
		{3, 0, 38.4},
		{1, 1, 38.4},
	}

	for _, tt := range tests {
		got := FontSize(tt.count, tt.max)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("FontSize(%d, %d) = %v, want %v", tt.count, tt.max, got, tt.want)
		}
	}
}

func TestFontSizeMonotonic(t *testing.T) {
	prev := 0.0
	for count := 0; count <= 100; count++ {
		size := FontSize(count, 100)
		if size < prev {
			t.Fatalf("FontSize(%d, 100) = %v, smaller than %v", count, size, prev)
		}
		if size < MinFontSize || size > MaxFontSize {
			t.Fatalf("FontSize(%d, 100) = %v, outside [%v, %v]", count, size, MinFontSize, MaxFontSize)
		}
		prev = size
	}
}

func TestColorFor(t *testing.T) {
	tests := []struct {
		text string
		want ColorID
	}{
		{"apple", 1},
		{"banana", 4},
		{"cherry", 4},
		{"go", 3},
		{"café", 4},
		{"machine learning", 0},
		{"", 5},
	}

	for _, tt := range tests {
		if got := ColorFor(tt.text); got != tt.want {
			t.Errorf("ColorFor(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestColorForStable(t *testing.T) {
	words := []string{"kubernetes", "observability", "日本語", "🎉 party", "a"}
	for _, w := range words {
		first := ColorFor(w)
		for i := 0; i < 5; i++ {
			if got := ColorFor(w); got != first {
				t.Fatalf("ColorFor(%q) changed from %v to %v", w, first, got)
			}
		}
		if first < 0 || int(first) >= len(Palette) {
			t.Errorf("ColorFor(%q) = %d, outside palette", w, first)
		}
	}
}

func TestColorIDHex(t *testing.T) {
	if got := ColorID(0).Hex(); got != "#3b82f6" {
		t.Errorf("ColorID(0).Hex() = %q", got)
	}
	if got := ColorID(5).Hex(); got != "#06b6d4" {
		t.Errorf("ColorID(5).Hex() = %q", got)
	}
	if got := ColorID(42).Hex(); got != Palette[0] {
		t.Errorf("out-of-range Hex() = %q, want %q", got, Palette[0])
	}
}
