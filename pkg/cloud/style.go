package cloud

import (
	"fmt"
	"unicode/utf16"
)

// Font size range in pixels.
const (
	MinFontSize = 8.4
	MaxFontSize = 38.4
)

// FontSize interpolates linearly between MinFontSize and MaxFontSize by
// count/maxCount. A maxCount below 1 is treated as 1.
func FontSize(count, maxCount int) float64 {
	if maxCount < 1 {
		maxCount = 1
	}
	ratio := float64(count) / float64(maxCount)
	size := MinFontSize + ratio*(MaxFontSize-MinFontSize)
	return max(MinFontSize, min(MaxFontSize, size))
}

// ColorID indexes Palette.
type ColorID int

// Palette is the fixed, ordered set of word colors. Its order is part of the
// color assignment and must not change.
var Palette = [...]string{
	"#3b82f6", // blue
	"#ef4444", // red
	"#10b981", // green
	"#8b5cf6", // purple
	"#f59e0b", // orange
	"#06b6d4", // cyan
}

// Hex returns the palette entry for id.
func (id ColorID) Hex() string {
	if id < 0 || int(id) >= len(Palette) {
		return Palette[0]
	}
	return Palette[id]
}

// String implements fmt.Stringer.
func (id ColorID) String() string {
	return fmt.Sprintf("%d(%s)", int(id), id.Hex())
}

// ColorFor maps a normalized keyword to its palette color. The hash is djb2
// (h = h*33 + c, seeded with 5381, 32-bit wraparound) over the UTF-16 code
// units of text, so a keyword keeps its color across calls, processes and
// releases.
func ColorFor(text string) ColorID {
	return ColorID(hashString(text) % int64(len(Palette)))
}

func hashString(s string) int64 {
	h := int32(5381)
	for _, u := range utf16.Encode([]rune(s)) {
		h = (h << 5) + h + int32(u)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}
