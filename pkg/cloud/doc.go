// Package cloud computes word-cloud layouts.
//
// Given a ranked list of (keyword, count) pairs, [Layout] assigns every word a
// font size proportional to its frequency, a palette color derived from its
// text, and a center point on a canvas such that no two words overlap.
//
// # Algorithm
//
// Words are placed greedily in descending count order (ties keep input
// order). The first word sits at the center of a 480×240 canvas. Every later
// word walks an Archimedean spiral around the current canvas center and takes
// the first point where its rectangle clears all previously placed words by
// at least [Padding] on every side. Candidate points that cross a canvas edge
// grow the canvas in that direction, so no bound on total area is needed up
// front. The search is capped by [MaxSpiralRadius] and [MaxAttempts]; a word
// that exhausts it is placed directly right of the previous word instead.
// That fallback can overlap earlier words and is flagged on the
// [PlacedWord].
//
// # Measurement
//
// Word extents come from a [Measurer] that reports real advance widths for a
// bold font. Layouts are reproducible for a fixed Measurer and input, but
// different measurement backends produce different (equally valid) layouts.
// Package measure provides the production backends.
//
// # Coordinates
//
// Results use a top-left origin: X grows right, Y grows down, and every word
// rectangle lies within [0, Bounds.Width] × [0, Bounds.Height].
//
// # Usage
//
//	m, err := measure.NewOpenType()
//	if err != nil {
//	    return err
//	}
//	res, err := cloud.Layout(m, []cloud.KeywordCount{
//	    {Text: "apple", Count: 10},
//	    {Text: "banana", Count: 5},
//	})
package cloud
