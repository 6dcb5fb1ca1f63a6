// Package measure provides text measurement backends for the layout engine.
//
// Both backends measure the embedded Go Bold face from [fonts]:
//
//   - [OpenType] sums sfnt advance widths with pair kerning through
//     golang.org/x/image/font/opentype.
//   - [Shaped] runs HarfBuzz shaping through go-text/typesetting, which also
//     applies ligatures and contextual forms.
//
// The two agree to within a pixel or two on Latin text but are not
// interchangeable for caching: layouts are only reproducible against the
// backend that produced them. Use [ByName] to pick one from configuration.
//
// Both measurers are safe for concurrent use.
package measure
