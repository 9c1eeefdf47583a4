package glyphing

import (
	"github.com/npillmayer/glyphs/core/dimen"
)

// CacheKey identifies a glyph at a certain scale. Keys are derived from the
// font's identity, the glyph index and the scaled size, never from object
// identity: the same glyph at the same size always yields the same key.
type CacheKey uint64

// Renderer receives device-space paths. All points are in device pixels,
// with the y-axis pointing downwards.
//
// Calls are strictly ordered:
//
//	BeginText
//	  ( BeginGlyph ( BeginFigure MoveTo { LineTo | QuadraticBezierTo | CubicBezierTo } EndFigure )* EndGlyph )*
//	EndText
//
// If BeginGlyph returns false, no figures are sent for this glyph, but
// EndGlyph is called nevertheless.
type Renderer interface {
	BeginText(bounds dimen.Rect)
	BeginGlyph(bounds dimen.Rect, key CacheKey) bool
	BeginFigure()
	MoveTo(p dimen.Point)
	LineTo(p dimen.Point)
	QuadraticBezierTo(c, p dimen.Point)
	CubicBezierTo(c1, c2, p dimen.Point)
	EndFigure()
	EndGlyph()
	EndText()
}
