package otquery

import (
	"github.com/npillmayer/glyphs/core/font/opentype"
	"github.com/npillmayer/glyphs/core/font/opentype/ot"
	"golang.org/x/image/font/sfnt"
)

// --- Font Information -------------------------------------------------

// FontMetrics retrieves selected metrics of a font.
//
// Ascent, descent and line gap are taken from table 'hhea'. Some fonts leave
// these zero and carry typographic metrics in table 'OS/2' instead; in
// this case the OS/2 values are used.
func FontMetrics(otf *ot.Font) opentype.FontMetricsInfo {
	metrics := opentype.FontMetricsInfo{}
	hhea := otf.HHea // required table
	metrics.Ascent = sfnt.Units(hhea.Ascender)
	metrics.Descent = sfnt.Units(hhea.Descender)
	metrics.LineGap = sfnt.Units(hhea.LineGap)
	if b := hhea.Binary(); len(b) >= 12 {
		metrics.MaxAdvance = sfnt.Units(u16(b[10:]))
	}
	if metrics.Ascent == 0 && metrics.Descent == 0 {
		if os2 := otf.Table(ot.T("OS/2")); os2 != nil && len(os2.Binary()) >= 74 {
			b := os2.Binary()
			a := sfnt.Units(i16(b[68:]))
			if a > metrics.Ascent {
				tracer().Debugf("override of ascent: %d -> %d", metrics.Ascent, a)
				metrics.Ascent = a
			}
			d := sfnt.Units(i16(b[70:]))
			if d < metrics.Descent {
				tracer().Debugf("override of descent: %d -> %d", metrics.Descent, d)
				metrics.Descent = d
			}
			metrics.LineGap = sfnt.Units(i16(b[72:]))
		}
	}
	metrics.UnitsPerEm = sfnt.Units(otf.Head.UnitsPerEm)
	return metrics
}

// --- Glyph Routines --------------------------------------------------------

// GlyphIndex returns the glyph index for a give code-point.
// If the code-point cannot be found, 0 is returned.
//
// From the OpenType specification: character codes that do not correspond to any glyph in
// the font should be mapped to glyph index 0. The glyph at this location must be a special
// glyph representing a missing character, commonly known as '.notdef'.
func GlyphIndex(otf *ot.Font, codepoint rune) ot.GlyphIndex {
	return otf.CMap.GlyphIndexMap.Lookup(codepoint)
}

// CodePointForGlyph returns the code-point for a given glyph index.
//
// This is an inefficient operation: All code-points contained in the font's CMap
// are checked sequentially if they produce the given glyph.
// If the glyph index does not correspond to a code-point, 0 is returned.
func CodePointForGlyph(otf *ot.Font, gid ot.GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	return otf.CMap.GlyphIndexMap.ReverseLookup(gid)
}

// GlyphMetrics retrieves metrics for a given glyph.
// Glyph indices beyond the glyph count of the font yield zero metrics.
func GlyphMetrics(otf *ot.Font, gid ot.GlyphIndex) opentype.GlyphMetricsInfo {
	metrics := opentype.GlyphMetricsInfo{}
	if int(gid) >= otf.NumGlyphs() {
		return metrics
	}
	// table hmtx: advance width and left side bearing
	adv, lsb := otf.HMtx.HMetrics(gid)
	metrics.Advance, metrics.LSB = sfnt.Units(adv), sfnt.Units(lsb)
	//
	// table glyf: bounding box from the glyph header
	start, end := otf.Loca.GlyphRange(gid)
	if b := otf.Glyf.Binary(); end >= start+10 && int(end) <= len(b) {
		h := b[start:]
		metrics.BBox = opentype.BoundingBox{
			MinX: sfnt.Units(i16(h[2:])),
			MinY: sfnt.Units(i16(h[4:])),
			MaxX: sfnt.Units(i16(h[6:])),
			MaxY: sfnt.Units(i16(h[8:])),
		}
	}
	// RSB calculation: rsb = aw - (lsb + xMax - xMin)
	// From the OpenType spec:
	// If a glyph has no contours, xMax/xMin are not defined. The left side bearing indicated
	// in the 'hmtx' table for such glyphs should be zero.
	if !metrics.BBox.Empty() { // leave RSB for empty bboxes
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics
}

// Kerning returns the kerning adjustment for an ordered pair of glyphs,
// in font units. Fonts without a 'kern' table yield 0.
func Kerning(otf *ot.Font, left, right ot.GlyphIndex) sfnt.Units {
	return sfnt.Units(otf.Kern.Kerning(left, right))
}

// --- Helpers ----------------------------------------------------------

func u16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func i16(b []byte) int16 {
	return int16(b[0])<<8 | int16(b[1])<<0
}
