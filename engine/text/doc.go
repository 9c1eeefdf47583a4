/*
Package text lays out strings as sequences of positioned glyphs.

Layout is a single left-to-right pass over the code-points of a string,
normalized to NFC. Each code-point is mapped to a glyph of the primary font,
or of the first fallback font which covers it, or finally to the primary
font's missing-glyph placeholder (glyph 0).

Glyphs are placed on a baseline, advancing a cursor by the glyphs' advance
widths, adjusted by kerning if requested. Tab characters advance the cursor
to the next tab stop; a tab width of 0 makes tabs vanish completely. Newline
characters break lines, and if a wrapping width is set, lines are broken
between words whenever the next word would not fit.

The result of a layout is a glyphing.GlyphSequence: positioned glyphs plus
the union of their ink boxes in device space.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package text

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'glyphs.text'.
func tracer() tracing.Trace {
	return tracing.Select("glyphs.text")
}
