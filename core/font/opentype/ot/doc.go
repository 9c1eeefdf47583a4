/*
Package ot provides access to the tables of TrueType and OpenType fonts and
decodes TrueType glyph outlines.

Intended audience for this package are glyph renderers and text layout
engines which need the structure of a font's binary data, but do not want
to deal with byte offsets themselves.

Package `ot` keeps the font's binary data in memory and does not copy
tables into separate buffers. Tables are located and validated once, in
Parse; afterwards an ot.Font is immutable and may be shared between
goroutines freely. Glyph outlines are decoded on request by DecodeGlyph,
which does not cache; caching is the business of package `font`.

Every read from the font binary is bounds-checked. Fonts are untrusted
input, and a malformed font must never result in a panic.

# Supported tables

Required: 'head', 'hhea', 'maxp', 'hmtx', 'cmap', 'loca', 'glyf'.
Optional: 'kern' (format 0 sub-tables, Microsoft and Apple headers),
'name', 'OS/2' (as a generic table).

cmap sub-tables of format 4 are supported, as well as formats 12 and 0.
CFF outlines, font collections and variable fonts are not supported.
GSUB/GPOS shaping is out of scope for this module.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

import (
	"fmt"

	"github.com/npillmayer/glyphs/core"
	"github.com/npillmayer/schuko/tracing"
)

// Valuable resource:
// https://docs.microsoft.com/en-us/typography/opentype/spec/

// tracer writes to trace with key 'glyphs.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphs.fonts")
}

// errFontFormat produces user level errors for font parsing.
func errFontFormat(x string, args ...interface{}) error {
	return core.Error(core.EFORMAT, "font format: %s", fmt.Sprintf(x, args...))
}
