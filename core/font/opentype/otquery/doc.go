/*
Package otquery queries metrics and other information from TrueType fonts.

Package otquery provides functions to query layout information from a font. It knows about
the various tables contained in a font and which ones to address for queries.
Clients of this package will, amongst other, be:

▪︎ text layout engines, which need advance widths, kerning and line metrics

▪︎ glyph renderers, which need units per em and bounding boxes

All values are returned in font units (sfnt.Units); scaling to device space
is up to the client.

No font collections nor variable fonts are supported.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphs.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphs.fonts")
}
