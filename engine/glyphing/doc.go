/*
Package glyphing renders glyph outlines into device-space paths.

A GlyphInstance is a decoded glyph outline together with the font
information needed to scale it. Render scales an instance to a point size
and resolution, flips it to device space (y pointing downwards), places it
at a location and replays it as a sequence of path operations on a Renderer.

TrueType outlines consist of on-curve points and quadratic off-curve control
points. Two consecutive off-curve points imply an on-curve point halfway
between them; Render makes these implicit points explicit. Outlines flagged
as cubic are interpreted with up to two off-curve control points per segment.

Renderers are external collaborators, typically rasterizers. They receive a
cache key with every glyph and may decline to receive the glyph's figures if
they already hold a rendering for that key.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package glyphing

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glyphs.glyphing'.
func tracer() tracing.Trace {
	return tracing.Select("glyphs.glyphing")
}
