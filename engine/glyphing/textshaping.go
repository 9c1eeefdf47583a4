package glyphing

import (
	"fmt"

	"github.com/npillmayer/glyphs/core/dimen"
	"github.com/npillmayer/glyphs/core/font"
	"github.com/npillmayer/glyphs/core/font/opentype/ot"
)

// A ShapedGlyph is a glyph placed in device space, the result of laying out
// a single code-point.
type ShapedGlyph struct {
	ClusterID int           // position of the code-point for this glyph in the (normalized) string
	CodePoint rune          // code-point which produced this glyph
	GID       ot.GlyphIndex // glyph index within Font
	Font      *font.Font    // font the glyph has been taken from
	Origin    dimen.Point   // device position of the glyph origin on the baseline
	Scale     dimen.Point   // applied scale from font units to pixels
	XAdvance  float64       // advance after glyph has been set, in pixels, including kerning
	Line      int           // line number, starting at 0
}

func (g ShapedGlyph) String() string {
	return fmt.Sprintf("(GID=%d, origin=%s, advance=%.4g)", g.GID, g.Origin, g.XAdvance)
}

// Instance returns a renderable instance of g.
func (g ShapedGlyph) Instance() (*GlyphInstance, error) {
	return NewInstance(g.Font, g.GID)
}

// GlyphSequence contains a sequence of shaped glyphs.
type GlyphSequence struct {
	Glyphs []ShapedGlyph // resulting sequence of glyphs
	Bounds dimen.Rect    // union of the glyphs' ink boxes, in device space
	Lines  int           // number of lines
}

// BoundingBox returns the size of the ink bounding box of the sequence.
func (seq GlyphSequence) BoundingBox() (w float64, h float64) {
	return seq.Bounds.Width(), seq.Bounds.Height()
}

// Render renders every glyph of the sequence onto r, framed by BeginText
// and EndText. Rendering stops at the first glyph which cannot be rendered.
func (seq GlyphSequence) Render(r Renderer, pointSize float64, dpi dimen.Point) error {
	r.BeginText(seq.Bounds)
	defer r.EndText()
	for _, g := range seq.Glyphs {
		inst, err := g.Instance()
		if err != nil {
			return err
		}
		opts := RenderOptions{PointSize: pointSize, DPI: dpi, Location: g.Origin}
		if err = inst.Render(r, opts); err != nil {
			return err
		}
	}
	return nil
}
