package glyphing

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/npillmayer/glyphs/core"
	"github.com/npillmayer/glyphs/core/dimen"
	"github.com/npillmayer/glyphs/core/font"
	"github.com/npillmayer/glyphs/core/font/opentype/ot"
)

// GlyphInstance is a glyph outline ready to be rendered at arbitrary sizes.
type GlyphInstance struct {
	Outline    *ot.GlyphOutline
	UnitsPerEm uint16
	FontID     uint64 // structural identity of the font, see font.Font.ID
	// Cubic interprets runs of off-curve points as cubic control points.
	// TrueType outlines are quadratic and should leave this unset.
	Cubic bool
}

// NewInstance creates a glyph instance for glyph gid of font f.
func NewInstance(f *font.Font, gid ot.GlyphIndex) (*GlyphInstance, error) {
	outline, err := f.Outline(gid)
	if err != nil {
		return nil, err
	}
	return &GlyphInstance{
		Outline:    outline,
		UnitsPerEm: f.UnitsPerEm(),
		FontID:     f.ID(),
	}, nil
}

// RenderOptions determine size and placement of a rendered glyph.
type RenderOptions struct {
	PointSize float64     // font size in points
	DPI       dimen.Point // device resolution, horizontal and vertical
	Location  dimen.Point // device position of the glyph origin (on the baseline)
}

// Scale returns the factors from font units to device pixels.
func (inst *GlyphInstance) Scale(opts RenderOptions) (sx, sy float64) {
	sx = dimen.PixelsPerUnit(opts.PointSize, opts.DPI.X, inst.UnitsPerEm)
	sy = dimen.PixelsPerUnit(opts.PointSize, opts.DPI.Y, inst.UnitsPerEm)
	return
}

// CacheKey returns a key for this glyph at the scale given by opts.
// The location does not contribute to the key.
func (inst *GlyphInstance) CacheKey(opts RenderOptions) CacheKey {
	var buf [8 + 2 + 8 + 8]byte
	binary.BigEndian.PutUint64(buf[0:], inst.FontID)
	binary.BigEndian.PutUint16(buf[8:], uint16(inst.Outline.Glyph))
	size := dimen.Point{
		X: opts.PointSize * opts.DPI.X / dimen.PointsPerInch,
		Y: opts.PointSize * opts.DPI.Y / dimen.PointsPerInch,
	}
	binary.BigEndian.PutUint64(buf[10:], math.Float64bits(size.X))
	binary.BigEndian.PutUint64(buf[18:], math.Float64bits(size.Y))
	h := fnv.New64a()
	h.Write(buf[:])
	return CacheKey(h.Sum64())
}

// toDevice transforms a point from font space to device space.
func (inst *GlyphInstance) toDevice(p ot.Point, sx, sy float64, loc dimen.Point) dimen.Point {
	return dimen.Point{
		X: loc.X + p.X*sx,
		Y: loc.Y - p.Y*sy,
	}
}

// Bounds returns the device space bounding box of the glyph's ink, as
// declared by the glyph header. If the header does not declare a box, the
// box is derived from the outline's points. Glyphs without contours have
// empty bounds.
func (inst *GlyphInstance) Bounds(opts RenderOptions) dimen.Rect {
	r := dimen.EmptyRect()
	if inst.Outline.IsEmpty() {
		return r
	}
	sx, sy := inst.Scale(opts)
	bbox := inst.Outline.BBox
	if bbox.Empty() {
		for _, p := range inst.Outline.Points {
			r = r.Include(inst.toDevice(p, sx, sy, opts.Location))
		}
		return r
	}
	min := ot.Point{X: float64(bbox.MinX), Y: float64(bbox.MinY)}
	max := ot.Point{X: float64(bbox.MaxX), Y: float64(bbox.MaxY)}
	r = r.Include(inst.toDevice(min, sx, sy, opts.Location))
	return r.Include(inst.toDevice(max, sx, sy, opts.Location))
}

// Path converts the outline into device space figures, one per contour.
func (inst *GlyphInstance) Path(opts RenderOptions) ([]Figure, error) {
	outline := inst.Outline
	sx, sy := inst.Scale(opts)
	figures := make([]Figure, 0, outline.ContourCount())
	for c := 0; c < outline.ContourCount(); c++ {
		from, to := outline.Contour(c)
		pts := make([]dimen.Point, 0, to-from+1)
		for i := from; i <= to; i++ {
			pts = append(pts, inst.toDevice(outline.Points[i], sx, sy, opts.Location))
		}
		fig, err := contourFigure(pts, outline.OnCurve[from:to+1], inst.Cubic)
		if err != nil {
			return nil, core.WrapError(err, core.Code(err), "glyph %d, contour %d", outline.Glyph, c)
		}
		figures = append(figures, fig)
	}
	return figures, nil
}

// contourFigure applies the TrueType reconstruction rule to a single contour.
// pts are already in device space.
func contourFigure(pts []dimen.Point, on []bool, cubic bool) (Figure, error) {
	n := len(pts)
	var start dimen.Point
	var walk []int
	switch {
	case on[n-1]:
		start = pts[n-1]
		walk = indexRange(0, n-1)
	case on[0]:
		start = pts[0]
		walk = indexRange(1, n)
	default:
		start = pts[0].Mid(pts[n-1])
		walk = indexRange(0, n)
	}
	fig := Figure{{Op: OutlineOpMoveTo, Points: [3]dimen.Point{start}}}
	current := start
	var pending controls = noControls{}
	var err error
	for _, i := range walk {
		p := pts[i]
		if on[i] {
			fig = append(fig, pending.segment(p))
			pending, current = noControls{}, p
			continue
		}
		if one, ok := pending.(oneControl); ok && !cubic {
			// implicit on-curve point between two off-curve points
			mid := one.c.Mid(p)
			fig = append(fig, one.segment(mid))
			pending, current = oneControl{p}, mid
			continue
		}
		if pending, err = pending.add(p); err != nil {
			return nil, err
		}
	}
	if _, none := pending.(noControls); !none || current != start {
		fig = append(fig, pending.segment(start))
	}
	return fig, nil
}

func indexRange(from, to int) []int {
	r := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		r = append(r, i)
	}
	return r
}

// Render scales the glyph, places it at opts.Location and replays its
// outline on renderer r. If r declines the glyph in BeginGlyph, no figures
// are sent. If the outline cannot be converted, nothing at all is sent to r.
func (inst *GlyphInstance) Render(r Renderer, opts RenderOptions) error {
	if inst.Outline == nil {
		return core.Error(core.EINVALID, "glyph instance without outline")
	}
	figures, err := inst.Path(opts)
	if err != nil {
		tracer().Errorf("cannot render glyph %d: %v", inst.Outline.Glyph, err)
		return err
	}
	if r.BeginGlyph(inst.Bounds(opts), inst.CacheKey(opts)) {
		for _, fig := range figures {
			replay(r, fig)
		}
	}
	r.EndGlyph()
	return nil
}

func replay(r Renderer, fig Figure) {
	r.BeginFigure()
	for _, s := range fig {
		switch s.Op {
		case OutlineOpMoveTo:
			r.MoveTo(s.Points[0])
		case OutlineOpLineTo:
			r.LineTo(s.Points[0])
		case OutlineOpQuadTo:
			r.QuadraticBezierTo(s.Points[0], s.Points[1])
		case OutlineOpCubicTo:
			r.CubicBezierTo(s.Points[0], s.Points[1], s.Points[2])
		}
	}
	r.EndFigure()
}
