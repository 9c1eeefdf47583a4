package ot

import (
	"github.com/npillmayer/glyphs/core"
	"github.com/npillmayer/glyphs/core/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// MaxCompositeDepth is the maximum nesting level of composite glyphs.
// Composite glyphs referencing composite glyphs deeper than this are rejected.
const MaxCompositeDepth = 16

// Point is a point of a glyph outline, in font units.
// Coordinates are fractional, as components of composite glyphs may be scaled.
type Point struct {
	X, Y float64
}

// GlyphOutline is the decoded outline of a glyph: a sequence of points
// with on/off-curve markers, partitioned into closed contours.
//
// Invariants: len(OnCurve) == len(Points); EndPoints is strictly increasing;
// the last end point is len(Points)-1. A glyph without contours (e.g., space)
// has no points at all.
type GlyphOutline struct {
	Glyph     GlyphIndex
	Points    []Point
	OnCurve   []bool
	EndPoints []int                // index of the last point of each contour
	Advance   uint16               // advance width from 'hmtx'
	LSB       int16                // left side bearing from 'hmtx'
	BBox      opentype.BoundingBox // bounding box from the glyph header
	Composite bool                 // assembled from other glyphs?
}

// ContourCount returns the number of contours of the outline.
func (o *GlyphOutline) ContourCount() int {
	return len(o.EndPoints)
}

// Contour returns the index range [from, to] of contour number i.
func (o *GlyphOutline) Contour(i int) (from, to int) {
	if i > 0 {
		from = o.EndPoints[i-1] + 1
	}
	return from, o.EndPoints[i]
}

// IsEmpty is true for outlines without any contour.
func (o *GlyphOutline) IsEmpty() bool {
	return len(o.EndPoints) == 0
}

// Flag bits of simple glyphs.
const (
	flagOnCurve      = 0x01
	flagXShort       = 0x02
	flagYShort       = 0x04
	flagRepeat       = 0x08
	flagXSameOrPlus  = 0x10
	flagYSameOrPlus  = 0x20
	flagOverlapSmple = 0x40
)

// Flag bits of composite glyph component records.
const (
	argsAreWords      = 0x0001 // if set, the args are 16-bit, otherwise 8-bit
	argsAreXYValues   = 0x0002 // if unset, args are point numbers to match
	roundXYToGrid     = 0x0004
	weHaveAScale      = 0x0008
	moreComponents    = 0x0020
	weHaveXAndYScale  = 0x0040
	weHaveATwoByTwo   = 0x0080
	weHaveInstrctions = 0x0100
	useMyMetrics      = 0x0200
	scaledOffset      = 0x0800
	unscaledOffset    = 0x1000
)

// decodePath holds the glyph indices of the composite glyphs currently being
// decoded, i.e. the path from the root glyph down to the current one.
type decodePath map[GlyphIndex]bool

// DecodeGlyph decodes the outline of glyph gid. Composite glyphs are
// resolved recursively and flattened into a single outline.
//
// Errors carry code core.EFORMAT for malformed glyph data (including composite
// glyphs using point matching), core.EBOUNDS for reads beyond the glyph data,
// and core.EDEPTH for cyclic or too deeply nested composite glyphs.
func DecodeGlyph(otf *Font, gid GlyphIndex) (*GlyphOutline, error) {
	return decodeGlyph(otf, gid, make(decodePath), 0)
}

func decodeGlyph(otf *Font, gid GlyphIndex, path decodePath, depth int) (*GlyphOutline, error) {
	if int(gid) >= otf.NumGlyphs() {
		return nil, errFontFormat("glyph index %d exceeds glyph count %d", gid, otf.NumGlyphs())
	}
	outline := &GlyphOutline{Glyph: gid}
	outline.Advance, outline.LSB = otf.HMtx.HMetrics(gid)
	start, end := otf.Loca.GlyphRange(gid)
	if start == end { // no outline, e.g. space
		return outline, nil
	}
	data, err := binarySegm(otf.Glyf.Binary()).view(int(start), int(end-start))
	if err != nil {
		return nil, err
	}
	r := newReader(data)
	ncontours := r.i16()
	outline.BBox = opentype.BoundingBox{
		MinX: sfnt.Units(r.i16()),
		MinY: sfnt.Units(r.i16()),
		MaxX: sfnt.Units(r.i16()),
		MaxY: sfnt.Units(r.i16()),
	}
	if r.err != nil {
		return nil, core.WrapError(r.err, core.EBOUNDS, "glyph %d header", gid)
	}
	if ncontours >= 0 {
		err = decodeSimpleGlyph(r, int(ncontours), outline)
	} else {
		err = decodeCompositeGlyph(otf, r, outline, path, depth)
	}
	if err != nil {
		return nil, err
	}
	return outline, nil
}

// --- Simple glyphs ---------------------------------------------------------

func decodeSimpleGlyph(r *reader, ncontours int, outline *GlyphOutline) error {
	gid := outline.Glyph
	if ncontours == 0 {
		return nil
	}
	outline.EndPoints = make([]int, ncontours)
	for i := range outline.EndPoints {
		outline.EndPoints[i] = int(r.u16())
		if i > 0 && outline.EndPoints[i] <= outline.EndPoints[i-1] {
			return errFontFormat("glyph %d: contour end points not strictly increasing", gid)
		}
	}
	r.skip(int(r.u16())) // skip the TrueType hinting instructions
	if r.err != nil {
		return core.WrapError(r.err, core.EBOUNDS, "glyph %d contour data", gid)
	}
	npoints := outline.EndPoints[ncontours-1] + 1
	flags := make([]uint8, npoints)
	for i := 0; i < npoints; {
		f := r.u8()
		flags[i] = f
		i++
		if f&flagRepeat != 0 {
			count := int(r.u8())
			if i+count > npoints {
				return errFontFormat("glyph %d: flag repeat count overflows point count", gid)
			}
			for ; count > 0; count-- {
				flags[i] = f
				i++
			}
		}
		if r.err != nil {
			return core.WrapError(r.err, core.EBOUNDS, "glyph %d flags", gid)
		}
	}
	outline.Points = make([]Point, npoints)
	outline.OnCurve = make([]bool, npoints)
	var x int16
	for i, f := range flags {
		x += coordDelta(r, f, flagXShort, flagXSameOrPlus)
		outline.Points[i].X = float64(x)
		outline.OnCurve[i] = f&flagOnCurve != 0
	}
	var y int16
	for i, f := range flags {
		y += coordDelta(r, f, flagYShort, flagYSameOrPlus)
		outline.Points[i].Y = float64(y)
	}
	if r.err != nil {
		return core.WrapError(r.err, core.EBOUNDS, "glyph %d coordinates", gid)
	}
	return nil
}

// coordDelta decodes one coordinate delta. If the short bit is set, the delta
// is a byte and the same-or-positive bit gives its sign; otherwise a set
// same-or-positive bit means "unchanged" and a clear one a signed word.
func coordDelta(r *reader, f uint8, short, sameOrPlus uint8) int16 {
	if f&short != 0 {
		d := int16(r.u8())
		if f&sameOrPlus == 0 {
			return -d
		}
		return d
	}
	if f&sameOrPlus != 0 {
		return 0
	}
	return r.i16()
}

// --- Composite glyphs ------------------------------------------------------

// affine is a 2×2 matrix plus translation:
//
//	x' = a·x + c·y + dx
//	y' = b·x + d·y + dy
type affine struct {
	a, b, c, d float64
	dx, dy     float64
}

func (m affine) apply(p Point) Point {
	return Point{
		X: m.a*p.X + m.c*p.Y + m.dx,
		Y: m.b*p.X + m.d*p.Y + m.dy,
	}
}

func decodeCompositeGlyph(otf *Font, r *reader, outline *GlyphOutline, path decodePath, depth int) error {
	gid := outline.Glyph
	if depth >= MaxCompositeDepth {
		return core.Error(core.EDEPTH, "composite glyph %d nested deeper than %d levels",
			gid, MaxCompositeDepth)
	}
	if path[gid] {
		return core.Error(core.EDEPTH, "composite glyph %d references itself", gid)
	}
	path[gid] = true
	defer delete(path, gid)
	outline.Composite = true
	for {
		flags := r.u16()
		component := GlyphIndex(r.u16())
		var arg1, arg2 int
		if flags&argsAreWords != 0 {
			arg1, arg2 = int(r.i16()), int(r.i16())
		} else {
			arg1, arg2 = int(r.i8()), int(r.i8())
		}
		m := affine{a: 1, d: 1}
		switch {
		case flags&weHaveAScale != 0:
			m.a = r.f2dot14()
			m.d = m.a
		case flags&weHaveXAndYScale != 0:
			m.a = r.f2dot14()
			m.d = r.f2dot14()
		case flags&weHaveATwoByTwo != 0:
			m.a = r.f2dot14()
			m.b = r.f2dot14()
			m.c = r.f2dot14()
			m.d = r.f2dot14()
		}
		if r.err != nil {
			return core.WrapError(r.err, core.EBOUNDS, "glyph %d component record", gid)
		}
		if flags&argsAreXYValues == 0 {
			return errFontFormat("glyph %d: point matching composites not supported", gid)
		}
		m.dx, m.dy = float64(arg1), float64(arg2)
		if flags&scaledOffset != 0 && flags&unscaledOffset == 0 {
			off := affine{a: m.a, b: m.b, c: m.c, d: m.d}.apply(Point{m.dx, m.dy})
			m.dx, m.dy = off.X, off.Y
		}
		tracer().Debugf("glyph %d: component %d, flags 0x%04x", gid, component, flags)
		sub, err := decodeGlyph(otf, component, path, depth+1)
		if err != nil {
			return err
		}
		appendComponent(outline, sub, m)
		if flags&useMyMetrics != 0 {
			outline.Advance, outline.LSB = sub.Advance, sub.LSB
		}
		if flags&moreComponents == 0 {
			break
		}
	}
	// Instructions following the components are of no interest to us.
	return nil
}

// appendComponent transforms the points of sub and appends them to outline,
// renumbering the contour end points relative to the outline's points.
func appendComponent(outline, sub *GlyphOutline, m affine) {
	base := len(outline.Points)
	for i, p := range sub.Points {
		outline.Points = append(outline.Points, m.apply(p))
		outline.OnCurve = append(outline.OnCurve, sub.OnCurve[i])
	}
	for _, e := range sub.EndPoints {
		outline.EndPoints = append(outline.EndPoints, base+e)
	}
}
