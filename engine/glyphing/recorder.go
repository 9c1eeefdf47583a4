package glyphing

import (
	"fmt"
	"math"

	"github.com/npillmayer/glyphs/core/dimen"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// OutlineOp is the type of path operation.
type OutlineOp uint8

const (
	// OutlineOpMoveTo moves to a new point without drawing.
	OutlineOpMoveTo OutlineOp = iota

	// OutlineOpLineTo draws a line to the target point.
	OutlineOpLineTo

	// OutlineOpQuadTo draws a quadratic bezier curve.
	OutlineOpQuadTo

	// OutlineOpCubicTo draws a cubic bezier curve.
	OutlineOpCubicTo
)

// String returns a string representation of the operation.
func (op OutlineOp) String() string {
	switch op {
	case OutlineOpMoveTo:
		return "MoveTo"
	case OutlineOpLineTo:
		return "LineTo"
	case OutlineOpQuadTo:
		return "QuadTo"
	case OutlineOpCubicTo:
		return "CubicTo"
	default:
		return "Unknown"
	}
}

// Segment is a single path operation.
//
//   - MoveTo, LineTo: Points[0] is the target point
//   - QuadTo: Points[0] is the control point, Points[1] is the target
//   - CubicTo: Points[0], Points[1] are controls, Points[2] is the target
type Segment struct {
	Op     OutlineOp
	Points [3]dimen.Point
}

// End returns the target point of a segment.
func (s Segment) End() dimen.Point {
	switch s.Op {
	case OutlineOpQuadTo:
		return s.Points[1]
	case OutlineOpCubicTo:
		return s.Points[2]
	}
	return s.Points[0]
}

func (s Segment) String() string {
	switch s.Op {
	case OutlineOpQuadTo:
		return fmt.Sprintf("%s%s%s", s.Op, s.Points[0], s.Points[1])
	case OutlineOpCubicTo:
		return fmt.Sprintf("%s%s%s%s", s.Op, s.Points[0], s.Points[1], s.Points[2])
	}
	return fmt.Sprintf("%s%s", s.Op, s.Points[0])
}

// Figure is a closed sub-path, starting with a MoveTo segment.
type Figure []Segment

// RecordedGlyph is a glyph as received by a PathRecorder.
type RecordedGlyph struct {
	Bounds  dimen.Rect
	Key     CacheKey
	Figures []Figure
}

// PathRecorder is a Renderer which records everything it receives.
// Its zero value is ready to use. If Decline is set, PathRecorder returns
// false from BeginGlyph for glyphs whose key it has already recorded.
type PathRecorder struct {
	Decline bool
	Bounds  dimen.Rect      // bounds from BeginText
	Glyphs  []RecordedGlyph // glyphs in order of reception
	Calls   []string        // method names in order of invocation
	seen    map[CacheKey]bool
}

var _ Renderer = &PathRecorder{}

func (rec *PathRecorder) call(name string) {
	rec.Calls = append(rec.Calls, name)
}

func (rec *PathRecorder) current() *RecordedGlyph {
	return &rec.Glyphs[len(rec.Glyphs)-1]
}

func (rec *PathRecorder) figure() *Figure {
	g := rec.current()
	return &g.Figures[len(g.Figures)-1]
}

// BeginText is part of interface Renderer.
func (rec *PathRecorder) BeginText(bounds dimen.Rect) {
	rec.call("BeginText")
	rec.Bounds = bounds
}

// BeginGlyph is part of interface Renderer.
func (rec *PathRecorder) BeginGlyph(bounds dimen.Rect, key CacheKey) bool {
	rec.call("BeginGlyph")
	rec.Glyphs = append(rec.Glyphs, RecordedGlyph{Bounds: bounds, Key: key})
	if rec.seen == nil {
		rec.seen = make(map[CacheKey]bool)
	}
	known := rec.seen[key]
	rec.seen[key] = true
	return !(rec.Decline && known)
}

// BeginFigure is part of interface Renderer.
func (rec *PathRecorder) BeginFigure() {
	rec.call("BeginFigure")
	g := rec.current()
	g.Figures = append(g.Figures, Figure{})
}

// MoveTo is part of interface Renderer.
func (rec *PathRecorder) MoveTo(p dimen.Point) {
	rec.call("MoveTo")
	f := rec.figure()
	*f = append(*f, Segment{Op: OutlineOpMoveTo, Points: [3]dimen.Point{p}})
}

// LineTo is part of interface Renderer.
func (rec *PathRecorder) LineTo(p dimen.Point) {
	rec.call("LineTo")
	f := rec.figure()
	*f = append(*f, Segment{Op: OutlineOpLineTo, Points: [3]dimen.Point{p}})
}

// QuadraticBezierTo is part of interface Renderer.
func (rec *PathRecorder) QuadraticBezierTo(c, p dimen.Point) {
	rec.call("QuadraticBezierTo")
	f := rec.figure()
	*f = append(*f, Segment{Op: OutlineOpQuadTo, Points: [3]dimen.Point{c, p}})
}

// CubicBezierTo is part of interface Renderer.
func (rec *PathRecorder) CubicBezierTo(c1, c2, p dimen.Point) {
	rec.call("CubicBezierTo")
	f := rec.figure()
	*f = append(*f, Segment{Op: OutlineOpCubicTo, Points: [3]dimen.Point{c1, c2, p}})
}

// EndFigure is part of interface Renderer.
func (rec *PathRecorder) EndFigure() {
	rec.call("EndFigure")
}

// EndGlyph is part of interface Renderer.
func (rec *PathRecorder) EndGlyph() {
	rec.call("EndGlyph")
}

// EndText is part of interface Renderer.
func (rec *PathRecorder) EndText() {
	rec.call("EndText")
}

// Segments returns all recorded figures as x/image segments, with
// coordinates in 26.6 fixed point. The result may be fed into
// rasterizers of the golang.org/x/image family.
func (rec *PathRecorder) Segments() sfnt.Segments {
	var segs sfnt.Segments
	for _, g := range rec.Glyphs {
		for _, f := range g.Figures {
			for _, s := range f {
				seg := sfnt.Segment{Op: sfnt.SegmentOp(s.Op)}
				for i := range s.Points {
					seg.Args[i] = toFixed(s.Points[i])
				}
				segs = append(segs, seg)
			}
		}
	}
	return segs
}

func toFixed(p dimen.Point) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(math.Round(p.X * 64)),
		Y: fixed.Int26_6(math.Round(p.Y * 64)),
	}
}
