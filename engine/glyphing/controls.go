package glyphing

import (
	"github.com/npillmayer/glyphs/core"
	"github.com/npillmayer/glyphs/core/dimen"
)

// controls holds the off-curve control points seen since the last on-curve
// point. It is one of noControls, oneControl or twoControls.
type controls interface {
	// add appends a control point. A third point is an error.
	add(c dimen.Point) (controls, error)
	// segment returns the path segment from the current point to p.
	segment(p dimen.Point) Segment
}

type noControls struct{}

type oneControl struct {
	c dimen.Point
}

type twoControls struct {
	c1, c2 dimen.Point
}

func (noControls) add(c dimen.Point) (controls, error) {
	return oneControl{c}, nil
}

func (noControls) segment(p dimen.Point) Segment {
	return Segment{Op: OutlineOpLineTo, Points: [3]dimen.Point{p}}
}

func (one oneControl) add(c dimen.Point) (controls, error) {
	return twoControls{one.c, c}, nil
}

func (one oneControl) segment(p dimen.Point) Segment {
	return Segment{Op: OutlineOpQuadTo, Points: [3]dimen.Point{one.c, p}}
}

func (two twoControls) add(c dimen.Point) (controls, error) {
	return two, core.Error(core.EUNSUPPORTED,
		"more than two off-curve points in a row at %s", c)
}

func (two twoControls) segment(p dimen.Point) Segment {
	return Segment{Op: OutlineOpCubicTo, Points: [3]dimen.Point{two.c1, two.c2, p}}
}
