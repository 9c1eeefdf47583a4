// Package dimen implements dimensions, units and device-space geometry.
//
/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Device space is measured in pixels, with the y-axis pointing downwards.
// Sizes of type are given in printer's points, 72 per inch.
const PointsPerInch = 72.0

// Some pre-defined dimensions, in points.
const (
	PT float64 = 1
	IN float64 = 72
	MM float64 = 72 / 25.4
	CM float64 = 72 / 2.54
)

// Point is a point in device space.
type Point struct {
	X, Y float64
}

// Origin is origin
var Origin = Point{0, 0}

// Stringer implementation.
func (p Point) String() string {
	return fmt.Sprintf("(%.4g,%.4g)", p.X, p.Y)
}

// Shift a point along a vector.
func (p Point) Shift(vector Point) Point {
	return Point{p.X + vector.X, p.Y + vector.Y}
}

// Mid returns the arithmetic midpoint between p and q.
func (p Point) Mid(q Point) Point {
	return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2}
}

// Rect is a rectangle in device space. TopL holds the minimum coordinates,
// BotR the maximum coordinates.
type Rect struct {
	TopL, BotR Point
}

// EmptyRect returns a rectangle which is neutral for Extend.
func EmptyRect() Rect {
	return Rect{
		TopL: Point{math.Inf(1), math.Inf(1)},
		BotR: Point{math.Inf(-1), math.Inf(-1)},
	}
}

// Empty is a predicate: has this rectangle never been extended?
func (r Rect) Empty() bool {
	return r.BotR.X < r.TopL.X || r.BotR.Y < r.TopL.Y
}

// Extend grows r to enclose other. Empty rectangles are ignored.
func (r Rect) Extend(other Rect) Rect {
	if other.Empty() {
		return r
	}
	r.TopL.X = math.Min(r.TopL.X, other.TopL.X)
	r.TopL.Y = math.Min(r.TopL.Y, other.TopL.Y)
	r.BotR.X = math.Max(r.BotR.X, other.BotR.X)
	r.BotR.Y = math.Max(r.BotR.Y, other.BotR.Y)
	return r
}

// Include grows r to enclose point p.
func (r Rect) Include(p Point) Rect {
	return r.Extend(Rect{p, p})
}

// Width returns the width of a rectangle, i.e. the difference between x-coordinates
// of bottom-right and top-left corner. Empty rectangles have width 0.
func (r Rect) Width() float64 {
	if r.Empty() {
		return 0
	}
	return r.BotR.X - r.TopL.X
}

// Height returns the height of a rectangle, i.e. the difference between y-coordinates
// of bottom-right and top-left corner. Empty rectangles have height 0.
func (r Rect) Height() float64 {
	if r.Empty() {
		return 0
	}
	return r.BotR.Y - r.TopL.Y
}

// Size returns width and height as a vector.
func (r Rect) Size() Point {
	return Point{r.Width(), r.Height()}
}

func (r Rect) String() string {
	if r.Empty() {
		return "[empty]"
	}
	return fmt.Sprintf("[%s–%s]", r.TopL, r.BotR)
}

// PixelsPerUnit returns the scale factor from font design units to device pixels
// for a font with the given units per em, set at size pt on a device with the
// given resolution.
func PixelsPerUnit(pt, dpi float64, unitsPerEm uint16) float64 {
	if unitsPerEm == 0 {
		return 0
	}
	return pt * dpi / (float64(unitsPerEm) * PointsPerInch)
}

// ---------------------------------------------------------------------------

var dimenPattern = regexp.MustCompile(`^([+\-]?[0-9]+(?:\.[0-9]+)?)(pt|PT|in|IN|mm|MM|cm|CM)?$`)

// ParseDimen parses a string to return a dimension in points. Accepted units
// are pt, in, mm and cm; a bare number is taken as points.
func ParseDimen(s string) (float64, error) {
	d := dimenPattern.FindStringSubmatch(s)
	if len(d) < 2 {
		return 0, errors.New("format error parsing dimension")
	}
	scale := PT
	switch d[2] {
	case "in", "IN":
		scale = IN
	case "mm", "MM":
		scale = MM
	case "cm", "CM":
		scale = CM
	}
	n, err := strconv.ParseFloat(d[1], 64)
	if err != nil {
		return 0, errors.New("format error parsing dimension")
	}
	return n * scale, nil
}
