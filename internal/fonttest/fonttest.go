/*
Package fonttest writes small TrueType font binaries for tests.

Fonts are described by a Builder: a list of glyphs (simple contours or
composite component records), a character map and optional kerning pairs
and names. Build serializes the description into the SFNT container format
with tables 'head', 'hhea', 'maxp', 'hmtx', 'cmap' (format 4), 'loca' (long
offsets), 'glyf', and optionally 'kern' and 'name'.

Builders may deliberately produce broken fonts, e.g. by omitting tables or
by replacing a glyph's data with raw bytes.
*/
package fonttest

import (
	"encoding/binary"
	"sort"
)

// Pt is a point of a simple glyph contour, in font units.
type Pt struct {
	X, Y int16
	On   bool
}

// On returns an on-curve point.
func On(x, y int16) Pt { return Pt{X: x, Y: y, On: true} }

// Off returns an off-curve point.
func Off(x, y int16) Pt { return Pt{X: x, Y: y} }

// Box returns a rectangular contour of on-curve points.
func Box(x0, y0, x1, y1 int16) []Pt {
	return []Pt{On(x0, y0), On(x0, y1), On(x1, y1), On(x1, y0)}
}

// Component is a component record of a composite glyph.
type Component struct {
	Glyph        uint16
	DX, DY       int16
	Scale        float64    // uniform scale; 0 means no scale record
	Matrix       [4]float64 // 2×2 transform (a, b, c, d); used if Scale is 0 and Matrix is not zero
	UseMyMetrics bool
	PointMatch   bool // write point numbers instead of offsets
}

// Glyph describes a glyph. A glyph is composite if Components is not empty.
// Raw, if set, replaces the serialized outline data.
type Glyph struct {
	Advance    uint16
	LSB        int16
	Contours   [][]Pt
	Components []Component
	Raw        []byte
}

// KernPair is an entry of a format 0 'kern' sub-table.
type KernPair struct {
	Left, Right uint16
	Value       int16
}

// Builder describes a font to be written by Build.
type Builder struct {
	UnitsPerEm                   uint16
	Ascender, Descender, LineGap int16
	Glyphs                       []Glyph
	CMap                         map[rune]uint16
	Kern                         []KernPair
	Family                       string
	Omit                         []string          // tables to leave out
	Extra                        map[string][]byte // additional raw tables
	Signature                    uint32            // 0 means 0x00010000
}

// Build serializes the font description.
func (b *Builder) Build() []byte {
	tables := map[string][]byte{}
	glyf, loca := b.glyfAndLoca()
	tables["head"] = b.head()
	tables["hhea"] = b.hhea()
	tables["maxp"] = b.maxp()
	tables["hmtx"] = b.hmtx()
	tables["cmap"] = CMapFormat4(b.CMap)
	tables["loca"] = loca
	tables["glyf"] = glyf
	if len(b.Kern) > 0 {
		tables["kern"] = b.kern()
	}
	if b.Family != "" {
		tables["name"] = b.name()
	}
	for tag, data := range b.Extra {
		tables[tag] = data
	}
	for _, tag := range b.Omit {
		delete(tables, tag)
	}
	sig := b.Signature
	if sig == 0 {
		sig = 0x00010000
	}
	return Assemble(sig, tables)
}

// Assemble writes an SFNT container holding the given tables, sorted by tag.
func Assemble(signature uint32, tables map[string][]byte) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	var w writer
	w.u32(signature)
	w.u16(uint16(len(tags)))
	w.u16(0) // searchRange etc. are not evaluated
	w.u16(0)
	w.u16(0)
	offset := 12 + 16*len(tags)
	for _, tag := range tags {
		w.tag(tag)
		w.u32(0) // checksum
		w.u32(uint32(offset))
		w.u32(uint32(len(tables[tag])))
		offset += pad4(len(tables[tag]))
	}
	for _, tag := range tags {
		w.bytes(tables[tag])
		for len(w.buf)%4 != 0 {
			w.u8(0)
		}
	}
	return w.buf
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

// --- Tables ----------------------------------------------------------------

func (b *Builder) head() []byte {
	var w writer
	w.u32(0x00010000) // version
	w.u32(0x00010000) // fontRevision
	w.u32(0)          // checksumAdjustment
	w.u32(0x5F0F3CF5) // magicNumber
	w.u16(0)          // flags
	w.u16(b.UnitsPerEm)
	w.zeros(16) // created, modified
	xmin, ymin, xmax, ymax := b.fontBBox()
	w.i16(xmin)
	w.i16(ymin)
	w.i16(xmax)
	w.i16(ymax)
	w.u16(0) // macStyle
	w.u16(8) // lowestRecPPEM
	w.i16(2) // fontDirectionHint
	w.i16(1) // indexToLocFormat: long
	w.i16(0) // glyphDataFormat
	return w.buf
}

func (b *Builder) fontBBox() (xmin, ymin, xmax, ymax int16) {
	first := true
	for _, g := range b.Glyphs {
		for _, c := range g.Contours {
			for _, p := range c {
				if first {
					xmin, ymin, xmax, ymax = p.X, p.Y, p.X, p.Y
					first = false
				}
				xmin, xmax = min16(xmin, p.X), max16(xmax, p.X)
				ymin, ymax = min16(ymin, p.Y), max16(ymax, p.Y)
			}
		}
	}
	return
}

func (b *Builder) hhea() []byte {
	var w writer
	w.u32(0x00010000)
	w.i16(b.Ascender)
	w.i16(b.Descender)
	w.i16(b.LineGap)
	var maxAdv uint16
	for _, g := range b.Glyphs {
		if g.Advance > maxAdv {
			maxAdv = g.Advance
		}
	}
	w.u16(maxAdv)
	w.zeros(22) // minLSB … metricDataFormat
	w.u16(uint16(len(b.Glyphs)))
	return w.buf
}

func (b *Builder) maxp() []byte {
	var w writer
	w.u32(0x00010000)
	w.u16(uint16(len(b.Glyphs)))
	w.zeros(26)
	return w.buf
}

func (b *Builder) hmtx() []byte {
	var w writer
	for _, g := range b.Glyphs {
		w.u16(g.Advance)
		w.i16(g.LSB)
	}
	return w.buf
}

func (b *Builder) glyfAndLoca() (glyf, loca []byte) {
	var g, l writer
	for _, glyph := range b.Glyphs {
		l.u32(uint32(len(g.buf)))
		switch {
		case glyph.Raw != nil:
			g.bytes(glyph.Raw)
		case len(glyph.Components) > 0:
			g.bytes(compositeGlyph(glyph.Components))
		case len(glyph.Contours) > 0:
			g.bytes(SimpleGlyph(glyph.Contours))
		}
		for len(g.buf)%2 != 0 {
			g.u8(0)
		}
	}
	l.u32(uint32(len(g.buf)))
	return g.buf, l.buf
}

// SimpleGlyph serializes contours as a simple glyph. Coordinates are
// written with short vectors where possible, and repeated flags are packed.
func SimpleGlyph(contours [][]Pt) []byte {
	var w writer
	var pts []Pt
	for _, c := range contours {
		pts = append(pts, c...)
	}
	w.i16(int16(len(contours)))
	xmin, ymin, xmax, ymax := pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
	for _, p := range pts {
		xmin, xmax = min16(xmin, p.X), max16(xmax, p.X)
		ymin, ymax = min16(ymin, p.Y), max16(ymax, p.Y)
	}
	w.i16(xmin)
	w.i16(ymin)
	w.i16(xmax)
	w.i16(ymax)
	end := -1
	for _, c := range contours {
		end += len(c)
		w.u16(uint16(end))
	}
	w.u16(0) // no instructions
	flags := make([]byte, len(pts))
	var xs, ys writer
	var px, py int16
	for i, p := range pts {
		var f byte
		if p.On {
			f |= 0x01
		}
		f |= coord(&xs, p.X-px, 0x02, 0x10)
		f |= coord(&ys, p.Y-py, 0x04, 0x20)
		flags[i] = f
		px, py = p.X, p.Y
	}
	for i := 0; i < len(flags); {
		n := 1
		for i+n < len(flags) && flags[i+n] == flags[i] && n < 256 {
			n++
		}
		if n > 1 {
			w.u8(flags[i] | 0x08)
			w.u8(byte(n - 1))
		} else {
			w.u8(flags[i])
		}
		i += n
	}
	w.bytes(xs.buf)
	w.bytes(ys.buf)
	return w.buf
}

func coord(w *writer, d int16, short, same byte) byte {
	switch {
	case d == 0:
		return same
	case d > 0 && d < 256:
		w.u8(byte(d))
		return short | same
	case d < 0 && d > -256:
		w.u8(byte(-d))
		return short
	}
	w.i16(d)
	return 0
}

func compositeGlyph(components []Component) []byte {
	var w writer
	w.i16(-1)
	w.zeros(8) // bbox is not evaluated for composites
	for i, c := range components {
		flags := uint16(0x0001) // args are words
		if !c.PointMatch {
			flags |= 0x0002
		}
		if i < len(components)-1 {
			flags |= 0x0020
		}
		if c.UseMyMetrics {
			flags |= 0x0200
		}
		hasMatrix := c.Matrix != [4]float64{}
		if c.Scale != 0 {
			flags |= 0x0008
		} else if hasMatrix {
			flags |= 0x0080
		}
		w.u16(flags)
		w.u16(c.Glyph)
		w.i16(c.DX)
		w.i16(c.DY)
		if c.Scale != 0 {
			w.i16(F2Dot14(c.Scale))
		} else if hasMatrix {
			for _, v := range c.Matrix {
				w.i16(F2Dot14(v))
			}
		}
	}
	return w.buf
}

// F2Dot14 converts v to 2.14 fixed point.
func F2Dot14(v float64) int16 {
	return int16(v * 16384)
}

// CMapFormat4 writes a 'cmap' table with a single (3,1) format 4 sub-table.
// Runs of consecutive codes with consecutive glyphs are written with an idDelta,
// all other runs of consecutive codes through the glyph ID array.
func CMapFormat4(m map[rune]uint16) []byte {
	var w writer
	w.u16(0) // version
	w.u16(1)
	w.u16(3)
	w.u16(1)
	w.u32(12)
	w.bytes(format4(m))
	return w.buf
}

type segment struct {
	start, end uint16
	gids       []uint16
}

func (s segment) isDelta() bool {
	for i := 1; i < len(s.gids); i++ {
		if s.gids[i] != s.gids[0]+uint16(i) {
			return false
		}
	}
	return true
}

func format4(m map[rune]uint16) []byte {
	codes := make([]int, 0, len(m))
	for r := range m {
		if r >= 0 && r < 0xffff {
			codes = append(codes, int(r))
		}
	}
	sort.Ints(codes)
	var segs []segment
	for _, c := range codes {
		g := m[rune(c)]
		if n := len(segs); n > 0 && int(segs[n-1].end)+1 == c {
			segs[n-1].end = uint16(c)
			segs[n-1].gids = append(segs[n-1].gids, g)
			continue
		}
		segs = append(segs, segment{start: uint16(c), end: uint16(c), gids: []uint16{g}})
	}
	segs = append(segs, segment{start: 0xffff, end: 0xffff, gids: []uint16{0}})
	segCount := len(segs)
	var ends, starts, deltas, offsets, glyphIds writer
	for i, s := range segs {
		ends.u16(s.end)
		starts.u16(s.start)
		if s.start == 0xffff {
			deltas.u16(1)
			offsets.u16(0)
		} else if s.isDelta() {
			deltas.u16(s.gids[0] - s.start)
			offsets.u16(0)
		} else {
			deltas.u16(0)
			offsets.u16(uint16(2*(segCount-i) + len(glyphIds.buf)))
			for _, g := range s.gids {
				glyphIds.u16(g)
			}
		}
	}
	var w writer
	length := 16 + 8*segCount + len(glyphIds.buf)
	w.u16(4)
	w.u16(uint16(length))
	w.u16(0) // language
	w.u16(uint16(2 * segCount))
	w.zeros(6) // searchRange, entrySelector, rangeShift are not evaluated
	w.bytes(ends.buf)
	w.u16(0) // reservedPad
	w.bytes(starts.buf)
	w.bytes(deltas.buf)
	w.bytes(offsets.buf)
	w.bytes(glyphIds.buf)
	return w.buf
}

func (b *Builder) kern() []byte {
	pairs := append([]KernPair(nil), b.Kern...)
	sort.Slice(pairs, func(i, j int) bool {
		ki := uint32(pairs[i].Left)<<16 | uint32(pairs[i].Right)
		kj := uint32(pairs[j].Left)<<16 | uint32(pairs[j].Right)
		return ki < kj
	})
	var w writer
	w.u16(0) // version
	w.u16(1) // nTables
	w.u16(0) // sub-table version
	w.u16(uint16(14 + 6*len(pairs)))
	w.u16(0x0001) // format 0, horizontal
	w.u16(uint16(len(pairs)))
	w.zeros(6) // searchRange, entrySelector, rangeShift
	for _, p := range pairs {
		w.u16(p.Left)
		w.u16(p.Right)
		w.i16(p.Value)
	}
	return w.buf
}

func (b *Builder) name() []byte {
	var str writer
	for _, r := range b.Family {
		str.u16(uint16(r))
	}
	var w writer
	w.u16(0)  // format
	w.u16(2)  // count
	w.u16(30) // string offset: 6 + 2*12
	for _, id := range []uint16{1, 4} {
		w.u16(3) // Windows
		w.u16(1) // Unicode BMP
		w.u16(0x0409)
		w.u16(id)
		w.u16(uint16(len(str.buf)))
		w.u16(0)
	}
	w.bytes(str.buf)
	return w.buf
}

// --- Writing ---------------------------------------------------------------

type writer struct {
	buf []byte
}

func (w *writer) u8(v byte) { w.buf = append(w.buf, v) }
func (w *writer) u16(v uint16) { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }
func (w *writer) i16(v int16) { w.u16(uint16(v)) }
func (w *writer) u32(v uint32) { w.buf = binary.BigEndian.AppendUint32(w.buf, v) }
func (w *writer) bytes(b []byte) { w.buf = append(w.buf, b...) }
func (w *writer) zeros(n int) { w.buf = append(w.buf, make([]byte, n)...) }
func (w *writer) tag(t string) { w.buf = append(w.buf, (t + "    ")[:4]...) }

func min16(a, b int16) int16 {
	if a < b {
		return a
	}
	return b
}

func max16(a, b int16) int16 {
	if a > b {
		return a
	}
	return b
}
