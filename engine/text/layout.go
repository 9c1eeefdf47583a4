package text

import (
	"math"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/glyphs/core/dimen"
	"github.com/npillmayer/glyphs/core/font"
	"github.com/npillmayer/glyphs/core/font/opentype/ot"
	"github.com/npillmayer/glyphs/engine/glyphing"
	"golang.org/x/text/unicode/norm"
)

// state is the state of the layout state machine.
type state int8

const (
	scanning         state = iota // placing glyphs on the current line
	lineBreakPending              // a line break is due before the next placement
)

// item is a code-point resolved to a glyph.
type item struct {
	pos     int // byte position in the normalized text
	r       rune
	font    *font.Font
	gid     ot.GlyphIndex
	scale   dimen.Point // pixels per font unit
	advance float64     // in pixels, without kerning
}

func (it item) isSpace() bool {
	return unicode.IsSpace(it.r)
}

// layouter holds the state of a single layout run.
type layouter struct {
	primary    *font.Font
	opts       Options
	items      []item
	state      state
	cursor     dimen.Point
	line       int
	lineHeight float64
	tabStop    float64
	prev       *item // last glyph placed on the current line, for kerning
	seq        glyphing.GlyphSequence
}

// LayoutText lays out s using font f, according to opts.
// If f is nil, the system-wide fallback font is used.
//
// The glyphs of the resulting sequence are ordered by their position in
// the NFC-normalized s, and ClusterID denotes the byte position within the
// normalized text.
func LayoutText(f *font.Font, s string, opts Options) (glyphing.GlyphSequence, error) {
	if err := opts.Validate(); err != nil {
		return glyphing.GlyphSequence{}, err
	}
	if f == nil {
		tracer().Infof("no font given for layout, using fallback font")
		f = font.FallbackFont()
	}
	l := newLayouter(f, opts)
	l.resolve(norm.NFC.String(s))
	if err := l.run(); err != nil {
		return glyphing.GlyphSequence{}, err
	}
	tracer().Debugf("layout of %d code-points: %d glyphs, %d lines, bounds %s",
		len(l.items), len(l.seq.Glyphs), l.seq.Lines, l.seq.Bounds)
	return l.seq, nil
}

// Measure returns the ink bounds of s laid out with font f.
func Measure(f *font.Font, s string, opts Options) (dimen.Rect, error) {
	seq, err := LayoutText(f, s, opts)
	if err != nil {
		return dimen.EmptyRect(), err
	}
	return seq.Bounds, nil
}

// RenderText lays out s and replays the resulting glyph outlines on
// renderer r.
func RenderText(f *font.Font, s string, opts Options, r glyphing.Renderer) error {
	seq, err := LayoutText(f, s, opts)
	if err != nil {
		return err
	}
	return seq.Render(r, opts.PointSize, opts.DPI)
}

func newLayouter(f *font.Font, opts Options) *layouter {
	l := &layouter{
		primary: f,
		opts:    opts,
		cursor:  opts.Origin,
	}
	sx, sy := l.scale(f)
	l.lineHeight = float64(f.Metrics().LineHeight()) * sy * opts.LineSpacing
	if opts.TabWidth > 0 {
		space, _ := f.GlyphIndex(' ')
		l.tabStop = float64(opts.TabWidth) * float64(f.Advance(space)) * sx
	}
	l.seq.Bounds = dimen.EmptyRect()
	return l
}

func (l *layouter) scale(f *font.Font) (sx, sy float64) {
	sx = dimen.PixelsPerUnit(l.opts.PointSize, l.opts.DPI.X, f.UnitsPerEm())
	sy = dimen.PixelsPerUnit(l.opts.PointSize, l.opts.DPI.Y, f.UnitsPerEm())
	return
}

// resolve maps every code-point of s to a glyph: from the primary font if
// possible, else from the first fallback font covering it, else the primary
// font's glyph 0.
func (l *layouter) resolve(s string) {
	l.items = make([]item, 0, utf8.RuneCountInString(s))
	for pos, r := range s {
		if r == '\t' && l.tabStop <= 0 {
			continue // zero-width tabs are dropped before layout
		}
		it := item{pos: pos, r: r, font: l.primary}
		if gid, ok := l.primary.GlyphIndex(r); ok {
			it.gid = gid
		} else {
			for _, fb := range l.opts.Fallbacks {
				if gid, ok := fb.GlyphIndex(r); ok {
					it.font, it.gid = fb, gid
					break
				}
			}
			if it.gid == 0 && r != '\t' && r != '\n' && r != '\r' {
				tracer().Debugf("no glyph for %#U, using missing glyph", r)
			}
		}
		sx, sy := l.scale(it.font)
		it.scale = dimen.Point{X: sx, Y: sy}
		it.advance = float64(it.font.Advance(it.gid)) * sx
		l.items = append(l.items, it)
	}
}

func (l *layouter) run() error {
	for i := range l.items {
		it := &l.items[i]
		switch {
		case it.r == '\r' && i+1 < len(l.items) && l.items[i+1].r == '\n':
			continue
		case it.r == '\n' || it.r == '\r':
			l.flush()
			l.state = lineBreakPending
		case it.r == '\t':
			l.flush()
			l.tab()
		default:
			if l.state == scanning && l.wordStart(i) && l.overflows(i) {
				l.state = lineBreakPending
			}
			l.flush()
			if err := l.place(it); err != nil {
				return err
			}
		}
	}
	l.flush()
	l.seq.Lines = l.line + 1
	return nil
}

// flush executes a pending line break.
func (l *layouter) flush() {
	if l.state == lineBreakPending {
		l.breakLine()
	}
}

// breakLine moves the cursor to the start of the next line.
func (l *layouter) breakLine() {
	l.cursor.X = l.opts.Origin.X
	l.cursor.Y += l.lineHeight
	l.line++
	l.prev = nil
	l.state = scanning
}

// tab advances the cursor to the next tab stop. Tabs never produce glyphs.
func (l *layouter) tab() {
	if l.tabStop <= 0 {
		return
	}
	l.prev = nil
	x := l.cursor.X - l.opts.Origin.X
	l.cursor.X = l.opts.Origin.X + (math.Floor(x/l.tabStop+1e-9)+1)*l.tabStop
}

func (l *layouter) kerning(left *item, right *item) float64 {
	if !l.opts.Kerning || left == nil || left.font != right.font || !right.font.HasKerning() {
		return 0
	}
	return float64(right.font.Kerning(left.gid, right.gid)) * right.scale.X
}

// wordStart is true if item i starts a word.
func (l *layouter) wordStart(i int) bool {
	return !l.items[i].isSpace() && (i == 0 || l.items[i-1].isSpace())
}

// overflows checks if the word starting at item i fits onto the current line.
// A word which would not fit onto an empty line is not moved.
func (l *layouter) overflows(i int) bool {
	if l.opts.WrappingWidth <= 0 || l.cursor.X <= l.opts.Origin.X {
		return false
	}
	w := l.kerning(l.prev, &l.items[i])
	for j := i; j < len(l.items) && !l.items[j].isSpace(); j++ {
		if j > i {
			w += l.kerning(&l.items[j-1], &l.items[j])
		}
		w += l.items[j].advance
	}
	if l.cursor.X-l.opts.Origin.X+w > l.opts.WrappingWidth {
		tracer().Debugf("word at position %d does not fit into line %d", l.items[i].pos, l.line)
		return true
	}
	return false
}

// place appends a glyph at the cursor position and advances the cursor.
func (l *layouter) place(it *item) error {
	l.cursor.X += l.kerning(l.prev, it)
	inst, err := glyphing.NewInstance(it.font, it.gid)
	if err != nil {
		return err
	}
	ropts := glyphing.RenderOptions{
		PointSize: l.opts.PointSize,
		DPI:       l.opts.DPI,
		Location:  l.cursor,
	}
	l.seq.Bounds = l.seq.Bounds.Extend(inst.Bounds(ropts))
	g := glyphing.ShapedGlyph{
		ClusterID: it.pos,
		CodePoint: it.r,
		GID:       it.gid,
		Font:      it.font,
		Origin:    l.cursor,
		Scale:     it.scale,
		XAdvance:  it.advance,
		Line:      l.line,
	}
	if len(l.seq.Glyphs) > 0 {
		last := &l.seq.Glyphs[len(l.seq.Glyphs)-1]
		if last.Line == l.line && l.prev != nil {
			last.XAdvance = l.cursor.X - last.Origin.X
		}
	}
	l.seq.Glyphs = append(l.seq.Glyphs, g)
	l.cursor.X += it.advance
	l.prev = it
	return nil
}
