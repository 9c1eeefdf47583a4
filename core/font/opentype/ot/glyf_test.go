package ot

import (
	"testing"

	"github.com/npillmayer/glyphs/core"
	"github.com/npillmayer/glyphs/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// curve is a contour mixing on- and off-curve points, with large deltas
// to force word-sized coordinates.
var curve = []fonttest.Pt{
	fonttest.On(0, 0), fonttest.Off(0, 400), fonttest.Off(300, 700),
	fonttest.On(600, 700), fonttest.On(600, -300), fonttest.Off(300, -20),
}

// glyphFont builds a font with a curved glyph 1 plus the given glyphs,
// starting at index 2.
func glyphFont(t *testing.T, glyphs ...fonttest.Glyph) *Font {
	b := &fonttest.Builder{
		UnitsPerEm: 1000,
		Ascender:   800,
		Descender:  -200,
		Glyphs: append([]fonttest.Glyph{
			{Advance: 500},
			{Advance: 650, LSB: 0, Contours: [][]fonttest.Pt{curve, fonttest.Box(100, 100, 200, 200)}},
		}, glyphs...),
		CMap: map[rune]uint16{'a': 1},
	}
	otf, err := Parse(b.Build())
	require.NoError(t, err)
	return otf
}

func checkOutlineInvariants(t *testing.T, o *GlyphOutline) {
	require.Equal(t, len(o.Points), len(o.OnCurve))
	if len(o.EndPoints) == 0 {
		assert.Empty(t, o.Points)
		return
	}
	for i := 1; i < len(o.EndPoints); i++ {
		assert.Greater(t, o.EndPoints[i], o.EndPoints[i-1])
	}
	assert.Equal(t, len(o.Points)-1, o.EndPoints[len(o.EndPoints)-1])
}

func TestDecodeSimpleGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.fonts")
	defer teardown()
	//
	otf := glyphFont(t)
	o, err := DecodeGlyph(otf, 1)
	require.NoError(t, err)
	checkOutlineInvariants(t, o)
	require.Equal(t, 2, o.ContourCount())
	from, to := o.Contour(1)
	assert.Equal(t, len(curve), from)
	assert.Equal(t, len(curve)+3, to)
	for i, p := range curve {
		assert.Equal(t, Point{float64(p.X), float64(p.Y)}, o.Points[i], "point %d", i)
		assert.Equal(t, p.On, o.OnCurve[i], "on-curve flag of point %d", i)
	}
	assert.Equal(t, uint16(650), o.Advance)
	assert.Equal(t, sfnt.Units(-300), o.BBox.MinY)
	assert.Equal(t, sfnt.Units(700), o.BBox.MaxY)
	assert.False(t, o.Composite)
}

func TestDecodeRepeatedFlags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.fonts")
	defer teardown()
	//
	line := []fonttest.Pt{}
	for x := int16(0); x < 300; x += 10 {
		line = append(line, fonttest.On(x, 0))
	}
	otf := glyphFont(t, fonttest.Glyph{Advance: 300, Contours: [][]fonttest.Pt{line}})
	o, err := DecodeGlyph(otf, 2)
	require.NoError(t, err)
	require.Len(t, o.Points, len(line))
	assert.Equal(t, Point{290, 0}, o.Points[len(line)-1])
}

func TestDecodeEmptyGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.fonts")
	defer teardown()
	//
	otf, err := Parse(fonttest.Standard().Build())
	require.NoError(t, err)
	o, err := DecodeGlyph(otf, fonttest.Space)
	require.NoError(t, err)
	assert.True(t, o.IsEmpty())
	assert.Empty(t, o.Points)
	assert.Equal(t, uint16(fonttest.StdAdvance), o.Advance)
}

func TestDecodeGlyphIndexOutOfRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.fonts")
	defer teardown()
	//
	otf := glyphFont(t)
	_, err := DecodeGlyph(otf, 2)
	require.Error(t, err)
	assert.Equal(t, core.EFORMAT, core.Code(err))
}

func TestDecodeCompositeIdentity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.fonts")
	defer teardown()
	//
	otf := glyphFont(t, fonttest.Glyph{
		Advance:    650,
		Components: []fonttest.Component{{Glyph: 1}},
	})
	component, err := DecodeGlyph(otf, 1)
	require.NoError(t, err)
	composite, err := DecodeGlyph(otf, 2)
	require.NoError(t, err)
	assert.True(t, composite.Composite)
	assert.Equal(t, component.Points, composite.Points)
	assert.Equal(t, component.OnCurve, composite.OnCurve)
	assert.Equal(t, component.EndPoints, composite.EndPoints)
}

func TestDecodeCompositeTransforms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.fonts")
	defer teardown()
	//
	otf := glyphFont(t, fonttest.Glyph{
		Advance: 100,
		Components: []fonttest.Component{
			{Glyph: 1, DX: 10, DY: -20, Scale: 0.5},
			{Glyph: 1, Matrix: [4]float64{0, 1, -1, 0}, UseMyMetrics: true}, // rotate by 90°
		},
	})
	component, err := DecodeGlyph(otf, 1)
	require.NoError(t, err)
	o, err := DecodeGlyph(otf, 2)
	require.NoError(t, err)
	checkOutlineInvariants(t, o)
	n := len(component.Points)
	require.Len(t, o.Points, 2*n)
	require.Equal(t, 4, o.ContourCount())
	assert.Equal(t, []int{5, 9, 15, 19}, o.EndPoints)
	for i, p := range component.Points {
		assert.InDelta(t, 0.5*p.X+10, o.Points[i].X, 1e-9)
		assert.InDelta(t, 0.5*p.Y-20, o.Points[i].Y, 1e-9)
		assert.InDelta(t, -p.Y, o.Points[n+i].X, 1e-9)
		assert.InDelta(t, p.X, o.Points[n+i].Y, 1e-9)
	}
	assert.Equal(t, component.Advance, o.Advance, "expected metrics of component")
}

func TestDecodeCompositeRepeatedComponent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.fonts")
	defer teardown()
	//
	otf := glyphFont(t,
		fonttest.Glyph{Components: []fonttest.Component{{Glyph: 1}, {Glyph: 1, DX: 700}}},
		fonttest.Glyph{Components: []fonttest.Component{{Glyph: 2}, {Glyph: 2, DY: 1000}}},
	)
	o, err := DecodeGlyph(otf, 3)
	require.NoError(t, err, "re-using a component is not a cycle")
	checkOutlineInvariants(t, o)
	assert.Equal(t, 8, o.ContourCount())
}

func TestDecodeCompositeCycles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.fonts")
	defer teardown()
	//
	ref := func(g uint16) fonttest.Glyph {
		return fonttest.Glyph{Components: []fonttest.Component{{Glyph: g}}}
	}
	otf := glyphFont(t,
		ref(2),    // 2: references itself
		ref(4),    // 3 → 4 → 5 → 3
		ref(5),    // 4
		ref(3),    // 5
		fonttest.Glyph{Components: []fonttest.Component{{Glyph: 1}, {Glyph: 6}}}, // 6: second component cycles
	)
	for _, gid := range []GlyphIndex{2, 3, 4, 5, 6} {
		_, err := DecodeGlyph(otf, gid)
		if assert.Error(t, err, "glyph %d", gid) {
			assert.Equal(t, core.EDEPTH, core.Code(err), "glyph %d: %v", gid, err)
		}
	}
	// the plain glyph is still fine
	_, err := DecodeGlyph(otf, 1)
	assert.NoError(t, err)
}

func TestDecodeCompositeDepth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.fonts")
	defer teardown()
	//
	// glyph i references glyph i-1, down to the simple glyph 1
	var chain []fonttest.Glyph
	for i := 0; i < MaxCompositeDepth+2; i++ {
		chain = append(chain, fonttest.Glyph{Components: []fonttest.Component{{Glyph: uint16(i + 1)}}})
	}
	otf := glyphFont(t, chain...)
	_, err := DecodeGlyph(otf, GlyphIndex(1+MaxCompositeDepth))
	assert.NoError(t, err, "nesting of %d composite levels is allowed", MaxCompositeDepth)
	_, err = DecodeGlyph(otf, GlyphIndex(2+MaxCompositeDepth))
	if assert.Error(t, err) {
		assert.Equal(t, core.EDEPTH, core.Code(err))
	}
}

func TestDecodeMalformedGlyphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.fonts")
	defer teardown()
	//
	header := func(ncontours int16) []byte {
		return []byte{byte(uint16(ncontours) >> 8), byte(ncontours), 0, 0, 0, 0, 0, 10, 0, 10}
	}
	unsorted := append(header(2), 0, 3, 0, 2, 0, 0)
	truncated := append(header(1), 0, 10, 0, 0, 1, 1)
	repeat := append(header(1), 0, 1, 0, 0, 0x09, 5)
	otf := glyphFont(t,
		fonttest.Glyph{Raw: unsorted},
		fonttest.Glyph{Raw: truncated},
		fonttest.Glyph{Raw: repeat},
		fonttest.Glyph{Components: []fonttest.Component{{Glyph: 1, PointMatch: true}}},
		fonttest.Glyph{Raw: header(-1)},
	)
	cases := []struct {
		gid  GlyphIndex
		code int
	}{
		{2, core.EFORMAT},
		{3, core.EBOUNDS},
		{4, core.EFORMAT},
		{5, core.EFORMAT},
		{6, core.EBOUNDS},
	}
	for _, c := range cases {
		_, err := DecodeGlyph(otf, c.gid)
		if assert.Error(t, err, "glyph %d", c.gid) {
			assert.Equal(t, c.code, core.Code(err), "glyph %d: %v", c.gid, err)
		}
	}
}

func TestDecodeStandardAring(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.fonts")
	defer teardown()
	//
	otf, err := Parse(fonttest.Standard().Build())
	require.NoError(t, err)
	o, err := DecodeGlyph(otf, fonttest.Aring)
	require.NoError(t, err)
	checkOutlineInvariants(t, o)
	assert.Equal(t, 2, o.ContourCount())
	assert.Equal(t, uint16(fonttest.StdAdvance), o.Advance)
	assert.Equal(t, Point{35, 28}, o.Points[4], "expected ring to be shifted")
}

// Go Regular is cross-checked against package x/image/font/sfnt.
func TestDecodeGoRegular(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.fonts")
	defer teardown()
	//
	otf, err := Parse(goregular.TTF)
	require.NoError(t, err)
	ref, err := sfnt.Parse(goregular.TTF)
	require.NoError(t, err)
	var buf sfnt.Buffer
	ppem := fixed.Int26_6(otf.Head.UnitsPerEm) << 6
	for r := rune(' '); r < 0x7f; r++ {
		gid := otf.CMap.GlyphIndexMap.Lookup(r)
		refgid, err := ref.GlyphIndex(&buf, r)
		require.NoError(t, err)
		require.Equal(t, GlyphIndex(refgid), gid, "glyph index of %#U", r)
		o, err := DecodeGlyph(otf, gid)
		require.NoError(t, err, "decoding %#U", r)
		checkOutlineInvariants(t, o)
		adv, err := ref.GlyphAdvance(&buf, refgid, ppem, font.HintingNone)
		require.NoError(t, err)
		assert.Equal(t, int(adv>>6), int(o.Advance), "advance of %#U", r)
	}
}
