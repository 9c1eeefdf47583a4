package text

import (
	"strings"
	"testing"

	"github.com/npillmayer/glyphs/core/dimen"
	"github.com/npillmayer/glyphs/core/font"
	"github.com/npillmayer/glyphs/core/font/opentype/ot"
	"github.com/npillmayer/glyphs/engine/glyphing"
	"github.com/npillmayer/glyphs/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func stdFont(t *testing.T) *font.Font {
	f, err := font.Parse(fonttest.Standard().Build())
	require.NoError(t, err)
	return f
}

func fallbackFont(t *testing.T) *font.Font {
	f, err := font.Parse(fonttest.Fallback().Build())
	require.NoError(t, err)
	return f
}

func TestMeasureTabWidthZero(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.text")
	defer teardown()
	//
	f := stdFont(t)
	opts := DefaultOptions()
	opts.TabWidth = 0
	bounds, err := Measure(f, "Hello\tworld", opts)
	require.NoError(t, err)
	assert.InDelta(t, 280.0, bounds.Width(), eps)
	assert.InDelta(t, 10.0, bounds.Height(), eps)
	texts := []string{"Hello\tworld", "\tA", "A\t\tV", "\t", "AV\tAV\nA\tB",
		"Hello \tworld", "Hello\t world\tHello", "A\tV A\tV A\tV"}
	for _, wrap := range []float64{0, 150} {
		for _, kern := range []bool{true, false} {
			opts.WrappingWidth, opts.Kerning = wrap, kern
			for _, s := range texts {
				with, err := LayoutText(f, s, opts)
				require.NoError(t, err)
				without, err := LayoutText(f, strings.ReplaceAll(s, "\t", ""), opts)
				require.NoError(t, err)
				assert.Equal(t, without.Bounds, with.Bounds,
					"tabs must vanish in %q (wrap=%g, kerning=%v)", s, wrap, kern)
				assert.Equal(t, without.Lines, with.Lines, "lines of %q (wrap=%g)", s, wrap)
			}
		}
	}
	opts = DefaultOptions()
	opts.TabWidth = 0
	seq, err := LayoutText(f, "Hello\tworld", opts)
	require.NoError(t, err)
	assert.Len(t, seq.Glyphs, 10, "tabs produce no glyphs")
	seq, err = LayoutText(f, "A\tV", opts)
	require.NoError(t, err)
	assert.InDelta(t, 24.0, seq.Glyphs[1].Origin.X, eps, "kerning pairs glyphs around a zero-width tab")
	opts.WrappingWidth = 150
	seq, err = LayoutText(f, "Hello\tworld", opts)
	require.NoError(t, err)
	assert.Equal(t, 1, seq.Lines, "a zero-width tab does not separate words")
	assert.InDelta(t, 280.0, seq.Bounds.Width(), eps)
}

func TestTabStops(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.text")
	defer teardown()
	//
	f := stdFont(t)
	opts := DefaultOptions() // tab stops every 4 spaces = 112px
	seq, err := LayoutText(f, "A\tB", opts)
	require.NoError(t, err)
	require.Len(t, seq.Glyphs, 2)
	assert.InDelta(t, 112.0, seq.Glyphs[1].Origin.X, eps)
	seq, err = LayoutText(f, "AAAA\tB", opts)
	require.NoError(t, err)
	assert.InDelta(t, 224.0, seq.Glyphs[4].Origin.X, eps, "tab at a tab stop advances to the next stop")
	bounds, err := Measure(f, "Hello\tworld", opts)
	require.NoError(t, err)
	assert.InDelta(t, 224.0+140.0, bounds.Width(), eps)
}

func TestKerning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.text")
	defer teardown()
	//
	f := stdFont(t)
	opts := DefaultOptions()
	seq, err := LayoutText(f, "AV", opts)
	require.NoError(t, err)
	require.Len(t, seq.Glyphs, 2)
	assert.InDelta(t, 24.0, seq.Glyphs[1].Origin.X, eps)
	assert.InDelta(t, 24.0, seq.Glyphs[0].XAdvance, eps, "advance includes kerning")
	assert.InDelta(t, 52.0, seq.Bounds.Width(), eps)
	seq, err = LayoutText(f, "VA", opts)
	require.NoError(t, err)
	assert.InDelta(t, 28.0, seq.Glyphs[1].Origin.X, eps, "kern pairs are ordered")
	opts.Kerning = false
	seq, err = LayoutText(f, "AV", opts)
	require.NoError(t, err)
	assert.InDelta(t, 28.0, seq.Glyphs[1].Origin.X, eps)
}

func TestWrapping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.text")
	defer teardown()
	//
	f := stdFont(t)
	opts := DefaultOptions()
	opts.WrappingWidth = 150
	seq, err := LayoutText(f, "Hello world", opts)
	require.NoError(t, err)
	assert.Equal(t, 2, seq.Lines)
	require.Len(t, seq.Glyphs, 11)
	w := seq.Glyphs[6]
	assert.Equal(t, 'w', w.CodePoint)
	assert.Equal(t, 1, w.Line)
	assert.InDelta(t, 0.0, w.Origin.X, eps)
	assert.InDelta(t, 12.0, w.Origin.Y, eps, "line height is (25+5)*0.4")
	assert.InDelta(t, 140.0, seq.Bounds.Width(), eps)
	assert.InDelta(t, 22.0, seq.Bounds.Height(), eps)
	//
	opts.WrappingWidth = 50
	seq, err = LayoutText(f, "Hello", opts)
	require.NoError(t, err)
	assert.Equal(t, 1, seq.Lines, "overlong word stays on its line")
	//
	opts.WrappingWidth = 0
	seq, err = LayoutText(f, "Hello world Hello world", opts)
	require.NoError(t, err)
	assert.Equal(t, 1, seq.Lines, "no wrapping width, no wrapping")
	//
	opts.WrappingWidth = 150
	opts.LineSpacing = 1.5
	seq, err = LayoutText(f, "Hello world", opts)
	require.NoError(t, err)
	assert.InDelta(t, 18.0, seq.Glyphs[6].Origin.Y, eps)
}

func TestNewlines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.text")
	defer teardown()
	//
	f := stdFont(t)
	opts := DefaultOptions()
	opts.Origin = dimen.Point{X: 5, Y: 20}
	for _, s := range []string{"ab\ncd", "ab\r\ncd", "ab\rcd"} {
		seq, err := LayoutText(f, s, opts)
		require.NoError(t, err)
		assert.Equal(t, 2, seq.Lines, "%q", s)
		require.Len(t, seq.Glyphs, 4, "%q", s)
		assert.Equal(t, dimen.Point{X: 5, Y: 20}, seq.Glyphs[0].Origin)
		assert.InDelta(t, 5.0, seq.Glyphs[2].Origin.X, eps)
		assert.InDelta(t, 32.0, seq.Glyphs[2].Origin.Y, eps)
	}
	seq, err := LayoutText(f, "a\n", opts)
	require.NoError(t, err)
	assert.Equal(t, 2, seq.Lines)
}

func TestFallbackFonts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.text")
	defer teardown()
	//
	f, fb := stdFont(t), fallbackFont(t)
	opts := DefaultOptions()
	opts.Fallbacks = []*font.Font{fb}
	seq, err := LayoutText(f, "AλB", opts)
	require.NoError(t, err)
	require.Len(t, seq.Glyphs, 3)
	lambda := seq.Glyphs[1]
	assert.Same(t, fb, lambda.Font)
	assert.Equal(t, ot.GlyphIndex(2), lambda.GID)
	assert.InDelta(t, 0.012, lambda.Scale.X, eps)
	assert.InDelta(t, 34.0, seq.Glyphs[2].Origin.X, eps, "fallback glyph advances 500 units at its own scale")
	assert.Equal(t, 3, seq.Glyphs[2].ClusterID, "cluster IDs are byte positions")
	//
	opts.Fallbacks = nil
	seq, err = LayoutText(f, "AλB", opts)
	require.NoError(t, err)
	assert.Same(t, f, seq.Glyphs[1].Font)
	assert.Equal(t, ot.GlyphIndex(0), seq.Glyphs[1].GID, "missing glyph")
	assert.InDelta(t, 56.0, seq.Glyphs[2].Origin.X, eps)
}

func TestBrokenCMapEntry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.text")
	defer teardown()
	//
	b := fonttest.Standard()
	b.CMap['λ'] = 999 // beyond the glyph count
	f, err := font.Parse(b.Build())
	require.NoError(t, err)
	opts := DefaultOptions()
	seq, err := LayoutText(f, "AλB", opts)
	require.NoError(t, err, "a broken cmap entry must not fail the layout")
	require.Len(t, seq.Glyphs, 3)
	assert.Equal(t, ot.GlyphIndex(0), seq.Glyphs[1].GID, "missing glyph")
	assert.InDelta(t, 56.0, seq.Glyphs[2].Origin.X, eps)
	//
	fb := fallbackFont(t)
	opts.Fallbacks = []*font.Font{fb}
	seq, err = LayoutText(f, "AλB", opts)
	require.NoError(t, err)
	assert.Same(t, fb, seq.Glyphs[1].Font)
	assert.Equal(t, ot.GlyphIndex(2), seq.Glyphs[1].GID)
}

func TestNormalization(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.text")
	defer teardown()
	//
	f := stdFont(t)
	seq, err := LayoutText(f, "A\u030A", DefaultOptions()) // A + combining ring above
	require.NoError(t, err)
	require.Len(t, seq.Glyphs, 1)
	assert.Equal(t, ot.GlyphIndex(fonttest.Aring), seq.Glyphs[0].GID, "decomposed input is composed")
	assert.InDelta(t, 38*0.4, seq.Bounds.Height(), eps)
}

func TestLayoutEdgeCases(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.text")
	defer teardown()
	//
	f := stdFont(t)
	bounds, err := Measure(f, "", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, bounds.Empty())
	assert.Equal(t, 0.0, bounds.Width())
	bounds, err = Measure(f, "   ", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, bounds.Empty(), "spaces have no ink")
	opts := DefaultOptions()
	opts.PointSize = 0
	_, err = LayoutText(f, "A", opts)
	assert.Error(t, err)
	seq, err := LayoutText(nil, "Go", DefaultOptions())
	require.NoError(t, err)
	assert.Same(t, font.FallbackFont(), seq.Glyphs[0].Font)
}

func TestRenderText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.text")
	defer teardown()
	//
	f := stdFont(t)
	rec := &glyphing.PathRecorder{Decline: true}
	require.NoError(t, RenderText(f, "AA B", DefaultOptions(), rec))
	assert.Equal(t, "BeginText", rec.Calls[0])
	assert.Equal(t, "EndText", rec.Calls[len(rec.Calls)-1])
	require.Len(t, rec.Glyphs, 4)
	assert.Equal(t, rec.Glyphs[0].Key, rec.Glyphs[1].Key, "same glyph, same size, same key")
	assert.Len(t, rec.Glyphs[0].Figures, 1)
	assert.Empty(t, rec.Glyphs[1].Figures, "recorder declines known glyphs")
	assert.NotEqual(t, rec.Glyphs[0].Key, rec.Glyphs[3].Key)
	assert.InDelta(t, 112.0, rec.Bounds.Width(), eps)
}

func TestLayoutGoRegular(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.text")
	defer teardown()
	//
	f := font.FallbackFont()
	opts := DefaultOptions()
	opts.PointSize = 16
	opts.DPI = dimen.Point{X: 96, Y: 96}
	s := "Hello World, AVAWATTo"
	seq, err := LayoutText(f, s, opts)
	require.NoError(t, err)
	last := seq.Glyphs[len(seq.Glyphs)-1]
	width := last.Origin.X + last.XAdvance
	tc, err := f.PrepareCase(opts.PointSize, opts.DPI.X)
	require.NoError(t, err)
	assert.InDelta(t, tc.MeasureString(s), width, 0.5)
}
