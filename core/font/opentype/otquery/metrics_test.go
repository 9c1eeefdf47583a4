package otquery

import (
	"testing"

	"github.com/npillmayer/glyphs/core/font/opentype/ot"
	"github.com/npillmayer/glyphs/internal/fonttest"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// --- Test Suite Preparation ------------------------------------------------

type MetricsTestEnviron struct {
	suite.Suite
	std    *ot.Font
	goreg  *ot.Font
	noName *ot.Font
}

// listen for 'go test' command --> run test methods
func TestMetricsFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.fonts")
	defer teardown()
	suite.Run(t, new(MetricsTestEnviron))
}

// run once, before test suite methods
func (env *MetricsTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("glyphs.fonts").SetTraceLevel(tracing.LevelError)
	env.std = env.parse(fonttest.Standard().Build())
	env.goreg = env.parse(goregular.TTF)
	b := fonttest.Standard()
	b.Family = ""
	b.Kern = nil
	b.Ascender, b.Descender = 0, 0
	b.Extra = map[string][]byte{"OS/2": os2Table(900, -250, 40)}
	env.noName = env.parse(b.Build())
	tracing.Select("glyphs.fonts").SetTraceLevel(tracing.LevelInfo)
}

// run once, after test suite methods
func (env *MetricsTestEnviron) TearDownSuite() {
	env.T().Log("Tearing down test suite")
}

func (env *MetricsTestEnviron) parse(data []byte) *ot.Font {
	otf, err := ot.Parse(data)
	env.Require().NoError(err)
	return otf
}

// os2Table returns an 'OS/2' table of version 0 with typographic metrics set.
func os2Table(ascender, descender, lineGap int16) []byte {
	b := make([]byte, 78)
	put := func(at int, v int16) {
		b[at], b[at+1] = byte(uint16(v)>>8), byte(v)
	}
	put(68, ascender)
	put(70, descender)
	put(72, lineGap)
	return b
}

// --- Tests -----------------------------------------------------------------

func (env *MetricsTestEnviron) TestFontTypeInfo() {
	env.Equal("TrueType", FontType(env.std), "expected font type of test font to be TrueType")
}

func (env *MetricsTestEnviron) TestNameInfo() {
	info := NameInfo(env.std)
	env.T().Logf("info = %v", info)
	fam, ok := info["family"]
	env.Require().True(ok, "font familiy identifier not found in font info")
	env.Equal("Glyphs Test", fam)
	env.Equal("Glyphs Test", FontName(env.std))
	env.Equal("", FontName(env.noName))
	env.Contains(FontName(env.goreg), "Go")
}

func (env *MetricsTestEnviron) TestLayoutTables() {
	env.Empty(LayoutTables(env.std), "test font has no layout tables")
}

func (env *MetricsTestEnviron) TestFontMetrics() {
	m := FontMetrics(env.std)
	env.Equal(sfnt.Units(fonttest.StdUnitsPerEm), m.UnitsPerEm)
	env.Equal(sfnt.Units(fonttest.StdAscender), m.Ascent)
	env.Equal(sfnt.Units(fonttest.StdDescender), m.Descent)
	env.Equal(sfnt.Units(fonttest.StdAdvance), m.MaxAdvance)
	env.Equal(sfnt.Units(30), m.LineHeight())
}

func (env *MetricsTestEnviron) TestFontMetricsFromOS2() {
	m := FontMetrics(env.noName)
	env.Equal(sfnt.Units(900), m.Ascent)
	env.Equal(sfnt.Units(-250), m.Descent)
	env.Equal(sfnt.Units(40), m.LineGap)
}

func (env *MetricsTestEnviron) TestGlyphIndex() {
	gid := GlyphIndex(env.std, 'A')
	env.Equal(ot.GlyphIndex(fonttest.StdGlyph('A')), gid)
	env.Equal(ot.GlyphIndex(0), GlyphIndex(env.std, '€'), "expected missing glyph")
}

func (env *MetricsTestEnviron) TestReverseLookup() {
	r := CodePointForGlyph(env.std, ot.GlyphIndex(fonttest.StdGlyph('A')))
	env.Equal('A', r, "expected code-point to be %#U, is %#U", 'A', r)
	env.Equal(rune(0), CodePointForGlyph(env.std, 0))
}

func (env *MetricsTestEnviron) TestGlyphMetrics() {
	m := GlyphMetrics(env.std, GlyphIndex(env.std, 'A'))
	env.T().Logf("metrics = %v", m)
	env.Equal(sfnt.Units(fonttest.StdAdvance), m.Advance)
	env.Equal(sfnt.Units(fonttest.StdInkHeight), m.BBox.Dy())
	env.Equal(sfnt.Units(0), m.RSB)
	space := GlyphMetrics(env.std, fonttest.Space)
	env.True(space.BBox.Empty())
	env.Equal(sfnt.Units(0), GlyphMetrics(env.std, 9999).Advance)
}

func (env *MetricsTestEnviron) TestKerning() {
	a, v := GlyphIndex(env.std, 'A'), GlyphIndex(env.std, 'V')
	env.Equal(sfnt.Units(fonttest.StdKernAV), Kerning(env.std, a, v))
	env.Equal(sfnt.Units(0), Kerning(env.std, v, a))
	env.Equal(sfnt.Units(0), Kerning(env.noName, a, v), "kerning without kern table")
}
