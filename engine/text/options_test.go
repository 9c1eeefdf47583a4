package text

import (
	"strings"
	"testing"

	"github.com/npillmayer/glyphs/core"
	"github.com/npillmayer/glyphs/core/dimen"
	"github.com/npillmayer/glyphs/core/font/fontregistry"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.text")
	defer teardown()
	//
	reg := fontregistry.NewRegistry()
	fb := fallbackFont(t)
	reg.Register(fb)
	conf := `
dpi: 96
dpi-y: 72
size: 0.5in
tab-width: 8
wrapping-width: 400
kerning: false
line-spacing: 1.2
origin: { x: 10, y: 20 }
fallback-fonts: [ "Glyphs Fallback" ]
`
	opts, err := LoadOptions(strings.NewReader(conf), reg)
	require.NoError(t, err)
	assert.Equal(t, dimen.Point{X: 96, Y: 72}, opts.DPI)
	assert.InDelta(t, 36.0, opts.PointSize, 1e-9)
	assert.Equal(t, 8, opts.TabWidth)
	assert.Equal(t, 400.0, opts.WrappingWidth)
	assert.False(t, opts.Kerning)
	assert.Equal(t, 1.2, opts.LineSpacing)
	assert.Equal(t, dimen.Point{X: 10, Y: 20}, opts.Origin)
	require.Len(t, opts.Fallbacks, 1)
	assert.Same(t, fb, opts.Fallbacks[0])
}

func TestLoadOptionsDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.text")
	defer teardown()
	//
	opts, err := LoadOptions(strings.NewReader(""), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
	opts, err = LoadOptions(strings.NewReader("size: 10\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, 10.0, opts.PointSize)
	assert.True(t, opts.Kerning)
}

func TestLoadOptionsErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.text")
	defer teardown()
	//
	reg := fontregistry.NewRegistry()
	for _, tc := range []struct {
		conf string
		code int
	}{
		{"fallback-fonts: [ nonexisting ]\n", core.EMISSING},
		{"colour: red\n", core.EINVALID},
		{"size: 12px\n", core.EINVALID},
		{"tab-width: -1\n", core.EINVALID},
		{"dpi: 0\n", core.EINVALID},
		{"line-spacing: 0\n", core.EINVALID},
		{"size: [\n", core.EINVALID},
	} {
		_, err := LoadOptions(strings.NewReader(tc.conf), reg)
		require.Error(t, err, tc.conf)
		assert.Equal(t, tc.code, core.Code(err), tc.conf)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
	opts := DefaultOptions()
	opts.WrappingWidth = -3
	assert.Equal(t, core.EINVALID, core.Code(opts.Validate()))
	opts = DefaultOptions()
	opts.Fallbacks = append(opts.Fallbacks, nil)
	assert.Equal(t, core.EINVALID, core.Code(opts.Validate()))
}
