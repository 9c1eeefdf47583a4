package text

import (
	"errors"
	"io"

	"github.com/npillmayer/glyphs/core"
	"github.com/npillmayer/glyphs/core/dimen"
	"github.com/npillmayer/glyphs/core/font"
	"github.com/npillmayer/glyphs/core/font/fontregistry"
	"gopkg.in/yaml.v3"
)

// Options control text layout.
type Options struct {
	DPI           dimen.Point  // device resolution, horizontal and vertical
	PointSize     float64      // font size in points
	TabWidth      int          // tab stops every TabWidth space advances; 0 drops tabs
	WrappingWidth float64      // maximum line width in pixels; 0 is unbounded
	Kerning       bool         // apply pair kerning
	LineSpacing   float64      // multiplier for the font's line height
	Origin        dimen.Point  // device position of the first baseline's start
	Fallbacks     []*font.Font // fonts to consult, in order, for unmapped code-points
}

// DefaultOptions returns options for 12pt text at 72 dpi, with tab stops every
// 4 spaces, kerning and no wrapping.
func DefaultOptions() Options {
	return Options{
		DPI:         dimen.Point{X: 72, Y: 72},
		PointSize:   12,
		TabWidth:    4,
		Kerning:     true,
		LineSpacing: 1,
	}
}

// Validate checks options for consistency. It returns an error of code
// core.EINVALID for unusable options.
func (opts Options) Validate() error {
	switch {
	case opts.DPI.X <= 0 || opts.DPI.Y <= 0:
		return core.Error(core.EINVALID, "resolution must be positive, is %s", opts.DPI)
	case opts.PointSize <= 0:
		return core.Error(core.EINVALID, "point size must be positive, is %g", opts.PointSize)
	case opts.TabWidth < 0:
		return core.Error(core.EINVALID, "tab width must not be negative, is %d", opts.TabWidth)
	case opts.WrappingWidth < 0:
		return core.Error(core.EINVALID, "wrapping width must not be negative, is %g", opts.WrappingWidth)
	case opts.LineSpacing <= 0:
		return core.Error(core.EINVALID, "line spacing must be positive, is %g", opts.LineSpacing)
	}
	for i, f := range opts.Fallbacks {
		if f == nil {
			return core.Error(core.EINVALID, "fallback font #%d is nil", i)
		}
	}
	return nil
}

// config is the YAML representation of Options. Fields not present in the
// configuration keep their default values.
type config struct {
	DPI           *float64 `yaml:"dpi"`
	DPIX          *float64 `yaml:"dpi-x"`
	DPIY          *float64 `yaml:"dpi-y"`
	Size          string   `yaml:"size"`
	TabWidth      *int     `yaml:"tab-width"`
	WrappingWidth *float64 `yaml:"wrapping-width"`
	Kerning       *bool    `yaml:"kerning"`
	LineSpacing   *float64 `yaml:"line-spacing"`
	Origin        *struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
	} `yaml:"origin"`
	Fallbacks []string `yaml:"fallback-fonts"`
}

// LoadOptions reads layout options from a YAML document, for example
//
//	dpi: 96
//	size: 11pt
//	tab-width: 8
//	wrapping-width: 400
//	kerning: false
//	fallback-fonts: [ "Noto Sans", "fallback" ]
//
// Options not mentioned are taken from DefaultOptions. The size may be given
// in any unit understood by dimen.ParseDimen. Fallback fonts are resolved
// by name through reg (see fontregistry.Registry.Resolve); if reg is nil,
// the global registry is used.
// Unknown font names result in an error of code core.EMISSING, malformed or
// invalid configurations in an error of code core.EINVALID.
func LoadOptions(r io.Reader, reg *fontregistry.Registry) (Options, error) {
	opts := DefaultOptions()
	var conf config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&conf); err != nil && !errors.Is(err, io.EOF) {
		return opts, core.WrapError(err, core.EINVALID, "cannot read layout configuration")
	}
	if conf.DPI != nil {
		opts.DPI = dimen.Point{X: *conf.DPI, Y: *conf.DPI}
	}
	if conf.DPIX != nil {
		opts.DPI.X = *conf.DPIX
	}
	if conf.DPIY != nil {
		opts.DPI.Y = *conf.DPIY
	}
	if conf.Size != "" {
		size, err := dimen.ParseDimen(conf.Size)
		if err != nil {
			return opts, core.WrapError(err, core.EINVALID, "font size %q", conf.Size)
		}
		opts.PointSize = size
	}
	if conf.TabWidth != nil {
		opts.TabWidth = *conf.TabWidth
	}
	if conf.WrappingWidth != nil {
		opts.WrappingWidth = *conf.WrappingWidth
	}
	if conf.Kerning != nil {
		opts.Kerning = *conf.Kerning
	}
	if conf.LineSpacing != nil {
		opts.LineSpacing = *conf.LineSpacing
	}
	if conf.Origin != nil {
		opts.Origin = dimen.Point{X: conf.Origin.X, Y: conf.Origin.Y}
	}
	if len(conf.Fallbacks) > 0 && reg == nil {
		reg = fontregistry.GlobalRegistry()
	}
	for _, name := range conf.Fallbacks {
		f, err := reg.Resolve(name)
		if err != nil {
			return opts, err
		}
		opts.Fallbacks = append(opts.Fallbacks, f)
	}
	tracer().Debugf("layout options: %gpt at %s dpi, %d fallback fonts",
		opts.PointSize, opts.DPI, len(opts.Fallbacks))
	return opts, opts.Validate()
}
