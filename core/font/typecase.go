package font

import (
	"github.com/npillmayer/glyphs/core"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// TypeCase is a font at a certain size and resolution, usable as a
// golang.org/x/image/font.Face. It lets clients hand our fonts to the x/image
// drawing machinery and serves as a reference when checking our own metrics.
type TypeCase struct {
	font *Font
	face xfont.Face
	size float64
	dpi  float64
}

// PrepareCase creates a typecase for f at a given point size and resolution.
func (f *Font) PrepareCase(fontsize, dpi float64) (*TypeCase, error) {
	if fontsize <= 0 || dpi <= 0 {
		return nil, core.Error(core.EINVALID, "font size and dpi must be positive, are %g and %g",
			fontsize, dpi)
	}
	sf, err := sfnt.Parse(f.otf.Binary())
	if err != nil {
		return nil, core.WrapError(err, core.EFORMAT, "font %s not usable as face", f.name)
	}
	face, err := opentype.NewFace(sf, &opentype.FaceOptions{
		Size:    fontsize,
		DPI:     dpi,
		Hinting: xfont.HintingNone,
	})
	if err != nil {
		return nil, core.WrapError(err, core.EFORMAT, "font %s not usable as face", f.name)
	}
	return &TypeCase{font: f, face: face, size: fontsize, dpi: dpi}, nil
}

// ScalableFontParent returns the font this typecase has been derived from.
func (tc *TypeCase) ScalableFontParent() *Font {
	return tc.font
}

// Face returns the typecase as an x/image font face.
func (tc *TypeCase) Face() xfont.Face {
	return tc.face
}

// PtSize returns the size of the typecase in points.
func (tc *TypeCase) PtSize() float64 {
	return tc.size
}

// DPI returns the resolution the typecase has been prepared for.
func (tc *TypeCase) DPI() float64 {
	return tc.dpi
}

// MeasureString measures a string using the x/image face, in pixels.
func (tc *TypeCase) MeasureString(s string) float64 {
	adv := xfont.MeasureString(tc.face, s)
	return float64(adv) / 64
}
