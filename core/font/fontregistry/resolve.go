package fontregistry

import (
	"github.com/flopp/go-findfont"
	"github.com/npillmayer/glyphs/core"
	"github.com/npillmayer/glyphs/core/font"
)

// Resolve finds a font by name. The registry is searched first; if it does
// not contain the font, Resolve looks for an installed system font file of
// that name (e.g., "DejaVuSans" or "DejaVuSans.ttf"), loads it and stores it
// in the registry.
//
// If no font can be found, Resolve returns the system-wide fallback font,
// together with an error of code core.EMISSING.
func (fr *Registry) Resolve(name string) (*font.Font, error) {
	f, err := fr.Font(name)
	if err == nil {
		return f, nil
	}
	fpath, ferr := findfont.Find(name)
	if ferr != nil || fpath == "" {
		tracer().Debugf("%s is not a system font", name)
		return f, err
	}
	tracer().Debugf("%s is a system font: %s", name, fpath)
	sysfont, lerr := font.LoadFont(fpath)
	if lerr != nil {
		tracer().Errorf("cannot load system font %s: %v", fpath, lerr)
		return f, core.WrapError(lerr, core.EMISSING, "font %s not usable", name)
	}
	fr.StoreFont(name, sysfont)
	fr.Register(sysfont)
	return sysfont, nil
}
