package fontregistry

import (
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/npillmayer/glyphs/core"
	"github.com/npillmayer/glyphs/core/font"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
)

// Registry is a type for holding loaded fonts, keyed by normalized name.
// It is safe for concurrent use.
type Registry struct {
	sync.Mutex
	fonts map[string]*font.Font
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold loaded fonts.
// It initially contains the fallback font under the name "fallback".
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
		globalFontRegistry.StoreFont("fallback", font.FallbackFont())
	})
	return globalFontRegistry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fonts: make(map[string]*font.Font),
	}
}

// StoreFont pushes a font into the registry if it isn't contained yet.
//
// The font will be stored using the normalized font name as a key. If this
// key is already associated with a font, that font will not be overridden.
func (fr *Registry) StoreFont(normalizedName string, f *font.Font) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.fonts[normalizedName]; !ok {
		tracer().Debugf("registry stores font %s as %s", f.Name(), normalizedName)
		fr.fonts[normalizedName] = f
	}
}

// Register stores a font under a key derived from its name, guessing
// style and weight from the name. It returns the key.
func (fr *Registry) Register(f *font.Font) string {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return ""
	}
	style, weight := GuessStyleAndWeight(f.Name())
	key := NormalizeFontname(f.Name(), style, weight)
	fr.StoreFont(key, f)
	return key
}

// Font returns the font stored under a name. The name is looked up as given
// and, failing that, normalized for style and weight guessed from the name.
//
// If no font can be found, Font returns the system-wide fallback font,
// together with an error of code core.EMISSING.
func (fr *Registry) Font(name string) (*font.Font, error) {
	tracer().Debugf("registry searches for font %s", name)
	fr.Lock()
	defer fr.Unlock()
	if f, ok := fr.fonts[name]; ok {
		return f, nil
	}
	style, weight := GuessStyleAndWeight(name)
	if f, ok := fr.fonts[NormalizeFontname(name, style, weight)]; ok {
		return f, nil
	}
	tracer().Infof("registry does not contain font %s", name)
	return font.FallbackFont(), core.Error(core.EMISSING, "font %s not found in registry", name)
}

// Names returns the sorted keys of all fonts in the registry.
func (fr *Registry) Names() []string {
	fr.Lock()
	defer fr.Unlock()
	names := make([]string, 0, len(fr.fonts))
	for k := range fr.fonts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LogFontList is a helper function to dump the list of known fonts
// in a registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	tracer().Infof("--- registered fonts ---")
	for _, k := range fr.Names() {
		f, _ := fr.Font(k)
		tracer().Infof("font [%s] = %v", k, f.Name())
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}

// NormalizeFontname produces a registry key from a font name plus style and
// weight: lower case, blanks replaced by underscores, file extension removed,
// and a suffix for style and weight.
func NormalizeFontname(fname string, style xfont.Style, weight xfont.Weight) string {
	fname = strings.TrimSpace(fname)
	if ext := path.Ext(fname); ext == ".ttf" || ext == ".otf" {
		fname = fname[:len(fname)-len(ext)]
	}
	fname = strings.ToLower(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	fname = strings.ReplaceAll(fname, "-", "_")
	for _, w := range []string{"_regular", "_italic", "_oblique", "_bold", "_light"} {
		fname = strings.ReplaceAll(fname, w, "")
	}
	switch style {
	case xfont.StyleItalic, xfont.StyleOblique:
		fname += "-italic"
	}
	switch weight {
	case xfont.WeightLight, xfont.WeightExtraLight:
		fname += "-light"
	case xfont.WeightBold, xfont.WeightExtraBold, xfont.WeightSemiBold:
		fname += "-bold"
	}
	return fname
}

// GuessStyleAndWeight trys to guess a font's style and weight from the
// font's name or file name.
func GuessStyleAndWeight(fontname string) (xfont.Style, xfont.Weight) {
	fontname = path.Base(fontname)
	ext := path.Ext(fontname)
	fontname = strings.ToLower(fontname[:len(fontname)-len(ext)])
	s := strings.FieldsFunc(fontname, func(r rune) bool { return r == '-' || r == ' ' })
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "light", "xlight":
			return xfont.StyleNormal, xfont.WeightLight
		case "normal", "medium", "regular", "r":
			return xfont.StyleNormal, xfont.WeightNormal
		case "bold", "b":
			return xfont.StyleNormal, xfont.WeightBold
		case "xbold", "black":
			return xfont.StyleNormal, xfont.WeightExtraBold
		}
	}
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	if strings.Contains(fontname, "italic") {
		style = xfont.StyleItalic
	}
	if strings.Contains(fontname, "light") {
		weight = xfont.WeightLight
	}
	if strings.Contains(fontname, "bold") {
		weight = xfont.WeightBold
	}
	return style, weight
}
