/*
Package font is for font handling.

A Font wraps a parsed TrueType font binary together with its metrics and a
cache of decoded glyph outlines. Fonts are created once from raw bytes and
are read-only thereafter; they may be shared between goroutines. The only
mutable part, the outline cache, is lock-protected.

We will stick to the following definitions:

* A "font" is a variant of a typeface with a certain weight, slant, etc.
An example is "Helvetica regular". This is what type Font represents.

* A "typecase" is a scaled font, i.e. a font in a certain size.
The name is reminiscend on the wooden boxes of typesetters in the aera of
metal type. An example is "Helvetica regular 11pt".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"fmt"
	"hash/fnv"
	"os"
	"sync"

	"github.com/npillmayer/glyphs/core"
	"github.com/npillmayer/glyphs/core/font/opentype"
	"github.com/npillmayer/glyphs/core/font/opentype/ot"
	"github.com/npillmayer/glyphs/core/font/opentype/otquery"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'glyphs.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphs.fonts")
}

// Font is a parsed TrueType font.
type Font struct {
	otf      *ot.Font
	name     string
	id       uint64
	metrics  opentype.FontMetricsInfo
	mx       sync.RWMutex // guards outlines
	outlines map[ot.GlyphIndex]*ot.GlyphOutline
}

// Parse creates a font from a font binary. The binary must not be modified
// as long as the font is in use.
func Parse(fbytes []byte) (*Font, error) {
	otf, err := ot.Parse(fbytes)
	if err != nil {
		return nil, err
	}
	f := &Font{
		otf:      otf,
		metrics:  otquery.FontMetrics(otf),
		outlines: make(map[ot.GlyphIndex]*ot.GlyphOutline),
	}
	h := fnv.New64a()
	h.Write(fbytes)
	f.id = h.Sum64()
	if f.name = otquery.FontName(otf); f.name == "" {
		f.name = fmt.Sprintf("font-%016x", f.id)
	}
	tracer().Debugf("font %q (%s) has %d glyphs", f.name, otquery.FontType(otf), otf.NumGlyphs())
	if lt := otquery.LayoutTables(otf); len(lt) > 0 {
		tracer().Infof("font %q carries layout tables %v, these will not be applied", f.name, lt)
	}
	return f, nil
}

// LoadFont reads and parses a font file.
func LoadFont(fontfile string) (*Font, error) {
	fbytes, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	return Parse(fbytes)
}

// OT returns the parsed font tables.
func (f *Font) OT() *ot.Font {
	return f.otf
}

// Name returns the full name of the font, as found in table 'name'.
// Fonts without names get a synthetic name derived from their ID.
func (f *Font) Name() string {
	return f.name
}

// ID is a structural identity of the font: fonts parsed from identical
// binaries have identical IDs.
func (f *Font) ID() uint64 {
	return f.id
}

// Metrics returns the font-wide metrics, in font units.
func (f *Font) Metrics() opentype.FontMetricsInfo {
	return f.metrics
}

// UnitsPerEm returns the design grid resolution of the font.
func (f *Font) UnitsPerEm() uint16 {
	return f.otf.Head.UnitsPerEm
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return f.otf.NumGlyphs()
}

// GlyphIndex maps a code-point to a glyph. If the font does not contain a glyph
// for r, it returns (0, false). Mappings to glyphs beyond the font's glyph
// count count as missing.
func (f *Font) GlyphIndex(r rune) (ot.GlyphIndex, bool) {
	gid := otquery.GlyphIndex(f.otf, r)
	if int(gid) >= f.otf.NumGlyphs() {
		tracer().Errorf("font %s: cmap maps %#U to glyph %d, font has %d glyphs",
			f.name, r, gid, f.otf.NumGlyphs())
		return 0, false
	}
	return gid, gid != 0
}

// GlyphMetrics returns the horizontal metrics and header bounding box of a
// glyph, in font units.
func (f *Font) GlyphMetrics(gid ot.GlyphIndex) opentype.GlyphMetricsInfo {
	return otquery.GlyphMetrics(f.otf, gid)
}

// Advance returns the advance width of a glyph, in font units.
func (f *Font) Advance(gid ot.GlyphIndex) sfnt.Units {
	return f.GlyphMetrics(gid).Advance
}

// HasKerning is true if the font carries kerning information.
func (f *Font) HasKerning() bool {
	return f.otf.Kern != nil && f.otf.Kern.SubTableCount() > 0
}

// Kerning returns the kerning adjustment of an ordered pair of glyphs,
// in font units.
func (f *Font) Kerning(left, right ot.GlyphIndex) sfnt.Units {
	return otquery.Kerning(f.otf, left, right)
}

// Outline returns the decoded outline of a glyph. Outlines are decoded on
// first request and cached; the returned outline must be treated as
// read-only. Decoding errors are not cached.
func (f *Font) Outline(gid ot.GlyphIndex) (*ot.GlyphOutline, error) {
	f.mx.RLock()
	o, ok := f.outlines[gid]
	f.mx.RUnlock()
	if ok {
		return o, nil
	}
	o, err := ot.DecodeGlyph(f.otf, gid)
	if err != nil {
		tracer().Errorf("font %s: glyph %d: [%d] %s", f.name, gid, core.Code(err), core.UserMessage(err))
		return nil, err
	}
	f.mx.Lock()
	defer f.mx.Unlock()
	if cached, ok := f.outlines[gid]; ok { // another goroutine was faster
		return cached, nil
	}
	f.outlines[gid] = o
	return o, nil
}

func (f *Font) String() string {
	return fmt.Sprintf("font(%s)", f.name)
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *Font {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else failes.
// Currently we use Go Sans.
var fallbackFont *Font

func loadFallbackFont() *Font {
	gofont, err := Parse(goregular.TTF)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	return gofont
}
