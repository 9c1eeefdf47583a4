package fonttest

// Metrics of the fixed-advance test font returned by Standard.
// At 12pt and 72 dpi, one unit is 0.4 pixels: every glyph advances by
// 28 pixels and has an ink box of 28×10 pixels.
const (
	StdUnitsPerEm = 30
	StdAdvance    = 70
	StdInkHeight  = 25
	StdAscender   = 25
	StdDescender  = -5
	StdKernAV     = -10 // kerning of the pair 'A','V'
)

// Glyph indices of the standard test font.
const (
	NotDef     = 0
	Space      = 1
	FirstUpper = 2               // 'A'
	FirstLower = FirstUpper + 26 // 'a'
	Aring      = FirstLower + 26 // 'Å', composite of 'A' and a ring
	Ring       = Aring + 1       // ring above, not mapped
	numStd     = Ring + 1
)

// StdGlyph returns the glyph index of r in the standard test font,
// or NotDef for characters the font does not map.
func StdGlyph(r rune) uint16 {
	switch {
	case r == ' ':
		return Space
	case r >= 'A' && r <= 'Z':
		return FirstUpper + uint16(r-'A')
	case r >= 'a' && r <= 'z':
		return FirstLower + uint16(r-'a')
	case r == 'Å':
		return Aring
	}
	return NotDef
}

// Standard returns a builder for a fixed-advance font covering space,
// ASCII letters and 'Å'. Every letter is a single box of
// StdAdvance × StdInkHeight units sitting on the baseline.
func Standard() *Builder {
	b := &Builder{
		UnitsPerEm: StdUnitsPerEm,
		Ascender:   StdAscender,
		Descender:  StdDescender,
		Glyphs:     make([]Glyph, numStd),
		CMap:       map[rune]uint16{},
		Family:     "Glyphs Test",
	}
	letter := Glyph{
		Advance:  StdAdvance,
		Contours: [][]Pt{Box(0, 0, StdAdvance, StdInkHeight)},
	}
	b.Glyphs[NotDef] = letter
	b.Glyphs[Space] = Glyph{Advance: StdAdvance}
	b.CMap[' '] = Space
	for r := 'A'; r <= 'Z'; r++ {
		b.Glyphs[StdGlyph(r)] = letter
		b.CMap[r] = StdGlyph(r)
	}
	for r := 'a'; r <= 'z'; r++ {
		b.Glyphs[StdGlyph(r)] = letter
		b.CMap[r] = StdGlyph(r)
	}
	b.Glyphs[Ring] = Glyph{
		Advance: 20,
		Contours: [][]Pt{{
			On(10, 0), Off(0, 0), Off(0, 10), On(10, 10), Off(20, 10), Off(20, 0),
		}},
	}
	b.Glyphs[Aring] = Glyph{
		Advance: StdAdvance,
		Components: []Component{
			{Glyph: StdGlyph('A'), UseMyMetrics: true},
			{Glyph: Ring, DX: 25, DY: 28},
		},
	}
	b.CMap['Å'] = Aring
	b.Kern = []KernPair{{Left: StdGlyph('A'), Right: StdGlyph('V'), Value: StdKernAV}}
	return b
}

// Fallback returns a builder for a small font covering 'λ' and 'μ' only.
// Its glyphs advance by 500 units and it uses 1000 units per em.
func Fallback() *Builder {
	glyph := Glyph{Advance: 500, Contours: [][]Pt{Box(50, 0, 450, 500)}}
	return &Builder{
		UnitsPerEm: 1000,
		Ascender:   800,
		Descender:  -200,
		Glyphs:     []Glyph{glyph, {Advance: 250}, glyph, glyph},
		CMap:       map[rune]uint16{' ': 1, 'λ': 2, 'μ': 3},
		Family:     "Glyphs Fallback",
	}
}
