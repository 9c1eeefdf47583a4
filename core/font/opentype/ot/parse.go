package ot

import (
	"github.com/npillmayer/glyphs/core"
)

// Code comment often will cite passage from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// Font signatures we accept.
const (
	SignatureTrueType uint32 = 0x00010000
	SignatureOpenType uint32 = 0x4f54544f // OTTO
	SignatureApple    uint32 = 0x74727565 // true
)

// RequiredTables lists the tables needed to lay out and render TrueType glyphs.
// A font lacking one of them is rejected by Parse.
var RequiredTables = []string{
	"head", "hhea", "maxp", "hmtx", "cmap", "loca", "glyf",
}

// ---------------------------------------------------------------------------

// Parse parses an OpenType font from a byte slice.
// An ot.Font needs ongoing access to the fonts byte-data after the Parse function returns.
// Its elements are assumed immutable while the ot.Font remains in use.
//
// All tables are located and checked for consistency eagerly. Errors carry
// code core.EFORMAT for structural problems and core.EBOUNDS for offsets and
// lengths pointing beyond the end of the data.
func Parse(font []byte) (*Font, error) {
	src := binarySegm(font)
	// https://www.microsoft.com/typography/otspec/otff.htm: Offset Table is 12 bytes.
	if _, err := src.view(0, 12); err != nil {
		return nil, core.WrapError(err, core.EBOUNDS, "font data too short for offset table")
	}
	h := FontHeader{}
	h.FontType, _ = src.u32(0)
	h.TableCount, _ = src.u16(4)
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())
	if !(h.FontType == SignatureOpenType ||
		h.FontType == SignatureTrueType ||
		h.FontType == SignatureApple) {
		return nil, errFontFormat("font type not supported: %x", h.FontType)
	}
	otf := &Font{Header: &h, binary: src, tables: make(map[Tag]Table)}
	// "The Offset Table is followed immediately by the Table Record entries",
	// 16 bytes each.
	buf, err := src.view(12, 16*int(h.TableCount))
	if err != nil {
		return nil, core.WrapError(err, core.EBOUNDS, "table record entries")
	}
	for b := buf; len(b) > 0; b = b[16:] {
		tag := MakeTag(b)
		if _, dup := otf.tables[tag]; dup {
			return nil, errFontFormat("duplicate table %s", tag)
		}
		off, size := u32(b[8:12]), u32(b[12:16])
		if uint64(off)+uint64(size) > uint64(len(src)) {
			return nil, core.Error(core.EBOUNDS, "table %s at %d+%d exceeds font size %d",
				tag, off, size, len(src))
		}
		if otf.tables[tag], err = parseTable(tag, src[off:off+size], off, size); err != nil {
			return nil, err
		}
	}
	if err := extractFontInfo(otf); err != nil {
		return nil, err
	}
	if err := checkConsistency(otf); err != nil {
		return nil, err
	}
	return otf, nil
}

// Consistency check and shortcuts to essential tables.
func extractFontInfo(otf *Font) error {
	for _, tag := range RequiredTables {
		if otf.tables[T(tag)] == nil {
			return errFontFormat("missing required table %s", tag)
		}
	}
	otf.Head = otf.tables[T("head")].Self().AsHead()
	otf.HHea = otf.tables[T("hhea")].Self().AsHHea()
	otf.MaxP = otf.tables[T("maxp")].Self().AsMaxP()
	otf.HMtx = otf.tables[T("hmtx")].Self().AsHMtx()
	otf.CMap = otf.tables[T("cmap")].Self().AsCMap()
	otf.Loca = otf.tables[T("loca")].Self().AsLoca()
	otf.Glyf = otf.tables[T("glyf")]
	if k := otf.tables[T("kern")]; k != nil {
		otf.Kern = k.Self().AsKern()
	}
	if n := otf.tables[T("name")]; n != nil {
		otf.Name = n.Self().AsName()
	}
	return nil
}

// checkConsistency cross-checks tables which depend on each other.
// Table offsets into 'glyf' are interdependent, therefore a corrupt 'loca'
// table rejects the whole font rather than single glyphs.
func checkConsistency(otf *Font) error {
	n := otf.MaxP.NumGlyphs
	// hmtx: numberOfHMetrics long entries plus (numGlyphs - numberOfHMetrics) LSBs
	hm := otf.HHea.NumberOfHMetrics
	if hm < 1 || hm > n {
		return errFontFormat("hhea.numberOfHMetrics %d out of range 1…%d", hm, n)
	}
	if need := 4*hm + 2*(n-hm); len(otf.HMtx.data) < need {
		return errFontFormat("hmtx table too short: %d < %d", len(otf.HMtx.data), need)
	}
	otf.HMtx.NumberOfHMetrics = hm
	otf.HMtx.numGlyphs = n
	// loca: numGlyphs+1 entries, monotonic, within glyf
	loca := otf.Loca
	entrySize := 2
	switch otf.Head.IndexToLocFormat {
	case 0:
		loca.inx2loc = shortLocaVersion
	case 1:
		loca.inx2loc = longLocaVersion
		entrySize = 4
	default:
		return errFontFormat("head.indexToLocFormat %d", otf.Head.IndexToLocFormat)
	}
	if len(loca.data) < entrySize*(n+1) {
		return errFontFormat("loca table has fewer than %d entries", n+1)
	}
	loca.locCnt = n + 1
	_, glyfSize := otf.Glyf.Extent()
	prev := uint32(0)
	for i := 0; i <= n; i++ {
		loc := loca.inx2loc(loca, i)
		if loc < prev {
			return errFontFormat("loca entry %d not monotonic", i)
		}
		if loc > glyfSize {
			return errFontFormat("loca entry %d points beyond glyf table", i)
		}
		prev = loc
	}
	tracer().Debugf("font has %d glyphs, %d units per em", n, otf.Head.UnitsPerEm)
	return nil
}

func parseTable(t Tag, b binarySegm, offset, size uint32) (Table, error) {
	switch t {
	case T("cmap"):
		return parseCMap(t, b, offset, size)
	case T("head"):
		return parseHead(t, b, offset, size)
	case T("hhea"):
		return parseHHea(t, b, offset, size)
	case T("hmtx"):
		return parseHMtx(t, b, offset, size)
	case T("kern"):
		return parseKern(t, b, offset, size)
	case T("loca"):
		return parseLoca(t, b, offset, size)
	case T("maxp"):
		return parseMaxP(t, b, offset, size)
	case T("name"):
		return parseName(t, b, offset, size)
	}
	tracer().Debugf("font contains table (%s), will not be interpreted", t)
	return newTable(t, b, offset, size), nil
}

// --- Head table ------------------------------------------------------------

func parseHead(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 54 {
		return nil, errFontFormat("size of head table")
	}
	t := newHeadTable(tag, b, offset, size)
	t.FontRevision, _ = b.fixed(4)
	t.Flags, _ = b.u16(16)      // flags
	t.UnitsPerEm, _ = b.u16(18) // units per em
	if t.UnitsPerEm == 0 {
		return nil, errFontFormat("head.unitsPerEm is 0")
	}
	t.XMin, _ = b.i16(36)
	t.YMin, _ = b.i16(38)
	t.XMax, _ = b.i16(40)
	t.YMax, _ = b.i16(42)
	// IndexToLocFormat is needed to interpret the loca table:
	// 0 for short offsets, 1 for long
	t.IndexToLocFormat, _ = b.i16(50)
	return t, nil
}

// --- Loca table ------------------------------------------------------------

// Dependencies (taken from Apple Developer page about TrueType):
// The size of entries in the 'loca' table must be appropriate for the value of the
// indexToLocFormat field of the 'head' table. The number of entries must be the same
// as the numGlyphs field of the 'maxp' table.
// The 'loca' table is most intimately dependent upon the contents of the 'glyf' table
// and vice versa. Changes to the 'loca' table must not be made unless appropriate
// changes to the 'glyf' table are simultaneously made.
func parseLoca(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	return newLocaTable(tag, b, offset, size), nil
}

// --- MaxP table ------------------------------------------------------------

// This table establishes the memory requirements for this font. Fonts with CFF data
// must use Version 0.5 of this table, specifying only the numGlyphs field. Fonts
// with TrueType outlines must use Version 1.0 of this table, where all data is required.
func parseMaxP(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 6 {
		return nil, errFontFormat("size of maxp table")
	}
	t := newMaxPTable(tag, b, offset, size)
	n, _ := b.u16(4)
	if n == 0 {
		return nil, errFontFormat("maxp.numGlyphs is 0")
	}
	t.NumGlyphs = int(n)
	return t, nil
}

// --- HHea table ------------------------------------------------------------

// The 'hhea' table contains information for horizontal layout, most importantly
// the number of long entries in table 'hmtx'.
func parseHHea(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	tracer().Debugf("HHea table has size %d", size)
	if size < 36 {
		return nil, errFontFormat("hhea table incomplete")
	}
	t := newHHeaTable(tag, b, offset, size)
	t.Ascender, _ = b.i16(4)
	t.Descender, _ = b.i16(6)
	t.LineGap, _ = b.i16(8)
	n, _ := b.u16(34)
	t.NumberOfHMetrics = int(n)
	return t, nil
}

// --- HMtx table ------------------------------------------------------------

// Dependencies (taken from Apple Developer page about TrueType):
// The value of the numOfLongHorMetrics field is found in the 'hhea' (Horizontal Header)
// table. Fonts that lack an 'hhea' table must not have an 'hmtx' table.
// The table's size is checked against 'hhea' and 'maxp' in checkConsistency.
func parseHMtx(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	return newHMtxTable(tag, b, offset, size), nil
}
