package ot

// Font represents the internal structure of a TrueType/OpenType font.
// It is created once by Parse and never mutated afterwards.
//
// The required tables are available as shortcuts. Kern and Name are
// optional and may be nil.
type Font struct {
	Header *FontHeader
	binary binarySegm
	tables map[Tag]Table
	Head   *HeadTable
	MaxP   *MaxPTable
	HHea   *HHeaTable
	HMtx   *HMtxTable
	CMap   *CMapTable
	Loca   *LocaTable
	Glyf   Table
	Kern   *KernTable // optional
	Name   *NameTable // optional
}

// FontHeader is the offset table at the start of the font binary.
//
// OpenType fonts that contain TrueType outlines should use the value of 0x00010000
// for the FontType. OpenType fonts containing CFF data (version 1 or 2) should
// use 0x4F54544F ('OTTO', when re-interpreted as a Tag).
// The Apple specification for TrueType fonts allows for 'true' and 'typ1',
// but these version tags should not be used for OpenType fonts.
type FontHeader struct {
	FontType   uint32
	TableCount uint16
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
//
// Tables without a semantic Go type are returned as generic tables, i.e. no table
// information will be dropped. For example to receive the `OS/2` and the `loca` table,
// clients may call
//
//	os2  := otf.Table(ot.T("OS/2"))
//	loca := otf.Table(ot.T("loca")).Self().AsLoca()
func (otf *Font) Table(tag Tag) Table {
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns a list of tags, one for each table contained in the font.
func (otf *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	return tags
}

// Binary returns the font's binary data. Clients must treat it as read-only.
func (otf *Font) Binary() []byte {
	return otf.binary
}

// NumGlyphs returns the number of glyphs in the font, as stated by table 'maxp'.
func (otf *Font) NumGlyphs() int {
	return otf.MaxP.NumGlyphs
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is defined by the OpenType spec as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
// If b is shorter or longer, it will be silently extended or cut as appropriate
//
//	MakeTag([]byte("cmap"))
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// --- Table -----------------------------------------------------------------

// Table represents one of the various OpenType font tables.
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table; should be treated as read-only by clients
	Self() TableSelf          // reference to itself
}

func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	},
	}
	t.self = t
	return t
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of OpenType tables.
type tableBase struct {
	data   binarySegm // a table is a slice of font data
	name   Tag        // 4-byte name as an integer
	offset uint32     // from offset
	length uint32     // to offset + length
	self   interface{}
}

func makeTableBase(tag Tag, b binarySegm, offset, size uint32) tableBase {
	return tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
}

// Extent returns offset and byte size of this table within the font.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. Should be treated as read-only by
// clients, as it is a view into the original data.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

// TableSelf is a reference to a table. Its primary use is for converting
// a generic table to a concrete table flavour, and for reproducing the
// name tag of a table.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	return tself.tableBase.name
}

func safeSelf(tself TableSelf) interface{} {
	if tself.tableBase == nil || tself.tableBase.self == nil {
		return TableSelf{}
	}
	return tself.tableBase.self
}

// AsCMap returns this table as a cmap table, or nil.
func (tself TableSelf) AsCMap() *CMapTable {
	if k, ok := safeSelf(tself).(*CMapTable); ok {
		return k
	}
	return nil
}

// AsLoca returns this table as a loca table, or nil.
func (tself TableSelf) AsLoca() *LocaTable {
	if k, ok := safeSelf(tself).(*LocaTable); ok {
		return k
	}
	return nil
}

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable {
	if k, ok := safeSelf(tself).(*MaxPTable); ok {
		return k
	}
	return nil
}

// AsKern returns this table as a kern table, or nil.
func (tself TableSelf) AsKern() *KernTable {
	if k, ok := safeSelf(tself).(*KernTable); ok {
		return k
	}
	return nil
}

// AsHead returns this table as a head table, or nil.
func (tself TableSelf) AsHead() *HeadTable {
	if k, ok := safeSelf(tself).(*HeadTable); ok {
		return k
	}
	return nil
}

// AsHHea returns this table as a hhea table, or nil.
func (tself TableSelf) AsHHea() *HHeaTable {
	if k, ok := safeSelf(tself).(*HHeaTable); ok {
		return k
	}
	return nil
}

// AsHMtx returns this table as a hmtx table, or nil.
func (tself TableSelf) AsHMtx() *HMtxTable {
	if k, ok := safeSelf(tself).(*HMtxTable); ok {
		return k
	}
	return nil
}

// AsName returns this table as a name table, or nil.
func (tself TableSelf) AsName() *NameTable {
	if k, ok := safeSelf(tself).(*NameTable); ok {
		return k
	}
	return nil
}

// --- Concrete table implementations ----------------------------------------

// HeadTable gives global information about the font.
// Only a small subset of fields are made public by HeadTable, as they are
// needed for consistency-checks and for scaling glyphs.
type HeadTable struct {
	tableBase
	FontRevision     float64 // set by font manufacturer
	Flags            uint16  // see https://docs.microsoft.com/en-us/typography/opentype/spec/head
	UnitsPerEm       uint16  // values 16 … 16384 are valid
	XMin, YMin       int16   // bounding box over all glyphs
	XMax, YMax       int16   //
	IndexToLocFormat int16   // needed to interpret loca table
}

func newHeadTable(tag Tag, b binarySegm, offset, size uint32) *HeadTable {
	t := &HeadTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// MaxPTable establishes the memory requirements for this font.
// The 'maxp' table contains a count for the number of glyphs in the font.
// Whenever this value changes, other tables which depend on it should also be updated.
type MaxPTable struct {
	tableBase
	NumGlyphs int
}

func newMaxPTable(tag Tag, b binarySegm, offset, size uint32) *MaxPTable {
	t := &MaxPTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// HHeaTable contains information for horizontal layout.
type HHeaTable struct {
	tableBase
	Ascender         int16 // distance from baseline of highest ascender
	Descender        int16 // distance from baseline of lowest descender (negative)
	LineGap          int16 // typographic line gap
	NumberOfHMetrics int
}

func newHHeaTable(tag Tag, b binarySegm, offset, size uint32) *HHeaTable {
	t := &HHeaTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// HMtxTable contains metric information for the horizontal layout each of the glyphs in
// the font. Each element in the contained hMetrics-array has two parts: the advance width
// and left side bearing. The value NumberOfHMetrics is taken from the `hhea` table. In
// a monospaced font, only one entry is required but that entry may not be omitted.
// Optionally, an array of left side bearings follows.
// The corresponding glyphs are assumed to have the same
// advance width as that found in the last entry in the hMetrics array.
type HMtxTable struct {
	tableBase
	NumberOfHMetrics int
	numGlyphs        int
}

func newHMtxTable(tag Tag, b binarySegm, offset, size uint32) *HMtxTable {
	t := &HMtxTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// HMetrics returns the advance width and left side bearing of a glyph.
// Glyph indices beyond the font's glyph count yield zero values.
func (t *HMtxTable) HMetrics(g GlyphIndex) (uint16, int16) {
	if int(g) >= t.numGlyphs || t.NumberOfHMetrics == 0 {
		return 0, 0
	}
	if int(g) < t.NumberOfHMetrics {
		a, _ := t.data.u16(int(g) * 4)
		lsb, _ := t.data.i16(int(g)*4 + 2)
		return a, lsb
	}
	a, _ := t.data.u16((t.NumberOfHMetrics - 1) * 4)
	diff := int(g) - t.NumberOfHMetrics
	lsb, _ := t.data.i16(t.NumberOfHMetrics*4 + diff*2)
	return a, lsb
}

// LocaTable stores the offsets to the locations of the glyphs in the font,
// relative to the beginning of the glyph data table.
// By definition, index zero points to the “missing character”, which is the character
// that appears if a character is not found in the font. The missing character is
// commonly represented by a blank box or a space.
type LocaTable struct {
	tableBase
	inx2loc func(t *LocaTable, i int) uint32 // returns location number i
	locCnt  int                              // number of locations
}

func newLocaTable(tag Tag, b binarySegm, offset, size uint32) *LocaTable {
	t := &LocaTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.inx2loc = shortLocaVersion // may get changed by font consistency check
	t.self = t
	return t
}

// IndexToLocation returns the offset of glyph gid's data within the 'glyf' table.
func (t *LocaTable) IndexToLocation(gid GlyphIndex) uint32 {
	return t.inx2loc(t, int(gid))
}

// GlyphRange returns start and end offset of a glyph's data within the 'glyf' table.
// Start and end are equal for glyphs without an outline.
func (t *LocaTable) GlyphRange(gid GlyphIndex) (uint32, uint32) {
	return t.inx2loc(t, int(gid)), t.inx2loc(t, int(gid)+1)
}

func shortLocaVersion(t *LocaTable, i int) uint32 {
	// in case of error link to 'missing character' at location 0
	if i >= t.locCnt {
		return 0
	}
	loc, err := t.data.u16(i * 2)
	if err != nil {
		return 0
	}
	return uint32(loc) * 2
}

func longLocaVersion(t *LocaTable, i int) uint32 {
	// in case of error link to 'missing character' at location 0
	if i >= t.locCnt {
		return 0
	}
	loc, err := t.data.u32(i * 4)
	if err != nil {
		return 0
	}
	return loc
}
