package ot

import (
	"sort"
)

// CMapTable represents an OpenType cmap table, i.e. the table to receive glyphs
// from code-points.
//
// See https://docs.microsoft.com/de-de/typography/opentype/spec/cmap
//
// Consulting the cmap table is a very frequent operation on fonts. We therefore
// construct an internal representation of the lookup table. A cmap table may contain
// more than one lookup table, but we will only instantiate the most appropriate one.
type CMapTable struct {
	tableBase
	GlyphIndexMap CMapGlyphIndex
	PlatformID    uint16 // platform of the selected sub-table
	EncodingID    uint16 // platform specific encoding of the selected sub-table
	Format        uint16 // format of the selected sub-table
}

func newCMapTable(tag Tag, b binarySegm, offset, size uint32) *CMapTable {
	t := &CMapTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// CMapGlyphIndex represents a CMap table index to receive a glyph index from
// a code-point.
type CMapGlyphIndex interface {
	Lookup(rune) GlyphIndex        // central activiy of CMap
	ReverseLookup(GlyphIndex) rune // this is non-standard, but helps with tests
}

type encodingRecord struct {
	platformID uint16
	encodingID uint16
	format     uint16
	subtable   binarySegm
}

// This table defines mapping of character codes to a default glyph index. Different
// subtables may be defined that each contain mappings for different character encoding
// schemes. The table header indicates the character encodings for which subtables are
// present.
//
// From the OpenType spec: “Apart from a format 14 subtable, all other subtables are exclusive:
// applications should select and use one and ignore the others.”
//
// We select a sub-table in this order of preference:
//
//	3 (Win)      1    Unicode BMP
//	0 (Unicode)  any  Unicode
//	any          any  first sub-table present
//
// Within each preference class the first sub-table of a supported format
// (4, 12 or 0) wins.
func parseCMap(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	n, err := b.u16(2) // number of sub-tables
	if err != nil {
		return nil, errFontFormat("size of cmap table")
	}
	tracer().Debugf("font cmap has %d sub-tables in %d bytes", n, size)
	const headerSize, entrySize = 4, 8
	if int(size) < headerSize+entrySize*int(n) {
		return nil, errFontFormat("size of cmap table")
	}
	var records []encodingRecord
	for i := 0; i < int(n); i++ {
		rec, _ := b.view(headerSize+entrySize*i, entrySize)
		link := u32(rec[4:])
		subtable, err := b.view(int(link), int(size)-int(link))
		if err != nil || len(subtable) < 2 {
			tracer().Infof("cmap sub-table %d cannot be located", i)
			continue
		}
		records = append(records, encodingRecord{
			platformID: u16(rec),
			encodingID: u16(rec[2:]),
			format:     u16(subtable),
			subtable:   subtable,
		})
	}
	enc, ok := selectEncoding(records)
	if !ok {
		return nil, errFontFormat("no supported cmap sub-table found")
	}
	tracer().Debugf("selected cmap sub-table (%d|%d) of format %d",
		enc.platformID, enc.encodingID, enc.format)
	t := newCMapTable(tag, b, offset, size)
	t.PlatformID, t.EncodingID, t.Format = enc.platformID, enc.encodingID, enc.format
	if t.GlyphIndexMap, err = makeGlyphIndex(enc); err != nil {
		return nil, err
	}
	return t, nil
}

func selectEncoding(records []encodingRecord) (encodingRecord, bool) {
	prefs := []func(encodingRecord) bool{
		func(r encodingRecord) bool { return r.platformID == 3 && r.encodingID == 1 },
		func(r encodingRecord) bool { return r.platformID == 0 },
		func(r encodingRecord) bool { return true },
	}
	for _, matches := range prefs {
		for _, r := range records {
			if matches(r) && supportedCmapFormat(r.format) {
				return r, true
			}
		}
	}
	return encodingRecord{}, false
}

// The various cmap formats are described at
// https://www.microsoft.com/typography/otspec/cmap.htm
//
// From the OpenType spec: Of the seven available formats, not all are commonly used today.
// Formats 4 or 12 are appropriate for most new fonts, depending on the Unicode character
// repertoire supported. Format 0 is still found in old fonts and in Mac-only sub-tables.
func supportedCmapFormat(format uint16) bool {
	return format == 0 || format == 4 || format == 12
}

// Dispatcher to create the correct implementation of a CMapGlyphIndex from a given format.
func makeGlyphIndex(which encodingRecord) (CMapGlyphIndex, error) {
	switch which.format {
	case 0:
		return makeGlyphIndexFormat0(which.subtable)
	case 4:
		return makeGlyphIndexFormat4(which.subtable)
	case 12:
		return makeGlyphIndexFormat12(which.subtable)
	}
	return nil, errFontFormat("cmap format %d not supported", which.format)
}

// --- Format 0 --------------------------------------------------------------

// Format 0: Byte encoding table. A simple 1-to-1 mapping of character codes
// 0…255 to glyph indices.
type format0GlyphIndex struct {
	glyphIds binarySegm
}

func makeGlyphIndexFormat0(b binarySegm) (CMapGlyphIndex, error) {
	ids, err := b.view(6, 256)
	if err != nil {
		return nil, errFontFormat("cmap format 0 sub-table too short")
	}
	return format0GlyphIndex{glyphIds: ids}, nil
}

func (f0 format0GlyphIndex) Lookup(r rune) GlyphIndex {
	if r < 0 || r > 0xff {
		return 0
	}
	return GlyphIndex(f0.glyphIds[r])
}

func (f0 format0GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	for c, g := range f0.glyphIds {
		if GlyphIndex(g) == gid {
			return rune(c)
		}
	}
	return 0
}

// --- Format 4 --------------------------------------------------------------

// Format 4: Segment mapping to delta values
// This is the standard character-to-glyph-index mapping subtable for fonts that support
// only Unicode Basic Multilingual Plane characters (U+0000 to U+FFFF).
//
// This format is used when the character codes for the characters represented by a font
// fall into several contiguous ranges, possibly with holes in some or all of the ranges
// (that is, some of the codes in a range may not have a representation in the font).
type format4GlyphIndex struct {
	entries []cmapEntry16
	data    binarySegm // the sub-table, for the glyph ID array indirection
}

// Format 4 holds four parallel arrays to describe the segments (one segment for
// each contiguous range of codes).
// see https://docs.microsoft.com/en-us/typography/opentype/spec/cmap#format-4-segment-mapping-to-delta-values
type cmapEntry16 struct {
	end, start, delta, offset uint16
	offsetPos                 int // byte position of this entry's idRangeOffset within the sub-table
}

// The format's data is divided into three parts, which must occur in the following order:
//
// - A four-word header gives parameters for an optimized search of the segment list;
// - Four parallel arrays describe the segments (one segment for each contiguous range of codes);
// - A variable-length array of glyph IDs (unsigned words).
func makeGlyphIndexFormat4(b binarySegm) (CMapGlyphIndex, error) {
	const headerSize = 14
	if headerSize > b.Size() {
		return nil, errFontFormat("cmap subtable bounds overflow")
	}
	size, _ := b.u16(2)
	segCountX2, _ := b.u16(6)
	if segCountX2&1 != 0 || segCountX2 == 0 {
		tracer().Debugf("cmap format 4 segment count is %d", segCountX2)
		return nil, errFontFormat("cmap table format, illegal segment count")
	}
	segCount := int(segCountX2) / 2
	eLength := 8*segCount + 2
	if headerSize+eLength > b.Size() || headerSize+eLength > int(size) {
		return nil, errFontFormat("cmap internal structure")
	}
	if int(size) < b.Size() {
		b = b[:size]
	}
	endPos := headerSize
	startPos := endPos + 2*segCount + 2 // 2 is the reservedPad entry
	deltaPos := startPos + 2*segCount
	offsetPos := deltaPos + 2*segCount
	entries := make([]cmapEntry16, segCount)
	for i := range entries {
		e := &entries[i]
		e.end, _ = b.u16(endPos + 2*i)
		e.start, _ = b.u16(startPos + 2*i)
		e.delta, _ = b.u16(deltaPos + 2*i)
		e.offset, _ = b.u16(offsetPos + 2*i)
		e.offsetPos = offsetPos + 2*i
		if i > 0 && e.end <= entries[i-1].end {
			return nil, errFontFormat("cmap format 4 endCode array not sorted")
		}
	}
	return format4GlyphIndex{entries: entries, data: b}, nil
}

func (f4 format4GlyphIndex) Lookup(r rune) GlyphIndex {
	if r < 0 || r > 0xffff { // format 4 is for BMP code-points only
		return 0 // return index for 'missing character'
	}
	c := uint16(r)
	// smallest endCode >= c
	h := sort.Search(len(f4.entries), func(i int) bool {
		return f4.entries[i].end >= c
	})
	if h == len(f4.entries) || c < f4.entries[h].start {
		return 0
	}
	return f4.resolve(&f4.entries[h], c)
}

// resolve maps code-point c of segment entry to a glyph index.
//
// The spec describes the calculation of the link into the glyph ID array as
// follows: “The character code offset from startCode is added to the
// idRangeOffset value. This sum is used as an offset from the current location
// within idRangeOffset itself to index out the correct glyphIdArray value.”
// We kept the whole sub-table around, so we may do exactly that.
func (f4 format4GlyphIndex) resolve(entry *cmapEntry16, c uint16) GlyphIndex {
	if entry.offset == 0 {
		return GlyphIndex(c + entry.delta) // modulo 65536
	}
	pos := entry.offsetPos + int(entry.offset) + 2*int(c-entry.start)
	g, err := f4.data.u16(pos)
	if err != nil || g == 0 {
		// If the value obtained from the indexing operation is not 0 (which indicates
		// missingGlyph), idDelta[i] is added to it to get the glyph index
		return 0
	}
	return GlyphIndex(g + entry.delta)
}

// ReverseLookup retrieves a code-point for a given glyph. The Cmap tables do not
// support this operation, thus this operation is inefficient.
// However, for testing and debugging purposes it is often useful.
func (f4 format4GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	for i := range f4.entries {
		entry := &f4.entries[i]
		if entry.end < entry.start || entry.start == 0xffff {
			continue
		}
		for c := uint32(entry.start); c <= uint32(entry.end); c++ {
			if f4.resolve(entry, uint16(c)) == gid {
				return rune(c)
			}
		}
	}
	return 0
}

// --- Format 12 -------------------------------------------------------------

type cmapEntry32 struct {
	start, end, delta uint32
}

// Each sequential map group record specifies a character range and the starting glyph ID
// mapped from the first character. Glyph IDs for subsequent characters follow in sequence.
type format12GlyphIndex struct {
	entries []cmapEntry32
}

func (f12 format12GlyphIndex) Lookup(r rune) GlyphIndex {
	c := uint32(r)
	for i, j := 0, len(f12.entries); i < j; {
		h := i + (j-i)/2 // do a binary search on f12.entries (which may get large)
		entry := &f12.entries[h]
		if c < entry.start {
			j = h
		} else if entry.end < c {
			i = h + 1
		} else {
			return GlyphIndex(c - entry.start + entry.delta)
		}
	}
	return 0
}

// ReverseLookup retrieves a code-point for a given glyph. The Cmap tables do not
// support this operation, thus this operation is inefficient.
// However, for testing and debugging purposes it is often useful.
func (f12 format12GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	cid := uint32(gid)
	for _, entry := range f12.entries {
		if cid >= entry.delta && cid-entry.delta <= entry.end-entry.start {
			return rune(entry.start + cid - entry.delta)
		}
	}
	return 0
}

// This is the standard character-to-glyph-index mapping subtable for fonts supporting
// Unicode character repertoires that include supplementary-plane characters (U+10000 to
// U+10FFFF).
//
// Format 12 is similar to format 4 in that it defines segments for sparse representation.
// It differs, however, in that it uses 32-bit character codes, and Glyph ID lookup
// and calculation is a lot simpler.
func makeGlyphIndexFormat12(b binarySegm) (CMapGlyphIndex, error) {
	const headerSize = 16
	if headerSize > b.Size() {
		return nil, errFontFormat("cmap subtable bounds overflow")
	}
	grpCount, _ := b.u32(12)
	groups, err := b.view(headerSize, 12*int(grpCount))
	if err != nil || grpCount > 0x10ffff {
		return nil, errFontFormat("cmap internal structure")
	}
	// SequentialMapGroup Record:
	// Type     Name            Description
	// uint32   startCharCode   First character code in this group
	// uint32   endCharCode     Last character code in this group
	// uint32   startGlyphID    Glyph index corresponding to the starting character code
	entries := make([]cmapEntry32, grpCount)
	for i := range entries {
		g := groups[12*i:]
		entries[i] = cmapEntry32{
			start: u32(g),
			end:   u32(g[4:]),
			delta: u32(g[8:]),
		}
		if entries[i].end < entries[i].start {
			return nil, errFontFormat("cmap format 12 group %d is inverted", i)
		}
	}
	return format12GlyphIndex{entries: entries}, nil
}
