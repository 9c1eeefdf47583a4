package ot

// KernTable gives information about kerning and kern pairs.
// The kerning table contains the values that control the inter-character spacing for
// the glyphs in a font. OpenType™ fonts containing CFF outlines are not supported
// by the 'kern' table and must use the GPOS OpenType Layout table.
type KernTable struct {
	tableBase
	headers []kernSubTableHeader
}

func newKernTable(tag Tag, b binarySegm, offset, size uint32) *KernTable {
	t := &KernTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

type kernSubTableHeader struct {
	pairs    binarySegm // kern pairs of 6 bytes each, sorted by (left, right)
	coverage KernSubTableInfo
}

// KernSubTableInfo contains header information for a kerning sub-table.
// Currently only format 0 of kerning tables is supported (as does MS Windows).
type KernSubTableInfo struct {
	IsHorizontal  bool // kern data may be horizontal or vertical
	IsMinimum     bool // if false, table has kerning values, otherwise has minimum values
	IsOverride    bool // if true, the value in this table should replace the value currently being accumulated
	IsCrossStream bool // if true, kerning is perpendicular to the flow of the text
	PairCount     int  // number of kern pairs
}

// SubTableCount returns the number of usable (format 0) kerning sub-tables.
func (t *KernTable) SubTableCount() int {
	return len(t.headers)
}

// SubTableInfo returns information about a kerning sub-table. n is 0…N-1.
func (t *KernTable) SubTableInfo(n int) KernSubTableInfo {
	if n < 0 || n >= len(t.headers) {
		return KernSubTableInfo{}
	}
	return t.headers[n].coverage
}

// Kerning returns the horizontal kerning adjustment for the ordered glyph pair
// (left, right), in font units. Pairs without an entry yield 0.
//
// Values of all horizontal, non-minimum, non-cross-stream sub-tables are
// accumulated; a sub-table flagged as override replaces the sum so far.
func (t *KernTable) Kerning(left, right GlyphIndex) int16 {
	if t == nil {
		return 0
	}
	var sum int16
	key := uint32(left)<<16 | uint32(right)
	for _, h := range t.headers {
		if !h.coverage.IsHorizontal || h.coverage.IsMinimum || h.coverage.IsCrossStream {
			continue
		}
		if v, ok := lookupKernPair(h.pairs, key); ok {
			if h.coverage.IsOverride {
				sum = v
			} else {
				sum += v
			}
		}
	}
	return sum
}

// lookupKernPair does a binary search on a format 0 pair array.
func lookupKernPair(pairs binarySegm, key uint32) (int16, bool) {
	lo, hi := 0, len(pairs)/6
	for lo < hi {
		i := (lo + hi) / 2
		k, _ := pairs.u32(6 * i)
		if k < key {
			lo = i + 1
		} else if k > key {
			hi = i
		} else {
			v, _ := pairs.i16(6*i + 4)
			return v, true
		}
	}
	return 0, false
}

// TrueType and OpenType slightly differ on formats of kern tables:
// see https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6kern.html
// and https://docs.microsoft.com/en-us/typography/opentype/spec/kern

// parseKern parses the kern table. There is significant confusion with this table
// concerning format differences between OpenType, TrueType, and fonts in the wild.
// We currently only support kern table format 0, which should be supported on any
// platform. In the real world, fonts usually have just one kern sub-table, and
// older Windows versions cannot handle more than one.
func parseKern(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	t := newKernTable(tag, b, offset, size)
	if size <= 4 {
		return t, nil
	}
	var N, suboffset int
	apple := false
	if version, _ := b.u32(0); version == 0x00010000 {
		tracer().Debugf("font has Apple TTF kern table format")
		n, _ := b.u32(4) // number of kerning tables is uint32
		N, suboffset, apple = int(n), 8, true
	} else {
		tracer().Debugf("font has OTF (MS) kern table format")
		n, _ := b.u16(2) // number of kerning tables is uint16
		N, suboffset = int(n), 4
	}
	tracer().Debugf("kern table has %d sub-tables", N)
	for i := 0; i < N; i++ { // read in N sub-tables
		var length, headerlen int
		var format uint16
		var info KernSubTableInfo
		if apple {
			l, err := b.u32(suboffset)
			if err != nil {
				return nil, errFontFormat("kern sub-table header")
			}
			coverage, _ := b.u16(suboffset + 4)
			length, headerlen, format = int(l), 8, coverage&0xff
			info.IsHorizontal = coverage&0x8000 == 0
			info.IsCrossStream = coverage&0x4000 != 0
		} else {
			l, err := b.u16(suboffset + 2)
			if err != nil {
				return nil, errFontFormat("kern sub-table header")
			}
			coverage, _ := b.u16(suboffset + 4)
			length, headerlen, format = int(l), 6, coverage>>8
			info.IsHorizontal = coverage&0x01 != 0
			info.IsMinimum = coverage&0x02 != 0
			info.IsCrossStream = coverage&0x04 != 0
			info.IsOverride = coverage&0x08 != 0
		}
		if format != 0 {
			tracer().Infof("kern sub-table format %d not supported, ignoring sub-table", format)
			if length <= headerlen {
				break // cannot skip reliably
			}
			suboffset += length
			continue // we only support format 0 kerning tables; skip this one
		}
		nPairs, err := b.u16(suboffset + headerlen)
		if err != nil {
			return nil, errFontFormat("kern sub-table format")
		}
		info.PairCount = int(nPairs)
		pairsStart := suboffset + headerlen + 8
		pairs, err := b.view(pairsStart, 6*int(nPairs))
		if err != nil {
			return nil, errFontFormat("kern sub-table size exceeds kern table bounds")
		}
		// For some fonts, size calculation of kern sub-tables is off; see
		// https://github.com/fonttools/fonttools/issues/314#issuecomment-118116527
		// Testable with the Calibri font.
		if sz := headerlen + 8 + 6*int(nPairs); sz != length {
			tracer().Infof("kern sub-table size should be 0x%x, but given as 0x%x; fixing",
				sz, length)
			length = sz
		}
		tracer().Debugf("kern sub-table has %d entries", nPairs)
		t.headers = append(t.headers, kernSubTableHeader{pairs: pairs, coverage: info})
		suboffset += length
	}
	tracer().Debugf("table kern has %d sub-table(s)", len(t.headers))
	return t, nil
}
