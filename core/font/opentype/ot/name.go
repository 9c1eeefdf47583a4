package ot

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// Name IDs of table 'name' we care about.
const (
	NameFamily   uint16 = 1
	NameFullName uint16 = 4
)

// NameTable holds human readable names for the font, e.g. the family name.
type NameTable struct {
	tableBase
	records []nameRecord
	strbuf  binarySegm
}

type nameRecord struct {
	platformID, encodingID, nameID uint16
	str                            binarySegm
}

func newNameTable(tag Tag, b binarySegm, offset, size uint32) *NameTable {
	t := &NameTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// parseName locates the name records. Records pointing outside of the
// string storage are dropped; a broken 'name' table is not fatal for a font.
func parseName(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	t := newNameTable(tag, b, offset, size)
	if len(b) < 6 {
		tracer().Infof("name table corrupt, ignoring")
		return t, nil
	}
	N, _ := b.u16(2)
	strOffset, _ := b.u16(4)
	if int(strOffset) > len(b) {
		tracer().Infof("name table string storage out of bounds, ignoring")
		return t, nil
	}
	t.strbuf = b[strOffset:]
	tracer().Debugf("name table has %d strings, starting at %d", N, strOffset)
	for i := 0; i < int(N); i++ {
		rec, err := b.view(6+12*i, 12)
		if err != nil {
			break
		}
		strlen, stroff := int(u16(rec[8:])), int(u16(rec[10:]))
		str, err := t.strbuf.view(stroff, strlen)
		if err != nil {
			continue
		}
		t.records = append(t.records, nameRecord{
			platformID: u16(rec),
			encodingID: u16(rec[2:]),
			nameID:     u16(rec[6:]),
			str:        str,
		})
	}
	return t, nil
}

// Lookup returns the string for a name ID. Unicode and Windows records are
// preferred over Macintosh records. If no record exists for nameID,
// ok is false.
func (t *NameTable) Lookup(nameID uint16) (name string, ok bool) {
	if t == nil {
		return "", false
	}
	var mac *nameRecord
	for i := range t.records {
		r := &t.records[i]
		if r.nameID != nameID {
			continue
		}
		if r.platformID == 0 || (r.platformID == 3 && (r.encodingID == 1 || r.encodingID == 10)) {
			s, err := decodeUtf16(r.str)
			if err != nil {
				tracer().Infof("name record %d: %v", nameID, err)
				continue
			}
			return s, true
		}
		if r.platformID == 1 && r.encodingID == 0 && mac == nil {
			mac = r
		}
	}
	if mac != nil { // Mac Roman; we accept the ASCII subset
		return string(mac.str), true
	}
	return "", false
}

func decodeUtf16(str []byte) (string, error) {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	decoder := enc.NewDecoder()
	s, err := decoder.Bytes(str)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-16 error: %v", err)
	}
	return string(s), nil
}
