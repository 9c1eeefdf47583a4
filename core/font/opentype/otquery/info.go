package otquery

import (
	"github.com/npillmayer/glyphs/core/font/opentype/ot"
)

// FontType returns the font type, encoded in the font header, as a string.
func FontType(otf *ot.Font) string {
	if otf.Header == nil {
		return "<empty>"
	}
	switch otf.Header.FontType {
	case ot.SignatureOpenType:
		return "OpenType (outlines)"
	case ot.SignatureTrueType:
		return "TrueType"
	case ot.SignatureApple:
		return "TrueType (Mac legacy)"
	}
	return "<unknown>"
}

// NameInfo returns a map with selected fields from table `name`.
// Will include (if available in the font) "family" and "fullname".
func NameInfo(otf *ot.Font) map[string]string {
	names := make(map[string]string)
	if otf.Name == nil {
		tracer().Debugf("no name table found in font")
		return names
	}
	if fam, ok := otf.Name.Lookup(ot.NameFamily); ok {
		names["family"] = fam
	}
	if full, ok := otf.Name.Lookup(ot.NameFullName); ok {
		names["fullname"] = full
	}
	return names
}

// FontName returns a human readable name for a font: the full name if
// present, the family name otherwise. Fonts without names yield "".
func FontName(otf *ot.Font) string {
	names := NameInfo(otf)
	if n, ok := names["fullname"]; ok && n != "" {
		return n
	}
	return names["family"]
}

// LayoutTables returns a list of tag strings, one for each layout-table a font includes.
// Layout tables are not interpreted by this module; clients may use this list to
// detect fonts which would need a shaping engine for correct display.
//
// From the OpenType spec:
// OpenType Layout makes use of five tables: GSUB, GPOS, BASE, JSTF, and GDEF.
func LayoutTables(otf *ot.Font) []string {
	var lt []string
	tags := otf.TableTags()
	for _, tag := range tags {
		switch tag.String() {
		case "GSUB", "GPOS", "BASE", "JSTF", "GDEF":
			lt = append(lt, tag.String())
		}
	}
	return lt
}
