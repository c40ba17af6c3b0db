package model

import (
	"sort"
	"strings"
)

// DefaultFontFamily is used when a font name matches nothing in the mapping
const DefaultFontFamily = "Arial"

// FontMapEntry maps one source font name to an output font family
type FontMapEntry struct {
	Source string
	Family string
}

// FontMapping translates PDF font names into font families available to
// word processors. It is immutable once built and safe for concurrent use.
//
// Substring matching walks the entries in construction order, so earlier
// entries win when several source names occur inside the same font name.
type FontMapping struct {
	entries []FontMapEntry
	exact   map[string]string
}

var standardFontEntries = []FontMapEntry{
	{"Arial", "Arial"},
	{"ArialMT", "Arial"},
	{"Arial-Bold", "Arial"},
	{"Arial-Italic", "Arial"},
	{"Arial-BoldItalic", "Arial"},
	{"Helvetica", "Arial"},
	{"Helvetica-Bold", "Arial"},
	{"Helvetica-Oblique", "Arial"},
	{"Helvetica-BoldOblique", "Arial"},
	{"Times-Roman", "Times New Roman"},
	{"Times-Bold", "Times New Roman"},
	{"Times-Italic", "Times New Roman"},
	{"Times-BoldItalic", "Times New Roman"},
	{"TimesNewRomanPSMT", "Times New Roman"},
	{"Courier", "Courier New"},
	{"Courier-Bold", "Courier New"},
	{"Courier-Oblique", "Courier New"},
	{"Courier-BoldOblique", "Courier New"},
	{"Symbol", "Symbol"},
	{"ZapfDingbats", "Wingdings"},
}

// family keywords tried after the table, in order
var familyKeywords = []FontMapEntry{
	{"Arial", "Arial"},
	{"Helvetica", "Arial"},
	{"Times", "Times New Roman"},
	{"Courier", "Courier New"},
}

// NewFontMapping builds a mapping from the given entries.
// A later entry with the same source name replaces the earlier family
// but keeps the earlier position. Entries with a blank family are ignored.
func NewFontMapping(entries ...FontMapEntry) *FontMapping {
	m := &FontMapping{
		entries: make([]FontMapEntry, 0, len(entries)),
		exact:   make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if strings.TrimSpace(e.Family) == "" {
			continue
		}
		if _, ok := m.exact[e.Source]; ok {
			for i := range m.entries {
				if m.entries[i].Source == e.Source {
					m.entries[i].Family = e.Family
				}
			}
		} else {
			m.entries = append(m.entries, e)
		}
		m.exact[e.Source] = e.Family
	}
	return m
}

// DefaultFontMapping returns the mapping for the standard PDF font aliases
func DefaultFontMapping() *FontMapping {
	return NewFontMapping(standardFontEntries...)
}

// WithOverrides returns a new mapping with the given source names added or
// replaced. Overrides are applied in sorted key order for determinism; a
// blank family leaves the existing entry in place.
func (m *FontMapping) WithOverrides(overrides map[string]string) *FontMapping {
	entries := m.Entries()
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		entries = append(entries, FontMapEntry{Source: k, Family: overrides[k]})
	}
	return NewFontMapping(entries...)
}

// Entries returns a copy of the mapping table in order
func (m *FontMapping) Entries() []FontMapEntry {
	out := make([]FontMapEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of entries
func (m *FontMapping) Len() int {
	return len(m.entries)
}

// Lookup returns the family for an exact source font name
func (m *FontMapping) Lookup(name string) (string, bool) {
	family, ok := m.exact[name]
	return family, ok
}

// Map returns the output family for a source font name. It never returns
// the empty string.
func (m *FontMapping) Map(name string) string {
	if family, ok := m.exact[name]; ok {
		return family
	}

	base := stripSubsetPrefix(name)
	if family, ok := m.exact[base]; ok {
		return family
	}

	lower := strings.ToLower(base)
	for _, e := range m.entries {
		if e.Source != "" && strings.Contains(lower, strings.ToLower(e.Source)) {
			return e.Family
		}
	}

	for _, e := range familyKeywords {
		if strings.Contains(base, e.Source) {
			return e.Family
		}
	}

	return DefaultFontFamily
}

// stripSubsetPrefix removes the six-letter tag of embedded font subsets,
// as in "ABCDEF+Arial-BoldMT".
func stripSubsetPrefix(name string) string {
	if len(name) > 7 && name[6] == '+' {
		for i := 0; i < 6; i++ {
			if name[i] < 'A' || name[i] > 'Z' {
				return name
			}
		}
		return name[7:]
	}
	return name
}
