package model

// GlobalStyles summarizes font usage across a whole document.
// Usage maps are weighted by character count, not block count.
type GlobalStyles struct {
	DefaultFont     string
	DefaultFontSize float64
	FontUsage       map[string]int
	SizeUsage       map[float64]int
}

// HasDefaults reports whether a default font was derived.
// It is false for documents without any text.
func (s GlobalStyles) HasDefaults() bool {
	return len(s.FontUsage) > 0
}

// DocumentLayout is the complete reconstructed layout of a document
type DocumentLayout struct {
	Pages       []*PageLayout // index = page number
	Styles      GlobalStyles
	FontMapping *FontMapping
}

// PageCount returns the number of pages
func (d *DocumentLayout) PageCount() int {
	return len(d.Pages)
}

// Page returns a page by number (0-indexed), or nil if out of range
func (d *DocumentLayout) Page(number int) *PageLayout {
	if number < 0 || number >= len(d.Pages) {
		return nil
	}
	return d.Pages[number]
}

// ExtractText returns the text of all pages concatenated
func (d *DocumentLayout) ExtractText() string {
	var text string
	for _, page := range d.Pages {
		text += page.ExtractText() + "\n"
	}
	return text
}

// MapFont maps a source font name through the document's font mapping,
// falling back to the default mapping when none is attached.
func (d *DocumentLayout) MapFont(name string) string {
	if d.FontMapping == nil {
		return DefaultFontMapping().Map(name)
	}
	return d.FontMapping.Map(name)
}
