package model

// Column is a horizontal interval of the page occupied by text
type Column struct {
	XStart float64
	XEnd   float64
	Width  float64
}

// NewColumn creates a column spanning [xStart, xEnd]
func NewColumn(xStart, xEnd float64) Column {
	return Column{XStart: xStart, XEnd: xEnd, Width: xEnd - xStart}
}

// Margins holds page margins in points
type Margins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// PageLayout is the reconstructed layout of a single page.
//
// Elements holds the body in reading order. Elements, Headers and Footers
// are disjoint and together contain every element built for the page.
type PageLayout struct {
	PageNum  int // 0-indexed
	Size     PageSize
	Elements []Element
	Columns  []Column
	Margins  Margins
	Headers  []Element
	Footers  []Element
}

// AllElements returns headers, body and footers in emission order
func (p *PageLayout) AllElements() []Element {
	all := make([]Element, 0, p.ElementCount())
	all = append(all, p.Headers...)
	all = append(all, p.Elements...)
	all = append(all, p.Footers...)
	return all
}

// ElementCount returns the total number of elements across all zones
func (p *PageLayout) ElementCount() int {
	return len(p.Headers) + len(p.Elements) + len(p.Footers)
}

// ExtractText concatenates the text of all text-bearing elements
// in emission order, one element per line.
func (p *PageLayout) ExtractText() string {
	var text string
	for _, elem := range p.AllElements() {
		if s := ElementText(elem); s != "" {
			text += s + "\n"
		}
	}
	return text
}
