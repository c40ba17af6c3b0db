package layout

import "github.com/tsawler/relayout/model"

// Zone boundaries for layout elements, as fractions of page height.
// Elements whose vertical center lies above DefaultElementHeaderZone are
// headers; below DefaultElementFooterZone they are footers.
const (
	DefaultElementHeaderZone = 0.15
	DefaultElementFooterZone = 0.85
)

// Zone boundaries for raw text blocks, as fractions of page height.
// These are deliberately narrower than the element zones.
const (
	DefaultTextBlockHeaderZone = 0.10
	DefaultTextBlockFooterZone = 0.90
)

// RegionType indicates whether an element belongs to the header, footer or body
type RegionType int

const (
	Body RegionType = iota
	Header
	Footer
)

func (r RegionType) String() string {
	switch r {
	case Header:
		return "header"
	case Footer:
		return "footer"
	default:
		return "body"
	}
}

// HeaderFooterConfig holds the element-level zone boundaries
type HeaderFooterConfig struct {
	// HeaderZone is the fraction of page height from the top that forms the
	// header zone. Default: 0.15
	HeaderZone float64

	// FooterZone is the fraction of page height below which content is footer.
	// Default: 0.85
	FooterZone float64
}

// DefaultHeaderFooterConfig returns the element-level defaults
func DefaultHeaderFooterConfig() HeaderFooterConfig {
	return HeaderFooterConfig{
		HeaderZone: DefaultElementHeaderZone,
		FooterZone: DefaultElementFooterZone,
	}
}

// HeaderFooterSeparator partitions a page's elements by vertical position.
// It is a hard threshold classifier on each element's vertical center and
// does not look at content.
type HeaderFooterSeparator struct {
	config HeaderFooterConfig
}

// NewHeaderFooterSeparator creates a separator with default configuration
func NewHeaderFooterSeparator() *HeaderFooterSeparator {
	return &HeaderFooterSeparator{
		config: DefaultHeaderFooterConfig(),
	}
}

// NewHeaderFooterSeparatorWithConfig creates a separator with custom configuration
func NewHeaderFooterSeparatorWithConfig(config HeaderFooterConfig) *HeaderFooterSeparator {
	return &HeaderFooterSeparator{
		config: config,
	}
}

// Classify returns the region of a single element. Elements without a
// painted position are always body.
func (s *HeaderFooterSeparator) Classify(elem model.Element, pageHeight float64) RegionType {
	if !model.Placed(elem) {
		return Body
	}

	yCenter := elem.BoundingBox().CenterY()

	switch {
	case yCenter < pageHeight*s.config.HeaderZone:
		return Header
	case yCenter > pageHeight*s.config.FooterZone:
		return Footer
	default:
		return Body
	}
}

// Separate partitions elements into headers, footers and body. The input
// slice is not modified; each returned slice is newly allocated and keeps
// the input order.
func (s *HeaderFooterSeparator) Separate(elements []model.Element, pageHeight float64) (headers, footers, body []model.Element) {
	headers = make([]model.Element, 0)
	footers = make([]model.Element, 0)
	body = make([]model.Element, 0, len(elements))

	for _, elem := range elements {
		switch s.Classify(elem, pageHeight) {
		case Header:
			headers = append(headers, elem)
		case Footer:
			footers = append(footers, elem)
		default:
			body = append(body, elem)
		}
	}

	return headers, footers, body
}

// TextBlockZoneConfig holds the zone boundaries used on raw text blocks
type TextBlockZoneConfig struct {
	HeaderZone float64 // Default: 0.10
	FooterZone float64 // Default: 0.90
}

// DefaultTextBlockZoneConfig returns the text-block level defaults
func DefaultTextBlockZoneConfig() TextBlockZoneConfig {
	return TextBlockZoneConfig{
		HeaderZone: DefaultTextBlockHeaderZone,
		FooterZone: DefaultTextBlockFooterZone,
	}
}

// DetectTextBlockHeadersFooters flags raw text blocks by edge position:
// a block is a header when its top edge is above the header zone and a
// footer when its bottom edge is below the footer zone. A block tall enough
// to satisfy both is reported in both lists.
func DetectTextBlockHeadersFooters(blocks []*model.TextBlock, pageHeight float64, config TextBlockZoneConfig) (headers, footers []*model.TextBlock) {
	headerLimit := pageHeight * config.HeaderZone
	footerLimit := pageHeight * config.FooterZone

	for _, b := range blocks {
		if b.BBox.Y0 < headerLimit {
			headers = append(headers, b)
		}
		if b.BBox.Y1 > footerLimit {
			footers = append(footers, b)
		}
	}

	return headers, footers
}
