package model

// ElementType represents the kind of content a layout element wraps
type ElementType int

const (
	ElementTypeText ElementType = iota
	ElementTypeImage
	ElementTypeOCRText
)

func (et ElementType) String() string {
	switch et {
	case ElementTypeText:
		return "text"
	case ElementTypeImage:
		return "image"
	case ElementTypeOCRText:
		return "ocr_text"
	default:
		return "unknown"
	}
}

// Z-order per element type. Higher values are logically on top.
const (
	ZOrderImage   = 0
	ZOrderText    = 1
	ZOrderOCRText = 2
)

// Element is a positioned item on a reconstructed page. The set of
// implementations is closed: *TextElement, *ImageElement and *OCRTextElement.
// Use a type switch to dispatch on the concrete content.
type Element interface {
	Type() ElementType
	BoundingBox() BBox
	ZIndex() int
	Page() int

	element()
}

// TextElement wraps a TextBlock. Block points at the caller's value and is not copied.
type TextElement struct {
	Block   *TextBlock
	PageNum int
}

func (e *TextElement) Type() ElementType { return ElementTypeText }
func (e *TextElement) BoundingBox() BBox { return e.Block.BBox }
func (e *TextElement) ZIndex() int       { return ZOrderText }
func (e *TextElement) Page() int         { return e.PageNum }
func (e *TextElement) element()          {}

// ImageElement wraps an ImageBlock
type ImageElement struct {
	Block   *ImageBlock
	PageNum int
}

func (e *ImageElement) Type() ElementType { return ElementTypeImage }
func (e *ImageElement) BoundingBox() BBox { return e.Block.BBox }
func (e *ImageElement) ZIndex() int       { return ZOrderImage }
func (e *ImageElement) Page() int         { return e.PageNum }
func (e *ImageElement) element()          {}

// OCRTextElement wraps an OCRResult
type OCRTextElement struct {
	Result  *OCRResult
	PageNum int
}

func (e *OCRTextElement) Type() ElementType { return ElementTypeOCRText }
func (e *OCRTextElement) BoundingBox() BBox { return e.Result.BBox }
func (e *OCRTextElement) ZIndex() int       { return ZOrderOCRText }
func (e *OCRTextElement) Page() int         { return e.PageNum }
func (e *OCRTextElement) element()          {}

// ElementText returns the textual content of text and OCR elements,
// and the empty string for images.
func ElementText(e Element) string {
	switch el := e.(type) {
	case *TextElement:
		return el.Block.Text
	case *OCRTextElement:
		return el.Result.Text
	default:
		return ""
	}
}

// Placed reports whether the element's box is its painted position on the
// page. Images the content never paints, and text recognized in them, are
// not placed.
func Placed(e Element) bool {
	switch el := e.(type) {
	case *ImageElement:
		return !el.Block.Unplaced
	case *OCRTextElement:
		return !el.Result.Unplaced
	default:
		return true
	}
}
