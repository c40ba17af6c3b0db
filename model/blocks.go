package model

import "unicode/utf8"

// Font flag bits carried by TextBlock.FontFlags
const (
	FlagBold   = 1 << 4
	FlagItalic = 1 << 6
)

// TextBlock is a positioned run of text with uniform formatting,
// as produced by the document parser.
type TextBlock struct {
	Text      string
	BBox      BBox
	FontName  string
	FontSize  float64
	FontFlags int
	Color     int // packed 0xRRGGBB
	PageNum   int // 0-indexed
}

// IsBold reports whether the bold flag is set
func (t *TextBlock) IsBold() bool { return t.FontFlags&FlagBold != 0 }

// IsItalic reports whether the italic flag is set
func (t *TextBlock) IsItalic() bool { return t.FontFlags&FlagItalic != 0 }

// RGB unpacks the color into its components
func (t *TextBlock) RGB() Color {
	return Color{
		R: uint8(t.Color >> 16 & 0xFF),
		G: uint8(t.Color >> 8 & 0xFF),
		B: uint8(t.Color & 0xFF),
	}
}

// CharCount returns the number of characters (runes) in the text
func (t *TextBlock) CharCount() int {
	return utf8.RuneCountInString(t.Text)
}

// Color represents an RGB color
type Color struct {
	R, G, B uint8
}

// ImageFormat describes how ImageBlock.Data is encoded
type ImageFormat string

const (
	// ImageFormatPNG means Data is a complete PNG file
	ImageFormatPNG ImageFormat = "png"
	// ImageFormatRaw means Data is uncompressed interleaved samples of
	// Width x Height pixels
	ImageFormatRaw ImageFormat = "raw"
)

// ImageBlock is an embedded image with its placement on the page
type ImageBlock struct {
	Data    []byte
	BBox    BBox
	Width   int // pixels
	Height  int // pixels
	PageNum int
	Format  ImageFormat

	// Unplaced is set when the page content never paints the image, so BBox
	// is only its pixel size at the page origin
	Unplaced bool
}

// OCRResult is text recognized from an image region
type OCRResult struct {
	Text              string
	Confidence        float64 // 0 to 100
	BBox              BBox
	PageNum           int
	OriginalImageBBox BBox

	// Unplaced is copied from the source image
	Unplaced bool
}
