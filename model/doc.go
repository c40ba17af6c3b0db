// Package model provides the data structures shared by the extraction,
// layout reconstruction and document writing stages.
//
// # Inputs
//
// The document parser and the OCR stage produce three independent streams:
//
//   - [TextBlock] - a positioned run of text with font, size, flags and color
//   - [ImageBlock] - an embedded image with its pixel size and placement
//   - [OCRResult] - text recognized inside an image region, with confidence
//
// All coordinates are page points (1/72 inch) in a [BBox] whose origin is
// the top-left corner of the page, with Y increasing downward.
//
// # Elements
//
// Layout reconstruction wraps every input item in an [Element]. The set of
// element types is closed:
//
//   - [TextElement] (z-order 1)
//   - [ImageElement] (z-order 0)
//   - [OCRTextElement] (z-order 2)
//
// Elements point at the originating item rather than copying it, so writers
// can recover font and image data with a type switch:
//
//	switch el := elem.(type) {
//	case *model.TextElement:
//	    fmt.Println(el.Block.Text, el.Block.FontName)
//	case *model.ImageElement:
//	    _ = el.Block.Data
//	case *model.OCRTextElement:
//	    fmt.Println(el.Result.Text, el.Result.Confidence)
//	}
//
// # Layout
//
// A [DocumentLayout] holds one [PageLayout] per page plus [GlobalStyles] and
// the [FontMapping] used to translate PDF font names for the output format.
// Each page separates its elements into Headers, Elements (the body) and
// Footers, and records its [Column] intervals and [Margins].
package model
