package layout

import "github.com/tsawler/relayout/model"

// Helper functions for building test fixtures

func makeTextBlock(text string, x0, y0, x1, y1 float64) *model.TextBlock {
	return &model.TextBlock{
		Text:     text,
		BBox:     model.NewBBox(x0, y0, x1, y1),
		FontName: "Helvetica",
		FontSize: 12,
	}
}

func makeImageBlock(x0, y0, x1, y1 float64) *model.ImageBlock {
	return &model.ImageBlock{
		BBox:   model.NewBBox(x0, y0, x1, y1),
		Width:  int(x1 - x0),
		Height: int(y1 - y0),
		Format: model.ImageFormatPNG,
	}
}

func makeOCRResult(text string, x0, y0, x1, y1 float64) *model.OCRResult {
	box := model.NewBBox(x0, y0, x1, y1)
	return &model.OCRResult{
		Text:              text,
		Confidence:        90,
		BBox:              box,
		OriginalImageBBox: box,
	}
}

func textElem(text string, x0, y0, x1, y1 float64) model.Element {
	return &model.TextElement{Block: makeTextBlock(text, x0, y0, x1, y1)}
}

func imageElem(x0, y0, x1, y1 float64) model.Element {
	return &model.ImageElement{Block: makeImageBlock(x0, y0, x1, y1)}
}

func ocrElem(text string, x0, y0, x1, y1 float64) model.Element {
	return &model.OCRTextElement{Result: makeOCRResult(text, x0, y0, x1, y1)}
}

// unplacedImageElem is an image the page content never paints, boxed at the
// origin at its pixel size
func unplacedImageElem(w, h float64) model.Element {
	b := makeImageBlock(0, 0, w, h)
	b.Unplaced = true
	return &model.ImageElement{Block: b}
}

var letterPage = model.PageSize{Width: 612, Height: 792}
