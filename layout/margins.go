package layout

import (
	"math"

	"github.com/tsawler/relayout/model"
)

// DefaultMargin is used on every side of a page without content (1 inch)
const DefaultMargin = 72.0

// CalculateMargins derives page margins from the extent of all elements.
// Margins are never negative, even when boxes extend past the page bounds.
func CalculateMargins(elements []model.Element, pageWidth, pageHeight float64) model.Margins {
	if len(elements) == 0 {
		return model.Margins{
			Top:    DefaultMargin,
			Bottom: DefaultMargin,
			Left:   DefaultMargin,
			Right:  DefaultMargin,
		}
	}

	first := elements[0].BoundingBox()
	minX, minY := first.X0, first.Y0
	maxX, maxY := first.X1, first.Y1

	for _, elem := range elements[1:] {
		b := elem.BoundingBox()
		minX = math.Min(minX, b.X0)
		minY = math.Min(minY, b.Y0)
		maxX = math.Max(maxX, b.X1)
		maxY = math.Max(maxY, b.Y1)
	}

	return model.Margins{
		Top:    math.Max(0, minY),
		Bottom: math.Max(0, pageHeight-maxY),
		Left:   math.Max(0, minX),
		Right:  math.Max(0, pageWidth-maxX),
	}
}
