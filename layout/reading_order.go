package layout

import (
	"sort"

	"github.com/tsawler/relayout/model"
)

// SortPrimary sorts elements in place by top edge, then left edge.
// This is the fast order applied once when a page is assembled.
// The sort is stable, so ties keep their input order.
func SortPrimary(elements []model.Element) {
	sort.SliceStable(elements, func(i, j int) bool {
		a, b := elements[i].BoundingBox(), elements[j].BoundingBox()
		if a.Y0 != b.Y0 {
			return a.Y0 < b.Y0
		}
		return a.X0 < b.X0
	})
}

// SortReadingOrder returns a copy of elements sorted by vertical center,
// then horizontal center. Compared with SortPrimary it is less sensitive to
// boxes of different heights whose top edges differ slightly.
func SortReadingOrder(elements []model.Element) []model.Element {
	sorted := make([]model.Element, len(elements))
	copy(sorted, elements)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].BoundingBox(), sorted[j].BoundingBox()
		if ay, by := a.CenterY(), b.CenterY(); ay != by {
			return ay < by
		}
		return a.CenterX() < b.CenterX()
	})

	return sorted
}
