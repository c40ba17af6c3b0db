package extract

import (
	"fmt"
	"math"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/relayout/model"
)

// maxFormDepth bounds recursion into nested form XObjects
const maxFormDepth = 8

// matrix is a PDF transformation matrix [a b c d e f]
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// mul returns the matrix that applies m and then t
func (m matrix) mul(t matrix) matrix {
	return matrix{
		m[0]*t[0] + m[1]*t[2],
		m[0]*t[1] + m[1]*t[3],
		m[2]*t[0] + m[3]*t[2],
		m[2]*t[1] + m[3]*t[3],
		m[4]*t[0] + m[5]*t[2] + t[4],
		m[4]*t[1] + m[5]*t[3] + t[5],
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// unitSquare returns the page box covered by the image unit square under m,
// with the origin moved to the top-left corner
func (m matrix) unitSquare(pageHeight float64) model.BBox {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		x, y := m.apply(c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return model.NewBBox(minX, pageHeight-maxY, maxX, pageHeight-minY)
}

func matrixFrom(values []pdf.Value) matrix {
	var m matrix
	for i := range m {
		m[i] = values[i].Float64()
	}
	return m
}

// placements maps an image resource name to the boxes it is painted at, in
// paint order
type placements map[string][]model.BBox

// take removes and returns the next placement of the named image
func (p placements) take(name string) (model.BBox, bool) {
	boxes := p[name]
	if len(boxes) == 0 {
		return model.BBox{}, false
	}
	p[name] = boxes[1:]
	return boxes[0], true
}

// imagePlacements runs the page content and records the transformation in
// effect at every image paint operator, following form XObjects. Malformed
// content streams can make the interpreter panic, which is reported as an
// error.
func imagePlacements(page pdf.Page, pageHeight float64) (p placements, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed content stream: %v", r)
		}
	}()

	w := placementWalker{pageHeight: pageHeight, out: make(placements)}
	w.run(page.V.Key("Contents"), page.Resources(), identity, 0)
	return w.out, nil
}

type placementWalker struct {
	pageHeight float64
	out        placements
}

// run interprets one content stream, or an array of streams sharing a
// graphics state, starting from base
func (w *placementWalker) run(contents, resources pdf.Value, base matrix, depth int) {
	streams := []pdf.Value{contents}
	if contents.Kind() == pdf.Array {
		streams = streams[:0]
		for i := 0; i < contents.Len(); i++ {
			streams = append(streams, contents.Index(i))
		}
	}

	ctm := base
	var saved []matrix

	for _, strm := range streams {
		if strm.Kind() != pdf.Stream {
			continue
		}
		pdf.Interpret(strm, func(stk *pdf.Stack, op string) {
			args := make([]pdf.Value, stk.Len())
			for i := len(args) - 1; i >= 0; i-- {
				args[i] = stk.Pop()
			}

			switch op {
			case "q":
				saved = append(saved, ctm)
			case "Q":
				if n := len(saved); n > 0 {
					ctm = saved[n-1]
					saved = saved[:n-1]
				}
			case "cm":
				if len(args) == 6 {
					ctm = matrixFrom(args).mul(ctm)
				}
			case "Do":
				if len(args) == 1 {
					w.paint(args[0].Name(), resources, ctm, depth)
				}
			}
		})
	}
}

func (w *placementWalker) paint(name string, resources pdf.Value, ctm matrix, depth int) {
	xobj := resources.Key("XObject").Key(name)

	switch xobj.Key("Subtype").Name() {
	case "Image":
		w.out[name] = append(w.out[name], ctm.unitSquare(w.pageHeight))
	case "Form":
		if depth >= maxFormDepth {
			return
		}
		form := identity
		if m := xobj.Key("Matrix"); m.Kind() == pdf.Array && m.Len() == 6 {
			form = matrixFrom([]pdf.Value{m.Index(0), m.Index(1), m.Index(2), m.Index(3), m.Index(4), m.Index(5)})
		}
		res := xobj.Key("Resources")
		if res.IsNull() {
			res = resources
		}
		w.run(xobj, res, form.mul(ctm), depth+1)
	}
}

// placeImage returns the box of the named image: its next painted placement,
// or, when the content never paints it, its pixel size at the page origin.
// The second result reports whether a painted placement was found.
func placeImage(p placements, name string, width, height int, page model.PageSize) (model.BBox, bool) {
	if box, ok := p.take(name); ok {
		return box.ClampTo(page.Width, page.Height), true
	}
	return model.NewBBox(0, 0, float64(width), float64(height)).ClampTo(page.Width, page.Height), false
}
