package extract

import (
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/relayout/model"
)

// Vertical metrics relative to the font size, used to turn a baseline into
// a box
const (
	ascent  = 0.8
	descent = 0.2
)

// spaceGap is the gap, as a fraction of the font size, above which a space
// is inserted between merged glyphs
const spaceGap = 0.1

// run accumulates consecutive glyphs sharing font, size and baseline
type run struct {
	font     string
	size     float64
	baseline float64
	x0, x1   float64
	text     strings.Builder
}

func newRun(g pdf.Text) *run {
	r := &run{
		font:     g.Font,
		size:     g.FontSize,
		baseline: g.Y,
		x0:       g.X,
		x1:       g.X + g.W,
	}
	r.text.WriteString(g.S)
	return r
}

// accepts reports whether g continues the run
func (r *run) accepts(g pdf.Text, wordGap float64) bool {
	if g.Font != r.font || g.FontSize != r.size {
		return false
	}
	if math.Abs(g.Y-r.baseline) > r.size*0.2 {
		return false
	}
	gap := g.X - r.x1
	limit := wordGap * r.size
	return gap <= limit && gap >= -limit
}

func (r *run) add(g pdf.Text) {
	if g.X-r.x1 > spaceGap*r.size && !strings.HasSuffix(r.text.String(), " ") && !strings.HasPrefix(g.S, " ") {
		r.text.WriteByte(' ')
	}
	r.text.WriteString(g.S)
	r.x1 = math.Max(r.x1, g.X+g.W)
}

// groupGlyphs merges glyphs into runs in content stream order
func groupGlyphs(glyphs []pdf.Text, wordGap float64) []*run {
	var runs []*run
	var cur *run

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if cur != nil && cur.accepts(g, wordGap) {
			cur.add(g)
			continue
		}
		cur = newRun(g)
		runs = append(runs, cur)
	}

	return runs
}

// buildTextBlocks converts glyphs into text blocks for one page. Runs are
// normalized to NFC and trimmed; empty runs are dropped.
func buildTextBlocks(glyphs []pdf.Text, pageNum int, pageHeight, wordGap float64) []model.TextBlock {
	var blocks []model.TextBlock

	for _, r := range groupGlyphs(glyphs, wordGap) {
		text := norm.NFC.String(strings.TrimSpace(r.text.String()))
		if text == "" {
			continue
		}

		blocks = append(blocks, model.TextBlock{
			Text:      text,
			BBox:      runBox(r, pageHeight),
			FontName:  r.font,
			FontSize:  r.size,
			FontFlags: fontFlags(r.font),
			PageNum:   pageNum,
		})
	}

	return blocks
}

// runBox flips the PDF baseline into top-left page coordinates
func runBox(r *run, pageHeight float64) model.BBox {
	top := pageHeight - (r.baseline + r.size*ascent)
	bottom := pageHeight - (r.baseline - r.size*descent)
	return model.NewBBox(r.x0, top, r.x1, bottom)
}

// fontFlags infers style flags from a font name such as "ABCDEF+Arial-BoldItalic"
func fontFlags(font string) int {
	name := strings.ToLower(font)
	flags := 0
	for _, kw := range []string{"bold", "black", "heavy", "semibold", "demi"} {
		if strings.Contains(name, kw) {
			flags |= model.FlagBold
			break
		}
	}
	if strings.Contains(name, "italic") || strings.Contains(name, "oblique") {
		flags |= model.FlagItalic
	}
	return flags
}
