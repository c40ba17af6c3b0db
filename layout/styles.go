package layout

import "github.com/tsawler/relayout/model"

// AnalyzeStyles aggregates font name and font size usage over all text
// blocks, weighted by character count. The defaults are the most used font
// and size; ties go to whichever was seen first. Without blocks the zero
// GlobalStyles is returned.
func AnalyzeStyles(blocks []model.TextBlock) model.GlobalStyles {
	if len(blocks) == 0 {
		return model.GlobalStyles{}
	}

	fontUsage := make(map[string]int)
	sizeUsage := make(map[float64]int)
	var fontOrder []string
	var sizeOrder []float64

	for i := range blocks {
		b := &blocks[i]
		chars := b.CharCount()

		if _, ok := fontUsage[b.FontName]; !ok {
			fontOrder = append(fontOrder, b.FontName)
		}
		fontUsage[b.FontName] += chars

		if _, ok := sizeUsage[b.FontSize]; !ok {
			sizeOrder = append(sizeOrder, b.FontSize)
		}
		sizeUsage[b.FontSize] += chars
	}

	defaultFont := fontOrder[0]
	for _, f := range fontOrder[1:] {
		if fontUsage[f] > fontUsage[defaultFont] {
			defaultFont = f
		}
	}

	defaultSize := sizeOrder[0]
	for _, s := range sizeOrder[1:] {
		if sizeUsage[s] > sizeUsage[defaultSize] {
			defaultSize = s
		}
	}

	return model.GlobalStyles{
		DefaultFont:     defaultFont,
		DefaultFontSize: defaultSize,
		FontUsage:       fontUsage,
		SizeUsage:       sizeUsage,
	}
}
