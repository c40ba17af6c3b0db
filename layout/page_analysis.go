package layout

import "github.com/tsawler/relayout/model"

// PageAnalysis is a lightweight summary of one page computed directly from
// the parser output, before elements are wrapped
type PageAnalysis struct {
	PageNum    int
	Size       model.PageSize
	Columns    []model.Column
	Headers    []*model.TextBlock
	Footers    []*model.TextBlock
	TextBlocks []*model.TextBlock
	Images     []*model.ImageBlock
}

// AnalyzePage filters blocks and images to pageNum and reports the page's
// columns and the text blocks lying in the narrow text-block header and
// footer zones
func AnalyzePage(blocks []model.TextBlock, images []model.ImageBlock, pageNum int, size model.PageSize) *PageAnalysis {
	result := &PageAnalysis{
		PageNum: pageNum,
		Size:    size,
	}

	for i := range blocks {
		if blocks[i].PageNum == pageNum {
			result.TextBlocks = append(result.TextBlocks, &blocks[i])
		}
	}
	for i := range images {
		if images[i].PageNum == pageNum {
			result.Images = append(result.Images, &images[i])
		}
	}

	result.Columns = NewColumnDetector().Detect(result.TextBlocks, size.Width)
	result.Headers, result.Footers = DetectTextBlockHeadersFooters(
		result.TextBlocks, size.Height, DefaultTextBlockZoneConfig())

	return result
}

// HasHeaders returns true if any text block lies in the header zone
func (a *PageAnalysis) HasHeaders() bool {
	return len(a.Headers) > 0
}

// HasFooters returns true if any text block lies in the footer zone
func (a *PageAnalysis) HasFooters() bool {
	return len(a.Footers) > 0
}
