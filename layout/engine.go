package layout

import "github.com/tsawler/relayout/model"

// EngineConfig holds configuration for the layout engine. Each component
// has its own sub-configuration.
type EngineConfig struct {
	// Column detection configuration
	Columns ColumnConfig

	// Header/footer zone configuration
	HeaderFooter HeaderFooterConfig

	// Overlap merge configuration
	Merge MergeConfig

	// MergeOverlaps deduplicates each page's body elements after
	// header/footer separation. Default: false
	MergeOverlaps bool

	// FontMapping translates source font names; nil selects the standard table
	FontMapping *model.FontMapping
}

// DefaultEngineConfig returns a configuration with the shipped defaults
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Columns:       DefaultColumnConfig(),
		HeaderFooter:  DefaultHeaderFooterConfig(),
		Merge:         DefaultMergeConfig(),
		MergeOverlaps: false,
	}
}

// Engine reconstructs document layouts. The font mapping is built once at
// construction and shared read-only by every Reconstruct call, so an Engine
// may be used from several goroutines at once.
type Engine struct {
	config    EngineConfig
	columns   *ColumnDetector
	separator *HeaderFooterSeparator
	merger    *ElementMerger
	fonts     *model.FontMapping
}

// NewEngine creates an engine with default configuration
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig())
}

// NewEngineWithConfig creates an engine with custom configuration
func NewEngineWithConfig(config EngineConfig) *Engine {
	fonts := config.FontMapping
	if fonts == nil {
		fonts = model.DefaultFontMapping()
	}

	return &Engine{
		config:    config,
		columns:   NewColumnDetectorWithConfig(config.Columns),
		separator: NewHeaderFooterSeparatorWithConfig(config.HeaderFooter),
		merger:    NewElementMergerWithConfig(config.Merge),
		fonts:     fonts,
	}
}

// Config returns the engine configuration
func (e *Engine) Config() EngineConfig {
	return e.config
}

// FontMapping returns the engine's font mapping table
func (e *Engine) FontMapping() *model.FontMapping {
	return e.fonts
}

// Reconstruct builds the layout of every page in [0, pageCount) and the
// document-wide styles.
//
// Items whose PageNum falls outside [0, pageCount) are ignored. pageSizes
// must hold at least pageCount entries; a shorter slice panics with an index
// out of range, as it is a caller error. Elements point into the given
// slices, which must not be modified while the layout is in use.
func (e *Engine) Reconstruct(
	textBlocks []model.TextBlock,
	images []model.ImageBlock,
	ocrResults []model.OCRResult,
	pageCount int,
	pageSizes []model.PageSize,
) *model.DocumentLayout {
	buckets := make([]pageItems, max(pageCount, 0))

	for i := range textBlocks {
		if p := textBlocks[i].PageNum; p >= 0 && p < pageCount {
			buckets[p].text = append(buckets[p].text, &textBlocks[i])
		}
	}
	for i := range images {
		if p := images[i].PageNum; p >= 0 && p < pageCount {
			buckets[p].images = append(buckets[p].images, &images[i])
		}
	}
	for i := range ocrResults {
		if p := ocrResults[i].PageNum; p >= 0 && p < pageCount {
			buckets[p].ocr = append(buckets[p].ocr, &ocrResults[i])
		}
	}

	pages := make([]*model.PageLayout, 0, len(buckets))
	for pageNum := range buckets {
		pages = append(pages, e.reconstructPage(pageNum, buckets[pageNum], pageSizes[pageNum]))
	}

	return &model.DocumentLayout{
		Pages:       pages,
		Styles:      AnalyzeStyles(textBlocks),
		FontMapping: e.fonts,
	}
}

// pageItems holds the input items filtered to one page
type pageItems struct {
	text   []*model.TextBlock
	images []*model.ImageBlock
	ocr    []*model.OCRResult
}

func (e *Engine) reconstructPage(pageNum int, items pageItems, size model.PageSize) *model.PageLayout {
	elements := wrapElements(pageNum, items)

	SortPrimary(elements)

	columns := e.columns.Detect(items.text, size.Width)
	margins := CalculateMargins(elements, size.Width, size.Height)
	headers, footers, body := e.separator.Separate(elements, size.Height)

	if e.config.MergeOverlaps {
		body = e.merger.Merge(body)
	}

	return &model.PageLayout{
		PageNum:  pageNum,
		Size:     size,
		Elements: body,
		Columns:  columns,
		Margins:  margins,
		Headers:  headers,
		Footers:  footers,
	}
}

// wrapElements creates one element per item: text, then images, then OCR
func wrapElements(pageNum int, items pageItems) []model.Element {
	elements := make([]model.Element, 0, len(items.text)+len(items.images)+len(items.ocr))

	for _, tb := range items.text {
		elements = append(elements, &model.TextElement{Block: tb, PageNum: pageNum})
	}
	for _, ib := range items.images {
		elements = append(elements, &model.ImageElement{Block: ib, PageNum: pageNum})
	}
	for _, or := range items.ocr {
		elements = append(elements, &model.OCRTextElement{Result: or, PageNum: pageNum})
	}

	return elements
}

// ReadingOrder returns the page's body elements sorted by center position
func (e *Engine) ReadingOrder(page *model.PageLayout) []model.Element {
	return SortReadingOrder(page.Elements)
}

// MergeOverlapping removes overlapping duplicates using the engine's merge
// configuration
func (e *Engine) MergeOverlapping(elements []model.Element) []model.Element {
	return e.merger.Merge(elements)
}
