// Package layout reconstructs page-structured document layouts from
// independently extracted content.
//
// The inputs are three unordered streams from [model]: text blocks and
// images from the document parser, and OCR results recognized from images.
// The output is a [model.DocumentLayout] with one page layout per page,
// each holding body elements in reading order, separated headers and
// footers, column intervals and margins.
//
// # Reconstruction
//
// The [Engine] orchestrates all components:
//
//	engine := layout.NewEngine()
//	doc := engine.Reconstruct(textBlocks, images, ocrResults, pageCount, pageSizes)
//
// For each page the engine filters the inputs to that page, wraps each item
// in an element, sorts by top edge then left edge, derives columns and
// margins, and separates header and footer zones. Global font usage is
// computed over all text blocks afterwards.
//
// # Components
//
// Each step is available on its own:
//
//   - [ClusterCoordinates] - groups near-equal coordinates
//   - [CalculateMargins] - page margins from content extent
//   - [ColumnDetector] - column intervals from text edges
//   - [HeaderFooterSeparator] - header, footer and body zones
//   - [DetectTextBlockHeadersFooters] - narrow zones on raw text blocks
//   - [ElementMerger] - overlap deduplication
//   - [SortPrimary], [SortReadingOrder] - reading order
//   - [AnalyzeStyles] - character-weighted font usage
//
// # Configuration
//
// Each component can be configured independently:
//
//	config := layout.DefaultEngineConfig()
//	config.Columns.MultiColumn = true
//	config.MergeOverlaps = true
//	engine := layout.NewEngineWithConfig(config)
//
// The engine performs no I/O and never logs. It is safe for concurrent use;
// every Reconstruct call builds fresh per-page collections.
package layout
