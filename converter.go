package relayout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"strings"
	"time"

	"github.com/tsawler/relayout/docx"
	"github.com/tsawler/relayout/extract"
	"github.com/tsawler/relayout/internal/config"
	"github.com/tsawler/relayout/layout"
	"github.com/tsawler/relayout/model"
	"github.com/tsawler/relayout/ocr"
	"github.com/tsawler/relayout/preview"
)

// Converter provides a fluent interface for converting a PDF.
// Configuration methods return a new Converter, so a configured Converter
// can be reused as a template for several conversions.
type Converter struct {
	filename string
	doc      *extract.Document
	options  convertOptions
	err      error
}

// clone creates a copy of the Converter for method chaining.
func (c *Converter) clone() *Converter {
	return &Converter{
		filename: c.filename,
		doc:      c.doc,
		options:  c.options.clone(),
		err:      c.err,
	}
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// WithConfig replaces every option with the settings of a configuration
// file. Later configuration calls still override individual settings.
// An invalid configuration makes the terminal operations fail.
func (c *Converter) WithConfig(cfg *config.Config) *Converter {
	newConv := c.clone()
	if err := cfg.Validate(); err != nil {
		newConv.err = err
		return newConv
	}
	logger := newConv.options.logger
	recognizer := newConv.options.recognizer
	newConv.options = optionsFromConfig(cfg)
	newConv.options.logger = logger
	newConv.options.recognizer = recognizer
	return newConv
}

// WithoutOCR disables text recognition in images.
//
// Example:
//
//	err := relayout.Open("doc.pdf").WithoutOCR().ToDOCX(ctx, "doc.docx")
func (c *Converter) WithoutOCR() *Converter {
	newConv := c.clone()
	newConv.options.ocr = false
	return newConv
}

// Language sets the Tesseract language, such as "eng" or "deu+eng".
//
// Example:
//
//	err := relayout.Open("brief.pdf").Language("deu").ToDOCX(ctx, "brief.docx")
func (c *Converter) Language(lang string) *Converter {
	newConv := c.clone()
	newConv.options.language = lang
	return newConv
}

// OCRConfidence sets the confidence (0-100) a recognized word must exceed
// to be kept.
func (c *Converter) OCRConfidence(threshold float64) *Converter {
	newConv := c.clone()
	newConv.options.ocrConfidence = threshold
	return newConv
}

// OCRNoteThreshold sets the confidence below which recognized text is
// annotated with its confidence in the output.
func (c *Converter) OCRNoteThreshold(threshold float64) *Converter {
	newConv := c.clone()
	newConv.options.ocrNote = threshold
	return newConv
}

// WithoutPreprocessing passes images to OCR as extracted, without
// grayscale conversion, denoising, upscaling or binarization.
func (c *Converter) WithoutPreprocessing() *Converter {
	newConv := c.clone()
	newConv.options.preprocess = false
	return newConv
}

// Recognizer uses rec for OCR instead of starting a Tesseract client.
func (c *Converter) Recognizer(rec ocr.Recognizer) *Converter {
	newConv := c.clone()
	newConv.options.recognizer = rec
	return newConv
}

// SkipImages ignores the images of the document entirely.
func (c *Converter) SkipImages() *Converter {
	newConv := c.clone()
	newConv.options.skipImages = true
	return newConv
}

// WordGap sets the largest gap between glyphs, as a fraction of the font
// size, that still joins them into one text block.
func (c *Converter) WordGap(gap float64) *Converter {
	newConv := c.clone()
	newConv.options.wordGap = gap
	return newConv
}

// MergeOverlaps removes body elements that substantially overlap an
// earlier one, such as the scanned image behind a text layer.
//
// Example:
//
//	err := relayout.Open("scan.pdf").MergeOverlaps().ToDOCX(ctx, "scan.docx")
func (c *Converter) MergeOverlaps() *Converter {
	newConv := c.clone()
	newConv.options.mergeOverlaps = true
	return newConv
}

// MergeThreshold sets the overlap ratio above which elements are merged.
func (c *Converter) MergeThreshold(threshold float64) *Converter {
	newConv := c.clone()
	newConv.options.mergeThreshold = threshold
	return newConv
}

// MultiColumn enables detection of several text columns per page.
//
// Example:
//
//	layout, err := relayout.Open("newspaper.pdf").MultiColumn().Layout(ctx)
func (c *Converter) MultiColumn() *Converter {
	newConv := c.clone()
	newConv.options.multiColumn = true
	return newConv
}

// HeaderFooterZones sets the fractions of page height that bound the header
// and footer zones.
func (c *Converter) HeaderFooterZones(header, footer float64) *Converter {
	newConv := c.clone()
	newConv.options.headerZone = header
	newConv.options.footerZone = footer
	return newConv
}

// DetectAlignment centers or right-aligns output paragraphs by their
// position on the page.
func (c *Converter) DetectAlignment() *Converter {
	newConv := c.clone()
	newConv.options.detectAlignment = true
	return newConv
}

// Fonts adds or replaces entries of the font mapping table. Multiple calls
// are cumulative.
//
// Example:
//
//	relayout.Open("doc.pdf").Fonts(map[string]string{"Garamond": "Georgia"})
func (c *Converter) Fonts(overrides map[string]string) *Converter {
	newConv := c.clone()
	if newConv.options.fonts == nil {
		newConv.options.fonts = make(map[string]string, len(overrides))
	}
	maps.Copy(newConv.options.fonts, overrides)
	return newConv
}

// Author sets the author written to the document properties. By default
// the author of the PDF is used.
func (c *Converter) Author(author string) *Converter {
	newConv := c.clone()
	newConv.options.author = author
	return newConv
}

// Logger sets the logger for progress and warnings. By default
// slog.Default() is used.
func (c *Converter) Logger(logger *slog.Logger) *Converter {
	newConv := c.clone()
	newConv.options.logger = logger
	return newConv
}

// ============================================================================
// Terminal Operations (run the conversion)
// ============================================================================

// Conversion is the result of running the pipeline on one document
type Conversion struct {
	Source     string
	Title      string
	Document   *extract.Document
	OCRResults []model.OCRResult
	Layout     *model.DocumentLayout
	Duration   time.Duration

	docx docx.Options
}

// Convert extracts the document, recognizes text in its images and
// reconstructs the layout. The context is checked between stages.
//
// Example:
//
//	conv, err := relayout.Open("report.pdf").Convert(ctx)
//	if err != nil {
//	    // handle error
//	}
//	err = conv.SaveDOCX("report.docx")
func (c *Converter) Convert(ctx context.Context) (*Conversion, error) {
	if c.err != nil {
		return nil, c.err
	}

	start := time.Now()
	logger := c.logger()
	logger.Info("starting conversion")

	doc := c.doc
	if doc == nil {
		logger.Debug("extracting content")
		var err error
		doc, err = extract.OpenWithOptions(c.filename, c.options.extractOptions())
		if err != nil {
			return nil, fmt.Errorf("extracting %s: %w", c.filename, err)
		}
	}
	for _, w := range doc.Warnings {
		logger.Warn("extraction problem", "error", w)
	}
	logger.Info("content extracted", "pages", doc.PageCount, "textBlocks", len(doc.TextBlocks), "images", len(doc.Images))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ocrResults, err := c.recognize(ctx, doc, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("reconstructing layout")
	engine := layout.NewEngineWithConfig(c.options.engineConfig())
	result := engine.Reconstruct(doc.TextBlocks, doc.Images, ocrResults, doc.PageCount, doc.PageSizes)
	if logger.Enabled(ctx, slog.LevelDebug) {
		logPages(logger, doc)
	}

	title := c.title(doc)
	conv := &Conversion{
		Source:     c.filename,
		Title:      title,
		Document:   doc,
		OCRResults: ocrResults,
		Layout:     result,
		Duration:   time.Since(start),
		docx:       c.options.docxOptions(title, doc.Metadata),
	}

	logger.Info("conversion completed", "pages", result.PageCount(), "ocrResults", len(ocrResults), "duration", conv.Duration)
	return conv, nil
}

// logPages reports each page's raw block summary before element wrapping
func logPages(logger *slog.Logger, doc *extract.Document) {
	for pageNum := 0; pageNum < doc.PageCount && pageNum < len(doc.PageSizes); pageNum++ {
		a := layout.AnalyzePage(doc.TextBlocks, doc.Images, pageNum, doc.PageSizes[pageNum])
		logger.Debug("page content",
			"page", pageNum+1,
			"textBlocks", len(a.TextBlocks),
			"images", len(a.Images),
			"columns", len(a.Columns),
			"headerBlocks", len(a.Headers),
			"footerBlocks", len(a.Footers),
		)
	}
}

// Layout runs the conversion and returns only the reconstructed layout.
func (c *Converter) Layout(ctx context.Context) (*model.DocumentLayout, error) {
	conv, err := c.Convert(ctx)
	if err != nil {
		return nil, err
	}
	return conv.Layout, nil
}

// ToDOCX runs the conversion and writes the result to path.
//
// Example:
//
//	err := relayout.Open("document.pdf").ToDOCX(ctx, "document.docx")
func (c *Converter) ToDOCX(ctx context.Context, path string) error {
	conv, err := c.Convert(ctx)
	if err != nil {
		return err
	}
	return conv.SaveDOCX(path)
}

// WriteDOCX runs the conversion and writes the DOCX package to w.
func (c *Converter) WriteDOCX(ctx context.Context, w io.Writer) error {
	conv, err := c.Convert(ctx)
	if err != nil {
		return err
	}
	return conv.WriteDOCX(w)
}

// ToHTML runs the conversion and writes an HTML preview of the layout to w.
func (c *Converter) ToHTML(ctx context.Context, w io.Writer) error {
	conv, err := c.Convert(ctx)
	if err != nil {
		return err
	}
	return conv.WriteHTML(w)
}

// recognize runs OCR over the document's images. OCR that cannot be
// started is logged and skipped rather than failing the conversion.
func (c *Converter) recognize(ctx context.Context, doc *extract.Document, logger *slog.Logger) ([]model.OCRResult, error) {
	if !c.options.ocr || len(doc.Images) == 0 {
		return nil, nil
	}

	cfg := c.options.processorConfig(logger)

	var proc *ocr.Processor
	if c.options.recognizer != nil {
		proc = ocr.NewProcessor(c.options.recognizer, cfg)
	} else {
		p, err := ocr.NewTesseractProcessor(cfg)
		if err != nil {
			if errors.Is(err, ocr.ErrOCRNotEnabled) {
				logger.Warn("OCR is not available in this build, continuing without it")
			} else {
				logger.Warn("OCR could not be started, continuing without it", "error", err)
			}
			return nil, nil
		}
		proc = p
	}
	defer proc.Close()

	logger.Info("running OCR", "images", len(doc.Images), "language", cfg.Language)
	return proc.ProcessAll(ctx, doc.Images)
}

func (c *Converter) logger() *slog.Logger {
	logger := c.options.logger
	if logger == nil {
		logger = slog.Default()
	}
	if c.filename != "" {
		logger = logger.With("file", c.filename)
	}
	return logger
}

// title prefers the document's own title, then the file name
func (c *Converter) title(doc *extract.Document) string {
	if t := strings.TrimSpace(doc.Metadata["title"]); t != "" {
		return t
	}
	if c.filename != "" {
		base := filepath.Base(c.filename)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return "Document"
}

// WriteDOCX writes the layout as a DOCX package to w
func (cv *Conversion) WriteDOCX(w io.Writer) error {
	return docx.Write(w, cv.Layout, cv.docx)
}

// SaveDOCX writes the layout as a DOCX file
func (cv *Conversion) SaveDOCX(path string) error {
	return docx.WriteFile(path, cv.Layout, cv.docx)
}

// WriteHTML writes an HTML preview of the layout to w
func (cv *Conversion) WriteHTML(w io.Writer) error {
	return preview.Render(w, cv.Layout, cv.Title)
}

// SaveHTML writes an HTML preview of the layout to path
func (cv *Conversion) SaveHTML(path string) error {
	return preview.RenderFile(path, cv.Layout, cv.Title)
}
