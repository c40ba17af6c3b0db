package relayout

import (
	"log/slog"
	"maps"

	"github.com/tsawler/relayout/docx"
	"github.com/tsawler/relayout/extract"
	"github.com/tsawler/relayout/internal/config"
	"github.com/tsawler/relayout/layout"
	"github.com/tsawler/relayout/model"
	"github.com/tsawler/relayout/ocr"
)

// convertOptions holds configuration for one conversion.
type convertOptions struct {
	// Extraction
	wordGap    float64
	skipImages bool

	// OCR
	ocr           bool
	language      string
	ocrConfidence float64
	preprocess    bool
	recognizer    ocr.Recognizer // nil starts a Tesseract client

	// Layout
	mergeOverlaps  bool
	mergeThreshold float64
	multiColumn    bool
	headerZone     float64
	footerZone     float64
	fonts          map[string]string // overrides of the standard font table

	// Output
	ocrNote         float64
	detectAlignment bool
	author          string

	logger *slog.Logger
}

// defaultOptions returns the default conversion options.
func defaultOptions() convertOptions {
	ex := extract.DefaultOptions()
	oc := ocr.DefaultProcessorConfig()
	lc := layout.DefaultEngineConfig()
	dc := docx.DefaultOptions()

	return convertOptions{
		wordGap:        ex.WordGap,
		ocr:            true,
		language:       oc.Language,
		ocrConfidence:  oc.ConfidenceThreshold,
		preprocess:     oc.Preprocess,
		mergeOverlaps:  lc.MergeOverlaps,
		mergeThreshold: lc.Merge.Threshold,
		multiColumn:    lc.Columns.MultiColumn,
		headerZone:     lc.HeaderFooter.HeaderZone,
		footerZone:     lc.HeaderFooter.FooterZone,
		ocrNote:        dc.OCRNoteThreshold,
	}
}

// optionsFromConfig maps a loaded configuration file onto conversion options.
func optionsFromConfig(cfg *config.Config) convertOptions {
	o := defaultOptions()

	o.ocr = cfg.OCR.Enabled
	o.language = cfg.OCR.Language
	o.ocrConfidence = cfg.OCR.Confidence
	o.preprocess = cfg.OCR.Preprocess
	o.ocrNote = cfg.OCR.NoteThreshold

	o.mergeOverlaps = cfg.Layout.MergeOverlaps
	o.mergeThreshold = cfg.Layout.MergeThreshold
	o.multiColumn = cfg.Layout.MultiColumn
	o.headerZone = cfg.Layout.HeaderZone
	o.footerZone = cfg.Layout.FooterZone
	o.detectAlignment = cfg.Layout.DetectAlignment

	o.fonts = maps.Clone(cfg.Fonts)
	o.author = cfg.Author
	return o
}

// clone creates a deep copy of convertOptions.
func (o convertOptions) clone() convertOptions {
	newOpts := o
	if o.fonts != nil {
		newOpts.fonts = maps.Clone(o.fonts)
	}
	return newOpts
}

func (o convertOptions) extractOptions() extract.Options {
	opts := extract.DefaultOptions()
	opts.WordGap = o.wordGap
	opts.SkipImages = o.skipImages
	return opts
}

func (o convertOptions) processorConfig(logger *slog.Logger) ocr.ProcessorConfig {
	cfg := ocr.DefaultProcessorConfig()
	cfg.Language = o.language
	cfg.ConfidenceThreshold = o.ocrConfidence
	cfg.Preprocess = o.preprocess
	cfg.Logger = logger
	return cfg
}

func (o convertOptions) engineConfig() layout.EngineConfig {
	cfg := layout.DefaultEngineConfig()
	cfg.MergeOverlaps = o.mergeOverlaps
	cfg.Merge.Threshold = o.mergeThreshold
	cfg.Columns.MultiColumn = o.multiColumn
	cfg.HeaderFooter.HeaderZone = o.headerZone
	cfg.HeaderFooter.FooterZone = o.footerZone
	if len(o.fonts) > 0 {
		cfg.FontMapping = model.DefaultFontMapping().WithOverrides(o.fonts)
	}
	return cfg
}

func (o convertOptions) docxOptions(title string, meta map[string]string) docx.Options {
	opts := docx.DefaultOptions()
	opts.OCRNoteThreshold = o.ocrNote
	opts.DetectAlignment = o.detectAlignment
	opts.Title = title
	opts.Subject = meta["subject"]
	opts.Author = o.author
	if opts.Author == "" {
		opts.Author = meta["author"]
	}
	return opts
}
