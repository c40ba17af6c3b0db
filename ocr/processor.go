package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tsawler/relayout/internal/imageutil"
	"github.com/tsawler/relayout/model"
)

// Recognizer recognizes words in an encoded image. *Client implements it.
type Recognizer interface {
	RecognizeWords(imageData []byte) ([]Word, error)
}

// ProcessorConfig holds configuration for image OCR
type ProcessorConfig struct {
	// Language passed to Tesseract, "+" separated. Default: "eng"
	Language string

	// ConfidenceThreshold is the confidence a word must exceed to be kept.
	// Default: 30
	ConfidenceThreshold float64

	// Preprocess cleans the image up before recognition. Default: true
	Preprocess bool

	// MinWidth is the width in pixels narrower images are upscaled to during
	// preprocessing. Default: 1000
	MinWidth int

	// Logger receives per-image progress; nil uses slog.Default()
	Logger *slog.Logger
}

// DefaultProcessorConfig returns sensible default configuration
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		Language:            "eng",
		ConfidenceThreshold: 30,
		Preprocess:          true,
		MinWidth:            1000,
	}
}

// Region is a word region detected in an image
type Region struct {
	BBox       model.BBox // pixel coordinates in the image
	Confidence float64
	TextLength int
}

// Processor runs OCR over image blocks. It uses a single recognizer and is
// therefore not safe for concurrent use.
type Processor struct {
	config ProcessorConfig
	rec    Recognizer
	client *Client
	logger *slog.Logger
}

// NewProcessor creates a processor around an existing recognizer
func NewProcessor(rec Recognizer, config ProcessorConfig) *Processor {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		config: config,
		rec:    rec,
		logger: logger,
	}
}

// NewTesseractProcessor creates a processor backed by its own Tesseract
// client, set up for a single uniform block of text. It returns
// ErrOCRNotEnabled when built without the "ocr" tag.
func NewTesseractProcessor(config ProcessorConfig) (*Processor, error) {
	client, err := New()
	if err != nil {
		return nil, err
	}

	if config.Language != "" {
		if err := client.SetLanguage(config.Language); err != nil {
			client.Close()
			return nil, fmt.Errorf("set OCR language %q: %w", config.Language, err)
		}
	}
	if err := client.SetPageSegMode(PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}

	p := NewProcessor(client, config)
	p.client = client
	return p, nil
}

// Close releases the Tesseract client owned by the processor, if any
func (p *Processor) Close() error {
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

// Config returns the processor configuration
func (p *Processor) Config() ProcessorConfig {
	return p.config
}

// Process recognizes the text of one image. Words at or below the
// confidence threshold are dropped; the rest are joined with spaces and
// their confidences averaged. The result covers the whole image box. A nil
// result with a nil error means no text was found.
func (p *Processor) Process(block *model.ImageBlock) (*model.OCRResult, error) {
	words, err := p.recognize(block, p.config.Preprocess)
	if err != nil {
		return nil, err
	}

	var parts []string
	var total float64
	for _, w := range words {
		text := strings.TrimSpace(w.Text)
		if text == "" || w.Confidence <= p.config.ConfidenceThreshold {
			continue
		}
		parts = append(parts, text)
		total += w.Confidence
	}

	if len(parts) == 0 {
		return nil, nil
	}

	return &model.OCRResult{
		Text:              strings.Join(parts, " "),
		Confidence:        total / float64(len(parts)),
		BBox:              block.BBox,
		PageNum:           block.PageNum,
		OriginalImageBBox: block.BBox,
		Unplaced:          block.Unplaced,
	}, nil
}

// ProcessAll recognizes every image in order. Images that fail or contain
// no text are skipped. It stops early with the context's error when ctx is
// cancelled.
func (p *Processor) ProcessAll(ctx context.Context, images []model.ImageBlock) ([]model.OCRResult, error) {
	var results []model.OCRResult

	for i := range images {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		p.logger.Debug("processing image", "index", i+1, "total", len(images), "page", images[i].PageNum)

		result, err := p.Process(&images[i])
		if err != nil {
			p.logger.Warn("OCR failed for image", "page", images[i].PageNum, "index", i, "error", err)
			continue
		}
		if result != nil {
			results = append(results, *result)
		}
	}

	p.logger.Info("OCR completed", "recognized", len(results), "images", len(images))
	return results, nil
}

// TextRegions returns the boxes of words recognized above the confidence
// threshold, without preprocessing the image
func (p *Processor) TextRegions(block *model.ImageBlock) ([]Region, error) {
	words, err := p.recognize(block, false)
	if err != nil {
		return nil, err
	}

	var regions []Region
	for _, w := range words {
		if w.Confidence <= p.config.ConfidenceThreshold {
			continue
		}
		regions = append(regions, Region{
			BBox: model.NewBBox(
				float64(w.Box.Min.X), float64(w.Box.Min.Y),
				float64(w.Box.Max.X), float64(w.Box.Max.Y),
			),
			Confidence: w.Confidence,
			TextLength: len([]rune(strings.TrimSpace(w.Text))),
		})
	}
	return regions, nil
}

func (p *Processor) recognize(block *model.ImageBlock, preprocess bool) ([]Word, error) {
	img, err := imageutil.DecodeBlock(block)
	if err != nil {
		return nil, fmt.Errorf("decode image on page %d: %w", block.PageNum, err)
	}

	if preprocess {
		img = Preprocess(img, p.config.MinWidth)
	}

	data, err := imageutil.EncodePNG(img)
	if err != nil {
		return nil, err
	}

	words, err := p.rec.RecognizeWords(data)
	if err != nil {
		return nil, fmt.Errorf("recognize image on page %d: %w", block.PageNum, err)
	}
	return words, nil
}
