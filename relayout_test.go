package relayout

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/tsawler/relayout/extract"
	"github.com/tsawler/relayout/internal/config"
	"github.com/tsawler/relayout/internal/imageutil"
	"github.com/tsawler/relayout/model"
	"github.com/tsawler/relayout/ocr"
)

// ============================================================================
// Helpers
// ============================================================================

type fakeRecognizer struct {
	words []ocr.Word
	calls int
}

func (f *fakeRecognizer) RecognizeWords(imageData []byte) ([]ocr.Word, error) {
	f.calls++
	return f.words, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pngImage(t *testing.T, page int, box model.BBox) model.ImageBlock {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 30, 30))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.SetGray(15, 15, color.Gray{Y: 0})
	data, err := imageutil.EncodePNG(img)
	if err != nil {
		t.Fatal(err)
	}
	return model.ImageBlock{
		Data:    data,
		BBox:    box,
		Width:   30,
		Height:  30,
		PageNum: page,
		Format:  model.ImageFormatPNG,
	}
}

// testDocument is a one-page letter document with a header line, a body
// paragraph and a scanned image
func testDocument(t *testing.T) *extract.Document {
	return &extract.Document{
		Metadata:  map[string]string{"title": "Quarterly Report", "author": "Finance"},
		PageCount: 1,
		PageSizes: []model.PageSize{{Width: 612, Height: 792}},
		TextBlocks: []model.TextBlock{
			{Text: "ACME Corp", BBox: model.NewBBox(100, 60, 300, 80), FontName: "Helvetica", FontSize: 10},
			{Text: "Revenue grew in every region.", BBox: model.NewBBox(72, 300, 540, 320), FontName: "Times-Roman", FontSize: 12},
		},
		Images: []model.ImageBlock{pngImage(t, 0, model.NewBBox(72, 400, 300, 600))},
	}
}

// ============================================================================
// Construction
// ============================================================================

func TestFromDocumentNil(t *testing.T) {
	_, err := FromDocument(nil).Convert(context.Background())
	if !errors.Is(err, ErrNoDocument) {
		t.Errorf("expected ErrNoDocument, got %v", err)
	}
}

func TestOpenNonexistent(t *testing.T) {
	_, err := Open("nonexistent.pdf").WithoutOCR().Logger(quietLogger()).Convert(context.Background())
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestMust(t *testing.T) {
	if got := Must(42, nil); got != 42 {
		t.Errorf("Must returned %d", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Must(0, errors.New("boom"))
}

// ============================================================================
// Options
// ============================================================================

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()

	if !o.ocr {
		t.Error("OCR should be enabled by default")
	}
	if o.language != "eng" {
		t.Errorf("language = %q, want eng", o.language)
	}
	if o.ocrConfidence != 30 {
		t.Errorf("ocrConfidence = %v, want 30", o.ocrConfidence)
	}
	if o.ocrNote != 70 {
		t.Errorf("ocrNote = %v, want 70", o.ocrNote)
	}
	if o.mergeOverlaps {
		t.Error("merging should be off by default")
	}
	if o.multiColumn {
		t.Error("multi-column detection should be off by default")
	}
	if o.headerZone != 0.15 || o.footerZone != 0.85 {
		t.Errorf("zones = %v/%v, want 0.15/0.85", o.headerZone, o.footerZone)
	}
}

func TestChainingDoesNotModifyReceiver(t *testing.T) {
	base := Open("doc.pdf")
	configured := base.WithoutOCR().Language("fra").MergeOverlaps().MultiColumn().Fonts(map[string]string{"A": "B"})

	if !base.options.ocr || base.options.language != "eng" || base.options.mergeOverlaps || base.options.multiColumn {
		t.Errorf("base options changed: %+v", base.options)
	}
	if base.options.fonts != nil {
		t.Error("base font overrides changed")
	}
	if configured.options.ocr || configured.options.language != "fra" || !configured.options.mergeOverlaps {
		t.Errorf("configured options not applied: %+v", configured.options)
	}
}

func TestFontsCumulative(t *testing.T) {
	c := Open("doc.pdf").
		Fonts(map[string]string{"Garamond": "Georgia"}).
		Fonts(map[string]string{"Futura": "Century Gothic"})

	if len(c.options.fonts) != 2 {
		t.Fatalf("expected 2 overrides, got %v", c.options.fonts)
	}

	mapping := c.options.engineConfig().FontMapping
	if mapping == nil {
		t.Fatal("expected a font mapping with overrides")
	}
	if got := mapping.Map("Futura"); got != "Century Gothic" {
		t.Errorf("Map(Futura) = %q", got)
	}
	if got := mapping.Map("Times-Roman"); got != "Times New Roman" {
		t.Errorf("standard entries lost: Map(Times-Roman) = %q", got)
	}
}

func TestWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.OCR.Enabled = false
	cfg.OCR.NoteThreshold = 50
	cfg.Layout.MergeOverlaps = true
	cfg.Layout.MultiColumn = true
	cfg.Author = "Records"

	logger := quietLogger()
	c := Open("doc.pdf").Logger(logger).WithConfig(cfg)

	if c.err != nil {
		t.Fatalf("unexpected error: %v", c.err)
	}
	if c.options.ocr {
		t.Error("OCR should be disabled")
	}
	if c.options.ocrNote != 50 {
		t.Errorf("ocrNote = %v, want 50", c.options.ocrNote)
	}
	if !c.options.mergeOverlaps || !c.options.multiColumn {
		t.Error("layout settings not applied")
	}
	if c.options.author != "Records" {
		t.Errorf("author = %q", c.options.author)
	}
	if c.options.logger != logger {
		t.Error("logger should survive WithConfig")
	}
}

func TestWithConfigInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.OCR.Confidence = 150

	_, err := FromDocument(testDocument(t)).WithConfig(cfg).Convert(context.Background())
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected config.ErrInvalid, got %v", err)
	}
}

func TestDocxOptions(t *testing.T) {
	meta := map[string]string{"author": "PDF Author", "subject": "Sales"}

	opts := defaultOptions().docxOptions("Title", meta)
	if opts.Author != "PDF Author" || opts.Subject != "Sales" || opts.Title != "Title" {
		t.Errorf("unexpected options: %+v", opts)
	}

	o := defaultOptions()
	o.author = "Override"
	if got := o.docxOptions("Title", meta).Author; got != "Override" {
		t.Errorf("Author = %q, want Override", got)
	}
}

// ============================================================================
// Pipeline
// ============================================================================

func TestConvert(t *testing.T) {
	rec := &fakeRecognizer{words: []ocr.Word{
		{Text: "Scanned", Box: image.Rect(0, 0, 10, 5), Confidence: 90},
		{Text: "note", Box: image.Rect(12, 0, 20, 5), Confidence: 80},
	}}

	conv, err := FromDocument(testDocument(t)).
		Recognizer(rec).
		Logger(quietLogger()).
		Convert(context.Background())
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if rec.calls != 1 {
		t.Errorf("recognizer called %d times, want 1", rec.calls)
	}
	if len(conv.OCRResults) != 1 || conv.OCRResults[0].Text != "Scanned note" {
		t.Fatalf("unexpected OCR results: %+v", conv.OCRResults)
	}
	if conv.Title != "Quarterly Report" {
		t.Errorf("Title = %q", conv.Title)
	}

	page := conv.Layout.Page(0)
	if page == nil {
		t.Fatal("missing page 0")
	}
	if len(page.Headers) != 1 {
		t.Errorf("expected the top line as header, got %d headers", len(page.Headers))
	}
	// body text, image and OCR text
	if len(page.Elements) != 3 {
		t.Errorf("expected 3 body elements, got %d", len(page.Elements))
	}
	if conv.Layout.Styles.DefaultFont != "Times-Roman" {
		t.Errorf("DefaultFont = %q", conv.Layout.Styles.DefaultFont)
	}
}

func TestConvertWithoutOCR(t *testing.T) {
	rec := &fakeRecognizer{words: []ocr.Word{{Text: "x", Confidence: 99}}}

	conv, err := FromDocument(testDocument(t)).
		Recognizer(rec).
		WithoutOCR().
		Logger(quietLogger()).
		Convert(context.Background())
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if rec.calls != 0 {
		t.Errorf("recognizer should not run, called %d times", rec.calls)
	}
	if len(conv.OCRResults) != 0 {
		t.Errorf("expected no OCR results, got %d", len(conv.OCRResults))
	}
}

func TestConvertDebugLogsPages(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := FromDocument(testDocument(t)).WithoutOCR().Logger(logger).Convert(context.Background()); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"page content", "page=1", "headerBlocks=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug log missing %q:\n%s", want, out)
		}
	}
}

func TestConvertMergeOverlaps(t *testing.T) {
	doc := &extract.Document{
		PageCount:  1,
		PageSizes:  []model.PageSize{{Width: 612, Height: 792}},
		TextBlocks: []model.TextBlock{{Text: "Body", BBox: model.NewBBox(100, 300, 400, 500), FontName: "Helvetica", FontSize: 12}},
		Images:     []model.ImageBlock{pngImage(t, 0, model.NewBBox(110, 310, 390, 490))},
	}

	tests := []struct {
		name  string
		merge bool
		want  int
	}{
		{"merge off", false, 2},
		{"merge on", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FromDocument(doc).WithoutOCR().Logger(quietLogger())
			if tt.merge {
				c = c.MergeOverlaps()
			}
			layout, err := c.Layout(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if got := len(layout.Page(0).Elements); got != tt.want {
				t.Errorf("got %d elements, want %d", got, tt.want)
			}
		})
	}
}

func TestConvertCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FromDocument(testDocument(t)).Logger(quietLogger()).Convert(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		meta     map[string]string
		want     string
	}{
		{"metadata title", "/tmp/a.pdf", map[string]string{"title": " Annual Report "}, "Annual Report"},
		{"file name", "/tmp/scans/invoice-42.pdf", nil, "invoice-42"},
		{"blank title", "report.pdf", map[string]string{"title": "  "}, "report"},
		{"no name", "", nil, "Document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Converter{filename: tt.filename}
			if got := c.title(&extract.Document{Metadata: tt.meta}); got != tt.want {
				t.Errorf("title() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ============================================================================
// Output
// ============================================================================

func TestWriteDOCX(t *testing.T) {
	var buf bytes.Buffer
	err := FromDocument(testDocument(t)).WithoutOCR().Logger(quietLogger()).WriteDOCX(context.Background(), &buf)
	if err != nil {
		t.Fatalf("WriteDOCX failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{"[Content_Types].xml", "word/document.xml", "docProps/core.xml"} {
		if !names[want] {
			t.Errorf("missing part %s", want)
		}
	}
}

// docxParts returns the part names of a DOCX archive and the text of
// word/document.xml
func docxParts(t *testing.T, data []byte) (map[string]bool, string) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}

	names := make(map[string]bool)
	var document string
	for _, f := range zr.File {
		names[f.Name] = true
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		document = string(body)
	}
	return names, document
}

func hasMedia(names map[string]bool) bool {
	for name := range names {
		if strings.HasPrefix(name, "word/media/") {
			return true
		}
	}
	return false
}

func TestConvertPDFKeepsPaintedImageInBody(t *testing.T) {
	rec := &fakeRecognizer{words: []ocr.Word{{Text: "Chart", Confidence: 90}}}

	conv, err := Open("extract/testdata/layout.pdf").
		Recognizer(rec).
		Logger(quietLogger()).
		Convert(context.Background())
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	page := conv.Layout.Pages[0]
	if len(page.Headers) != 1 || model.ElementText(page.Headers[0]) != "Quarterly Report" {
		t.Errorf("headers = %v, want only the title line", page.Headers)
	}

	var images, ocrText int
	for _, e := range page.Elements {
		switch e.Type() {
		case model.ElementTypeImage:
			images++
		case model.ElementTypeOCRText:
			ocrText++
		}
	}
	if images != 1 || ocrText != 1 {
		t.Errorf("body has %d images and %d OCR elements, want 1 and 1", images, ocrText)
	}

	var buf bytes.Buffer
	if err := conv.WriteDOCX(&buf); err != nil {
		t.Fatalf("WriteDOCX failed: %v", err)
	}
	names, document := docxParts(t, buf.Bytes())
	if !hasMedia(names) {
		t.Error("expected the image in word/media")
	}
	if !strings.Contains(document, "Chart") {
		t.Error("expected the recognized text in the document body")
	}
}

func TestConvertUnplacedImageStaysInBody(t *testing.T) {
	// An image the page content never paints is boxed at the origin; its box
	// lies in the header zone but must not decide its region.
	img := pngImage(t, 0, model.NewBBox(0, 0, 200, 150))
	img.Unplaced = true
	doc := &extract.Document{
		PageCount:  1,
		PageSizes:  []model.PageSize{{Width: 612, Height: 792}},
		TextBlocks: []model.TextBlock{{Text: "Body", BBox: model.NewBBox(72, 300, 540, 320), FontName: "Helvetica", FontSize: 12}},
		Images:     []model.ImageBlock{img},
	}
	rec := &fakeRecognizer{words: []ocr.Word{{Text: "Stamp", Confidence: 90}}}

	conv, err := FromDocument(doc).Recognizer(rec).Logger(quietLogger()).Convert(context.Background())
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	page := conv.Layout.Pages[0]
	if len(page.Headers) != 0 {
		t.Errorf("expected no headers, got %d", len(page.Headers))
	}
	if len(page.Elements) != 3 {
		t.Errorf("expected text, image and OCR in the body, got %d elements", len(page.Elements))
	}

	var buf bytes.Buffer
	if err := conv.WriteDOCX(&buf); err != nil {
		t.Fatalf("WriteDOCX failed: %v", err)
	}
	names, document := docxParts(t, buf.Bytes())
	if !hasMedia(names) {
		t.Error("expected the image in word/media")
	}
	if !strings.Contains(document, "Stamp") {
		t.Error("expected the recognized text in the document body")
	}
}

func TestToHTML(t *testing.T) {
	var buf bytes.Buffer
	err := FromDocument(testDocument(t)).WithoutOCR().Logger(quietLogger()).ToHTML(context.Background(), &buf)
	if err != nil {
		t.Fatalf("ToHTML failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Quarterly Report") {
		t.Error("expected the title in the preview")
	}
	if !strings.Contains(out, "Revenue grew in every region.") {
		t.Error("expected body text in the preview")
	}
}
