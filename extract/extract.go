package extract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/relayout/format"
	"github.com/tsawler/relayout/model"
)

// ErrNoPages is returned for documents without any page
var ErrNoPages = errors.New("document has no pages")

// ErrNotPDF is returned when the input lacks a PDF header
var ErrNotPDF = errors.New("not a PDF document")

// Options controls extraction
type Options struct {
	// WordGap is the largest horizontal gap between glyphs, as a fraction of
	// the font size, that still continues a text run. Default: 0.3
	WordGap float64

	// MinImageSize is the minimum width and height in pixels for an image to
	// be kept. Default: 10
	MinImageSize int

	// SkipImages disables image extraction
	SkipImages bool
}

// DefaultOptions returns the default extraction options
func DefaultOptions() Options {
	return Options{
		WordGap:      0.3,
		MinImageSize: 10,
	}
}

// Document holds everything extracted from a PDF
type Document struct {
	Metadata   map[string]string
	PageCount  int
	PageSizes  []model.PageSize
	TextBlocks []model.TextBlock
	Images     []model.ImageBlock

	// Warnings collects non-fatal problems, such as images that could not
	// be read
	Warnings []error
}

// Source is the input accepted by Read. *os.File and *bytes.Reader satisfy it.
type Source interface {
	io.ReaderAt
	io.ReadSeeker
}

// Open extracts a PDF file with default options
func Open(path string) (*Document, error) {
	return OpenWithOptions(path, DefaultOptions())
}

// OpenWithOptions extracts a PDF file
func OpenWithOptions(path string, opts Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return Read(f, info.Size(), opts)
}

// Read extracts a PDF from src, which holds size bytes
func Read(src Source, size int64, opts Options) (*Document, error) {
	if f, err := format.DetectFromReader(src, size); err != nil || f != format.PDF {
		return nil, ErrNotPDF
	}

	r, err := pdf.NewReader(src, size)
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	pageCount := r.NumPage()
	if pageCount == 0 {
		return nil, ErrNoPages
	}

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	doc := &Document{
		Metadata:  readMetadata(r),
		PageCount: pageCount,
	}

	doc.PageSizes = pageSizes(r, src, conf, pageCount)
	painted := make([]placements, pageCount)

	for i := 0; i < pageCount; i++ {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		if !opts.SkipImages {
			p, err := imagePlacements(page, doc.PageSizes[i].Height)
			if err != nil {
				doc.Warnings = append(doc.Warnings, fmt.Errorf("page %d image placement: %w", i, err))
			}
			painted[i] = p
		}
		glyphs, err := pageGlyphs(page)
		if err != nil {
			doc.Warnings = append(doc.Warnings, fmt.Errorf("page %d text: %w", i, err))
			continue
		}
		doc.TextBlocks = append(doc.TextBlocks, buildTextBlocks(glyphs, i, doc.PageSizes[i].Height, opts.WordGap)...)
	}

	if !opts.SkipImages {
		images, warnings := extractImages(src, conf, doc.PageSizes, painted, opts.MinImageSize)
		doc.Images = images
		doc.Warnings = append(doc.Warnings, warnings...)
	}

	return doc, nil
}

// pageGlyphs reads the positioned glyphs of a page. Malformed content
// streams can make the parser panic, which is reported as an error.
func pageGlyphs(page pdf.Page) (glyphs []pdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed content stream: %v", r)
		}
	}()
	return page.Content().Text, nil
}

var metadataKeys = []string{"Title", "Author", "Subject", "Keywords", "Creator", "Producer"}

func readMetadata(r *pdf.Reader) map[string]string {
	meta := make(map[string]string)
	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return meta
	}
	for _, key := range metadataKeys {
		if v := strings.TrimSpace(info.Key(key).Text()); v != "" {
			meta[strings.ToLower(key)] = v
		}
	}
	return meta
}

// DefaultPageSize is used when a page's dimensions cannot be read (US Letter)
var DefaultPageSize = model.PageSize{Width: 612, Height: 792}

// pageSizes returns one size per page, preferring pdfcpu's page dimensions
// and falling back to the MediaBox read by the text parser
func pageSizes(r *pdf.Reader, src Source, conf *pdfmodel.Configuration, pageCount int) []model.PageSize {
	sizes := make([]model.PageSize, pageCount)

	var dims []model.PageSize
	if _, err := src.Seek(0, io.SeekStart); err == nil {
		if d, err := api.PageDims(src, conf); err == nil {
			for _, dim := range d {
				dims = append(dims, model.PageSize{Width: dim.Width, Height: dim.Height})
			}
		}
	}

	for i := range sizes {
		switch {
		case i < len(dims) && dims[i].Width > 0 && dims[i].Height > 0:
			sizes[i] = dims[i]
		default:
			sizes[i] = mediaBoxSize(r.Page(i + 1))
		}
	}

	return sizes
}

func mediaBoxSize(page pdf.Page) model.PageSize {
	box := page.V.Key("MediaBox")
	if box.Kind() != pdf.Array || box.Len() != 4 {
		return DefaultPageSize
	}
	w := box.Index(2).Float64() - box.Index(0).Float64()
	h := box.Index(3).Float64() - box.Index(1).Float64()
	if w <= 0 || h <= 0 {
		return DefaultPageSize
	}
	return model.PageSize{Width: w, Height: h}
}
