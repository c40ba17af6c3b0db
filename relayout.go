// Package relayout provides a fluent API for converting PDF files to DOCX
// while keeping their page layout.
//
// Basic usage:
//
//	err := relayout.Open("document.pdf").ToDOCX(ctx, "document.docx")
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	err := relayout.Open("scan.pdf").
//	    Language("deu").
//	    OCRConfidence(50).
//	    MergeOverlaps().
//	    ToDOCX(ctx, "scan.docx")
//
// A conversion runs in three stages: extraction of text blocks and images
// (package extract), optional OCR of the images (package ocr) and layout
// reconstruction (package layout). The resulting layout can be written as
// DOCX (package docx) or as an HTML preview (package preview).
//
// Several files are converted concurrently with [ConvertFiles].
package relayout

import (
	"errors"

	"github.com/tsawler/relayout/extract"
)

// Version is the release of the library and the pdf2docx command
const Version = "1.0.0"

// ErrNoDocument is returned by a Converter created from a nil document
var ErrNoDocument = errors.New("no document to convert")

// Open returns a Converter for the PDF file at filename. Nothing is read
// until a terminal operation such as Convert or ToDOCX runs.
//
// Example:
//
//	err := relayout.Open("document.pdf").ToDOCX(ctx, "document.docx")
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromDocument returns a Converter for an already extracted document. This
// is useful when the extraction options need more control, or when the same
// document is converted several times.
//
// Example:
//
//	doc, err := extract.OpenWithOptions("document.pdf", opts)
//	if err != nil {
//	    // handle error
//	}
//	layout, err := relayout.FromDocument(doc).WithoutOCR().Layout(ctx)
func FromDocument(doc *extract.Document) *Converter {
	c := &Converter{
		doc:     doc,
		options: defaultOptions(),
	}
	if doc == nil {
		c.err = ErrNoDocument
	}
	return c
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	layout := relayout.Must(relayout.Open("document.pdf").Layout(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
