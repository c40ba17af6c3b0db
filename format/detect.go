// Package format identifies the document formats relayout reads and writes.
package format

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is a document format known to relayout
type Format int

const (
	// Unknown indicates an unrecognized format
	Unknown Format = iota
	// PDF is the input format
	PDF
	// DOCX is the Word output format
	DOCX
	// HTML is the layout preview format
	HTML
)

// headerWindow is how far into a file the PDF header may start. Readers
// accept leading garbage before "%PDF-" within the first kilobyte.
const headerWindow = 1024

var pdfHeader = []byte("%PDF-")

var zipHeader = []byte{'P', 'K', 0x03, 0x04}

// String returns the name of the format
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case DOCX:
		return "DOCX"
	case HTML:
		return "HTML"
	default:
		return "Unknown"
	}
}

// Extension returns the file extension written for the format
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case DOCX:
		return ".docx"
	case HTML:
		return ".html"
	default:
		return ""
	}
}

// Detect determines the format from the filename extension, ignoring case
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".docx":
		return DOCX
	case ".html", ".htm":
		return HTML
	default:
		return Unknown
	}
}

// DetectFromMagic determines the format from the leading bytes of a file.
// ZIP archives need their directory inspected and report Unknown here; use
// DetectFromReader for them.
func DetectFromMagic(data []byte) Format {
	if len(data) > headerWindow {
		data = data[:headerWindow]
	}

	if bytes.Contains(data, pdfHeader) {
		return PDF
	}
	if looksLikeHTML(data) {
		return HTML
	}
	return Unknown
}

// looksLikeHTML reports whether data starts with a doctype or html tag
func looksLikeHTML(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	upper := strings.ToUpper(string(data[:min(len(data), 64)]))
	return strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML")
}

// DetectFromReader inspects the content to determine the format. ZIP
// archives are DOCX only when they hold a word/document.xml part.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, headerWindow)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if bytes.HasPrefix(magic, zipHeader) {
		return detectZIP(r, size)
	}
	return DetectFromMagic(magic), nil
}

// DetectFile inspects the content of the file at path
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Unknown, err
	}
	return DetectFromReader(f, info.Size())
}

func detectZIP(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, fmt.Errorf("reading zip directory: %w", err)
	}

	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			return DOCX, nil
		}
	}
	return Unknown, nil
}
