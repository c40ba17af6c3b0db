// Package extract reads positioned text runs, embedded images and page
// geometry from PDF files.
//
// Text is read glyph by glyph with github.com/ledongthuc/pdf and merged into
// runs of uniform font on a shared baseline. Page sizes and images come from
// github.com/pdfcpu/pdfcpu. All coordinates are converted to page points
// with the origin at the top-left corner.
//
//	doc, err := extract.Open("report.pdf")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(doc.PageCount, len(doc.TextBlocks), len(doc.Images))
package extract
