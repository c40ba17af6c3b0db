// Package docx writes reconstructed layouts as DOCX (Office Open XML)
// documents.
//
// Every page becomes its own section carrying the page size, margins and,
// when present, a header and footer built from the page's text elements.
// Body elements are written in order: text as formatted runs, images as
// inline pictures and OCR text as gray italic runs with a confidence note
// when recognition was unsure.
package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/png"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/tsawler/relayout/internal/imageutil"
	"github.com/tsawler/relayout/model"
)

// Unit conversions from page points
const (
	twipsPerPoint = 20
	emuPerPoint   = 12700
)

// Formatting of OCR text and notes
const (
	ocrTextColor     = "808080"
	ocrNoteColor     = "FF0000"
	ocrNoteHalfPts   = 16
	imagePlaceholder = "[Image could not be inserted]"

	// headerDistance is the distance of headers and footers from the page edge
	headerDistance = 360
)

// Options controls DOCX output
type Options struct {
	// OCRNoteThreshold is the confidence below which OCR text is followed
	// by a "[OCR confidence: N%]" note. Default: 70
	OCRNoteThreshold float64

	// DetectAlignment centers or right-aligns text by its position on the
	// page. When false all text is left aligned. Default: false
	DetectAlignment bool

	// Core document properties
	Title   string
	Author  string
	Subject string
}

// DefaultOptions returns the default output options
func DefaultOptions() Options {
	return Options{
		OCRNoteThreshold: 70,
	}
}

// WriteFile writes the layout to path. A partially written file is removed
// on failure.
func WriteFile(path string, layout *model.DocumentLayout, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := Write(f, layout, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// Write writes the layout as a DOCX package to w
func Write(w io.Writer, layout *model.DocumentLayout, opts Options) error {
	b := newBuilder(layout, opts)
	doc := b.buildDocument()

	pw := newPackageWriter(w)

	if err := pw.writeXML("[Content_Types].xml", b.contentTypes()); err != nil {
		return err
	}
	if err := pw.writeXML("_rels/.rels", packageRels()); err != nil {
		return err
	}
	if err := pw.writeXML("word/document.xml", doc); err != nil {
		return err
	}
	if err := pw.writeXML("word/_rels/document.xml.rels", &relationshipsXML{
		Xmlns:         "http://schemas.openxmlformats.org/package/2006/relationships",
		Relationships: b.rels,
	}); err != nil {
		return err
	}
	if err := pw.writeXML("word/styles.xml", b.styles()); err != nil {
		return err
	}
	for _, part := range b.parts {
		if err := pw.writeXML(part.name, part.content); err != nil {
			return err
		}
	}
	for _, m := range b.media {
		if err := pw.writeBytes(m.name, m.data); err != nil {
			return err
		}
	}
	if err := pw.writeXML("docProps/core.xml", b.coreProperties()); err != nil {
		return err
	}

	return pw.close()
}

// xmlPart is a header or footer part
type xmlPart struct {
	name        string
	contentType string
	content     *headerFooterXML
}

// mediaPart is an image stored in word/media
type mediaPart struct {
	name string
	data []byte
}

// builder accumulates document content and the parts it references
type builder struct {
	layout *model.DocumentLayout
	opts   Options

	rels    []relationshipXML
	parts   []xmlPart
	media   []mediaPart
	nextRel int
	nextPic int
}

func newBuilder(layout *model.DocumentLayout, opts Options) *builder {
	b := &builder{layout: layout, opts: opts, nextRel: 1}
	b.addRel(relStyles, "styles.xml")
	return b
}

func (b *builder) addRel(relType, target string) string {
	id := "rId" + strconv.Itoa(b.nextRel)
	b.nextRel++
	b.rels = append(b.rels, relationshipXML{ID: id, Type: relType, Target: target})
	return id
}

func (b *builder) buildDocument() *documentXML {
	doc := &documentXML{
		XmlnsW:   nsW,
		XmlnsR:   nsR,
		XmlnsWP:  nsWP,
		XmlnsA:   nsA,
		XmlnsPic: nsPic,
	}

	pages := b.layout.Pages
	if len(pages) == 0 {
		doc.Body.SectPr = emptySection()
		return doc
	}

	for i, page := range pages {
		for _, elem := range page.Elements {
			doc.Body.Paragraphs = append(doc.Body.Paragraphs, b.elementParagraph(elem, page))
		}

		sect := b.section(page)
		if i == len(pages)-1 {
			doc.Body.SectPr = sect
			continue
		}
		// Sections other than the last end with a paragraph carrying sectPr
		doc.Body.Paragraphs = append(doc.Body.Paragraphs, paragraphXML{
			Properties: &paragraphPropsXML{SectPr: sect},
		})
	}

	return doc
}

func emptySection() *sectPrXML {
	return &sectPrXML{
		PageSize: pageSizeXML{W: 612 * twipsPerPoint, H: 792 * twipsPerPoint},
		Margins: pageMarginsXML{
			Top: 1440, Right: 1440, Bottom: 1440, Left: 1440,
			Header: headerDistance, Footer: headerDistance,
		},
	}
}

// section builds the section properties of a page, adding its header and
// footer parts
func (b *builder) section(page *model.PageLayout) *sectPrXML {
	sect := &sectPrXML{
		PageSize: pageSizeXML{
			W: twips(page.Size.Width),
			H: twips(page.Size.Height),
		},
		Margins: pageMarginsXML{
			Top:    twips(page.Margins.Top),
			Right:  twips(page.Margins.Right),
			Bottom: twips(page.Margins.Bottom),
			Left:   twips(page.Margins.Left),
			Header: headerDistance,
			Footer: headerDistance,
		},
	}
	if page.Size.Width > page.Size.Height {
		sect.PageSize.Orient = "landscape"
	}

	if p, ok := b.headerFooterParagraph(page.Headers); ok {
		name := fmt.Sprintf("header%d.xml", page.PageNum+1)
		b.parts = append(b.parts, xmlPart{
			name:        "word/" + name,
			contentType: ctHeader,
			content:     newHeaderFooter("w:hdr", p),
		})
		sect.HeaderRef = &headerFooterRefXML{Type: "default", ID: b.addRel(relHeader, name)}
	}

	if p, ok := b.headerFooterParagraph(page.Footers); ok {
		name := fmt.Sprintf("footer%d.xml", page.PageNum+1)
		b.parts = append(b.parts, xmlPart{
			name:        "word/" + name,
			contentType: ctFooter,
			content:     newHeaderFooter("w:ftr", p),
		})
		sect.FooterRef = &headerFooterRefXML{Type: "default", ID: b.addRel(relFooter, name)}
	}

	return sect
}

func newHeaderFooter(tag string, p paragraphXML) *headerFooterXML {
	return &headerFooterXML{
		XMLName:    xml.Name{Local: tag},
		XmlnsW:     nsW,
		XmlnsR:     nsR,
		Paragraphs: []paragraphXML{p},
	}
}

// headerFooterParagraph joins the text elements of a zone into a single
// paragraph, each followed by a space. Images and OCR text are not carried
// into headers and footers.
func (b *builder) headerFooterParagraph(elements []model.Element) (paragraphXML, bool) {
	var p paragraphXML
	for _, elem := range elements {
		te, ok := elem.(*model.TextElement)
		if !ok {
			continue
		}
		p.Runs = append(p.Runs, runXML{
			Properties: b.textRunProps(te.Block),
			Text:       newText(te.Block.Text + " "),
		})
	}
	return p, len(p.Runs) > 0
}

func (b *builder) elementParagraph(elem model.Element, page *model.PageLayout) paragraphXML {
	switch e := elem.(type) {
	case *model.TextElement:
		return paragraphXML{
			Properties: &paragraphPropsXML{Justification: &valXML{Val: b.alignment(e.Block.BBox, page)}},
			Runs: []runXML{{
				Properties: b.textRunProps(e.Block),
				Text:       newText(e.Block.Text),
			}},
		}
	case *model.ImageElement:
		return b.imageParagraph(e.Block)
	case *model.OCRTextElement:
		return b.ocrParagraph(e.Result)
	default:
		return paragraphXML{}
	}
}

func (b *builder) textRunProps(tb *model.TextBlock) *runPropsXML {
	font := b.layout.MapFont(tb.FontName)
	props := &runPropsXML{
		Fonts: &fontsXML{ASCII: font, HAnsi: font, CS: font},
	}
	if tb.FontSize > 0 {
		hp := halfPoints(tb.FontSize)
		props.Size = &valXML{Val: hp}
		props.SizeCS = &valXML{Val: hp}
	}
	if tb.IsBold() {
		props.Bold = &emptyXML{}
	}
	if tb.IsItalic() {
		props.Italic = &emptyXML{}
	}
	if tb.Color != 0 {
		c := tb.RGB()
		props.Color = &valXML{Val: fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)}
	}
	return props
}

func (b *builder) ocrParagraph(r *model.OCRResult) paragraphXML {
	p := paragraphXML{
		Runs: []runXML{{
			Properties: &runPropsXML{
				Italic: &emptyXML{},
				Color:  &valXML{Val: ocrTextColor},
			},
			Text: newText(r.Text),
		}},
	}

	if r.Confidence < b.opts.OCRNoteThreshold {
		size := strconv.Itoa(ocrNoteHalfPts)
		p.Runs = append(p.Runs, runXML{
			Properties: &runPropsXML{
				Color:  &valXML{Val: ocrNoteColor},
				Size:   &valXML{Val: size},
				SizeCS: &valXML{Val: size},
			},
			Text: newText(fmt.Sprintf(" [OCR confidence: %.0f%%]", r.Confidence)),
		})
	}

	return p
}

// imageParagraph embeds the image as a centered inline picture, or writes
// an italic placeholder when the payload cannot be converted to PNG
func (b *builder) imageParagraph(ib *model.ImageBlock) paragraphXML {
	data, err := imageutil.BlockPNG(ib)
	if err == nil {
		_, err = png.DecodeConfig(bytes.NewReader(data))
	}
	if err != nil {
		return paragraphXML{
			Runs: []runXML{{
				Properties: &runPropsXML{Italic: &emptyXML{}},
				Text:       newText(imagePlaceholder),
			}},
		}
	}

	b.nextPic++
	name := fmt.Sprintf("image%d.png", b.nextPic)
	b.media = append(b.media, mediaPart{name: "word/media/" + name, data: data})
	relID := b.addRel(relImage, "media/"+name)

	w, h := ib.BBox.Width(), ib.BBox.Height()
	if w <= 0 || h <= 0 {
		w, h = float64(ib.Width), float64(ib.Height)
	}
	ext := extentXML{CX: emu(w), CY: emu(h)}

	return paragraphXML{
		Properties: &paragraphPropsXML{Justification: &valXML{Val: "center"}},
		Runs: []runXML{{
			Drawing: &drawingXML{Inline: inlineXML{
				Extent: ext,
				DocPr:  docPrXML{ID: b.nextPic, Name: fmt.Sprintf("Picture %d", b.nextPic)},
				Graphic: graphicXML{Data: graphicDataXML{
					URI: pictureURI,
					Pic: picXML{
						NvPicPr:  nvPicPrXML{CNvPr: docPrXML{ID: 0, Name: name}},
						BlipFill: blipFillXML{Blip: blipXML{Embed: relID}},
						SpPr: spPrXML{
							Xfrm:     xfrmXML{Ext: ext},
							PrstGeom: prstGeomXML{Prst: "rect"},
						},
					},
				}},
			}},
		}},
	}
}

// alignTolerance is the fraction of the page width within which a block
// counts as centered or flush right
const alignTolerance = 0.05

// alignment returns the paragraph justification for a text box
func (b *builder) alignment(box model.BBox, page *model.PageLayout) string {
	if !b.opts.DetectAlignment {
		return "left"
	}

	width := page.Size.Width
	tol := width * alignTolerance
	left := box.X0 - page.Margins.Left
	right := (width - page.Margins.Right) - box.X1

	switch {
	case left <= tol:
		return "left"
	case math.Abs(box.CenterX()-width/2) <= tol && math.Abs(left-right) <= tol:
		return "center"
	case right <= tol:
		return "right"
	default:
		return "left"
	}
}

func (b *builder) contentTypes() *contentTypesXML {
	ct := &contentTypesXML{
		Xmlns: "http://schemas.openxmlformats.org/package/2006/content-types",
		Defaults: []defaultXML{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: "application/xml"},
			{Extension: "png", ContentType: "image/png"},
		},
		Overrides: []overrideXML{
			{PartName: "/word/document.xml", ContentType: ctDocument},
			{PartName: "/word/styles.xml", ContentType: ctStyles},
			{PartName: "/docProps/core.xml", ContentType: ctCore},
		},
	}
	for _, part := range b.parts {
		ct.Overrides = append(ct.Overrides, overrideXML{PartName: "/" + part.name, ContentType: part.contentType})
	}
	return ct
}

func packageRels() *relationshipsXML {
	return &relationshipsXML{
		Xmlns: "http://schemas.openxmlformats.org/package/2006/relationships",
		Relationships: []relationshipXML{
			{ID: "rId1", Type: relOfficeDocument, Target: "word/document.xml"},
			{ID: "rId2", Type: relCoreProps, Target: "docProps/core.xml"},
		},
	}
}

// styles sets the document defaults from the dominant font and size
func (b *builder) styles() *stylesXML {
	font := model.DefaultFontFamily
	size := 11.0
	if st := b.layout.Styles; st.HasDefaults() {
		font = b.layout.MapFont(st.DefaultFont)
		if st.DefaultFontSize > 0 {
			size = st.DefaultFontSize
		}
	}
	hp := halfPoints(size)

	return &stylesXML{
		XmlnsW: nsW,
		DocDefaults: docDefaultsXML{
			RunDefaults: rPrDefaultXML{Properties: runPropsXML{
				Fonts:  &fontsXML{ASCII: font, HAnsi: font, CS: font},
				Size:   &valXML{Val: hp},
				SizeCS: &valXML{Val: hp},
			}},
			ParagraphDefaults: pPrDefaultXML{Properties: defaultParagraphPropsXML{
				Spacing: spacingXML{After: 0},
			}},
		},
		Styles: []styleXML{
			{Type: "paragraph", Default: "1", StyleID: "Normal", Name: valXML{Val: "Normal"}},
		},
	}
}

func (b *builder) coreProperties() *corePropertiesXML {
	return &corePropertiesXML{
		XmlnsCP: "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		XmlnsDC: "http://purl.org/dc/elements/1.1/",
		Title:   b.opts.Title,
		Subject: b.opts.Subject,
		Creator: b.opts.Author,
	}
}

func newText(s string) *textXML {
	return &textXML{Space: "preserve", Value: s}
}

func twips(pt float64) int {
	return int(math.Round(pt * twipsPerPoint))
}

func emu(pt float64) int64 {
	return int64(math.Round(pt * emuPerPoint))
}

func halfPoints(pt float64) string {
	return strconv.Itoa(int(math.Round(pt * 2)))
}
