package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
)

// Relationship and content types
const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relHeader         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relFooter         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"

	ctDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles   = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctHeader   = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	ctFooter   = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
	ctCore     = "application/vnd.openxmlformats-package.core-properties+xml"
	ctRels     = "application/vnd.openxmlformats-package.relationships+xml"

	pictureURI = "http://schemas.openxmlformats.org/drawingml/2006/picture"
)

// contentTypesXML represents [Content_Types].xml
type contentTypesXML struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []defaultXML  `xml:"Default"`
	Overrides []overrideXML `xml:"Override"`
}

type defaultXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// relationshipsXML represents a .rels part
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// corePropertiesXML represents docProps/core.xml
type corePropertiesXML struct {
	XMLName xml.Name `xml:"cp:coreProperties"`
	XmlnsCP string   `xml:"xmlns:cp,attr"`
	XmlnsDC string   `xml:"xmlns:dc,attr"`
	Title   string   `xml:"dc:title,omitempty"`
	Subject string   `xml:"dc:subject,omitempty"`
	Creator string   `xml:"dc:creator,omitempty"`
}

// stylesXML represents word/styles.xml
type stylesXML struct {
	XMLName     xml.Name       `xml:"w:styles"`
	XmlnsW      string         `xml:"xmlns:w,attr"`
	DocDefaults docDefaultsXML `xml:"w:docDefaults"`
	Styles      []styleXML     `xml:"w:style"`
}

type docDefaultsXML struct {
	RunDefaults       rPrDefaultXML `xml:"w:rPrDefault"`
	ParagraphDefaults pPrDefaultXML `xml:"w:pPrDefault"`
}

type rPrDefaultXML struct {
	Properties runPropsXML `xml:"w:rPr"`
}

type pPrDefaultXML struct {
	Properties defaultParagraphPropsXML `xml:"w:pPr"`
}

type defaultParagraphPropsXML struct {
	Spacing spacingXML `xml:"w:spacing"`
}

type spacingXML struct {
	After int `xml:"w:after,attr"`
}

type styleXML struct {
	Type    string `xml:"w:type,attr"`
	Default string `xml:"w:default,attr,omitempty"`
	StyleID string `xml:"w:styleId,attr"`
	Name    valXML `xml:"w:name"`
}

// packageWriter writes the parts of a DOCX zip archive
type packageWriter struct {
	zw *zip.Writer
}

func newPackageWriter(w io.Writer) *packageWriter {
	return &packageWriter{zw: zip.NewWriter(w)}
}

// writeXML marshals v with an XML declaration into the named part
func (p *packageWriter) writeXML(name string, v any) error {
	f, err := p.zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := io.WriteString(f, xml.Header); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := xml.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return nil
}

// writeBytes stores data unchanged in the named part
func (p *packageWriter) writeBytes(name string, data []byte) error {
	f, err := p.zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func (p *packageWriter) close() error {
	if err := p.zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}
