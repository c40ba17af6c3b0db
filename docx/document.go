package docx

import "encoding/xml"

// XML namespaces used in DOCX files
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
)

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName  xml.Name `xml:"w:document"`
	XmlnsW   string   `xml:"xmlns:w,attr"`
	XmlnsR   string   `xml:"xmlns:r,attr"`
	XmlnsWP  string   `xml:"xmlns:wp,attr"`
	XmlnsA   string   `xml:"xmlns:a,attr"`
	XmlnsPic string   `xml:"xmlns:pic,attr"`
	Body     bodyXML  `xml:"w:body"`
}

// bodyXML represents the document body. The last section's properties
// follow the paragraphs.
type bodyXML struct {
	Paragraphs []paragraphXML `xml:"w:p"`
	SectPr     *sectPrXML     `xml:"w:sectPr"`
}

// headerFooterXML represents word/headerN.xml and word/footerN.xml
type headerFooterXML struct {
	XMLName    xml.Name
	XmlnsW     string         `xml:"xmlns:w,attr"`
	XmlnsR     string         `xml:"xmlns:r,attr"`
	Paragraphs []paragraphXML `xml:"w:p"`
}

// paragraphXML represents a paragraph element (<w:p>).
type paragraphXML struct {
	Properties *paragraphPropsXML `xml:"w:pPr,omitempty"`
	Runs       []runXML           `xml:"w:r"`
}

// paragraphPropsXML represents paragraph properties (<w:pPr>). A section
// break is expressed as sectPr inside the last paragraph of the section.
type paragraphPropsXML struct {
	Justification *valXML    `xml:"w:jc,omitempty"`
	SectPr        *sectPrXML `xml:"w:sectPr,omitempty"`
}

// valXML is any element carrying only w:val
type valXML struct {
	Val string `xml:"w:val,attr"`
}

// emptyXML is a toggle element such as <w:b/>
type emptyXML struct{}

// runXML represents a text run (<w:r>).
type runXML struct {
	Properties *runPropsXML `xml:"w:rPr,omitempty"`
	Text       *textXML     `xml:"w:t,omitempty"`
	Drawing    *drawingXML  `xml:"w:drawing,omitempty"`
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Fonts  *fontsXML `xml:"w:rFonts,omitempty"`
	Bold   *emptyXML `xml:"w:b,omitempty"`
	Italic *emptyXML `xml:"w:i,omitempty"`
	Color  *valXML   `xml:"w:color,omitempty"`
	Size   *valXML   `xml:"w:sz,omitempty"`
	SizeCS *valXML   `xml:"w:szCs,omitempty"`
}

type fontsXML struct {
	ASCII string `xml:"w:ascii,attr"`
	HAnsi string `xml:"w:hAnsi,attr"`
	CS    string `xml:"w:cs,attr"`
}

// textXML represents run text (<w:t>).
type textXML struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

// sectPrXML represents section properties
type sectPrXML struct {
	HeaderRef *headerFooterRefXML `xml:"w:headerReference,omitempty"`
	FooterRef *headerFooterRefXML `xml:"w:footerReference,omitempty"`
	PageSize  pageSizeXML         `xml:"w:pgSz"`
	Margins   pageMarginsXML      `xml:"w:pgMar"`
}

type headerFooterRefXML struct {
	Type string `xml:"w:type,attr"`
	ID   string `xml:"r:id,attr"`
}

type pageSizeXML struct {
	W      int    `xml:"w:w,attr"`
	H      int    `xml:"w:h,attr"`
	Orient string `xml:"w:orient,attr,omitempty"`
}

type pageMarginsXML struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

// drawingXML represents an inline picture (<w:drawing>).
type drawingXML struct {
	Inline inlineXML `xml:"wp:inline"`
}

type inlineXML struct {
	DistT   int        `xml:"distT,attr"`
	DistB   int        `xml:"distB,attr"`
	DistL   int        `xml:"distL,attr"`
	DistR   int        `xml:"distR,attr"`
	Extent  extentXML  `xml:"wp:extent"`
	DocPr   docPrXML   `xml:"wp:docPr"`
	Graphic graphicXML `xml:"a:graphic"`
}

type extentXML struct {
	CX int64 `xml:"cx,attr"`
	CY int64 `xml:"cy,attr"`
}

type docPrXML struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type graphicXML struct {
	Data graphicDataXML `xml:"a:graphicData"`
}

type graphicDataXML struct {
	URI string `xml:"uri,attr"`
	Pic picXML `xml:"pic:pic"`
}

type picXML struct {
	NvPicPr  nvPicPrXML  `xml:"pic:nvPicPr"`
	BlipFill blipFillXML `xml:"pic:blipFill"`
	SpPr     spPrXML     `xml:"pic:spPr"`
}

type nvPicPrXML struct {
	CNvPr    docPrXML `xml:"pic:cNvPr"`
	CNvPicPr emptyXML `xml:"pic:cNvPicPr"`
}

type blipFillXML struct {
	Blip    blipXML    `xml:"a:blip"`
	Stretch stretchXML `xml:"a:stretch"`
}

type blipXML struct {
	Embed string `xml:"r:embed,attr"`
}

type stretchXML struct {
	FillRect emptyXML `xml:"a:fillRect"`
}

type spPrXML struct {
	Xfrm     xfrmXML     `xml:"a:xfrm"`
	PrstGeom prstGeomXML `xml:"a:prstGeom"`
}

type xfrmXML struct {
	Off offXML    `xml:"a:off"`
	Ext extentXML `xml:"a:ext"`
}

type offXML struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type prstGeomXML struct {
	Prst  string   `xml:"prst,attr"`
	AvLst emptyXML `xml:"a:avLst"`
}
