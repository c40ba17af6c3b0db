// Package preview renders reconstructed layouts as standalone HTML pages
// for visual inspection. Every element is drawn as an absolutely positioned
// box at its page coordinates, so header and footer separation, column
// intervals and merge results can be checked at a glance.
package preview

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/relayout/internal/imageutil"
	"github.com/tsawler/relayout/model"
)

const stylesheet = `
body { background: #ddd; font-family: Arial, sans-serif; }
.page { position: relative; background: #fff; margin: 16pt auto; box-shadow: 0 0 4pt #888; overflow: hidden; }
.el { position: absolute; box-sizing: border-box; overflow: hidden; white-space: nowrap; }
.text { outline: 1px solid rgba(0, 0, 255, 0.3); }
.ocr_text { outline: 1px dashed rgba(0, 128, 0, 0.6); color: #808080; font-style: italic; }
.image { outline: 1px solid rgba(255, 0, 0, 0.4); }
.image img { width: 100%; height: 100%; }
.header { background: rgba(255, 200, 0, 0.15); }
.footer { background: rgba(0, 200, 255, 0.15); }
.column { position: absolute; top: 0; bottom: 0; border-left: 1px dotted #aaa; border-right: 1px dotted #aaa; }
.margins { position: absolute; border: 1px dashed #ccc; }
`

// Render writes an HTML preview of the layout to w
func Render(w io.Writer, layout *model.DocumentLayout, title string) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	titleNode := element(atom.Title)
	titleNode.AppendChild(text(title))
	head.AppendChild(titleNode)
	style := element(atom.Style)
	style.AppendChild(text(stylesheet))
	head.AppendChild(style)
	root.AppendChild(head)

	body := element(atom.Body)
	for _, page := range layout.Pages {
		body.AppendChild(renderPage(page, layout))
	}
	root.AppendChild(body)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("rendering preview: %w", err)
	}
	return nil
}

// RenderFile writes an HTML preview of the layout to path
func RenderFile(path string, layout *model.DocumentLayout, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Render(f, layout, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func renderPage(page *model.PageLayout, layout *model.DocumentLayout) *html.Node {
	section := element(atom.Section,
		attr("class", "page"),
		attr("data-page", strconv.Itoa(page.PageNum+1)),
		attr("style", fmt.Sprintf("width:%spt;height:%spt", pt(page.Size.Width), pt(page.Size.Height))),
	)

	m := page.Margins
	section.AppendChild(element(atom.Div,
		attr("class", "margins"),
		attr("style", fmt.Sprintf("left:%spt;top:%spt;right:%spt;bottom:%spt",
			pt(m.Left), pt(m.Top), pt(m.Right), pt(m.Bottom))),
	))

	for _, col := range page.Columns {
		section.AppendChild(element(atom.Div,
			attr("class", "column"),
			attr("style", fmt.Sprintf("left:%spt;width:%spt", pt(col.XStart), pt(col.Width))),
		))
	}

	for _, e := range page.Headers {
		section.AppendChild(renderElement(e, "header", layout))
	}
	for i, e := range page.Elements {
		n := renderElement(e, "body", layout)
		n.Attr = append(n.Attr, attr("data-order", strconv.Itoa(i+1)))
		section.AppendChild(n)
	}
	for _, e := range page.Footers {
		section.AppendChild(renderElement(e, "footer", layout))
	}

	return section
}

func renderElement(e model.Element, zone string, layout *model.DocumentLayout) *html.Node {
	b := e.BoundingBox()
	box := element(atom.Div,
		attr("class", "el "+e.Type().String()+" "+zone),
		attr("style", fmt.Sprintf("left:%spt;top:%spt;width:%spt;height:%spt;z-index:%d",
			pt(b.X0), pt(b.Y0), pt(b.Width()), pt(b.Height()), e.ZIndex())),
	)

	switch el := e.(type) {
	case *model.TextElement:
		tb := el.Block
		css := fmt.Sprintf("font-family:'%s';font-size:%spt", layout.MapFont(tb.FontName), pt(tb.FontSize))
		if tb.IsBold() {
			css += ";font-weight:bold"
		}
		if tb.IsItalic() {
			css += ";font-style:italic"
		}
		if tb.Color != 0 {
			c := tb.RGB()
			css += fmt.Sprintf(";color:#%02x%02x%02x", c.R, c.G, c.B)
		}
		span := element(atom.Span, attr("style", css))
		span.AppendChild(text(tb.Text))
		box.AppendChild(span)
	case *model.ImageElement:
		data, err := imageutil.BlockPNG(el.Block)
		if err != nil {
			box.AppendChild(text("[image]"))
			break
		}
		box.AppendChild(element(atom.Img,
			attr("src", "data:image/png;base64,"+base64.StdEncoding.EncodeToString(data)),
			attr("alt", fmt.Sprintf("image %dx%d", el.Block.Width, el.Block.Height)),
		))
	case *model.OCRTextElement:
		box.Attr = append(box.Attr, attr("title", fmt.Sprintf("OCR confidence %.0f%%", el.Result.Confidence)))
		box.AppendChild(text(el.Result.Text))
	}

	return box
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// pt formats a point value with at most two decimals
func pt(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
