package layout

import (
	"testing"

	"github.com/tsawler/relayout/model"
)

func TestRegionType_String(t *testing.T) {
	tests := []struct {
		r    RegionType
		want string
	}{
		{Body, "body"},
		{Header, "header"},
		{Footer, "footer"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestHeaderFooterSeparator_Classify(t *testing.T) {
	s := NewHeaderFooterSeparator()

	tests := []struct {
		name string
		elem model.Element
		want RegionType
	}{
		{"page number at top", textElem("1", 300, 20, 320, 40), Header},
		{"center just above header line", textElem("x", 100, 100, 200, 116), Header},
		{"center below header line", textElem("x", 100, 110, 200, 130), Body},
		{"body text", textElem("x", 72, 300, 540, 320), Body},
		{"center above footer line", textElem("x", 100, 660, 200, 680), Body},
		{"footer", textElem("x", 72, 740, 540, 760), Footer},
		{"tall image centered in body", imageElem(0, 0, 612, 792), Body},
		{"ocr in header", ocrElem("logo", 10, 10, 100, 50), Header},
		{"unplaced image at origin", unplacedImageElem(200, 150), Body},
		{"unplaced full-width banner", unplacedImageElem(612, 100), Body},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Classify(tt.elem, 792); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeaderFooterSeparator_Separate(t *testing.T) {
	s := NewHeaderFooterSeparator()
	elements := []model.Element{
		textElem("header", 72, 30, 300, 50),
		textElem("body 1", 72, 200, 540, 220),
		imageElem(72, 300, 540, 500),
		textElem("footer", 72, 750, 540, 770),
		textElem("body 2", 72, 520, 540, 540),
	}

	headers, footers, body := s.Separate(elements, 792)

	if len(headers) != 1 || headers[0] != elements[0] {
		t.Errorf("headers = %v", headers)
	}
	if len(footers) != 1 || footers[0] != elements[3] {
		t.Errorf("footers = %v", footers)
	}
	wantBody := []model.Element{elements[1], elements[2], elements[4]}
	if len(body) != len(wantBody) {
		t.Fatalf("body length = %d, want %d", len(body), len(wantBody))
	}
	for i := range wantBody {
		if body[i] != wantBody[i] {
			t.Errorf("body[%d] out of order", i)
		}
	}
}

func TestHeaderFooterSeparator_DisjointUnion(t *testing.T) {
	s := NewHeaderFooterSeparator()

	var elements []model.Element
	for y := 0.0; y < 792; y += 24 {
		elements = append(elements, textElem("line", 72, y, 540, y+12))
	}

	headers, footers, body := s.Separate(elements, 792)
	if len(headers)+len(footers)+len(body) != len(elements) {
		t.Fatalf("partition sizes %d+%d+%d != %d", len(headers), len(footers), len(body), len(elements))
	}

	seen := make(map[model.Element]int)
	for _, group := range [][]model.Element{headers, footers, body} {
		for _, e := range group {
			seen[e]++
		}
	}
	for _, e := range elements {
		if seen[e] != 1 {
			t.Errorf("element %v appears %d times", e.BoundingBox(), seen[e])
		}
	}
}

func TestHeaderFooterSeparator_EmptyInput(t *testing.T) {
	headers, footers, body := NewHeaderFooterSeparator().Separate(nil, 792)
	if headers == nil || footers == nil || body == nil {
		t.Error("expected non-nil empty slices")
	}
	if len(headers)+len(footers)+len(body) != 0 {
		t.Error("expected empty results")
	}
}

func TestHeaderFooterSeparator_CustomZones(t *testing.T) {
	s := NewHeaderFooterSeparatorWithConfig(HeaderFooterConfig{HeaderZone: 0.05, FooterZone: 0.95})
	elem := textElem("x", 72, 60, 300, 80)

	if got := s.Classify(elem, 792); got != Body {
		t.Errorf("narrow zones should classify as body, got %v", got)
	}
}

func TestDetectTextBlockHeadersFooters(t *testing.T) {
	blocks := []*model.TextBlock{
		makeTextBlock("top", 72, 40, 300, 60),
		makeTextBlock("near top", 72, 85, 300, 100),
		makeTextBlock("body", 72, 300, 540, 320),
		makeTextBlock("bottom", 72, 720, 540, 740),
		makeTextBlock("tall", 72, 50, 540, 750),
	}

	headers, footers := DetectTextBlockHeadersFooters(blocks, 792, DefaultTextBlockZoneConfig())

	// header limit 79.2, footer limit 712.8
	if len(headers) != 2 || headers[0] != blocks[0] || headers[1] != blocks[4] {
		t.Errorf("headers = %d blocks", len(headers))
	}
	if len(footers) != 2 || footers[0] != blocks[3] || footers[1] != blocks[4] {
		t.Errorf("footers = %d blocks", len(footers))
	}
}

func TestZoneDefaultsDiffer(t *testing.T) {
	if DefaultTextBlockHeaderZone >= DefaultElementHeaderZone {
		t.Error("text block header zone should be narrower than element zone")
	}
	if DefaultTextBlockFooterZone <= DefaultElementFooterZone {
		t.Error("text block footer zone should be narrower than element zone")
	}
}
