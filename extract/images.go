package extract

import (
	"fmt"
	"io"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/relayout/internal/imageutil"
	"github.com/tsawler/relayout/model"
)

// extractImages reads every image of the document and places it where the
// page content paints it. Images that fail to decode are reported as
// warnings and skipped.
func extractImages(src io.ReadSeeker, conf *pdfmodel.Configuration, sizes []model.PageSize, painted []placements, minSize int) ([]model.ImageBlock, []error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, []error{fmt.Errorf("rewind for images: %w", err)}
	}

	pages, err := api.ExtractImagesRaw(src, nil, conf)
	if err != nil {
		return nil, []error{fmt.Errorf("extract images: %w", err)}
	}

	var images []model.ImageBlock
	var warnings []error

	for _, page := range pages {
		objNrs := make([]int, 0, len(page))
		for objNr := range page {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)

		for _, objNr := range objNrs {
			img := page[objNr]
			pageNum := img.PageNr - 1
			if pageNum < 0 || pageNum >= len(sizes) {
				continue
			}
			if img.Thumb {
				continue
			}
			if img.Reader == nil {
				warnings = append(warnings, fmt.Errorf("page %d image %d: unsupported encoding", pageNum, objNr))
				continue
			}

			data, err := io.ReadAll(img)
			if err != nil {
				warnings = append(warnings, fmt.Errorf("page %d image %d: %w", pageNum, objNr, err))
				continue
			}

			// Extracted images carry no dimensions; they come from the payload
			block := convertImage(data, img.FileType, img.Width, img.Height)
			if block.Width < minSize || block.Height < minSize {
				continue
			}
			block.PageNum = pageNum
			var placed bool
			block.BBox, placed = placeImage(painted[pageNum], img.Name, img.Width, img.Height, sizes[pageNum])
			block.Unplaced = !placed
			images = append(images, block)
		}
	}

	return images, warnings
}

// convertImage normalizes the payload to PNG when it can be decoded, taking
// the pixel size from the decoded image, and keeps the bytes as raw samples
// of width x height otherwise
func convertImage(data []byte, fileType string, width, height int) model.ImageBlock {
	block := model.ImageBlock{
		Width:  width,
		Height: height,
		Format: model.ImageFormatRaw,
		Data:   data,
	}

	if fileType != "" {
		if out, size, err := imageutil.ToPNG(data); err == nil {
			block.Width, block.Height = size.X, size.Y
			block.Data = out
			block.Format = model.ImageFormatPNG
			return block
		}
	}

	if img, err := imageutil.FromSamples(data, width, height); err == nil {
		if out, err := imageutil.EncodePNG(img); err == nil {
			block.Data = out
			block.Format = model.ImageFormatPNG
		}
	}

	return block
}
