// Package imageutil decodes the image payloads found in PDF files and
// normalizes them to PNG.
package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"

	_ "golang.org/x/image/tiff" // register TIFF decoder

	"github.com/tsawler/relayout/model"
)

// ErrUnsupported is returned for sample layouts that cannot be interpreted
var ErrUnsupported = errors.New("unsupported image data")

// Decode decodes an encoded image (PNG, JPEG, GIF or TIFF)
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// FromSamples interprets uncompressed 8-bit interleaved samples. The number
// of channels is derived from the data length: 1 is gray, 3 is RGB and 4 is
// CMYK.
func FromSamples(data []byte, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrUnsupported, width, height)
	}

	pixels := width * height
	if len(data) < pixels || len(data)%pixels != 0 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrUnsupported, len(data), width, height)
	}

	rect := image.Rect(0, 0, width, height)
	switch channels := len(data) / pixels; channels {
	case 1:
		img := image.NewGray(rect)
		copy(img.Pix, data)
		return img, nil
	case 3:
		img := image.NewRGBA(rect)
		for i := 0; i < pixels; i++ {
			img.Pix[i*4] = data[i*3]
			img.Pix[i*4+1] = data[i*3+1]
			img.Pix[i*4+2] = data[i*3+2]
			img.Pix[i*4+3] = 0xFF
		}
		return img, nil
	case 4:
		img := image.NewCMYK(rect)
		copy(img.Pix, data)
		return img, nil
	default:
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupported, channels)
	}
}

// EncodePNG encodes img as PNG
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ToPNG decodes an encoded image and re-encodes it as PNG. It also returns
// the decoded pixel size.
func ToPNG(data []byte) ([]byte, image.Point, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, image.Point{}, err
	}
	out, err := EncodePNG(img)
	if err != nil {
		return nil, image.Point{}, err
	}
	return out, img.Bounds().Size(), nil
}

// DecodeBlock decodes the payload of an image block according to its format
func DecodeBlock(b *model.ImageBlock) (image.Image, error) {
	switch b.Format {
	case model.ImageFormatRaw:
		return FromSamples(b.Data, b.Width, b.Height)
	default:
		return Decode(b.Data)
	}
}

// BlockPNG returns the image block's payload as PNG, converting raw samples
// when necessary
func BlockPNG(b *model.ImageBlock) ([]byte, error) {
	if b.Format == model.ImageFormatPNG {
		return b.Data, nil
	}
	img, err := DecodeBlock(b)
	if err != nil {
		return nil, err
	}
	return EncodePNG(img)
}

// Grayscale converts img to 8-bit gray
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}

	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.GrayModel.Convert(img.At(x, y)).(color.Gray))
		}
	}
	return gray
}
