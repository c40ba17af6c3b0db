package ocr

import (
	"image"
	"sort"

	"golang.org/x/image/draw"

	"github.com/tsawler/relayout/internal/imageutil"
)

// maxUpscale limits how much small images are enlarged
const maxUpscale = 4.0

// Preprocess prepares an image for recognition: grayscale, contrast
// stretch, 3x3 median denoise, upscale to minWidth and Otsu binarization.
// The result holds only 0 and 255 pixels.
func Preprocess(img image.Image, minWidth int) *image.Gray {
	gray := imageutil.Grayscale(img)
	gray = StretchContrast(gray)
	gray = Denoise(gray)
	gray = Upscale(gray, minWidth)
	return Binarize(gray)
}

// StretchContrast linearly maps the 1st to 99th percentile of intensities
// onto the full range
func StretchContrast(src *image.Gray) *image.Gray {
	var hist [256]int
	for _, v := range src.Pix {
		hist[v]++
	}

	n := len(src.Pix)
	if n == 0 {
		return src
	}
	lo := percentile(hist, n, 0.01)
	hi := percentile(hist, n, 0.99)
	if hi <= lo {
		return src
	}

	dst := image.NewGray(src.Rect)
	scale := 255.0 / float64(hi-lo)
	for i, v := range src.Pix {
		switch {
		case int(v) <= lo:
			dst.Pix[i] = 0
		case int(v) >= hi:
			dst.Pix[i] = 255
		default:
			dst.Pix[i] = uint8(float64(int(v)-lo)*scale + 0.5)
		}
	}
	return dst
}

func percentile(hist [256]int, n int, p float64) int {
	target := int(float64(n) * p)
	sum := 0
	for v, c := range hist {
		sum += c
		if sum > target {
			return v
		}
	}
	return 255
}

// Denoise applies a 3x3 median filter. Border pixels are copied unchanged.
func Denoise(src *image.Gray) *image.Gray {
	b := src.Rect
	if b.Dx() < 3 || b.Dy() < 3 {
		return src
	}

	dst := image.NewGray(b)
	copy(dst.Pix, src.Pix)

	var window [9]int
	for y := b.Min.Y + 1; y < b.Max.Y-1; y++ {
		for x := b.Min.X + 1; x < b.Max.X-1; x++ {
			k := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					window[k] = int(src.GrayAt(x+dx, y+dy).Y)
					k++
				}
			}
			sort.Ints(window[:])
			dst.Pix[dst.PixOffset(x, y)] = uint8(window[4])
		}
	}
	return dst
}

// Upscale enlarges images narrower than minWidth with Catmull-Rom
// resampling, by at most maxUpscale
func Upscale(src *image.Gray, minWidth int) *image.Gray {
	w := src.Rect.Dx()
	if w == 0 || w >= minWidth {
		return src
	}

	factor := min(float64(minWidth)/float64(w), maxUpscale)
	nw := int(float64(w) * factor)
	nh := int(float64(src.Rect.Dy()) * factor)

	dst := image.NewGray(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// OtsuThreshold returns the intensity that best separates the histogram
// into two classes
func OtsuThreshold(src *image.Gray) uint8 {
	var hist [256]int
	for _, v := range src.Pix {
		hist[v]++
	}

	total := len(src.Pix)
	var sum float64
	for v, c := range hist {
		sum += float64(v * c)
	}

	var sumB, best float64
	var wB int
	threshold := 0
	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			threshold = t
		}
	}
	return uint8(threshold)
}

// Binarize maps pixels above the Otsu threshold to white and the rest to black
func Binarize(src *image.Gray) *image.Gray {
	t := OtsuThreshold(src)
	dst := image.NewGray(src.Rect)
	for i, v := range src.Pix {
		if v > t {
			dst.Pix[i] = 255
		}
	}
	return dst
}
