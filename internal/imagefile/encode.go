package imagefile

import (
	"image"
	"image/jpeg"
	"io"
	"math"

	"github.com/chai2010/webp"
	"github.com/nfnt/resize"
)

// EncodeJPEG writes img as baseline JPEG. Quality uses the 0-100 scale the
// prompts accept; it is rounded and clamped to the encoder's 1-100 range.
func EncodeJPEG(w io.Writer, img image.Image, quality float64) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality(quality)})
}

// EncodeWebP writes img as lossy WebP at the given 0-100 quality.
func EncodeWebP(w io.Writer, img image.Image, quality float64) error {
	return webp.Encode(w, img, &webp.Options{Quality: float32(clamp(quality, 0, 100))})
}

// Scale shrinks img by ratio, keeping the aspect ratio. Ratios >= 1 return img
// unchanged; images are never scaled up.
func Scale(img image.Image, ratio float64) image.Image {
	if ratio <= 0 || ratio >= 1 {
		return img
	}
	width := uint(math.Round(float64(img.Bounds().Dx()) * ratio))
	if width == 0 {
		width = 1
	}
	return resize.Resize(width, 0, img, resize.Lanczos3)
}

func jpegQuality(quality float64) int {
	q := int(math.Round(clamp(quality, 0, 100)))
	if q < 1 {
		q = 1
	}
	return q
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
