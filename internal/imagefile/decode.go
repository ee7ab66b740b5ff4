package imagefile

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imageorient"
	_ "golang.org/x/image/webp"
)

// Format identifies an image container by its conventional name.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

var extFormats = map[string]Format{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".jpe":  FormatJPEG,
	".png":  FormatPNG,
	".webp": FormatWebP,
}

// FormatFromPath guesses the format from the file extension, case-insensitively.
func FormatFromPath(path string) (Format, bool) {
	format, ok := extFormats[strings.ToLower(filepath.Ext(path))]
	return format, ok
}

// Decode reads the image at path and applies its EXIF orientation so the
// pixels are upright once metadata is dropped by re-encoding.
func Decode(path string) (image.Image, Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	img, name, err := imageorient.Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return img, Format(name), nil
}
