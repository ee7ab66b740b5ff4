package imagefile

import (
	"fmt"
	"os"

	"github.com/liut/jpegquality"
)

// DetectJPEGQuality estimates the quality setting a JPEG was saved with from
// its quantization tables.
func DetectJPEGQuality(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	jq, err := jpegquality.New(file)
	if err != nil {
		return 0, fmt.Errorf("read quantization tables of %s: %w", path, err)
	}
	return jq.Quality(), nil
}
