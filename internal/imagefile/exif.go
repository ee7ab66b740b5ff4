package imagefile

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifLayout is the EXIF 2.x DateTime format, "YYYY:MM:DD HH:MM:SS".
const exifLayout = "2006:01:02 15:04:05"

// ErrNoCaptureTime reports that a file carries no usable DateTimeOriginal tag.
var ErrNoCaptureTime = errors.New("no capture timestamp")

// CaptureTime returns the EXIF DateTimeOriginal of the file at path. The tag
// has no zone, so the wall-clock value is interpreted in loc.
func CaptureTime(path string, loc *time.Location) (time.Time, error) {
	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrNoCaptureTime, err)
	}
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrNoCaptureTime, err)
	}
	raw, err := tag.StringVal()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrNoCaptureTime, err)
	}
	return ParseCaptureTime(raw, loc)
}

// ParseCaptureTime parses an EXIF timestamp string as wall-clock time in loc.
// Trailing NUL padding and whitespace are ignored.
func ParseCaptureTime(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	value := strings.TrimSpace(strings.TrimRight(raw, "\x00"))
	if value == "" {
		return time.Time{}, ErrNoCaptureTime
	}
	ts, err := time.ParseInLocation(exifLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrNoCaptureTime, err)
	}
	return ts, nil
}
