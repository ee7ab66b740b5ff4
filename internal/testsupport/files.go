package testsupport

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	mkdirFor(t, path)
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Gradient returns a w×h RGBA image with enough variation that JPEG quality
// settings produce measurably different output sizes.
func Gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: uint8((x*7 + y*13) % 256),
				A: 0xff,
			})
		}
	}
	return img
}

// WriteJPEG encodes a gradient fixture at the given JPEG quality.
func WriteJPEG(t testing.TB, path string, w, h, quality int) {
	t.Helper()
	writeImage(t, path, encodeJPEG(t, w, h, quality))
}

// WritePNG encodes a gradient fixture as PNG.
func WritePNG(t testing.TB, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, Gradient(w, h)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	writeImage(t, path, buf.Bytes())
}

// WriteJPEGWithCaptureTime writes a JPEG carrying an EXIF APP1 segment whose
// DateTimeOriginal is taken (format "YYYY:MM:DD HH:MM:SS").
func WriteJPEGWithCaptureTime(t testing.TB, path string, taken string) {
	t.Helper()
	data := encodeJPEG(t, 16, 16, 90)
	app1 := exifSegment(taken)

	// Splice the APP1 segment in right after the SOI marker.
	out := make([]byte, 0, len(data)+len(app1))
	out = append(out, data[:2]...)
	out = append(out, app1...)
	out = append(out, data[2:]...)
	writeImage(t, path, out)
}

func encodeJPEG(t testing.TB, w, h, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Gradient(w, h), &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// exifSegment builds a minimal little-endian TIFF structure: IFD0 holds only
// the Exif IFD pointer, and the Exif IFD holds only DateTimeOriginal.
func exifSegment(taken string) []byte {
	const (
		ifd0Offset    = 8
		ifdSize       = 2 + 12 + 4
		exifIFDOffset = ifd0Offset + ifdSize
		valueOffset   = exifIFDOffset + ifdSize
	)
	value := append([]byte(taken), 0)
	le := binary.LittleEndian

	tiff := make([]byte, 0, valueOffset+len(value))
	tiff = append(tiff, 'I', 'I')
	tiff = le.AppendUint16(tiff, 42)
	tiff = le.AppendUint32(tiff, ifd0Offset)

	// IFD0: ExifIFDPointer (0x8769), LONG.
	tiff = le.AppendUint16(tiff, 1)
	tiff = le.AppendUint16(tiff, 0x8769)
	tiff = le.AppendUint16(tiff, 4)
	tiff = le.AppendUint32(tiff, 1)
	tiff = le.AppendUint32(tiff, exifIFDOffset)
	tiff = le.AppendUint32(tiff, 0)

	// Exif IFD: DateTimeOriginal (0x9003), ASCII.
	tiff = le.AppendUint16(tiff, 1)
	tiff = le.AppendUint16(tiff, 0x9003)
	tiff = le.AppendUint16(tiff, 2)
	tiff = le.AppendUint32(tiff, uint32(len(value)))
	tiff = le.AppendUint32(tiff, valueOffset)
	tiff = le.AppendUint32(tiff, 0)

	tiff = append(tiff, value...)

	payload := append([]byte("Exif\x00\x00"), tiff...)
	segment := []byte{0xFF, 0xE1}
	segment = binary.BigEndian.AppendUint16(segment, uint16(len(payload)+2))
	return append(segment, payload...)
}

func writeImage(t testing.TB, path string, data []byte) {
	t.Helper()
	mkdirFor(t, path)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mkdirFor(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
}
