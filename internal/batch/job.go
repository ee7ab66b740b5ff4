package batch

import (
	"fmt"
	"strings"
	"time"
)

// Kind names the operation a Job runs.
type Kind string

const (
	KindCompress Kind = "compress"
	KindConvert  Kind = "convert"
	KindRename   Kind = "rename"
)

// Label is the status line shown while a batch of this kind runs.
func (k Kind) Label() string {
	switch k {
	case KindCompress:
		return "Compressing..."
	case KindConvert:
		return "Converting to WebP..."
	case KindRename:
		return "Renaming images..."
	default:
		return "Processing..."
	}
}

// ParseKind accepts the lowercase kind names used on the command line.
func ParseKind(value string) (Kind, error) {
	switch kind := Kind(strings.ToLower(strings.TrimSpace(value))); kind {
	case KindCompress, KindConvert, KindRename:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidJob, value)
	}
}

// Job is the settings record for one batch. Build one with Builder so the
// fields are validated.
type Job struct {
	Kind      Kind
	InputDir  string
	OutputDir string
	// Quality is the 0-100 encoder quality for compress and convert.
	Quality float64
	// Prefix and Name wrap the timestamp in renamed file names.
	Prefix string
	Name   string
	// Scale is the compress resize ratio in (0, 1].
	Scale   float64
	Workers int
	// Recursive walks subfolders and mirrors them under OutputDir.
	Recursive bool
	// TimeZone is the IANA zone EXIF capture times are read in.
	TimeZone string
}

// Location resolves TimeZone, falling back to the local zone when unset.
func (j Job) Location() (*time.Location, error) {
	if strings.TrimSpace(j.TimeZone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(j.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: time zone %q: %v", ErrInvalidJob, j.TimeZone, err)
	}
	return loc, nil
}
