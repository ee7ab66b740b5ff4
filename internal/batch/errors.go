package batch

import "errors"

var (
	// ErrNotDirectory reports an input path that is missing or not a folder.
	ErrNotDirectory = errors.New("the path must lead to a directory")
	// ErrInvalidQuality reports a quality outside 0-100.
	ErrInvalidQuality = errors.New("quality must be between 0 and 100")
	// ErrInvalidJob reports any other rejected Job field.
	ErrInvalidJob = errors.New("invalid job")
	// ErrLocked reports another run holding the output folder.
	ErrLocked = errors.New("output folder is locked by another run")
)
