// Package transform implements the per-file batch operations: JPEG
// compression, WebP conversion, and EXIF timestamp renaming. Each type
// satisfies batch.Operation and is safe for concurrent use.
package transform
