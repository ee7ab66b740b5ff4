// Package imagefile wraps the third-party codecs imgopt delegates to: an
// orientation-aware decoder for JPEG, PNG and WebP inputs, JPEG and WebP
// encoders that take the user's 0-100 quality, Lanczos downscaling, source
// JPEG quality detection, and EXIF capture-time lookup.
//
// Nothing here touches directories or output naming; the batch and transform
// packages own that.
package imagefile
