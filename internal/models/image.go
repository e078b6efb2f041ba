package models

import "fmt"

// MaxImageSize is the largest reference image the backend accepts.
const MaxImageSize = 10 * 1024 * 1024

// AcceptedImageTypes lists the content types accepted for reference images.
var AcceptedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// ValidateImage checks a reference image before any upload request is issued.
func ValidateImage(size int64, contentType string) error {
	if size > MaxImageSize {
		return fmt.Errorf("image too large: %d bytes (limit %dMB)", size, MaxImageSize/1024/1024)
	}
	for _, t := range AcceptedImageTypes {
		if contentType == t {
			return nil
		}
	}
	return fmt.Errorf("unsupported image type %q (accepted: JPG, PNG, WebP, GIF)", contentType)
}
