package constants

import "strings"

// SourceTypes holds the allowed source kinds for a pipeline run.
var SourceTypes = []string{IMAGE, TEXT}

const (
	IMAGE = "IMAGE"
	TEXT  = "TEXT"
)

// MaxUploadBytes is the largest image the image hosts accept.
const MaxUploadBytes = 5 << 20

// AllowedExtensions holds the screenshot extensions accepted for OCR.
var AllowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// IsImageExt reports whether ext (with or without dot) is an accepted screenshot type.
func IsImageExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// MimeForExt returns the content type used when uploading an image.
func MimeForExt(ext string) string {
	switch NormalizeExt(ext) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	}
	return "application/octet-stream"
}
