package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies an image file format.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	WebP Format = "webp"
)

var (
	// ErrUnknownFormat is returned when a file extension maps to no format.
	ErrUnknownFormat = errors.New("unknown image format")
	// ErrEncodeUnsupported is returned when a format can be read but not written.
	ErrEncodeUnsupported = errors.New("encoding not supported")
)

var extensions = map[string]Format{
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".gif":  GIF,
	".bmp":  BMP,
	".tif":  TIFF,
	".tiff": TIFF,
	".webp": WebP,
}

// FormatFromPath picks the format from the file extension of path,
// ignoring case.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	f, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return f, nil
}

// CanEncode reports whether images can be written in format f.
func (f Format) CanEncode() bool {
	switch f {
	case PNG, JPEG, GIF, BMP, TIFF:
		return true
	default:
		return false
	}
}
