package types

import (
	"bytes"
	"errors"
	"time"
)

// Format identifies how clipboard image bytes are encoded.
type Format string

const (
	FormatPNG  Format = "png"
	FormatTIFF Format = "tiff"
	FormatJPEG Format = "jpeg"
)

// Formats lists the supported formats in preference order.
var Formats = []Format{FormatPNG, FormatTIFF, FormatJPEG}

// ErrNoImage is returned by Service.Fetch when the clipboard holds no image
// in any supported format. It is an expected outcome, not an infrastructure
// failure; callers branch on it with errors.Is.
var ErrNoImage = errors.New("no image on clipboard")

// ImageData is one acquired clipboard image. Bytes is never empty and Format
// is always one of the supported formats. Ownership passes to the caller.
type ImageData struct {
	Bytes  []byte
	Format Format
}

// SaveRecord describes one image persisted into the workspace.
type SaveRecord struct {
	Path    string    `json:"path"`
	Format  Format    `json:"format"`
	Size    int64     `json:"size"`
	Created time.Time `json:"created"`
}

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	tiffLE    = []byte{'I', 'I', 0x2A, 0x00}
	tiffBE    = []byte{'M', 'M', 0x00, 0x2A}
)

// DetectFormat sniffs the encoding of image bytes from their magic number.
// The second return is false when the bytes match none of the supported
// formats.
func DetectFormat(data []byte) (Format, bool) {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return FormatPNG, true
	case bytes.HasPrefix(data, jpegMagic):
		return FormatJPEG, true
	case bytes.HasPrefix(data, tiffLE), bytes.HasPrefix(data, tiffBE):
		return FormatTIFF, true
	default:
		return "", false
	}
}

// Ext returns the filename extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}
