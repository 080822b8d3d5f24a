// Package imaging validates uploaded study images and talks to the
// chest X-ray classification service.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrDecode indicates the uploaded payload is not a readable medical image.
// Handlers map it to a client error; nothing is persisted.
var ErrDecode = errors.New("unreadable image upload")

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	gifMagic  = []byte("GIF8")
	bmpMagic  = []byte("BM")
	dicmMagic = []byte("DICM")
)

// dicomPreambleLen is the fixed-length preamble before the DICM marker.
const dicomPreambleLen = 128

// DetectFormat sniffs the upload and returns its format name ("png", "jpeg",
// "gif", "bmp", "dicom"). Unsupported or truncated payloads return ErrDecode.
func DetectFormat(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrDecode)
	}

	switch {
	case bytes.HasPrefix(data, pngMagic):
		return "png", nil
	case bytes.HasPrefix(data, jpegMagic):
		return "jpeg", nil
	case bytes.HasPrefix(data, gifMagic):
		return "gif", nil
	case bytes.HasPrefix(data, bmpMagic):
		return "bmp", nil
	}

	if isDICOM(filename, data) {
		return "dicom", nil
	}

	return "", fmt.Errorf("%w: unrecognized format in %q", ErrDecode, filepath.Base(filename))
}

// isDICOM checks for the DICM marker after the 128-byte preamble. Some
// exporters omit the preamble, so a .dcm extension is accepted as a fallback
// when the payload is large enough to plausibly be a dataset.
func isDICOM(filename string, data []byte) bool {
	if len(data) > dicomPreambleLen+4 &&
		bytes.Equal(data[dicomPreambleLen:dicomPreambleLen+4], dicmMagic) {
		return true
	}
	if strings.EqualFold(filepath.Ext(filename), ".dcm") && len(data) > dicomPreambleLen {
		return true
	}
	return false
}
