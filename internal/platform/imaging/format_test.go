package imaging

import (
	"errors"
	"testing"
)

func dicomPayload() []byte {
	data := make([]byte, 200)
	copy(data[128:], []byte("DICM"))
	return data
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		data     []byte
		want     string
	}{
		{"png", "chest.png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, "png"},
		{"jpeg", "chest.jpg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, "jpeg"},
		{"gif", "chest.gif", []byte("GIF89a...."), "gif"},
		{"bmp", "chest.bmp", []byte("BM......"), "bmp"},
		{"dicom magic", "study.bin", dicomPayload(), "dicom"},
		{"dcm extension without preamble magic", "study.dcm", make([]byte, 300), "dicom"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFormat(tc.filename, tc.data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDetectFormat_Rejects(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"empty", "empty.png", nil},
		{"text file", "notes.txt", []byte("this is not an image")},
		{"truncated dcm", "tiny.dcm", []byte("DI")},
		{"random bytes", "xray.png", []byte{0x00, 0x01, 0x02, 0x03}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DetectFormat(tc.filename, tc.data)
			if !errors.Is(err, ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
		})
	}
}
