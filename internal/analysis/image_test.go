package analysis

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Minimal PNG signature + IHDR chunk header, enough for MIME sniffing
var pngHeader = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53, 0xDE,
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neck.png")
	if err := os.WriteFile(path, pngHeader, 0600); err != nil {
		t.Fatal(err)
	}

	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage() error = %v", err)
	}

	if img.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", img.MIMEType)
	}
	if img.Name != "neck.png" {
		t.Errorf("Name = %q, want neck.png", img.Name)
	}
	if img.Size() != len(pngHeader) {
		t.Errorf("Size() = %d, want %d", img.Size(), len(pngHeader))
	}
}

func TestLoadImage_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadImage(filepath.Join(dir, "missing.jpg")); err == nil {
		t.Error("LoadImage() should fail for a missing file")
	}

	empty := filepath.Join(dir, "empty.jpg")
	if err := os.WriteFile(empty, nil, 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImage(empty); err == nil {
		t.Error("LoadImage() should fail for an empty file")
	}
}

func TestDetectMIMEType_NonImageFallsBack(t *testing.T) {
	if got := DetectMIMEType([]byte("just some text")); got != DefaultMIMEType {
		t.Errorf("DetectMIMEType(text) = %q, want %q", got, DefaultMIMEType)
	}
}

func TestParseDataURI(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(pngHeader)

	tests := []struct {
		name     string
		input    string
		wantMIME string
		wantErr  bool
	}{
		{"data uri with declared type", "data:image/webp;base64," + encoded, "image/webp", false},
		{"bare base64 sniffs type", encoded, "image/png", false},
		{"non-image declared type sniffs", "data:application/octet-stream;base64," + encoded, "image/png", false},
		{"not base64 data uri", "data:image/png," + encoded, "", true},
		{"no payload", "data:image/png;base64", "", true},
		{"garbage", "%%%not-base64%%%", "", true},
		{"empty", "  ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := ParseDataURI(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDataURI() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if img.MIMEType != tt.wantMIME {
				t.Errorf("MIMEType = %q, want %q", img.MIMEType, tt.wantMIME)
			}
			if img.Size() != len(pngHeader) {
				t.Errorf("decoded %d bytes, want %d", img.Size(), len(pngHeader))
			}
		})
	}
}

func TestImageDataURI(t *testing.T) {
	img := Image{Data: pngHeader, MIMEType: "image/png"}

	uri := img.DataURI()
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("DataURI() = %q", uri)
	}

	back, err := ParseDataURI(uri)
	if err != nil {
		t.Fatalf("ParseDataURI() error = %v", err)
	}
	if !bytes.Equal(back.Data, pngHeader) || back.MIMEType != "image/png" {
		t.Errorf("ParseDataURI(DataURI()) = %s, %d bytes", back.MIMEType, len(back.Data))
	}

	if got := (Image{Data: []byte{1}}).DataURI(); !strings.HasPrefix(got, "data:"+DefaultMIMEType+";base64,") {
		t.Errorf("DataURI() without MIME type = %q", got)
	}
}
