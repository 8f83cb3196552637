package analysis

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMIMEType is sent when the payload does not sniff as an image
const DefaultMIMEType = "image/jpeg"

// LoadImage reads a photo from disk. The MIME type is sniffed from the
// content; anything that is not image/* is sent as DefaultMIMEType and left
// for the service to judge.
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("image file %s is empty", path)
	}

	return Image{
		Data:     data,
		MIMEType: DetectMIMEType(data),
		Name:     filepath.Base(path),
	}, nil
}

// DetectMIMEType sniffs an image MIME type from raw bytes
func DetectMIMEType(data []byte) string {
	mt := mimetype.Detect(data)
	if strings.HasPrefix(mt.String(), "image/") {
		// Drop parameters such as "; charset=binary"
		return strings.SplitN(mt.String(), ";", 2)[0]
	}
	return DefaultMIMEType
}

// ParseDataURI decodes a browser-style data URI ("data:image/png;base64,...").
// Input without the "data:...;base64," prefix is treated as bare base64.
func ParseDataURI(uri string) (Image, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return Image{}, fmt.Errorf("image payload is empty")
	}

	payload := uri
	declared := ""
	if strings.HasPrefix(uri, "data:") {
		comma := strings.IndexByte(uri, ',')
		if comma < 0 {
			return Image{}, fmt.Errorf("data URI has no payload")
		}
		header := uri[len("data:"):comma]
		payload = uri[comma+1:]

		if !strings.HasSuffix(header, ";base64") {
			return Image{}, fmt.Errorf("data URI is not base64 encoded")
		}
		declared = strings.TrimSuffix(header, ";base64")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some encoders drop padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return Image{}, fmt.Errorf("invalid base64 image payload: %w", err)
		}
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("image payload is empty")
	}

	mimeType := declared
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = DetectMIMEType(data)
	}

	return Image{Data: data, MIMEType: mimeType}, nil
}

// DataURI encodes the image the way ParseDataURI expects it
func (img Image) DataURI() string {
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
