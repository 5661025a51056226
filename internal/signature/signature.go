// Package signature decodes captured signature images. The client delivers a
// signature (drawn or typed, both rasterized in the browser) as an image data
// URL; this package validates the envelope and hands back the raw bytes.
package signature

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDataURL = errors.New("invalid signature data URL")

// mime type -> gofpdf image type
var imageTypes = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPG",
}

// Image is a decoded signature ready for embedding in a document.
type Image struct {
	Type string // PNG or JPG
	Data []byte
}

// Parse decodes a base64 image data URL (data:image/png;base64,...).
func Parse(dataURL string) (*Image, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return nil, ErrInvalidDataURL
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrInvalidDataURL
	}

	mime, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return nil, ErrInvalidDataURL
	}

	imageType, ok := imageTypes[mime]
	if !ok {
		return nil, fmt.Errorf("unsupported signature image type %q", mime)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode signature image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrInvalidDataURL
	}

	return &Image{Type: imageType, Data: data}, nil
}
