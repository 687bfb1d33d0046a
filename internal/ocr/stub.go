//go:build !ocr

package ocr

import (
	"errors"
	"image"

	"acbfe/internal/acbf"
)

// ErrOCRNotEnabled is returned by every client call when Tesseract support
// was not compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client is the stand-in used without the "ocr" build tag.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New(string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op; it is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizeRegion returns ErrOCRNotEnabled.
func (c *Client) RecognizeRegion(image.Image, acbf.Polygon) (string, error) {
	return "", ErrOCRNotEnabled
}
