//go:build ocr

package ocr

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"acbfe/internal/acbf"
)

// ErrOCRNotEnabled is never returned when Tesseract support is compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client wraps a Tesseract engine. It is not safe for concurrent use.
type Client struct {
	client *gosseract.Client
}

// New returns a client recognising lang, a Tesseract language such as
// "eng" or "eng+deu". Close it when done.
func New(lang string) (*Client, error) {
	client := gosseract.NewClient()
	if lang = strings.TrimSpace(lang); lang != "" {
		if err := client.SetLanguage(strings.Split(lang, "+")...); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("set ocr language: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("set page segmentation: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases the engine. It is safe to call on a nil client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// RecognizeRegion returns the text inside poly with surrounding
// whitespace trimmed and lines joined by newlines.
func (c *Client) RecognizeRegion(img image.Image, poly acbf.Polygon) (string, error) {
	data, err := RegionPNG(img, poly)
	if err != nil {
		return "", err
	}
	if err := c.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set ocr image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognise text: %w", err)
	}
	return cleanText(text), nil
}
