//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestNewWithoutTesseract(t *testing.T) {
	client, err := New("eng")
	if !errors.Is(err, ErrOCRNotEnabled) || client != nil {
		t.Fatalf("New = %v, %v; want nil, ErrOCRNotEnabled", client, err)
	}
	var nilClient *Client
	if err := nilClient.Close(); err != nil {
		t.Fatalf("Close on nil client: %v", err)
	}
}
