package imaging

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnknownFormat reports an image format without an encoder.
var ErrUnknownFormat = errors.New("unknown image format")

// Format is an output image format name as used on the command line.
type Format string

const (
	JPEG Format = "JPG"
	PNG  Format = "PNG"
	GIF  Format = "GIF"
	WEBP Format = "WEBP"
	BMP  Format = "BMP"
	TIFF Format = "TIFF"
)

// CLIFormats are the formats batch conversion accepts.
var CLIFormats = []Format{JPEG, PNG, GIF, WEBP, BMP}

// ParseFormat accepts a format name or extension in any case; JPEG is an alias of JPG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "JPG", "JPEG":
		return JPEG, nil
	case "PNG":
		return PNG, nil
	case "GIF":
		return GIF, nil
	case "WEBP":
		return WEBP, nil
	case "BMP":
		return BMP, nil
	case "TIF", "TIFF":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatOf returns the format implied by a file name's extension.
func FormatOf(name string) (Format, error) {
	return ParseFormat(filepath.Ext(name))
}

// Ext returns the lowercase file extension, including the dot.
func (f Format) Ext() string {
	switch f {
	case JPEG:
		return ".jpg"
	case TIFF:
		return ".tiff"
	}
	return "." + strings.ToLower(string(f))
}

// Encoder writes img to w. Quality is 1..100, or 0 for the codec default.
type Encoder func(w io.Writer, img image.Image, quality int) error

var (
	encodersMu sync.RWMutex
	encoders   = map[Format]Encoder{
		JPEG: encodeJPEG,
		PNG:  encodePNG,
		GIF:  encodeGIF,
		BMP:  func(w io.Writer, img image.Image, _ int) error { return bmp.Encode(w, img) },
		TIFF: func(w io.Writer, img image.Image, _ int) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
		},
	}
)

// RegisterEncoder installs the encoder for format, replacing any existing one.
func RegisterEncoder(format Format, enc Encoder) {
	encodersMu.Lock()
	defer encodersMu.Unlock()
	encoders[format] = enc
}

// CanEncode reports whether an encoder is registered for format.
func CanEncode(format Format) bool {
	encodersMu.RLock()
	defer encodersMu.RUnlock()
	_, ok := encoders[format]
	return ok
}

func encodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality <= 0 {
		quality = 75
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: min(quality, 100)})
}

func encodePNG(w io.Writer, img image.Image, quality int) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if quality > 0 && quality < 50 {
		enc.CompressionLevel = png.BestSpeed
	} else if quality >= 90 {
		enc.CompressionLevel = png.BestCompression
	}
	return enc.Encode(w, img)
}

func encodeGIF(w io.Writer, img image.Image, _ int) error {
	return gif.Encode(w, img, &gif.Options{NumColors: 256})
}

// Encode writes img in format.
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	encodersMu.RLock()
	enc, ok := encoders[format]
	encodersMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: no encoder for %s", ErrUnknownFormat, format)
	}
	return enc(w, img, quality)
}

// Decode reads a JPEG, PNG, GIF, BMP, TIFF or WebP image.
func Decode(r io.Reader) (image.Image, string, error) {
	img, kind, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, kind, nil
}

// DecodeConfig reads only the image dimensions.
func DecodeConfig(r io.Reader) (image.Config, error) {
	cfg, _, err := image.DecodeConfig(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, fmt.Errorf("decode image header: %w", err)
	}
	return cfg, nil
}

// Open decodes the image at path.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// Size returns the pixel dimensions of the image at path without decoding it fully.
func Size(path string) (image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Point{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	cfg, err := DecodeConfig(f)
	if err != nil {
		return image.Point{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}

// Save encodes img to path in format.
func Save(path string, img image.Image, format Format, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, img, format, quality); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write image: %w", err)
	}
	return f.Close()
}
