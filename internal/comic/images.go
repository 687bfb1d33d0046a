package comic

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"acbfe/internal/acbf"
	"acbfe/internal/archive"
	"acbfe/internal/imaging"
)

// maxRemoteImage caps the size of an http image download.
const maxRemoteImage = 64 << 20

// LoadImage decodes the image behind href. Local paths and zip: archives are
// resolved against the base directory; #id names an embedded binary.
func (s *Session) LoadImage(ctx context.Context, href string) (image.Image, error) {
	data, err := s.ImageBytes(ctx, href)
	if err != nil {
		return nil, err
	}
	img, _, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", href, err)
	}
	return img, nil
}

// ImageBytes returns the encoded image behind href.
func (s *Session) ImageBytes(ctx context.Context, href string) ([]byte, error) {
	uri := acbf.ParseImageURI(href)
	switch uri.Kind {
	case acbf.URIEmbedded:
		bin, ok := s.Doc.BinaryByID(uri.FilePath)
		if !ok {
			return nil, fmt.Errorf("embedded image %q not found", uri.FilePath)
		}
		return bin.Bytes()
	case acbf.URIZip:
		return archive.ReadFile(filepath.Join(s.BaseDir, filepath.FromSlash(uri.ArchivePath)), uri.FilePath)
	case acbf.URIHTTP:
		return s.fetch(ctx, uri.FilePath)
	default:
		data, err := os.ReadFile(s.localPath(href))
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		return data, nil
	}
}

func (s *Session) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteImage))
	if err != nil {
		return nil, fmt.Errorf("read image response: %w", err)
	}
	return data, nil
}

// PageImage decodes the image of page n and returns it with the page background.
func (s *Session) PageImage(ctx context.Context, n int) (image.Image, string, error) {
	page, err := s.Page(n)
	if err != nil {
		return nil, "", err
	}
	img, err := s.LoadImage(ctx, page.Image.Href)
	if err != nil {
		return nil, page.BgColor, fmt.Errorf("page %d: %w", n, err)
	}
	return img, page.BgColor, nil
}

// PageImagePath returns the file behind a local page image, or false for
// embedded, zip and remote images. Images outside the base directory are
// an error since callers may rewrite or remove the file.
func (s *Session) PageImagePath(n int) (string, bool, error) {
	page, err := s.Page(n)
	if err != nil {
		return "", false, err
	}
	if acbf.ParseImageURI(page.Image.Href).Kind != acbf.URILocal {
		return "", false, nil
	}
	path, err := s.containedPath(page.Image.Href)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}
