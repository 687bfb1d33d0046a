package acbf

import (
	"strings"
)

// URIKind classifies an image href.
type URIKind string

const (
	URILocal    URIKind = "local"
	URIZip      URIKind = "zip"
	URIEmbedded URIKind = "embedded"
	URIHTTP     URIKind = "http"
)

// ImageURI is a parsed image href:
//
//	zip:archive.cbz!/page.jpg  image inside an archive relative to the book
//	#cover.jpg                 embedded binary with that id
//	http://host/page.jpg       remote image
//	page.jpg                   file relative to the book directory
type ImageURI struct {
	Kind        URIKind
	ArchivePath string
	FilePath    string
}

// ParseImageURI classifies href. Backslashes in local paths are normalised to slashes.
func ParseImageURI(href string) ImageURI {
	switch {
	case strings.HasPrefix(href, "zip:"):
		rest := href[len("zip:"):]
		archive, file, ok := strings.Cut(rest, "!")
		if !ok {
			return ImageURI{Kind: URIZip, ArchivePath: slashes(rest)}
		}
		return ImageURI{Kind: URIZip, ArchivePath: slashes(archive), FilePath: slashes(strings.TrimPrefix(file, "/"))}
	case strings.HasPrefix(href, "#"):
		return ImageURI{Kind: URIEmbedded, FilePath: href[1:]}
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return ImageURI{Kind: URIHTTP, FilePath: href}
	default:
		return ImageURI{Kind: URILocal, FilePath: slashes(href)}
	}
}

func slashes(s string) string {
	return strings.ReplaceAll(s, `\`, "/")
}

func (u ImageURI) String() string {
	switch u.Kind {
	case URIZip:
		return "zip:" + u.ArchivePath + "!/" + u.FilePath
	case URIEmbedded:
		return "#" + u.FilePath
	default:
		return u.FilePath
	}
}
