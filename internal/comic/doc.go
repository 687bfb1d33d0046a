// Package comic implements an editing session over one comic book.
//
// A session is opened from either a bare .acbf file or a comic archive.
// Archives are extracted into a workspace; when they carry no ACBF file one
// is synthesized from the page images, importing ACV comic.xml frames or
// ComicRack ComicInfo.xml metadata when present. Edits are applied to the
// in-memory document and written back by SaveTo.
package comic
