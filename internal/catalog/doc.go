// Package catalog keeps a SQLite index of comic books the user has added to
// their library, so books can be listed and searched by title, author, genre
// and language without reopening every archive.
package catalog
