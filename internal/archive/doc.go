// Package archive extracts and builds comic book archives. Zip archives are
// handled in process; RAR and 7z archives are unpacked with the unrar and 7z
// command line tools.
package archive
