// Package language normalises the language codes used for text layers and
// book metadata.
//
// ACBF stores ISO 639-1 codes ("en", "de"); ComicInfo and user input may
// carry ISO 639-2 codes or English names. Codes missing from the curated
// table are resolved through golang.org/x/text so any registered language
// still gets a display name.
package language
