// Package fonts finds the fonts a stylesheet can refer to and embeds font
// files into documents.
package fonts
