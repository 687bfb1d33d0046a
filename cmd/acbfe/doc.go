// Command acbfe edits comic books carrying ACBF metadata.
//
// Run without a subcommand and with -i/-o it behaves as a batch converter:
// the input is opened, its body pages are optionally re-encoded, resized or
// have a text layer burnt in, and the result is written to the output.
// Subcommands inspect and edit a single book; every editing command reads
// --input and writes --output, which defaults to the input.
package main
