// Package textutil holds small text helpers shared by the importers, the
// catalog and the CLI: personal name splitting, file name sanitizing, and
// token fingerprints used to rank library search results.
package textutil
