// Package convert re-encodes, resizes and text-renders the page images of
// an open comic in parallel.
package convert
