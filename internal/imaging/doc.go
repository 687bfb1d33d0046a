// Package imaging decodes, encodes and resizes page images.
package imaging
