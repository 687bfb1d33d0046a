// Package geometry implements the polygon math used by text areas, frames
// and bubble detection. Coordinates are image pixels with y growing down.
package geometry
