// Package bubble locates the speech bubble under a point of a comic page
// and returns its outline as a polygon suited for text fitting.
package bubble
