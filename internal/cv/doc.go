// Package cv wires OpenCV (gocv) into bubble outlining, panel detection and
// WebP encoding. Importing it registers the WebP encoder with imaging.
package cv
