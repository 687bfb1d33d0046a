// Package panels finds comic panels on a page and turns them into frames.
package panels
