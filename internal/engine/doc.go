// Package engine turns file text into position-addressed special-character
// results. Scan is pure and safe for concurrent use; Run drives a whole
// batch of files through a worker pool into a session. This package is
// internal; external consumers should use the stable facade in pkg/core.
package engine
