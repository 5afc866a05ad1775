// Package session accumulates the per-file results of one batch and renders
// them as plain text, CSV or a clipboard summary. Exports are snapshots: a
// session stays appendable after it has been rendered.
package session
