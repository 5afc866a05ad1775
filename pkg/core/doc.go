// Package core provides a small, stable facade over AllNighter's internal
// scanner for external integrations. It re-exports a narrow API surface so
// other tools can depend on a stable import path without reaching into
// internal packages.
//
// Example:
//
//	sess := core.NewSession()
//	res, err := core.Run(ctx, core.Config{Paths: []string{"."}}, sess)
//	if err != nil { /* handle */ }
//	_ = core.MarshalResults(os.Stdout, res.Results())
package core
