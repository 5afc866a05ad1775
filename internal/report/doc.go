// Package report renders scan results for humans and machines: bordered
// tables, legacy-style text rows, JSON and SARIF. It also owns the baseline
// file used to suppress reviewed matches and the fail-on-count policy.
package report
