// Package allnighter provides the command-line interface for AllNighter.
// It wires the scan, view, chars, baseline and config subcommands, parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/allnighter/allnighter/cmd/allnighter"
//	func main() { allnighter.Execute() }
package allnighter
