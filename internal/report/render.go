package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/allnighter/allnighter/internal/types"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
	Failed       int
}

var (
	fileStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	charStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	cleanStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// CodePoint formats r as U+XXXX.
func CodePoint(r string) string {
	for _, c := range r {
		return fmt.Sprintf("U+%04X", c)
	}
	return ""
}

// SortedMatches flattens results into matches ordered by file, line and
// position.
func SortedMatches(results []types.FileScanResult) []types.Match {
	var out []types.Match
	for _, r := range results {
		out = append(out, r.Matches...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Position < b.Position
	})
	return out
}

// PrintTable renders every match as a bordered table row.
func PrintTable(w io.Writer, results []types.FileScanResult, opts PrintOptions) {
	matches := SortedMatches(results)
	if len(matches) == 0 {
		fmt.Fprintln(w, "No special characters found ✅")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("File", "Line", "Position", "Char", "Code Point")
		for _, m := range matches {
			_ = table.Append([]string{m.File, strconv.Itoa(m.Line), strconv.Itoa(m.Position), m.Character, CodePoint(m.Character)})
		}
		if err := table.Render(); err != nil {
			fmt.Fprintf(w, "render table: %v\n", err)
		}
	}
	printFooter(w, results, opts)
}

// PrintText renders one line per match in the legacy report layout, and a
// single line for each file without matches.
func PrintText(w io.Writer, results []types.FileScanResult, opts PrintOptions) {
	paint := func(s lipgloss.Style, v string) string {
		if opts.NoColor {
			return v
		}
		return s.Render(v)
	}
	for _, r := range results {
		if !r.HasMatches() {
			fmt.Fprintf(w, "FILE: %s - %s\n", paint(fileStyle, r.FileName), paint(cleanStyle, "NO SPECIAL CHARACTERS"))
			continue
		}
		for _, m := range r.Matches {
			fmt.Fprintf(w, "FILE: %s  LINE: %d - POSITION: %d  %s %s\n",
				paint(fileStyle, m.File), m.Line, m.Position,
				paint(charStyle, m.Character), paint(dimStyle, "("+CodePoint(m.Character)+")"))
		}
	}
	if len(results) == 0 {
		fmt.Fprintln(w, "No files scanned")
	}
	printFooter(w, results, opts)
}

func printFooter(w io.Writer, results []types.FileScanResult, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Matches: %d (distinct characters: %d)\n", types.TotalMatches(results), len(types.DistinctCharacters(results)))
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	}
	if opts.Failed > 0 {
		fmt.Fprintf(w, "Files failed: %d\n", opts.Failed)
	}
}
