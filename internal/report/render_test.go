package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/allnighter/allnighter/internal/types"
)

func sample() []types.FileScanResult {
	return []types.FileScanResult{
		types.NewFileScanResult("b.txt", []types.Match{
			{File: "b.txt", Line: 2, Position: 3, Character: "é"},
			{File: "b.txt", Line: 1, Position: 1, Character: "¿"},
		}),
		types.NewFileScanResult("a.txt", nil),
	}
}

func TestPrintText_NoResults_ShowsFooter(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, nil, PrintOptions{Duration: 1200 * time.Millisecond, FilesScanned: 10})
	out := buf.String()
	if !strings.Contains(out, "No files scanned") {
		t.Fatalf("expected empty-batch message; got: %q", out)
	}
	if !strings.Contains(out, "Files scanned: 10") {
		t.Fatalf("expected footer with files scanned; got: %q", out)
	}
}

func TestPrintText_WithMatches(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, sample(), PrintOptions{NoColor: true})
	out := buf.String()
	if !strings.Contains(out, "FILE: b.txt  LINE: 2 - POSITION: 3  é (U+00E9)") {
		t.Fatalf("expected match row; got: %q", out)
	}
	if !strings.Contains(out, "FILE: a.txt - NO SPECIAL CHARACTERS") {
		t.Fatalf("expected clean file row; got: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI escapes with NoColor; got: %q", out)
	}
}

func TestPrintTable_WithMatches(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, sample(), PrintOptions{NoColor: true})
	out := buf.String()
	if !strings.Contains(strings.ToUpper(out), "CODE POINT") {
		t.Fatalf("expected table header; got: %q", out)
	}
	if !strings.Contains(out, "U+00BF") {
		t.Fatalf("expected code point in table; got: %q", out)
	}
	if !strings.Contains(out, "│") {
		t.Fatalf("expected table borders; got: %q", out)
	}
	// sorted by line: ¿ (line 1) before é (line 2)
	if strings.Index(out, "U+00BF") > strings.Index(out, "U+00E9") {
		t.Fatalf("expected rows ordered by line; got: %q", out)
	}
}

func TestPrintTable_NoMatches_ShowsFooter(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, nil, PrintOptions{Duration: 1200 * time.Millisecond, FilesScanned: 10, Failed: 1})
	out := buf.String()
	if !strings.Contains(out, "No special characters found") {
		t.Fatalf("expected friendly no-matches message; got: %q", out)
	}
	if !strings.Contains(out, "Files scanned: 10") || !strings.Contains(out, "Files failed: 1") {
		t.Fatalf("expected footer with counts; got: %q", out)
	}
}

func TestCodePoint(t *testing.T) {
	cases := map[string]string{"é": "U+00E9", "✓": "U+2713", "": "", "€": "U+20AC"}
	for in, want := range cases {
		if got := CodePoint(in); got != want {
			t.Fatalf("CodePoint(%q)=%q want %q", in, got, want)
		}
	}
}

func TestWriteJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected [], got %q", buf.String())
	}
}
