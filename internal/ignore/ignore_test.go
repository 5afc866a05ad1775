package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIgnoreMatch(t *testing.T) {
	dir := t.TempDir()
	ig := filepath.Join(dir, FileName)
	content := "node_modules/\n*.min.js\n# comment\n\nlegacy.html\n"
	if err := os.WriteFile(ig, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(ig)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]bool{
		"node_modules/pkg/index.js": true,
		"assets/app.min.js":         true,
		"legacy.html":               true,
		"es/strings.txt":            false,
	}
	for p, want := range cases {
		if got := m.Match(p); got != want {
			t.Fatalf("Match(%q)=%v want %v", p, got, want)
		}
	}
	if !m.MatchDir("node_modules") {
		t.Fatal("expected node_modules dir to be ignored")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), FileName))
	if err == nil {
		t.Fatal("expected error for missing ignore file")
	}
	if m.Match("anything.txt") {
		t.Fatal("zero matcher must not ignore anything")
	}
}

func TestParse(t *testing.T) {
	m := Parse(strings.NewReader("drafts/\n"))
	if !m.Match("drafts/es.txt") {
		t.Fatal("expected drafts/es.txt to be ignored")
	}
	if m.Match("final/es.txt") {
		t.Fatal("did not expect final/es.txt to be ignored")
	}
}
