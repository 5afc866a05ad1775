// Package ignore loads .allnighterignore files. The syntax is gitignore's.
package ignore

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// FileName is the ignore file looked up in each scan root.
const FileName = ".allnighterignore"

// Matcher reports whether a root-relative path is ignored.
type Matcher struct {
	m gitignore.IgnoreMatcher
}

// Load parses the ignore file at path. A missing file yields a matcher that
// ignores nothing, along with the open error.
func Load(path string) (Matcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return Matcher{}, err
	}
	defer f.Close()
	return Parse(f), nil
}

// Parse builds a matcher from gitignore-formatted patterns.
func Parse(r io.Reader) Matcher {
	return Matcher{m: gitignore.NewGitIgnoreFromReader(".", r)}
}

// Match reports whether rel, a slash- or OS-separated path relative to the
// scan root, is ignored directly or through one of its parent directories.
func (m Matcher) Match(rel string) bool {
	return m.match(rel, false)
}

// MatchDir is Match for directories, used to prune walks.
func (m Matcher) MatchDir(rel string) bool {
	return m.match(rel, true)
}

func (m Matcher) match(rel string, isDir bool) bool {
	if m.m == nil {
		return false
	}
	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == "." || rel == "" {
		return false
	}
	parts := strings.Split(rel, "/")
	for i := 1; i < len(parts); i++ {
		if m.m.Match(strings.Join(parts[:i], "/"), true) {
			return true
		}
	}
	return m.m.Match(rel, isDir)
}
