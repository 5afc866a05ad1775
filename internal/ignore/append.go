package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Append ensures pattern is listed in the ignore file under root, creating
// the file when missing. It reports whether the pattern was added; an
// existing entry is left alone.
func Append(root, pattern string) (bool, error) {
	pattern = filepath.ToSlash(strings.TrimSpace(pattern))
	if pattern == "" {
		return false, nil
	}
	path := filepath.Join(root, FileName)
	endsWithNewline := true
	if f, err := os.Open(path); err == nil {
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			if strings.TrimSpace(sc.Text()) == pattern {
				_ = f.Close()
				return false, nil
			}
		}
		_ = f.Close()
		if b, err := os.ReadFile(path); err == nil && len(b) > 0 {
			endsWithNewline = b[len(b)-1] == '\n'
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()
	if !endsWithNewline {
		pattern = "\n" + pattern
	}
	if _, err := f.WriteString(pattern + "\n"); err != nil {
		return false, err
	}
	return true, nil
}
