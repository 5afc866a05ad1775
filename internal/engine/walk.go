package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/allnighter/allnighter/internal/ignore"
	"github.com/allnighter/allnighter/internal/validate"
)

// Target is one file selected for a batch.
type Target struct {
	// Path is the OS path used to read the file.
	Path string
	// Name is the display name: the path as given for explicit files, or
	// the root-relative slash path for files found by walking.
	Name string
	Size int64
	// Explicit is set for files named directly rather than found by a walk.
	Explicit bool
}

// Collect expands cfg.Paths into targets. Directories are walked honoring
// include/exclude globs, the built-in excludes and the root's ignore file.
// Files with an extension outside the allow-list are dropped during walks
// so that a directory of images does not turn into a wall of errors; v may
// be nil to keep them.
func Collect(cfg Config, v *validate.Validator) ([]Target, error) {
	paths := cfg.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	var out []Target
	seen := map[string]bool{}
	add := func(t Target) {
		key, _ := filepath.Abs(t.Path)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, t)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			add(Target{Path: p, Name: filepath.ToSlash(p), Size: info.Size(), Explicit: true})
			continue
		}
		err = Walk(p, cfg, func(t Target) {
			if v != nil && !v.AllowedType(t.Name) {
				return
			}
			add(t)
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Walk traverses root and invokes handle for each eligible file.
func Walk(root string, cfg Config, handle func(Target)) error {
	ign, _ := ignore.Load(filepath.Join(root, ignore.FileName))
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil
		}
		rel, _ := filepath.Rel(root, p)
		if d.IsDir() {
			if p == root {
				return nil
			}
			if cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			if ign.MatchDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !allowedByGlobs(rel, cfg) {
			return nil
		}
		if ign.Match(rel) {
			return nil
		}
		if cfg.DefaultExcludes && isDefaultFileExcluded(filepath.ToSlash(rel)) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		name := filepath.ToSlash(rel)
		if root != "." {
			name = filepath.ToSlash(filepath.Join(root, rel))
		}
		handle(Target{Path: p, Name: name, Size: info.Size()})
		return nil
	})
}

// CountTargets returns how many files a batch over cfg would cover.
func CountTargets(cfg Config) (int, error) {
	v := validate.New(validate.Config{MaxBytes: cfg.MaxBytes, Extensions: cfg.Extensions})
	ts, err := Collect(cfg, v)
	if err != nil {
		return 0, err
	}
	return len(ts), nil
}
