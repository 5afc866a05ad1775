package allnighter

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	semver3 "github.com/blang/semver"
	semver "github.com/blang/semver/v4"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"golang.org/x/term"

	"github.com/allnighter/allnighter/internal/update"
)

// currentVersion returns the build version, falling back to the VCS
// revision when no version was stamped.
func currentVersion() string {
	v := version
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(v) == 0 {
				v = s.Value
			}
		}
	}
	return v
}

// selfUpdate replaces the running binary with the latest GitHub release.
// It reports whether a newer version was installed and which one.
func selfUpdate() (bool, string, error) {
	ver, err := semver.ParseTolerant(currentVersion())
	if err != nil {
		ver = semver.MustParse("0.0.0")
	}
	cur := semver3.MustParse(ver.String())
	latest, err := selfupdate.UpdateSelf(cur, update.Slug)
	if err != nil {
		return false, "", err
	}
	return !latest.Version.Equals(cur), latest.Version.String(), nil
}

// isTerminal reports whether f is attached to a TTY.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// configRoot is the directory whose local config applies to paths: the
// first path itself when it is a directory, otherwise its parent.
func configRoot(paths []string) string {
	p := "."
	if len(paths) > 0 {
		p = paths[0]
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	if fi, err := os.Stat(abs); err == nil && !fi.IsDir() {
		return filepath.Dir(abs)
	}
	return abs
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickInt64(cli int64, local, global *int64) int64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}

func pickList(cli string, file []string) []string {
	if l := splitList(cli); len(l) > 0 {
		return l
	}
	return file
}
