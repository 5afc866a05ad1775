// Package validate screens candidate files before they reach the scan
// engine: size ceiling, extension allow-list and file-name safety. Files
// that fail here are reported as validation errors, never as scan errors.
package validate

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultMaxBytes is the per-file size ceiling (5 MiB).
const DefaultMaxBytes int64 = 5 << 20

// DefaultExtensions is the allow-list of plain-text-like formats.
var DefaultExtensions = []string{".txt", ".html", ".htm", ".css", ".js", ".xml", ".csv"}

// Reason classifies a validation failure.
type Reason string

const (
	ReasonSize  Reason = "size"
	ReasonType  Reason = "type"
	ReasonName  Reason = "name"
	ReasonLimit Reason = "limit"
)

// Error describes why a file was rejected.
type Error struct {
	Path   string
	Reason Reason
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Detail)
}

// Config controls validation. Zero values fall back to the defaults.
type Config struct {
	MaxBytes   int64
	Extensions []string
	// MaxFiles caps the batch size; 0 means unlimited.
	MaxFiles int
}

// Validator applies a Config.
type Validator struct {
	maxBytes int64
	exts     map[string]bool
	extList  []string
	maxFiles int
}

// New returns a validator for cfg.
func New(cfg Config) *Validator {
	v := &Validator{maxBytes: cfg.MaxBytes, maxFiles: cfg.MaxFiles, exts: map[string]bool{}}
	if v.maxBytes <= 0 {
		v.maxBytes = DefaultMaxBytes
	}
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !v.exts[e] {
			v.exts[e] = true
			v.extList = append(v.extList, e)
		}
	}
	return v
}

// Extensions returns the normalized allow-list.
func (v *Validator) Extensions() []string {
	out := make([]string, len(v.extList))
	copy(out, v.extList)
	return out
}

// MaxBytes returns the effective size ceiling.
func (v *Validator) MaxBytes() int64 { return v.maxBytes }

// File validates a single file by path and size. Name checks apply to the
// base name only so that directory components such as "./" are allowed.
func (v *Validator) File(path string, size int64) error {
	base := filepath.Base(path)
	if msg := checkName(base); msg != "" {
		return &Error{Path: path, Reason: ReasonName, Detail: msg}
	}
	if !v.AllowedType(base) {
		return &Error{Path: path, Reason: ReasonType, Detail: "unsupported file type, allowed types: " + strings.Join(v.extList, ", ")}
	}
	if size > v.maxBytes {
		return &Error{Path: path, Reason: ReasonSize, Detail: fmt.Sprintf("file is too large (%d bytes), maximum size: %d bytes", size, v.maxBytes)}
	}
	return nil
}

// AllowedType reports whether name ends with an allowed extension.
func (v *Validator) AllowedType(name string) bool {
	lower := strings.ToLower(name)
	for _, e := range v.extList {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}

// Batch checks that n files fit within MaxFiles.
func (v *Validator) Batch(n int) error {
	if v.maxFiles > 0 && n > v.maxFiles {
		return &Error{Path: "", Reason: ReasonLimit, Detail: fmt.Sprintf("too many files (%d), maximum per batch: %d", n, v.maxFiles)}
	}
	return nil
}

var reservedName = regexp.MustCompile(`(?i)^(CON|PRN|AUX|NUL|COM[1-9]|LPT[1-9])(\..*)?$`)

func checkName(name string) string {
	switch {
	case name == "" || name == "." || name == string(filepath.Separator):
		return "empty file name"
	case strings.Contains(name, ".."):
		return "file name contains '..'"
	case strings.ContainsAny(name, `<>:"|?*`):
		return "file name contains invalid characters"
	case strings.ContainsRune(name, 0):
		return "file name contains a NUL byte"
	case reservedName.MatchString(name):
		return "reserved device name"
	case strings.HasSuffix(name, "."):
		return "file name ends with a dot"
	case strings.TrimRight(name, " \t") != name:
		return "file name ends with whitespace"
	}
	return ""
}
