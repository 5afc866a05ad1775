package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/allnighter/allnighter/internal/types"
)

// EmptySessionError is returned by the serializers when nothing has been
// added since the last reset.
type EmptySessionError struct {
	Op string
}

func (e *EmptySessionError) Error() string {
	if e.Op == "" {
		return "no results to export"
	}
	return fmt.Sprintf("%s: no results to export", e.Op)
}

// Is lets errors.Is(err, ErrEmptySession) match any EmptySessionError.
func (e *EmptySessionError) Is(target error) bool {
	_, ok := target.(*EmptySessionError)
	return ok
}

// ErrEmptySession matches every EmptySessionError via errors.Is.
var ErrEmptySession error = &EmptySessionError{}

// State is the lifecycle state of a session.
type State int

const (
	Empty State = iota
	Accumulating
	Readable
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Accumulating:
		return "accumulating"
	case Readable:
		return "readable"
	default:
		return "unknown"
	}
}

// Generation identifies one batch. Results tagged with an older generation
// are dropped by AddFor.
type Generation uint64

// Aggregator is the ordered, mutex-guarded collection of FileScanResult for
// one batch. The zero value is an empty session ready for use.
type Aggregator struct {
	mu      sync.Mutex
	gen     Generation
	results []types.FileScanResult
	read    bool
}

// New returns an empty session.
func New() *Aggregator { return &Aggregator{} }

// Reset clears the session and starts a new generation.
func (a *Aggregator) Reset() Generation {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results = nil
	a.read = false
	a.gen++
	return a.gen
}

// Generation returns the current batch generation.
func (a *Aggregator) Generation() Generation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen
}

// Add appends r in call order. The same file name may appear more than once.
func (a *Aggregator) Add(r types.FileScanResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results = append(a.results, r)
}

// AddFor appends r only when gen is still the current generation and
// reports whether it did.
func (a *Aggregator) AddFor(gen Generation, r types.FileScanResult) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return false
	}
	a.results = append(a.results, r)
	return true
}

// Len returns the number of results in the session.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.results)
}

// State reports the lifecycle state.
func (a *Aggregator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case len(a.results) == 0:
		return Empty
	case a.read:
		return Readable
	default:
		return Accumulating
	}
}

// Results returns a copy of the session in append order.
func (a *Aggregator) Results() []types.FileScanResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]types.FileScanResult, len(a.results))
	copy(out, a.results)
	return out
}

func (a *Aggregator) snapshot(op string) ([]types.FileScanResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.results) == 0 {
		return nil, &EmptySessionError{Op: op}
	}
	a.read = true
	out := make([]types.FileScanResult, len(a.results))
	copy(out, a.results)
	return out, nil
}

// ToPlainText renders one block per result with the file name, the distinct
// characters and the total count.
func (a *Aggregator) ToPlainText() (string, error) {
	rs, err := a.snapshot("plain text export")
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("AllNighter - Scan Results\n")
	sb.WriteString("================================\n\n")
	for _, r := range rs {
		fmt.Fprintf(&sb, "File: %s\n", r.FileName)
		fmt.Fprintf(&sb, "Characters found: %s\n", joinChars(r.Characters))
		fmt.Fprintf(&sb, "Total count: %d\n\n", r.Count)
	}
	return sb.String(), nil
}

// ToCSV renders a header row followed by one row per result. Text fields are
// always quoted with embedded quotes doubled; the count is not quoted.
func (a *Aggregator) ToCSV() (string, error) {
	rs, err := a.snapshot("csv export")
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(rs)+1)
	lines = append(lines, "File,Characters Found,Total Count")
	for _, r := range rs {
		lines = append(lines, fmt.Sprintf("%s,%s,%d", quote(r.FileName), quote(joinChars(r.Characters)), r.Count))
	}
	return strings.Join(lines, "\n"), nil
}

// ToClipboardText renders one "name: c1, c2 (N total)" line per result.
func (a *Aggregator) ToClipboardText() (string, error) {
	rs, err := a.snapshot("clipboard copy")
	if err != nil {
		return "", err
	}
	lines := make([]string, len(rs))
	for i, r := range rs {
		lines[i] = fmt.Sprintf("%s: %s (%d total)", r.FileName, joinChars(r.Characters), r.Count)
	}
	return strings.Join(lines, "\n"), nil
}

func joinChars(cs []string) string { return strings.Join(cs, ", ") }

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// IsEmpty reports whether err came from serializing an empty session.
func IsEmpty(err error) bool { return errors.Is(err, ErrEmptySession) }
