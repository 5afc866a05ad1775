package tui

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/allnighter/allnighter/internal/ignore"
	"github.com/allnighter/allnighter/internal/report"
	"github.com/allnighter/allnighter/internal/session"
	"github.com/allnighter/allnighter/internal/types"
)

// DefaultBaselinePath is the baseline file 'b' writes to when none is set.
const DefaultBaselinePath = report.DefaultBaselinePath

// ExportFormat selects what the export menu writes.
type ExportFormat string

const (
	ExportText  ExportFormat = "txt"
	ExportCSV   ExportFormat = "csv"
	ExportSARIF ExportFormat = "sarif"
	ExportJSON  ExportFormat = "json"
)

// writeClipboard is swapped in tests; headless CI has no clipboard.
var writeClipboard = clipboard.WriteAll

// ExportFileName is the file an export in format f is written to.
func ExportFileName(f ExportFormat) string {
	return "allnighter-results." + string(f)
}

// Export renders the session in format f. Text and CSV use the session's
// own serializers and so fail on an empty session.
func Export(sess *session.Aggregator, f ExportFormat) ([]byte, error) {
	switch f {
	case ExportText:
		s, err := sess.ToPlainText()
		return []byte(s), err
	case ExportCSV:
		s, err := sess.ToCSV()
		return []byte(s), err
	case ExportSARIF:
		var buf bytes.Buffer
		err := report.WriteSARIF(&buf, sess.Results(), "")
		return buf.Bytes(), err
	case ExportJSON:
		var buf bytes.Buffer
		err := report.WriteJSON(&buf, sess.Results())
		return buf.Bytes(), err
	default:
		return nil, fmt.Errorf("unknown export format %q", f)
	}
}

func (m *Model) exportResults(f ExportFormat) tea.Cmd {
	sess, dir := m.sess, m.exportDir
	return func() tea.Msg {
		data, err := Export(sess, f)
		if errors.Is(err, session.ErrEmptySession) {
			return statusMsg("No results to export")
		}
		if err != nil {
			return statusMsg(fmt.Sprintf("Export error: %v", err))
		}
		path := filepath.Join(dir, ExportFileName(f))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return statusMsg(fmt.Sprintf("Write error: %v", err))
		}
		abs, _ := filepath.Abs(path)
		return statusMsg(fmt.Sprintf("Exported %d files to %s", sess.Len(), abs))
	}
}

// copySessionToClipboard copies the per-file summary of the whole session.
func (m Model) copySessionToClipboard() tea.Cmd {
	text, err := m.sess.ToClipboardText()
	if errors.Is(err, session.ErrEmptySession) {
		return func() tea.Msg { return statusMsg("No results to copy") }
	}
	if err := writeClipboard(text); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Clipboard error: %v", err)) }
	}
	n := m.sess.Len()
	return func() tea.Msg { return statusMsg(fmt.Sprintf("Copied summary of %d files to clipboard", n)) }
}

// MatchText is the clipboard form of a single match.
func MatchText(mt types.Match) string {
	return fmt.Sprintf("%s:%d:%d %s (%s)", mt.File, mt.Line, mt.Position, mt.Character, report.CodePoint(mt.Character))
}

func (m Model) copyMatchToClipboard() tea.Cmd {
	mt := m.getSelectedMatch()
	if mt == nil {
		return func() tea.Msg { return statusMsg("No match selected") }
	}
	text := MatchText(*mt)
	if err := writeClipboard(text); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Clipboard error: %v", err)) }
	}
	return func() tea.Msg { return statusMsg("Copied: " + text) }
}

func (m *Model) addToBaseline() tea.Cmd {
	mt := m.getSelectedMatch()
	if mt == nil {
		return nil
	}
	key := baselineKey(*mt)
	if m.baselinedSet[key] {
		return func() tea.Msg { return statusMsg("Match is already baselined") }
	}

	base, err := report.LoadBaseline(m.baselinePath)
	if err != nil && !os.IsNotExist(err) {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Error loading baseline: %v", err)) }
	}
	base.Items[key] = true
	if err := saveBaselineItems(m.baselinePath, base); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Error writing baseline: %v", err)) }
	}

	m.baselinedSet[key] = true
	cursor := m.table.Cursor()
	m.rebuildTableRows()
	m.table.SetCursor(cursor)
	return func() tea.Msg { return statusMsg("Added match to baseline") }
}

// saveBaselineItems writes base as is; report.SaveBaseline would rebuild it
// from results and drop entries for files outside this session.
func saveBaselineItems(path string, base report.Baseline) error {
	buf, err := json.MarshalIndent(base, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

func (m Model) ignoreFile() tea.Cmd {
	mt := m.getSelectedMatch()
	if mt == nil {
		return nil
	}
	name := mt.File
	added, err := ignore.Append(m.exportDir, name)
	if err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Error writing to %s: %v", ignore.FileName, err)) }
	}
	if !added {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("%s is already in %s", name, ignore.FileName)) }
	}
	return func() tea.Msg { return statusMsg(fmt.Sprintf("Added %s to %s (applies on rescan)", name, ignore.FileName)) }
}

// editorArgs builds the command line that opens path at line and column
// for the common editors.
func editorArgs(editor, path string, line, col int) []string {
	base := filepath.Base(editor)
	switch base {
	case "code", "code-insiders":
		return []string{"-g", fmt.Sprintf("%s:%d:%d", path, line, col)}
	case "subl", "sublime", "sublime_text":
		return []string{fmt.Sprintf("%s:%d:%d", path, line, col)}
	case "emacs", "emacsclient":
		return []string{fmt.Sprintf("+%d:%d", line, col), path}
	case "nano":
		return []string{fmt.Sprintf("+%d,%d", line, col), path}
	case "vi", "vim", "nvim":
		return []string{fmt.Sprintf("+call cursor(%d,%d)", line, col), path}
	default:
		return []string{fmt.Sprintf("+%d", line), path}
	}
}

func (m Model) openEditor() tea.Cmd {
	mt := m.getSelectedMatch()
	if mt == nil {
		return nil
	}
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		fields = []string{"vim"}
	}
	args := append(fields[1:], editorArgs(fields[0], mt.File, mt.Line, mt.Position)...)
	c := exec.Command(fields[0], args...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			return statusMsg(fmt.Sprintf("Error opening editor: %v", err))
		}
		return statusMsg("Editor closed")
	})
}
