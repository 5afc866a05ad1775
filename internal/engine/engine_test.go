package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allnighter/allnighter/internal/session"
	"github.com/allnighter/allnighter/internal/validate"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return dir
}

func names(rs []Outcome) []string {
	var out []string
	for _, o := range rs {
		out = append(out, filepath.Base(o.Path))
	}
	sort.Strings(out)
	return out
}

func TestRun_ScansDirectoryIntoSession(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"es.txt":        "¿Qué tal?\nAdiós",
		"en.txt":        "Hello",
		"page.html":     "<p>café</p>",
		"logo.png":      "\x89PNG",
		"sub/notes.csv": "a,b,ñ",
	})
	sess := session.New()
	var mu sync.Mutex
	var seen []string
	res, err := Run(context.Background(), Config{Paths: []string{dir}, Threads: 2}, sess, func(o Outcome) {
		mu.Lock()
		seen = append(seen, o.Path)
		mu.Unlock()
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.FilesScanned)
	assert.Equal(t, 0, res.Failed)
	assert.Len(t, seen, 4)
	assert.Equal(t, 4, sess.Len())
	assert.Equal(t, []string{"en.txt", "es.txt", "notes.csv", "page.html"}, names(res.Outcomes))
	assert.Equal(t, 1, res.Skipped, "logo.png is skipped by type")

	// session order equals completion order
	rs := res.Results()
	for i, o := range res.Outcomes {
		assert.Equal(t, o.Path, rs[i].FileName)
	}
}

func TestRun_PerFileFailuresDoNotBlockBatch(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"good.txt": "ñ",
		"bad.txt":  "caf\xe9",
	})
	res, err := Run(context.Background(), Config{Paths: []string{dir}}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesScanned)
	assert.Equal(t, 1, res.Failed)
	errs := res.Errors()
	require.Len(t, errs, 1)
	var iie *InvalidInputError
	assert.True(t, errors.As(errs[0], &iie))
}

func TestRun_Latin1Fallback(t *testing.T) {
	dir := writeFiles(t, map[string]string{"legacy.txt": "caf\xe9"})
	res, err := Run(context.Background(), Config{Paths: []string{dir}, Latin1Fallback: true}, nil, nil)
	require.NoError(t, err)
	rs := res.Results()
	require.Len(t, rs, 1)
	assert.Equal(t, []string{"é"}, rs[0].Characters)
}

func TestRun_ExplicitFilesAreValidated(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ok.txt":   "é",
		"logo.png": "x",
		"big.txt":  "0123456789",
	})
	cfg := Config{
		Paths:    []string{filepath.Join(dir, "ok.txt"), filepath.Join(dir, "logo.png"), filepath.Join(dir, "big.txt")},
		MaxBytes: 5,
	}
	res, err := Run(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesScanned)
	assert.Equal(t, 2, res.Failed)
	reasons := map[validate.Reason]bool{}
	for _, e := range res.Errors() {
		var ve *validate.Error
		require.True(t, errors.As(e, &ve))
		reasons[ve.Reason] = true
	}
	assert.True(t, reasons[validate.ReasonType])
	assert.True(t, reasons[validate.ReasonSize])
}

func TestRun_BatchLimit(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.txt": "", "b.txt": "", "c.txt": ""})
	_, err := Run(context.Background(), Config{Paths: []string{dir}, MaxFiles: 2}, nil, nil)
	var ve *validate.Error
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, validate.ReasonLimit, ve.Reason)
}

func TestRun_ResetsSessionEachBatch(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.txt": "á"})
	sess := session.New()
	_, err := Run(context.Background(), Config{Paths: []string{dir}}, sess, nil)
	require.NoError(t, err)
	_, err = Run(context.Background(), Config{Paths: []string{dir}}, sess, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Len())
}

func TestRun_DryRunLeavesSessionEmpty(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.txt": "á", "b.txt": "é"})
	sess := session.New()
	res, err := Run(context.Background(), Config{Paths: []string{dir}, DryRun: true}, sess, nil)
	require.NoError(t, err)
	assert.Len(t, res.Outcomes, 2)
	assert.Equal(t, 0, sess.Len())
}

func TestRun_CancelledContext(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.txt": "á"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Config{Paths: []string{dir}}, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_MissingPath(t *testing.T) {
	_, err := Run(context.Background(), Config{Paths: []string{filepath.Join(t.TempDir(), "nope")}}, nil, nil)
	assert.Error(t, err)
}

func TestRun_Progress(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.txt": "á", "b.txt": "é", "c.txt": "í"})
	var last int
	var calls int
	_, err := Run(context.Background(), Config{Paths: []string{dir}, Threads: 1, Progress: func(done, total int) {
		calls++
		last = done
		assert.Equal(t, 3, total)
	}}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, last)
}

func TestRun_PanicIsReportedPerFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.txt": "á", "boom.txt": "é", "c.txt": "í"})
	orig := readFile
	readFile = func(p string) ([]byte, error) {
		if filepath.Base(p) == "boom.txt" {
			panic("disk on fire")
		}
		return orig(p)
	}
	t.Cleanup(func() { readFile = orig })

	var last, total int
	res, err := Run(context.Background(), Config{Paths: []string{dir}, Threads: 2, Progress: func(d, n int) {
		last, total = d, n
	}}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.FilesScanned)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors(), 1)
	assert.Contains(t, res.Errors()[0].Error(), "boom.txt")
	assert.Contains(t, res.Errors()[0].Error(), "panic")
	assert.Equal(t, 3, last)
	assert.Equal(t, 3, total)
}

func TestRun_ProgressCountsRejectedFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.txt": "á", "logo.png": "x"})
	var last, total int
	res, err := Run(context.Background(), Config{
		Paths:    []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "logo.png")},
		Progress: func(d, n int) { last, total = d, n },
	}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 0, res.Skipped, "explicit files are validated, not skipped")
	assert.Equal(t, 2, last)
	assert.Equal(t, 2, total)
}
