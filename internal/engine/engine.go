package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/allnighter/allnighter/internal/logging"
	"github.com/allnighter/allnighter/internal/session"
	"github.com/allnighter/allnighter/internal/types"
	"github.com/allnighter/allnighter/internal/validate"
	"github.com/allnighter/allnighter/internal/worker"
)

// readFile is swapped in tests.
var readFile = os.ReadFile

// Config controls which files a batch covers and how they are read.
type Config struct {
	// Paths are files or directories. Directories are walked; files are
	// taken as given and always validated.
	Paths           []string
	IncludeGlobs    string
	ExcludeGlobs    string
	MaxBytes        int64
	Extensions      []string
	MaxFiles        int
	Threads         int
	DefaultExcludes bool
	Latin1Fallback  bool
	DryRun          bool
	// Progress is called after every finished file with the running count.
	Progress func(done, total int)
}

// Outcome is the per-file result delivered to the sink. Exactly one of
// Result or Err is meaningful.
type Outcome struct {
	Path   string
	Result types.FileScanResult
	Err    error
}

// Result contains the session and basic batch statistics.
type Result struct {
	Session      *session.Aggregator
	Outcomes     []Outcome
	FilesScanned int
	Failed       int
	// Skipped counts walked files left out because of their type.
	Skipped      int
	Duration     time.Duration
}

// Results returns the session contents in completion order.
func (r Result) Results() []types.FileScanResult {
	if r.Session == nil {
		return nil
	}
	return r.Session.Results()
}

// Errors returns the per-file failures in completion order.
func (r Result) Errors() []error {
	var out []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o.Err)
		}
	}
	return out
}

// Run scans a batch with the default engine. See Engine.Run.
func Run(ctx context.Context, cfg Config, sess *session.Aggregator, sink func(Outcome)) (Result, error) {
	return defaultEngine.Run(ctx, cfg, sess, sink)
}

// Run collects the batch targets, validates them and scans the valid ones
// concurrently. sess is reset first (a new one is created when nil); each
// finished file is appended to it in completion order and passed to sink.
// A failure for one file never stops the others. The returned error is
// reserved for batch-level problems such as an unreadable root or a
// cancelled context.
func (e *Engine) Run(ctx context.Context, cfg Config, sess *session.Aggregator, sink func(Outcome)) (Result, error) {
	if sess == nil {
		sess = session.New()
	}
	gen := sess.Reset()
	res := Result{Session: sess}
	started := time.Now()

	v := validate.New(validate.Config{MaxBytes: cfg.MaxBytes, Extensions: cfg.Extensions, MaxFiles: cfg.MaxFiles})
	// walked files of other types come back here so they can be counted
	targets, err := Collect(cfg, nil)
	if err != nil {
		return res, err
	}

	var valid []Target
	var rejected []Outcome
	for _, t := range targets {
		if err := v.File(t.Name, t.Size); err != nil {
			var ve *validate.Error
			if !t.Explicit && errors.As(err, &ve) && ve.Reason == validate.ReasonType {
				res.Skipped++
				continue
			}
			rejected = append(rejected, Outcome{Path: t.Name, Err: err})
			continue
		}
		valid = append(valid, t)
	}
	total := len(valid) + len(rejected)

	var mu sync.Mutex
	emit := func(o Outcome) {
		mu.Lock()
		defer mu.Unlock()
		if o.Err == nil {
			if !sess.AddFor(gen, o.Result) {
				logging.Debug("dropping late result", zap.String("file", o.Path))
				return
			}
			res.FilesScanned++
		} else {
			res.Failed++
		}
		res.Outcomes = append(res.Outcomes, o)
		if sink != nil {
			sink(o)
		}
		if cfg.Progress != nil {
			cfg.Progress(res.FilesScanned+res.Failed, total)
		}
	}
	for _, o := range rejected {
		emit(o)
	}
	if err := v.Batch(len(valid)); err != nil {
		return res, err
	}
	if cfg.DryRun {
		// nothing is read, so nothing reaches the session
		for _, t := range valid {
			o := Outcome{Path: t.Name, Result: types.NewFileScanResult(t.Name, nil)}
			res.Outcomes = append(res.Outcomes, o)
			if sink != nil {
				sink(o)
			}
		}
		res.Duration = time.Since(started)
		return res, nil
	}

	pool, err := worker.New(cfg.Threads)
	if err != nil {
		return res, fmt.Errorf("start worker pool: %w", err)
	}
	defer pool.Release()

	for _, t := range valid {
		err := pool.Submit(ctx, func(ctx context.Context) {
			emit(e.safeScan(t, cfg.Latin1Fallback))
		})
		if err != nil {
			pool.Wait()
			res.Duration = time.Since(started)
			return res, fmt.Errorf("submit %s: %w", t.Name, err)
		}
	}
	pool.Wait()
	res.Duration = time.Since(started)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	logging.Debug("batch finished",
		zap.Int("scanned", res.FilesScanned),
		zap.Int("failed", res.Failed),
		zap.Int("skipped", res.Skipped),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

// safeScan turns a panic while scanning t into a failed Outcome so that
// every submitted file is still reported exactly once.
func (e *Engine) safeScan(t Target, latin1 bool) (o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("scan panic recovered", zap.String("file", t.Name), zap.Any("panic", r), zap.Stack("stack"))
			o = Outcome{Path: t.Name, Err: fmt.Errorf("scan %s: panic: %v", t.Name, r)}
		}
	}()
	return e.scanTarget(t, latin1)
}

func (e *Engine) scanTarget(t Target, latin1 bool) Outcome {
	data, err := readFile(t.Path)
	if err != nil {
		return Outcome{Path: t.Name, Err: fmt.Errorf("read %s: %w", t.Name, err)}
	}
	text, err := Decode(t.Name, data, latin1)
	if err != nil {
		return Outcome{Path: t.Name, Err: err}
	}
	r, err := e.Scan(t.Name, text)
	if err != nil {
		return Outcome{Path: t.Name, Err: err}
	}
	logging.Debug("scanned file", zap.String("file", t.Name), zap.Int("matches", r.Count))
	return Outcome{Path: t.Name, Result: r}
}
