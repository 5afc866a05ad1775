package core

import (
	"context"

	"github.com/allnighter/allnighter/internal/charset"
	"github.com/allnighter/allnighter/internal/engine"
	"github.com/allnighter/allnighter/internal/session"
	"github.com/allnighter/allnighter/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Config         = engine.Config
	Outcome        = engine.Outcome
	Result         = engine.Result
	Match          = types.Match
	FileScanResult = types.FileScanResult
	Session        = session.Aggregator
)

// ErrEmptySession is returned by the Session serializers before any result
// has been added.
var ErrEmptySession = session.ErrEmptySession

// NewSession returns an empty result session.
func NewSession() *Session { return session.New() }

// Scan reports every special character in content. fileName is used only
// to label the result.
func Scan(fileName, content string) (FileScanResult, error) {
	return engine.Scan(fileName, content)
}

// Run scans the files cfg selects into sess, which may be nil.
func Run(ctx context.Context, cfg Config, sess *Session) (Result, error) {
	return engine.Run(ctx, cfg, sess, nil)
}

// Characters returns the special-character set in table order.
func Characters() []rune { return charset.Default().Chars() }

// IsSpecial reports whether r belongs to the special-character set.
func IsSpecial(r rune) bool { return charset.Default().IsSpecial(r) }
