package engine

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	xxhash "github.com/cespare/xxhash/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/allnighter/allnighter/internal/charset"
	"github.com/allnighter/allnighter/internal/types"
)

// InvalidInputError reports content that is not decodable text.
type InvalidInputError struct {
	File   string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.File, e.Reason)
}

// Engine turns one file's text into a FileScanResult. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	cls *charset.Classifier
}

// New returns an engine over cls. A nil classifier is a programming error.
func New(cls *charset.Classifier) *Engine {
	if cls == nil {
		panic("engine: nil classifier")
	}
	return &Engine{cls: cls}
}

var defaultEngine = New(charset.Default())

// Default returns the engine over the built-in character table.
func Default() *Engine { return defaultEngine }

// Scan reports every special character in content by line and position.
// Lines are split on "\n" only; a "\r" before it stays part of the line and,
// being last, never shifts a reported position. Content that is not valid
// UTF-8 fails with *InvalidInputError; anything else, including the empty
// string, yields a result.
func (e *Engine) Scan(fileName, content string) (types.FileScanResult, error) {
	if !utf8.ValidString(content) {
		return types.FileScanResult{}, &InvalidInputError{File: fileName, Reason: "content is not valid UTF-8 text"}
	}
	var matches []types.Match
	lineNo := 0
	for line := range strings.SplitSeq(content, "\n") {
		lineNo++
		for _, h := range e.cls.FindAllInLine(line) {
			matches = append(matches, types.Match{
				File:      fileName,
				Line:      lineNo,
				Position:  h.Position,
				Character: string(h.Char),
			})
		}
	}
	res := types.NewFileScanResult(fileName, matches)
	res.Digest = digest(content)
	return res, nil
}

// Scan runs the default engine.
func Scan(fileName, content string) (types.FileScanResult, error) {
	return defaultEngine.Scan(fileName, content)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts raw file bytes to text. UTF-8 is tried first (a leading
// BOM is dropped); when that fails and latin1Fallback is set the bytes are
// read as ISO-8859-1, otherwise *InvalidInputError is returned.
func Decode(fileName string, data []byte, latin1Fallback bool) (string, error) {
	if data == nil {
		return "", &InvalidInputError{File: fileName, Reason: "no content"}
	}
	b := bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(b) {
		return string(b), nil
	}
	if !latin1Fallback {
		return "", &InvalidInputError{File: fileName, Reason: "content is not valid UTF-8 text"}
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", &InvalidInputError{File: fileName, Reason: "latin-1 decode: " + err.Error()}
	}
	return string(out), nil
}

func digest(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}
