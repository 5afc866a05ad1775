package charset

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Table lists the special characters in declaration order: accented Latin
// letters, Spanish punctuation, typographic dashes and quotes, currency and
// trademark marks. The ASCII apostrophe has always been part of the set.
const Table = "¿º«»ª¡ÀÂÃÄÁÆàâãäæÇçÊËÉêëïÍÏÔÖÕÓöõôÜÚüáéí'óüúÑñ✓✔‑–—€®©℠™´''"

// Hit is one special character found in a line. Position is the 1-based
// UTF-16 code-unit offset of the character within the line.
type Hit struct {
	Position int
	Char     rune
}

// Classifier is an immutable set of special code points.
type Classifier struct {
	set   map[rune]struct{}
	order []rune
}

var def = MustNew(Table)

// Default returns the classifier built from Table.
func Default() *Classifier { return def }

// MustNew builds a classifier from every code point in table. Duplicates are
// collapsed. It panics when table is empty or not valid UTF-8, since the table
// is build-time configuration.
func MustNew(table string) *Classifier {
	if table == "" {
		panic("charset: empty character table")
	}
	if !utf8.ValidString(table) {
		panic("charset: character table is not valid UTF-8")
	}
	c := &Classifier{set: make(map[rune]struct{}, len(table))}
	for _, r := range table {
		if _, ok := c.set[r]; ok {
			continue
		}
		c.set[r] = struct{}{}
		c.order = append(c.order, r)
	}
	return c
}

// IsSpecial reports whether r belongs to the set.
func (c *Classifier) IsSpecial(r rune) bool {
	_, ok := c.set[r]
	return ok
}

// Len returns the number of distinct code points in the set.
func (c *Classifier) Len() int { return len(c.order) }

// Chars returns the set in declaration order.
func (c *Classifier) Chars() []rune {
	out := make([]rune, len(c.order))
	copy(out, c.order)
	return out
}

// FindAllInLine returns every special character in line, left to right.
// Invalid UTF-8 bytes decode to U+FFFD, which is never special, and advance
// the position by one code unit.
func (c *Classifier) FindAllInLine(line string) []Hit {
	var hits []Hit
	pos := 1
	for _, r := range line {
		if c.IsSpecial(r) {
			hits = append(hits, Hit{Position: pos, Char: r})
		}
		pos += codeUnits(r)
	}
	return hits
}

func codeUnits(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}
