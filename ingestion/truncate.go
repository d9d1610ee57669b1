package ingestion

import (
	"strings"

	"github.com/poiesic/faqtory/core"
)

// Pending is a document cut down to the text after its cursor.
type Pending struct {
	// Document is a copy of the input with Text replaced by the remainder.
	Document core.Document

	// Cursor is the line offset the remainder starts at.
	Cursor int

	// Lines is the number of lines in the remainder.
	Lines int
}

// Truncate returns the part of doc at and after line cursor.
// The input document is not modified. A negative cursor is treated as 0 and
// a cursor past the end yields an empty remainder.
func Truncate(doc core.Document, cursor int) Pending {
	cursor = max(cursor, 0)

	out := doc
	lines := strings.Split(doc.Text, "\n")
	if cursor >= len(lines) {
		out.Text = ""
		return Pending{Document: out, Cursor: cursor}
	}

	rest := lines[cursor:]
	out.Text = strings.Join(rest, "\n")
	p := Pending{Document: out, Cursor: cursor, Lines: len(rest)}
	// a trailing newline terminates the last line rather than starting one
	if strings.HasSuffix(out.Text, "\n") || out.Text == "" {
		p.Lines--
	}
	return p
}

// Advance is the number of newline characters in the remainder, which is how
// far the cursor moves once the remainder has been stored.
func (p Pending) Advance() int {
	return strings.Count(p.Document.Text, "\n")
}

// NextCursor is the cursor to record after the remainder has been stored.
func (p Pending) NextCursor() int {
	return p.Cursor + p.Advance()
}
