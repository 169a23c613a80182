// Package document is a minimal line-oriented text model: positions,
// selections, and atomic multi-edit application.
package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dotcommander/guidgenie/internal/guid"
)

var (
	// ErrInvalidPosition is returned for a position outside the document.
	ErrInvalidPosition = errors.New("position out of range")
	// ErrOverlappingEdits is returned when two staged edits touch the same span.
	ErrOverlappingEdits = errors.New("overlapping edits")
)

// Position is a zero-based line and character offset. Characters count runes.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Before reports whether p sorts strictly before o.
func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Character < o.Character
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Selection is a span between two positions with Start <= End.
type Selection struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NewSelection orders anchor and active into a Selection.
func NewSelection(anchor, active Position) Selection {
	if active.Before(anchor) {
		return Selection{Start: active, End: anchor}
	}
	return Selection{Start: anchor, End: active}
}

// Cursor returns an empty selection at p.
func Cursor(p Position) Selection {
	return Selection{Start: p, End: p}
}

// IsEmpty reports whether the selection is a bare cursor.
func (s Selection) IsEmpty() bool {
	return s.Start == s.End
}

func (s Selection) String() string {
	if s.IsEmpty() {
		return s.Start.String()
	}
	return s.Start.String() + "-" + s.End.String()
}

// Document holds text as lines without their terminators. Each line keeps
// its own terminator ("\n", "\r\n", or "" for the last line), so files with
// mixed line endings are addressed and written back exactly.
type Document struct {
	lines []string
	eols  []string
}

// New splits text into lines on "\n"; a "\r" directly before it belongs to
// the terminator.
func New(text string) *Document {
	parts := strings.SplitAfter(text, "\n")
	d := &Document{
		lines: make([]string, 0, len(parts)),
		eols:  make([]string, 0, len(parts)),
	}
	for _, part := range parts {
		line, eol := part, ""
		if strings.HasSuffix(line, "\r\n") {
			line, eol = line[:len(line)-2], "\r\n"
		} else if strings.HasSuffix(line, "\n") {
			line, eol = line[:len(line)-1], "\n"
		}
		d.lines = append(d.lines, line)
		d.eols = append(d.eols, eol)
	}
	return d
}

// Text joins the lines back together with their own terminators.
func (d *Document) Text() string {
	var b strings.Builder
	for i, line := range d.lines {
		b.WriteString(line)
		b.WriteString(d.eols[i])
	}
	return b.String()
}

// EOL returns the terminator of line i, empty for the last line.
func (d *Document) EOL(i int) string {
	if i < 0 || i >= len(d.eols) {
		return ""
	}
	return d.eols[i]
}

// LineCount is always at least one.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns the text of line i without its terminator.
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// Validate checks that p addresses an existing line and a character within it.
// The position one past the last character is valid.
func (d *Document) Validate(p Position) error {
	if p.Line < 0 || p.Line >= len(d.lines) {
		return fmt.Errorf("%w: line %d (document has %d lines)", ErrInvalidPosition, p.Line, len(d.lines))
	}
	n := len([]rune(d.lines[p.Line]))
	if p.Character < 0 || p.Character > n {
		return fmt.Errorf("%w: character %d on line %d (length %d)", ErrInvalidPosition, p.Character, p.Line, n)
	}
	return nil
}

// offset converts a validated position into a rune offset into Text().
func (d *Document) offset(p Position) int {
	off := 0
	for i := 0; i < p.Line; i++ {
		off += len([]rune(d.lines[i])) + len(d.eols[i])
	}
	return off + p.Character
}

// GetText returns the text covered by s.
func (d *Document) GetText(s Selection) (string, error) {
	if err := d.Validate(s.Start); err != nil {
		return "", err
	}
	if err := d.Validate(s.End); err != nil {
		return "", err
	}
	text := []rune(d.Text())
	return string(text[d.offset(s.Start):d.offset(s.End)]), nil
}

// Context describes the characters around s for brace detection.
// Lookups never cross a line boundary: a selection starting at column 0 has
// no Before, one ending at the end of its line has no After.
func (d *Document) Context(s Selection) guid.SelectionContext {
	ctx := guid.SelectionContext{Empty: s.IsEmpty()}

	start := []rune(d.Line(s.Start.Line))
	if c := s.Start.Character; c > 0 && c <= len(start) {
		ctx.Before, ctx.HasBefore = start[c-1], true
	}

	end := []rune(d.Line(s.End.Line))
	if c := s.End.Character; c >= 0 && c < len(end) {
		ctx.After, ctx.HasAfter = end[c], true
	}
	return ctx
}
