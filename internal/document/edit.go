package document

import (
	"fmt"
	"sort"
)

// Edit replaces Range with Text. An empty Range is an insert.
type Edit struct {
	Range Selection `json:"range"`
	Text  string    `json:"text"`
}

// EditBuilder stages edits for a single transaction.
type EditBuilder struct {
	edits []Edit
}

// Insert stages text at p.
func (b *EditBuilder) Insert(p Position, text string) {
	b.edits = append(b.edits, Edit{Range: Cursor(p), Text: text})
}

// Replace stages text over s.
func (b *EditBuilder) Replace(s Selection, text string) {
	b.edits = append(b.edits, Edit{Range: s, Text: text})
}

// Edits returns the staged edits in staging order.
func (b *EditBuilder) Edits() []Edit {
	out := make([]Edit, len(b.edits))
	copy(out, b.edits)
	return out
}

type resolvedEdit struct {
	index      int
	start, end int
	text       []rune
}

// Apply returns a new document with all edits applied. Every edit is
// validated before any is applied, so either all of them land or d is
// returned untouched alongside the error. Offsets are interpreted against d,
// so edits do not shift one another.
func (d *Document) Apply(edits []Edit) (*Document, error) {
	next, _, err := d.apply(edits)
	return next, err
}

// apply also returns, per edit in staging order, the position just past its
// inserted text in the new document.
func (d *Document) apply(edits []Edit) (*Document, []Position, error) {
	resolved := make([]resolvedEdit, 0, len(edits))
	for i, e := range edits {
		if e.Range.End.Before(e.Range.Start) {
			return d, nil, fmt.Errorf("edit %d: %w: end %s before start %s", i, ErrInvalidPosition, e.Range.End, e.Range.Start)
		}
		if err := d.Validate(e.Range.Start); err != nil {
			return d, nil, fmt.Errorf("edit %d: %w", i, err)
		}
		if err := d.Validate(e.Range.End); err != nil {
			return d, nil, fmt.Errorf("edit %d: %w", i, err)
		}
		resolved = append(resolved, resolvedEdit{
			index: i,
			start: d.offset(e.Range.Start),
			end:   d.offset(e.Range.End),
			text:  []rune(e.Text),
		})
	}

	// Inserts sort ahead of a replace starting at the same point; inserts at
	// the same point keep staging order.
	sort.SliceStable(resolved, func(i, j int) bool {
		a, b := resolved[i], resolved[j]
		if a.start != b.start {
			return a.start < b.start
		}
		return a.end == a.start && b.end > b.start
	})
	for i := 1; i < len(resolved); i++ {
		prev, cur := resolved[i-1], resolved[i]
		if cur.start < prev.end {
			return d, nil, fmt.Errorf("%w: edits %d and %d", ErrOverlappingEdits, prev.index, cur.index)
		}
	}

	src := []rune(d.Text())
	out := make([]rune, 0, len(src))
	ends := make([]int, len(edits))
	pos := 0
	for _, r := range resolved {
		out = append(out, src[pos:r.start]...)
		out = append(out, r.text...)
		ends[r.index] = len(out)
		pos = r.end
	}
	out = append(out, src[pos:]...)

	next := New(string(out))
	positions := make([]Position, len(ends))
	for i, off := range ends {
		positions[i] = next.positionAt(off)
	}
	return next, positions, nil
}

// positionAt maps a rune offset in Text() back to a position.
func (d *Document) positionAt(off int) Position {
	for i, line := range d.lines {
		n := len([]rune(line))
		if off <= n || i == len(d.lines)-1 {
			return Position{Line: i, Character: min(off, n)}
		}
		off -= n + len(d.eols[i])
	}
	return Position{}
}
