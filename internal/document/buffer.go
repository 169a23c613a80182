package document

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSelections is returned by NewBuffer when given an empty selection list.
var ErrNoSelections = errors.New("buffer needs at least one selection")

// Buffer is an in-memory editor: a document plus its selections.
// It is safe for concurrent use; each Edit is a single transaction.
type Buffer struct {
	mu         sync.Mutex
	doc        *Document
	selections []Selection
}

// NewBuffer opens text with the given selections. Every selection must lie
// inside the document.
func NewBuffer(text string, selections ...Selection) (*Buffer, error) {
	if len(selections) == 0 {
		return nil, ErrNoSelections
	}
	doc := New(text)
	for _, s := range selections {
		if err := doc.Validate(s.Start); err != nil {
			return nil, err
		}
		if err := doc.Validate(s.End); err != nil {
			return nil, err
		}
	}
	sel := make([]Selection, len(selections))
	copy(sel, selections)
	return &Buffer{doc: doc, selections: sel}, nil
}

// Document returns the current snapshot. Snapshots are never mutated.
func (b *Buffer) Document() *Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doc
}

// Selections returns a copy of the current selections.
func (b *Buffer) Selections() []Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Selection, len(b.selections))
	copy(out, b.selections)
	return out
}

// Edit runs fn to stage edits, then applies them all at once. If any edit is
// rejected, or ctx is done before the commit, the buffer is left unchanged.
// After a successful edit each selection that was edited collapses to the end
// of its new text.
func (b *Buffer) Edit(ctx context.Context, fn func(*EditBuilder)) error {
	var eb EditBuilder
	fn(&eb)

	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	edits := eb.Edits()
	next, ends, err := b.doc.apply(edits)
	if err != nil {
		return err
	}

	byRange := make(map[Selection]Position, len(edits))
	for i, e := range edits {
		byRange[e.Range] = ends[i]
	}
	for i, s := range b.selections {
		if p, ok := byRange[s]; ok {
			b.selections[i] = Cursor(p)
		}
	}
	b.doc = next
	return nil
}
