// Package command inserts freshly generated identifiers at every selection of
// an editor in one transaction.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/dotcommander/guidgenie/internal/app"
	"github.com/dotcommander/guidgenie/internal/document"
	"github.com/dotcommander/guidgenie/internal/guid"
)

// Editor is the host surface the handler works against.
type Editor interface {
	Document() *document.Document
	Selections() []document.Selection
	// Edit stages edits through fn and commits them atomically.
	Edit(ctx context.Context, fn func(*document.EditBuilder)) error
}

// Generator produces identifiers.
type Generator interface {
	Generate(uppercase bool) (string, error)
}

// Options is a per-invocation override. Nil fields fall back to settings.
type Options struct {
	Uppercase     *bool `json:"uppercase,omitempty"`
	IncludeBraces *bool `json:"includeBraces,omitempty"`
}

// Preferences are the resolved formatting switches for one invocation.
type Preferences struct {
	Uppercase     bool `json:"uppercase"`
	IncludeBraces bool `json:"include_braces"`
}

// Resolve applies override, then persisted setting, then default.
func Resolve(opts Options, s app.Settings) Preferences {
	return Preferences{
		Uppercase:     app.ResolveBool(opts.Uppercase, s.Uppercase, app.DefaultUppercase),
		IncludeBraces: app.ResolveBool(opts.IncludeBraces, s.IncludeBraces, app.DefaultIncludeBraces),
	}
}

// Result reports what one invocation wrote.
type Result struct {
	Preferences Preferences     `json:"preferences"`
	Edits       []document.Edit `json:"edits"`
}

// Handler runs the generate-and-insert command.
type Handler struct {
	Generator Generator
	Settings  app.Settings
}

// NewHandler returns a Handler using the default random source.
func NewHandler(s app.Settings) *Handler {
	return &Handler{Generator: guid.Generator{}, Settings: s}
}

// Run writes one identifier into each selection of editor. A nil editor,
// including a nil pointer wrapped in the interface, is a no-op. Identifiers
// are all generated before the edit is opened, so a generator failure leaves
// the document untouched. A Handler without a Generator uses guid.Generator.
func (h *Handler) Run(ctx context.Context, editor Editor, opts Options) (Result, error) {
	if isNil(editor) {
		return Result{}, nil
	}
	gen := h.Generator
	if gen == nil {
		gen = guid.Generator{}
	}

	prefs := Resolve(opts, h.Settings)
	doc := editor.Document()
	selections := editor.Selections()

	edits := make([]document.Edit, 0, len(selections))
	for _, sel := range selections {
		id, err := gen.Generate(prefs.Uppercase)
		if err != nil {
			return Result{}, fmt.Errorf("generate identifier: %w", err)
		}
		text := guid.Format(id, prefs.IncludeBraces, doc.Context(sel))
		edits = append(edits, document.Edit{Range: sel, Text: text})
	}

	err := editor.Edit(ctx, func(eb *document.EditBuilder) {
		for _, e := range edits {
			if e.Range.IsEmpty() {
				eb.Insert(e.Range.Start, e.Text)
			} else {
				eb.Replace(e.Range, e.Text)
			}
		}
	})
	if err != nil {
		return Result{}, fmt.Errorf("apply edits: %w", err)
	}

	slog.Debug("identifiers inserted",
		"selections", len(edits),
		"uppercase", prefs.Uppercase,
		"include_braces", prefs.IncludeBraces,
	)
	return Result{Preferences: prefs, Edits: edits}, nil
}

func isNil(e Editor) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
