package guid

// SelectionContext is what the formatter needs to know about the span an
// identifier will be written into. Before and After are only meaningful when
// the matching Has flag is set; a boundary at the start or end of a line is
// reported as absent.
type SelectionContext struct {
	Empty     bool
	Before    rune
	HasBefore bool
	After     rune
	HasAfter  bool
}

// BraceFlanked reports whether the span sits directly between '{' and '}'.
func (c SelectionContext) BraceFlanked() bool {
	return c.HasBefore && c.Before == '{' && c.HasAfter && c.After == '}'
}

// Format returns the text to emit for id.
//
// Without includeBraces the id is returned unchanged. With it, the id is
// wrapped in one pair of braces, except when a non-empty selection is already
// flanked by braces, in which case the existing pair is reused.
func Format(id string, includeBraces bool, ctx SelectionContext) string {
	if !includeBraces {
		return id
	}
	if !ctx.Empty && ctx.BraceFlanked() {
		return id
	}
	return "{" + id + "}"
}
