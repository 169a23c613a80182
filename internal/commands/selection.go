package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dotcommander/guidgenie/internal/document"
)

const selectionHint = "use LINE:COL for a cursor or LINE:COL-LINE:COL for a range (0-based)"

// parseSelection accepts "L:C" (cursor) or "L:C-L:C" (range). The range may
// be given in either direction.
func parseSelection(raw string) (document.Selection, error) {
	raw = strings.TrimSpace(raw)
	anchorRaw, activeRaw, isRange := strings.Cut(raw, "-")

	anchor, err := parsePosition(anchorRaw)
	if err != nil {
		return document.Selection{}, invalidSelection(raw, err)
	}
	if !isRange {
		return document.Cursor(anchor), nil
	}

	active, err := parsePosition(activeRaw)
	if err != nil {
		return document.Selection{}, invalidSelection(raw, err)
	}
	return document.NewSelection(anchor, active), nil
}

func parsePosition(raw string) (document.Position, error) {
	lineRaw, charRaw, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return document.Position{}, fmt.Errorf("missing ':' in %q", raw)
	}
	line, err := strconv.Atoi(lineRaw)
	if err != nil || line < 0 {
		return document.Position{}, fmt.Errorf("bad line %q", lineRaw)
	}
	char, err := strconv.Atoi(charRaw)
	if err != nil || char < 0 {
		return document.Position{}, fmt.Errorf("bad column %q", charRaw)
	}
	return document.Position{Line: line, Character: char}, nil
}

func invalidSelection(raw string, err error) error {
	return &codedError{
		err:    fmt.Errorf("invalid selection %q: %w", raw, err),
		code:   "INVALID_SELECTION",
		action: selectionHint,
	}
}

func parseSelections(raw []string) ([]document.Selection, error) {
	if len(raw) == 0 {
		return []document.Selection{document.Cursor(document.Position{})}, nil
	}
	out := make([]document.Selection, 0, len(raw))
	for _, r := range raw {
		s, err := parseSelection(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
