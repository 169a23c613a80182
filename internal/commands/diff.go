package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// writeDiff renders a unified diff of before and after. Colors follow
// fatih/color's terminal detection and are off when output is not a TTY.
func writeDiff(w io.Writer, name, before, after string) error {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("render diff: %w", err)
	}

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	hunk := color.New(color.FgCyan)

	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")

		var c *color.Color
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
		case strings.HasPrefix(body, "@@"):
			c = hunk
		case strings.HasPrefix(body, "+"):
			c = added
		case strings.HasPrefix(body, "-"):
			c = removed
		}

		if c != nil {
			_, err = c.Fprint(w, body)
		} else {
			_, err = fmt.Fprint(w, body)
		}
		if err != nil {
			return err
		}
		if _, err := fmt.Fprint(w, line[len(body):]); err != nil {
			return err
		}
	}
	return nil
}
