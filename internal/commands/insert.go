package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/guidgenie/internal/app"
	"github.com/dotcommander/guidgenie/internal/command"
	"github.com/dotcommander/guidgenie/internal/document"
)

// NewInsertCmd creates the insert command: one identifier per selection,
// applied to a file or stdin in a single transaction.
func NewInsertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Insert or replace an identifier at each selection of a document",
		Long: "Reads a document, writes one freshly generated identifier at each --select position, " +
			"and prints the result. Empty selections insert, ranges are replaced. " +
			"With --braces, a range already enclosed by '{' and '}' on the same line reuses those braces.",
		Example: "  guidgenie insert --file main.go --select 3:12-3:22 --braces\n" +
			"  echo 'id = ' | guidgenie insert --select 0:5 --uppercase=false",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			rawSelections, _ := cmd.Flags().GetStringArray("select")
			inPlace, _ := cmd.Flags().GetBool("in-place")
			showDiff, _ := cmd.Flags().GetBool("diff")
			asJSON, _ := cmd.Flags().GetBool("json")

			if inPlace && path == "-" {
				return cmdErr(cmd, &codedError{
					err:    errors.New("--in-place needs --file"),
					code:   "INVALID_FLAGS",
					action: "pass --file PATH or drop --in-place",
				})
			}

			selections, err := parseSelections(rawSelections)
			if err != nil {
				return cmdErr(cmd, err)
			}

			before, err := readDocument(cmd, path)
			if err != nil {
				return cmdErr(cmd, err)
			}

			settings, err := app.LoadSettings()
			if err != nil {
				return cmdErr(cmd, err)
			}

			buf, err := document.NewBuffer(before, selections...)
			if err != nil {
				return cmdErr(cmd, err)
			}

			result, err := command.NewHandler(settings).Run(cmd.Context(), buf, commandOptions(cmd))
			if err != nil {
				return cmdErr(cmd, err)
			}
			after := buf.Document().Text()

			if inPlace {
				if err := writeFilePreservingMode(path, after); err != nil {
					return cmdErr(cmd, err)
				}
			}

			switch {
			case asJSON:
				type resp struct {
					File        string              `json:"file"`
					InPlace     bool                `json:"in_place"`
					Preferences command.Preferences `json:"preferences"`
					Edits       []document.Edit     `json:"edits"`
					Text        string              `json:"text,omitempty"`
				}
				r := resp{File: path, InPlace: inPlace, Preferences: result.Preferences, Edits: result.Edits}
				if !inPlace {
					r.Text = after
				}
				return printSuccess(cmd, r)
			case showDiff:
				if err := writeDiff(cmd.OutOrStdout(), displayName(path), before, after); err != nil {
					return cmdErr(cmd, err)
				}
				return nil
			case inPlace:
				return nil
			default:
				_, err := io.WriteString(cmd.OutOrStdout(), after)
				return err
			}
		},
	}

	cmd.Flags().StringP("file", "f", "-", "Document to edit, '-' for stdin")
	cmd.Flags().StringArrayP("select", "s", nil, "Selection as LINE:COL or LINE:COL-LINE:COL, 0-based; repeat for multiple cursors")
	cmd.Flags().BoolP("in-place", "i", false, "Write the result back to --file")
	cmd.Flags().Bool("diff", false, "Print a unified diff instead of the document")
	cmd.Flags().Bool("json", false, "Print a JSON envelope with the edits")
	addFormatFlags(cmd)

	return cmd
}

// addFormatFlags registers the per-invocation overrides shared by insert and generate.
func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("uppercase", "u", app.DefaultUppercase, "Uppercase hex digits (overrides config)")
	cmd.Flags().BoolP("braces", "b", app.DefaultIncludeBraces, "Wrap in braces, reusing braces around a selection (overrides config)")
}

// commandOptions maps explicitly set flags to overrides. Flags left at their
// defaults stay nil so the configured value applies.
func commandOptions(cmd *cobra.Command) command.Options {
	var opts command.Options
	if cmd.Flags().Changed("uppercase") {
		v, _ := cmd.Flags().GetBool("uppercase")
		opts.Uppercase = &v
	}
	if cmd.Flags().Changed("braces") {
		v, _ := cmd.Flags().GetBool("braces")
		opts.IncludeBraces = &v
	}
	return opts
}

func readDocument(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(b), nil
}

func writeFilePreservingMode(path, text string) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(text), mode); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func displayName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}
