package commands

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dotcommander/guidgenie/internal/document"
	"github.com/dotcommander/guidgenie/internal/guid"
	"github.com/dotcommander/guidgenie/internal/output"
)

type printedError struct {
	err error
}

func (e printedError) Error() string {
	// Intentionally hide the original error: it has already been logged.
	return "error already printed"
}

func (e printedError) Unwrap() error {
	return e.err
}

// codedError attaches a stable code and a hint to an error. It satisfies the
// output package's recoverable error contract.
type codedError struct {
	err    error
	code   string
	action string
}

func (e *codedError) Error() string           { return e.err.Error() }
func (e *codedError) Unwrap() error           { return e.err }
func (e *codedError) ErrorCode() string       { return e.code }
func (e *codedError) SuggestedAction() string { return e.action }

func (e *codedError) SlogAttrs() []any {
	attrs := []any{"code", e.code}
	if e.action != "" {
		attrs = append(attrs, "suggested_action", e.action)
	}
	return attrs
}

// classify attaches a code to errors coming out of the core packages.
func classify(err error) error {
	var ce *codedError
	if err == nil || errors.As(err, &ce) {
		return err
	}
	switch {
	case errors.Is(err, guid.ErrEntropy):
		return &codedError{err: err, code: "ENTROPY_UNAVAILABLE"}
	case errors.Is(err, document.ErrInvalidPosition):
		return &codedError{err: err, code: "INVALID_POSITION", action: "check --select against the document's line and column counts"}
	case errors.Is(err, document.ErrOverlappingEdits):
		return &codedError{err: err, code: "OVERLAPPING_SELECTIONS", action: "pass selections that do not overlap"}
	}
	return err
}

// cmdErr logs err and, when the command was asked for JSON, prints the
// error envelope on its stdout so callers always get a response to parse.
func cmdErr(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	err = classify(err)
	if wantsJSON(cmd) {
		cfg := output.DefaultConfig()
		cfg.Writer = cmd.OutOrStdout()
		if perr := output.PrintWith(cfg, output.Error(err)); perr != nil {
			slog.Error("write error response", "error", perr.Error())
		}
	}
	attrs := []any{"error", err.Error()}
	type slogAttrError interface {
		SlogAttrs() []any
	}
	var detailed slogAttrError
	if errors.As(err, &detailed) {
		attrs = append(attrs, detailed.SlogAttrs()...)
	}
	slog.Error("command error", attrs...)
	return printedError{err: err}
}

func wantsJSON(cmd *cobra.Command) bool {
	if cmd == nil || cmd.Flags().Lookup("json") == nil {
		return false
	}
	v, _ := cmd.Flags().GetBool("json")
	return v
}
