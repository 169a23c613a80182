package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcommander/guidgenie/internal/app"
	"github.com/dotcommander/guidgenie/internal/command"
	"github.com/dotcommander/guidgenie/internal/guid"
	"github.com/dotcommander/guidgenie/internal/output"
)

const maxGenerateCount = 10000

// NewGenerateCmd creates the generate command, which prints identifiers
// formatted as if inserted at an empty cursor.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print one or more identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			asJSON, _ := cmd.Flags().GetBool("json")
			if count < 1 || count > maxGenerateCount {
				return cmdErr(cmd, &codedError{
					err:    fmt.Errorf("count must be between 1 and %d, got %d", maxGenerateCount, count),
					code:   "INVALID_FLAGS",
					action: "pass a smaller --count",
				})
			}

			settings, err := app.LoadSettings()
			if err != nil {
				return cmdErr(cmd, err)
			}
			prefs := command.Resolve(commandOptions(cmd), settings)

			var g guid.Generator
			ids := make([]string, 0, count)
			for i := 0; i < count; i++ {
				id, err := g.Generate(prefs.Uppercase)
				if err != nil {
					return cmdErr(cmd, err)
				}
				ids = append(ids, guid.Format(id, prefs.IncludeBraces, guid.SelectionContext{Empty: true}))
			}

			if asJSON {
				type resp struct {
					Preferences command.Preferences `json:"preferences"`
					IDs         []string            `json:"ids"`
				}
				return printSuccess(cmd, resp{Preferences: prefs, IDs: ids})
			}
			for _, id := range ids {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntP("count", "n", 1, "Number of identifiers to print")
	cmd.Flags().Bool("json", false, "Print a JSON envelope")
	addFormatFlags(cmd)
	return cmd
}

// NewConfigCmd shows the effective settings and where they came from.
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.LoadSettings()
			if err != nil {
				return cmdErr(cmd, err)
			}
			type resp struct {
				Source      string              `json:"source,omitempty"`
				Settings    app.Settings        `json:"settings"`
				Preferences command.Preferences `json:"effective"`
			}
			return printSuccess(cmd, resp{
				Source:      settings.Source,
				Settings:    settings,
				Preferences: command.Resolve(command.Options{}, settings),
			})
		},
	}
}

func printSuccess(cmd *cobra.Command, data interface{}) error {
	cfg := output.DefaultConfig()
	cfg.Writer = cmd.OutOrStdout()
	if err := output.PrintWith(cfg, output.Success(data)); err != nil {
		return cmdErr(cmd, fmt.Errorf("write response: %w", err))
	}
	return nil
}
