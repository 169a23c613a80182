package commands

import (
	"errors"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotcommander/guidgenie/internal/app"
)

// Execute runs the CLI application.
func Execute(version string) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	err := NewRootCmd(version).Execute()
	if err != nil {
		var pe printedError
		if !errors.As(err, &pe) {
			slog.Error("command failed", "error", err.Error())
		}
	}
	return err
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "guidgenie",
		Short:         "Generate UUIDs and insert them at document selections",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				type resp struct {
					Version string `json:"version"`
				}
				return printSuccess(cmd, resp{Version: version})
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Wire --config into app-level settings lookup. An explicit file
			// skips creating the default one under ~/.config.
			if path, err := cmd.Flags().GetString("config"); err == nil && path != "" {
				app.SetConfigPathOverride(path)
			} else if err := app.EnsureConfigDir(); err != nil {
				slog.Warn("create config dir failed", "error", err)
			}

			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				color.NoColor = true
			}
			return nil
		},
	}

	root.PersistentFlags().String("config", "", "Override config file path")
	root.PersistentFlags().Bool("no-color", false, "Disable colored diff output")
	root.Flags().BoolP("version", "v", false, "version for guidgenie")

	root.AddCommand(NewInsertCmd())
	root.AddCommand(NewGenerateCmd())
	root.AddCommand(NewConfigCmd())
	root.AddCommand(NewSchemaCmd(root))

	return root
}
