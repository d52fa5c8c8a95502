// Package cli provides the folioview command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leafo/folioview/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "folioview",
		Short: "Load a folder into memory, preview it and export it as a zip",
		Long: `folioview opens a folder picker, loads the chosen folder into an in-memory
file system and shows a short preview of every file. The loaded files can be
exported as a zip archive.

Run without a subcommand to start the terminal UI.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		RunE:          runTUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./folioview.yaml)")
	flags.String("export-dir", "", "Directory exported archives are written to")
	flags.String("export-name", "", "File name prefix of exported archives")
	flags.String("sample-url", "", "URL or path of the sample file")
	flags.String("picker", "", "Folder picker to use (auto|native|fallback)")
	flags.Bool("watch", false, "Reload the loaded folder when it changes on disk")
	flags.String("history", "", "Path to the history database (empty disables history)")
	flags.String("log-file", "", "Log file used while the terminal UI runs")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	flags.Int("snippet-length", 0, "Number of characters shown per preview")
	flags.StringSlice("ignore", nil, "Directory names skipped when reading a folder")

	_ = rootCmd.RegisterFlagCompletionFunc("picker", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.PickerAuto, config.PickerNative, config.PickerFallback}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newPreviewCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func getConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(configKey{}).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}
