package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leafo/folioview/internal/app"
	"github.com/leafo/folioview/internal/config"
	"github.com/leafo/folioview/internal/folio"
	"github.com/leafo/folioview/internal/picker"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := getConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	logger, closer, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	if cfg.FileUsed != "" {
		logger.Info("Using config file", "path", cfg.FileUsed)
	}

	svc, err := newService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	return app.Run(ctx, app.Deps{
		Folio:  svc.Folio,
		Picker: choosePicker(cfg, svc.Folio, logger),
		Sample: &folio.SampleFetcher{URL: cfg.Sample.URL},
		Keys:   cfg.Keys,
		Watch:  cfg.Watch.Enabled,
		Logger: logger,
	})
}

// choosePicker resolves picker.mode. Auto prefers the native dialog and falls
// back to the prompt when no dialog tool is installed.
func choosePicker(cfg *config.Config, f *folio.Folio, logger *slog.Logger) picker.Picker {
	native := picker.NewNativePicker(cfg.Picker.DialogCommand, f, logger)
	fallback := picker.NewFallbackPicker(f, logger)
	switch cfg.Picker.Mode {
	case config.PickerNative:
		return native
	case config.PickerFallback:
		return fallback
	default:
		return picker.Select(native, fallback, logger)
	}
}
