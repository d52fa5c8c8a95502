package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leafo/folioview/internal/folio"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "folioview v%s (%s)\n", Version, GitCommit)
		},
	}
}

func newExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Load a folder and write it as a zip archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := stderrLogger(cmd.ErrOrStderr(), cfg)

			svc, err := newService(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			v, err := loadSnapshot(svc.Folio, args[0])
			if err != nil {
				return err
			}
			if err := svc.RecordLoad(ctx, args[0], "cli", v); err != nil {
				logger.Warn("Failed to record load", "source", args[0], "error", err)
			}

			var target string
			if output == "" {
				target, err = svc.Export(ctx, v)
				if err != nil {
					return err
				}
			} else {
				if v.Len() == 0 {
					return folio.ErrNothingToExport
				}
				if err := writeArchive(output, v); err != nil {
					return err
				}
				target = output
				if h := svc.History(); h != nil {
					if _, err := h.RecordExport(ctx, target, v); err != nil {
						logger.Warn("Failed to record export", "archive", target, "error", err)
					}
				}
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d files to %s\n", v.Len(), target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Archive path (default: <export.dir>/<export.name>-<timestamp>.zip)")
	return cmd
}

func newPreviewCommand() *cobra.Command {
	var publish bool

	cmd := &cobra.Command{
		Use:   "preview <dir>",
		Short: "Load a folder and print a preview of every file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := stderrLogger(cmd.ErrOrStderr(), cfg)

			svc, err := newService(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			v, err := loadSnapshot(svc.Folio, args[0])
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout(), table.Row{"Path", "Preview"})
			for _, p := range folio.BuildPreviews(v, cfg.PreviewPolicy()) {
				t.AppendRow(table.Row{p.Path, p.Snippet})
			}
			t.AppendFooter(table.Row{fmt.Sprintf("%d files", v.Len()), ""})
			t.Render()

			if !publish {
				return nil
			}
			if err := svc.RecordLoad(ctx, args[0], "cli", v); err != nil {
				logger.Warn("Failed to record load", "source", args[0], "error", err)
			}
			return svc.Publish(ctx, folio.MountEvent{Source: args[0], VFS: v})
		},
	}
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish the loaded folder to the configured mount targets")
	return cmd
}

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <zip>",
		Short: "List the entries of an exported archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read archive: %w", err)
			}
			files, err := folio.ReadZip(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				return err
			}

			paths := make([]string, 0, len(files))
			for p := range files {
				paths = append(paths, p)
			}
			sort.Strings(paths)

			t := newTable(cmd.OutOrStdout(), table.Row{"Path", "Bytes"})
			rightAlign(t, 2)
			for _, p := range paths {
				t.AppendRow(table.Row{p, len(files[p])})
			}
			t.Render()
			return nil
		},
	}
}

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent loads and exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.History.Path == "" {
				return fmt.Errorf("history is disabled (history.path is empty)")
			}
			ctx := cmd.Context()

			db, err := folio.OpenDatabase(ctx, cfg.History.Path)
			if err != nil {
				return err
			}
			defer db.Close()
			h := folio.NewHistory(db)

			loads, err := h.RecentLoads(ctx, limit)
			if err != nil {
				return err
			}
			exports, err := h.RecentExports(ctx, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Loads")
			lt := newTable(out, table.Row{"Loaded At", "Source", "Picker", "Files", "Bytes"})
			rightAlign(lt, 4, 5)
			for _, l := range loads {
				lt.AppendRow(table.Row{l.LoadedAt, l.Source, l.Picker, l.Files, l.Bytes})
			}
			lt.Render()

			_, _ = fmt.Fprintln(out, "Exports")
			et := newTable(out, table.Row{"Exported At", "Archive", "Files", "Bytes"})
			rightAlign(et, 3, 4)
			for _, e := range exports {
				et.AppendRow(table.Row{e.ExportedAt, e.ArchivePath, e.Files, e.Bytes})
			}
			et.Render()
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of records to show")
	return cmd
}

// loadSnapshot reads dir the same way a picker does and builds a snapshot.
func loadSnapshot(f *folio.Folio, dir string) (*folio.VFS, error) {
	entries, err := f.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}
	return folio.NewVFS(entries)
}

func writeArchive(path string, v *folio.VFS) error {
	var buf bytes.Buffer
	if err := folio.WriteZip(&buf, v); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create archive directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	return nil
}
