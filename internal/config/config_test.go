package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafo/folioview/internal/folio"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("export-dir", "", "")
	fs.String("picker", "", "")
	fs.Bool("watch", false, "")
	fs.Int("snippet-length", 0, "")
	fs.StringSlice("ignore", nil, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "u", cfg.Keys.Load)
	assert.Equal(t, "e", cfg.Keys.Export)
	assert.Equal(t, "l", cfg.Keys.Sample)
	assert.Equal(t, folio.DefaultSnippetLength, cfg.Preview.SnippetLength)
	assert.Equal(t, []string{"."}, cfg.Preview.HiddenPrefixes)
	assert.Equal(t, PickerAuto, cfg.Picker.Mode)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.Picker.MaxFileSize)
	assert.Equal(t, DefaultHistoryPath, cfg.History.Path)
	assert.False(t, cfg.Watch.Enabled)
	assert.Empty(t, cfg.FileUsed)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := `
keys:
  load: o
preview:
  snippet_length: 12
  binary_extensions: [".bin"]
export:
  dir: out
watch:
  enabled: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "folioview.yaml"), []byte(content), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "folioview.yaml", cfg.FileUsed)
	assert.Equal(t, "o", cfg.Keys.Load)
	assert.Equal(t, 12, cfg.Preview.SnippetLength)
	assert.Equal(t, []string{".bin"}, cfg.Preview.BinaryExtensions)
	assert.Equal(t, "out", cfg.Export.Dir)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, "e", cfg.Keys.Export)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("nope.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "folioview.yaml"), []byte("export:\n  dir: fromfile\n"), 0o644))

	t.Setenv("FOLIOVIEW_EXPORT__DIR", "fromenv")
	t.Setenv("FOLIOVIEW_PREVIEW__SNIPPET_LENGTH", "8")
	t.Setenv("FOLIOVIEW_PICKER__IGNORE_DIRECTORIES", "vendor,dist")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "fromenv", cfg.Export.Dir)
	assert.Equal(t, 8, cfg.Preview.SnippetLength)
	assert.Equal(t, []string{"vendor", "dist"}, cfg.Picker.IgnoreDirectories)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FOLIOVIEW_EXPORT__DIR", "fromenv")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--export-dir", "fromflag", "--watch", "--picker", "fallback"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "fromflag", cfg.Export.Dir)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, PickerFallback, cfg.Picker.Mode)
	// Unset flags keep lower-precedence values.
	assert.Equal(t, folio.DefaultSnippetLength, cfg.Preview.SnippetLength)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"duplicate keys", func(c *Config) { c.Keys.Export = "u" }, "both use"},
		{"empty key", func(c *Config) { c.Keys.Sample = " " }, "keys.sample is required"},
		{"snippet length", func(c *Config) { c.Preview.SnippetLength = 0 }, "snippet_length"},
		{"picker mode", func(c *Config) { c.Picker.Mode = "browser" }, "picker.mode"},
		{"chunk size", func(c *Config) { c.Index.ChunkSize = 0 }, "chunk_size"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("", nil)
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateClampsOverlap(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("", nil)
	require.NoError(t, err)

	cfg.Index.ChunkSize = 4
	cfg.Index.ChunkOverlap = 9
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.Index.ChunkOverlap)
}

func TestConversions(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("", nil)
	require.NoError(t, err)

	opts := cfg.Options()
	assert.Equal(t, cfg.Preview.SnippetLength, opts.Preview.SnippetLength)
	assert.Equal(t, cfg.Picker.IgnoreDirectories, opts.Scan.IgnoreDirs)
	assert.Equal(t, DefaultExportName, opts.Export.Name)
	assert.Equal(t, 200, opts.Chunks.ChunkSize)

	cfg.Log.Level = "debug"
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
	cfg.Log.Level = ""
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}
