// Package config loads folioview settings from defaults, a YAML file,
// FOLIOVIEW_ environment variables and command line flags.
package config

import (
	"log/slog"
	"strings"

	"github.com/leafo/folioview/internal/folio"
)

// Default configuration values.
const (
	DefaultStateDir    = ".folioview"
	DefaultHistoryPath = DefaultStateDir + "/history.db"
	DefaultLogFile     = DefaultStateDir + "/folioview.log"
	DefaultExportDir   = "."
	DefaultExportName  = "folio"
	DefaultSampleURL   = "assets/sample.txt"
	DefaultPickerMode  = "auto"
	DefaultMaxFileSize = 8 << 20
)

// Picker modes.
const (
	PickerAuto     = "auto"
	PickerNative   = "native"
	PickerFallback = "fallback"
)

// Config holds every folioview setting.
type Config struct {
	Keys        KeysConfig        `koanf:"keys"`
	Preview     PreviewConfig     `koanf:"preview"`
	Picker      PickerConfig      `koanf:"picker"`
	Export      ExportConfig      `koanf:"export"`
	Sample      SampleConfig      `koanf:"sample"`
	History     HistoryConfig     `koanf:"history"`
	Log         LogConfig         `koanf:"log"`
	Watch       WatchConfig       `koanf:"watch"`
	Index       IndexConfig       `koanf:"index"`
	Meilisearch MeilisearchConfig `koanf:"meilisearch"`
	ShellTarget ShellTargetConfig `koanf:"shell_target"`

	// FileUsed is the config file that was read, if any.
	FileUsed string `koanf:"-"`
}

// KeysConfig maps actions to single keystrokes.
type KeysConfig struct {
	Load   string `koanf:"load"`
	Export string `koanf:"export"`
	Sample string `koanf:"sample"`
	Quit   string `koanf:"quit"`
}

// PreviewConfig controls the preview pane.
type PreviewConfig struct {
	SnippetLength    int      `koanf:"snippet_length"`
	HiddenPrefixes   []string `koanf:"hidden_prefixes"`
	BinaryExtensions []string `koanf:"binary_extensions"`
}

// PickerConfig controls folder selection.
type PickerConfig struct {
	Mode              string   `koanf:"mode"`
	DialogCommand     []string `koanf:"dialog_command"`
	IgnoreDirectories []string `koanf:"ignore_directories"`
	MaxFileSize       int64    `koanf:"max_file_size"`
}

// ExportConfig controls where archives are written.
type ExportConfig struct {
	Dir  string `koanf:"dir"`
	Name string `koanf:"name"`
}

// SampleConfig points at the sample file.
type SampleConfig struct {
	URL string `koanf:"url"`
}

// HistoryConfig locates the history database. An empty path disables it.
type HistoryConfig struct {
	Path string `koanf:"path"`
}

// LogConfig controls the log file.
type LogConfig struct {
	File  string `koanf:"file"`
	Level string `koanf:"level"`
}

// WatchConfig toggles reloading a loaded folder when it changes on disk.
type WatchConfig struct {
	Enabled bool `koanf:"enabled"`
}

// IndexConfig controls chunking of files published to search targets.
type IndexConfig struct {
	ChunkSize    int `koanf:"chunk_size"`
	ChunkOverlap int `koanf:"chunk_overlap"`
}

// MeilisearchConfig captures connection settings for search publishing.
type MeilisearchConfig struct {
	Host   string `koanf:"host"`
	APIKey string `koanf:"api_key"`
	Index  string `koanf:"index"`
}

// ShellTargetConfig runs a command with a JSON manifest after every load.
type ShellTargetConfig struct {
	Command string `koanf:"command"`
}

// PreviewPolicy converts the preview settings.
func (c *Config) PreviewPolicy() folio.PreviewPolicy {
	return folio.PreviewPolicy{
		SnippetLength:    c.Preview.SnippetLength,
		HiddenPrefixes:   append([]string(nil), c.Preview.HiddenPrefixes...),
		BinaryExtensions: append([]string(nil), c.Preview.BinaryExtensions...),
	}
}

// ScanOptions converts the picker settings used to read folders.
func (c *Config) ScanOptions() folio.ScanOptions {
	return folio.ScanOptions{
		IgnoreDirs:  append([]string(nil), c.Picker.IgnoreDirectories...),
		MaxFileSize: c.Picker.MaxFileSize,
	}
}

// Options converts the configuration into folio service options.
func (c *Config) Options() folio.Options {
	return folio.Options{
		Scan:    c.ScanOptions(),
		Preview: c.PreviewPolicy(),
		Chunks:  folio.ChunkOptions{ChunkSize: c.Index.ChunkSize, ChunkOverlap: c.Index.ChunkOverlap},
		Export:  folio.Exporter{Dir: c.Export.Dir, Name: c.Export.Name},
	}
}

// MeilisearchSettings converts the search target settings.
func (c *Config) MeilisearchSettings() folio.MeilisearchConfig {
	return folio.MeilisearchConfig{Host: c.Meilisearch.Host, APIKey: c.Meilisearch.APIKey, Index: c.Meilisearch.Index}
}

// LogLevel parses the configured log level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
