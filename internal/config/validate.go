package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	keys := map[string]string{
		"load":   c.Keys.Load,
		"export": c.Keys.Export,
		"sample": c.Keys.Sample,
		"quit":   c.Keys.Quit,
	}
	seen := make(map[string]string, len(keys))
	for action, key := range keys {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("keys.%s is required", action)
		}
		if other, dup := seen[key]; dup {
			return fmt.Errorf("keys.%s and keys.%s both use %q", action, other, key)
		}
		seen[key] = action
	}

	if c.Preview.SnippetLength <= 0 {
		return fmt.Errorf("preview.snippet_length must be positive, got %d", c.Preview.SnippetLength)
	}

	switch c.Picker.Mode {
	case PickerAuto, PickerNative, PickerFallback:
	default:
		return fmt.Errorf("picker.mode must be one of auto, native, fallback; got %q", c.Picker.Mode)
	}
	if c.Picker.MaxFileSize < 0 {
		return fmt.Errorf("picker.max_file_size cannot be negative")
	}

	if c.Index.ChunkSize <= 0 {
		return fmt.Errorf("index.chunk_size must be positive, got %d", c.Index.ChunkSize)
	}
	if c.Index.ChunkOverlap < 0 {
		return fmt.Errorf("index.chunk_overlap cannot be negative, got %d", c.Index.ChunkOverlap)
	}
	if c.Index.ChunkOverlap >= c.Index.ChunkSize {
		c.Index.ChunkOverlap = c.Index.ChunkSize - 1
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not a valid level", c.Log.Level)
	}

	return nil
}
