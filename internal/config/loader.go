package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/leafo/folioview/internal/folio"
)

// EnvPrefix prefixes every environment override. A double underscore
// separates nested keys: FOLIOVIEW_EXPORT__DIR sets export.dir.
const EnvPrefix = "FOLIOVIEW_"

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"export-dir":     "export.dir",
	"export-name":    "export.name",
	"sample-url":     "sample.url",
	"picker":         "picker.mode",
	"watch":          "watch.enabled",
	"history":        "history.path",
	"log-file":       "log.file",
	"log-level":      "log.level",
	"snippet-length": "preview.snippet_length",
	"ignore":         "picker.ignore_directories",
}

// Defaults returns the built-in configuration values as koanf keys.
func Defaults() map[string]any {
	return map[string]any{
		"keys.load":                 "u",
		"keys.export":               "e",
		"keys.sample":               "l",
		"keys.quit":                 "q",
		"preview.snippet_length":    folio.DefaultSnippetLength,
		"preview.hidden_prefixes":   []string{"."},
		"preview.binary_extensions": append([]string(nil), folio.DefaultBinaryExtensions...),
		"picker.mode":               DefaultPickerMode,
		"picker.dialog_command":     []string{},
		"picker.ignore_directories": []string{".git", "target", "node_modules"},
		"picker.max_file_size":      DefaultMaxFileSize,
		"export.dir":                DefaultExportDir,
		"export.name":               DefaultExportName,
		"sample.url":                DefaultSampleURL,
		"history.path":              DefaultHistoryPath,
		"log.file":                  DefaultLogFile,
		"log.level":                 "info",
		"watch.enabled":             false,
		"index.chunk_size":          200,
		"index.chunk_overlap":       20,
		"meilisearch.host":          "",
		"meilisearch.api_key":       "",
		"meilisearch.index":         "",
		"shell_target.command":      "",
	}
}

// findConfigFile returns the explicit path or the first default config file
// present in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"folioview.yaml", "folioview.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads configuration. Precedence, highest first: flags, environment,
// config file, defaults. Flags that were not set explicitly are ignored.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// listKeys are split on commas when set from the environment.
var listKeys = map[string]bool{
	"preview.hidden_prefixes":   true,
	"preview.binary_extensions": true,
	"picker.dialog_command":     true,
	"picker.ignore_directories": true,
}

// envKeyValue maps FOLIOVIEW_PICKER__IGNORE_DIRECTORIES=a,b onto
// picker.ignore_directories = [a b].
func envKeyValue(name, value string) (string, interface{}) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if !listKeys[key] {
		return key, value
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}
