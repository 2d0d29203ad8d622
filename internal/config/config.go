// Package config loads botforge configuration. Precedence, lowest to
// highest: built-in defaults, an optional botforge.yaml (or .yml) config
// file, then BOTFORGE_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config file names searched in the working directory.
const (
	ConfigFileName    = "botforge.yaml"
	ConfigFileNameAlt = "botforge.yml"
)

// Config holds the full runtime configuration.
type Config struct {
	ListenAddr  string `koanf:"listen_addr"`
	ProxyDomain string `koanf:"proxy_domain"`
	LogLevel    string `koanf:"log_level"`

	Build  BuildConfig  `koanf:"build"`
	Signal SignalConfig `koanf:"signal"`
}

// BuildConfig holds defaults applied to every image build.
type BuildConfig struct {
	BaseImage   string `koanf:"base_image"`
	WorkDir     string `koanf:"work_dir"`
	Manifest    string `koanf:"manifest"`
	EntryScript string `koanf:"entry_script"`
	Variant     string `koanf:"variant"`
	AppPort     int    `koanf:"app_port"`
	TempDir     string `koanf:"temp_dir"` // empty means the OS default
}

// SignalConfig holds webhook journal settings.
type SignalConfig struct {
	JournalSize int `koanf:"journal_size"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"listen_addr":         ":3000",
		"proxy_domain":        "localhost",
		"log_level":           "info",
		"build.base_image":    "python:3.11-slim",
		"build.work_dir":      "/app",
		"build.manifest":      "requirements.txt",
		"build.entry_script":  "app.py",
		"build.variant":       "auto",
		"build.app_port":      5000,
		"signal.journal_size": 256,
	}
}

// Load reads configuration. cfgFile may name an explicit config file;
// when empty, botforge.yaml / botforge.yml in the working directory are
// tried, and their absence is not an error.
func Load(cfgFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		cfgFile = findConfigFile(".")
	} else if _, err := os.Stat(cfgFile); err != nil {
		return nil, fmt.Errorf("config file %s: %w", cfgFile, err)
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// BOTFORGE_BUILD__BASE_IMAGE -> build.base_image. A double underscore
	// separates nesting levels so key names may themselves contain "_".
	if err := k.Load(env.Provider("BOTFORGE_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "BOTFORGE_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func findConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
