// Package config provides configuration management for modsync. It loads and
// validates a YAML settings file and supplies defaults for anything left out.
package config

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/glorpus-work/modsync/pkg/fsutil"
	"github.com/glorpus-work/modsync/pkg/http"
	"github.com/glorpus-work/modsync/pkg/metadata"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Settings  Settings  `yaml:"settings"`
	Selectors Selectors `yaml:"selectors"`
	Hooks     Hooks     `yaml:"hooks"`
}

// Settings represents general application settings.
type Settings struct {
	// Output
	ModsDir string `yaml:"mods_dir"`

	// Network settings
	MetadataBaseURL string        `yaml:"metadata_base_url"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	MaxConcurrent   int           `yaml:"max_concurrent"` // 0 means unbounded
	UserAgent       string        `yaml:"user_agent,omitempty"`

	// Integrity
	VerifyAfterSave bool `yaml:"verify_after_save"`

	// Logging
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text, json
}

// Selectors are the CSS selectors used to scrape metadata pages.
type Selectors struct {
	Filename string `yaml:"filename"`
	Checksum string `yaml:"checksum"`
}

// Hooks maps hook types to Tengo script paths.
type Hooks struct {
	PostDownload string `yaml:"post_download,omitempty"`
	PostSkip     string `yaml:"post_skip,omitempty"`
}

// Default configuration values.
const (
	DefaultModsDir         = "mods"
	DefaultMetadataBaseURL = "https://minecraft.curseforge.com"
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultUserAgent       = http.DefaultUserAgent

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			ModsDir:         DefaultModsDir,
			MetadataBaseURL: DefaultMetadataBaseURL,
			HTTPTimeout:     DefaultHTTPTimeout,
			UserAgent:       DefaultUserAgent,
			LogLevel:        "info",
			LogFormat:       "text",
		},
		Selectors: Selectors{
			Filename: metadata.DefaultFilenameSelector,
			Checksum: metadata.DefaultChecksumSelector,
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}

	return config, nil
}

// applyDefaults fills string settings that a file explicitly blanked.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Settings.ModsDir == "" {
		c.Settings.ModsDir = defaults.Settings.ModsDir
	}
	if c.Settings.MetadataBaseURL == "" {
		c.Settings.MetadataBaseURL = defaults.Settings.MetadataBaseURL
	}
	if c.Settings.UserAgent == "" {
		c.Settings.UserAgent = defaults.Settings.UserAgent
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Settings.LogFormat == "" {
		c.Settings.LogFormat = defaults.Settings.LogFormat
	}
	if c.Selectors.Filename == "" {
		c.Selectors.Filename = defaults.Selectors.Filename
	}
	if c.Selectors.Checksum == "" {
		c.Selectors.Checksum = defaults.Selectors.Checksum
	}
}

// SaveConfig saves configuration to a file.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeSecure); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	// Write to a temp file and rename so a crash never leaves a truncated config.
	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeSecure)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateSettings(c.Settings); err != nil {
		return err
	}
	if strings.TrimSpace(c.Selectors.Filename) == "" || strings.TrimSpace(c.Selectors.Checksum) == "" {
		return errors.ErrEmptySelector
	}
	return nil
}

func validateSettings(s Settings) error {
	if s.ModsDir == "" {
		return errors.ErrEmptyModsDir
	}
	if s.HTTPTimeout < 0 {
		return errors.ErrHTTPTimeoutNegative
	}
	if s.MaxConcurrent < 0 {
		return errors.ErrMaxConcurrentNegative
	}
	u, err := url.Parse(s.MetadataBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Wrapf(errors.ErrInvalidMetadataBaseURL, "%q", s.MetadataBaseURL)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errors.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[s.LogFormat] {
		return errors.ErrInvalidLogFormatWithDetails(s.LogFormat)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := fsutil.GetConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user config directory")
	}
	return filepath.Join(configDir, "config.yaml"), nil
}
