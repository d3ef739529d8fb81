package config

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/glorpus-work/modsync/pkg/errors"
)

// settable lists the keys accepted by SetValue and GetValue, in display order.
var settable = []string{
	"mods_dir",
	"metadata_base_url",
	"http_timeout",
	"max_concurrent",
	"user_agent",
	"verify_after_save",
	"log_level",
	"log_format",
	"selectors.filename",
	"selectors.checksum",
	"hooks.post_download",
	"hooks.post_skip",
}

// Keys returns the supported configuration keys.
func Keys() []string {
	keys := append([]string(nil), settable...)
	sort.Strings(keys)
	return keys
}

// SetValue sets a configuration value by key and re-validates the result.
func (c *Config) SetValue(key, value string) error {
	switch key {
	case "mods_dir":
		c.Settings.ModsDir = value
	case "metadata_base_url":
		c.Settings.MetadataBaseURL = value
	case "http_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %s", key, value)
		}
		c.Settings.HTTPTimeout = d
	case "max_concurrent":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %s", key, value)
		}
		c.Settings.MaxConcurrent = n
	case "user_agent":
		c.Settings.UserAgent = value
	case "verify_after_save":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %s", key, value)
		}
		c.Settings.VerifyAfterSave = b
	case "log_level":
		c.Settings.LogLevel = value
	case "log_format":
		c.Settings.LogFormat = value
	case "selectors.filename":
		c.Selectors.Filename = value
	case "selectors.checksum":
		c.Selectors.Checksum = value
	case "hooks.post_download":
		c.Hooks.PostDownload = value
	case "hooks.post_skip":
		c.Hooks.PostSkip = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	if err := c.Validate(); err != nil {
		return errors.Wrap(errors.ErrConfigValidation, err.Error())
	}
	return nil
}

// GetValue returns the value of key rendered as a string.
func (c *Config) GetValue(key string) (string, error) {
	switch key {
	case "mods_dir":
		return c.Settings.ModsDir, nil
	case "metadata_base_url":
		return c.Settings.MetadataBaseURL, nil
	case "http_timeout":
		return c.Settings.HTTPTimeout.String(), nil
	case "max_concurrent":
		return strconv.Itoa(c.Settings.MaxConcurrent), nil
	case "user_agent":
		return c.Settings.UserAgent, nil
	case "verify_after_save":
		return strconv.FormatBool(c.Settings.VerifyAfterSave), nil
	case "log_level":
		return c.Settings.LogLevel, nil
	case "log_format":
		return c.Settings.LogFormat, nil
	case "selectors.filename":
		return c.Selectors.Filename, nil
	case "selectors.checksum":
		return c.Selectors.Checksum, nil
	case "hooks.post_download":
		return c.Hooks.PostDownload, nil
	case "hooks.post_skip":
		return c.Hooks.PostSkip, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// ToMap returns every supported key with its current value.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string, len(settable))
	for _, key := range settable {
		value, _ := c.GetValue(key)
		result[key] = value
	}
	return result
}
