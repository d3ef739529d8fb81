// Package errors defines the error taxonomy shared by modsync packages and small
// helpers for adding context while keeping errors.Is matching intact.
package errors

import "fmt"

// Sync errors. A pipeline classifies every failure into one of these.
var (
	// ErrNetwork covers connection failures, timeouts and non-2xx responses.
	ErrNetwork = fmt.Errorf("network error")

	// ErrMetadataNotFound is returned when an expected element is absent from a metadata page.
	ErrMetadataNotFound = fmt.Errorf("metadata not found")

	// ErrIO covers open, read and write failures on local files.
	ErrIO = fmt.Errorf("i/o error")

	// ErrUnsafePath is returned when a remote file name would escape the mods directory.
	ErrUnsafePath = fmt.Errorf("unsafe file name")

	// ErrChecksumMismatch is returned when freshly written bytes do not hash to the expected value.
	ErrChecksumMismatch = fmt.Errorf("checksum mismatch")

	// ErrSyncFailed is returned by the CLI when at least one entry failed.
	ErrSyncFailed = fmt.Errorf("sync failed")

	// ErrInvalidOutputFormat is returned for an unknown --output value.
	ErrInvalidOutputFormat = fmt.Errorf("invalid output format")
)

// Manifest errors.
var (
	ErrManifestNotFound = fmt.Errorf("manifest not found")
	ErrManifestParse    = fmt.Errorf("failed to parse manifest")
	ErrManifestInvalid  = fmt.Errorf("invalid manifest")
	ErrMinecraftVersion = fmt.Errorf("unsupported minecraft version")
)

// Config errors.
var (
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")
	ErrConfigFileExists  = fmt.Errorf("configuration file already exists (use --force to overwrite)")

	ErrHTTPTimeoutNegative    = fmt.Errorf("http_timeout cannot be negative")
	ErrMaxConcurrentNegative  = fmt.Errorf("max_concurrent cannot be negative")
	ErrEmptyModsDir           = fmt.Errorf("mods_dir cannot be empty")
	ErrInvalidMetadataBaseURL = fmt.Errorf("invalid metadata_base_url")
	ErrEmptySelector          = fmt.Errorf("selector cannot be empty")
	ErrInvalidLogLevel        = fmt.Errorf("invalid log level")
	ErrInvalidLogFormat       = fmt.Errorf("invalid log format")
)

// Hook errors.
var (
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Classify tags err with a sentinel kind so callers can match both.
// The result reads "<kind>: <err>".
func Classify(kind, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// ErrInvalidLogLevelWithDetails is a helper to create a wrapped error with the invalid level and valid options.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: '%s', must be one of: debug, info, warn, error", ErrInvalidLogLevel, level)
}

// ErrInvalidLogFormatWithDetails is a helper to create a wrapped error with the invalid format and valid options.
func ErrInvalidLogFormatWithDetails(format string) error {
	return fmt.Errorf("%w: '%s', must be one of: text, json", ErrInvalidLogFormat, format)
}
