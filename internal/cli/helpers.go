package cli

import (
	"fmt"

	"github.com/glorpus-work/modsync/internal/logger"
	"github.com/glorpus-work/modsync/pkg/config"
	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/glorpus-work/modsync/pkg/hooks"
	"github.com/glorpus-work/modsync/pkg/http"
	"github.com/glorpus-work/modsync/pkg/metadata"
	"github.com/glorpus-work/modsync/pkg/pipeline"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	OutputFormat *string
)

// loadConfig loads the configuration from --config or the default location and
// initializes logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Settings.LogLevel
	if Verbose != nil && *Verbose {
		level = "debug"
	}
	logger.InitLogger(level, logger.OutputFormat(cfg.Settings.LogFormat))

	return cfg, nil
}

func outputFormat() (string, error) {
	if OutputFormat == nil || *OutputFormat == "" {
		return OutputText, nil
	}
	switch *OutputFormat {
	case OutputText, OutputJSON:
		return *OutputFormat, nil
	default:
		return "", fmt.Errorf("%w: %q, must be one of: text, json", errors.ErrInvalidOutputFormat, *OutputFormat)
	}
}

// loadScripts returns an executor holding the configured hook scripts, or nil
// when none are configured.
func loadScripts(cfg *config.Config) (pipeline.ScriptRunner, error) {
	if cfg.Hooks.PostDownload == "" && cfg.Hooks.PostSkip == "" {
		return nil, nil
	}
	executor := hooks.NewTengoExecutor()
	err := hooks.LoadScripts(executor, map[hooks.HookType]string{
		hooks.PostDownload: cfg.Hooks.PostDownload,
		hooks.PostSkip:     cfg.Hooks.PostSkip,
	})
	if err != nil {
		return nil, err
	}
	return executor, nil
}

// newPipeline wires the shared HTTP client, the extractor and the hook scripts
// into a pipeline writing to modsDir.
func newPipeline(cfg *config.Config, modsDir string, verify bool) (*pipeline.Pipeline, error) {
	client := http.NewClient(cfg.Settings.HTTPTimeout, cfg.Settings.UserAgent)
	extractor := metadata.NewExtractor(metadata.Selectors{
		Filename: cfg.Selectors.Filename,
		Checksum: cfg.Selectors.Checksum,
	})

	p := pipeline.New(client, extractor, pipeline.Options{
		ModsDir:         modsDir,
		BaseURL:         cfg.Settings.MetadataBaseURL,
		VerifyAfterSave: verify,
	})

	scripts, err := loadScripts(cfg)
	if err != nil {
		return nil, err
	}
	if scripts != nil {
		p.Scripts = scripts
	}
	return p, nil
}
