package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/glorpus-work/modsync/internal/logger"
	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/glorpus-work/modsync/pkg/fsutil"
	"github.com/glorpus-work/modsync/pkg/manifest"
	"github.com/glorpus-work/modsync/pkg/orchestrator"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type syncOptions struct {
	modsDir     string
	concurrency int
	verify      bool
	minecraft   string
	progress    bool
}

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	var opts syncOptions

	cmd := &cobra.Command{
		Use:   "sync MANIFEST",
		Short: "Download the mods listed in a manifest",
		Long: `Download every mod listed in a modpack manifest into the mods directory.

MANIFEST is a manifest.json file or a modpack archive containing one. Files
already present with a matching checksum are left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.concurrency = resolveConcurrency(cmd, opts.concurrency)
			if !cmd.Flags().Changed("progress") {
				opts.progress = isTerminal(cmd.ErrOrStderr())
			}
			return runSync(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.modsDir, "mods-dir", "", "Directory to store mods in (defaults to config)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Maximum parallel downloads (0=unbounded, defaults to config)")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "Re-check saved files against the expected checksum")
	cmd.Flags().StringVar(&opts.minecraft, "minecraft", "", "Refuse manifests whose Minecraft version is outside this constraint (e.g. \">= 1.20, < 1.21\")")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "Print a line as each entry finishes (default: on when stderr is a terminal)")

	return cmd
}

// resolveConcurrency returns -1 when the flag was not given so the config value applies.
func resolveConcurrency(cmd *cobra.Command, value int) int {
	if !cmd.Flags().Changed("concurrency") {
		return -1
	}
	return value
}

func runSync(ctx context.Context, out, errOut io.Writer, manifestPath string, opts syncOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := outputFormat()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := manifest.Load(ctx, manifestPath)
	if err != nil {
		return err
	}
	if opts.minecraft != "" {
		if err := m.CheckMinecraft(opts.minecraft); err != nil {
			return err
		}
	}

	modsDir := opts.modsDir
	if modsDir == "" {
		modsDir = cfg.Settings.ModsDir
	}
	if err := fsutil.EnsureDir(modsDir); err != nil {
		return errors.Wrapf(err, "failed to create mods directory %s", modsDir)
	}

	concurrency := opts.concurrency
	if concurrency < 0 {
		concurrency = cfg.Settings.MaxConcurrent
	}

	p, err := newPipeline(cfg, modsDir, opts.verify || cfg.Settings.VerifyAfterSave)
	if err != nil {
		return err
	}

	var hooks orchestrator.Hooks
	if opts.progress {
		hooks = progressHooks(errOut, len(m.Files))
	}

	logger.Debug("Syncing manifest", logger.Fields{
		"manifest": manifestPath,
		"name":     m.Name,
		"entries":  len(m.Files),
		"mods_dir": modsDir,
	})

	outcomes := orchestrator.New(p, hooks).Run(ctx, m.Files, orchestrator.Options{Concurrency: concurrency})
	if err := writeReport(out, format, outcomes); err != nil {
		return err
	}

	s := orchestrator.Summarize(outcomes)
	if s.Failed > 0 {
		return fmt.Errorf("%d of %d entries failed: %w", s.Failed, s.Total, errors.ErrSyncFailed)
	}
	logger.Success("Mods are up to date", logger.Fields{"downloaded": s.Downloaded, "skipped": s.Skipped})
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func progressHooks(w io.Writer, total int) orchestrator.Hooks {
	var (
		mu   sync.Mutex
		done int
	)
	return orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
		if e.Phase != "finished" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		_, _ = fmt.Fprintf(w, "[%d/%d] %s %s\n", done, total, e.ID, e.Msg)
	}}
}
