//go:generate mockgen -destination=./mocks/pipeline.go . ScriptRunner

// Package pipeline syncs a single manifest entry: it resolves the entry's
// metadata page, checks the local copy and downloads the file only when needed.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/glorpus-work/modsync/internal/logger"
	"github.com/glorpus-work/modsync/pkg/checksum"
	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/glorpus-work/modsync/pkg/fsutil"
	"github.com/glorpus-work/modsync/pkg/hooks"
	"github.com/glorpus-work/modsync/pkg/http"
	"github.com/glorpus-work/modsync/pkg/manifest"
	"github.com/glorpus-work/modsync/pkg/metadata"
	"github.com/glorpus-work/modsync/pkg/store"
)

// DownloadSuffix is appended to a metadata URL to obtain the file's download URL.
const DownloadSuffix = "/download"

const reasonChecksumMatches = "checksum matches"

// ScriptRunner runs user hook scripts. *hooks.TengoExecutor implements it.
type ScriptRunner interface {
	Execute(ctx context.Context, hookType hooks.HookType, hctx hooks.HookContext) error
}

// Event represents a state transition of one pipeline run.
type Event struct {
	Phase string // fetching|extracting|checking|downloading|saved|skipped|error
	ID    string // entry "projectID/fileID"
	Msg   string
}

// Hooks carries callbacks for progress events. OnEvent may be called from many
// pipelines concurrently.
type Hooks struct {
	OnEvent func(Event)
}

// Options control pipeline behaviour.
type Options struct {
	ModsDir         string
	BaseURL         string
	VerifyAfterSave bool
}

// Pipeline composes the fetcher, parser and store into the per-entry sync
// procedure. A Pipeline holds no per-run state and may be shared.
type Pipeline struct {
	Fetcher http.Fetcher
	Parser  metadata.Parser
	Store   *store.Store
	Scripts ScriptRunner // optional
	Hooks   Hooks
	Options Options
}

// New creates a pipeline with a fresh store.
func New(fetcher http.Fetcher, parser metadata.Parser, opts Options) *Pipeline {
	return &Pipeline{
		Fetcher: fetcher,
		Parser:  parser,
		Store:   store.NewStore(),
		Options: opts,
	}
}

// MetadataURL returns the metadata page URL for entry.
func (p *Pipeline) MetadataURL(entry manifest.Entry) string {
	base := strings.TrimRight(p.Options.BaseURL, "/")
	return fmt.Sprintf("%s/projects/%d/files/%d", base, entry.ProjectID, entry.FileID)
}

func (p *Pipeline) emit(entry manifest.Entry, phase, msg string) {
	logger.Debug(msg, logger.Fields{
		"project_id": entry.ProjectID,
		"file_id":    entry.FileID,
		"stage":      phase,
	})
	if p.Hooks.OnEvent != nil {
		p.Hooks.OnEvent(Event{Phase: phase, ID: entry.String(), Msg: msg})
	}
}

func (p *Pipeline) fail(entry manifest.Entry, stage Stage, err error) Outcome {
	p.emit(entry, "error", fmt.Sprintf("%s: %v", stage, err))
	return Failed(entry, stage, err)
}

// Run executes the pipeline for entry. Every error is reported through the
// returned Outcome; Run never panics on remote or disk failures.
func (p *Pipeline) Run(ctx context.Context, entry manifest.Entry) Outcome {
	metaURL := p.MetadataURL(entry)

	p.emit(entry, "fetching", metaURL)
	page, err := p.Fetcher.Fetch(ctx, metaURL)
	if err != nil {
		return p.fail(entry, StageMetadataFetch, err)
	}

	p.emit(entry, "extracting", metaURL)
	meta, err := p.Parser.Extract(page)
	if err != nil {
		return p.fail(entry, StageMetadataParse, err)
	}
	meta.SourceURL = metaURL + DownloadSuffix

	path, err := fsutil.SafeJoin(p.Options.ModsDir, meta.DisplayName)
	if err != nil {
		return p.fail(entry, StageMetadataParse, errors.Classify(errors.ErrUnsafePath, err))
	}

	p.emit(entry, "checking", path)
	f, err := p.Store.OpenOrCreate(path)
	if err != nil {
		return p.fail(entry, StageLocalCheck, err)
	}
	defer func() { _ = f.Close() }()

	local, err := p.Store.ReadAll(f)
	if err != nil {
		return p.fail(entry, StageLocalCheck, err)
	}
	state := inspect(local, meta.Checksum)
	if state.ChecksumMatches {
		p.emit(entry, "skipped", path)
		p.runScript(ctx, hooks.PostSkip, entry, meta, path)
		return Skipped(entry, path, reasonChecksumMatches)
	}

	p.emit(entry, "downloading", meta.SourceURL)
	body, err := p.Fetcher.Stream(ctx, meta.SourceURL)
	if err != nil {
		return p.fail(entry, StageDownload, err)
	}
	n, err := p.Store.WriteStream(f, body)
	_ = body.Close()
	if err != nil {
		_ = p.Store.Discard(f)
		return p.fail(entry, StageSave, err)
	}

	if p.Options.VerifyAfterSave {
		if err := p.verifySaved(f, meta.Checksum); err != nil {
			_ = p.Store.Discard(f)
			return p.fail(entry, StageVerify, err)
		}
	}

	p.emit(entry, "saved", fmt.Sprintf("%s (%s)", path, humanize.Bytes(uint64(n))))
	p.runScript(ctx, hooks.PostDownload, entry, meta, path)
	out := Downloaded(entry, path)
	out.Size = n
	return out
}

// inspect derives the local state. An empty file counts as absent even when
// the expected checksum is the digest of empty input.
func inspect(data []byte, expected string) LocalState {
	if len(data) == 0 {
		return LocalState{}
	}
	return LocalState{Exists: true, ChecksumMatches: checksum.Verify(data, expected)}
}

func (p *Pipeline) verifySaved(f *os.File, expected string) error {
	data, err := p.Store.ReadAll(f)
	if err != nil {
		return err
	}
	if !checksum.Verify(data, expected) {
		return errors.Wrapf(errors.ErrChecksumMismatch, "%s: got %s, want %s", f.Name(), checksum.Sum(data), expected)
	}
	return nil
}

func (p *Pipeline) runScript(ctx context.Context, hookType hooks.HookType, entry manifest.Entry, meta metadata.Metadata, path string) {
	if p.Scripts == nil {
		return
	}
	err := p.Scripts.Execute(ctx, hookType, hooks.HookContext{
		ModName:   meta.DisplayName,
		ModPath:   path,
		Checksum:  meta.Checksum,
		ProjectID: entry.ProjectID,
		FileID:    entry.FileID,
	})
	if err != nil {
		logger.Warn("hook failed", logger.Fields{
			"project_id": entry.ProjectID,
			"file_id":    entry.FileID,
			"hook":       string(hookType),
			"error":      err.Error(),
		})
	}
}
