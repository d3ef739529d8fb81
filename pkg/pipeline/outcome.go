package pipeline

import (
	"fmt"

	"github.com/glorpus-work/modsync/pkg/manifest"
)

// Kind tags the terminal state of one pipeline run.
type Kind int

const (
	KindSkipped Kind = iota
	KindDownloaded
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindSkipped:
		return "skipped"
	case KindDownloaded:
		return "downloaded"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Stage names the step a failed run stopped at.
type Stage string

const (
	StageMetadataFetch Stage = "metadata_fetch"
	StageMetadataParse Stage = "metadata_parse"
	StageLocalCheck    Stage = "local_check"
	StageDownload      Stage = "download"
	StageSave          Stage = "save"
	StageVerify        Stage = "verify"
)

// LocalState is what the pipeline learned from the existing local file.
type LocalState struct {
	Exists          bool // present and non-empty
	ChecksumMatches bool
}

// Outcome is the result of running the pipeline for one manifest entry.
// Path is set for KindDownloaded and for KindSkipped, Size only for
// KindDownloaded, Reason only for KindSkipped, Stage and Err only for KindFailed.
type Outcome struct {
	Entry  manifest.Entry
	Kind   Kind
	Path   string
	Size   int64
	Reason string
	Stage  Stage
	Err    error
}

// Skipped returns an outcome for an entry whose local copy is already current.
func Skipped(entry manifest.Entry, path, reason string) Outcome {
	return Outcome{Entry: entry, Kind: KindSkipped, Path: path, Reason: reason}
}

// Downloaded returns an outcome for an entry written to path.
func Downloaded(entry manifest.Entry, path string) Outcome {
	return Outcome{Entry: entry, Kind: KindDownloaded, Path: path}
}

// Failed returns an outcome for an entry that stopped at stage.
func Failed(entry manifest.Entry, stage Stage, err error) Outcome {
	return Outcome{Entry: entry, Kind: KindFailed, Stage: stage, Err: err}
}

// Succeeded reports whether the entry ended up with a current local copy.
func (o Outcome) Succeeded() bool {
	return o.Kind != KindFailed
}

func (o Outcome) String() string {
	switch o.Kind {
	case KindSkipped:
		return fmt.Sprintf("%s skipped: %s", o.Entry, o.Reason)
	case KindDownloaded:
		return fmt.Sprintf("%s downloaded: %s", o.Entry, o.Path)
	default:
		return fmt.Sprintf("%s failed at %s: %v", o.Entry, o.Stage, o.Err)
	}
}
