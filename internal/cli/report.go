package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/glorpus-work/modsync/pkg/orchestrator"
	"github.com/glorpus-work/modsync/pkg/pipeline"
)

type outcomeReport struct {
	ProjectID int64  `json:"project_id"`
	FileID    int64  `json:"file_id"`
	Status    string `json:"status"`
	Path      string `json:"path,omitempty"`
	Size      int64  `json:"size,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Stage     string `json:"stage,omitempty"`
	Error     string `json:"error,omitempty"`
}

type syncReport struct {
	Outcomes []outcomeReport `json:"outcomes"`
	Summary  summaryReport   `json:"summary"`
}

type summaryReport struct {
	Total      int `json:"total"`
	Downloaded int `json:"downloaded"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

func newOutcomeReport(o pipeline.Outcome) outcomeReport {
	r := outcomeReport{
		ProjectID: o.Entry.ProjectID,
		FileID:    o.Entry.FileID,
		Status:    o.Kind.String(),
		Path:      o.Path,
		Size:      o.Size,
		Reason:    o.Reason,
		Stage:     string(o.Stage),
	}
	if o.Err != nil {
		r.Error = o.Err.Error()
	}
	return r
}

// writeReport prints one line per outcome followed by a summary.
func writeReport(w io.Writer, format string, outcomes []pipeline.Outcome) error {
	s := orchestrator.Summarize(outcomes)

	if format == OutputJSON {
		report := syncReport{
			Outcomes: make([]outcomeReport, 0, len(outcomes)),
			Summary: summaryReport{
				Total:      s.Total,
				Downloaded: s.Downloaded,
				Skipped:    s.Skipped,
				Failed:     s.Failed,
			},
		}
		for _, o := range outcomes {
			report.Outcomes = append(report.Outcomes, newOutcomeReport(o))
		}
		return writeJSON(w, report)
	}

	tabWriter := tabwriter.NewWriter(w, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "STATUS\tPROJECT\tFILE\tDETAIL")
	_, _ = fmt.Fprintln(tabWriter, "------\t-------\t----\t------")
	for _, o := range outcomes {
		_, _ = fmt.Fprintf(tabWriter, "%s\t%d\t%d\t%s\n", o.Kind, o.Entry.ProjectID, o.Entry.FileID, detail(o))
	}
	if err := tabWriter.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", s)
	return err
}

func detail(o pipeline.Outcome) string {
	switch o.Kind {
	case pipeline.KindDownloaded:
		if o.Size > 0 {
			return fmt.Sprintf("%s (%s)", o.Path, humanize.Bytes(uint64(o.Size)))
		}
		return o.Path
	case pipeline.KindSkipped:
		return fmt.Sprintf("%s (%s)", o.Path, o.Reason)
	default:
		return fmt.Sprintf("%s: %v", o.Stage, o.Err)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
