package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/glorpus-work/modsync/pkg/manifest"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	var minecraft string

	cmd := &cobra.Command{
		Use:   "check MANIFEST",
		Short: "Validate a manifest without downloading",
		Long: `Load and validate a manifest.json file or modpack archive and list the
entries a sync would process.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cmd.OutOrStdout(), args[0], minecraft)
		},
	}

	cmd.Flags().StringVar(&minecraft, "minecraft", "", "Also require the pack's Minecraft version to satisfy this constraint")

	return cmd
}

func runCheck(ctx context.Context, out io.Writer, manifestPath, minecraft string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}

	m, err := manifest.Load(ctx, manifestPath)
	if err != nil {
		return err
	}
	if err := m.CheckMinecraft(minecraft); err != nil {
		return err
	}

	if format == OutputJSON {
		return writeJSON(out, m)
	}

	if m.Name != "" {
		_, _ = fmt.Fprintf(out, "%s %s by %s\n", m.Name, m.Version, m.Author)
	}
	if m.Minecraft.Version != "" {
		_, _ = fmt.Fprintf(out, "Minecraft %s\n", m.Minecraft.Version)
	}
	_, _ = fmt.Fprintln(out)

	tabWriter := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "PROJECT\tFILE\tREQUIRED")
	_, _ = fmt.Fprintln(tabWriter, "-------\t----\t--------")
	for _, e := range m.Files {
		required := "yes"
		if e.Required != nil && !*e.Required {
			required = "no"
		}
		_, _ = fmt.Fprintf(tabWriter, "%d\t%d\t%s\n", e.ProjectID, e.FileID, required)
	}
	if err := tabWriter.Flush(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "\n%d entries\n", len(m.Files))
	return err
}
