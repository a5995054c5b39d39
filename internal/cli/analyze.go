package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jarlens/pkg/fsutil"
	"github.com/matzehuels/jarlens/pkg/maven"
	"github.com/matzehuels/jarlens/pkg/pipeline"
)

func (c *CLI) analyzeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "analyze <pom.xml>",
		Short: "Extract the API of every runtime dependency of a manifest",
		Long: `Analyze resolves the manifest, drops test and provided dependencies, then
acquires and scans each remaining artifact. Missing artifacts are offered
for download interactively (or handled by default_strategy with
--non-interactive). The report is printed as JSON.

Per-dependency failures are listed in the report and do not stop the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(cmd)
			if err != nil {
				return err
			}
			defer closeSession(ctx, s)

			report, err := s.runner.Analyze(ctx, args[0])
			if report != nil {
				c.summarize(report)
				if werr := c.emit(output, report); werr != nil && err == nil {
					err = werr
				}
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	return cmd
}

func (c *CLI) artifactCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "artifact <groupId:artifactId:version>",
		Short: "Extract the API of a single artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := maven.ParseCoordinate(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := c.openSession(cmd)
			if err != nil {
				return err
			}
			defer closeSession(ctx, s)

			art, err := s.runner.AnalyzeCoordinate(ctx, coord)
			if err != nil {
				f := pipeline.NewFailure(coord, err)
				printer{c.Stderr}.failure("%s: %s (%s)", f.Coordinate, f.Message, f.Code)
				return err
			}
			printer{c.Stderr}.artifactLine(coord.String(), len(art.Classes), art.Cached)
			return c.emit(output, art)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to a file instead of stdout")
	return cmd
}

// summarize prints a human-readable digest of the report to stderr.
func (c *CLI) summarize(r *pipeline.Report) {
	p := printer{c.Stderr}
	for _, a := range r.Artifacts {
		p.artifactLine(a.Coordinate.String(), len(a.Classes), a.Cached)
	}
	for _, f := range r.Failures {
		p.warning("%s: %s", f.Coordinate, f.Message)
	}
	p.success("Analyzed %d of %d dependencies (%d classes)", len(r.Artifacts), r.Resolved-len(r.Excluded), r.Stats.Classes)
	if len(r.Excluded) > 0 {
		p.detail("%d test/provided dependencies not analyzed", len(r.Excluded))
	}
}

// emit writes v as JSON to path, or to stdout when path is empty.
func (c *CLI) emit(path string, v any) error {
	if path == "" {
		return writeJSON(c.Stdout, v)
	}
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printer{c.Stderr}.info("Wrote %s", path)
	return nil
}
