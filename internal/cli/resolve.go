package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jarlens/pkg/maven"
)

// resolveOutput is the JSON document printed by "jarlens resolve".
type resolveOutput struct {
	Manifest     string             `json:"manifest"`
	Project      maven.Coordinate   `json:"project"`
	Parent       *maven.Coordinate  `json:"parent,omitempty"`
	Dependencies []maven.Dependency `json:"dependencies"`
}

func (c *CLI) resolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <pom.xml>",
		Short: "Print the transitive dependency set of a manifest",
		Long: `Resolve walks the manifest's dependencies depth-first, reading child POMs
from the local repository (or the remote repository when missing), and
prints the deduplicated set as JSON. Test and provided dependencies are
listed but not expanded; optional dependencies are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(cmd)
			if err != nil {
				return err
			}
			defer closeSession(ctx, s)

			project, err := s.resolver.ParseManifest(args[0])
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(ctx))
			deps, err := s.resolver.ResolveTree(ctx, args[0])
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Resolved %d dependencies", len(deps)))

			return writeJSON(c.Stdout, resolveOutput{
				Manifest:     args[0],
				Project:      project.Coordinate,
				Parent:       project.Parent,
				Dependencies: deps,
			})
		},
	}
}
