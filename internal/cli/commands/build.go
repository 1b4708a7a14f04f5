package commands

import (
	"github.com/spf13/cobra"
)

// BuildOptions holds options for the build command.
type BuildOptions struct {
	JSONOutput bool
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the schema into a deployment artifact",
		Long: `Parse the project schema, run the directive transformers and print
the resulting resource stacks.

Build writes nothing: no state is recorded and no target is touched.
Use it to check a schema before migrating.`,
		Example: `  # Compile the configured schema
  leapgraph build

  # Compile a specific schema file
  leapgraph build --schema api/schema.graphql

  # Emit the artifact as JSON for CI
  leapgraph build --json`,
		Aliases: []string{"compile"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Output the artifact as JSON")

	return cmd
}

func runBuild(cmd *cobra.Command, opts *BuildOptions) error {
	ctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := ctx.Service.Build()
	if err != nil {
		return err
	}

	if opts.JSONOutput || ctx.Renderer.JSONMode() {
		return ctx.Renderer.JSON(map[string]any{
			"artifact": res.Artifact,
			"warnings": res.Warnings,
		})
	}

	renderWarnings(ctx.Renderer, res.Warnings)
	renderArtifact(ctx.Renderer, res.Artifact)
	return nil
}
