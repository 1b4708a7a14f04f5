package commands

import (
	"github.com/spf13/cobra"
)

// RevertOptions holds options for the revert command.
type RevertOptions struct {
	JSONOutput bool
}

// NewRevertCommand creates the revert command.
func NewRevertCommand() *cobra.Command {
	opts := &RevertOptions{}

	cmd := &cobra.Command{
		Use:   "revert",
		Short: "Restore and redeploy the previous artifact",
		Long: `Redeploy the artifact that was live before the last migration.

Each successful migration keeps the prior artifact as a backup; revert
deploys that backup and makes it the current state. The restored state
has no backup of its own, so revert cannot be chained.`,
		Example: `  # Roll back the last migration
  leapgraph revert`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRevert(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Output the result as JSON")

	return cmd
}

func runRevert(cmd *cobra.Command, opts *RevertOptions) error {
	ctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := ctx.Service.Revert(cmd.Context())
	if err != nil {
		return err
	}

	if opts.JSONOutput || ctx.Renderer.JSONMode() {
		return ctx.Renderer.JSON(map[string]any{
			"state":      res.State,
			"deployment": res.Deployment,
		})
	}

	ctx.Renderer.KeyValue("Project", res.State.Project)
	ctx.Renderer.KeyValue("Schema hash", shortHash(res.State.SchemaHash))
	ctx.Renderer.Println("")
	renderDeployment(ctx.Renderer, res.Deployment)
	ctx.Renderer.Success("Reverted to the previous deployment")
	return nil
}
