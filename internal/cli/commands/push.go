package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
	"github.com/spf13/cobra"
)

// PushOptions holds options for the push command.
type PushOptions struct {
	AllowDestructive bool
	JSONOutput       bool
}

// NewPushCommand creates the push command.
func NewPushCommand() *cobra.Command {
	opts := &PushOptions{}

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Compile and deploy the schema to the configured target",
		Long: `Compile the schema and deploy the artifact. Push is migrate without
a dry run: the plan is computed against the stored state, applied to
the target, and the new state is persisted with the previous artifact
kept as the revert backup.`,
		Example: `  # Deploy the current schema
  leapgraph push

  # Deploy to the staging environment
  leapgraph push --env staging

  # Deploy a change that drops a table
  leapgraph push --allow-destructive`,
		Aliases: []string{"deploy"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPush(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.AllowDestructive, "allow-destructive", false, "Apply changes that discard persisted data")
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Output the result as JSON")

	return cmd
}

func runPush(cmd *cobra.Command, opts *PushOptions) error {
	ctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := ctx.Service.Push(cmd.Context(), opts.AllowDestructive)
	if err != nil {
		var conflict *artifact.MigrationConflictError
		if errors.As(err, &conflict) {
			return fmt.Errorf("%w\nHint: %s", err, confirmHint(conflict.Changes))
		}
		return err
	}

	if opts.JSONOutput || ctx.Renderer.JSONMode() {
		return ctx.Renderer.JSON(map[string]any{
			"plan":       res.Plan,
			"applied":    res.Applied,
			"upToDate":   res.UpToDate,
			"deployment": res.Deployment,
			"warnings":   res.Warnings,
		})
	}

	renderWarnings(ctx.Renderer, res.Warnings)

	if res.UpToDate {
		ctx.Renderer.Success("Already up to date")
		return nil
	}

	renderPlan(ctx.Renderer, res.Plan)
	ctx.Renderer.Println("")
	renderDeployment(ctx.Renderer, res.Deployment)
	ctx.Renderer.Success(fmt.Sprintf("Deployed %s to %s", ctx.Service.Project(), ctx.Service.Environment()))
	return nil
}
