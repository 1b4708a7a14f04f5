package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapgraph/internal/project"
	"github.com/leapstack-labs/leapgraph/pkg/artifact"
	"github.com/spf13/cobra"
)

// MigrateOptions holds options for the migrate command.
type MigrateOptions struct {
	DryRun           bool
	AllowDestructive bool
	Force            bool
	JSONOutput       bool
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	opts := &MigrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Plan and apply schema changes against the deployed state",
		Long: `Compile the schema, diff the result against the last deployed
artifact, and apply the resulting plan.

A plan that would delete or rebuild a storage resource discards
persisted data. Such plans are refused unless --allow-destructive is
passed; nothing is applied on refusal.`,
		Example: `  # Show the plan without applying it
  leapgraph migrate --dry-run

  # Apply the plan
  leapgraph migrate

  # Apply a plan that drops a table
  leapgraph migrate --allow-destructive

  # Plan as JSON for CI gates
  leapgraph migrate --dry-run --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Compute the plan but deploy nothing")
	cmd.Flags().BoolVar(&opts.AllowDestructive, "allow-destructive", false, "Apply changes that discard persisted data")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Deploy even when the state already matches")
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Output the plan as JSON")

	return cmd
}

func runMigrate(cmd *cobra.Command, opts *MigrateOptions) error {
	ctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := ctx.Service.Migrate(cmd.Context(), project.MigrateOptions{
		ConfirmDestructive: opts.AllowDestructive,
		DryRun:             opts.DryRun,
		Force:              opts.Force,
	})
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
	renderPlan(ctx.Renderer, res.Plan)

	switch {
	case res.UpToDate:
		ctx.Renderer.Println("")
		ctx.Renderer.Success("Already up to date")
	case opts.DryRun:
		ctx.Renderer.Println("")
		ctx.Renderer.Println("Dry run: nothing was deployed.")
	case res.Applied:
		ctx.Renderer.Println("")
		renderDeployment(ctx.Renderer, res.Deployment)
		ctx.Renderer.Success("Migration applied")
	}
	return nil
}
