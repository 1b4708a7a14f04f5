package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// StatusOptions holds options for the status command.
type StatusOptions struct {
	HistoryLimit int
	JSONOutput   bool
}

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	opts := &StatusOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the deployed state of the project",
		Long: `Show the stored deployment state: schema hash, resource and stack
counts, whether a revert backup exists, and recent deployment history.`,
		Example: `  # Show project status
  leapgraph status

  # Show the full deployment history
  leapgraph status --limit 0

  # Status as JSON
  leapgraph status --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.HistoryLimit, "limit", 10, "History rows to show (0 for all)")
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Output as JSON")

	return cmd
}

func runStatus(cmd *cobra.Command, opts *StatusOptions) error {
	ctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	st, err := ctx.Service.Status(opts.HistoryLimit)
	if err != nil {
		return err
	}

	if opts.JSONOutput || ctx.Renderer.JSONMode() {
		return ctx.Renderer.JSON(st)
	}

	ctx.Renderer.KeyValue("Project", st.Project)
	ctx.Renderer.KeyValue("Environment", st.Environment)
	if !st.Deployed {
		ctx.Renderer.Println("")
		ctx.Renderer.Println("Not deployed yet. Run 'leapgraph push' to deploy.")
		return nil
	}

	ctx.Renderer.KeyValue("Schema hash", shortHash(st.SchemaHash))
	ctx.Renderer.KeyValue("Deployed at", st.UpdatedAt.Local().Format(time.DateTime))
	ctx.Renderer.KeyValue("Resources", fmt.Sprintf("%d in %d stacks", st.Resources, st.Stacks))
	backup := "none"
	if st.HasBackup {
		backup = "available (revert possible)"
	}
	ctx.Renderer.KeyValue("Backup", backup)

	renderHistory(ctx.Renderer, st.History)
	return nil
}
