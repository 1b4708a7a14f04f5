package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// NewParamsCommand creates the params command group.
func NewParamsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Manage persisted project parameters",
		Long: `Read and write key-value parameters stored with the project state.

Parameters survive across deployments and are available to
provisioners; typical uses are API keys' parameter names, stage
prefixes, and other per-project settings.`,
	}

	cmd.AddCommand(newParamsSetCommand())
	cmd.AddCommand(newParamsGetCommand())
	cmd.AddCommand(newParamsListCommand())
	cmd.AddCommand(newParamsUnsetCommand())

	return cmd
}

func newParamsSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a project parameter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := ctx.Service.SetParameter(args[0], args[1]); err != nil {
				return err
			}
			ctx.Renderer.Success(fmt.Sprintf("Set %s", args[0]))
			return nil
		},
	}
}

func newParamsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a project parameter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			value, ok, err := ctx.Service.GetParameter(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("parameter %q is not set", args[0])
			}
			ctx.Renderer.Println(value)
			return nil
		},
	}
}

func newParamsListCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all project parameters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			params, err := ctx.Service.ListParameters()
			if err != nil {
				return err
			}

			if jsonOutput || ctx.Renderer.JSONMode() {
				return ctx.Renderer.JSON(params)
			}

			keys := make([]string, 0, len(params))
			for k := range params {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			rows := make([][]string, 0, len(keys))
			for _, k := range keys {
				rows = append(rows, []string{k, params[k]})
			}
			ctx.Renderer.Table([]string{"Key", "Value"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newParamsUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a project parameter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := ctx.Service.DeleteParameter(args[0]); err != nil {
				return err
			}
			ctx.Renderer.Success(fmt.Sprintf("Removed %s", args[0]))
			return nil
		},
	}
}
