package commands

import (
	"os"

	"github.com/leapstack-labs/leapgraph/internal/project"
	"github.com/leapstack-labs/leapgraph/pkg/schema"
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command group.
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect and transform the project schema",
		Long: `Standalone schema utilities that run without a project state or
deploy target.`,
	}

	cmd.AddCommand(newSchemaStripCommand())
	cmd.AddCommand(newSchemaDirectivesCommand())

	return cmd
}

func newSchemaStripCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "strip [schema]",
		Short: "Print the schema with deploy directives removed",
		Long: `Print a copy of the schema with every custom directive removed.

Type and field structure, ordering and standard directives like
@deprecated are preserved. The stripped schema is what API clients
should see; the deploy directives only drive compilation.`,
		Example: `  # Strip the configured schema to stdout
  leapgraph schema strip

  # Strip a specific file into another
  leapgraph schema strip api/schema.graphql -O api/schema.public.graphql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewCommandContextWithoutService(cmd)

			doc, err := readSchemaArg(ctx.Cfg.SchemaPath, args)
			if err != nil {
				return err
			}

			stripped := schema.Strip(doc).Format()
			if outPath != "" {
				return os.WriteFile(outPath, []byte(stripped), 0o644)
			}
			ctx.Renderer.Printf("%s", stripped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "O", "", "Write the stripped schema to a file instead of stdout")

	return cmd
}

func newSchemaDirectivesCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "directives [schema]",
		Short: "List the custom directives used by the schema",
		Long: `List every distinct custom directive name appearing in the schema,
at type or field level. Standard directives are excluded.`,
		Example: `  # List directives in the configured schema
  leapgraph schema directives

  # As JSON
  leapgraph schema directives --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewCommandContextWithoutService(cmd)

			doc, err := readSchemaArg(ctx.Cfg.SchemaPath, args)
			if err != nil {
				return err
			}

			names := schema.CollectDirectives(doc)
			if jsonOutput || ctx.Renderer.JSONMode() {
				return ctx.Renderer.JSON(map[string]any{"directives": names})
			}
			for _, name := range names {
				ctx.Renderer.Println("@" + name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// readSchemaArg loads the schema from the positional argument when one
// is given, falling back to the configured schema path.
func readSchemaArg(configured string, args []string) (*schema.Document, error) {
	path := configured
	if len(args) > 0 {
		path = args[0]
	}
	return project.NewLifecycle(nil, nil).ReadProjectSchema(path)
}
