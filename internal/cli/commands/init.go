package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const initConfigTemplate = `# LeapGraph project configuration
project: %s
schema: schema.graphql

target:
  type: local
  dir: build

# identity:
#   auth_role: %s-auth
#   unauth_role: %s-unauth

environments:
  prod:
    target:
      dir: build/prod
`

const initSchemaTemplate = `# Annotate types with deploy directives and run 'leapgraph push'.
#
#   @model                     storage table plus CRUD resolvers
#   @key(fields: [...])        secondary index on a @model type
#   @connection                relation resolver between two models
#   @auth(allow: "...")        access rules for a type or field
#   @function(name: "...")     resolver backed by a named function
#   @http(url: "...")          resolver proxying an HTTP endpoint

type Todo @model {
  id: ID!
  name: String!
  done: Boolean
}
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new LeapGraph project",
		Long: `Initialize a new LeapGraph project.

This creates:
  - leapgraph.yaml configuration file
  - schema.graphql starter schema with a @model example`,
		Example: `  # Initialize in the current directory
  leapgraph init

  # Initialize in a new directory
  leapgraph init my-api

  # Overwrite an existing configuration
  leapgraph init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	ctx := NewCommandContextWithoutService(cmd)

	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "leapgraph.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("leapgraph.yaml already exists. Use --force to overwrite")
	}

	// The directory name doubles as the initial project name.
	project := filepath.Base(dir)
	if project == "." || project == string(filepath.Separator) {
		if wd, err := os.Getwd(); err == nil {
			project = filepath.Base(wd)
		} else {
			project = "my-api"
		}
	}

	cfgContent := fmt.Sprintf(initConfigTemplate, project, project, project)
	if err := os.WriteFile(configPath, []byte(cfgContent), 0o644); err != nil {
		return fmt.Errorf("failed to write leapgraph.yaml: %w", err)
	}
	ctx.Renderer.StatusLine("leapgraph.yaml", "created", "")

	schemaPath := filepath.Join(dir, "schema.graphql")
	if _, err := os.Stat(schemaPath); err != nil || force {
		if err := os.WriteFile(schemaPath, []byte(initSchemaTemplate), 0o644); err != nil {
			return fmt.Errorf("failed to write schema.graphql: %w", err)
		}
		ctx.Renderer.StatusLine("schema.graphql", "created", "")
	}

	ctx.Renderer.Println("")
	ctx.Renderer.Success("LeapGraph project initialized!")
	ctx.Renderer.Println("")
	ctx.Renderer.Println("Next steps:")
	ctx.Renderer.Println("  1. Edit schema.graphql and annotate your types")
	ctx.Renderer.Println("  2. Run 'leapgraph build' to check the artifact")
	ctx.Renderer.Println("  3. Run 'leapgraph push' to deploy it")

	return nil
}
