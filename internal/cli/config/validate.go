package config

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/leapgraph/pkg/transformers"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Project == "" {
		return fmt.Errorf("project name is required\nHint: Set project in leapgraph.yaml or pass --project")
	}

	// Use transformer registry as single source of truth
	for _, name := range c.Transformers {
		if !transformers.IsRegistered(name) {
			return &transformers.UnknownTransformerError{
				Name:      name,
				Available: transformers.List(),
			}
		}
	}

	switch c.OutputFormat {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("unknown output format %q (expected auto, text, markdown, or json)", c.OutputFormat)
	}

	// Only validate schema existence if we're running a command that needs it
	// This allows help commands to work without a valid schema path
	return nil
}

// ValidateSchemaPath checks if the schema path exists.
func (c *Config) ValidateSchemaPath() error {
	if _, err := os.Stat(c.SchemaPath); os.IsNotExist(err) {
		return fmt.Errorf("schema path does not exist: %s\nHint: Create the schema file or use --schema to specify a different path", c.SchemaPath)
	}
	return nil
}
