package config

import "github.com/leapstack-labs/leapgraph/internal/provision"

// Default configuration values.
const (
	DefaultSchemaPath  = "schema.graphql"
	DefaultBuildDir    = "build"
	DefaultHistoryKeep = 20
)

// ApplyDefaults applies default values to a ProjectConfig.
func ApplyDefaults(c *ProjectConfig) {
	if c == nil {
		return
	}
	if c.Schema == "" {
		c.Schema = DefaultSchemaPath
	}
}

// ApplyTargetDefaults applies default values to a target config based on
// the target type.
func ApplyTargetDefaults(t *provision.Config) {
	if t == nil {
		return
	}

	// Apply type-specific defaults
	if t.Type == "local" {
		if t.Dir == "" {
			t.Dir = DefaultBuildDir
		}
	}
}
