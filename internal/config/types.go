// Package config provides shared configuration types for LeapGraph.
// This package is decoupled from CLI concerns and can be used by tools
// that need to load project configuration without pulling in the
// command stack.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapgraph/internal/provision"
)

// IdentityConfig names the identity roles that auth-protected resources
// are attached to during provisioning.
type IdentityConfig struct {
	AuthRole   string `koanf:"auth_role"`
	UnauthRole string `koanf:"unauth_role"`
}

// Empty reports whether no identity roles are configured.
func (c *IdentityConfig) Empty() bool {
	return c == nil || (c.AuthRole == "" && c.UnauthRole == "")
}

// HistoryConfig controls deployment history retention.
type HistoryConfig struct {
	// Keep is the number of deployment records retained per project and
	// environment. Zero means unset and falls back to the default;
	// a negative value disables pruning entirely.
	Keep int `koanf:"keep"`
}

// ProjectConfig holds the minimal project configuration needed by tools
// like the schema watcher. This is a subset of the full CLI Config.
type ProjectConfig struct {
	Project      string            `koanf:"project"`
	Schema       string            `koanf:"schema"`
	Transformers []string          `koanf:"transformers"`
	Target       *provision.Config `koanf:"target"`
	Identity     *IdentityConfig   `koanf:"identity"`
}

// ValidateTarget checks if the target configuration is valid.
// It uses the provisioner registry to determine which target types are
// available.
func ValidateTarget(t *provision.Config) error {
	if t == nil {
		return fmt.Errorf("target configuration is required")
	}
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	// Use provisioner registry as single source of truth
	if !provision.IsRegistered(strings.ToLower(t.Type)) {
		return &provision.UnknownProvisionerError{
			Type:      t.Type,
			Available: provision.List(),
		}
	}

	return nil
}
