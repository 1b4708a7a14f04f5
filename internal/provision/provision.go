// Package provision defines the provisioner capability: taking a
// built artifact and materializing its stacks somewhere. Provisioners
// register themselves by type name; the project service resolves the
// configured type through the registry.
package provision

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
)

// Provisioner deploys artifacts.
type Provisioner interface {
	Name() string
	// Deploy materializes every stack of the artifact. It replaces
	// whatever the previous deployment of the same project and
	// environment left behind.
	Deploy(ctx context.Context, art *artifact.Artifact) (*Result, error)
}

// Config selects and configures a provisioner. Dir applies to the
// local provisioner and names its build directory.
type Config struct {
	Type string `koanf:"type"`
	Dir  string `koanf:"dir"`
}

// Result describes one completed deployment.
type Result struct {
	DeploymentID string            `json:"deploymentId"`
	Location     string            `json:"location"`
	Outputs      map[string]string `json:"outputs"`
	Stacks       []StackStatus     `json:"stacks"`
}

// StackStatus records the outcome for one stack.
type StackStatus struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Resources int    `json:"resources"`
}

// DeploymentError wraps a provisioner failure. The lifecycle layer
// does not retry; the cause is preserved verbatim.
type DeploymentError struct {
	Provisioner string
	Project     string
	Err         error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("deployment via %s failed for project %s: %v", e.Provisioner, e.Project, e.Err)
}

func (e *DeploymentError) Unwrap() error { return e.Err }
