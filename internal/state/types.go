package state

import (
	"time"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
)

// ProjectState is the persisted deployment state for one project: the
// artifact currently deployed, the previous artifact kept as a revert
// backup, and the schema hash it was built from.
type ProjectState struct {
	Project     string             `json:"project"`
	Environment string             `json:"environment"`
	SchemaHash  string             `json:"schemaHash"`
	Artifact    *artifact.Artifact `json:"artifact"`
	Backup      *artifact.Artifact `json:"backup,omitempty"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// Deployment is one row of deployment history.
type Deployment struct {
	ID          string    `json:"id"`
	Project     string    `json:"project"`
	Environment string    `json:"environment"`
	SchemaHash  string    `json:"schemaHash"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"createdAt"`
}
