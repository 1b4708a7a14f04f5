// Package state persists project deployment state in SQLite: the
// currently deployed artifact with its revert backup, deployment
// history, and per-project parameters.
package state

// Store is the persistence surface consumed by the project service.
type Store interface {
	// SaveProjectState upserts the deployment state for a project.
	SaveProjectState(st *ProjectState) error
	// GetProjectState returns the state for a project, or nil when the
	// project has never been deployed.
	GetProjectState(project string) (*ProjectState, error)
	// DeleteProjectState removes a project's state.
	DeleteProjectState(project string) error

	// RecordDeployment appends a deployment history row.
	RecordDeployment(d *Deployment) error
	// ListDeployments returns history rows, newest first. A limit of
	// zero or less returns everything.
	ListDeployments(project string, limit int) ([]*Deployment, error)
	// PruneDeployments removes all but the most recent keep rows.
	PruneDeployments(project string, keep int) error

	// SetParameter stores a project parameter.
	SetParameter(project, key, value string) error
	// GetParameter returns a parameter value and whether it exists.
	GetParameter(project, key string) (string, bool, error)
	// ListParameters returns all parameters for a project.
	ListParameters(project string) (map[string]string, error)
	// DeleteParameter removes a parameter.
	DeleteParameter(project, key string) error

	Close() error
}

var _ Store = (*SQLiteStore)(nil)
