// Package project implements the deployment lifecycle for a schema
// project: reading the schema and configuration, building the
// deployment artifact, uploading it to a provisioner, and migrating or
// reverting the persisted project state.
package project

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	intconfig "github.com/leapstack-labs/leapgraph/internal/config"
	"github.com/leapstack-labs/leapgraph/internal/provision"
	"github.com/leapstack-labs/leapgraph/internal/state"
	"github.com/leapstack-labs/leapgraph/pkg/artifact"
	"github.com/leapstack-labs/leapgraph/pkg/schema"
	"github.com/leapstack-labs/leapgraph/pkg/transform"
	"github.com/leapstack-labs/leapgraph/pkg/transformers"
)

// PipelineFactory builds the transformation pipeline for one run.
// Splitting construction out keeps the lifecycle testable with spy
// transformers.
type PipelineFactory func(opts transform.Options) (*transform.Pipeline, error)

// DefaultPipelineFactory builds pipelines from registered transformer
// names, in the given order.
func DefaultPipelineFactory(names []string) PipelineFactory {
	return func(opts transform.Options) (*transform.Pipeline, error) {
		ts, err := transformers.Build(names)
		if err != nil {
			return nil, err
		}
		return transform.NewPipeline(opts, ts...)
	}
}

// Lifecycle holds the pure project operations. It owns no state store
// and no provisioner; those collaborators are passed in by the caller
// (usually the Service).
type Lifecycle struct {
	pipeline PipelineFactory
	logger   *slog.Logger
}

// NewLifecycle creates a lifecycle. A nil factory uses the default
// transformer set; a nil logger discards.
func NewLifecycle(factory PipelineFactory, logger *slog.Logger) *Lifecycle {
	if factory == nil {
		factory = DefaultPipelineFactory(transformers.DefaultNames())
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Lifecycle{pipeline: factory, logger: logger}
}

// ReadProjectSchema loads the project schema from a file or from a
// directory of .graphql fragments.
func (l *Lifecycle) ReadProjectSchema(path string) (*schema.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ProjectNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read project schema: %w", err)
	}
	if info.IsDir() {
		return schema.ParseDir(path)
	}
	return schema.ParseFile(path)
}

// ReadProjectConfiguration loads leapgraph.yaml from the project
// directory.
func (l *Lifecycle) ReadProjectConfiguration(dir string) (*intconfig.ProjectConfig, error) {
	cfg, err := intconfig.LoadFromDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read project configuration: %w", err)
	}
	if cfg == nil {
		return nil, &ProjectNotFoundError{Path: filepath.Join(dir, intconfig.ConfigFileName)}
	}
	return cfg, nil
}

// BuildAPIProject compiles the document into a deployment artifact.
// It writes nothing: no state, no target.
func (l *Lifecycle) BuildAPIProject(doc *schema.Document, opts transform.Options) (*transform.Result, error) {
	p, err := l.pipeline(opts)
	if err != nil {
		return nil, err
	}
	return p.TransformDocument(doc)
}

// UploadDeployment hands the artifact to the provisioner. Collaborator
// failures are wrapped in *provision.DeploymentError and never retried
// here; retry policy, if any, belongs to the provisioner.
func (l *Lifecycle) UploadDeployment(ctx context.Context, art *artifact.Artifact, target provision.Provisioner) (*provision.Result, error) {
	res, err := target.Deploy(ctx, art)
	if err != nil {
		return nil, &provision.DeploymentError{
			Provisioner: target.Name(),
			Project:     art.Project,
			Err:         err,
		}
	}
	return res, nil
}

// MigrateAPIProject builds the document and diffs the result against
// the currently deployed artifact. A destructive plan without
// confirmation fails with *artifact.MigrationConflictError and applies
// nothing; the computed plan is still returned for display. Otherwise
// the returned state carries the new artifact with the prior artifact
// recorded as its backup.
func (l *Lifecycle) MigrateAPIProject(current *state.ProjectState, doc *schema.Document, opts transform.Options, confirmDestructive bool) (*artifact.MigrationPlan, *state.ProjectState, error) {
	res, err := l.BuildAPIProject(doc, opts)
	if err != nil {
		return nil, nil, err
	}
	return l.PlanMigration(current, res.Artifact, confirmDestructive)
}

// PlanMigration diffs an already-built artifact against the current
// state and, when the plan is applicable, prepares the next state.
func (l *Lifecycle) PlanMigration(current *state.ProjectState, built *artifact.Artifact, confirmDestructive bool) (*artifact.MigrationPlan, *state.ProjectState, error) {
	var deployed *artifact.Artifact
	if current != nil {
		deployed = current.Artifact
	}
	plan := artifact.Diff(deployed, built)

	if plan.Destructive() && !confirmDestructive {
		return plan, nil, &artifact.MigrationConflictError{
			Project: built.Project,
			Changes: plan.DestructiveChanges(),
		}
	}

	next := &state.ProjectState{
		Project:     built.Project,
		Environment: built.Environment,
		SchemaHash:  built.SchemaHash,
		Artifact:    built,
		Backup:      deployed,
	}
	return plan, next, nil
}

// RevertAPIMigration restores the artifact recorded before the last
// migration. The restored state carries no backup of its own, so a
// second revert fails.
func (l *Lifecycle) RevertAPIMigration(st *state.ProjectState) (*state.ProjectState, error) {
	if st == nil {
		return nil, &RevertError{Reason: "project has no deployment state"}
	}
	if st.Backup == nil {
		return nil, &RevertError{Project: st.Project, Reason: "no backup artifact recorded"}
	}
	return &state.ProjectState{
		Project:     st.Project,
		Environment: st.Backup.Environment,
		SchemaHash:  st.Backup.SchemaHash,
		Artifact:    st.Backup,
	}, nil
}
