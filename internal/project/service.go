package project

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/leapgraph/internal/provision"
	"github.com/leapstack-labs/leapgraph/internal/state"
	"github.com/leapstack-labs/leapgraph/pkg/artifact"
	"github.com/leapstack-labs/leapgraph/pkg/transform"
	"github.com/leapstack-labs/leapgraph/pkg/transformers"
)

// Service wires the lifecycle to the state store and the configured
// provisioner. It serializes mutating operations per project, so at
// most one migrate or revert is in flight for a project at a time.
type Service struct {
	lifecycle   *Lifecycle
	store       state.Store
	provisioner provision.Provisioner
	opts        transform.Options
	schemaPath  string
	historyKeep int
	logger      *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Config holds service configuration.
type Config struct {
	// Project is the project name resources are provisioned under
	Project string
	// SchemaPath is the schema file or directory to build from
	SchemaPath string
	// StatePath is the path to the SQLite state database
	StatePath string
	// Environment is the current environment (dev, staging, prod)
	Environment string
	// Transformers lists the directive transformers to run, in order.
	// Empty uses the default set.
	Transformers []string
	// Target selects and configures the provisioner
	Target *provision.Config
	// Identity supplies role names consumed by the auth transformer
	Identity transform.Identity
	// HistoryKeep is the number of deployment history rows retained
	// per project. Zero or negative disables pruning.
	HistoryKeep int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates a project service. It opens and migrates the state store
// and resolves the configured provisioner.
func New(cfg Config) (*Service, error) {
	if cfg.Project == "" {
		return nil, fmt.Errorf("project name is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing project service",
		"project", cfg.Project,
		"environment", cfg.Environment,
		"state_path", cfg.StatePath)

	store := state.NewSQLiteStore()
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate state store: %w", err)
	}

	target := cfg.Target
	if target == nil {
		target = &provision.Config{Type: "local"}
	}
	prov, err := provision.New(*target, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	names := cfg.Transformers
	if len(names) == 0 {
		names = transformers.DefaultNames()
	}

	env := cfg.Environment
	if env == "" {
		env = "dev"
	}

	return &Service{
		lifecycle:   NewLifecycle(DefaultPipelineFactory(names), logger),
		store:       store,
		provisioner: prov,
		opts: transform.Options{
			Project:     cfg.Project,
			Environment: env,
			Identity:    cfg.Identity,
		},
		schemaPath:  cfg.SchemaPath,
		historyKeep: cfg.HistoryKeep,
		logger:      logger,
		locks:       make(map[string]*sync.Mutex),
	}, nil
}

// Lifecycle exposes the underlying pure operations.
func (s *Service) Lifecycle() *Lifecycle { return s.lifecycle }

// Store exposes the underlying state store.
func (s *Service) Store() state.Store { return s.store }

// Project returns the configured project name.
func (s *Service) Project() string { return s.opts.Project }

// Environment returns the configured environment.
func (s *Service) Environment() string { return s.opts.Environment }

// Close releases the state store.
func (s *Service) Close() error {
	return s.store.Close()
}

// projectLock returns the mutex serializing operations for one project.
func (s *Service) projectLock(project string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[project]
	if !ok {
		l = &sync.Mutex{}
		s.locks[project] = l
	}
	return l
}

// Build compiles the project schema into an artifact. It reads the
// schema from disk but writes nothing: no state and no target.
func (s *Service) Build() (*transform.Result, error) {
	lock := s.projectLock(s.opts.Project)
	lock.Lock()
	defer lock.Unlock()

	return s.build()
}

func (s *Service) build() (*transform.Result, error) {
	doc, err := s.lifecycle.ReadProjectSchema(s.schemaPath)
	if err != nil {
		return nil, err
	}
	res, err := s.lifecycle.BuildAPIProject(doc, s.opts)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("built artifact",
		"project", s.opts.Project,
		"resources", len(res.Artifact.Resources()),
		"schema_hash", res.Artifact.SchemaHash)
	return res, nil
}

// MigrateOptions control a migrate run.
type MigrateOptions struct {
	// ConfirmDestructive allows the plan to contain destructive changes.
	ConfirmDestructive bool
	// DryRun computes the plan but deploys nothing and saves nothing.
	DryRun bool
	// Force deploys even when the stored state already matches.
	Force bool
}

// MigrateResult is the outcome of a migrate run.
type MigrateResult struct {
	Plan     *artifact.MigrationPlan
	Artifact *artifact.Artifact
	Warnings []transform.Diagnostic
	// Deployment is nil for dry runs and up-to-date runs.
	Deployment *provision.Result
	// Applied is true when the target and state were updated.
	Applied bool
	// UpToDate is true when the stored state already matched the build.
	UpToDate bool
}

// Migrate builds the schema, plans the migration against the stored
// state, and unless the run is a dry run deploys the artifact and
// persists the new state. The plan, deploy and save are all-or-nothing
// from the state's point of view: nothing is saved unless the deploy
// succeeded.
func (s *Service) Migrate(ctx context.Context, opts MigrateOptions) (*MigrateResult, error) {
	lock := s.projectLock(s.opts.Project)
	lock.Lock()
	defer lock.Unlock()

	res, err := s.build()
	if err != nil {
		return nil, err
	}

	current, err := s.store.GetProjectState(s.opts.Project)
	if err != nil {
		return nil, fmt.Errorf("load project state: %w", err)
	}

	plan, next, err := s.lifecycle.PlanMigration(current, res.Artifact, opts.ConfirmDestructive)
	if err != nil {
		return nil, err
	}

	out := &MigrateResult{
		Plan:     plan,
		Artifact: res.Artifact,
		Warnings: res.Warnings,
	}

	if current != nil && plan.Empty() && current.SchemaHash == res.Artifact.SchemaHash && !opts.Force {
		s.logger.Debug("project up to date", "project", s.opts.Project, "schema_hash", current.SchemaHash)
		out.UpToDate = true
		return out, nil
	}

	if opts.DryRun {
		s.logger.Debug("dry run, skipping deploy", "project", s.opts.Project, "plan", plan.Summary())
		return out, nil
	}

	dep, err := s.lifecycle.UploadDeployment(ctx, res.Artifact, s.provisioner)
	if err != nil {
		return nil, err
	}
	out.Deployment = dep

	if err := s.store.SaveProjectState(next); err != nil {
		return nil, fmt.Errorf("save project state: %w", err)
	}
	if err := s.recordDeployment(next.SchemaHash, plan.Summary()); err != nil {
		return nil, err
	}

	s.logger.Debug("migration applied",
		"project", s.opts.Project,
		"deployment_id", dep.DeploymentID,
		"plan", plan.Summary())
	out.Applied = true
	return out, nil
}

// Push deploys the current schema. It is Migrate without a dry run.
func (s *Service) Push(ctx context.Context, confirmDestructive bool) (*MigrateResult, error) {
	return s.Migrate(ctx, MigrateOptions{ConfirmDestructive: confirmDestructive})
}

// RevertResult is the outcome of a revert.
type RevertResult struct {
	State      *state.ProjectState
	Deployment *provision.Result
}

// Revert restores the backup artifact recorded by the last migration,
// deploys it, and persists the restored state.
func (s *Service) Revert(ctx context.Context) (*RevertResult, error) {
	lock := s.projectLock(s.opts.Project)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.store.GetProjectState(s.opts.Project)
	if err != nil {
		return nil, fmt.Errorf("load project state: %w", err)
	}

	restored, err := s.lifecycle.RevertAPIMigration(current)
	if err != nil {
		return nil, err
	}

	dep, err := s.lifecycle.UploadDeployment(ctx, restored.Artifact, s.provisioner)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveProjectState(restored); err != nil {
		return nil, fmt.Errorf("save project state: %w", err)
	}
	if err := s.recordDeployment(restored.SchemaHash, "revert to "+shortHash(restored.SchemaHash)); err != nil {
		return nil, err
	}

	s.logger.Debug("revert applied",
		"project", s.opts.Project,
		"deployment_id", dep.DeploymentID,
		"schema_hash", restored.SchemaHash)
	return &RevertResult{State: restored, Deployment: dep}, nil
}

func (s *Service) recordDeployment(schemaHash, summary string) error {
	err := s.store.RecordDeployment(&state.Deployment{
		Project:     s.opts.Project,
		Environment: s.opts.Environment,
		SchemaHash:  schemaHash,
		Summary:     summary,
	})
	if err != nil {
		return fmt.Errorf("record deployment: %w", err)
	}
	if s.historyKeep > 0 {
		if err := s.store.PruneDeployments(s.opts.Project, s.historyKeep); err != nil {
			return fmt.Errorf("prune deployment history: %w", err)
		}
	}
	return nil
}

// Status describes the stored deployment state of the project.
type Status struct {
	Project     string
	Environment string
	Deployed    bool
	SchemaHash  string
	UpdatedAt   time.Time
	Resources   int
	Stacks      int
	HasBackup   bool
	History     []*state.Deployment
}

// Status reports the stored state plus recent deployment history.
// historyLimit of zero or less returns the full history.
func (s *Service) Status(historyLimit int) (*Status, error) {
	st, err := s.store.GetProjectState(s.opts.Project)
	if err != nil {
		return nil, fmt.Errorf("load project state: %w", err)
	}

	out := &Status{
		Project:     s.opts.Project,
		Environment: s.opts.Environment,
	}
	if st != nil {
		out.Deployed = true
		out.Environment = st.Environment
		out.SchemaHash = st.SchemaHash
		out.UpdatedAt = st.UpdatedAt
		out.Resources = len(st.Artifact.Resources())
		if st.Artifact.Root != nil {
			out.Stacks = 1 + len(st.Artifact.Stacks)
		} else {
			out.Stacks = len(st.Artifact.Stacks)
		}
		out.HasBackup = st.Backup != nil
	}

	history, err := s.store.ListDeployments(s.opts.Project, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	out.History = history
	return out, nil
}

// SetParameter stores a key-value parameter for the project.
func (s *Service) SetParameter(key, value string) error {
	return s.store.SetParameter(s.opts.Project, key, value)
}

// GetParameter returns a project parameter and whether it exists.
func (s *Service) GetParameter(key string) (string, bool, error) {
	return s.store.GetParameter(s.opts.Project, key)
}

// ListParameters returns all parameters for the project.
func (s *Service) ListParameters() (map[string]string, error) {
	return s.store.ListParameters(s.opts.Project)
}

// DeleteParameter removes a project parameter.
func (s *Service) DeleteParameter(key string) error {
	return s.store.DeleteParameter(s.opts.Project, key)
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
