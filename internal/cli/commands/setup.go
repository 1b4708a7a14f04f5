// Package commands implements the LeapGraph subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapgraph/internal/cli/config"
	"github.com/leapstack-labs/leapgraph/internal/cli/output"
	"github.com/leapstack-labs/leapgraph/internal/project"
	"github.com/leapstack-labs/leapgraph/pkg/transform"
	"github.com/leapstack-labs/leapgraph/pkg/transformers"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Service  *project.Service
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a project service and
// renderer. Returns the context and a cleanup function that must be
// called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	svc, err := createService(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = svc.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Service:  svc,
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutService creates a CommandContext without a
// project service. Useful for commands that never touch state or
// targets, like the schema utilities.
func NewCommandContextWithoutService(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back
// to environment variables and defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	return &config.Config{
		Project:      os.Getenv("LEAPGRAPH_PROJECT"),
		SchemaPath:   getEnvOrDefault("LEAPGRAPH_SCHEMA", config.DefaultSchemaPath),
		StatePath:    getEnvOrDefault("LEAPGRAPH_STATE_PATH", config.DefaultStateFile),
		Environment:  getEnvOrDefault("LEAPGRAPH_ENVIRONMENT", config.DefaultEnv),
		Transformers: transformers.DefaultNames(),
	}
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// createService builds the project service from the configuration.
func createService(cfg *config.Config, logger *slog.Logger) (*project.Service, error) {
	// Ensure state directory exists
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	var identity transform.Identity
	if !cfg.Identity.Empty() {
		identity = transform.Identity{
			AuthRoleName:   cfg.Identity.AuthRole,
			UnauthRoleName: cfg.Identity.UnauthRole,
		}
	}

	return project.New(project.Config{
		Project:      cfg.Project,
		SchemaPath:   cfg.SchemaPath,
		StatePath:    cfg.StatePath,
		Environment:  cfg.Environment,
		Transformers: cfg.Transformers,
		Target:       cfg.Target,
		Identity:     identity,
		HistoryKeep:  cfg.GetHistoryConfig().Keep,
		Logger:       logger,
	})
}
