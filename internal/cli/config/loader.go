package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	intconfig "github.com/leapstack-labs/leapgraph/internal/config"
	"github.com/leapstack-labs/leapgraph/internal/provision"
	"github.com/leapstack-labs/leapgraph/pkg/transformers"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
// This key is shared with root.go via both using the same type.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// findConfigFile finds the config file to use.
// Priority: explicit path > leapgraph.yaml > leapgraph.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(intconfig.ConfigFileName); err == nil {
		return intconfig.ConfigFileName
	}
	if _, err := os.Stat(intconfig.ConfigFileNameAlt); err == nil {
		return intconfig.ConfigFileNameAlt
	}
	return ""
}

// configExistsIn checks if a leapgraph config file exists in the directory.
func configExistsIn(dir string) bool {
	for _, name := range []string{intconfig.ConfigFileName, intconfig.ConfigFileNameAlt} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// findProjectRootUpward searches upward from startDir for a leapgraph config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configExistsIn(dir) {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root from CLI flags and filesystem.
// Priority:
//  1. Explicit --project-dir flag
//  2. Infer from --schema (parent directory if it contains a config file)
//  3. Search upward from CWD for leapgraph.yaml
//  4. Current working directory
func inferProjectRoot(flags *pflag.FlagSet) string {
	// 1. Check explicit --project-dir
	if flags != nil {
		if projectDir, _ := flags.GetString("project-dir"); projectDir != "" && flags.Changed("project-dir") {
			abs, err := filepath.Abs(projectDir)
			if err == nil {
				return abs
			}
			return filepath.Clean(projectDir)
		}
	}

	// 2. Infer from --schema
	if flags != nil {
		if schemaPath, _ := flags.GetString("schema"); schemaPath != "" && flags.Changed("schema") {
			absSchema, err := filepath.Abs(schemaPath)
			if err == nil {
				parent := filepath.Dir(absSchema)

				// If the schema's directory has a config file, it's the project root
				if configExistsIn(parent) {
					return parent
				}
			}
		}
	}

	// 3. Search upward from CWD for leapgraph.yaml
	if cwd, err := os.Getwd(); err == nil {
		if root := findProjectRootUpward(cwd); root != "" {
			return root
		}
	}

	// 4. Default to CWD
	cwd, _ := os.Getwd()
	if cwd == "" {
		cwd = "."
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	return LoadConfigWithEnvironment(cfgFile, "", flags)
}

// LoadConfigWithEnvironment loads configuration with an optional environment
// override. The envOverride parameter selects which environment's overrides
// to apply and takes precedence over the configured environment.
// The flags parameter allows CLI flags to override config file and env var values.
func LoadConfigWithEnvironment(cfgFile string, envOverride string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// Infer project root from flags before loading config
	// This enables the "anchor pattern" where --schema app/schema.graphql
	// implies project root is app/
	projectRoot := inferProjectRoot(flags)

	// Track paths that were explicitly provided as flags (already relative to CWD).
	// These will be converted to absolute paths before the normal resolution step,
	// to prevent double-resolution when project root was inferred from them.
	var flagSchemaPath, flagStatePath string
	if flags != nil {
		if flags.Changed("schema") {
			if v, _ := flags.GetString("schema"); v != "" {
				flagSchemaPath, _ = filepath.Abs(v)
			}
		}
		if flags.Changed("state") {
			if v, _ := flags.GetString("state"); v != "" {
				flagStatePath, _ = filepath.Abs(v)
			}
		}
	}

	// If an explicit config file is provided, use its directory as project root
	// (unless a more specific hint was given via flags)
	if cfgFile != "" && projectRoot == inferProjectRoot(nil) {
		// No flag-based inference happened, use config file's directory
		if absPath, err := filepath.Abs(cfgFile); err == nil {
			projectRoot = filepath.Dir(absPath)
		}
	}

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"schema":       intconfig.DefaultSchemaPath,
		"state_path":   DefaultStateFile,
		"environment":  DefaultEnv,
		"verbose":      false,
		"output":       DefaultOutput,
		"transformers": transformers.DefaultNames(),
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	// Search in project root if no explicit config file provided
	if cfgFile == "" {
		// Look for config in inferred project root
		for _, name := range []string{intconfig.ConfigFileName, intconfig.ConfigFileNameAlt} {
			candidate := filepath.Join(projectRoot, name)
			if _, err := os.Stat(candidate); err == nil {
				cfgFile = candidate
				break
			}
		}
	}
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (LEAPGRAPH_ prefix)
	// Transform: LEAPGRAPH_STATE_PATH -> state_path
	if err := k.Load(env.Provider("LEAPGRAPH_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "LEAPGRAPH_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			key := strings.ReplaceAll(f.Name, "-", "_")

			// EXPLICIT MAPPING: Bridge the gap between --state flag and state_path config key
			// The CLI uses --state for brevity, but the config struct uses state_path for clarity
			if key == "state" {
				return "state_path", posflag.FlagVal(flags, f)
			}

			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Set project root and resolve relative paths
	// Use project root as base for all path resolution (not config file directory)
	// This implements the "anchor pattern" for intuitive path resolution
	cfg.ProjectRoot = projectRoot

	// For paths explicitly provided via flags, use the pre-computed absolute paths
	// (already computed relative to CWD at flag parse time).
	// For paths from config file or defaults, resolve relative to project root.
	if flagSchemaPath != "" {
		cfg.SchemaPath = flagSchemaPath
	} else {
		cfg.SchemaPath = resolvePathRelativeTo(cfg.SchemaPath, projectRoot)
	}
	if flagStatePath != "" {
		cfg.StatePath = flagStatePath
	} else {
		cfg.StatePath = resolvePathRelativeTo(cfg.StatePath, projectRoot)
	}

	// Determine which environment's overrides to apply
	envName := cfg.Environment
	if envOverride != "" {
		envName = envOverride
		// Keep the effective environment in sync so state and deployments
		// are recorded under the environment that was actually used.
		cfg.Environment = envOverride
	}

	// Apply environment-specific overrides if an environment is selected
	if envName != "" && cfg.Environments != nil {
		if envCfg, ok := cfg.Environments[envName]; ok {
			if envCfg.SchemaPath != "" {
				cfg.SchemaPath = resolvePathRelativeTo(envCfg.SchemaPath, projectRoot)
			}
			if len(envCfg.Transformers) > 0 {
				cfg.Transformers = envCfg.Transformers
			}

			// Merge environment target with base target
			if envCfg.Target != nil {
				cfg.Target = MergeTargetConfig(cfg.Target, envCfg.Target)
			}

			// Merge environment identity with base identity
			if envCfg.Identity != nil {
				cfg.Identity = MergeIdentityConfig(cfg.Identity, envCfg.Identity)
			}
		}
	}

	// Initialize default target if not specified
	if cfg.Target == nil {
		cfg.Target = &provision.Config{Type: "local"}
	}

	// Apply defaults based on target type
	intconfig.ApplyTargetDefaults(cfg.Target)

	// Expand environment variables in target and identity
	expandTargetEnvVars(cfg.Target)
	expandIdentityEnvVars(cfg.Identity)

	// Validate target configuration
	if err := intconfig.ValidateTarget(cfg.Target); err != nil {
		return nil, fmt.Errorf("invalid target configuration: %w", err)
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig or LoadConfigWithEnvironment is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	// Match ${VAR} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR}
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}

// expandTargetEnvVars expands environment variables in target fields.
func expandTargetEnvVars(t *provision.Config) {
	if t == nil {
		return
	}
	t.Dir = expandEnvVars(t.Dir)
}

// expandIdentityEnvVars expands environment variables in identity role names.
func expandIdentityEnvVars(id *IdentityConfig) {
	if id == nil {
		return
	}
	id.AuthRole = expandEnvVars(id.AuthRole)
	id.UnauthRole = expandEnvVars(id.UnauthRole)
}

// MergeTargetConfig merges two target configs, with override taking precedence.
func MergeTargetConfig(base, override *TargetConfig) *TargetConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	// Start with a copy of base
	merged := &provision.Config{
		Type: base.Type,
		Dir:  base.Dir,
	}

	// Apply overrides
	if override.Type != "" {
		merged.Type = override.Type
	}
	if override.Dir != "" {
		merged.Dir = override.Dir
	}

	return merged
}

// MergeIdentityConfig merges two identity configs, with override taking precedence.
func MergeIdentityConfig(base, override *IdentityConfig) *IdentityConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := &IdentityConfig{
		AuthRole:   base.AuthRole,
		UnauthRole: base.UnauthRole,
	}

	if override.AuthRole != "" {
		merged.AuthRole = override.AuthRole
	}
	if override.UnauthRole != "" {
		merged.UnauthRole = override.UnauthRole
	}

	return merged
}
