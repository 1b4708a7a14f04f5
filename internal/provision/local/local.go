// Package local provisions artifacts into a build directory on disk.
// Each stack becomes a YAML template, the stripped schema is written
// alongside, and output expressions resolve to deterministic local
// names. It is the default provisioner and the one exercised by tests.
package local

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapgraph/internal/provision"
	"github.com/leapstack-labs/leapgraph/pkg/artifact"
)

func init() {
	provision.Register("local", New)
}

// DefaultDir is the build directory used when none is configured.
const DefaultDir = "build"

// Provisioner writes deployments under a local build directory.
type Provisioner struct {
	dir string
	log *slog.Logger
}

// New creates a local provisioner.
// If logger is nil, a discard logger is used.
func New(cfg provision.Config, logger *slog.Logger) (provision.Provisioner, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDir
	}
	return &Provisioner{dir: dir, log: logger}, nil
}

func (p *Provisioner) Name() string { return "local" }

// Deploy writes the artifact's stacks into
// <dir>/<project>/<environment>/, replacing any previous deployment of
// the same project and environment.
func (p *Provisioner) Deploy(ctx context.Context, art *artifact.Artifact) (*provision.Result, error) {
	if art == nil || art.Project == "" {
		return nil, fmt.Errorf("artifact must name a project")
	}

	target := filepath.Join(p.dir, art.Project, art.Environment)
	if err := os.RemoveAll(target); err != nil {
		return nil, fmt.Errorf("clear build directory: %w", err)
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("create build directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(target, "schema.graphql"), []byte(art.Schema), 0o644); err != nil {
		return nil, fmt.Errorf("write schema: %w", err)
	}

	var statuses []provision.StackStatus
	if art.Root != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.writeStack(target, "root.yaml", art, art.Root, art.Parameters); err != nil {
			return nil, err
		}
		statuses = append(statuses, provision.StackStatus{
			Name:      art.Root.Name,
			Status:    "deployed",
			Resources: len(art.Root.Resources),
		})
	}
	for _, st := range art.Stacks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.writeStack(target, st.Name+".yaml", art, st, nil); err != nil {
			return nil, err
		}
		statuses = append(statuses, provision.StackStatus{
			Name:      st.Name,
			Status:    "deployed",
			Resources: len(st.Resources),
		})
	}

	outputs := make(map[string]string, len(art.Outputs))
	for _, o := range art.Outputs {
		outputs[o.Name] = resolveExpr(art, o.Value)
	}
	if err := p.writeOutputs(target, art.Outputs, outputs); err != nil {
		return nil, err
	}

	for _, st := range statuses {
		p.log.Debug("provisioned stack", "stack", st.Name, "resources", st.Resources)
	}

	return &provision.Result{
		DeploymentID: uuid.New().String(),
		Location:     target,
		Outputs:      outputs,
		Stacks:       statuses,
	}, nil
}

type stackDoc struct {
	Stack      string         `yaml:"stack"`
	Project    string         `yaml:"project"`
	Parameters []parameterDoc `yaml:"parameters,omitempty"`
	Resources  []resourceDoc  `yaml:"resources"`
}

type parameterDoc struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Default     string `yaml:"default,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type resourceDoc struct {
	Name       string         `yaml:"name"`
	Category   string         `yaml:"category"`
	DependsOn  []string       `yaml:"dependsOn,omitempty"`
	Definition map[string]any `yaml:"definition"`
}

type outputDoc struct {
	Name        string `yaml:"name"`
	Value       string `yaml:"value"`
	Resolved    string `yaml:"resolved"`
	Description string `yaml:"description,omitempty"`
}

func (p *Provisioner) writeStack(target, file string, art *artifact.Artifact, st *artifact.Stack, params []artifact.Parameter) error {
	doc := stackDoc{
		Stack:   st.Name,
		Project: art.Project,
	}
	for _, param := range params {
		doc.Parameters = append(doc.Parameters, parameterDoc{
			Name:        param.Name,
			Type:        param.Type,
			Default:     param.Default,
			Description: param.Description,
		})
	}
	for _, r := range st.Resources {
		doc.Resources = append(doc.Resources, resourceDoc{
			Name:       r.Name,
			Category:   string(r.Category),
			DependsOn:  r.DependsOn,
			Definition: r.Definition,
		})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode stack %s: %w", st.Name, err)
	}
	if err := os.WriteFile(filepath.Join(target, file), data, 0o644); err != nil {
		return fmt.Errorf("write stack %s: %w", st.Name, err)
	}
	return nil
}

func (p *Provisioner) writeOutputs(target string, outputs []artifact.Output, resolved map[string]string) error {
	docs := make([]outputDoc, 0, len(outputs))
	for _, o := range outputs {
		docs = append(docs, outputDoc{
			Name:        o.Name,
			Value:       o.Value,
			Resolved:    resolved[o.Name],
			Description: o.Description,
		})
	}
	data, err := yaml.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode outputs: %w", err)
	}
	if err := os.WriteFile(filepath.Join(target, "outputs.yaml"), data, 0o644); err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}
	return nil
}

// resolveExpr resolves a ${Resource.attribute} output expression to a
// deterministic local name. Values that are not expressions pass
// through unchanged.
func resolveExpr(art *artifact.Artifact, value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}
	resource, attr, ok := strings.Cut(value[2:len(value)-1], ".")
	if !ok {
		return value
	}
	physical := fmt.Sprintf("%s-%s-%s", art.Project, art.Environment, resource)
	switch attr {
	case "name":
		return physical
	case "endpoint":
		return "local://" + physical + "/graphql"
	default:
		return physical + "-" + attr
	}
}
