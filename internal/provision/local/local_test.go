package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapgraph/internal/provision"
	"github.com/leapstack-labs/leapgraph/pkg/artifact"
)

func testArtifact() *artifact.Artifact {
	return &artifact.Artifact{
		Project:     "app",
		Environment: "dev",
		SchemaHash:  "abc123",
		Schema:      "type Todo {\n\tid: ID!\n}\n",
		Parameters: []artifact.Parameter{
			{Name: "env", Type: "string", Default: "dev"},
		},
		Outputs: []artifact.Output{
			{Name: "GraphQLAPIId", Value: "${GraphQLAPI.id}"},
			{Name: "GraphQLAPIEndpoint", Value: "${GraphQLAPI.endpoint}"},
			{Name: "TodoTableName", Value: "${TodoTable.name}"},
			{Name: "Literal", Value: "fixed"},
		},
		Root: &artifact.Stack{
			Name: "app",
			Resources: []*artifact.Resource{
				{Name: "GraphQLAPI", Category: artifact.CategoryAPI, Definition: map[string]any{"name": "app-dev"}},
			},
		},
		Stacks: []*artifact.Stack{
			{
				Name: "storage",
				Resources: []*artifact.Resource{
					{Name: "TodoTable", Category: artifact.CategoryStorage, Definition: map[string]any{"tableName": "Todo"}},
				},
			},
		},
	}
}

func deployTo(t *testing.T, dir string, art *artifact.Artifact) *provision.Result {
	t.Helper()
	p, err := New(provision.Config{Type: "local", Dir: dir}, nil)
	require.NoError(t, err)
	res, err := p.Deploy(context.Background(), art)
	require.NoError(t, err)
	return res
}

func TestDeploy_WritesStacksAndSchema(t *testing.T) {
	dir := t.TempDir()
	res := deployTo(t, dir, testArtifact())

	target := filepath.Join(dir, "app", "dev")
	assert.Equal(t, target, res.Location)
	assert.NotEmpty(t, res.DeploymentID)

	for _, file := range []string{"schema.graphql", "root.yaml", "storage.yaml", "outputs.yaml"} {
		assert.FileExists(t, filepath.Join(target, file))
	}

	schema, err := os.ReadFile(filepath.Join(target, "schema.graphql"))
	require.NoError(t, err)
	assert.Contains(t, string(schema), "type Todo")
}

func TestDeploy_RootTemplateShape(t *testing.T) {
	dir := t.TempDir()
	deployTo(t, dir, testArtifact())

	data, err := os.ReadFile(filepath.Join(dir, "app", "dev", "root.yaml"))
	require.NoError(t, err)

	var doc struct {
		Stack      string `yaml:"stack"`
		Project    string `yaml:"project"`
		Parameters []struct {
			Name    string `yaml:"name"`
			Default string `yaml:"default"`
		} `yaml:"parameters"`
		Resources []struct {
			Name       string         `yaml:"name"`
			Category   string         `yaml:"category"`
			Definition map[string]any `yaml:"definition"`
		} `yaml:"resources"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))

	assert.Equal(t, "app", doc.Stack)
	assert.Equal(t, "app", doc.Project)
	require.Len(t, doc.Parameters, 1)
	assert.Equal(t, "env", doc.Parameters[0].Name)
	require.Len(t, doc.Resources, 1)
	assert.Equal(t, "GraphQLAPI", doc.Resources[0].Name)
	assert.Equal(t, "api", doc.Resources[0].Category)
	assert.Equal(t, "app-dev", doc.Resources[0].Definition["name"])
}

func TestDeploy_ResolvesOutputExpressions(t *testing.T) {
	dir := t.TempDir()
	res := deployTo(t, dir, testArtifact())

	assert.Equal(t, "app-dev-TodoTable", res.Outputs["TodoTableName"])
	assert.Equal(t, "local://app-dev-GraphQLAPI/graphql", res.Outputs["GraphQLAPIEndpoint"])
	assert.Equal(t, "app-dev-GraphQLAPI-id", res.Outputs["GraphQLAPIId"])
	assert.Equal(t, "fixed", res.Outputs["Literal"], "non-expressions pass through")
}

func TestDeploy_StackStatuses(t *testing.T) {
	dir := t.TempDir()
	res := deployTo(t, dir, testArtifact())

	require.Len(t, res.Stacks, 2, "root plus one nested stack")
	assert.Equal(t, provision.StackStatus{Name: "app", Status: "deployed", Resources: 1}, res.Stacks[0])
	assert.Equal(t, provision.StackStatus{Name: "storage", Status: "deployed", Resources: 1}, res.Stacks[1])
}

func TestDeploy_ReplacesPreviousDeployment(t *testing.T) {
	dir := t.TempDir()
	deployTo(t, dir, testArtifact())

	slim := testArtifact()
	slim.Stacks = nil
	deployTo(t, dir, slim)

	assert.NoFileExists(t, filepath.Join(dir, "app", "dev", "storage.yaml"),
		"stacks removed from the artifact disappear from the build directory")
}

func TestDeploy_EnvironmentsAreIsolated(t *testing.T) {
	dir := t.TempDir()
	deployTo(t, dir, testArtifact())

	prod := testArtifact()
	prod.Environment = "prod"
	deployTo(t, dir, prod)

	assert.FileExists(t, filepath.Join(dir, "app", "dev", "root.yaml"))
	assert.FileExists(t, filepath.Join(dir, "app", "prod", "root.yaml"))
}

func TestDeploy_CanceledContext(t *testing.T) {
	p, err := New(provision.Config{Type: "local", Dir: t.TempDir()}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Deploy(ctx, testArtifact())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeploy_RequiresProject(t *testing.T) {
	p, err := New(provision.Config{Type: "local", Dir: t.TempDir()}, nil)
	require.NoError(t, err)

	_, err = p.Deploy(context.Background(), &artifact.Artifact{})
	assert.ErrorContains(t, err, "must name a project")
}

func TestRegistryIncludesLocal(t *testing.T) {
	assert.True(t, provision.IsRegistered("local"), "local registers itself on import")
}
