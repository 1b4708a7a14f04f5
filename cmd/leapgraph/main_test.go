// Package main provides tests for the LeapGraph CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapgraph/internal/cli"
)

// setupProject scaffolds a deployable project in a temp dir and returns
// its path.
func setupProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	cfg := `project: demo
schema: schema.graphql
target:
  type: local
  dir: ` + filepath.Join(dir, "build") + `
`
	if err := os.WriteFile(filepath.Join(dir, "leapgraph.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write leapgraph.yaml: %v", err)
	}

	schema := `type Todo @model {
  id: ID!
  name: String!
}
`
	if err := os.WriteFile(filepath.Join(dir, "schema.graphql"), []byte(schema), 0o644); err != nil {
		t.Fatalf("write schema.graphql: %v", err)
	}

	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(out, "LeapGraph") {
		t.Errorf("version output should contain 'LeapGraph', got: %s", out)
	}
}

func TestHelpCommand(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"build", "migrate", "push", "revert", "status", "schema", "watch", "init"}
	for _, expected := range expectedCommands {
		if !strings.Contains(out, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, out)
		}
	}
}

func TestBuildCommand(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t,
		"build",
		"--config", filepath.Join(dir, "leapgraph.yaml"),
	)
	if err != nil {
		t.Fatalf("build command error = %v", err)
	}

	if !strings.Contains(out, "TodoTable") {
		t.Errorf("build output should contain the storage resource, got: %s", out)
	}
}

func TestBuildCommandJSON(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t,
		"build", "--json",
		"--config", filepath.Join(dir, "leapgraph.yaml"),
	)
	if err != nil {
		t.Fatalf("build --json command error = %v", err)
	}

	if !strings.Contains(out, `"artifact"`) {
		t.Errorf("JSON output should contain an artifact key, got: %s", out)
	}
}

func TestMigrateDryRun(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t,
		"migrate", "--dry-run",
		"--config", filepath.Join(dir, "leapgraph.yaml"),
	)
	if err != nil {
		t.Fatalf("migrate --dry-run command error = %v", err)
	}

	if !strings.Contains(out, "create") {
		t.Errorf("dry-run plan should contain creates, got: %s", out)
	}
	if !strings.Contains(out, "Dry run") {
		t.Errorf("dry-run should say nothing was deployed, got: %s", out)
	}
}

func TestStatusBeforeDeploy(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t,
		"status",
		"--config", filepath.Join(dir, "leapgraph.yaml"),
	)
	if err != nil {
		t.Fatalf("status command error = %v", err)
	}

	if !strings.Contains(out, "Not deployed") {
		t.Errorf("status should report not deployed, got: %s", out)
	}
}

func TestPushThenRevert(t *testing.T) {
	dir := setupProject(t)
	cfgPath := filepath.Join(dir, "leapgraph.yaml")

	if _, err := execute(t, "push", "--config", cfgPath); err != nil {
		t.Fatalf("push command error = %v", err)
	}

	// A revert right after the first push has no backup to restore.
	if _, err := execute(t, "revert", "--config", cfgPath); err == nil {
		t.Fatal("revert without a prior migration should fail")
	}

	// Change the schema, push again, then revert to the first artifact.
	schema := `type Todo @model {
  id: ID!
  name: String!
  done: Boolean
}
`
	if err := os.WriteFile(filepath.Join(dir, "schema.graphql"), []byte(schema), 0o644); err != nil {
		t.Fatalf("rewrite schema: %v", err)
	}
	if _, err := execute(t, "push", "--config", cfgPath); err != nil {
		t.Fatalf("second push error = %v", err)
	}

	out, err := execute(t, "revert", "--config", cfgPath)
	if err != nil {
		t.Fatalf("revert command error = %v", err)
	}
	if !strings.Contains(out, "Reverted") {
		t.Errorf("revert output should confirm the rollback, got: %s", out)
	}
}

func TestMigrateRefusesDestructiveChange(t *testing.T) {
	dir := setupProject(t)
	cfgPath := filepath.Join(dir, "leapgraph.yaml")

	if _, err := execute(t, "push", "--config", cfgPath); err != nil {
		t.Fatalf("push command error = %v", err)
	}

	// Dropping @model deletes the Todo table, which discards data.
	schema := "type Todo {\n  id: ID!\n  name: String!\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "schema.graphql"), []byte(schema), 0o644); err != nil {
		t.Fatalf("rewrite schema: %v", err)
	}

	_, err := execute(t, "migrate", "--config", cfgPath)
	if err == nil {
		t.Fatal("migrate should refuse a destructive plan without --allow-destructive")
	}
	if !strings.Contains(err.Error(), "allow-destructive") {
		t.Errorf("error should hint at --allow-destructive, got: %v", err)
	}

	if _, err := execute(t, "migrate", "--allow-destructive", "--config", cfgPath); err != nil {
		t.Errorf("migrate --allow-destructive error = %v", err)
	}
}

func TestSchemaStripCommand(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t,
		"schema", "strip",
		"--config", filepath.Join(dir, "leapgraph.yaml"),
	)
	if err != nil {
		t.Fatalf("schema strip command error = %v", err)
	}
	if strings.Contains(out, "@model") {
		t.Errorf("stripped schema must not contain @model, got: %s", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			if _, err := execute(t, "completion", shell); err != nil {
				t.Errorf("completion %s command error = %v", shell, err)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := execute(t, "unknown-command"); err == nil {
		t.Error("unknown command should return an error")
	}
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
