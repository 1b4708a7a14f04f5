package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/leapgraph/internal/cli/output"
	"github.com/leapstack-labs/leapgraph/internal/provision"
	"github.com/leapstack-labs/leapgraph/internal/state"
	"github.com/leapstack-labs/leapgraph/pkg/artifact"
	"github.com/leapstack-labs/leapgraph/pkg/transform"
)

// renderArtifact prints the compiled artifact: its stacks, resources
// and exported outputs.
func renderArtifact(r *output.Renderer, art *artifact.Artifact) {
	r.KeyValue("Project", art.Project)
	r.KeyValue("Environment", art.Environment)
	r.KeyValue("Schema hash", shortHash(art.SchemaHash))
	r.Println("")

	rows := make([][]string, 0, len(art.Resources()))
	appendStack := func(st *artifact.Stack) {
		for _, res := range st.Resources {
			rows = append(rows, []string{res.Name, string(res.Category), st.Name})
		}
	}
	if art.Root != nil {
		appendStack(art.Root)
	}
	for _, st := range art.Stacks {
		appendStack(st)
	}
	r.Table([]string{"Resource", "Category", "Stack"}, rows)

	if len(art.Outputs) > 0 {
		r.Println("")
		r.Header(2, "Outputs")
		for _, o := range art.Outputs {
			r.KeyValue(o.Name, o.Value)
		}
	}
}

// renderWarnings prints accumulated non-fatal diagnostics to stderr.
func renderWarnings(r *output.Renderer, warnings []transform.Diagnostic) {
	for _, w := range warnings {
		r.Warning(w.String())
	}
}

// renderPlan prints a migration plan as a change table.
func renderPlan(r *output.Renderer, plan *artifact.MigrationPlan) {
	if plan.Empty() {
		r.Println("No changes. Deployed state matches the schema.")
		return
	}

	rows := make([][]string, 0, len(plan.Changes()))
	for _, c := range plan.Changes() {
		destructive := ""
		if c.Destructive {
			destructive = "yes"
		}
		rows = append(rows, []string{string(c.Action), c.Name, string(c.Category), destructive})
	}
	r.Table([]string{"Action", "Resource", "Category", "Destructive"}, rows)
	r.Println("")
	r.Println("Plan:", plan.Summary())
}

// renderDeployment prints the provisioner's result.
func renderDeployment(r *output.Renderer, dep *provision.Result) {
	r.KeyValue("Deployment", dep.DeploymentID)
	if dep.Location != "" {
		r.KeyValue("Location", dep.Location)
	}
	for _, st := range dep.Stacks {
		r.StatusLine(st.Name, st.Status, fmt.Sprintf("%d resources", st.Resources))
	}
}

// renderHistory prints deployment history rows, newest first.
func renderHistory(r *output.Renderer, history []*state.Deployment) {
	if len(history) == 0 {
		return
	}
	r.Println("")
	r.Header(2, "History")
	rows := make([][]string, 0, len(history))
	for _, d := range history {
		rows = append(rows, []string{
			d.CreatedAt.Local().Format(time.DateTime),
			d.Environment,
			shortHash(d.SchemaHash),
			d.Summary,
		})
	}
	r.Table([]string{"When", "Env", "Schema", "Summary"}, rows)
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

// confirmHint names the flag that acknowledges destructive changes.
func confirmHint(changes []artifact.Change) string {
	names := make([]string, 0, len(changes))
	for _, c := range changes {
		names = append(names, c.Name)
	}
	return fmt.Sprintf("destructive changes to: %s\nRe-run with --allow-destructive to apply them", strings.Join(names, ", "))
}
