package artifact

import (
	"fmt"
	"strings"
)

// MigrationConflictError is returned when a migration plan contains
// destructive changes the caller has not confirmed. The deployed state
// stays untouched.
type MigrationConflictError struct {
	Project string
	Changes []Change
}

func (e *MigrationConflictError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "migration for project %q contains %d destructive change(s):\n", e.Project, len(e.Changes))
	for _, c := range e.Changes {
		fmt.Fprintf(&b, "  - %s %s (%s)\n", c.Action, c.Name, c.Category)
	}
	b.WriteString("Hint: re-run with --allow-destructive to apply them")
	return b.String()
}
