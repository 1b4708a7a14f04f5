package project

import "fmt"

// ProjectNotFoundError is returned when a project's schema or
// configuration cannot be found at the given path.
type ProjectNotFoundError struct {
	Path string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("no project found at %s\nHint: Run 'leapgraph init' to scaffold a project, or use --schema to point at your schema", e.Path)
}

// RevertError is returned when a revert cannot be performed, typically
// because no backup artifact was recorded.
type RevertError struct {
	Project string
	Reason  string
}

func (e *RevertError) Error() string {
	if e.Project == "" {
		return fmt.Sprintf("cannot revert: %s", e.Reason)
	}
	return fmt.Sprintf("cannot revert project %q: %s", e.Project, e.Reason)
}
