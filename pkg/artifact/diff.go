package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ChangeAction classifies a planned change.
type ChangeAction string

const (
	ActionCreate ChangeAction = "create"
	ActionUpdate ChangeAction = "update"
	ActionDelete ChangeAction = "delete"
)

// Change is one planned resource mutation.
type Change struct {
	Action      ChangeAction `json:"action"`
	Name        string       `json:"name"`
	Category    Category     `json:"category"`
	Destructive bool         `json:"destructive"`
	Before      *Resource    `json:"before,omitempty"`
	After       *Resource    `json:"after,omitempty"`
}

// MigrationPlan is the set of changes that takes the deployed artifact
// to the newly built one. Creates and updates follow the built
// artifact's resource order; deletes follow the deployed one's.
type MigrationPlan struct {
	Project string   `json:"project"`
	Creates []Change `json:"creates,omitempty"`
	Updates []Change `json:"updates,omitempty"`
	Deletes []Change `json:"deletes,omitempty"`
}

// Empty reports whether the plan contains no changes.
func (p *MigrationPlan) Empty() bool {
	return len(p.Creates) == 0 && len(p.Updates) == 0 && len(p.Deletes) == 0
}

// Changes returns creates, updates and deletes as one slice.
func (p *MigrationPlan) Changes() []Change {
	out := make([]Change, 0, len(p.Creates)+len(p.Updates)+len(p.Deletes))
	out = append(out, p.Creates...)
	out = append(out, p.Updates...)
	out = append(out, p.Deletes...)
	return out
}

// Destructive reports whether any planned change is destructive.
func (p *MigrationPlan) Destructive() bool {
	return len(p.DestructiveChanges()) > 0
}

// DestructiveChanges returns only the destructive changes.
func (p *MigrationPlan) DestructiveChanges() []Change {
	var out []Change
	for _, c := range p.Changes() {
		if c.Destructive {
			out = append(out, c)
		}
	}
	return out
}

// Summary returns a one-line human summary, e.g.
// "2 to create, 1 to update, 1 to delete (1 destructive)".
func (p *MigrationPlan) Summary() string {
	if p.Empty() {
		return "no changes"
	}
	parts := make([]string, 0, 3)
	if n := len(p.Creates); n > 0 {
		parts = append(parts, fmt.Sprintf("%d to create", n))
	}
	if n := len(p.Updates); n > 0 {
		parts = append(parts, fmt.Sprintf("%d to update", n))
	}
	if n := len(p.Deletes); n > 0 {
		parts = append(parts, fmt.Sprintf("%d to delete", n))
	}
	s := strings.Join(parts, ", ")
	if n := len(p.DestructiveChanges()); n > 0 {
		s += fmt.Sprintf(" (%d destructive)", n)
	}
	return s
}

// Diff compares the deployed artifact against a newly built one and
// produces the migration plan. Resources are matched by name across
// all stacks; a nil deployed artifact plans everything as creates.
func Diff(deployed, built *Artifact) *MigrationPlan {
	plan := &MigrationPlan{}
	switch {
	case built != nil:
		plan.Project = built.Project
	case deployed != nil:
		plan.Project = deployed.Project
	}

	oldRes := deployed.Resources()
	newRes := built.Resources()

	oldByName := make(map[string]*Resource, len(oldRes))
	for _, r := range oldRes {
		oldByName[r.Name] = r
	}
	newByName := make(map[string]*Resource, len(newRes))
	for _, r := range newRes {
		newByName[r.Name] = r
	}

	for _, nr := range newRes {
		or, ok := oldByName[nr.Name]
		if !ok {
			plan.Creates = append(plan.Creates, Change{
				Action:   ActionCreate,
				Name:     nr.Name,
				Category: nr.Category,
				After:    nr,
			})
			continue
		}
		if or.Equal(nr) {
			continue
		}
		plan.Updates = append(plan.Updates, Change{
			Action:      ActionUpdate,
			Name:        nr.Name,
			Category:    nr.Category,
			Destructive: destructiveUpdate(or, nr),
			Before:      or,
			After:       nr,
		})
	}

	for _, or := range oldRes {
		if _, ok := newByName[or.Name]; ok {
			continue
		}
		plan.Deletes = append(plan.Deletes, Change{
			Action:      ActionDelete,
			Name:        or.Name,
			Category:    or.Category,
			Destructive: or.Category.Stateful(),
			Before:      or,
		})
	}

	return plan
}

// destructiveUpdate reports whether updating a resource in place would
// lose data. Only stateful resources can update destructively, and
// only when their key schema changes; attribute additions and index
// changes apply in place.
func destructiveUpdate(before, after *Resource) bool {
	if before.Category != after.Category {
		return before.Category.Stateful() || after.Category.Stateful()
	}
	if !after.Category.Stateful() {
		return false
	}
	return !jsonEqual(before.Definition["keySchema"], after.Definition["keySchema"])
}

func jsonEqual(a, b any) bool {
	da, err := json.Marshal(a)
	if err != nil {
		return false
	}
	db, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(da, db)
}
