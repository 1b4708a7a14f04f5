package transformers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
)

func TestKey_NamedCreatesSecondaryIndex(t *testing.T) {
	res := runPipeline(t, `
type Todo @model @key(name: "byOwner", fields: ["owner"]) {
  id: ID!
  owner: String!
}
`, NewModel(), NewKey())

	table := res.Artifact.Resource("TodoTable")
	require.NotNil(t, table)

	keySchema := table.Definition["keySchema"].([]any)
	assert.Equal(t, map[string]any{"name": "id", "type": "HASH"}, keySchema[0], "primary key untouched")

	indexes, ok := table.Definition["globalSecondaryIndexes"].([]any)
	require.True(t, ok, "secondary indexes should be present")
	require.Len(t, indexes, 1)
	index := indexes[0].(map[string]any)
	assert.Equal(t, "byOwner", index["name"])
	assert.Equal(t, []any{map[string]any{"name": "owner", "type": "HASH"}}, index["keySchema"])
}

func TestKey_UnnamedOverridesPrimaryKey(t *testing.T) {
	res := runPipeline(t, `
type Event @model @key(fields: ["stream", "sequence"]) {
  id: ID!
  stream: String!
  sequence: Int!
}
`, NewModel(), NewKey())

	table := res.Artifact.Resource("EventTable")
	require.NotNil(t, table)
	keySchema := table.Definition["keySchema"].([]any)
	require.Len(t, keySchema, 2)
	assert.Equal(t, map[string]any{"name": "stream", "type": "HASH"}, keySchema[0])
	assert.Equal(t, map[string]any{"name": "sequence", "type": "RANGE"}, keySchema[1])
}

// A primary key override is a key schema change, so migrating to it is
// destructive; adding a named index is not.
func TestKey_DestructiveOnlyForPrimaryOverride(t *testing.T) {
	base := runPipeline(t, `
type Todo @model {
  id: ID!
  owner: String!
}
`, NewModel(), NewKey())

	indexed := runPipeline(t, `
type Todo @model @key(name: "byOwner", fields: ["owner"]) {
  id: ID!
  owner: String!
}
`, NewModel(), NewKey())
	plan := artifact.Diff(base.Artifact, indexed.Artifact)
	require.Len(t, plan.Updates, 1)
	assert.False(t, plan.Destructive(), "adding an index keeps the data")

	rekeyed := runPipeline(t, `
type Todo @model @key(fields: ["owner"]) {
  id: ID!
  owner: String!
}
`, NewModel(), NewKey())
	plan = artifact.Diff(base.Artifact, rekeyed.Artifact)
	assert.True(t, plan.Destructive(), "changing the primary key rebuilds the table")
}

func TestKey_RequiresFields(t *testing.T) {
	err := transformErr(t, `
type Todo @model @key(name: "byOwner") {
  id: ID!
}
`, NewModel(), NewKey())
	assert.Contains(t, err.Error(), `"fields"`)
}

func TestKey_UnknownFieldFails(t *testing.T) {
	err := transformErr(t, `
type Todo @model @key(fields: ["missing"]) {
  id: ID!
}
`, NewModel(), NewKey())
	assert.Contains(t, err.Error(), `unknown field "missing"`)
}

func TestKey_AtMostTwoFields(t *testing.T) {
	err := transformErr(t, `
type Todo @model @key(fields: ["a", "b", "c"]) {
  a: ID!
  b: String
  c: String
}
`, NewModel(), NewKey())
	assert.Contains(t, err.Error(), "at most two")
}

func TestKey_WithoutModelWarns(t *testing.T) {
	res := runPipeline(t, `
type Todo @key(name: "byOwner", fields: ["owner"]) {
  id: ID!
  owner: String!
}
`, NewModel(), NewKey())

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Message, "without @model")
}
