package transformers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_HasMany(t *testing.T) {
	res := runPipeline(t, `
type Todo @model {
  id: ID!
  comments: [Comment] @connection
}

type Comment @model {
  id: ID!
  body: String
}
`, NewModel(), NewConnection())

	rv := res.Artifact.Resource("TodoCommentsResolver")
	require.NotNil(t, rv, "relation resolver should exist")
	assert.Equal(t, "CommentTable", rv.Definition["dataSource"])
	assert.Equal(t, "Query", rv.Definition["operation"])
	assert.Contains(t, rv.Definition["requestTemplate"], "todoId", "default foreign key is derived from the owner type")
	assert.Contains(t, rv.Definition["requestTemplate"], "$ctx.source.id")
}

func TestConnection_SingleValuedReadsSourceForeignKey(t *testing.T) {
	res := runPipeline(t, `
type Todo @model {
  id: ID!
  author: User @connection
}

type User @model {
  id: ID!
}
`, NewModel(), NewConnection())

	rv := res.Artifact.Resource("TodoAuthorResolver")
	require.NotNil(t, rv)
	assert.Equal(t, "UserTable", rv.Definition["dataSource"])
	assert.Equal(t, "GetItem", rv.Definition["operation"])
	assert.Contains(t, rv.Definition["requestTemplate"], "$ctx.source.authorId")
}

func TestConnection_CustomForeignKey(t *testing.T) {
	res := runPipeline(t, `
type Todo @model {
  id: ID!
  author: User @connection(fields: ["ownerId"])
}

type User @model {
  id: ID!
}
`, NewModel(), NewConnection())

	rv := res.Artifact.Resource("TodoAuthorResolver")
	require.NotNil(t, rv)
	assert.Contains(t, rv.Definition["requestTemplate"], "$ctx.source.ownerId")
}

func TestConnection_TargetMustBeModel(t *testing.T) {
	err := transformErr(t, `
type Todo @model {
  id: ID!
  author: User @connection
}

type User {
  id: ID!
}
`, NewModel(), NewConnection())
	assert.Contains(t, err.Error(), "not a @model type")
}

func TestConnection_OutsideModelWarns(t *testing.T) {
	res := runPipeline(t, `
type Todo {
  id: ID!
  comments: [Comment] @connection
}

type Comment @model {
  id: ID!
}
`, NewModel(), NewConnection())

	assert.Nil(t, res.Artifact.Resource("TodoCommentsResolver"), "no resolver without @model on the owner")
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Message, "without @model")
}
