package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"), "open store")
	require.NoError(t, store.Migrate(), "migrate store")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testArtifact(project string) *artifact.Artifact {
	return &artifact.Artifact{
		Project:     project,
		Environment: "dev",
		SchemaHash:  "abc123",
		Root: &artifact.Stack{
			Name: project,
			Resources: []*artifact.Resource{
				{
					Name:       "GraphQLAPI",
					Category:   artifact.CategoryAPI,
					Definition: map[string]any{"name": project + "-dev"},
				},
			},
		},
	}
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Close())
}

func TestSQLiteStore_OpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".leapgraph", "state.db")

	store := NewSQLiteStore()
	require.NoError(t, store.Open(path))
	defer store.Close()

	require.NoError(t, store.Migrate())
	assert.FileExists(t, path)
}

func TestSQLiteStore_NotOpenGuard(t *testing.T) {
	store := NewSQLiteStore()

	err := store.SaveProjectState(&ProjectState{Project: "app"})
	assert.ErrorContains(t, err, "database not open")

	_, err = store.GetProjectState("app")
	assert.ErrorContains(t, err, "database not open")

	_, err = store.ListDeployments("app", 5)
	assert.ErrorContains(t, err, "database not open")

	_, _, err = store.GetParameter("app", "k")
	assert.ErrorContains(t, err, "database not open")
}

func TestSQLiteStore_ProjectStateRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	st := &ProjectState{
		Project:     "app",
		Environment: "dev",
		SchemaHash:  "abc123",
		Artifact:    testArtifact("app"),
	}
	require.NoError(t, store.SaveProjectState(st))

	got, err := store.GetProjectState("app")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "app", got.Project)
	assert.Equal(t, "dev", got.Environment)
	assert.Equal(t, "abc123", got.SchemaHash)
	assert.Nil(t, got.Backup, "no backup saved")
	assert.False(t, got.UpdatedAt.IsZero(), "timestamp filled in")

	require.NotNil(t, got.Artifact)
	res := got.Artifact.Resource("GraphQLAPI")
	require.NotNil(t, res, "artifact resources survive the round trip")
	assert.True(t, res.Equal(st.Artifact.Resource("GraphQLAPI")), "definitions compare equal after the round trip")
}

func TestSQLiteStore_ProjectStateBackup(t *testing.T) {
	store := setupTestStore(t)

	st := &ProjectState{
		Project:     "app",
		Environment: "dev",
		SchemaHash:  "def456",
		Artifact:    testArtifact("app"),
		Backup:      testArtifact("app"),
	}
	require.NoError(t, store.SaveProjectState(st))

	got, err := store.GetProjectState("app")
	require.NoError(t, err)
	require.NotNil(t, got.Backup, "backup artifact survives")
	assert.Equal(t, "app", got.Backup.Project)
}

func TestSQLiteStore_ProjectStateUpsert(t *testing.T) {
	store := setupTestStore(t)

	first := &ProjectState{Project: "app", Environment: "dev", SchemaHash: "v1", Artifact: testArtifact("app")}
	require.NoError(t, store.SaveProjectState(first))

	second := &ProjectState{Project: "app", Environment: "prod", SchemaHash: "v2", Artifact: testArtifact("app")}
	require.NoError(t, store.SaveProjectState(second))

	got, err := store.GetProjectState("app")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.SchemaHash)
	assert.Equal(t, "prod", got.Environment)
}

func TestSQLiteStore_GetProjectStateMissing(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.GetProjectState("nope")
	require.NoError(t, err, "a missing project is not an error")
	assert.Nil(t, got)
}

func TestSQLiteStore_DeleteProjectState(t *testing.T) {
	store := setupTestStore(t)

	st := &ProjectState{Project: "app", Environment: "dev", SchemaHash: "v1", Artifact: testArtifact("app")}
	require.NoError(t, store.SaveProjectState(st))
	require.NoError(t, store.DeleteProjectState("app"))

	got, err := store.GetProjectState("app")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_SaveProjectStateValidation(t *testing.T) {
	store := setupTestStore(t)

	err := store.SaveProjectState(&ProjectState{})
	assert.ErrorContains(t, err, "must name a project")
}

func TestSQLiteStore_DeploymentHistory(t *testing.T) {
	store := setupTestStore(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		d := &Deployment{
			Project:     "app",
			Environment: "dev",
			SchemaHash:  "hash",
			Summary:     "2 to create",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.RecordDeployment(d))
		assert.NotEmpty(t, d.ID, "missing ID is generated")
	}

	all, err := store.ListDeployments("app", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt), "newest first")
	assert.True(t, all[1].CreatedAt.After(all[2].CreatedAt))

	limited, err := store.ListDeployments("app", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, all[0].ID, limited[0].ID)

	other, err := store.ListDeployments("other", 0)
	require.NoError(t, err)
	assert.Empty(t, other, "projects do not share history")
}

func TestSQLiteStore_PruneDeployments(t *testing.T) {
	store := setupTestStore(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordDeployment(&Deployment{
			Project:   "app",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, store.RecordDeployment(&Deployment{
		Project:   "other",
		CreatedAt: base,
	}))

	require.NoError(t, store.PruneDeployments("app", 2))

	kept, err := store.ListDeployments("app", 0)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.True(t, kept[0].CreatedAt.Equal(base.Add(4*time.Minute)), "newest rows survive")
	assert.True(t, kept[1].CreatedAt.Equal(base.Add(3*time.Minute)))

	other, err := store.ListDeployments("other", 0)
	require.NoError(t, err)
	assert.Len(t, other, 1, "pruning is per project")
}

func TestSQLiteStore_Parameters(t *testing.T) {
	store := setupTestStore(t)

	_, ok, err := store.GetParameter("app", "region")
	require.NoError(t, err)
	assert.False(t, ok, "missing parameter reports absence, not an error")

	require.NoError(t, store.SetParameter("app", "region", "eu-west-1"))
	require.NoError(t, store.SetParameter("app", "stage", "dev"))

	value, ok, err := store.GetParameter("app", "region")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "eu-west-1", value)

	require.NoError(t, store.SetParameter("app", "region", "us-east-1"))
	value, _, err = store.GetParameter("app", "region")
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", value, "set overwrites")

	params, err := store.ListParameters("app")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"region": "us-east-1", "stage": "dev"}, params)

	require.NoError(t, store.DeleteParameter("app", "region"))
	_, ok, err = store.GetParameter("app", "region")
	require.NoError(t, err)
	assert.False(t, ok)

	err = store.SetParameter("", "k", "v")
	assert.ErrorContains(t, err, "must name a project")
}
