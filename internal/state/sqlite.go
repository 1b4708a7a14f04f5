package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// SQLiteStore implements Store using a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens the SQLite database, creating the parent directory when
// needed. Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create state directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// each pooled connection would otherwise get its own empty
		// in-memory database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// --- Project state operations ---

// SaveProjectState upserts the deployment state for a project.
func (s *SQLiteStore) SaveProjectState(st *ProjectState) error {
	if s.db == nil {
		return fmt.Errorf("database not open")
	}
	if st == nil || st.Project == "" {
		return fmt.Errorf("project state must name a project")
	}

	artifactJSON, err := json.Marshal(st.Artifact)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	var backup sql.NullString
	if st.Backup != nil {
		backupJSON, err := json.Marshal(st.Backup)
		if err != nil {
			return fmt.Errorf("encode backup artifact: %w", err)
		}
		backup = sql.NullString{String: string(backupJSON), Valid: true}
	}

	updatedAt := st.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	ctx := context.Background()
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO project_states
		(project, environment, schema_hash, artifact, backup, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, st.Project, st.Environment, st.SchemaHash, string(artifactJSON), backup, updatedAt)
	if err != nil {
		return fmt.Errorf("save project state: %w", err)
	}
	return nil
}

// GetProjectState returns the state for a project, or nil when the
// project has never been deployed.
func (s *SQLiteStore) GetProjectState(project string) (*ProjectState, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not open")
	}

	st := &ProjectState{}
	var artifactJSON string
	var backup sql.NullString

	ctx := context.Background()
	err := s.db.QueryRowContext(ctx, `
		SELECT project, environment, schema_hash, artifact, backup, updated_at
		FROM project_states WHERE project = ?
	`, project).Scan(&st.Project, &st.Environment, &st.SchemaHash, &artifactJSON, &backup, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project state: %w", err)
	}

	if err := json.Unmarshal([]byte(artifactJSON), &st.Artifact); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if backup.Valid {
		if err := json.Unmarshal([]byte(backup.String), &st.Backup); err != nil {
			return nil, fmt.Errorf("decode backup artifact: %w", err)
		}
	}
	return st, nil
}

// DeleteProjectState removes a project's state.
func (s *SQLiteStore) DeleteProjectState(project string) error {
	if s.db == nil {
		return fmt.Errorf("database not open")
	}
	ctx := context.Background()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM project_states WHERE project = ?`, project); err != nil {
		return fmt.Errorf("delete project state: %w", err)
	}
	return nil
}

// --- Deployment history operations ---

// RecordDeployment appends a deployment history row. A missing ID or
// timestamp is filled in.
func (s *SQLiteStore) RecordDeployment(d *Deployment) error {
	if s.db == nil {
		return fmt.Errorf("database not open")
	}
	if d == nil || d.Project == "" {
		return fmt.Errorf("deployment must name a project")
	}
	if d.ID == "" {
		d.ID = generateID()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	ctx := context.Background()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO deployments (id, project, environment, schema_hash, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, d.ID, d.Project, d.Environment, d.SchemaHash, d.Summary, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("record deployment: %w", err)
	}
	return nil
}

// ListDeployments returns history rows, newest first. A limit of zero
// or less returns everything.
func (s *SQLiteStore) ListDeployments(project string, limit int) ([]*Deployment, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not open")
	}
	if limit <= 0 {
		limit = -1
	}

	ctx := context.Background()
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project, environment, schema_hash, summary, created_at
		FROM deployments
		WHERE project = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`, project, limit)
	if err != nil {
		return nil, fmt.Errorf("query deployments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Deployment
	for rows.Next() {
		d := &Deployment{}
		if err := rows.Scan(&d.ID, &d.Project, &d.Environment, &d.SchemaHash, &d.Summary, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan deployment: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

// PruneDeployments removes all but the most recent keep rows for a
// project. This keeps the database size manageable while retaining
// recent history.
func (s *SQLiteStore) PruneDeployments(project string, keep int) error {
	if s.db == nil {
		return fmt.Errorf("database not open")
	}
	if keep < 0 {
		keep = 0
	}

	ctx := context.Background()
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM deployments
		WHERE project = ? AND id NOT IN (
			SELECT id FROM deployments
			WHERE project = ?
			ORDER BY created_at DESC, id
			LIMIT ?
		)
	`, project, project, keep)
	if err != nil {
		return fmt.Errorf("prune deployments: %w", err)
	}
	return nil
}

// --- Parameter operations ---

// SetParameter stores a project parameter.
func (s *SQLiteStore) SetParameter(project, key, value string) error {
	if s.db == nil {
		return fmt.Errorf("database not open")
	}
	if project == "" || key == "" {
		return fmt.Errorf("parameter must name a project and key")
	}

	ctx := context.Background()
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO parameters (project, key, value, updated_at)
		VALUES (?, ?, ?, ?)
	`, project, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set parameter: %w", err)
	}
	return nil
}

// GetParameter returns a parameter value and whether it exists.
func (s *SQLiteStore) GetParameter(project, key string) (string, bool, error) {
	if s.db == nil {
		return "", false, fmt.Errorf("database not open")
	}

	var value string
	ctx := context.Background()
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM parameters WHERE project = ? AND key = ?
	`, project, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get parameter: %w", err)
	}
	return value, true, nil
}

// ListParameters returns all parameters for a project.
func (s *SQLiteStore) ListParameters(project string) (map[string]string, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not open")
	}

	ctx := context.Background()
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value FROM parameters WHERE project = ? ORDER BY key
	`, project)
	if err != nil {
		return nil, fmt.Errorf("query parameters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan parameter: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

// DeleteParameter removes a parameter.
func (s *SQLiteStore) DeleteParameter(project, key string) error {
	if s.db == nil {
		return fmt.Errorf("database not open")
	}
	ctx := context.Background()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM parameters WHERE project = ? AND key = ?`, project, key); err != nil {
		return fmt.Errorf("delete parameter: %w", err)
	}
	return nil
}
