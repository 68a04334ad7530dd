package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ScenarioSummary is one row of the scenario index: enough to answer
// list/exists queries without reading the scenario's JSON file off disk.
type ScenarioSummary struct {
	ID        string    `db:"id" json:"id"`
	ProjectID string    `db:"project_id" json:"project_id"`
	ParentID  string    `db:"parent_id" json:"parent_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PostgresIndex is a fast existence/listing index over edit scenarios,
// backed by Postgres (the filesystem remains the artifact's source of
// truth per §4.3; this index only accelerates lookups).
type PostgresIndex struct {
	db *sqlx.DB
}

func NewConnection(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: connect to postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}
	return db, nil
}

func NewPostgresIndex(db *sqlx.DB) *PostgresIndex {
	return &PostgresIndex{db: db}
}

// Upsert records a scenario's existence in the index; planservice calls
// it after every scenario save, and a row that already exists for the
// (project, scenario) pair is left unchanged.
func (p *PostgresIndex) Upsert(ctx context.Context, s ScenarioSummary) error {
	query := `
		INSERT INTO scenario_index (id, project_id, parent_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id, id) DO NOTHING`

	_, err := p.db.ExecContext(ctx, query, s.ID, s.ProjectID, nullableString(s.ParentID), s.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: upsert scenario index: %w", err)
	}
	return nil
}

// List returns every scenario summary for a project, ordered by
// creation time.
func (p *PostgresIndex) List(ctx context.Context, projectID string) ([]ScenarioSummary, error) {
	query := `
		SELECT id, project_id, COALESCE(parent_id, '') AS parent_id, created_at
		FROM scenario_index
		WHERE project_id = $1
		ORDER BY created_at`

	var rows []ScenarioSummary
	if err := p.db.SelectContext(ctx, &rows, query, projectID); err != nil {
		return nil, fmt.Errorf("store: list scenario index: %w", err)
	}
	return rows, nil
}

// Exists reports whether a scenario id is already registered for a project.
func (p *PostgresIndex) Exists(ctx context.Context, projectID, scenarioID string) (bool, error) {
	query := `SELECT 1 FROM scenario_index WHERE project_id = $1 AND id = $2`

	var dummy int
	err := p.db.QueryRowxContext(ctx, query, projectID, scenarioID).Scan(&dummy)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("store: check scenario existence: %w", err)
	}
	return true, nil
}

// Delete removes a scenario from the index.
func (p *PostgresIndex) Delete(ctx context.Context, projectID, scenarioID string) error {
	query := `DELETE FROM scenario_index WHERE project_id = $1 AND id = $2`
	_, err := p.db.ExecContext(ctx, query, projectID, scenarioID)
	if err != nil {
		return fmt.Errorf("store: delete scenario index: %w", err)
	}
	return nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
