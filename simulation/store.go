package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jcbarr81/NexGen-BBPro-Win/stats"
)

// DB is the slice of pgxpool.Pool the store needs. pgxmock satisfies it in
// tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists season runs and their aggregated stat lines.
type Store struct {
	db DB
}

// NewStore wraps a database handle.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// CreateRun registers a new season run and returns its id.
func (s *Store) CreateRun(ctx context.Context, label string, seed int64, tuningLabel string) (string, error) {
	runID := uuid.New().String()

	query := `
		INSERT INTO season_runs (
			id, label, seed, tuning_label, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, 'pending', NOW(), NOW())
	`

	if _, err := s.db.Exec(ctx, query, runID, label, seed, tuningLabel); err != nil {
		return "", fmt.Errorf("failed to create season run: %w", err)
	}
	return runID, nil
}

// UpdateRunStatus moves a run between pending, running, completed, and
// failed.
func (s *Store) UpdateRunStatus(ctx context.Context, runID, status string) error {
	query := `
		UPDATE season_runs
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := s.db.Exec(ctx, query, runID, status); err != nil {
		return fmt.Errorf("failed to update run status for %s: %w", runID, err)
	}
	return nil
}

// SaveResult stores a finished season's league line, per-player lines, and
// KPI deltas. Re-saving the same run replaces the previous result.
func (s *Store) SaveResult(ctx context.Context, result *SeasonResult) error {
	leagueJSON, err := json.Marshal(result.Snapshot.League)
	if err != nil {
		return fmt.Errorf("failed to marshal league line: %w", err)
	}

	battersJSON, err := json.Marshal(result.Snapshot.Batters)
	if err != nil {
		return fmt.Errorf("failed to marshal batter lines: %w", err)
	}

	pitchersJSON, err := json.Marshal(result.Snapshot.Pitchers)
	if err != nil {
		return fmt.Errorf("failed to marshal pitcher lines: %w", err)
	}

	kpiJSON, err := json.Marshal(result.KPIDeltas)
	if err != nil {
		return fmt.Errorf("failed to marshal kpi deltas: %w", err)
	}

	query := `
		INSERT INTO season_results (
			run_id, games, league_line, batter_lines, pitcher_lines,
			kpi_deltas, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (run_id) DO UPDATE SET
			games = EXCLUDED.games,
			league_line = EXCLUDED.league_line,
			batter_lines = EXCLUDED.batter_lines,
			pitcher_lines = EXCLUDED.pitcher_lines,
			kpi_deltas = EXCLUDED.kpi_deltas
	`

	if _, err := s.db.Exec(ctx, query,
		result.RunID,
		result.Games,
		leagueJSON,
		battersJSON,
		pitchersJSON,
		kpiJSON,
	); err != nil {
		return fmt.Errorf("failed to store season result: %w", err)
	}
	return nil
}

// LoadResult reads a stored season result back.
func (s *Store) LoadResult(ctx context.Context, runID string) (*SeasonResult, error) {
	query := `
		SELECT run_id, games, league_line, batter_lines, pitcher_lines, kpi_deltas
		FROM season_results
		WHERE run_id = $1
	`

	var result SeasonResult
	var leagueJSON, battersJSON, pitchersJSON, kpiJSON []byte

	err := s.db.QueryRow(ctx, query, runID).Scan(
		&result.RunID,
		&result.Games,
		&leagueJSON,
		&battersJSON,
		&pitchersJSON,
		&kpiJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load season result: %w", err)
	}

	if err := json.Unmarshal(leagueJSON, &result.Snapshot.League); err != nil {
		return nil, fmt.Errorf("failed to parse league line: %w", err)
	}
	if err := json.Unmarshal(battersJSON, &result.Snapshot.Batters); err != nil {
		log.Printf("Failed to parse batter lines for %s: %v", runID, err)
		result.Snapshot.Batters = make(map[string]stats.StatLine)
	}
	if err := json.Unmarshal(pitchersJSON, &result.Snapshot.Pitchers); err != nil {
		log.Printf("Failed to parse pitcher lines for %s: %v", runID, err)
		result.Snapshot.Pitchers = make(map[string]stats.StatLine)
	}
	if err := json.Unmarshal(kpiJSON, &result.KPIDeltas); err != nil {
		log.Printf("Failed to parse kpi deltas for %s: %v", runID, err)
		result.KPIDeltas = nil
	}

	return &result, nil
}

// MarkCompleted flips the run to completed with a finish timestamp.
func (s *Store) MarkCompleted(ctx context.Context, runID string, finished time.Time) error {
	query := `
		UPDATE season_runs
		SET status = 'completed', completed_at = $2, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := s.db.Exec(ctx, query, runID, finished); err != nil {
		return fmt.Errorf("failed to mark run %s completed: %w", runID, err)
	}
	return nil
}
