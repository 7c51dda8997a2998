// Package postgres persists sync snapshots in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coachpo/teamcowboy/internal/teamsync"
	"github.com/coachpo/teamcowboy/pkg/teamcowboy"
)

// ErrNoRuns is returned by LatestRun before the first sync.
var ErrNoRuns = errors.New("no sync runs recorded")

// Store implements teamsync.Store on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ teamsync.Store = (*Store)(nil)

// New constructs a Store backed by pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Open connects a pool to dsn and verifies it with a ping.
func Open(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

const (
	runInsertSQL = `
INSERT INTO sync_runs (id, user_id, status, started_at)
VALUES ($1::uuid, $2, $3, $4);
`
	runFinishSQL = `
UPDATE sync_runs SET
    status = $2,
    team_count = $3,
    season_count = $4,
    event_count = $5,
    error = $6,
    finished_at = $7
WHERE id = $1::uuid;
`
	runLatestSQL = `
SELECT id::text, user_id, status, team_count, season_count, event_count, error, started_at, finished_at
FROM sync_runs
ORDER BY started_at DESC
LIMIT 1;
`
	teamUpsertSQL = `
INSERT INTO teams (team_id, name, last_run_id, payload, updated_at)
VALUES ($1, $2, $3::uuid, $4::jsonb, NOW())
ON CONFLICT (team_id) DO UPDATE SET
    name = EXCLUDED.name,
    last_run_id = EXCLUDED.last_run_id,
    payload = EXCLUDED.payload,
    updated_at = NOW();
`
	teamListSQL  = `SELECT payload FROM teams ORDER BY name, team_id;`
	seasonUpsert = `
INSERT INTO seasons (season_id, team_id, name, payload, updated_at)
VALUES ($1, $2, $3, $4::jsonb, NOW())
ON CONFLICT (season_id) DO UPDATE SET
    team_id = EXCLUDED.team_id,
    name = EXCLUDED.name,
    payload = EXCLUDED.payload,
    updated_at = NOW();
`
	eventUpsert = `
INSERT INTO events (event_id, team_id, season_id, title, start_utc, payload, updated_at)
VALUES ($1, $2, NULLIF($3::bigint, 0), $4, $5, $6::jsonb, NOW())
ON CONFLICT (event_id) DO UPDATE SET
    team_id = EXCLUDED.team_id,
    season_id = EXCLUDED.season_id,
    title = EXCLUDED.title,
    start_utc = EXCLUDED.start_utc,
    payload = EXCLUDED.payload,
    updated_at = NOW();
`
	eventListSQL = `SELECT payload FROM events WHERE team_id = $1 ORDER BY start_utc, event_id;`
)

// BeginRun records a run in the running state.
func (s *Store) BeginRun(ctx context.Context, run teamsync.Run) error {
	if s.pool == nil {
		return fmt.Errorf("snapshot store: nil pool")
	}
	if _, err := s.pool.Exec(ctx, runInsertSQL, run.ID.String(), run.UserID, string(run.Status), run.StartedAt); err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

// FinishRun stores the final counters and status of a run.
func (s *Store) FinishRun(ctx context.Context, run teamsync.Run) error {
	if s.pool == nil {
		return fmt.Errorf("snapshot store: nil pool")
	}
	tag, err := s.pool.Exec(ctx, runFinishSQL,
		run.ID.String(), string(run.Status), run.Teams, run.Seasons, run.Events, run.Error, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("finish sync run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finish sync run: run %s not found", run.ID)
	}
	return nil
}

// LatestRun returns the most recently started run.
func (s *Store) LatestRun(ctx context.Context) (teamsync.Run, error) {
	var (
		run      teamsync.Run
		id       string
		status   string
		finished *time.Time
	)
	err := s.pool.QueryRow(ctx, runLatestSQL).Scan(
		&id, &run.UserID, &status, &run.Teams, &run.Seasons, &run.Events, &run.Error, &run.StartedAt, &finished)
	if errors.Is(err, pgx.ErrNoRows) {
		return teamsync.Run{}, ErrNoRuns
	}
	if err != nil {
		return teamsync.Run{}, fmt.Errorf("query latest run: %w", err)
	}
	run.ID, err = uuid.Parse(id)
	if err != nil {
		return teamsync.Run{}, fmt.Errorf("parse run id: %w", err)
	}
	run.Status = teamsync.Status(status)
	if finished != nil {
		run.FinishedAt = *finished
	}
	return run, nil
}

// SaveTeam upserts a team snapshot.
func (s *Store) SaveTeam(ctx context.Context, runID uuid.UUID, team teamcowboy.Team) error {
	if s.pool == nil {
		return fmt.Errorf("snapshot store: nil pool")
	}
	payload, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("encode team %d: %w", team.TeamID, err)
	}
	if _, err := s.pool.Exec(ctx, teamUpsertSQL, team.TeamID, team.Name, runID.String(), payload); err != nil {
		return fmt.Errorf("upsert team %d: %w", team.TeamID, err)
	}
	return nil
}

// SaveSeasons upserts the seasons of a team in one batch.
func (s *Store) SaveSeasons(ctx context.Context, teamID int, seasons []teamcowboy.Season) error {
	batch := &pgx.Batch{}
	for _, season := range seasons {
		payload, err := json.Marshal(season)
		if err != nil {
			return fmt.Errorf("encode season %d: %w", season.SeasonID, err)
		}
		batch.Queue(seasonUpsert, season.SeasonID, teamID, season.Name, payload)
	}
	return s.sendBatch(ctx, batch, "seasons")
}

// SaveEvents upserts the events of a team in one batch.
func (s *Store) SaveEvents(ctx context.Context, teamID int, events []teamcowboy.Event) error {
	batch := &pgx.Batch{}
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode event %d: %w", event.EventID, err)
		}
		start := ""
		if event.DateTimeInfo != nil {
			start = event.DateTimeInfo.StartDateTimeUTC
		}
		batch.Queue(eventUpsert, event.EventID, teamID, event.SeasonID, event.Title, start, payload)
	}
	return s.sendBatch(ctx, batch, "events")
}

func (s *Store) sendBatch(ctx context.Context, batch *pgx.Batch, what string) error {
	if batch.Len() == 0 {
		return nil
	}
	if s.pool == nil {
		return fmt.Errorf("snapshot store: nil pool")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s tx: %w", what, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert %s: %w", what, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s: %w", what, err)
	}
	return nil
}

// ListTeams returns every stored team snapshot.
func (s *Store) ListTeams(ctx context.Context) ([]teamcowboy.Team, error) {
	return queryPayloads[teamcowboy.Team](ctx, s.pool, teamListSQL)
}

// ListEvents returns the stored events of a team ordered by start time.
func (s *Store) ListEvents(ctx context.Context, teamID int) ([]teamcowboy.Event, error) {
	return queryPayloads[teamcowboy.Event](ctx, s.pool, eventListSQL, teamID)
}

func queryPayloads[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args ...any) ([]T, error) {
	if pool == nil {
		return nil, fmt.Errorf("snapshot store: nil pool")
	}
	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}
