package postgres_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/coachpo/teamcowboy/internal/observability"
	"github.com/coachpo/teamcowboy/internal/store/migrations"
	"github.com/coachpo/teamcowboy/internal/store/postgres"
	"github.com/coachpo/teamcowboy/internal/teamsync"
	"github.com/coachpo/teamcowboy/pkg/teamcowboy"
)

var (
	testPool    *pgxpool.Pool
	pgContainer testcontainers.Container
	setupErr    error
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		setupErr = fmt.Errorf("short mode")
		os.Exit(m.Run())
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "secret", "POSTGRES_USER": "postgres", "POSTGRES_DB": "teamcowboy"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		setupErr = fmt.Errorf("start postgres container: %w", err)
		os.Exit(m.Run())
	}
	pgContainer = container

	setupErr = initialiseDatabase(ctx)
	exitCode := m.Run()

	if testPool != nil {
		testPool.Close()
	}
	_ = pgContainer.Terminate(ctx)
	os.Exit(exitCode)
}

func initialiseDatabase(ctx context.Context) error {
	host, err := pgContainer.Host(ctx)
	if err != nil {
		return fmt.Errorf("container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return fmt.Errorf("container port: %w", err)
	}
	dsn := fmt.Sprintf("postgres://postgres:secret@%s:%s/teamcowboy?sslmode=disable", host, port.Port())

	var lastErr error
	for range 10 {
		if lastErr = migrations.Apply(ctx, dsn, "", observability.Noop()); lastErr == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if lastErr != nil {
		return fmt.Errorf("apply migrations: %w", lastErr)
	}
	pool, err := postgres.Open(ctx, dsn, 4)
	if err != nil {
		return err
	}
	testPool = pool
	return nil
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	if setupErr != nil {
		t.Skipf("postgres contract setup unavailable: %v", setupErr)
	}
	ctx := context.Background()
	store := postgres.New(testPool)

	started := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	run := teamsync.Run{ID: uuid.New(), UserID: 42, Status: teamsync.StatusRunning, StartedAt: started}
	require.NoError(t, store.BeginRun(ctx, run))

	team := teamcowboy.Team{TeamID: 7, Name: "Mudcats", City: "Seattle"}
	require.NoError(t, store.SaveTeam(ctx, run.ID, team))
	require.NoError(t, store.SaveSeasons(ctx, 7, []teamcowboy.Season{{SeasonID: 70, TeamID: 7, Name: "Spring"}}))
	require.NoError(t, store.SaveEvents(ctx, 7, []teamcowboy.Event{
		{EventID: 702, SeasonID: 70, Title: "Game 2", DateTimeInfo: &teamcowboy.DateTimeInfo{StartDateTimeUTC: "2024-06-09 18:00:00"}},
		{EventID: 701, Title: "Practice", DateTimeInfo: &teamcowboy.DateTimeInfo{StartDateTimeUTC: "2024-06-02 18:00:00"}},
	}))
	require.NoError(t, store.SaveEvents(ctx, 7, nil))

	team.Name = "Mudcats B"
	require.NoError(t, store.SaveTeam(ctx, run.ID, team))

	teams, err := store.ListTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Equal(t, "Mudcats B", teams[0].Name)
	require.Equal(t, "Seattle", teams[0].City)

	events, err := store.ListEvents(ctx, 7)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, 701, events[0].EventID)

	run.Status = teamsync.StatusSucceeded
	run.Teams, run.Seasons, run.Events = 1, 1, 2
	run.FinishedAt = started.Add(3 * time.Second)
	require.NoError(t, store.FinishRun(ctx, run))

	latest, err := store.LatestRun(ctx)
	require.NoError(t, err)
	require.Equal(t, run.ID, latest.ID)
	require.Equal(t, teamsync.StatusSucceeded, latest.Status)
	require.Equal(t, 2, latest.Events)
	require.True(t, latest.FinishedAt.Equal(run.FinishedAt))

	missing := teamsync.Run{ID: uuid.New(), Status: teamsync.StatusFailed}
	require.Error(t, store.FinishRun(ctx, missing))
}
