// Package teamsync mirrors a user's teams, seasons and events into a Store.
package teamsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/coachpo/teamcowboy/errs"
	"github.com/coachpo/teamcowboy/internal/observability"
	"github.com/coachpo/teamcowboy/internal/telemetry"
	"github.com/coachpo/teamcowboy/pkg/teamcowboy"
)

// Status is the outcome of a sync run.
type Status string

// Run statuses.
const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
)

// Run describes one sync pass.
type Run struct {
	ID         uuid.UUID
	UserID     int
	Status     Status
	Teams      int
	Seasons    int
	Events     int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// API is the subset of the Team Cowboy client used by the syncer.
type API interface {
	GetUser(ctx context.Context, userToken string) (teamcowboy.Response[teamcowboy.User], error)
	GetUserTeams(ctx context.Context, userToken string) (teamcowboy.Response[[]teamcowboy.Team], error)
	GetTeamSeasons(ctx context.Context, userToken string, teamID int) (teamcowboy.Response[[]teamcowboy.Season], error)
	GetTeamEvents(ctx context.Context, req teamcowboy.TeamEventsRequest) (teamcowboy.Response[[]teamcowboy.Event], error)
}

// Store persists snapshots. Implementations must be safe for concurrent use.
type Store interface {
	BeginRun(ctx context.Context, run Run) error
	SaveTeam(ctx context.Context, runID uuid.UUID, team teamcowboy.Team) error
	SaveSeasons(ctx context.Context, teamID int, seasons []teamcowboy.Season) error
	SaveEvents(ctx context.Context, teamID int, events []teamcowboy.Event) error
	FinishRun(ctx context.Context, run Run) error
}

const defaultConcurrency = 4

// Syncer fans out per-team fetches with bounded concurrency.
type Syncer struct {
	api         API
	store       Store
	logger      observability.Logger
	concurrency int
	clock       func() time.Time
	window      time.Duration
	duration    metric.Float64Histogram
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithConcurrency bounds the number of teams fetched at once.
func WithConcurrency(n int) Option {
	return func(s *Syncer) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(s *Syncer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Syncer) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithEventWindow limits events to those starting within d of now. Zero fetches the server default.
func WithEventWindow(d time.Duration) Option {
	return func(s *Syncer) { s.window = d }
}

// WithMeter records run durations.
func WithMeter(meter metric.Meter) Option {
	return func(s *Syncer) {
		if meter == nil {
			return
		}
		hist, err := meter.Float64Histogram(telemetry.SyncDurationMetric,
			metric.WithDescription("Team Cowboy sync run duration"),
			metric.WithUnit("ms"))
		if err == nil {
			s.duration = hist
		}
	}
}

// New constructs a Syncer.
func New(api API, store Store, opts ...Option) (*Syncer, error) {
	if api == nil || store == nil {
		return nil, errs.New("teamsync", errs.CodeConfig, errs.WithMessage("api and store required"))
	}
	s := &Syncer{
		api:         api,
		store:       store,
		logger:      observability.Log(),
		concurrency: defaultConcurrency,
		clock:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Run mirrors every team of the token's user. Per-team failures do not stop
// other teams; they are aggregated into the returned error and the run is
// marked partial or failed.
func (s *Syncer) Run(ctx context.Context, userToken string) (Run, error) {
	run := Run{ID: uuid.New(), Status: StatusRunning, StartedAt: s.clock().UTC()}
	log := []observability.Field{observability.F("run_id", run.ID.String())}

	user, err := value(s.api.GetUser(ctx, userToken))
	if err != nil {
		return run, fmt.Errorf("resolve user: %w", err)
	}
	if user.UserID != nil {
		run.UserID = *user.UserID
	}
	if err := s.store.BeginRun(ctx, run); err != nil {
		return run, fmt.Errorf("begin run: %w", err)
	}
	s.logger.Info("sync started", append(log, observability.F("user_id", run.UserID))...)

	teams, err := value(s.api.GetUserTeams(ctx, userToken))
	if err != nil {
		return s.finish(ctx, run, nil, fmt.Errorf("list teams: %w", err))
	}

	var (
		mu       sync.Mutex
		failures []error
		synced   atomic.Int64
		seasons  atomic.Int64
		events   atomic.Int64
	)
	p := pool.New().WithMaxGoroutines(s.concurrency)
	for _, team := range teams {
		p.Go(func() {
			ns, ne, err := s.syncTeam(ctx, run.ID, userToken, team)
			if err != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("team %d: %w", team.TeamID, err))
				mu.Unlock()
				return
			}
			synced.Add(1)
			seasons.Add(int64(ns))
			events.Add(int64(ne))
		})
	}
	p.Wait()

	run.Teams = int(synced.Load())
	run.Seasons = int(seasons.Load())
	run.Events = int(events.Load())
	aggErr := observability.AggregateErrors(s.logger, "sync", failures, log...)
	return s.finish(ctx, run, teams, aggErr)
}

func (s *Syncer) syncTeam(ctx context.Context, runID uuid.UUID, token string, team teamcowboy.Team) (int, int, error) {
	if err := s.store.SaveTeam(ctx, runID, team); err != nil {
		return 0, 0, fmt.Errorf("save team: %w", err)
	}

	seasons, err := value(s.api.GetTeamSeasons(ctx, token, team.TeamID))
	if err != nil {
		return 0, 0, fmt.Errorf("list seasons: %w", err)
	}
	if err := s.store.SaveSeasons(ctx, team.TeamID, seasons); err != nil {
		return 0, 0, fmt.Errorf("save seasons: %w", err)
	}

	req := teamcowboy.TeamEventsRequest{UserToken: token, TeamID: team.TeamID}
	if s.window > 0 {
		now := s.clock()
		req.StartDateTime = teamcowboy.Date(now)
		req.EndDateTime = teamcowboy.Date(now.Add(s.window))
	}
	events, err := value(s.api.GetTeamEvents(ctx, req))
	if err != nil {
		return len(seasons), 0, fmt.Errorf("list events: %w", err)
	}
	if err := s.store.SaveEvents(ctx, team.TeamID, events); err != nil {
		return len(seasons), 0, fmt.Errorf("save events: %w", err)
	}
	return len(seasons), len(events), nil
}

func (s *Syncer) finish(ctx context.Context, run Run, teams []teamcowboy.Team, runErr error) (Run, error) {
	run.FinishedAt = s.clock().UTC()
	switch {
	case runErr == nil:
		run.Status = StatusSucceeded
	case run.Teams > 0 && run.Teams < len(teams):
		run.Status = StatusPartial
	default:
		run.Status = StatusFailed
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	if s.duration != nil {
		s.duration.Record(ctx, float64(run.FinishedAt.Sub(run.StartedAt).Milliseconds()),
			metric.WithAttributes(attribute.String("status", string(run.Status))))
	}
	if err := s.store.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("finish run: %w", err))
	}
	s.logger.Info("sync finished",
		observability.F("run_id", run.ID.String()),
		observability.F("status", string(run.Status)),
		observability.F("teams", run.Teams),
		observability.F("events", run.Events),
	)
	return run, runErr
}

// value unwraps a response into error flow.
func value[T any](resp teamcowboy.Response[T], err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	return resp.Value()
}
