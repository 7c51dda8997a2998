package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coachpo/teamcowboy/internal/cmd/base"
	"github.com/coachpo/teamcowboy/internal/store/migrations"
	"github.com/coachpo/teamcowboy/internal/store/postgres"
	"github.com/coachpo/teamcowboy/internal/teamsync"
)

type SyncCommand struct {
	*base.Command

	flagMigrate       bool
	flagMigrationsDir string
	flagLatest        bool
}

func (c *SyncCommand) Synopsis() string {
	return "Mirror teams, seasons and events into PostgreSQL"
}

func (c *SyncCommand) Help() string {
	return `Usage: teamcowboy sync [options]

  Fetches every team of the token's user together with its seasons and
  events and stores them in the database named by database.dsn or
  $TEAMCOWBOY_DATABASE_URL. -latest prints the last recorded run instead.` + c.Flags().Help()
}

func (c *SyncCommand) Flags() *base.FlagSet {
	f := newFlags("sync")
	c.CommonFlags(f, true)
	f.BoolVar(&c.flagMigrate, "migrate", false, "Apply schema migrations first.")
	f.StringVar(&c.flagMigrationsDir, "migrations-dir", "", "Migrations directory. Defaults to the embedded set.")
	f.BoolVar(&c.flagLatest, "latest", false, "Print the most recent run and exit.")
	return f
}

func (c *SyncCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	var token string
	if !c.flagLatest {
		var err error
		if token, err = c.Token(); err != nil {
			c.UI.Error(err.Error())
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := c.Setup(ctx)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer func() {
		if err := rt.Close(context.Background()); err != nil {
			c.Log.Error("telemetry shutdown", "error", err)
		}
	}()

	db := rt.Config.Database
	if db.DSN == "" {
		c.UI.Error("sync requires database.dsn or $TEAMCOWBOY_DATABASE_URL")
		return 1
	}
	if c.flagMigrate || db.RunMigrations {
		if err := migrations.Apply(ctx, db.DSN, c.flagMigrationsDir, rt.Logger); err != nil {
			c.UI.Error(err.Error())
			return 1
		}
	}

	pool, err := postgres.Open(ctx, db.DSN, db.MaxConns)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer pool.Close()

	meter := rt.Telemetry.Meter("teamcowboy")
	if err := postgres.ObservePoolMetrics(pool, meter); err != nil {
		c.Log.Warn("pool metrics unavailable", "error", err)
	}
	store := postgres.New(pool)

	if c.flagLatest {
		run, err := store.LatestRun(ctx)
		if errors.Is(err, postgres.ErrNoRuns) {
			c.UI.Output("no sync runs recorded")
			return 0
		}
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		return c.Output(run)
	}

	syncer, err := teamsync.New(rt.Client, store,
		teamsync.WithConcurrency(rt.Config.Sync.Concurrency),
		teamsync.WithEventWindow(rt.Config.Sync.EventWindow.Std()),
		teamsync.WithLogger(rt.Logger),
		teamsync.WithMeter(meter),
	)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	run, err := syncer.Run(ctx, token)
	if code := c.Output(run); code != 0 {
		return code
	}
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
