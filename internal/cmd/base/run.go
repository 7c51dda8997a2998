package base

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coachpo/teamcowboy/pkg/teamcowboy"
)

// CallFunc performs one API call against a prepared runtime.
type CallFunc[T any] func(ctx context.Context, rt *Runtime, token string) (teamcowboy.Response[T], error)

// Execute parses args, prepares the runtime, runs fn with retries and
// reports its result. token is empty when the command does not take one.
func Execute[T any](c *Command, f *FlagSet, args []string, needToken bool, validate func() error, fn CallFunc[T]) int {
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if validate != nil {
		if err := validate(); err != nil {
			c.UI.Error(err.Error())
			return 1
		}
	}
	var token string
	if needToken {
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

	resp, err := Retry(ctx, rt.Config.API.Retries, func() (teamcowboy.Response[T], error) {
		return fn(ctx, rt, token)
	})
	return Report(c, resp, err)
}
