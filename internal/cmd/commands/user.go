package commands

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/coachpo/teamcowboy/internal/cmd/base"
	"github.com/coachpo/teamcowboy/pkg/teamcowboy"
)

// EnvPassword supplies -password when the flag is omitted.
const EnvPassword = "TEAMCOWBOY_PASSWORD"

type TokenCommand struct {
	*base.Command

	flagUsername string
	flagPassword string
}

func (c *TokenCommand) Synopsis() string {
	return "Exchange a username and password for a user token"
}

func (c *TokenCommand) Help() string {
	return `Usage: teamcowboy token -username <user> [options]

  Calls Auth_GetUserToken over HTTPS and prints the user id and token.
  The password is read from -password or $` + EnvPassword + `.` + c.Flags().Help()
}

func (c *TokenCommand) Flags() *base.FlagSet {
	f := newFlags("token")
	c.CommonFlags(f, false)
	f.StringVar(&c.flagUsername, "username", "", "(Required) Team Cowboy username.")
	f.StringVar(&c.flagPassword, "password", "", "Team Cowboy password.")
	return f
}

func (c *TokenCommand) Run(args []string) int {
	validate := func() error {
		if strings.TrimSpace(c.flagUsername) == "" {
			return errors.New("-username is required")
		}
		if c.flagPassword == "" {
			c.flagPassword = os.Getenv(EnvPassword)
		}
		if c.flagPassword == "" {
			return errors.New("-password or $" + EnvPassword + " is required")
		}
		return nil
	}
	return base.Execute(c.Command, c.Flags(), args, false, validate,
		func(ctx context.Context, rt *base.Runtime, _ string) (teamcowboy.Response[teamcowboy.UserToken], error) {
			return rt.Client.GetUserToken(ctx, c.flagUsername, c.flagPassword)
		})
}

type TeamsCommand struct {
	*base.Command
}

func (c *TeamsCommand) Synopsis() string {
	return "List the user's teams"
}

func (c *TeamsCommand) Help() string {
	return `Usage: teamcowboy teams [options]

  Lists every team the token's user belongs to.` + c.Flags().Help()
}

func (c *TeamsCommand) Flags() *base.FlagSet {
	f := newFlags("teams")
	c.CommonFlags(f, true)
	return f
}

func (c *TeamsCommand) Run(args []string) int {
	return base.Execute(c.Command, c.Flags(), args, true, nil,
		func(ctx context.Context, rt *base.Runtime, token string) (teamcowboy.Response[[]teamcowboy.Team], error) {
			return rt.Client.GetUserTeams(ctx, token)
		})
}

type MessagesCommand struct {
	*base.Command

	flagTeam   int
	flagOffset int
	flagQty    int
	flagSortBy string
	flagSort   string
}

func (c *MessagesCommand) Synopsis() string {
	return "List message board posts"
}

func (c *MessagesCommand) Help() string {
	return `Usage: teamcowboy messages [options]

  Lists messages of one team with -team, or across all of the user's teams.` + c.Flags().Help()
}

func (c *MessagesCommand) Flags() *base.FlagSet {
	f := newFlags("messages")
	c.CommonFlags(f, true)
	f.IntVar(&c.flagTeam, "team", 0, "Team id.")
	f.IntVar(&c.flagOffset, "offset", -1, "Number of messages to skip.")
	f.IntVar(&c.flagQty, "qty", -1, "Maximum number of messages.")
	f.StringVar(&c.flagSortBy, "sort-by", "", "Sort field.")
	f.StringVar(&c.flagSort, "sort-direction", "", "ASC or DESC.")
	return f
}

func (c *MessagesCommand) Run(args []string) int {
	return base.Execute(c.Command, c.Flags(), args, true, nil,
		func(ctx context.Context, rt *base.Runtime, token string) (teamcowboy.Response[[]teamcowboy.Message], error) {
			req := teamcowboy.MessagesRequest{
				UserToken:     token,
				Offset:        base.OptionalInt(c.flagOffset),
				Qty:           base.OptionalInt(c.flagQty),
				SortBy:        base.OptionalString(c.flagSortBy),
				SortDirection: base.OptionalString(c.flagSort),
			}
			if c.flagTeam > 0 {
				req.TeamID = teamcowboy.Int(c.flagTeam)
				return rt.Client.GetTeamMessages(ctx, req)
			}
			return rt.Client.GetUserTeamMessages(ctx, req)
		})
}

type PingCommand struct {
	*base.Command

	flagParam string
	flagPost  bool
}

func (c *PingCommand) Synopsis() string {
	return "Send a signed test request"
}

func (c *PingCommand) Help() string {
	return `Usage: teamcowboy ping [options]

  Calls Test_GetRequest (or Test_PostRequest with -post) to verify that the
  configured keys produce signatures the service accepts.` + c.Flags().Help()
}

func (c *PingCommand) Flags() *base.FlagSet {
	f := newFlags("ping")
	c.CommonFlags(f, false)
	f.StringVar(&c.flagParam, "param", "", "Value echoed back as testParam.")
	f.BoolVar(&c.flagPost, "post", false, "Use POST instead of GET.")
	return f
}

func (c *PingCommand) Run(args []string) int {
	return base.Execute(c.Command, c.Flags(), args, false, nil,
		func(ctx context.Context, rt *base.Runtime, _ string) (teamcowboy.Response[string], error) {
			param := base.OptionalString(c.flagParam)
			if c.flagPost {
				return rt.Client.TestPostRequest(ctx, param)
			}
			return rt.Client.TestGetRequest(ctx, param)
		})
}

type VersionCommand struct {
	*base.Command

	Version string
}

func (c *VersionCommand) Synopsis() string {
	return "Print the version"
}

func (c *VersionCommand) Help() string {
	return "Usage: teamcowboy version"
}

func (c *VersionCommand) Run([]string) int {
	c.UI.Output(c.Version)
	return 0
}
