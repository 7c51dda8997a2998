package commands

import (
	"context"

	"github.com/coachpo/teamcowboy/internal/cmd/base"
	"github.com/coachpo/teamcowboy/pkg/teamcowboy"
)

type TeamCommand struct {
	*base.Command

	flagTeam int
}

func (c *TeamCommand) Synopsis() string {
	return "Show one team"
}

func (c *TeamCommand) Help() string {
	return `Usage: teamcowboy team -team <id> [options]` + c.Flags().Help()
}

func (c *TeamCommand) Flags() *base.FlagSet {
	f := newFlags("team")
	c.CommonFlags(f, true)
	f.IntVar(&c.flagTeam, "team", 0, "(Required) Team id.")
	return f
}

func (c *TeamCommand) Run(args []string) int {
	return base.Execute(c.Command, c.Flags(), args, true,
		func() error { return requirePositive("team", c.flagTeam) },
		func(ctx context.Context, rt *base.Runtime, token string) (teamcowboy.Response[teamcowboy.Team], error) {
			return rt.Client.GetTeam(ctx, token, c.flagTeam)
		})
}

type RosterCommand struct {
	*base.Command

	flagTeam     int
	flagUser     int
	flagInactive bool
	flagSortBy   string
	flagSort     string
}

func (c *RosterCommand) Synopsis() string {
	return "List the members of a team"
}

func (c *RosterCommand) Help() string {
	return `Usage: teamcowboy roster -team <id> [options]` + c.Flags().Help()
}

func (c *RosterCommand) Flags() *base.FlagSet {
	f := newFlags("roster")
	c.CommonFlags(f, true)
	f.IntVar(&c.flagTeam, "team", 0, "(Required) Team id.")
	f.IntVar(&c.flagUser, "user", 0, "Only this member.")
	f.BoolVar(&c.flagInactive, "inactive", false, "Include inactive members.")
	f.StringVar(&c.flagSortBy, "sort-by", "", "Sort field.")
	f.StringVar(&c.flagSort, "sort-direction", "", "ASC or DESC.")
	return f
}

func (c *RosterCommand) Run(args []string) int {
	return base.Execute(c.Command, c.Flags(), args, true,
		func() error { return requirePositive("team", c.flagTeam) },
		func(ctx context.Context, rt *base.Runtime, token string) (teamcowboy.Response[[]teamcowboy.User], error) {
			req := teamcowboy.RosterRequest{
				UserToken:     token,
				TeamID:        c.flagTeam,
				SortBy:        base.OptionalString(c.flagSortBy),
				SortDirection: base.OptionalString(c.flagSort),
			}
			if c.flagUser > 0 {
				req.UserID = teamcowboy.Int(c.flagUser)
			}
			if c.flagInactive {
				req.IncludeInactive = teamcowboy.Bool(true)
			}
			return rt.Client.GetTeamRoster(ctx, req)
		})
}

type SeasonsCommand struct {
	*base.Command

	flagTeam int
}

func (c *SeasonsCommand) Synopsis() string {
	return "List the seasons of a team"
}

func (c *SeasonsCommand) Help() string {
	return `Usage: teamcowboy seasons -team <id> [options]` + c.Flags().Help()
}

func (c *SeasonsCommand) Flags() *base.FlagSet {
	f := newFlags("seasons")
	c.CommonFlags(f, true)
	f.IntVar(&c.flagTeam, "team", 0, "(Required) Team id.")
	return f
}

func (c *SeasonsCommand) Run(args []string) int {
	return base.Execute(c.Command, c.Flags(), args, true,
		func() error { return requirePositive("team", c.flagTeam) },
		func(ctx context.Context, rt *base.Runtime, token string) (teamcowboy.Response[[]teamcowboy.Season], error) {
			return rt.Client.GetTeamSeasons(ctx, token, c.flagTeam)
		})
}
