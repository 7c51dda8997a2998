package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/coachpo/teamcowboy/internal/cmd/base"
	"github.com/coachpo/teamcowboy/pkg/teamcowboy"
)

type EventsCommand struct {
	*base.Command

	flagTeam   int
	flagSeason int
	flagFrom   string
	flagTo     string
	flagFilter string
	flagOffset int
	flagQty    int
}

func (c *EventsCommand) Synopsis() string {
	return "List team events"
}

func (c *EventsCommand) Help() string {
	return `Usage: teamcowboy events [options]

  Lists the events of one team with -team, or across all of the user's
  teams.` + c.Flags().Help()
}

func (c *EventsCommand) Flags() *base.FlagSet {
	f := newFlags("events")
	c.CommonFlags(f, true)
	f.IntVar(&c.flagTeam, "team", 0, "Team id.")
	f.IntVar(&c.flagSeason, "season", -1, "Season id. Requires -team.")
	f.StringVar(&c.flagFrom, "from", "", "Earliest start date, YYYY-MM-DD.")
	f.StringVar(&c.flagTo, "to", "", "Latest start date, YYYY-MM-DD.")
	f.StringVar(&c.flagFilter, "filter", "", "Event filter, e.g. past or future. Requires -team.")
	f.IntVar(&c.flagOffset, "offset", -1, "Number of events to skip. Requires -team.")
	f.IntVar(&c.flagQty, "qty", -1, "Maximum number of events. Requires -team.")
	return f
}

func (c *EventsCommand) teamOnly() bool {
	return c.flagSeason >= 0 || c.flagFilter != "" || c.flagOffset >= 0 || c.flagQty >= 0
}

func (c *EventsCommand) Run(args []string) int {
	validate := func() error {
		if c.flagTeam <= 0 && c.teamOnly() {
			return errors.New("-season, -filter, -offset and -qty require -team")
		}
		_, err := c.window()
		return err
	}
	return base.Execute(c.Command, c.Flags(), args, true, validate,
		func(ctx context.Context, rt *base.Runtime, token string) (teamcowboy.Response[[]teamcowboy.Event], error) {
			w, _ := c.window()
			if c.flagTeam > 0 {
				return rt.Client.GetTeamEvents(ctx, teamcowboy.TeamEventsRequest{
					UserToken:     token,
					TeamID:        c.flagTeam,
					SeasonID:      base.OptionalInt(c.flagSeason),
					Filter:        base.OptionalString(c.flagFilter),
					StartDateTime: w.from,
					EndDateTime:   w.to,
					Offset:        base.OptionalInt(c.flagOffset),
					Qty:           base.OptionalInt(c.flagQty),
				})
			}
			return rt.Client.GetUserTeamEvents(ctx, teamcowboy.UserEventsRequest{
				UserToken:     token,
				StartDateTime: w.from,
				EndDateTime:   w.to,
			})
		})
}

type dateWindow struct {
	from, to *time.Time
}

func (c *EventsCommand) window() (dateWindow, error) {
	from, err := base.ParseDate("from", c.flagFrom)
	if err != nil {
		return dateWindow{}, err
	}
	to, err := base.ParseDate("to", c.flagTo)
	if err != nil {
		return dateWindow{}, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return dateWindow{}, errors.New("-to must not be before -from")
	}
	return dateWindow{from: from, to: to}, nil
}

type NextEventCommand struct {
	*base.Command

	flagTeam int
}

func (c *NextEventCommand) Synopsis() string {
	return "Show the user's next event"
}

func (c *NextEventCommand) Help() string {
	return `Usage: teamcowboy next [options]

  Prints the next upcoming event, optionally limited to -team. Prints null
  when nothing is scheduled.` + c.Flags().Help()
}

func (c *NextEventCommand) Flags() *base.FlagSet {
	f := newFlags("next")
	c.CommonFlags(f, true)
	f.IntVar(&c.flagTeam, "team", 0, "Team id.")
	return f
}

func (c *NextEventCommand) Run(args []string) int {
	return base.Execute(c.Command, c.Flags(), args, true, nil,
		func(ctx context.Context, rt *base.Runtime, token string) (teamcowboy.Response[*teamcowboy.Event], error) {
			var team *int
			if c.flagTeam > 0 {
				team = teamcowboy.Int(c.flagTeam)
			}
			return rt.Client.GetUserNextTeamEvent(ctx, token, team)
		})
}

type EventCommand struct {
	*base.Command

	flagTeam  int
	flagEvent int
	flagRSVP  bool
}

func (c *EventCommand) Synopsis() string {
	return "Show one event"
}

func (c *EventCommand) Help() string {
	return `Usage: teamcowboy event -team <id> -event <id> [options]` + c.Flags().Help()
}

func (c *EventCommand) Flags() *base.FlagSet {
	f := newFlags("event")
	c.CommonFlags(f, true)
	f.IntVar(&c.flagTeam, "team", 0, "(Required) Team id.")
	f.IntVar(&c.flagEvent, "event", 0, "(Required) Event id.")
	f.BoolVar(&c.flagRSVP, "rsvp-info", false, "Include RSVP details.")
	return f
}

func (c *EventCommand) Run(args []string) int {
	return base.Execute(c.Command, c.Flags(), args, true, c.validate,
		func(ctx context.Context, rt *base.Runtime, token string) (teamcowboy.Response[teamcowboy.Event], error) {
			req := eventRequest(token, c.flagTeam, c.flagEvent)
			if c.flagRSVP {
				req.IncludeRSVPInfo = teamcowboy.Bool(true)
			}
			return rt.Client.GetEvent(ctx, req)
		})
}

func (c *EventCommand) validate() error {
	return errors.Join(requirePositive("team", c.flagTeam), requirePositive("event", c.flagEvent))
}

type AttendanceCommand struct {
	*base.Command

	flagTeam  int
	flagEvent int
}

func (c *AttendanceCommand) Synopsis() string {
	return "Show the attendance list of an event"
}

func (c *AttendanceCommand) Help() string {
	return `Usage: teamcowboy attendance -team <id> -event <id> [options]` + c.Flags().Help()
}

func (c *AttendanceCommand) Flags() *base.FlagSet {
	f := newFlags("attendance")
	c.CommonFlags(f, true)
	f.IntVar(&c.flagTeam, "team", 0, "(Required) Team id.")
	f.IntVar(&c.flagEvent, "event", 0, "(Required) Event id.")
	return f
}

func (c *AttendanceCommand) Run(args []string) int {
	validate := func() error {
		return errors.Join(requirePositive("team", c.flagTeam), requirePositive("event", c.flagEvent))
	}
	return base.Execute(c.Command, c.Flags(), args, true, validate,
		func(ctx context.Context, rt *base.Runtime, token string) (teamcowboy.Response[teamcowboy.AttendanceList], error) {
			return rt.Client.GetAttendanceList(ctx, eventRequest(token, c.flagTeam, c.flagEvent))
		})
}

type RSVPCommand struct {
	*base.Command

	flagTeam       int
	flagEvent      int
	flagStatus     string
	flagComments   string
	flagAddlMale   int
	flagAddlFemale int
	flagAsUser     int
}

func (c *RSVPCommand) Synopsis() string {
	return "RSVP to an event"
}

func (c *RSVPCommand) Help() string {
	return `Usage: teamcowboy rsvp -team <id> -event <id> -status <status> [options]

  Records an RSVP. Status is one of yes, maybe, available, no or noresponse.` + c.Flags().Help()
}

func (c *RSVPCommand) Flags() *base.FlagSet {
	f := newFlags("rsvp")
	c.CommonFlags(f, true)
	f.IntVar(&c.flagTeam, "team", 0, "(Required) Team id.")
	f.IntVar(&c.flagEvent, "event", 0, "(Required) Event id.")
	f.StringVar(&c.flagStatus, "status", "", "(Required) RSVP status.")
	f.StringVar(&c.flagComments, "comments", "", "RSVP comment.")
	f.IntVar(&c.flagAddlMale, "addl-male", -1, "Additional male guests.")
	f.IntVar(&c.flagAddlFemale, "addl-female", -1, "Additional female guests.")
	f.IntVar(&c.flagAsUser, "as-user", 0, "RSVP on behalf of this user id.")
	return f
}

func (c *RSVPCommand) Run(args []string) int {
	validate := func() error {
		errList := []error{requirePositive("team", c.flagTeam), requirePositive("event", c.flagEvent)}
		if strings.TrimSpace(c.flagStatus) == "" {
			errList = append(errList, errors.New("-status is required"))
		}
		return errors.Join(errList...)
	}
	return base.Execute(c.Command, c.Flags(), args, true, validate,
		func(ctx context.Context, rt *base.Runtime, token string) (teamcowboy.Response[teamcowboy.SaveRSVPResponse], error) {
			req := teamcowboy.SaveRSVPRequest{
				UserToken:  token,
				TeamID:     c.flagTeam,
				EventID:    c.flagEvent,
				Status:     strings.TrimSpace(c.flagStatus),
				AddlMale:   base.OptionalInt(c.flagAddlMale),
				AddlFemale: base.OptionalInt(c.flagAddlFemale),
				Comments:   base.OptionalString(c.flagComments),
			}
			if c.flagAsUser > 0 {
				req.RSVPAsUserID = teamcowboy.Int(c.flagAsUser)
			}
			return rt.Client.SaveRSVP(ctx, req)
		})
}

func eventRequest(token string, teamID, eventID int) teamcowboy.EventRequest {
	return teamcowboy.EventRequest{UserToken: token, TeamID: teamID, EventID: eventID}
}
