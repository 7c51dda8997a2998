// Package commands implements the teamcowboy subcommands.
package commands

import (
	"errors"
	"flag"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/coachpo/teamcowboy/internal/cmd/base"
)

// Factories returns the command table for cli.CLI.
func Factories(log hclog.Logger, ui cli.Ui, version string) map[string]cli.CommandFactory {
	newBase := func() *base.Command { return base.NewCommand(log, ui) }
	return map[string]cli.CommandFactory{
		"token":      func() (cli.Command, error) { return &TokenCommand{Command: newBase()}, nil },
		"teams":      func() (cli.Command, error) { return &TeamsCommand{Command: newBase()}, nil },
		"team":       func() (cli.Command, error) { return &TeamCommand{Command: newBase()}, nil },
		"events":     func() (cli.Command, error) { return &EventsCommand{Command: newBase()}, nil },
		"next":       func() (cli.Command, error) { return &NextEventCommand{Command: newBase()}, nil },
		"event":      func() (cli.Command, error) { return &EventCommand{Command: newBase()}, nil },
		"attendance": func() (cli.Command, error) { return &AttendanceCommand{Command: newBase()}, nil },
		"roster":     func() (cli.Command, error) { return &RosterCommand{Command: newBase()}, nil },
		"seasons":    func() (cli.Command, error) { return &SeasonsCommand{Command: newBase()}, nil },
		"messages":   func() (cli.Command, error) { return &MessagesCommand{Command: newBase()}, nil },
		"rsvp":       func() (cli.Command, error) { return &RSVPCommand{Command: newBase()}, nil },
		"ping":       func() (cli.Command, error) { return &PingCommand{Command: newBase()}, nil },
		"sync":       func() (cli.Command, error) { return &SyncCommand{Command: newBase()}, nil },
		"version":    func() (cli.Command, error) { return &VersionCommand{Command: newBase(), Version: version}, nil },
	}
}

func newFlags(name string) *base.FlagSet {
	return base.NewFlagSet(flag.NewFlagSet(name, flag.ContinueOnError))
}

func requirePositive(name string, v int) error {
	if v <= 0 {
		return errors.New("-" + name + " is required")
	}
	return nil
}
