package main

import (
	"os"

	"github.com/coachpo/teamcowboy/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
