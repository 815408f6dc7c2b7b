package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/cli"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cli.Register(commander)

	flag.Parse()

	env := cli.NewEnv()
	status := commander.Execute(context.Background(), env)
	_ = env.Close()

	os.Exit(int(status))
}
