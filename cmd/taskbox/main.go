package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/andrebq/taskbox/cmd/taskbox/serve"
	"github.com/andrebq/taskbox/cmd/taskbox/users"
	"github.com/andrebq/taskbox/internal/logutil"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	logLevel := "info"
	logPretty := false
	app := &cli.App{
		Name:  "taskbox",
		Usage: "Personal task lists behind a token protected JSON api",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Minimum level to log (trace, debug, info, warn, error)",
				EnvVars:     []string{"TASKBOX_LOG_LEVEL"},
				Value:       logLevel,
				Destination: &logLevel,
			},
			&cli.BoolFlag{
				Name:        "log-pretty",
				Usage:       "Human friendly logs instead of JSON lines",
				EnvVars:     []string{"TASKBOX_LOG_PRETTY"},
				Destination: &logPretty,
			},
		},
		Before: func(ctx *cli.Context) error {
			return logutil.Setup(logLevel, logPretty)
		},
		Commands: []*cli.Command{
			serve.Cmd(),
			users.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}
