package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Recipe-Web-App/recipe-management-service/cmd/app/commands"
	"github.com/Recipe-Web-App/recipe-management-service/internal/app"
	"github.com/Recipe-Web-App/recipe-management-service/internal/config"
)

func getTokenCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-token",
			Usage: "Issue a signed access token for a subject",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "subject",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Token subject (username)",
				},
				&cli.StringSliceFlag{
					Name:    "role",
					Aliases: []string{"r"},
					Usage:   "Role granted to the subject (repeatable)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateToken(
					container.TokenCodec(),
					container.Logger(),
					os.Stdout,
					cmd.String("subject"),
					cmd.StringSlice("role"),
					cmd.String("format"),
				)
			},
		},
	}
}
