package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/reviewlens/cmd"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "reviewlens",
		Usage:   "AI-assisted diff review for GitHub, GitLab, and Bitbucket",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
			},
		},
		Commands: []*cli.Command{
			cmd.ReviewCommand(),
			cmd.AnnotateCommand(),
			cmd.CommentsCommand(),
			cmd.ConfigCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
