package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/reviewlens/internal/config"
)

// ConfigCommand returns the config command group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage reviewlens configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a sample configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Where to write the sample config",
						Value: "reviewlens.toml",
					},
				},
				Action: func(c *cli.Context) error {
					path := c.String("path")
					if err := config.Init(path); err != nil {
						return err
					}
					fmt.Printf("Wrote sample configuration to %s\n", path)
					return nil
				},
			},
			{
				Name:  "check",
				Usage: "Load and validate the configuration",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					if err := config.Validate(cfg); err != nil {
						return err
					}
					fmt.Printf("Configuration OK (host: %s, ai: %s)\n",
						cfg.General.DefaultHost, cfg.AI.Vendor)
					return nil
				},
			},
		},
	}
}
