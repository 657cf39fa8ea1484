package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/reviewlens/internal/config"
	"github.com/reviewlens/internal/logging"
)

// CommentsCommand returns the comments command: fetch a change's existing
// host comments and print them in the canonical shape.
func CommentsCommand() *cli.Command {
	return &cli.Command{
		Name:  "comments",
		Usage: "Fetch existing review comments for a pull/merge request",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Override the configured host (github|gitlab|bitbucket)",
			},
			&cli.StringFlag{
				Name:     "repo",
				Usage:    "Repository: owner/repo (github), project path (gitlab), workspace/slug (bitbucket)",
				Required: true,
			},
			&cli.IntFlag{
				Name:     "pr",
				Usage:    "Pull/merge request number",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print canonical comments as JSON",
			},
		},
		Action: runComments,
	}
}

func runComments(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Setup(cfg.General.LogLevel)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	source, err := buildSource(cfg, c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	comments, err := source.ExistingComments(ctx)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(comments)
	}

	fmt.Printf("=== Existing Comments (%d) ===\n", len(comments))
	for _, comment := range comments {
		fmt.Printf("\n[%s] %s:%d (%s)\n", comment.ID, comment.File, comment.Line, comment.Side)
		if comment.ParentID != "" {
			fmt.Printf("  reply to %s\n", comment.ParentID)
		}
		if comment.HostResolved {
			fmt.Println("  resolved")
		}
		if comment.HostOutdated {
			fmt.Println("  outdated")
		}
		fmt.Printf("  %s\n", comment.Issue)
	}
	return nil
}
