package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/reviewlens/internal/ai/langchain"
	"github.com/reviewlens/internal/config"
	"github.com/reviewlens/internal/hostfetch"
	"github.com/reviewlens/internal/logging"
	"github.com/reviewlens/internal/resolution"
	"github.com/reviewlens/internal/review"
	"github.com/reviewlens/pkg/models"
)

// ReviewCommand returns the review command: run the full pipeline over a
// diff read from a file or stdin.
func ReviewCommand() *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Review a unified diff and report novel findings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "diff",
				Aliases: []string{"f"},
				Usage:   "Read the diff from `FILE` instead of stdin",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Override the configured host (github|gitlab|bitbucket)",
			},
			&cli.StringFlag{
				Name:  "repo",
				Usage: "Repository: owner/repo (github), project path (gitlab), workspace/slug (bitbucket)",
			},
			&cli.IntFlag{
				Name:  "pr",
				Usage: "Pull/merge request number to deduplicate against",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Skip the host baseline fetch, print findings only",
			},
		},
		Action: runReview,
	}
}

func runReview(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Setup(cfg.General.LogLevel)

	diff, err := readDiff(c.String("diff"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	provider, err := langchain.New(ctx, cfg.AI)
	if err != nil {
		return fmt.Errorf("create model provider: %w", err)
	}

	var source review.CommentSource
	if !c.Bool("dry-run") && c.String("repo") != "" && c.Int("pr") > 0 {
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		source, err = buildSource(cfg, c)
		if err != nil {
			return err
		}
	}

	outcome, err := review.NewService(provider, source).Run(ctx, diff)
	if err != nil {
		return err
	}

	printOutcome(outcome)
	return nil
}

func buildSource(cfg *config.Config, c *cli.Context) (review.CommentSource, error) {
	host := cfg.General.DefaultHost
	if override := c.String("host"); override != "" {
		host = override
	}
	repo := c.String("repo")
	pr := c.Int("pr")

	switch host {
	case "github":
		hostCfg := cfg.Hosts["github"]
		owner, name, err := splitRepo(repo)
		if err != nil {
			return nil, err
		}
		return &review.GitHubSource{
			REST:     hostfetch.NewGitHubClient(hostCfg.Token, hostCfg.URL),
			GraphQL:  resolution.NewClient(hostCfg.Token, graphQLEndpoint(hostCfg.URL)),
			Owner:    owner,
			Repo:     name,
			PRNumber: pr,
		}, nil

	case "gitlab":
		hostCfg := cfg.Hosts["gitlab"]
		client, err := hostfetch.NewGitLabClient(hostCfg.Token, hostCfg.URL)
		if err != nil {
			return nil, err
		}
		return &review.GitLabSource{Client: client, ProjectID: repo, MRIID: pr}, nil

	case "bitbucket":
		hostCfg := cfg.Hosts["bitbucket"]
		workspace, slug, err := splitRepo(repo)
		if err != nil {
			return nil, err
		}
		return &review.BitbucketSource{
			Client:    hostfetch.NewBitbucketClient(hostCfg.Username, hostCfg.Token, hostCfg.URL),
			Workspace: workspace,
			RepoSlug:  slug,
			PRID:      pr,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported host: %q", host)
	}
}

func readDiff(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read diff file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read diff from stdin: %w", err)
	}
	return string(data), nil
}

func printOutcome(outcome *review.Outcome) {
	fmt.Println("=== Review Summary ===")
	fmt.Println(outcome.Summary)

	if outcome.Dropped > 0 {
		fmt.Printf("\n(%d finding(s) dropped as duplicates of existing comments)\n", outcome.Dropped)
	}

	fmt.Printf("\n=== New Findings (%d) ===\n", len(outcome.New))
	for i, comment := range outcome.New {
		fmt.Printf("\n--- Finding %d ---\n", i+1)
		printComment(comment)
	}
}

func printComment(comment models.ReviewComment) {
	fmt.Printf("File: %s:%d (%s)\n", comment.File, comment.Line, comment.Side)
	fmt.Printf("Severity: %s\n", comment.Severity)
	fmt.Printf("Issue: %s\n", comment.Issue)
	if comment.Suggestion != "" {
		fmt.Printf("Suggestion: %s\n", comment.Suggestion)
	}
}

func splitRepo(repo string) (string, string, error) {
	for i := 0; i < len(repo); i++ {
		if repo[i] == '/' {
			if i == 0 || i == len(repo)-1 {
				break
			}
			return repo[:i], repo[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("repository must be in owner/name form, got %q", repo)
}

func graphQLEndpoint(baseURL string) string {
	if baseURL == "" {
		return ""
	}
	return baseURL + "/graphql"
}
