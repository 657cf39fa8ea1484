package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/reviewlens/internal/diffannotate"
)

// AnnotateCommand returns the annotate command: print a diff with absolute
// line coordinates on every in-hunk line.
func AnnotateCommand() *cli.Command {
	return &cli.Command{
		Name:  "annotate",
		Usage: "Annotate a unified diff with absolute line numbers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "diff",
				Aliases: []string{"f"},
				Usage:   "Read the diff from `FILE` instead of stdin",
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Print file/hunk counts to stderr",
			},
		},
		Action: func(c *cli.Context) error {
			diff, err := readDiff(c.String("diff"))
			if err != nil {
				return err
			}

			annotated := diffannotate.Annotate(diff)
			fmt.Print(annotated.Annotated)

			if c.Bool("stats") {
				fmt.Printf("\nfiles: %d, hunks: %d\n", annotated.FileCount, annotated.HunkCount)
			}
			return nil
		},
	}
}
