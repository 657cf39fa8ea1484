// Package review wires the pipeline together: annotate the diff, ask the
// model, recover its answer, fetch what the host already knows, and keep
// only the findings that are actually new.
package review

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/reviewlens/internal/ai"
	"github.com/reviewlens/internal/dedupe"
	"github.com/reviewlens/internal/diffannotate"
	"github.com/reviewlens/internal/prompts"
	"github.com/reviewlens/internal/recovery"
	"github.com/reviewlens/pkg/models"
)

// CommentSource fetches the comments a host already carries for the change
// under review. The GitHub implementation also merges GraphQL thread
// resolution before returning.
type CommentSource interface {
	ExistingComments(ctx context.Context) ([]models.ReviewComment, error)
}

// Service runs one review invocation end to end.
type Service struct {
	provider ai.Provider
	source   CommentSource
}

// NewService builds a review service. source may be nil when no host
// baseline is available (pure local review).
func NewService(provider ai.Provider, source CommentSource) *Service {
	return &Service{provider: provider, source: source}
}

// Outcome is the merged result of one run: the model summary, the findings
// that survived dedup, and the host baseline they were deduplicated against.
type Outcome struct {
	Summary  string
	New      []models.ReviewComment
	Existing []models.ReviewComment
	Dropped  int
}

// Run executes the pipeline over a unified diff.
func (s *Service) Run(ctx context.Context, diff string) (*Outcome, error) {
	annotated := diffannotate.Annotate(diff)
	log.Info().
		Int("files", annotated.FileCount).
		Int("hunks", annotated.HunkCount).
		Msg("annotated diff")

	prompt := prompts.BuildReviewPrompt(annotated)

	raw, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("model completion: %w", err)
	}

	result, err := recovery.Parse(raw)
	if err != nil {
		return nil, err
	}
	log.Info().Int("findings", len(result.Comments)).Msg("parsed model response")

	var existing []models.ReviewComment
	if s.source != nil {
		existing, err = s.source.ExistingComments(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch existing comments: %w", err)
		}
		log.Info().Int("comments", len(existing)).Msg("fetched host baseline")
	}

	kept := dedupe.Filter(result.Comments, existing)

	return &Outcome{
		Summary:  result.Summary,
		New:      kept,
		Existing: existing,
		Dropped:  len(result.Comments) - len(kept),
	}, nil
}
