package review

import (
	"context"

	"github.com/reviewlens/internal/hostfetch"
	"github.com/reviewlens/internal/resolution"
	"github.com/reviewlens/pkg/models"
)

// GitHubSource combines the REST comment fetch with the GraphQL resolution
// overlay, since REST alone cannot express thread resolution.
type GitHubSource struct {
	REST     *hostfetch.GitHubClient
	GraphQL  *resolution.Client
	Owner    string
	Repo     string
	PRNumber int
}

func (s *GitHubSource) ExistingComments(ctx context.Context) ([]models.ReviewComment, error) {
	comments, err := s.REST.FetchReviewComments(ctx, s.Owner, s.Repo, s.PRNumber)
	if err != nil {
		return nil, err
	}

	states, err := s.GraphQL.FetchThreadStates(ctx, s.Owner, s.Repo, s.PRNumber)
	if err != nil {
		return nil, err
	}

	return resolution.Apply(comments, states), nil
}

// GitLabSource fetches merge-request discussions.
type GitLabSource struct {
	Client    *hostfetch.GitLabClient
	ProjectID string
	MRIID     int
}

func (s *GitLabSource) ExistingComments(ctx context.Context) ([]models.ReviewComment, error) {
	return s.Client.FetchMRDiscussions(ctx, s.ProjectID, s.MRIID)
}

// BitbucketSource fetches pull-request comments.
type BitbucketSource struct {
	Client    *hostfetch.BitbucketClient
	Workspace string
	RepoSlug  string
	PRID      int
}

func (s *BitbucketSource) ExistingComments(ctx context.Context) ([]models.ReviewComment, error) {
	return s.Client.FetchPRComments(ctx, s.Workspace, s.RepoSlug, s.PRID)
}
