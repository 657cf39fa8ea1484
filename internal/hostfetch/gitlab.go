package hostfetch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	gitlab "gitlab.com/gitlab-org/api/client-go"
	"golang.org/x/time/rate"

	"github.com/reviewlens/internal/hostmap"
	"github.com/reviewlens/pkg/models"
)

const gitlabPageSize = 100

// GitLabClient fetches merge-request discussions through the GitLab API
// client.
type GitLabClient struct {
	client  *gitlab.Client
	limiter *rate.Limiter
}

// NewGitLabClient builds a client. baseURL may be empty for gitlab.com.
func NewGitLabClient(token, baseURL string) (*GitLabClient, error) {
	opts := []gitlab.ClientOptionFunc{}
	if baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(fmt.Sprintf("%s/api/v4", baseURL)))
	}
	client, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gitlab client: %w", err)
	}
	return &GitLabClient{client: client, limiter: pageLimiter()}, nil
}

// FetchMRDiscussions pages through the merge request's discussions and maps
// them into canonical comments.
func (c *GitLabClient) FetchMRDiscussions(ctx context.Context, projectID string, mrIID int) ([]models.ReviewComment, error) {
	var all []*gitlab.Discussion

	opts := &gitlab.ListMergeRequestDiscussionsOptions{
		Page:    1,
		PerPage: gitlabPageSize,
	}

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		discussions, resp, err := c.client.Discussions.ListMergeRequestDiscussions(projectID, mrIID, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch gitlab discussions page %d: %w", opts.Page, err)
		}

		all = append(all, discussions...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	log.Debug().Int("discussions", len(all)).Msg("fetched gitlab mr discussions")
	return hostmap.MapGitLabDiscussions(all), nil
}
