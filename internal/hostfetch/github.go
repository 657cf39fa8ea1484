// Package hostfetch retrieves existing review comments from each host API.
// Pages are requested, awaited, and processed strictly one at a time: host
// pagination contracts are cursor/page based, and sequential fetching keeps
// the clients inside host rate limits. No retries happen here; a failed page
// fails the whole call upward.
package hostfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/reviewlens/internal/hostmap"
	"github.com/reviewlens/pkg/models"
)

const (
	defaultGitHubAPI = "https://api.github.com"
	githubPageSize   = 100
)

// pageLimiter paces page requests. Two pages per second is far below every
// host's documented limit while keeping multi-page fetches quick.
func pageLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(2), 1)
}

// GitHubClient fetches pull-request review comments over REST.
type GitHubClient struct {
	http    *resty.Client
	baseURL string
	limiter *rate.Limiter
}

// NewGitHubClient builds a client. baseURL may be empty for github.com.
func NewGitHubClient(token, baseURL string) *GitHubClient {
	if baseURL == "" {
		baseURL = defaultGitHubAPI
	}
	return &GitHubClient{
		http: resty.New().
			SetAuthToken(token).
			SetHeader("Accept", "application/vnd.github+json"),
		baseURL: baseURL,
		limiter: pageLimiter(),
	}
}

// FetchReviewComments pages through the PR's review comments and maps them
// into canonical comments.
func (c *GitHubClient) FetchReviewComments(ctx context.Context, owner, repo string, prNumber int) ([]models.ReviewComment, error) {
	var all []hostmap.GitHubComment

	for page := 1; ; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/comments", c.baseURL, owner, repo, prNumber)
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("per_page", strconv.Itoa(githubPageSize)).
			SetQueryParam("page", strconv.Itoa(page)).
			Get(url)
		if err != nil {
			return nil, fmt.Errorf("fetch github comments page %d: %w", page, err)
		}
		if resp.StatusCode() != 200 {
			return nil, fmt.Errorf("fetch github comments page %d: HTTP %d", page, resp.StatusCode())
		}

		var batch []hostmap.GitHubComment
		if err := json.Unmarshal(resp.Body(), &batch); err != nil {
			return nil, fmt.Errorf("decode github comments page %d: %w", page, err)
		}

		all = append(all, batch...)
		if len(batch) < githubPageSize {
			break
		}
	}

	log.Debug().Int("comments", len(all)).Msg("fetched github review comments")
	return hostmap.MapGitHubComments(all), nil
}
