package hostfetch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/reviewlens/internal/hostmap"
	"github.com/reviewlens/pkg/models"
)

const (
	defaultBitbucketAPI = "https://api.bitbucket.org/2.0"
	bitbucketPageLen    = 50
)

// BitbucketClient fetches pull-request comments from the Bitbucket Cloud API.
type BitbucketClient struct {
	http    *resty.Client
	baseURL string
	limiter *rate.Limiter
}

// NewBitbucketClient builds a client using app-password auth. baseURL may be
// empty for bitbucket.org.
func NewBitbucketClient(username, appPassword, baseURL string) *BitbucketClient {
	if baseURL == "" {
		baseURL = defaultBitbucketAPI
	}
	return &BitbucketClient{
		http:    resty.New().SetBasicAuth(username, appPassword),
		baseURL: baseURL,
		limiter: pageLimiter(),
	}
}

// bitbucketPage is the paginated envelope Bitbucket wraps list responses in.
// Next carries the full URL of the following page, empty on the last one.
type bitbucketPage struct {
	Values []hostmap.BitbucketComment `json:"values"`
	Next   string                     `json:"next"`
}

// FetchPRComments follows the "next" links through all comment pages and
// maps the result into canonical comments.
func (c *BitbucketClient) FetchPRComments(ctx context.Context, workspace, repoSlug string, prID int) ([]models.ReviewComment, error) {
	var all []hostmap.BitbucketComment

	url := fmt.Sprintf("%s/repositories/%s/%s/pullrequests/%d/comments?pagelen=%d",
		c.baseURL, workspace, repoSlug, prID, bitbucketPageLen)

	for url != "" {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.http.R().SetContext(ctx).Get(url)
		if err != nil {
			return nil, fmt.Errorf("fetch bitbucket comments: %w", err)
		}
		if resp.StatusCode() != 200 {
			return nil, fmt.Errorf("fetch bitbucket comments: HTTP %d", resp.StatusCode())
		}

		var page bitbucketPage
		if err := json.Unmarshal(resp.Body(), &page); err != nil {
			return nil, fmt.Errorf("decode bitbucket comments: %w", err)
		}

		all = append(all, page.Values...)
		url = page.Next
	}

	log.Debug().Int("comments", len(all)).Msg("fetched bitbucket pr comments")
	return hostmap.MapBitbucketComments(all), nil
}
