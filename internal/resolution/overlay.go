// Package resolution fills the gap the GitHub REST comment endpoint leaves
// open: thread resolution only exists in the GraphQL reviewThreads query, so
// the two data sources are correlated by native comment id after the fact.
package resolution

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/reviewlens/internal/hostmap"
	"github.com/reviewlens/pkg/models"
)

const defaultGraphQLEndpoint = "https://api.github.com/graphql"

const reviewThreadsQuery = `query($owner: String!, $repo: String!, $pr: Int!, $cursor: String) {
	repository(owner: $owner, name: $repo) {
		pullRequest(number: $pr) {
			reviewThreads(first: 100, after: $cursor) {
				pageInfo {
					hasNextPage
					endCursor
				}
				nodes {
					id
					isResolved
					isOutdated
					comments(first: 100) {
						nodes {
							id
						}
					}
				}
			}
		}
	}
}`

// ThreadState is the per-comment resolution snapshot derived from one review
// thread.
type ThreadState struct {
	IsResolved bool
	IsOutdated bool
	ThreadID   string
}

// Client fetches review-thread state from the GitHub GraphQL API.
type Client struct {
	http     *resty.Client
	endpoint string
}

// NewClient builds a GraphQL client. endpoint may be empty for github.com.
func NewClient(token, endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultGraphQLEndpoint
	}
	return &Client{
		http:     resty.New().SetAuthToken(token).SetHeader("Content-Type", "application/json"),
		endpoint: endpoint,
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		Repository struct {
			PullRequest struct {
				ReviewThreads struct {
					PageInfo struct {
						HasNextPage bool   `json:"hasNextPage"`
						EndCursor   string `json:"endCursor"`
					} `json:"pageInfo"`
					Nodes []struct {
						ID         string `json:"id"`
						IsResolved bool   `json:"isResolved"`
						IsOutdated bool   `json:"isOutdated"`
						Comments   struct {
							Nodes []struct {
								ID string `json:"id"`
							} `json:"nodes"`
						} `json:"comments"`
					} `json:"nodes"`
				} `json:"reviewThreads"`
			} `json:"pullRequest"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchThreadStates pages through the PR's review threads, following the
// cursor until no next page remains, and returns native comment id ->
// resolution state. Pages are fetched strictly in sequence.
func (c *Client) FetchThreadStates(ctx context.Context, owner, repo string, prNumber int) (map[string]ThreadState, error) {
	states := make(map[string]ThreadState)
	cursor := ""

	for {
		vars := map[string]any{
			"owner": owner,
			"repo":  repo,
			"pr":    prNumber,
		}
		if cursor != "" {
			vars["cursor"] = cursor
		}

		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(graphqlRequest{Query: reviewThreadsQuery, Variables: vars}).
			Post(c.endpoint)
		if err != nil {
			return nil, fmt.Errorf("review threads query: %w", err)
		}
		if resp.StatusCode() != 200 {
			return nil, fmt.Errorf("review threads query: HTTP %d", resp.StatusCode())
		}

		var gql graphqlResponse
		if err := json.Unmarshal(resp.Body(), &gql); err != nil {
			return nil, fmt.Errorf("decode review threads response: %w", err)
		}
		if len(gql.Errors) > 0 {
			return nil, fmt.Errorf("review threads query: %s", gql.Errors[0].Message)
		}

		threads := gql.Data.Repository.PullRequest.ReviewThreads
		for _, thread := range threads.Nodes {
			for _, comment := range thread.Comments.Nodes {
				if comment.ID == "" {
					continue
				}
				states[comment.ID] = ThreadState{
					IsResolved: thread.IsResolved,
					IsOutdated: thread.IsOutdated,
					ThreadID:   thread.ID,
				}
			}
		}

		if !threads.PageInfo.HasNextPage {
			break
		}
		cursor = threads.PageInfo.EndCursor
	}

	log.Debug().Int("comments", len(states)).Msg("fetched github review thread states")
	return states, nil
}

// Apply merges thread states onto the GitHub-originated comments in the
// batch. The merge is pure: the input slice and its elements are never
// mutated, and comments without a matching state, or without the github id
// prefix, pass through untouched.
func Apply(comments []models.ReviewComment, states map[string]ThreadState) []models.ReviewComment {
	prefix := hostmap.HostID(hostmap.TagGitHub, "")
	merged := make([]models.ReviewComment, len(comments))

	for i, comment := range comments {
		merged[i] = comment
		if !strings.HasPrefix(comment.ID, prefix) {
			continue
		}
		nativeID := strings.TrimPrefix(comment.ID, prefix)
		state, ok := states[nativeID]
		if !ok {
			continue
		}
		merged[i].HostResolved = state.IsResolved
		merged[i].HostOutdated = state.IsOutdated
		if state.ThreadID != "" {
			merged[i].HostThreadID = state.ThreadID
		}
	}

	return merged
}
