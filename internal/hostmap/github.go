package hostmap

import (
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/reviewlens/pkg/models"
)

// GitHubComment is the subset of a GitHub REST pull-request review comment
// this mapper consumes.
type GitHubComment struct {
	ID           int64  `json:"id"`
	NodeID       string `json:"node_id"`
	Path         string `json:"path"`
	Line         int    `json:"line"`
	OriginalLine int    `json:"original_line"`
	Side         string `json:"side"`
	Position     *int   `json:"position"`
	SubjectType  string `json:"subject_type"`
	InReplyToID  int64  `json:"in_reply_to_id"`
	Body         string `json:"body"`
}

// MapGitHubComments converts a fetched batch of GitHub review comments into
// canonical comments. Resolution state cannot be derived from REST and stays
// false until the GraphQL overlay runs.
func MapGitHubComments(items []GitHubComment) []models.ReviewComment {
	comments := make([]models.ReviewComment, 0, len(items))
	refs := make([]replyRef, 0, len(items))

	for _, item := range items {
		if item.Path == "" {
			log.Debug().Int64("id", item.ID).Msg("dropping github comment without a path")
			continue
		}

		line := item.Line
		if line < 1 {
			line = item.OriginalLine
		}
		if line < 1 {
			line = 1
		}

		side := models.SideRight
		if item.Side == "LEFT" {
			side = models.SideLeft
		}

		// A null diff position means the line fell outside the current diff.
		// File-level comments have no position by construction, so they are
		// never outdated by this rule.
		outdated := item.SubjectType != "file" && item.Position == nil

		// Canonical ids carry the node id so the GraphQL resolution overlay
		// can correlate; replies reference each other by the numeric REST id.
		numericID := strconv.FormatInt(item.ID, 10)
		nativeID := item.NodeID
		if nativeID == "" {
			nativeID = numericID
		}
		parentKey := ""
		if item.InReplyToID != 0 {
			parentKey = strconv.FormatInt(item.InReplyToID, 10)
		}

		comments = append(comments, models.ReviewComment{
			ID:            HostID(TagGitHub, nativeID),
			File:          models.NormalizePath(item.Path),
			Line:          line,
			Side:          side,
			Severity:      models.SeverityMedium,
			Issue:         item.Body,
			Status:        models.StatusPending,
			Source:        models.SourceHost,
			HostResolved:  false,
			HostOutdated:  outdated,
			HostCommentID: numericID,
		})
		refs = append(refs, replyRef{key: numericID, nativeID: nativeID, parentKey: parentKey})
	}

	resolveReplies(TagGitHub, comments, refs)
	return comments
}
