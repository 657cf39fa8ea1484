package hostmap

import (
	"strconv"

	"github.com/rs/zerolog/log"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/reviewlens/pkg/models"
)

// MapGitLabDiscussions converts merge-request discussions into canonical
// comments. Notes without a diff position are dropped: they are MR-level
// chatter, not line comments. Every note after the first in a discussion is
// a reply to the first note.
func MapGitLabDiscussions(discussions []*gitlab.Discussion) []models.ReviewComment {
	comments := make([]models.ReviewComment, 0, len(discussions))
	refs := make([]replyRef, 0, len(discussions))

	for _, disc := range discussions {
		if disc == nil || len(disc.Notes) == 0 {
			continue
		}

		// Replies always point at the discussion's first note. If that note
		// has no position it never enters the batch and resolveReplies
		// flattens its replies to roots.
		rootID := ""
		if disc.Notes[0] != nil {
			rootID = strconv.Itoa(disc.Notes[0].ID)
		}

		for i, note := range disc.Notes {
			if note == nil || note.Position == nil {
				log.Debug().Str("discussion", disc.ID).Msg("dropping gitlab note without position")
				continue
			}

			file := note.Position.NewPath
			if file == "" {
				file = note.Position.OldPath
			}
			if file == "" {
				log.Debug().Int("note", note.ID).Msg("dropping gitlab note without a path")
				continue
			}

			var (
				side models.Side
				line int
			)
			switch {
			case note.Position.NewLine > 0:
				side = models.SideRight
				line = note.Position.NewLine
			case note.Position.OldLine > 0:
				side = models.SideLeft
				line = note.Position.OldLine
			default:
				log.Debug().Int("note", note.ID).Msg("dropping gitlab note without line info")
				continue
			}

			nativeID := strconv.Itoa(note.ID)
			parentKey := ""
			if i > 0 && rootID != "" && rootID != nativeID {
				parentKey = rootID
			}

			comments = append(comments, models.ReviewComment{
				ID:            HostID(TagGitLab, nativeID),
				File:          models.NormalizePath(file),
				Line:          line,
				Side:          side,
				Severity:      models.SeverityMedium,
				Issue:         note.Body,
				Status:        models.StatusPending,
				Source:        models.SourceHost,
				HostResolved:  note.Resolved,
				HostOutdated:  false, // a position always refers to the current diff here
				HostCommentID: nativeID,
				HostThreadID:  disc.ID,
			})
			refs = append(refs, replyRef{key: nativeID, nativeID: nativeID, parentKey: parentKey})
		}
	}

	resolveReplies(TagGitLab, comments, refs)
	return comments
}
