package hostmap

import (
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/reviewlens/pkg/models"
)

// BitbucketComment is the subset of a Bitbucket pull-request comment this
// mapper consumes. Newer payloads anchor inline comments under "anchor";
// older server payloads use "inline".
type BitbucketComment struct {
	ID      int64             `json:"id"`
	Content BitbucketContent  `json:"content"`
	Anchor  *BitbucketAnchor  `json:"anchor,omitempty"`
	Inline  *BitbucketInline  `json:"inline,omitempty"`
	Parent  *BitbucketComRef  `json:"parent,omitempty"`
	Deleted bool              `json:"deleted"`
}

// BitbucketContent carries the comment body.
type BitbucketContent struct {
	Raw string `json:"raw"`
}

// BitbucketAnchor positions a comment on a diff.
type BitbucketAnchor struct {
	Path     string `json:"path"`
	Line     int    `json:"line"`
	LineType string `json:"line_type"`
}

// BitbucketInline is the legacy positioning shape: to is the new-file line,
// from the old-file line.
type BitbucketInline struct {
	Path string `json:"path"`
	To   int    `json:"to"`
	From int    `json:"from"`
}

// BitbucketComRef references another comment by id.
type BitbucketComRef struct {
	ID int64 `json:"id"`
}

// MapBitbucketComments converts a fetched batch of Bitbucket PR comments
// into canonical comments. Bitbucket's API exposes no thread resolution
// state, so HostResolved is always false; the deleted flag stands in for
// outdated.
func MapBitbucketComments(items []BitbucketComment) []models.ReviewComment {
	comments := make([]models.ReviewComment, 0, len(items))
	refs := make([]replyRef, 0, len(items))

	for _, item := range items {
		file, line, side, ok := bitbucketPosition(item)
		if !ok {
			log.Debug().Int64("id", item.ID).Msg("dropping bitbucket comment without a usable path")
			continue
		}

		nativeID := strconv.FormatInt(item.ID, 10)
		parentKey := ""
		if item.Parent != nil && item.Parent.ID != 0 {
			parentKey = strconv.FormatInt(item.Parent.ID, 10)
		}

		comments = append(comments, models.ReviewComment{
			ID:            HostID(TagBitbucket, nativeID),
			File:          models.NormalizePath(file),
			Line:          line,
			Side:          side,
			Severity:      models.SeverityMedium,
			Issue:         item.Content.Raw,
			Status:        models.StatusPending,
			Source:        models.SourceHost,
			HostResolved:  false,
			HostOutdated:  item.Deleted,
			HostCommentID: nativeID,
		})
		refs = append(refs, replyRef{key: nativeID, nativeID: nativeID, parentKey: parentKey})
	}

	resolveReplies(TagBitbucket, comments, refs)
	return comments
}

func bitbucketPosition(item BitbucketComment) (file string, line int, side models.Side, ok bool) {
	if item.Anchor != nil && item.Anchor.Path != "" {
		side = models.SideRight
		if item.Anchor.LineType == "removed" {
			side = models.SideLeft
		}
		line = item.Anchor.Line
		if line < 1 {
			line = 1
		}
		return item.Anchor.Path, line, side, true
	}

	if item.Inline != nil && item.Inline.Path != "" {
		switch {
		case item.Inline.To > 0:
			return item.Inline.Path, item.Inline.To, models.SideRight, true
		case item.Inline.From > 0:
			return item.Inline.Path, item.Inline.From, models.SideLeft, true
		default:
			return item.Inline.Path, 1, models.SideRight, true
		}
	}

	return "", 0, "", false
}
