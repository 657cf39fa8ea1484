// Package dedupe filters freshly-parsed findings against the comments
// already known for a review, so the model does not re-report an issue a
// human or a prior pass already raised a line or two away.
package dedupe

import (
	"github.com/rs/zerolog/log"

	"github.com/reviewlens/pkg/models"
)

// lineTolerance is how far apart two same-file comments may sit and still be
// treated as the same issue. Diff-context drift routinely shifts a finding
// by a line, so this is exactly 1 and not configurable.
const lineTolerance = 1

// Filter returns the incoming comments that do not collide with any existing
// comment. A collision is any existing comment on the same file within the
// line tolerance, regardless of source or side. Different files never
// collide, even at identical line numbers.
func Filter(incoming, existing []models.ReviewComment) []models.ReviewComment {
	byFile := make(map[string][]int, len(existing))
	for _, c := range existing {
		byFile[c.File] = append(byFile[c.File], c.Line)
	}

	kept := make([]models.ReviewComment, 0, len(incoming))
	for _, candidate := range incoming {
		if collides(candidate, byFile[candidate.File]) {
			log.Debug().
				Str("file", candidate.File).
				Int("line", candidate.Line).
				Msg("dropping duplicate finding")
			continue
		}
		kept = append(kept, candidate)
	}
	return kept
}

func collides(candidate models.ReviewComment, lines []int) bool {
	for _, line := range lines {
		delta := candidate.Line - line
		if delta < 0 {
			delta = -delta
		}
		if delta <= lineTolerance {
			return true
		}
	}
	return false
}
