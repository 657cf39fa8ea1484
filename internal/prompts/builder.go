// Package prompts assembles the review prompt around an annotated diff. The
// bracket coordinates in the embedded diff are the exact scheme the model is
// instructed to echo back as line numbers.
package prompts

import (
	"strings"

	"github.com/reviewlens/pkg/models"
)

const reviewInstructions = `You are a senior engineer reviewing a source-control diff.

Every changed line below is prefixed with its absolute coordinates:
  [NEW:n|ADD]   an added line at line n of the new file
  [OLD:n|DEL]   a deleted line at line n of the old file
  [OLD:n|NEW:m] an unchanged context line

Report real problems only. Respond with a single JSON object:

{
  "summary": "one-paragraph summary of the change",
  "findings": [
    {
      "file": "relative/path.go",
      "line": 42,
      "side": "RIGHT",
      "severity": "critical|high|medium|low",
      "issue": "what is wrong",
      "suggestion": "how to fix it"
    }
  ]
}

Use the NEW line number with side RIGHT for added or context lines, and the
OLD line number with side LEFT for deleted lines. If the diff has no
problems, respond with {"summary": "...", "findings": []}.`

// BuildReviewPrompt embeds the annotated diff into the review instructions.
func BuildReviewPrompt(diff *models.AnnotatedDiff) string {
	var b strings.Builder
	b.Grow(len(reviewInstructions) + len(diff.Annotated) + 64)
	b.WriteString(reviewInstructions)
	b.WriteString("\n\nDiff under review:\n\n```diff\n")
	b.WriteString(diff.Annotated)
	if !strings.HasSuffix(diff.Annotated, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")
	return b.String()
}
