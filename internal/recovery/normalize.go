package recovery

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/reviewlens/pkg/models"
)

var (
	errMissingFile  = errors.New("finding has no file")
	errMissingIssue = errors.New("finding has no issue")
	errBadLine      = errors.New("finding line is not a positive integer")
)

const (
	placeholderFile  = "unknown"
	placeholderIssue = "(no description provided)"
)

// normalizeStrict validates one finding and converts it into a canonical
// comment. A finding with a missing file or issue, or a line that cannot be
// coerced to an integer >= 1, is rejected; callers skip it without aborting
// the batch.
func normalizeStrict(f models.Finding) (*models.ReviewComment, error) {
	file := strings.TrimSpace(f.File)
	if file == "" {
		return nil, errMissingFile
	}
	issue := strings.TrimSpace(f.Issue)
	if issue == "" {
		return nil, errMissingIssue
	}
	line, ok := coerceLine(f.Line)
	if !ok {
		return nil, fmt.Errorf("%w: %v", errBadLine, f.Line)
	}
	return assemble(f, file, issue, line), nil
}

// normalizeLenient is used only after the strict JSON pass has already
// failed. It coerces rather than rejects: a bad line becomes 1 and missing
// file/issue become placeholders, because at this stage returning something
// beats returning nothing.
func normalizeLenient(f models.Finding) (*models.ReviewComment, error) {
	file := strings.TrimSpace(f.File)
	if file == "" {
		file = placeholderFile
	}
	issue := strings.TrimSpace(f.Issue)
	if issue == "" {
		issue = placeholderIssue
	}
	line, ok := coerceLine(f.Line)
	if !ok {
		line = 1
	}
	return assemble(f, file, issue, line), nil
}

func assemble(f models.Finding, file, issue string, line int) *models.ReviewComment {
	return &models.ReviewComment{
		ID:          "ai-" + uuid.NewString(),
		File:        models.NormalizePath(file),
		Line:        line,
		Side:        models.ParseSide(f.Side),
		Severity:    models.ParseSeverity(f.Severity),
		Issue:       sanitize(issue),
		Suggestion:  sanitize(f.Suggestion),
		CodeSnippet: sanitize(f.CodeSnippet),
		Status:      models.StatusPending,
		Source:      models.SourceAI,
	}
}

// coerceLine accepts the numeric shapes JSON decoding can hand us: a float64
// from a JSON number, or a numeric string. Fractional values floor. Anything
// below 1 fails.
func coerceLine(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		line := int(math.Floor(n))
		return line, line >= 1
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		line := int(math.Floor(f))
		return line, line >= 1
	case int:
		return n, n >= 1
	default:
		return 0, false
	}
}

// sanitize drops ASCII control characters and collapses whitespace runs to
// single spaces so host comment bodies stay one predictable shape.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			r = ' '
		}
		if r == ' ' {
			if lastSpace {
				continue
			}
			lastSpace = true
		} else {
			lastSpace = false
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
