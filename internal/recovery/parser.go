// Package recovery turns a raw, possibly malformed block of model output into
// a validated review result. Item-level problems shrink the result set; only
// a response with no locatable JSON at all is surfaced as an error.
package recovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/reviewlens/pkg/models"
)

// ErrUnparseableOutput is returned when every recovery strategy fails to
// locate a usable JSON object in the model's text. It is fatal for the
// review invocation; no retry is attempted here.
var ErrUnparseableOutput = errors.New("no usable JSON object in model output")

const (
	defaultSummary  = "Code review completed."
	noIssuesSummary = "No issues found. The changes look good."
	maxSummaryLen   = 256
)

var (
	fencedBlockRe   = regexp.MustCompile("(?s)```([a-zA-Z]*)[ \t]*\\n(.*?)```")
	trailingCommaRe = regexp.MustCompile(`,\s*([\]}])`)

	// Phrases that distinguish "the model found nothing" from "the model's
	// output was unusable". Matched case-insensitively against the raw text.
	noIssuePhrases = []string{
		"no issues",
		"no findings",
		"looks good",
		"no problems",
	}
)

// rawResponse is the shape we expect the model to produce. Findings stays
// raw here: a findings value that is absent, null, or not a list yields an
// empty comment set rather than a parse failure.
type rawResponse struct {
	Summary  interface{}     `json:"summary"`
	Findings json.RawMessage `json:"findings"`
}

// Parse runs the ordered recovery pipeline over raw model output.
//
// Empty input is a valid empty review. A fenced code block carrying the
// response object, when present, replaces the working text. The widest {...}
// span is then parsed strictly; if that fails, an aggressive repair pass gets
// one more attempt with lenient per-item validation. Only when both passes
// fail, and no "no issues" phrase appears in the original text, does Parse
// return ErrUnparseableOutput.
func Parse(raw string) (*models.ReviewResult, error) {
	if strings.TrimSpace(raw) == "" {
		return &models.ReviewResult{Summary: defaultSummary, Comments: []models.ReviewComment{}}, nil
	}

	working := raw
	if block, ok := extractFencedBlock(working); ok {
		working = block
	}

	start := strings.Index(working, "{")
	end := strings.LastIndex(working, "}")
	if start == -1 || end == -1 || end < start {
		if mentionsNoIssues(raw) {
			return &models.ReviewResult{Summary: noIssuesSummary, Comments: []models.ReviewComment{}}, nil
		}
		return nil, fmt.Errorf("%w: no object braces found", ErrUnparseableOutput)
	}

	cleaned := cleanup(working[start : end+1])

	if result, ok := tryStrict(cleaned); ok {
		return result, nil
	}

	log.Debug().Int("bytes", len(cleaned)).Msg("strict parse failed, attempting aggressive repair")

	if result, ok := tryRepaired(cleaned); ok {
		return result, nil
	}

	return nil, fmt.Errorf("%w: strict and repair passes both failed", ErrUnparseableOutput)
}

// tryStrict parses the cleaned span as-is. Findings that fail validation are
// skipped individually, never failing the batch.
func tryStrict(cleaned string) (*models.ReviewResult, bool) {
	var resp rawResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, false
	}
	return buildResult(resp, normalizeStrict), true
}

// tryRepaired runs the heavier repair heuristics and re-parses. Normalization
// here is lenient: this path only runs after the strict pass already failed,
// so returning something beats returning nothing.
func tryRepaired(cleaned string) (*models.ReviewResult, bool) {
	repaired := repair(cleaned)
	var resp rawResponse
	if err := json.Unmarshal([]byte(repaired), &resp); err != nil {
		return nil, false
	}
	return buildResult(resp, normalizeLenient), true
}

func buildResult(resp rawResponse, normalize func(models.Finding) (*models.ReviewComment, error)) *models.ReviewResult {
	result := &models.ReviewResult{
		Summary:  extractSummary(resp.Summary),
		Comments: []models.ReviewComment{},
	}

	var items []json.RawMessage
	if len(resp.Findings) > 0 && string(resp.Findings) != "null" {
		if err := json.Unmarshal(resp.Findings, &items); err != nil {
			log.Debug().Err(err).Msg("findings is not a list, returning summary only")
			return result
		}
	}

	for i, rawFinding := range items {
		var finding models.Finding
		if err := json.Unmarshal(rawFinding, &finding); err != nil {
			log.Debug().Int("index", i).Err(err).Msg("skipping undecodable finding")
			continue
		}
		comment, err := normalize(finding)
		if err != nil {
			log.Debug().Int("index", i).Err(err).Msg("skipping invalid finding")
			continue
		}
		result.Comments = append(result.Comments, *comment)
	}

	return result
}

func extractSummary(v interface{}) string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return defaultSummary
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxSummaryLen {
		runes := []rune(s)
		s = string(runes[:maxSummaryLen])
	}
	return s
}

// cleanup performs the light pre-parse pass: BOM removal and commas dangling
// before a closing bracket or brace.
func cleanup(span string) string {
	span = strings.TrimPrefix(span, "\ufeff")
	return trailingCommaRe.ReplaceAllString(span, "$1")
}

// extractFencedBlock picks the fenced code block most likely to carry the
// response object: a json-tagged block wins outright, otherwise the first
// block containing an opening brace. A code example fenced ahead of the real
// payload is skipped rather than adopted; when no block qualifies the raw
// text stays in play.
func extractFencedBlock(text string) (string, bool) {
	fallback := ""
	for _, m := range fencedBlockRe.FindAllStringSubmatch(text, -1) {
		if strings.EqualFold(m[1], "json") {
			return m[2], true
		}
		if fallback == "" && strings.Contains(m[2], "{") {
			fallback = m[2]
		}
	}
	return fallback, fallback != ""
}

func mentionsNoIssues(raw string) bool {
	lower := strings.ToLower(raw)
	for _, phrase := range noIssuePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
