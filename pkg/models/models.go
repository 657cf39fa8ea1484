package models

import "strings"

// AnnotatedDiff is the result of running a unified diff through the line
// annotator. Original always reconstructs byte-for-byte from Annotated by
// stripping the bracket prefixes.
type AnnotatedDiff struct {
	Original  string
	Annotated string
	FileCount int
	HunkCount int
}

// Finding is a single model-proposed issue before validation. Field types are
// deliberately loose: the model controls this shape, so Line may arrive as a
// string, a float, or nothing at all.
type Finding struct {
	File        string      `json:"file"`
	Line        interface{} `json:"line"`
	EndLine     interface{} `json:"endLine,omitempty"`
	Side        string      `json:"side,omitempty"`
	Severity    string      `json:"severity,omitempty"`
	Issue       string      `json:"issue"`
	Suggestion  string      `json:"suggestion,omitempty"`
	CodeSnippet string      `json:"codeSnippet,omitempty"`
}

// Side identifies which version of a file a line number refers to.
type Side string

const (
	SideLeft  Side = "LEFT"  // old/deleted side
	SideRight Side = "RIGHT" // new/added-or-context side
)

// Severity is the reviewer-facing priority of a comment.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Status is the local reviewer decision on a comment. It is independent of
// any host-side resolution state and has no terminal value: a reviewer may
// toggle any comment back to pending.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Source records where a comment came from.
type Source string

const (
	SourceAI   Source = "ai"
	SourceHost Source = "host"
)

// ReviewComment is the canonical comment record every subsystem converges on.
// A (File, Line, Side) coordinate means the same thing everywhere it flows.
type ReviewComment struct {
	ID          string   `json:"id"`
	File        string   `json:"file"`
	Line        int      `json:"line"`
	Side        Side     `json:"side"`
	Severity    Severity `json:"severity"`
	Issue       string   `json:"issue"`
	Suggestion  string   `json:"suggestion,omitempty"`
	CodeSnippet string   `json:"code_snippet,omitempty"`
	Status      Status   `json:"status"`
	Source      Source   `json:"source"`

	// Host-side state. Meaningful only for Source == SourceHost, or after the
	// GraphQL resolution overlay has been applied.
	HostResolved bool `json:"host_resolved,omitempty"`
	HostOutdated bool `json:"host_outdated,omitempty"`

	// Opaque host-native identifiers carried through for the write path.
	HostCommentID string `json:"host_comment_id,omitempty"`
	HostThreadID  string `json:"host_thread_id,omitempty"`

	// ParentID references the root comment this one replies to. Empty for
	// roots. A dangling reference is flattened to root by the mappers, never
	// surfaced as an error.
	ParentID string `json:"parent_id,omitempty"`

	// EditedText is a local override of the displayed text. Issue is never
	// rewritten.
	EditedText string `json:"edited_text,omitempty"`
}

// Approve marks the comment accepted by the local reviewer.
func (c *ReviewComment) Approve() { c.Status = StatusApproved }

// Reject marks the comment declined by the local reviewer.
func (c *ReviewComment) Reject() { c.Status = StatusRejected }

// ResetStatus returns the comment to the undecided state.
func (c *ReviewComment) ResetStatus() { c.Status = StatusPending }

// ReviewResult is the parsed outcome of one model invocation.
type ReviewResult struct {
	Summary  string          `json:"summary"`
	Comments []ReviewComment `json:"comments"`
}

// ParseSeverity resolves a model-supplied severity string through the alias
// table. Anything unrecognized, including the empty string, maps to medium.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "crit":
		return SeverityCritical
	case "high", "hi":
		return SeverityHigh
	case "medium", "med", "moderate":
		return SeverityMedium
	case "low", "lo", "minor":
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// ParseSide resolves a model-supplied side string. Anything unrecognized,
// including the empty string, maps to RIGHT.
func ParseSide(s string) Side {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return SideLeft
	case "right", "r":
		return SideRight
	default:
		return SideRight
	}
}

// NormalizePath strips the a/ or b/ prefix git places on diff paths.
func NormalizePath(path string) string {
	if strings.HasPrefix(path, "a/") || strings.HasPrefix(path, "b/") {
		return path[2:]
	}
	return path
}
