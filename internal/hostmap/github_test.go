package hostmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlens/pkg/models"
)

func intPtr(n int) *int { return &n }

func TestMapGitHubCommentsBasic(t *testing.T) {
	items := []GitHubComment{
		{
			ID:       1,
			NodeID:   "PRRC_1",
			Path:     "src/main.go",
			Line:     42,
			Side:     "RIGHT",
			Position: intPtr(5),
			Body:     "consider a guard clause",
		},
	}

	comments := MapGitHubComments(items)
	require.Len(t, comments, 1)

	c := comments[0]
	assert.Equal(t, "host-gh-PRRC_1", c.ID)
	assert.Equal(t, "src/main.go", c.File)
	assert.Equal(t, 42, c.Line)
	assert.Equal(t, models.SideRight, c.Side)
	assert.Equal(t, models.SourceHost, c.Source)
	assert.Equal(t, models.SeverityMedium, c.Severity)
	assert.Equal(t, "1", c.HostCommentID)
	assert.False(t, c.HostResolved, "resolution is unknowable from REST")
	assert.False(t, c.HostOutdated)
	assert.Empty(t, c.ParentID)
}

func TestMapGitHubCommentsOutdatedMatrix(t *testing.T) {
	cases := []struct {
		name        string
		subjectType string
		position    *int
		outdated    bool
	}{
		{"line comment with position", "line", intPtr(3), false},
		{"line comment without position", "line", nil, true},
		{"empty subject without position", "", nil, true},
		{"file comment never outdated", "file", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			comments := MapGitHubComments([]GitHubComment{{
				ID: 9, NodeID: "N9", Path: "a.go", Line: 1,
				SubjectType: tc.subjectType, Position: tc.position,
			}})
			require.Len(t, comments, 1)
			assert.Equal(t, tc.outdated, comments[0].HostOutdated)
		})
	}
}

func TestMapGitHubCommentsLineFallback(t *testing.T) {
	comments := MapGitHubComments([]GitHubComment{
		{ID: 1, NodeID: "A", Path: "a.go", Line: 0, OriginalLine: 17},
		{ID: 2, NodeID: "B", Path: "a.go", Line: 0, OriginalLine: 0},
	})
	require.Len(t, comments, 2)
	assert.Equal(t, 17, comments[0].Line)
	assert.Equal(t, 1, comments[1].Line, "no usable line clamps to 1")
}

func TestMapGitHubCommentsLeftSide(t *testing.T) {
	comments := MapGitHubComments([]GitHubComment{
		{ID: 1, NodeID: "A", Path: "a.go", Line: 3, Side: "LEFT"},
		{ID: 2, NodeID: "B", Path: "a.go", Line: 3, Side: "bogus"},
	})
	require.Len(t, comments, 2)
	assert.Equal(t, models.SideLeft, comments[0].Side)
	assert.Equal(t, models.SideRight, comments[1].Side)
}

func TestMapGitHubCommentsDropsPathless(t *testing.T) {
	comments := MapGitHubComments([]GitHubComment{
		{ID: 1, NodeID: "A", Path: "", Line: 3},
		{ID: 2, NodeID: "B", Path: "kept.go", Line: 3},
	})
	require.Len(t, comments, 1)
	assert.Equal(t, "host-gh-B", comments[0].ID)
}

func TestMapGitHubCommentsReplyLinking(t *testing.T) {
	// Replies address parents by numeric REST id, but canonical ids carry
	// the node id. The mapper must translate between the two.
	comments := MapGitHubComments([]GitHubComment{
		{ID: 100, NodeID: "ROOT", Path: "a.go", Line: 1},
		{ID: 101, NodeID: "CHILD", Path: "a.go", Line: 1, InReplyToID: 100},
	})
	require.Len(t, comments, 2)
	assert.Empty(t, comments[0].ParentID)
	assert.Equal(t, "host-gh-ROOT", comments[1].ParentID)
}

func TestMapGitHubCommentsDanglingReplyFlattens(t *testing.T) {
	comments := MapGitHubComments([]GitHubComment{
		{ID: 101, NodeID: "CHILD", Path: "a.go", Line: 1, InReplyToID: 999},
	})
	require.Len(t, comments, 1)
	assert.Empty(t, comments[0].ParentID)
}

func TestMapGitHubCommentsNodeIDFallback(t *testing.T) {
	comments := MapGitHubComments([]GitHubComment{
		{ID: 55, Path: "a.go", Line: 1},
	})
	require.Len(t, comments, 1)
	assert.Equal(t, "host-gh-55", comments[0].ID)
}

func TestMapGitHubCommentsStripsDiffPrefix(t *testing.T) {
	comments := MapGitHubComments([]GitHubComment{
		{ID: 1, NodeID: "A", Path: "b/pkg/util.go", Line: 1},
	})
	require.Len(t, comments, 1)
	assert.Equal(t, "pkg/util.go", comments[0].File)
}
