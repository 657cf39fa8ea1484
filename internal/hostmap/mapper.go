// Package hostmap normalizes the three structurally different host comment
// representations (GitHub, GitLab, Bitbucket) into the canonical
// models.ReviewComment. Each mapper answers the same three questions from a
// different wire shape: which side, is it outdated, is it resolved.
package hostmap

import "github.com/reviewlens/pkg/models"

// Host tags used as the stable id discriminator: re-fetching the same native
// comment always yields the same canonical id.
const (
	TagGitHub    = "gh"
	TagGitLab    = "gl"
	TagBitbucket = "bb"
)

// HostID builds the canonical comment id for a host-native identifier.
func HostID(tag, nativeID string) string {
	return "host-" + tag + "-" + nativeID
}

// replyRef describes how one mapped comment is addressed by others in the
// same batch. key is the identifier replies use to point at this comment;
// nativeID is the canonical id suffix. The two differ on GitHub, where
// in_reply_to_id is numeric but canonical ids carry the node id.
type replyRef struct {
	key       string
	nativeID  string
	parentKey string
}

// resolveReplies performs the two-pass linkage shared by all three mappers:
// pass 1 indexes reply key -> canonical native id, pass 2 sets ParentID only
// when the parent was present in the same batch. A reply whose parent is
// missing is flattened to a root, never treated as an error.
func resolveReplies(tag string, comments []models.ReviewComment, refs []replyRef) {
	index := make(map[string]string, len(refs))
	for _, ref := range refs {
		index[ref.key] = ref.nativeID
	}
	for i, ref := range refs {
		if ref.parentKey == "" {
			continue
		}
		if parent, ok := index[ref.parentKey]; ok {
			comments[i].ParentID = HostID(tag, parent)
		}
	}
}
