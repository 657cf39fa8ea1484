package prompts

import (
	"strings"
	"testing"

	"github.com/reviewlens/pkg/models"
)

func TestBuildReviewPrompt(t *testing.T) {
	diff := &models.AnnotatedDiff{
		Annotated: "[NEW:3|ADD] +return nil\n",
	}

	prompt := BuildReviewPrompt(diff)

	if !strings.Contains(prompt, "[NEW:3|ADD] +return nil") {
		t.Error("prompt does not embed the annotated diff")
	}
	if !strings.Contains(prompt, "```diff\n") {
		t.Error("diff is not fenced")
	}
	if !strings.Contains(prompt, `"findings"`) {
		t.Error("prompt does not describe the expected response shape")
	}
	if strings.Count(prompt, "```") != 2 {
		t.Errorf("expected exactly one fenced block, got %d fence markers", strings.Count(prompt, "```"))
	}
}

func TestBuildReviewPromptAddsTrailingNewline(t *testing.T) {
	diff := &models.AnnotatedDiff{Annotated: "[NEW:1|ADD] +x"}
	prompt := BuildReviewPrompt(diff)
	if !strings.Contains(prompt, "[NEW:1|ADD] +x\n```") {
		t.Error("closing fence must start on its own line")
	}
}
