// Package diffannotate assigns absolute line numbers to every line of a
// unified diff so downstream consumers never recompute offsets from hunk
// headers. The annotated text is what gets embedded in the review prompt, and
// the bracket scheme is the exact coordinate system the model is asked to
// echo back.
package diffannotate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/reviewlens/pkg/models"
)

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// annotationRe recognizes the three prefix forms emitted by Annotate:
// [OLD:n|DEL], [NEW:n|ADD], [OLD:n|NEW:m].
var annotationRe = regexp.MustCompile(`^\[(?:OLD:(\d+)\|DEL|NEW:(\d+)\|ADD|OLD:(\d+)\|NEW:(\d+))\] `)

// metadataPrefixes are file-header lines that pass through untouched even
// while hunk tracking is active.
var metadataPrefixes = []string{
	"index ",
	"--- ",
	"+++ ",
	"new file",
	"deleted file",
	"similarity index",
	"rename from",
	"rename to",
	"Binary files",
}

// LineType classifies an annotated diff line.
type LineType string

const (
	LineAdd     LineType = "add"
	LineDel     LineType = "del"
	LineContext LineType = "context"
)

// Annotation is the parsed form of a bracket prefix. OldLine and NewLine are
// zero when the prefix carries no number for that side.
type Annotation struct {
	OldLine int
	NewLine int
	Type    LineType
}

// Annotate walks the diff line by line maintaining old/new counters and
// prefixes every in-hunk body line with its absolute coordinates. Everything
// it does not recognize passes through unchanged: unknown diff dialects never
// fail, they just come out unannotated.
func Annotate(diff string) *models.AnnotatedDiff {
	lines := strings.Split(diff, "\n")
	annotated := make([]string, 0, len(lines))

	var (
		fileCount int
		hunkCount int
		oldLine   int
		newLine   int
		inHunk    bool
	)

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "diff --git"):
			fileCount++
			inHunk = false
			annotated = append(annotated, line)

		case isMetadataLine(line):
			annotated = append(annotated, line)

		default:
			if m := hunkHeaderRe.FindStringSubmatch(line); m != nil {
				hunkCount++
				oldLine, _ = strconv.Atoi(m[1])
				newLine, _ = strconv.Atoi(m[3])
				inHunk = true
				annotated = append(annotated, line)
				continue
			}

			if !inHunk {
				annotated = append(annotated, line)
				continue
			}

			switch {
			case strings.HasPrefix(line, "-"):
				annotated = append(annotated, "[OLD:"+strconv.Itoa(oldLine)+"|DEL] "+line)
				oldLine++
			case strings.HasPrefix(line, "+"):
				annotated = append(annotated, "[NEW:"+strconv.Itoa(newLine)+"|ADD] "+line)
				newLine++
			case line == "" || strings.HasPrefix(line, " "):
				annotated = append(annotated, "[OLD:"+strconv.Itoa(oldLine)+"|NEW:"+strconv.Itoa(newLine)+"] "+line)
				oldLine++
				newLine++
			case strings.HasPrefix(line, `\`):
				// "\ No newline at end of file"
				annotated = append(annotated, line)
			default:
				annotated = append(annotated, line)
			}
		}
	}

	return &models.AnnotatedDiff{
		Original:  diff,
		Annotated: strings.Join(annotated, "\n"),
		FileCount: fileCount,
		HunkCount: hunkCount,
	}
}

// ParseAnnotation returns the coordinates encoded in a line's bracket prefix,
// or nil if the line carries none.
func ParseAnnotation(line string) *Annotation {
	m := annotationRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	switch {
	case m[1] != "":
		n, _ := strconv.Atoi(m[1])
		return &Annotation{OldLine: n, Type: LineDel}
	case m[2] != "":
		n, _ := strconv.Atoi(m[2])
		return &Annotation{NewLine: n, Type: LineAdd}
	default:
		o, _ := strconv.Atoi(m[3])
		n, _ := strconv.Atoi(m[4])
		return &Annotation{OldLine: o, NewLine: n, Type: LineContext}
	}
}

// StripAnnotation removes a recognized bracket prefix and its trailing
// separator space, restoring the original diff line. Lines without a prefix
// are returned unchanged.
func StripAnnotation(line string) string {
	if loc := annotationRe.FindStringIndex(line); loc != nil {
		return line[loc[1]:]
	}
	return line
}

func isMetadataLine(line string) bool {
	for _, prefix := range metadataPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
