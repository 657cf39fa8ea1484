package diffannotate

import (
	"strings"
	"testing"
)

const sampleDiff = `diff --git a/main.go b/main.go
index 83db48f..bf269f4 100644
--- a/main.go
+++ b/main.go
@@ -10,5 +12,7 @@ func main() {
 	fmt.Println("start")
-	oldCall()
+	newCall()
+	extraCall()
 	fmt.Println("end")
@@ -30,3 +34,3 @@ func helper() {
 	return
-	dead()
+	alive()
diff --git a/util.go b/util.go
new file mode 100644
index 0000000..e69de29
--- /dev/null
+++ b/util.go
@@ -0,0 +1,2 @@
+package util
+
\ No newline at end of file`

func TestAnnotateCounters(t *testing.T) {
	result := Annotate(sampleDiff)

	if result.FileCount != 2 {
		t.Errorf("expected 2 files, got %d", result.FileCount)
	}
	if result.HunkCount != 3 {
		t.Errorf("expected 3 hunks, got %d", result.HunkCount)
	}
}

func TestAnnotateFirstLinesAfterHunkHeader(t *testing.T) {
	result := Annotate(sampleDiff)
	lines := strings.Split(result.Annotated, "\n")

	// First body line after "@@ -10,5 +12,7 @@" is a context line.
	var found bool
	for i, line := range lines {
		if strings.HasPrefix(line, "@@ -10,5 +12,7 @@") {
			next := lines[i+1]
			if !strings.HasPrefix(next, "[OLD:10|NEW:12] ") {
				t.Errorf("expected first context line annotated [OLD:10|NEW:12], got %q", next)
			}
			found = true
			break
		}
	}
	if !found {
		t.Fatal("hunk header not found in annotated output")
	}
}

func TestAnnotateDeletionAndAddition(t *testing.T) {
	result := Annotate(sampleDiff)

	if !strings.Contains(result.Annotated, "[OLD:11|DEL] -\toldCall()") {
		t.Error("deletion line not annotated with old coordinate")
	}
	if !strings.Contains(result.Annotated, "[NEW:13|ADD] +\tnewCall()") {
		t.Error("first addition not annotated with new coordinate")
	}
	if !strings.Contains(result.Annotated, "[NEW:14|ADD] +\textraCall()") {
		t.Error("second addition did not advance the new counter")
	}
}

func TestAnnotateRoundTrip(t *testing.T) {
	result := Annotate(sampleDiff)

	original := strings.Split(sampleDiff, "\n")
	annotated := strings.Split(result.Annotated, "\n")
	if len(original) != len(annotated) {
		t.Fatalf("line count changed: %d -> %d", len(original), len(annotated))
	}

	for i, line := range annotated {
		if got := StripAnnotation(line); got != original[i] {
			t.Errorf("line %d: round trip mismatch\n got: %q\nwant: %q", i, got, original[i])
		}
	}
}

func TestAnnotateMetadataPassThrough(t *testing.T) {
	result := Annotate(sampleDiff)

	for _, raw := range []string{
		"index 83db48f..bf269f4 100644",
		"--- a/main.go",
		"+++ b/main.go",
		"new file mode 100644",
		`\ No newline at end of file`,
	} {
		if !strings.Contains(result.Annotated, "\n"+raw+"\n") && !strings.HasSuffix(result.Annotated, raw) {
			t.Errorf("metadata line %q was modified", raw)
		}
	}
}

func TestAnnotateHunkHeaderWithoutCounts(t *testing.T) {
	diff := "diff --git a/x b/x\n@@ -5 +7 @@\n-gone\n+here"
	result := Annotate(diff)

	if result.HunkCount != 1 {
		t.Fatalf("expected 1 hunk, got %d", result.HunkCount)
	}
	if !strings.Contains(result.Annotated, "[OLD:5|DEL] -gone") {
		t.Error("count-free hunk header did not seed the old counter")
	}
	if !strings.Contains(result.Annotated, "[NEW:7|ADD] +here") {
		t.Error("count-free hunk header did not seed the new counter")
	}
}

func TestAnnotateUnrecognizedContentNeverFails(t *testing.T) {
	diff := "random preamble\ndiff --git a/x b/x\n@@ -1,1 +1,1 @@\n~weird marker\n trailing"
	result := Annotate(diff)

	if !strings.Contains(result.Annotated, "~weird marker") {
		t.Error("unrecognized in-hunk line was not passed through")
	}
	// The context line after the weird line still uses the running counters.
	if !strings.Contains(result.Annotated, "[OLD:1|NEW:1]  trailing") {
		t.Error("counters lost after unrecognized line")
	}
}

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		line string
		want *Annotation
	}{
		{"[OLD:10|DEL] -x", &Annotation{OldLine: 10, Type: LineDel}},
		{"[NEW:12|ADD] +y", &Annotation{NewLine: 12, Type: LineAdd}},
		{"[OLD:3|NEW:4]  z", &Annotation{OldLine: 3, NewLine: 4, Type: LineContext}},
		{"diff --git a/x b/x", nil},
		{"plain text", nil},
	}

	for _, tt := range tests {
		got := ParseAnnotation(tt.line)
		if tt.want == nil {
			if got != nil {
				t.Errorf("ParseAnnotation(%q) = %+v, want nil", tt.line, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ParseAnnotation(%q) = nil, want %+v", tt.line, tt.want)
			continue
		}
		if *got != *tt.want {
			t.Errorf("ParseAnnotation(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestStripAnnotationUnannotatedLine(t *testing.T) {
	line := "not annotated at all"
	if got := StripAnnotation(line); got != line {
		t.Errorf("StripAnnotation changed an unannotated line: %q", got)
	}
}

func TestAnnotateEmptyContextLine(t *testing.T) {
	diff := "diff --git a/x b/x\n@@ -1,2 +1,2 @@\n\n still here"
	result := Annotate(diff)

	if !strings.Contains(result.Annotated, "[OLD:1|NEW:1] \n") {
		t.Error("empty context line was not annotated")
	}
	if !strings.Contains(result.Annotated, "[OLD:2|NEW:2]  still here") {
		t.Error("counters did not advance past the empty context line")
	}
}
