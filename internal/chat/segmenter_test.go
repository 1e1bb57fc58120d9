package chat

import (
	"reflect"
	"strings"
	"testing"
)

// feed pushes content in the given chunk sizes and returns the total
// visible output and the follow-ups.
func feed(t *testing.T, content string, chunkSize int) (string, []string) {
	t.Helper()
	var seg Segmenter
	var visible strings.Builder
	for i := 0; i < len(content); i += chunkSize {
		end := i + chunkSize
		if end > len(content) {
			end = len(content)
		}
		visible.WriteString(seg.Push(content[i:end]))
	}
	tail, followups := seg.Finish()
	visible.WriteString(tail)
	return visible.String(), followups
}

func TestSegmenterExtractsFollowups(t *testing.T) {
	content := "The plan covers cleanings. <<Does it cover implants?>><<What is the copay?>>"

	visible, followups := feed(t, content, len(content))

	if visible != "The plan covers cleanings. " {
		t.Errorf("visible = %q", visible)
	}
	want := []string{"Does it cover implants?", "What is the copay?"}
	if !reflect.DeepEqual(followups, want) {
		t.Errorf("followups = %v, want %v", followups, want)
	}
}

func TestSegmenterChunkPartitionInvariance(t *testing.T) {
	content := "Answer text [doc.pdf]. <<First follow-up?>> more <<Second?>> tail"

	wantVisible, wantFollowups := feed(t, content, len(content))
	if wantVisible != "Answer text [doc.pdf]. " {
		t.Fatalf("visible = %q", wantVisible)
	}
	if want := []string{"First follow-up?", "Second?"}; !reflect.DeepEqual(wantFollowups, want) {
		t.Fatalf("followups = %v, want %v", wantFollowups, want)
	}
	for size := 1; size <= 7; size++ {
		visible, followups := feed(t, content, size)
		if visible != wantVisible {
			t.Errorf("chunk size %d: visible = %q, want %q", size, visible, wantVisible)
		}
		if !reflect.DeepEqual(followups, wantFollowups) {
			t.Errorf("chunk size %d: followups = %v, want %v", size, followups, wantFollowups)
		}
	}
}

func TestSegmenterMarkerSplitAcrossChunks(t *testing.T) {
	var seg Segmenter
	var visible strings.Builder
	visible.WriteString(seg.Push("before <"))
	visible.WriteString(seg.Push("<split marker?>"))
	visible.WriteString(seg.Push("> after"))
	tail, followups := seg.Finish()
	visible.WriteString(tail)

	if visible.String() != "before " {
		t.Errorf("visible = %q", visible.String())
	}
	if len(followups) != 1 || followups[0] != "split marker?" {
		t.Errorf("followups = %v", followups)
	}
}

func TestSegmenterLoneAngleBracketIsVisible(t *testing.T) {
	visible, followups := feed(t, "a < b and 1 <", 3)
	if visible != "a < b and 1 <" {
		t.Errorf("visible = %q", visible)
	}
	if len(followups) != 0 {
		t.Errorf("followups = %v", followups)
	}
}

func TestSegmenterUnterminatedMarkerDiscarded(t *testing.T) {
	visible, followups := feed(t, "done <<never closed", 4)
	if visible != "done " {
		t.Errorf("visible = %q", visible)
	}
	if len(followups) != 0 {
		t.Errorf("followups = %v", followups)
	}
}

func TestStripFollowups(t *testing.T) {
	answer, followups := StripFollowups("Covered in full [a.pdf]. <<Next question?>>")
	if answer != "Covered in full [a.pdf]." {
		t.Errorf("answer = %q", answer)
	}
	if len(followups) != 1 || followups[0] != "Next question?" {
		t.Errorf("followups = %v", followups)
	}
}

func TestStripFollowupsDropsTrailingText(t *testing.T) {
	answer, followups := StripFollowups("Yes. <<One?>> stray tail")
	if answer != "Yes." {
		t.Errorf("answer = %q", answer)
	}
	if len(followups) != 1 || followups[0] != "One?" {
		t.Errorf("followups = %v", followups)
	}
}

func TestStripFollowupsNoMarkers(t *testing.T) {
	answer, followups := StripFollowups("plain answer")
	if answer != "plain answer" || followups != nil {
		t.Errorf("got %q, %v", answer, followups)
	}
}
