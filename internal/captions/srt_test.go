package captions

import (
	"strings"
	"testing"
	"time"
)

func TestCuesCoverEveryWordInOrder(t *testing.T) {
	text := "one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen seventeen"
	cues := Cues(text, 1)
	if len(cues) != 3 {
		t.Fatalf("got %d cues, want 3", len(cues))
	}

	var joined []string
	var prevEnd time.Duration
	for i, c := range cues {
		if c.Index != i+1 {
			t.Errorf("cue %d has index %d", i, c.Index)
		}
		if c.Start != prevEnd || c.End <= c.Start {
			t.Errorf("cue %d timing %v-%v not monotonic after %v", i, c.Start, c.End, prevEnd)
		}
		prevEnd = c.End
		joined = append(joined, c.Text)
	}
	if strings.Join(joined, " ") != text {
		t.Errorf("cues do not reproduce the text: %q", strings.Join(joined, " "))
	}
	// 17 words at 150 wpm is 6.8 seconds.
	if prevEnd != 6800*time.Millisecond {
		t.Errorf("total duration = %v, want 6.8s", prevEnd)
	}
}

func TestCuesSpeed(t *testing.T) {
	normal := Cues("a b c d e f g h", 1)
	fast := Cues("a b c d e f g h", 2)
	if fast[0].End*2 != normal[0].End {
		t.Errorf("double speed should halve duration: %v vs %v", fast[0].End, normal[0].End)
	}
	if got := Cues("a b", -1)[0].End; got != Cues("a b", 1)[0].End {
		t.Errorf("invalid speed should fall back to 1.0, got %v", got)
	}
}

func TestBuildSRT(t *testing.T) {
	got := BuildSRT("Open day is Saturday at ten in the main hall", 1)
	want := "1\n00:00:00,000 --> 00:00:03,200\nOpen day is Saturday at ten in the\n\n" +
		"2\n00:00:03,200 --> 00:00:04,000\nmain hall\n\n"
	if got != want {
		t.Errorf("BuildSRT:\n%q\nwant\n%q", got, want)
	}
	if BuildSRT("   ", 1) != "" {
		t.Error("blank text should produce no captions")
	}
}

func TestTimestamp(t *testing.T) {
	d := time.Hour + 2*time.Minute + 3*time.Second + 45*time.Millisecond
	if got := timestamp(d); got != "01:02:03,045" {
		t.Errorf("timestamp = %q", got)
	}
}
