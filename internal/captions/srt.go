// Package captions derives SRT subtitles for synthesized speech from the
// script alone. Timing is estimated from word count and speaking rate; the
// audio is never analysed.
package captions

import (
	"fmt"
	"strings"
	"time"
)

const (
	// WordsPerMinute is the assumed speaking rate at speed 1.0.
	WordsPerMinute = 150
	// WordsPerCue is the maximum number of words shown at once.
	WordsPerCue = 8
)

// Cue is one subtitle entry.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// Cues splits text into consecutive cues. Speeds outside (0, 4] are treated
// as 1.0.
func Cues(text string, speed float64) []Cue {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if speed <= 0 || speed > 4 {
		speed = 1
	}
	perWord := time.Duration(float64(time.Minute) / (WordsPerMinute * speed))

	cues := make([]Cue, 0, (len(words)+WordsPerCue-1)/WordsPerCue)
	var at time.Duration
	for i := 0; i < len(words); i += WordsPerCue {
		end := min(i+WordsPerCue, len(words))
		chunk := words[i:end]
		next := at + time.Duration(len(chunk))*perWord
		cues = append(cues, Cue{
			Index: len(cues) + 1,
			Start: at,
			End:   next,
			Text:  strings.Join(chunk, " "),
		})
		at = next
	}
	return cues
}

// BuildSRT renders the cues for text in SubRip format. Empty text yields "".
func BuildSRT(text string, speed float64) string {
	var sb strings.Builder
	for _, c := range Cues(text, speed) {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n", c.Index, timestamp(c.Start), timestamp(c.End), c.Text)
	}
	return sb.String()
}

// timestamp formats d as HH:MM:SS,mmm.
func timestamp(d time.Duration) string {
	ms := d.Milliseconds()
	h := ms / 3_600_000
	ms %= 3_600_000
	m := ms / 60_000
	ms %= 60_000
	s := ms / 1000
	ms %= 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
