package track

import (
	"sort"
	"strings"
	"time"
)

// Cue is a single timed caption interval. Start is inclusive, End
// exclusive. Settings carries any trailing tokens from the timing
// line verbatim; the player never interprets them.
type Cue struct {
	Index    int
	Start    time.Duration
	End      time.Duration
	Text     string
	Settings string
}

// Track is an immutable set of cues sorted ascending by start time.
// Build one with New (or Parse) and treat it as a snapshot: loading a
// new source replaces the whole Track rather than mutating it.
type Track struct {
	Cues []Cue

	// maxEnd[i] is the largest End among Cues[0..i]. Lets CueAt stop
	// its backward walk as soon as no earlier cue can still cover pos.
	maxEnd []time.Duration
}

// New builds a Track from cues in any order. The slice is sorted
// stably by start time (equal starts keep their relative order) and
// indexes are renumbered from 1.
func New(cues []Cue) *Track {
	sort.SliceStable(cues, func(i, j int) bool {
		return cues[i].Start < cues[j].Start
	})

	maxEnd := make([]time.Duration, len(cues))
	var running time.Duration
	for i := range cues {
		cues[i].Index = i + 1
		if i == 0 || cues[i].End > running {
			running = cues[i].End
		}
		maxEnd[i] = running
	}

	return &Track{Cues: cues, maxEnd: maxEnd}
}

func (t *Track) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Cues)
}

// Duration returns the end of the last-ending cue, or zero for an
// empty track.
func (t *Track) Duration() time.Duration {
	if t.Len() == 0 {
		return 0
	}
	return t.maxEnd[len(t.maxEnd)-1]
}

// CueAt returns the cue active at pos: the earliest-starting cue with
// Start <= pos < End. Equivalent to a linear scan over the sorted
// cues returning the first hit, so overlapping cues resolve to the
// one that starts first.
func (t *Track) CueAt(pos time.Duration) (Cue, bool) {
	if t.Len() == 0 || pos < 0 {
		return Cue{}, false
	}

	// first index whose start is past pos; only cues before it can match
	i := sort.Search(len(t.Cues), func(j int) bool {
		return t.Cues[j].Start > pos
	})

	best := -1
	for j := i - 1; j >= 0 && t.maxEnd[j] > pos; j-- {
		if pos < t.Cues[j].End {
			best = j
		}
	}
	if best < 0 {
		return Cue{}, false
	}
	return t.Cues[best], true
}

// ActiveText returns the text of the cue active at pos, or "" when no
// cue covers it.
func (t *Track) ActiveText(pos time.Duration) string {
	c, ok := t.CueAt(pos)
	if !ok {
		return ""
	}
	return c.Text
}

// SplitLines breaks cue text into display lines. Runs of consecutive
// line breaks count as one separator, so blank interior lines never
// produce empty display lines.
func SplitLines(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
}
