package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/subcast/subcast/internal/track"
)

// WrapCaption prepares cue text for display. Explicit line breaks are
// honored, and any line wider than width is split at the word
// boundary nearest its midpoint so the halves come out balanced.
func WrapCaption(text string, width int) []string {
	var out []string
	for _, line := range track.SplitLines(text) {
		out = append(out, balanceLine(line, width)...)
	}
	return out
}

func balanceLine(line string, width int) []string {
	line = strings.TrimSpace(line)
	runeCount := utf8.RuneCountInString(line)

	if width <= 0 || runeCount <= width {
		return []string{line}
	}

	words := strings.Fields(line)
	if len(words) < 2 {
		return []string{line}
	}

	// best split point: the word boundary closest to the middle
	middle := runeCount / 2
	bestSplit := 0
	bestDiff := runeCount

	currentLen := 0
	for i, word := range words[:len(words)-1] {
		currentLen += utf8.RuneCountInString(word)
		if i > 0 {
			currentLen++ // space
		}

		diff := abs(currentLen - middle)
		if diff < bestDiff {
			bestDiff = diff
			bestSplit = i + 1
		}
	}

	if bestSplit > 0 && bestSplit < len(words) {
		return []string{
			strings.Join(words[:bestSplit], " "),
			strings.Join(words[bestSplit:], " "),
		}
	}

	return []string{line}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
