package track

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const arrow = "-->"

// Parse converts raw subtitle text into a Track. Parsing is total:
// unrecognized blocks are skipped and malformed timestamps resolve to
// zero, so any input yields a (possibly empty) track rather than an
// error. The lenient timing grammar means SubRip input parses too,
// its sequence numbers being taken for cue identifiers.
func Parse(raw string) *Track {
	raw = strings.TrimPrefix(raw, "\uFEFF")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	lines := strings.Split(raw, "\n")

	i := 0

	// the header line and its metadata run through the first blank line
	if len(lines) > 0 && isHeader(lines[0]) {
		i = 1
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			i++
		}
	}

	var cues []Cue
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		if line == "" {
			i++
			continue
		}

		if isComment(line) {
			i = skipBlock(lines, i)
			continue
		}

		if !strings.Contains(line, arrow) {
			// optional cue identifier; a timing line must follow or
			// the whole block is dropped
			i++
			if i >= len(lines) || !strings.Contains(lines[i], arrow) {
				i = skipBlock(lines, i)
				continue
			}
		}

		start, end, settings := parseTimingLine(lines[i])
		i++

		var text []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			text = append(text, lines[i])
			i++
		}

		cues = append(cues, Cue{
			Start:    start,
			End:      end,
			Text:     strings.Join(text, "\n"),
			Settings: settings,
		})
	}

	return New(cues)
}

// ParseFile reads and parses a subtitle file. Only the read itself
// can fail.
func ParseFile(path string) (*Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}
	return Parse(string(data)), nil
}

func isHeader(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && strings.EqualFold(fields[0], "WEBVTT")
}

func isComment(line string) bool {
	return line == "NOTE" ||
		strings.HasPrefix(line, "NOTE ") ||
		strings.HasPrefix(line, "NOTE\t")
}

func skipBlock(lines []string, i int) int {
	for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
		i++
	}
	return i
}

func parseTimingLine(line string) (start, end time.Duration, settings string) {
	parts := strings.SplitN(line, arrow, 2)
	start = timeOrZero(parts[0])

	rest := strings.Fields(parts[1])
	if len(rest) > 0 {
		end = timeOrZero(rest[0])
		settings = strings.Join(rest[1:], " ")
	}
	return start, end, settings
}

// malformed tokens resolve to zero rather than failing the parse
func timeOrZero(token string) time.Duration {
	d, err := ParseTimestamp(token)
	if err != nil {
		return 0
	}
	return d
}
