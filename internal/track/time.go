package track

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timestampRegex = regexp.MustCompile(
	`^(\d+):(\d{1,2}):(\d{1,2})(?:[.,](\d{1,3}))?$`,
)

// ParseTimestamp parses an HH:MM:SS timestamp with an optional
// fractional part of one to three digits separated by '.' or ','.
// Short fractions are right-padded, so "00:00:01.5" is 1500ms.
func ParseTimestamp(s string) (time.Duration, error) {
	matches := timestampRegex.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return 0, fmt.Errorf("invalid timestamp: %q", s)
	}

	h, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp: %q", s)
	}
	m, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp: %q", s)
	}
	sec, err := strconv.Atoi(matches[3])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp: %q", s)
	}

	ms := 0
	if matches[4] != "" {
		frac := matches[4] + strings.Repeat("0", 3-len(matches[4]))
		ms, err = strconv.Atoi(frac)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp: %q", s)
		}
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

// FormatTimestamp renders a duration as HH:MM:SS.mmm, the canonical
// form ParseTimestamp accepts.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

func formatSRTTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
