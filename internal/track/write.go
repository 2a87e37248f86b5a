package track

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a subtitle output format.
type Format string

const (
	FormatVTT Format = "vtt"
	FormatSRT Format = "srt"
)

// FormatFromExtension picks the output format for a path, defaulting
// to WebVTT.
func FormatFromExtension(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".srt" {
		return FormatSRT
	}
	return FormatVTT
}

// Render serializes the track in the given format.
func Render(t *Track, format Format) (string, error) {
	switch format {
	case FormatSRT:
		return RenderSRT(t), nil
	case FormatVTT:
		return RenderVTT(t), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// RenderVTT returns the track as WebVTT text. Cue settings survive
// the round trip; indexes are written as cue identifiers.
func RenderVTT(t *Track) string {
	var sb strings.Builder

	sb.WriteString("WEBVTT\n\n")

	for _, cue := range t.Cues {
		sb.WriteString(fmt.Sprintf("%d\n", cue.Index))
		sb.WriteString(fmt.Sprintf("%s %s %s",
			FormatTimestamp(cue.Start), arrow, FormatTimestamp(cue.End)))
		if cue.Settings != "" {
			sb.WriteString(" " + cue.Settings)
		}
		sb.WriteString("\n")
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// RenderSRT returns the track as SubRip text. Settings have no SubRip
// equivalent and are dropped.
func RenderSRT(t *Track) string {
	var sb strings.Builder

	for _, cue := range t.Cues {
		sb.WriteString(fmt.Sprintf("%d\n", cue.Index))
		sb.WriteString(fmt.Sprintf("%s %s %s\n",
			formatSRTTime(cue.Start), arrow, formatSRTTime(cue.End)))
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// WriteFile writes the track to path, creating parent directories.
// The format follows the extension.
func WriteFile(t *Track, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	out, err := Render(t, FormatFromExtension(path))
	if err != nil {
		return err
	}

	return os.WriteFile(path, []byte(out), 0644)
}
