package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/subcast/subcast/internal/track"
)

var atCmd = &cobra.Command{
	Use:   "at [subtitle_file] [position]",
	Short: "Show the cue on screen at a playback position",
	Long: `Resolve which cue belongs on screen at the given position and print
its text.

The position is either a timestamp (HH:MM:SS or HH:MM:SS.mmm) or a
plain number of seconds. When no cue covers the position the command
exits non-zero, so it can gate scripts.

Examples:
  subcast at movie.en.vtt 00:12:03.500
  subcast at movie.srt 723.5`,
	Args: cobra.ExactArgs(2),
	RunE: runAt,
}

func init() {
	rootCmd.AddCommand(atCmd)
}

func runAt(cmd *cobra.Command, args []string) error {
	source := args[0]

	pos, err := parsePosition(args[1])
	if err != nil {
		return err
	}

	tr, err := fetchTrack(context.Background(), source)
	if err != nil {
		return err
	}

	cue, ok := tr.CueAt(pos)
	if !ok {
		return fmt.Errorf("no cue at %s", track.FormatTimestamp(pos))
	}

	fmt.Println(cue.Text)
	return nil
}

// parsePosition accepts HH:MM:SS[.mmm] timestamps or plain seconds.
func parsePosition(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if strings.Contains(s, ":") {
		d, err := track.ParseTimestamp(s)
		if err != nil {
			return 0, fmt.Errorf("invalid position %q: %w", s, err)
		}
		return d, nil
	}

	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf(
			"invalid position %q: use HH:MM:SS[.mmm] or seconds",
			s,
		)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("position cannot be negative: %s", s)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
