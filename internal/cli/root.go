package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/subcast/subcast/internal/loader"
	"github.com/subcast/subcast/internal/logging"
	"github.com/subcast/subcast/internal/track"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "subcast",
	Short: "Subtitle player and caption timing toolkit",
	Long: `Subcast plays timed caption tracks against a wall clock.

It parses WebVTT and SRT subtitle files, resolves the cue that belongs
on screen at any playback position, and presents captions in the
terminal or on a browser overlay.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// fetchTrack loads and parses a subtitle source: a local path, an
// http(s) URL, or empty for the built-in sample. Fetching can fail;
// parsing cannot.
func fetchTrack(ctx context.Context, source string) (*track.Track, error) {
	raw, err := loader.New().Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	return track.Parse(raw), nil
}
