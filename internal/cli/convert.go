package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/subcast/subcast/internal/track"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input_file] [output_file]",
	Short: "Rewrite a subtitle track in another format",
	Long: `Parse a subtitle track and re-serialize it. The output format follows
the output extension: .srt writes SubRip, anything else WebVTT.

Malformed input is never fatal: unparseable timestamps resolve to zero
and stray lines are skipped, so conversion always produces a track.
The input may be a local file or an http(s) URL.

Examples:
  subcast convert movie.srt movie.vtt
  subcast convert https://example.com/captions.vtt local.srt`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	tr, err := fetchTrack(context.Background(), input)
	if err != nil {
		return err
	}

	logger.Infow("Converting subtitles",
		"input", input,
		"output", output,
		"cues", tr.Len(),
	)

	if err := track.WriteFile(tr, output); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(output)
	fmt.Printf("Subtitles converted successfully: %s\n", absOutput)
	fmt.Printf("  Cues: %d\n", tr.Len())
	fmt.Printf("  Format: %s\n", track.FormatFromExtension(output))

	return nil
}
