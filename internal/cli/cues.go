package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subcast/subcast/internal/track"
)

var cuesCmd = &cobra.Command{
	Use:   "cues [subtitle_file]",
	Short: "Print the cue table for a subtitle track",
	Long: `Parse a subtitle track and print every cue with its index, timing,
settings, and text.

The track may be a local file, an http(s) URL, or omitted entirely to
inspect the built-in sample. Pass --json for machine-readable output
with start and end in seconds.

Examples:
  subcast cues movie.en.vtt
  subcast cues https://example.com/captions.vtt
  subcast cues movie.srt --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCues,
}

func init() {
	rootCmd.AddCommand(cuesCmd)

	cuesCmd.Flags().Bool("json", false, "Emit cues as JSON")
}

func runCues(cmd *cobra.Command, args []string) error {
	source := ""
	if len(args) > 0 {
		source = args[0]
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	tr, err := fetchTrack(context.Background(), source)
	if err != nil {
		return err
	}

	if asJSON {
		return printCuesJSON(tr)
	}

	for _, c := range tr.Cues {
		line := fmt.Sprintf("%4d  %s --> %s",
			c.Index,
			track.FormatTimestamp(c.Start),
			track.FormatTimestamp(c.End),
		)
		if c.Settings != "" {
			line += "  [" + c.Settings + "]"
		}
		fmt.Println(line)
		for _, l := range track.SplitLines(c.Text) {
			fmt.Printf("      %s\n", l)
		}
	}

	fmt.Printf("\n%d cues, %s total\n",
		tr.Len(),
		track.FormatTimestamp(tr.Duration()),
	)
	return nil
}

type cueJSON struct {
	Index    int     `json:"index"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Text     string  `json:"text"`
	Settings string  `json:"settings,omitempty"`
}

func printCuesJSON(tr *track.Track) error {
	cues := make([]cueJSON, 0, tr.Len())
	for _, c := range tr.Cues {
		cues = append(cues, cueJSON{
			Index:    c.Index,
			Start:    c.Start.Seconds(),
			End:      c.End.Seconds(),
			Text:     c.Text,
			Settings: c.Settings,
		})
	}

	out, err := json.MarshalIndent(cues, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cues: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
