package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subcast/subcast/internal/media"
	"github.com/subcast/subcast/internal/track"
)

var extractCmd = &cobra.Command{
	Use:   "extract [media_file]",
	Short: "Extract embedded subtitle streams from a media container",
	Long: `List or extract the subtitle streams embedded in a media container.

With no mode flag the streams are listed. --stream N extracts the Nth
subtitle stream (counting subtitle streams only, from 0), and --all
extracts every stream concurrently. The output codec follows the
extension: .srt writes SubRip, anything else WebVTT.

Examples:
  subcast extract movie.mkv
  subcast extract movie.mkv --stream 0 -o movie.en.vtt
  subcast extract movie.mkv --all --format srt --concurrency 2
  subcast extract movie.mkv --all --dir subs/`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		Bool("list", false, "List subtitle streams without extracting")
	extractCmd.Flags().
		Int("stream", -1, "Subtitle stream to extract (0 is the first)")
	extractCmd.Flags().
		Bool("all", false, "Extract every subtitle stream")
	extractCmd.Flags().
		StringP("output", "o", "", "Output file path for --stream")
	extractCmd.Flags().
		String("dir", ".", "Output directory for --all")
	extractCmd.Flags().
		StringP("format", "f", "vtt", "Output subtitle format (vtt, srt)")
	extractCmd.Flags().
		Int("concurrency", 4, "Number of parallel extractions for --all")
}

func runExtract(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]

	list, _ := cmd.Flags().GetBool("list")
	streamIndex, _ := cmd.Flags().GetInt("stream")
	all, _ := cmd.Flags().GetBool("all")
	outputPath, _ := cmd.Flags().GetString("output")
	dir, _ := cmd.Flags().GetString("dir")
	formatStr, _ := cmd.Flags().GetString("format")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	if !media.IsMediaFile(mediaPath) {
		return fmt.Errorf(
			"unsupported file type: %s (expected a media container)",
			filepath.Ext(mediaPath),
		)
	}

	var format track.Format
	switch strings.ToLower(formatStr) {
	case "vtt":
		format = track.FormatVTT
	case "srt":
		format = track.FormatSRT
	default:
		return fmt.Errorf("unsupported format %q: use vtt or srt", formatStr)
	}

	ctx := context.Background()

	switch {
	case all:
		return extractAllStreams(ctx, mediaPath, dir, format, concurrency)
	case streamIndex >= 0:
		return extractOneStream(ctx, mediaPath, streamIndex, outputPath, format)
	default:
		return listStreams(ctx, mediaPath, !list)
	}
}

func listStreams(ctx context.Context, mediaPath string, hint bool) error {
	info, err := media.Probe(ctx, mediaPath)
	if err != nil {
		return err
	}

	subs := info.Subtitles()
	if len(subs) == 0 {
		fmt.Printf("No embedded subtitle streams in %s\n",
			filepath.Base(mediaPath),
		)
		return nil
	}

	fmt.Printf("Subtitle streams in %s:\n", filepath.Base(mediaPath))
	for i, s := range subs {
		line := fmt.Sprintf("  %d: %s", i, s.Codec)
		if s.Language != "" {
			line += fmt.Sprintf(" [%s]", s.Language)
		}
		if s.Title != "" {
			line += " " + s.Title
		}
		fmt.Println(line)
	}
	if info.Duration > 0 {
		fmt.Printf("Duration: %s\n", track.FormatTimestamp(info.Duration))
	}
	if hint {
		fmt.Println("\nUse --stream N or --all to extract.")
	}
	return nil
}

func extractOneStream(
	ctx context.Context,
	mediaPath string,
	streamIndex int,
	outputPath string,
	format track.Format,
) error {
	if outputPath == "" {
		outputPath = defaultStreamPath(mediaPath, streamIndex, format)
	}

	logger.Infow("Extracting subtitle stream",
		"media", mediaPath,
		"stream", streamIndex,
		"output", outputPath,
	)

	if err := media.ExtractStream(ctx, mediaPath, streamIndex, outputPath); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles extracted successfully: %s\n", absOutput)
	return nil
}

func extractAllStreams(
	ctx context.Context,
	mediaPath, dir string,
	format track.Format,
	concurrency int,
) error {
	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}

	logger.Infow("Extracting all subtitle streams",
		"media", mediaPath,
		"dir", dir,
		"format", string(format),
		"concurrency", concurrency,
	)

	results, err := media.ExtractAll(ctx, mediaPath, dir, format, concurrency)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Printf("No embedded subtitle streams in %s\n",
			filepath.Base(mediaPath),
		)
		return nil
	}

	fmt.Printf("Extracted %d subtitle streams:\n", len(results))
	for _, r := range results {
		line := "  " + r.Path
		if r.Stream.Language != "" {
			line += fmt.Sprintf(" [%s]", r.Stream.Language)
		}
		fmt.Println(line)
	}
	return nil
}

// defaultStreamPath names a single-stream extraction next to the media
// file: <base>.<n>.<format>.
func defaultStreamPath(mediaPath string, streamIndex int, format track.Format) string {
	base := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	return fmt.Sprintf("%s.%d.%s", base, streamIndex, format)
}
