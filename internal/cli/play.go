package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/sqweek/dialog"

	"github.com/subcast/subcast/internal/loader"
	"github.com/subcast/subcast/internal/logging"
	"github.com/subcast/subcast/internal/media"
	"github.com/subcast/subcast/internal/overlay"
	"github.com/subcast/subcast/internal/player"
	"github.com/subcast/subcast/internal/track"
	"github.com/subcast/subcast/internal/ui"
)

var playCmd = &cobra.Command{
	Use:   "play [media_or_subtitle_file]",
	Short: "Play a subtitle track in the terminal",
	Long: `Play a subtitle track against a wall clock, showing the active
caption as playback advances.

The argument may be a subtitle file, an http(s) URL, or a media
container. For media files the subtitles come from --subs, from a
sidecar file next to the media, or from the first embedded subtitle
stream. With no argument a native file chooser opens; cancelling it
plays the built-in sample.

Examples:
  subcast play movie.en.vtt
  subcast play movie.mkv --subs movie.en.srt
  subcast play https://example.com/captions.vtt --offset 1.5s
  subcast play episode.srt --headless --watch
  subcast play movie.en.vtt --listen :8700`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().
		StringP("subs", "s", "", "Subtitle path or URL when the argument is a media file")
	playCmd.Flags().
		Duration("offset", 0, "Delay captions by this much (negative shows them early)")
	playCmd.Flags().
		String("listen", "", "Serve the browser caption overlay on this address (e.g. :8700)")
	playCmd.Flags().
		Bool("watch", false, "Reload the subtitle file when it changes on disk")
	playCmd.Flags().
		Bool("headless", false, "Print caption changes to stdout instead of opening the TUI")
	playCmd.Flags().
		Float64("volume", 1.0, "Initial volume, 0.0 to 1.0")
	playCmd.Flags().
		Bool("paused", false, "Start paused instead of playing immediately")
	playCmd.Flags().
		Bool("no-pick", false, "Never open the file chooser when no file is given")
}

func runPlay(cmd *cobra.Command, args []string) error {
	subsFlag, _ := cmd.Flags().GetString("subs")
	offset, _ := cmd.Flags().GetDuration("offset")
	listen, _ := cmd.Flags().GetString("listen")
	watch, _ := cmd.Flags().GetBool("watch")
	headless, _ := cmd.Flags().GetBool("headless")
	volume, _ := cmd.Flags().GetFloat64("volume")
	paused, _ := cmd.Flags().GetBool("paused")
	noPick, _ := cmd.Flags().GetBool("no-pick")

	source := ""
	if len(args) > 0 {
		source = args[0]
	}
	if source == "" && !noPick {
		picked, err := pickFile()
		switch {
		case err == nil:
			source = picked
		case errors.Is(err, dialog.ErrCancelled):
			logger.Infow("No file chosen, playing the built-in sample")
		default:
			logger.Warnw("File chooser unavailable, playing the built-in sample",
				"error", err,
			)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	subsSource := source
	var mediaInfo *media.Info

	if source != "" && media.IsMediaFile(source) {
		subsSource = subsFlag

		info, err := media.Probe(ctx, source)
		if err != nil {
			logger.Warnw("Media probe failed, falling back to track duration",
				"media", source,
				"error", err,
			)
		} else {
			mediaInfo = info
		}

		if subsSource == "" {
			subsSource = findSidecar(source)
			if subsSource != "" {
				logger.Infow("Using sidecar subtitles", "subs", subsSource)
			}
		}
		if subsSource == "" && mediaInfo != nil {
			extracted, err := extractFirstStream(ctx, mediaInfo)
			if err != nil {
				return err
			}
			if extracted != "" {
				defer func() {
					_ = os.RemoveAll(filepath.Dir(extracted))
				}()
				subsSource = extracted
				// temp file, nothing will rewrite it
				watch = false
			}
		}
		if subsSource == "" {
			return fmt.Errorf(
				"no subtitles found for %s: pass --subs or extract a stream first",
				source,
			)
		}
	}

	playLog := logger
	if !headless {
		// zap writes to stderr, which would tear the alternate screen
		playLog = logging.NewNop()
	}

	p := player.New(loader.New(), playLog)
	p.SetVolume(volume)
	p.SetOffset(offset)
	if mediaInfo != nil && mediaInfo.Duration > 0 {
		p.SetDuration(mediaInfo.Duration)
	}

	p.Load(ctx, subsSource)

	st := p.Status()
	if st.LoadErr == nil && st.CueCount == 0 {
		logger.Warnw("Track has no cues", "source", sourceLabel(subsSource))
	}
	if !paused {
		p.Play()
	}

	var srv *overlay.Server
	if listen != "" {
		srv = overlay.New(playLog)
		srv.SetTrackSource(p.Track)
		go func() {
			if err := srv.ListenAndServe(listen); err != nil {
				playLog.Errorw("Overlay server failed", "error", err)
			}
		}()
		go pushStatus(ctx, p, srv)
		logger.Infow("Overlay serving", "addr", listen)
	}

	var sinks []player.Sink
	if headless {
		sinks = append(sinks, printCaption)
	}
	if srv != nil {
		sinks = append(sinks, func(cue track.Cue, active bool) {
			if active {
				srv.ShowCue(cue)
			} else {
				srv.Clear()
			}
		})
	}
	if len(sinks) > 0 {
		pump := player.NewPump(p, fanOut(sinks))
		go pump.Run(ctx, 0)
	}

	switch {
	case watch && watchable(subsSource):
		go func() {
			err := loader.Watch(ctx, subsSource, 0, func() {
				playLog.Infow("Subtitle file changed, reloading",
					"source", subsSource,
				)
				p.Load(ctx, subsSource)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				playLog.Warnw("Subtitle watch stopped", "error", err)
			}
		}()
	case watch:
		logger.Warnw("Ignoring --watch for non-local source",
			"source", sourceLabel(subsSource),
		)
	}

	if headless {
		logger.Infow("Playing",
			"source", sourceLabel(subsSource),
			"cues", st.CueCount,
			"duration", st.Duration.String(),
		)
		<-ctx.Done()
		return nil
	}

	return ui.Run(ctx, p, sourceLabel(subsSource))
}

// pickFile opens the native file chooser. The first filter is the
// dialog default.
func pickFile() (string, error) {
	return dialog.File().
		Title("Open media or subtitles").
		Filter("Subtitle files", "vtt", "srt").
		Filter("Media files", "mp4", "mkv", "webm", "mov", "avi", "mp3", "m4a", "wav", "flac").
		Load()
}

// findSidecar looks for a subtitle file next to the media file,
// preferring WebVTT over SubRip.
func findSidecar(mediaPath string) string {
	base := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	for _, ext := range []string{".vtt", ".srt"} {
		candidate := base + ext
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// extractFirstStream pulls the first embedded subtitle stream into a
// temp file so a bare media argument still plays. Returns "" when the
// container has no subtitle streams.
func extractFirstStream(ctx context.Context, info *media.Info) (string, error) {
	subs := info.Subtitles()
	if len(subs) == 0 {
		return "", nil
	}

	tempDir, err := os.MkdirTemp("", "subcast-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	logger.Infow("Extracting embedded subtitles",
		"media", info.Path,
		"codec", subs[0].Codec,
		"language", subs[0].Language,
	)

	outPath := filepath.Join(tempDir, "embedded.vtt")
	if err := media.ExtractStream(ctx, info.Path, 0, outPath); err != nil {
		_ = os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to extract embedded subtitles: %w", err)
	}
	return outPath, nil
}

// watchable reports whether the source is a local file that fsnotify
// can observe.
func watchable(source string) bool {
	if source == "" {
		return false
	}
	if strings.HasPrefix(source, "http://") ||
		strings.HasPrefix(source, "https://") {
		return false
	}
	_, err := os.Stat(source)
	return err == nil
}

// sourceLabel names a source for display; the empty source is the
// built-in sample.
func sourceLabel(source string) string {
	if source == "" {
		return "built-in sample"
	}
	return source
}

// fanOut delivers each caption transition to every sink.
func fanOut(sinks []player.Sink) player.Sink {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return func(cue track.Cue, active bool) {
		for _, s := range sinks {
			s(cue, active)
		}
	}
}

// printCaption writes caption appearances to stdout for headless use.
func printCaption(cue track.Cue, active bool) {
	if !active {
		return
	}
	text := strings.Join(track.SplitLines(cue.Text), " / ")
	fmt.Printf("%s  %s\n", track.FormatTimestamp(cue.Start), text)
}

// pushStatus mirrors player state to the overlay: immediately on a
// state, volume, mute, duration, or source change, and once per second
// while playing so the position stays fresh.
func pushStatus(ctx context.Context, p *player.Player, srv *overlay.Server) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var last overlay.PlaybackStatus
	var lastSent time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := p.Status()
			cur := overlay.PlaybackStatus{
				State:    st.State.String(),
				Position: st.Position,
				Duration: st.Duration,
				Volume:   st.Volume,
				Muted:    st.Muted,
				Source:   st.Source,
			}
			changed := cur.State != last.State ||
				cur.Volume != last.Volume ||
				cur.Muted != last.Muted ||
				cur.Duration != last.Duration ||
				cur.Source != last.Source
			if changed ||
				(st.State == player.StatePlaying && time.Since(lastSent) >= time.Second) {
				srv.SetStatus(cur)
				last = cur
				lastSent = time.Now()
			}
		}
	}
}
