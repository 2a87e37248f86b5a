package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/subcast/subcast/internal/ffmpeg"
	"github.com/subcast/subcast/internal/track"
)

// Extracted pairs a subtitle stream with the file it was written to.
type Extracted struct {
	Stream Stream
	Path   string
}

// ExtractStream writes one embedded subtitle stream to outPath. The
// index counts subtitle streams only, so 0 is the first subtitle
// stream regardless of how video and audio streams are laid out. The
// output codec follows the extension: .srt writes SubRip, anything
// else WebVTT.
func ExtractStream(ctx context.Context, mediaPath string, streamIndex int, outPath string) error {
	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("media file not found: %s", mediaPath)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	kwargs := ffmpeg.KwArgs{
		"map": fmt.Sprintf("0:s:%d", streamIndex),
		"y":   "",
	}
	switch track.FormatFromExtension(outPath) {
	case track.FormatSRT:
		kwargs["c:s"] = "srt"
	default:
		kwargs["c:s"] = "webvtt"
	}

	err = ffmpeg.Input(mediaPath).
		Output(outPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()

	if err != nil {
		return fmt.Errorf("subtitle extraction failed: %w", err)
	}

	return nil
}

// ExtractAll writes every embedded subtitle stream under dir with
// configurable concurrency, naming files <base>.<n>[.<lang>].<format>.
// If concurrency is 0 or negative, it defaults to 4 concurrent
// workers.
func ExtractAll(
	ctx context.Context,
	mediaPath, dir string,
	format track.Format,
	concurrency int,
) ([]Extracted, error) {
	if concurrency <= 0 {
		concurrency = 4
	}

	info, err := Probe(ctx, mediaPath)
	if err != nil {
		return nil, err
	}

	subs := info.Subtitles()
	if len(subs) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := strings.TrimSuffix(
		filepath.Base(mediaPath),
		filepath.Ext(mediaPath),
	)

	type job struct {
		ordinal int
		stream  Stream
		path    string
	}

	var jobs []job
	for i, s := range subs {
		name := fmt.Sprintf("%s.%d", base, i)
		if s.Language != "" {
			name += "." + s.Language
		}
		name += "." + string(format)

		jobs = append(jobs, job{
			ordinal: i,
			stream:  s,
			path:    filepath.Join(dir, name),
		})
	}

	var (
		mu       sync.Mutex
		results  []Extracted
		firstErr error
		wg       sync.WaitGroup
	)

	sem := make(chan struct{}, concurrency)

	for _, j := range jobs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mu.Lock()
		hasErr := firstErr != nil
		mu.Unlock()
		if hasErr {
			break
		}

		wg.Add(1)
		go func(j job) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				return
			default:
			}

			mu.Lock()
			hasErr := firstErr != nil
			mu.Unlock()
			if hasErr {
				return
			}

			err := ExtractStream(ctx, mediaPath, j.ordinal, j.path)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf(
						"failed to extract stream %d: %w",
						j.ordinal,
						err,
					)
				}
				return
			}

			results = append(results, Extracted{Stream: j.stream, Path: j.path})
		}(j)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	// restore container order after concurrent completion
	sort.Slice(results, func(i, j int) bool {
		return results[i].Stream.Index < results[j].Stream.Index
	})

	return results, nil
}
