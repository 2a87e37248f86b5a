package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/subcast/subcast/internal/player"
	"github.com/subcast/subcast/internal/track"
)

func TestFindSidecar(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "movie.mkv")

	if got := findSidecar(mediaPath); got != "" {
		t.Errorf("expected no sidecar, got %q", got)
	}

	srtPath := filepath.Join(dir, "movie.srt")
	if err := os.WriteFile(srtPath, []byte("1\n00:00:01,000 --> 00:00:02,000\nHi\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if got := findSidecar(mediaPath); got != srtPath {
		t.Errorf("expected %q, got %q", srtPath, got)
	}

	// a WebVTT sidecar wins over SubRip
	vttPath := filepath.Join(dir, "movie.vtt")
	if err := os.WriteFile(vttPath, []byte("WEBVTT\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if got := findSidecar(mediaPath); got != vttPath {
		t.Errorf("expected %q, got %q", vttPath, got)
	}
}

func TestWatchable(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "subs.vtt")
	if err := os.WriteFile(local, []byte("WEBVTT\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{"local file", local, true},
		{"missing file", filepath.Join(dir, "gone.vtt"), false},
		{"http url", "http://example.com/subs.vtt", false},
		{"https url", "https://example.com/subs.vtt", false},
		{"built-in sample", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := watchable(tt.source); got != tt.want {
				t.Errorf("watchable(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestFanOutDeliversToAllSinks(t *testing.T) {
	var first, second []string
	sink := fanOut([]player.Sink{
		func(cue track.Cue, active bool) {
			first = append(first, cue.Text)
		},
		func(cue track.Cue, active bool) {
			second = append(second, cue.Text)
		},
	})

	sink(track.Cue{Text: "Hello"}, true)
	sink(track.Cue{}, false)

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected both sinks to see 2 deliveries, got %d and %d",
			len(first), len(second))
	}
	if first[0] != "Hello" || second[0] != "Hello" {
		t.Errorf("expected both sinks to see the cue text")
	}
}
