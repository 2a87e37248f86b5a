package track

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRenderVTTRoundTrip(t *testing.T) {
	orig := New([]Cue{
		{Start: sec(1), End: sec(4), Text: "Hello, world!"},
		{Start: 5500 * time.Millisecond, End: 8200 * time.Millisecond, Text: "Two\nlines", Settings: "align:start position:10%"},
	})

	reparsed := Parse(RenderVTT(orig))
	if reparsed.Len() != orig.Len() {
		t.Fatalf("expected %d cues, got %d", orig.Len(), reparsed.Len())
	}

	for i := range orig.Cues {
		want, got := orig.Cues[i], reparsed.Cues[i]
		if got.Start != want.Start || got.End != want.End {
			t.Errorf("cue %d: expected [%v,%v), got [%v,%v)",
				i, want.Start, want.End, got.Start, got.End)
		}
		if got.Text != want.Text {
			t.Errorf("cue %d: expected text %q, got %q", i, want.Text, got.Text)
		}
		if got.Settings != want.Settings {
			t.Errorf("cue %d: expected settings %q, got %q", i, want.Settings, got.Settings)
		}
	}
}

func TestRenderVTTEmpty(t *testing.T) {
	if got := RenderVTT(New(nil)); got != "WEBVTT\n\n" {
		t.Errorf("expected bare header, got %q", got)
	}
}

func TestRenderSRT(t *testing.T) {
	tr := New([]Cue{
		{Start: sec(1), End: sec(4), Text: "Hello, world!"},
		{Start: 5500 * time.Millisecond, End: 8200 * time.Millisecond, Text: "Line one\nLine two"},
	})

	want := "1\n" +
		"00:00:01,000 --> 00:00:04,000\n" +
		"Hello, world!\n\n" +
		"2\n" +
		"00:00:05,500 --> 00:00:08,200\n" +
		"Line one\nLine two\n\n"

	if got := RenderSRT(tr); got != want {
		t.Errorf("expected:\n%q\ngot:\n%q", want, got)
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	_, err := Render(New(nil), Format("ass"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected 'unsupported' in error, got: %v", err)
	}
}

func TestFormatFromExtension(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"out.srt", FormatSRT},
		{"out.SRT", FormatSRT},
		{"out.vtt", FormatVTT},
		{"out.txt", FormatVTT},
		{"noext", FormatVTT},
	}

	for _, tt := range tests {
		if got := FormatFromExtension(tt.path); got != tt.want {
			t.Errorf("FormatFromExtension(%q): expected %s, got %s", tt.path, tt.want, got)
		}
	}
}

func TestWriteFile(t *testing.T) {
	tr := New([]Cue{
		{Start: 1 * time.Second, End: 2 * time.Second, Text: "On disk"},
	})

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "out.srt")
	if err := WriteFile(tr, path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "00:00:01,000 --> 00:00:02,000") {
		t.Errorf("expected SRT timing line in output, got:\n%s", data)
	}

	vttPath := filepath.Join(tmpDir, "out.vtt")
	if err := WriteFile(tr, vttPath); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err = os.ReadFile(vttPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "WEBVTT\n") {
		t.Errorf("expected WEBVTT header, got:\n%s", data)
	}
}
