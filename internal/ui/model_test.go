package ui

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/subcast/subcast/internal/player"
)

const sampleVTT = "WEBVTT\n\n00:00:01.000 --> 00:00:04.000\nHello\n\n00:00:04.500 --> 00:00:07.000\nWorld\n"

type fetcherFunc func(ctx context.Context, source string) (string, error)

func (f fetcherFunc) Fetch(ctx context.Context, source string) (string, error) {
	return f(ctx, source)
}

func newTestModel(t *testing.T) (Model, *player.Player) {
	t.Helper()
	p := player.New(fetcherFunc(func(ctx context.Context, source string) (string, error) {
		return sampleVTT, nil
	}), nil)
	p.Load(context.Background(), "test.vtt")
	return NewModel(context.Background(), p, "test.vtt"), p
}

func TestKeyControls(t *testing.T) {
	m, p := newTestModel(t)

	key := func(k tea.KeyMsg) {
		next, _ := m.Update(k)
		m = next.(Model)
	}

	// seeks run against the paused clock, so positions are exact
	key(tea.KeyMsg{Type: tea.KeyRight})
	if got := p.Position(); got != 5*time.Second {
		t.Errorf("right: expected position 5s, got %v", got)
	}

	key(tea.KeyMsg{Type: tea.KeyShiftRight})
	if got := p.Position(); got != 7*time.Second {
		t.Errorf("shift+right: expected clamp to 7s, got %v", got)
	}

	key(tea.KeyMsg{Type: tea.KeyLeft})
	if got := p.Position(); got != 2*time.Second {
		t.Errorf("left: expected position 2s, got %v", got)
	}

	key(tea.KeyMsg{Type: tea.KeyShiftLeft})
	if got := p.Position(); got != 0 {
		t.Errorf("shift+left: expected clamp to 0, got %v", got)
	}

	key(tea.KeyMsg{Type: tea.KeySpace})
	if p.State() != player.StatePlaying {
		t.Errorf("space: expected playing, got %s", p.State())
	}
	key(tea.KeyMsg{Type: tea.KeySpace})
	if p.State() != player.StatePaused {
		t.Errorf("space again: expected paused, got %s", p.State())
	}

	key(tea.KeyMsg{Type: tea.KeyDown})
	if got := p.Status().Volume; math.Abs(got-0.9) > 1e-9 {
		t.Errorf("down: expected volume 0.9, got %v", got)
	}
	key(tea.KeyMsg{Type: tea.KeyUp})
	if got := p.Status().Volume; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("up: expected volume 1.0, got %v", got)
	}

	key(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	if !p.Status().Muted {
		t.Error("m: expected muted")
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)

	keys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	}
	for _, k := range keys {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected QuitMsg, got %T", k.String(), cmd())
		}
	}
}

func TestReloadKey(t *testing.T) {
	m, p := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Fatal("expected reload command")
	}
	if _, ok := cmd().(reloadedMsg); !ok {
		t.Error("expected reloadedMsg from reload command")
	}
	if got := p.Track().Len(); got != 2 {
		t.Errorf("expected 2 cues after reload, got %d", got)
	}
}

func TestWindowSize(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	if m.width != 120 || m.height != 40 {
		t.Errorf("expected 120x40, got %dx%d", m.width, m.height)
	}
	if m.bar.Width != 90 {
		t.Errorf("expected bar width 90, got %d", m.bar.Width)
	}
}

func TestViewShowsTransport(t *testing.T) {
	m, p := newTestModel(t)
	p.Seek(2 * time.Second)

	view := m.View()

	if !strings.Contains(view, "00:00:02.000") {
		t.Error("expected position in view")
	}
	if !strings.Contains(view, "00:00:07.000") {
		t.Error("expected duration in view")
	}
	if !strings.Contains(view, "Hello") {
		t.Error("expected active caption in view")
	}
	if !strings.Contains(view, "2 cues") {
		t.Error("expected cue count in view")
	}
}
