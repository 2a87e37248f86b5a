package player

import (
	"context"
	"testing"
	"time"

	"github.com/subcast/subcast/internal/track"
)

func TestPumpDeliversOnlyChanges(t *testing.T) {
	p, clock := newTestPlayer(t, sampleVTT)

	var got []string
	pump := NewPump(p, func(cue track.Cue, active bool) {
		if !active {
			got = append(got, "")
			return
		}
		got = append(got, cue.Text)
	})

	// position 0: no cue, display already blank, nothing delivered
	pump.Step()
	if len(got) != 0 {
		t.Fatalf("expected no deliveries at start, got %v", got)
	}

	p.Play()

	clock.Advance(2 * time.Second)
	pump.Step()
	pump.Step()
	clock.Advance(500 * time.Millisecond)
	pump.Step()

	clock.Advance(1700 * time.Millisecond) // 4.2s, in the gap
	pump.Step()

	clock.Advance(800 * time.Millisecond) // 5.0s
	pump.Step()
	pump.Step()

	want := []string{"Hello", "", "World"}
	if len(got) != len(want) {
		t.Fatalf("expected %d deliveries, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("delivery %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestPumpDeliversCueMetadata(t *testing.T) {
	p, clock := newTestPlayer(t, sampleVTT)

	var last track.Cue
	pump := NewPump(p, func(cue track.Cue, active bool) {
		last = cue
	})

	p.Play()
	clock.Advance(2 * time.Second)
	pump.Step()

	if last.Index != 1 {
		t.Errorf("expected cue index 1, got %d", last.Index)
	}
	if last.Start != time.Second || last.End != 4*time.Second {
		t.Errorf("unexpected cue bounds: %v -> %v", last.Start, last.End)
	}
}

func TestPumpRunStopsOnCancel(t *testing.T) {
	p, _ := newTestPlayer(t, sampleVTT)
	pump := NewPump(p, func(track.Cue, bool) {})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		pump.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pump did not stop after cancel")
	}
}
