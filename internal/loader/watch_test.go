package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchDetectsRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.vtt")
	if err := os.WriteFile(path, []byte("WEBVTT\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 20*time.Millisecond, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// rewrite until the watcher reports the change, since the watch
	// may not be registered before the first write lands
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

waiting:
	for {
		select {
		case <-changed:
			break waiting
		case <-deadline:
			t.Fatal("watcher never reported the rewrite")
		case <-tick.C:
			if err := os.WriteFile(path, []byte("WEBVTT\n\n"), 0644); err != nil {
				t.Fatalf("failed to rewrite test file: %v", err)
			}
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "subs.vtt")

	err := Watch(context.Background(), path, 0, func() {})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
