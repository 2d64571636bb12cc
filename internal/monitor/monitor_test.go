package monitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/slconnect/safeguard/internal/gate"
	"github.com/slconnect/safeguard/internal/topics"
)

func TestNewRejectsNonPositiveInterval(t *testing.T) {
	if _, err := New(gate.New(), Config{Interval: 0}); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestRunChecksInvariantsImmediately(t *testing.T) {
	g := gate.New()
	before, _ := g.Flag("enforceBoundaries")

	m, err := New(g, Config{Interval: time.Hour})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	// The first check is immediate; the hour-long interval never fires.
	deadline := time.After(2 * time.Second)
	for {
		after, _ := g.Flag("enforceBoundaries")
		if after.LastChecked.After(before.LastChecked) {
			break
		}
		select {
		case <-deadline:
			t.Fatal("invariant check did not run")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("run returned error: %v", err)
	}
}

func TestRunReloadsTopicsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "topics.yaml")
	if err := os.WriteFile(path, []byte("restricted:\n  - original phrase\n"), 0644); err != nil {
		t.Fatal(err)
	}

	g := gate.New()
	reloaded := make(chan *topics.Set, 1)
	m, err := New(g, Config{
		Interval:   time.Hour,
		TopicsPath: path,
		OnReload: func(s *topics.Set) {
			select {
			case reloaded <- s:
			default:
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	// Give the watcher a moment to attach, then rewrite the file.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("restricted:\n  - replaced phrase\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case s := <-reloaded:
		if _, hit := s.Match("a replaced phrase here"); !hit {
			t.Error("reloaded set should contain the new phrase")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reload did not fire")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	m, err := New(gate.New(), Config{Interval: 10 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop on cancel")
	}
}
