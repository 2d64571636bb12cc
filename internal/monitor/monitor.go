// Package monitor runs the long-lived safety sentinel: a periodic
// invariant check over the gate's flags, plus fsnotify-driven hot reload
// of the restricted topics file.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/slconnect/safeguard/internal/gate"
	"github.com/slconnect/safeguard/internal/topics"
)

// ReloadFunc is called with the freshly loaded topic set after the watched
// file changes.
type ReloadFunc func(*topics.Set)

// Config holds monitor configuration.
type Config struct {
	Interval   time.Duration
	TopicsPath string
	OnReload   ReloadFunc
	Logger     *slog.Logger
}

// Monitor ticks the gate's invariant check and watches the topics file.
type Monitor struct {
	gate       *gate.Gate
	interval   time.Duration
	topicsPath string
	onReload   ReloadFunc
	logger     *slog.Logger
}

// New creates a Monitor for the given gate.
func New(g *gate.Gate, cfg Config) (*Monitor, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("monitor: interval must be positive")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		gate:       g,
		interval:   cfg.Interval,
		topicsPath: cfg.TopicsPath,
		onReload:   cfg.OnReload,
		logger:     logger,
	}, nil
}

// Run blocks until ctx is cancelled, checking invariants on every tick and
// reloading the topics file on change. The first invariant check happens
// immediately, not after the first interval.
func (m *Monitor) Run(ctx context.Context) error {
	// Nil channels block forever, which is what a monitor without a
	// watchable topics file needs.
	var events chan fsnotify.Event
	var errs chan error

	if m.topicsPath != "" {
		if _, err := os.Stat(m.topicsPath); err == nil {
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("monitor: create file watcher: %w", err)
			}
			defer watcher.Close()
			if err := watcher.Add(m.topicsPath); err != nil {
				return fmt.Errorf("monitor: watch %q: %w", m.topicsPath, err)
			}
			events = watcher.Events
			errs = watcher.Errors
		}
	}

	m.check()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Debounce: wait 500ms after last write before reloading
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			m.check()

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, m.reloadTopics)
			}

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			m.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (m *Monitor) check() {
	if !m.gate.CheckInvariants() {
		m.logger.Warn("safety invariant check failed")
	}
}

func (m *Monitor) reloadTopics() {
	s, err := topics.Load(m.topicsPath)
	if err != nil {
		m.logger.Warn("topics hot-reload failed", "path", m.topicsPath, "error", err)
		return
	}
	m.logger.Info("topics reloaded", "path", m.topicsPath, "phrases", s.Len())
	if m.onReload != nil {
		m.onReload(s)
	}
}
