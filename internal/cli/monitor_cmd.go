package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/slconnect/safeguard/internal/monitor"
	"github.com/slconnect/safeguard/internal/topics"
)

var monitorInterval time.Duration

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 0, "Invariant check interval (default from config)")
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the safety sentinel",
	Long:  "Checks the safety flag invariants on a fixed interval and hot-reloads\nthe restricted topics file when it changes. Runs until interrupted.",
	RunE:  runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	interval := monitorInterval
	if interval <= 0 {
		interval = a.cfg.MonitorInterval
	}

	mon, err := monitor.New(a.gate, monitor.Config{
		Interval:   interval,
		TopicsPath: a.cfg.TopicsPath,
		OnReload: func(s *topics.Set) {
			a.gate.SetTopics(s)
			fmt.Fprintf(os.Stderr, "Reloaded %d restricted phrases\n", s.Len())
		},
	})
	if err != nil {
		return fmt.Errorf("create monitor: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down monitor...")
		cancel()
	}()

	fmt.Fprintf(os.Stderr, "safeguard monitor running (interval %s)\n", interval)
	fmt.Fprintf(os.Stderr, "Watching topics file: %s\n", a.cfg.TopicsPath)
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop")

	return mon.Run(ctx)
}
