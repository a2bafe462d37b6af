package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"JVMProfiler/pkg/config"
	"JVMProfiler/pkg/metrics"
)

func newWatchCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Aliases: []string{"w"},
		Use:     "watch",
		Short:   "Repeat the measurement at an interval",
		Long: `Run a measurement pass every interval until interrupted with Ctrl+C
or until --count passes are done. Passes are independent of each other.

Example:
  jvmprof watch --interval 1s
  jvmprof watch --count 30 -f jsonl --output jvms.jsonl --graph jvms.html`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, cfg)
		},
	}
	cfg.AddWatchFlags(cmd.Flags())
	return cmd
}

func runWatch(cmd *cobra.Command, cfg *config.Config) error {
	s, err := newSession(cmd, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	exp, err := s.exporter(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	var passes []*metrics.Snapshot
	startTime := time.Now()
	runErr := watchPasses(ctx, cfg.Count, ticker.C, s.profiler.Snapshot, func(n int, snap *metrics.Snapshot) error {
		if err := exp.Export(snap); err != nil {
			return err
		}
		if cfg.GraphOutput != "" {
			passes = append(passes, snap)
		}
		s.logger.Debug("pass done", zap.Int("pass", n), zap.Int("targets", len(snap.Records)))
		return nil
	})

	s.logger.Info("watch complete", zap.Duration("elapsed", time.Since(startTime)))
	if err := exp.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to close exporter: %w", err)
	}
	if runErr != nil {
		return runErr
	}
	return s.writeGraph(passes)
}

// watchPasses runs count passes (0 means until ctx is done), waiting for tick
// between them, and hands each complete pass to emit. A pass that returns
// after ctx is done is incomplete and discarded.
func watchPasses(
	ctx context.Context,
	count int,
	tick <-chan time.Time,
	pass func(context.Context) (*metrics.Snapshot, error),
	emit func(n int, snap *metrics.Snapshot) error,
) error {
	for n := 0; count == 0 || n < count; n++ {
		if n > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		}
		snap, err := pass(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
		if err := emit(n+1, snap); err != nil {
			return err
		}
	}
	return nil
}
