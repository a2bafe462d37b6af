package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"JVMProfiler/pkg/collectors"
	"JVMProfiler/pkg/config"
	"JVMProfiler/pkg/exporting"
	"JVMProfiler/pkg/graphing"
	"JVMProfiler/pkg/logging"
	"JVMProfiler/pkg/metrics"
	"JVMProfiler/pkg/probing"
	"JVMProfiler/pkg/profiling"
)

// session is the state shared by commands that run passes.
type session struct {
	cfg      *config.Config
	logger   *zap.Logger
	profiler *profiling.Profiler
}

// newSession resolves the configuration and builds the profiler.
func newSession(cmd *cobra.Command, cfg *config.Config) (*session, error) {
	if err := cfg.Load(cmd.Flags()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		return nil, &config.ValidationError{Field: "log level", Reason: err.Error()}
	}

	meters, err := collectors.New(cfg.Meters...)
	if err != nil {
		return nil, err
	}
	host := probing.NewHost(cfg.Host, cfg.PerfDataRoot, logger)
	p, err := profiling.New(host, meters, profiling.Options{
		ConcurrencyFactor: cfg.ConcurrencyFactor,
		Fields:            cfg.Fields,
	}, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("session ready",
		zap.String("host", host.Name()),
		zap.String("root", cfg.PerfDataRoot),
		zap.Int("meters", len(meters)),
	)
	return &session{cfg: cfg, logger: logger, profiler: p}, nil
}

func (s *session) exporter(cmd *cobra.Command) (*exporting.Exporter, error) {
	exp, err := exporting.NewExporter(s.cfg.Output, s.cfg.Format, cmd.OutOrStdout())
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}
	return exp, nil
}

// writeGraph renders passes to the configured chart page, if any.
func (s *session) writeGraph(passes []*metrics.Snapshot) error {
	if s.cfg.GraphOutput == "" {
		return nil
	}
	if err := graphing.WriteFile(s.cfg.GraphOutput, passes...); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}
	s.logger.Info("graph written", zap.String("path", s.cfg.GraphOutput))
	return nil
}

func (s *session) close() {
	logging.Flush(s.logger)
}

func runMeasure(cmd *cobra.Command, cfg *config.Config) error {
	s, err := newSession(cmd, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	snap, err := s.profiler.Snapshot(cmd.Context())
	if err != nil {
		return err
	}

	exp, err := s.exporter(cmd)
	if err != nil {
		return err
	}
	if err := exp.Export(snap); err != nil {
		exp.Close()
		return err
	}
	if err := exp.Close(); err != nil {
		return fmt.Errorf("failed to close exporter: %w", err)
	}
	return s.writeGraph([]*metrics.Snapshot{snap})
}
