package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/contacts-cli/internal/config"
)

type driftWatcher struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// startDrift replaces any running drift watcher with one polling at the
// period selected for env.
func (s *Service) startDrift(ctx context.Context, env config.Environment) {
	s.stopDrift()

	interval := config.Select(env, s.intervals.Development, s.intervals.Staging, s.intervals.Production)
	if interval <= 0 {
		s.logger.Debug("drift detection disabled", zap.String("environment", string(env)))
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &driftWatcher{cancel: cancel, done: make(chan struct{})}

	s.driftMu.Lock()
	s.drift = w
	s.driftMu.Unlock()

	go s.runDrift(ctx, interval, w.done)

	s.logger.Debug("drift detection started", zap.Duration("interval", interval))
}

// stopDrift cancels the drift watcher and waits for its goroutine. It must
// not be called from a watcher, which runs on that goroutine.
func (s *Service) stopDrift() {
	s.driftMu.Lock()
	w := s.drift
	s.drift = nil
	s.driftMu.Unlock()

	if w == nil {
		return
	}
	w.cancel()
	<-w.done
}

// runDrift ticks until ctx is done. Each tick finishes, reload included,
// before the next one is taken.
func (s *Service) runDrift(ctx context.Context, interval time.Duration, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkDrift(ctx)
		}
	}
}

func (s *Service) checkDrift(ctx context.Context) {
	cfg, err := s.Snapshot()
	if err != nil {
		return
	}

	drifted := detectDrift(s.manager.Lookup(), cfg)
	if len(drifted) == 0 {
		return
	}

	s.logger.Info("configuration drift detected", zap.Strings("variables", drifted))
	if _, err := s.Reload(ctx); err != nil {
		s.tickWarnings.Do(func() {
			s.logger.Warn("drift reload failed, keeping previous configuration",
				zap.Strings("variables", drifted),
				zap.Error(err),
			)
		})
	}
}

// detectDrift re-reads the volatile variables and returns those that no
// longer match cfg. A variable that cannot be read counts as drifted so the
// reload surfaces the error.
func detectDrift(lookup config.LookupFunc, cfg config.Config) []string {
	var drifted []string

	if env, err := config.ReadEnvironment(lookup); err != nil || env != cfg.Environment {
		drifted = append(drifted, config.EnvKeyEnvironment)
	}
	if port, err := config.ReadPort(lookup); err != nil || port != cfg.Port {
		drifted = append(drifted, config.EnvKeyPort)
	}
	if level, err := config.ReadLogLevel(lookup); err != nil || level != cfg.LogLevel {
		drifted = append(drifted, config.EnvKeyLogLevel)
	}
	return drifted
}
