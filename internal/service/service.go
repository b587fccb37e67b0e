package service

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/eugenenazirov/contacts-cli/internal/config"
	apperrors "github.com/eugenenazirov/contacts-cli/internal/errors"
)

// RedactedMarker replaces secrets in any externally visible snapshot.
const RedactedMarker = "[REDACTED]"

// DriftIntervals sets the drift polling period per environment. A zero
// period disables drift detection for that environment.
type DriftIntervals struct {
	Development time.Duration
	Staging     time.Duration
	Production  time.Duration
}

// DefaultDriftIntervals polls faster where feedback matters most.
var DefaultDriftIntervals = DriftIntervals{
	Development: 5 * time.Second,
	Staging:     30 * time.Second,
	Production:  60 * time.Second,
}

// Service is the configuration access point for the application.
type Service struct {
	manager   *config.Manager
	logger    *zap.Logger
	intervals DriftIntervals

	mu       sync.RWMutex
	current  *config.Config
	watchers []registration

	reloads      singleflight.Group
	tickWarnings rate.Sometimes

	driftMu sync.Mutex
	drift   *driftWatcher
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDriftIntervals overrides the drift polling periods.
func WithDriftIntervals(intervals DriftIntervals) Option {
	return func(s *Service) {
		s.intervals = intervals
	}
}

// New wraps manager. The service is unusable until Initialize succeeds.
func New(manager *config.Manager, opts ...Option) *Service {
	s := &Service{
		manager:      manager,
		logger:       zap.NewNop(),
		intervals:    DefaultDriftIntervals,
		tickWarnings: rate.Sometimes{First: 1, Interval: time.Minute},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Initialize loads the configuration and starts drift detection. The drift
// watcher stops when ctx is cancelled or Cleanup is called.
func (s *Service) Initialize(ctx context.Context) error {
	cfg, err := s.manager.Load()
	if err != nil {
		s.stopDrift()
		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
		return apperrors.Wrap(apperrors.SeverityCritical, "initialize configuration service", err)
	}

	s.mu.Lock()
	s.current = &cfg
	s.mu.Unlock()

	s.startDrift(ctx, cfg.Environment)

	s.logger.Info("configuration service initialized",
		zap.String("environment", string(cfg.Environment)),
		zap.Int("port", cfg.Port),
	)
	return nil
}

// Cleanup stops drift detection and drops every watcher. It is safe to call
// more than once. An in-flight load is not interrupted.
func (s *Service) Cleanup() {
	s.stopDrift()

	s.mu.Lock()
	s.watchers = nil
	s.mu.Unlock()
}

// IsHealthy reports whether both the service and its manager hold a snapshot.
func (s *Service) IsHealthy() bool {
	s.mu.RLock()
	loaded := s.current != nil
	s.mu.RUnlock()
	return loaded && s.manager.IsLoaded()
}

// Snapshot returns a copy of the current configuration.
func (s *Service) Snapshot() (config.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return config.Config{}, apperrors.New(apperrors.SeverityHigh, "configuration service not initialized")
	}
	return s.current.Clone(), nil
}

// ValidateConfig reports rule violations for the current snapshot. It never
// fails; an uninitialized service yields an invalid report.
func (s *Service) ValidateConfig() config.Report {
	cfg, err := s.Snapshot()
	if err != nil {
		return config.Report{Valid: false, Errors: []string{err.Error()}}
	}
	return config.Check(cfg)
}

// Reload re-reads the environment, swaps the snapshot and notifies watchers
// with the new configuration. Concurrent callers share a single load and
// receive the same diff; only the caller that ran the load notifies. Watchers
// run after the load has completed, so a watcher may call Reload itself. On
// failure the previous snapshot stays current.
func (s *Service) Reload(ctx context.Context) (Diff, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.SeverityHigh, "reload configuration", err)
	}

	leader := false
	v, err, shared := s.reloads.Do("reload", func() (any, error) {
		leader = true
		return s.reload()
	})
	if err != nil {
		return nil, err
	}

	res := v.(reloadResult)
	if leader {
		s.notify(res.watchers, res.next)
	}
	if shared {
		return maps.Clone(res.diff), nil
	}
	return res.diff, nil
}

// reloadResult is what one load hands to every caller sharing it.
type reloadResult struct {
	diff     Diff
	next     config.Config
	watchers []registration
}

func (s *Service) reload() (reloadResult, error) {
	next, err := s.manager.Load()
	if err != nil {
		s.logger.Warn("configuration reload failed", zap.Error(err))
		return reloadResult{}, apperrors.Wrap(apperrors.SeverityHigh, "reload configuration", err)
	}

	stored := next.Clone()
	s.mu.Lock()
	prev := s.current
	s.current = &stored
	watchers := slices.Clone(s.watchers)
	s.mu.Unlock()

	diff := diffConfigs(prev, &next)
	s.logger.Info("configuration reloaded",
		zap.Strings("changed", diff.Keys()),
		zap.Int("watchers", len(watchers)),
	)
	return reloadResult{diff: diff, next: next, watchers: watchers}, nil
}

// Redacted returns the current snapshot with the database password masked.
func (s *Service) Redacted() (config.Config, error) {
	cfg, err := s.Snapshot()
	if err != nil {
		return config.Config{}, err
	}
	return redact(cfg), nil
}

// MarshalJSON encodes the redacted snapshot.
func (s *Service) MarshalJSON() ([]byte, error) {
	cfg, err := s.Redacted()
	if err != nil {
		return nil, err
	}
	return json.Marshal(cfg)
}

func redact(cfg config.Config) config.Config {
	out := cfg.Clone()
	if out.Database != nil {
		out.Database.Password = RedactedMarker
	}
	return out
}
