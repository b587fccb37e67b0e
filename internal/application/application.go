package application

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/contacts-cli/internal/config"
	"github.com/eugenenazirov/contacts-cli/internal/health"
	"github.com/eugenenazirov/contacts-cli/internal/logging"
	"github.com/eugenenazirov/contacts-cli/internal/service"
)

// App encapsulates the application dependencies.
type App struct {
	service *service.Service
	health  *health.Checker
	logger  *zap.Logger
	level   zap.AtomicLevel

	levelOverride atomic.Bool

	mu          sync.Mutex
	running     bool
	unsubscribe func()
}

type options struct {
	lookup         config.LookupFunc
	level          *zap.AtomicLevel
	driftIntervals *service.DriftIntervals
	probe          health.ProbeFunc
	now            func() time.Time
}

// Option configures New.
type Option func(*options)

// WithLookup overrides the environment source (primarily for tests).
func WithLookup(lookup config.LookupFunc) Option {
	return func(o *options) {
		o.lookup = lookup
	}
}

// WithLevel shares the logger's atomic level so configuration reloads can
// adjust it.
func WithLevel(level zap.AtomicLevel) Option {
	return func(o *options) {
		o.level = &level
	}
}

// WithDriftIntervals overrides the drift polling periods.
func WithDriftIntervals(intervals service.DriftIntervals) Option {
	return func(o *options) {
		o.driftIntervals = &intervals
	}
}

// WithProbe overrides the database probe used by health checks.
func WithProbe(probe health.ProbeFunc) Option {
	return func(o *options) {
		o.probe = probe
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New wires the configuration subsystem. Nothing is loaded until Start.
func New(logger *zap.Logger, opts ...Option) *App {
	o := options{lookup: config.OSLookup, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if o.level != nil {
		level = *o.level
	}

	manager := config.NewManager(
		config.WithLookup(o.lookup),
		config.WithLogger(logger.Named("config")),
	)

	svcOpts := []service.Option{service.WithLogger(logger.Named("service"))}
	if o.driftIntervals != nil {
		svcOpts = append(svcOpts, service.WithDriftIntervals(*o.driftIntervals))
	}
	svc := service.New(manager, svcOpts...)

	checkerOpts := []health.CheckerOption{health.WithClock(o.now)}
	if o.probe != nil {
		checkerOpts = append(checkerOpts, health.WithProbe(o.probe))
	}

	started := o.now()
	return &App{
		service: svc,
		health:  health.NewChecker(svc, started, checkerOpts...),
		logger:  logger,
		level:   level,
	}
}

// Start initializes the configuration service and aligns the logger level
// with the loaded configuration. Calling Start on a running App is a no-op.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return nil
	}
	if err := a.service.Initialize(ctx); err != nil {
		return err
	}

	cfg, err := a.service.Snapshot()
	if err != nil {
		return err
	}
	if err := a.applyLevel(cfg); err != nil {
		a.logger.Warn("apply log level", zap.Error(err))
	}
	a.unsubscribe = a.service.OnConfigChange(func(cfg config.Config) error {
		return a.applyLevel(cfg)
	})
	a.running = true
	return nil
}

// Shutdown stops drift detection and releases watchers.
func (a *App) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.service.Cleanup()
	a.running = false
}

// ForceDebug pins the logger at debug level regardless of reloads.
func (a *App) ForceDebug() {
	a.levelOverride.Store(true)
	a.level.SetLevel(zapcore.DebugLevel)
	a.logger.Debug("debug logging forced")
}

func (a *App) applyLevel(cfg config.Config) error {
	if a.levelOverride.Load() {
		return nil
	}
	return logging.SetLevel(a.level, string(cfg.LogLevel))
}

// Service returns the configuration service.
func (a *App) Service() *service.Service {
	return a.service
}

// Health returns the health checker.
func (a *App) Health() *health.Checker {
	return a.health
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Level returns the logger's atomic level.
func (a *App) Level() zap.AtomicLevel {
	return a.level
}
