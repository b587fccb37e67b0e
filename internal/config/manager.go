package config

import (
	"os"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/eugenenazirov/contacts-cli/internal/errors"
)

const privilegedPortLimit = 1024

// Manager reads, validates and stores the current configuration snapshot.
// The zero snapshot state is "unloaded"; Load is the only transition into
// "loaded" and there is no way back.
type Manager struct {
	lookup  LookupFunc
	logger  *zap.Logger
	geteuid func() int

	mu      sync.RWMutex
	current *Config
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLookup overrides the environment source (primarily for tests).
func WithLookup(lookup LookupFunc) ManagerOption {
	return func(m *Manager) {
		m.lookup = lookup
	}
}

// WithLogger sets the logger used for load warnings.
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager constructs an unloaded Manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		lookup:  OSLookup,
		logger:  zap.NewNop(),
		geteuid: os.Geteuid,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.lookup == nil {
		m.lookup = OSLookup
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	return m
}

// Lookup returns the environment source the Manager reads from.
func (m *Manager) Lookup() LookupFunc {
	return m.lookup
}

// Load reads every field, validates the candidate and swaps it in as the
// current snapshot. On failure the previous snapshot, if any, stays current.
func (m *Manager) Load() (Config, error) {
	cfg, err := m.read()
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.SeverityCritical, "load configuration", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, apperrors.Wrap(apperrors.SeverityCritical, "load configuration", err)
	}

	m.warnPrivilegedPort(cfg.Port)

	stored := cfg.Clone()
	m.mu.Lock()
	m.current = &stored
	m.mu.Unlock()

	m.logger.Debug("configuration loaded",
		zap.String("environment", string(cfg.Environment)),
		zap.String("log_level", string(cfg.LogLevel)),
		zap.Int("port", cfg.Port),
		zap.Bool("database", cfg.Database != nil),
	)

	return cfg, nil
}

// Config returns a copy of the current snapshot.
func (m *Manager) Config() (Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return Config{}, apperrors.New(apperrors.SeverityHigh, "configuration not loaded: call Load first")
	}
	return m.current.Clone(), nil
}

// IsLoaded reports whether a snapshot has been stored.
func (m *Manager) IsLoaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

func (m *Manager) read() (Config, error) {
	env, err := ReadEnvironment(m.lookup)
	if err != nil {
		return Config{}, err
	}
	level, err := ReadLogLevel(m.lookup)
	if err != nil {
		return Config{}, err
	}
	port, err := ReadPort(m.lookup)
	if err != nil {
		return Config{}, err
	}
	db, err := ReadDatabase(m.lookup)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Environment: env,
		LogLevel:    level,
		Port:        port,
		Database:    db,
		Features:    ReadFeatures(m.lookup),
	}, nil
}

// warnPrivilegedPort flags ports below 1024 when the process is not running
// as root. It never blocks the load.
func (m *Manager) warnPrivilegedPort(port int) {
	if port >= privilegedPortLimit || m.geteuid() == 0 {
		return
	}
	m.logger.Warn("port requires elevated privileges",
		zap.Int("port", port),
		zap.Stringer("severity", apperrors.SeverityLow),
	)
}
