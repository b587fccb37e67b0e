package health

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/eugenenazirov/contacts-cli/internal/config"
	"github.com/eugenenazirov/contacts-cli/internal/database"
	"github.com/eugenenazirov/contacts-cli/internal/service"
)

// Status represents the overall health
type Status string

const (
	StatusHealthy   Status = "HEALTHY"
	StatusUnhealthy Status = "UNHEALTHY"

	// DefaultProbeTimeout bounds the database ping.
	DefaultProbeTimeout = 3 * time.Second
)

// ProbeFunc checks that a database answers.
type ProbeFunc func(ctx context.Context, db config.Database) error

// DatabaseResult is the outcome of the optional database probe.
type DatabaseResult struct {
	Configured bool          `json:"configured"`
	Reachable  bool          `json:"reachable"`
	Latency    time.Duration `json:"latency,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// Report contains the results of health checks
type Report struct {
	Status      Status             `json:"status"`
	Environment config.Environment `json:"environment,omitempty"`
	Uptime      time.Duration      `json:"uptime"`
	MemoryAlloc uint64             `json:"memoryAlloc"`
	MemorySys   uint64             `json:"memorySys"`
	Goroutines  int                `json:"goroutines"`
	Database    *DatabaseResult    `json:"database,omitempty"`
}

// CheckOptions selects optional checks.
type CheckOptions struct {
	Database bool
}

// Checker runs health checks against a configuration service.
type Checker struct {
	svc     *service.Service
	started time.Time
	probe   ProbeFunc
	timeout time.Duration
	now     func() time.Time
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithProbe overrides the database probe (primarily for tests).
func WithProbe(probe ProbeFunc) CheckerOption {
	return func(c *Checker) {
		c.probe = probe
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) CheckerOption {
	return func(c *Checker) {
		c.now = now
	}
}

// WithProbeTimeout overrides DefaultProbeTimeout.
func WithProbeTimeout(d time.Duration) CheckerOption {
	return func(c *Checker) {
		c.timeout = d
	}
}

// NewChecker creates a Checker measuring uptime from started.
func NewChecker(svc *service.Service, started time.Time, opts ...CheckerOption) *Checker {
	c := &Checker{
		svc:     svc,
		started: started,
		probe:   database.Ping,
		timeout: DefaultProbeTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check performs all health checks.
func (c *Checker) Check(ctx context.Context, opts CheckOptions) Report {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	report := Report{
		Status:      StatusUnhealthy,
		Uptime:      c.now().Sub(c.started),
		MemoryAlloc: mem.Alloc,
		MemorySys:   mem.Sys,
		Goroutines:  runtime.NumGoroutine(),
	}

	healthy := c.svc.IsHealthy()
	cfg, err := c.svc.Snapshot()
	if err == nil {
		report.Environment = cfg.Environment
	}

	if opts.Database {
		report.Database = c.checkDatabase(ctx, cfg.Database)
		if report.Database.Configured && !report.Database.Reachable {
			healthy = false
		}
	}

	if healthy {
		report.Status = StatusHealthy
	}
	return report
}

func (c *Checker) checkDatabase(ctx context.Context, db *config.Database) *DatabaseResult {
	if db == nil {
		return &DatabaseResult{}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := c.now()
	err := c.probe(ctx, *db)
	result := &DatabaseResult{
		Configured: true,
		Reachable:  err == nil,
		Latency:    c.now().Sub(start),
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// FormatDuration renders an uptime in a compact human-readable form.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	} else if d < 24*time.Hour {
		hours := int(d.Hours())
		mins := int(d.Minutes()) % 60
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}

// FormatBytes renders a byte count in MiB with one decimal.
func FormatBytes(b uint64) string {
	return fmt.Sprintf("%.1f MiB", float64(b)/(1024*1024))
}
