package cli

import (
	"context"
	"fmt"
	"sync"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/contacts-cli/internal/config"
	apperrors "github.com/eugenenazirov/contacts-cli/internal/errors"
	"github.com/eugenenazirov/contacts-cli/internal/health"
	"github.com/eugenenazirov/contacts-cli/internal/service"
	"github.com/eugenenazirov/contacts-cli/internal/version"
)

func (c *CLI) runConfig(ctx context.Context, rawFormat string, validate bool) error {
	format, err := parseFormat(rawFormat)
	if err != nil {
		return err
	}

	startErr := c.app.Start(ctx)
	if validate {
		report := c.app.Service().ValidateConfig()
		if startErr != nil {
			report = config.Report{Valid: false, Errors: []string{startErr.Error()}}
		}
		if format == formatTable {
			if err := writeReportTable(c.stdout, report); err != nil {
				return err
			}
		} else if err := writeStructured(c.stdout, format, report); err != nil {
			return err
		}
		return startErr
	}
	if startErr != nil {
		return startErr
	}

	cfg, err := c.app.Service().Redacted()
	if err != nil {
		return err
	}
	if format == formatTable {
		return writeConfigTable(c.stdout, cfg)
	}
	return writeStructured(c.stdout, format, cfg)
}

func (c *CLI) runHealth(ctx context.Context, verbose, checkDB bool) error {
	startErr := c.app.Start(ctx)
	report := c.app.Health().Check(ctx, health.CheckOptions{Database: checkDB})

	fmt.Fprintln(c.stdout, report.Status)
	if verbose {
		tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
		env := string(report.Environment)
		if env == "" {
			env = "unknown"
		}
		fmt.Fprintf(tw, "  Environment:\t%s\n", env)
		fmt.Fprintf(tw, "  Uptime:\t%s\n", health.FormatDuration(report.Uptime))
		fmt.Fprintf(tw, "  Memory:\t%s allocated, %s reserved\n",
			health.FormatBytes(report.MemoryAlloc), health.FormatBytes(report.MemorySys))
		fmt.Fprintf(tw, "  Goroutines:\t%d\n", report.Goroutines)
		if db := report.Database; db != nil {
			fmt.Fprintf(tw, "  Database:\t%s\n", describeDatabase(db))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if report.Status == health.StatusHealthy {
		return nil
	}
	if startErr != nil {
		return apperrors.Wrap(apperrors.SeverityHigh, "service unhealthy", startErr)
	}
	return apperrors.New(apperrors.SeverityHigh, "service unhealthy")
}

func describeDatabase(db *health.DatabaseResult) string {
	switch {
	case !db.Configured:
		return "not configured"
	case db.Reachable:
		return fmt.Sprintf("reachable (%s)", db.Latency.Round(time.Millisecond))
	default:
		return "unreachable: " + db.Error
	}
}

func (c *CLI) runVersion() error {
	info := version.Get()
	tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s %s\n", Name, info.Version)
	fmt.Fprintf(tw, "  Commit:\t%s\n", info.Commit)
	fmt.Fprintf(tw, "  Built:\t%s\n", info.BuildTime)
	fmt.Fprintf(tw, "  Go:\t%s\n", info.GoVersion)
	fmt.Fprintf(tw, "  Platform:\t%s\n", info.Platform)
	return tw.Flush()
}

func (c *CLI) runStart(ctx context.Context, rawPort string, daemon bool) error {
	if err := c.app.Start(ctx); err != nil {
		return err
	}
	cfg, err := c.app.Service().Snapshot()
	if err != nil {
		return err
	}

	port := cfg.Port
	if rawPort != "" {
		port, err = config.ReadPort(config.MapLookup(map[string]string{config.EnvKeyPort: rawPort}))
		if err != nil {
			return err
		}
	}
	mode := "foreground"
	if daemon {
		mode = "daemon"
	}

	tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Starting %s %s\n", Name, version.Version)
	fmt.Fprintf(tw, "  Environment:\t%s\n", cfg.Environment)
	fmt.Fprintf(tw, "  Port:\t%d\n", port)
	fmt.Fprintf(tw, "  Mode:\t%s\n", mode)
	fmt.Fprintf(tw, "  Log level:\t%s\n", cfg.LogLevel)
	if err := tw.Flush(); err != nil {
		return err
	}

	c.app.Logger().Info("start requested",
		zap.Int("port", port),
		zap.Bool("daemon", daemon),
	)
	return nil
}

func (c *CLI) runDev(ctx context.Context, watch, debug bool) error {
	if err := c.app.Start(ctx); err != nil {
		return err
	}
	if debug {
		c.app.ForceDebug()
	}
	cfg, err := c.app.Service().Snapshot()
	if err != nil {
		return err
	}

	debugMode := "disabled"
	if cfg.Features.EnableDebugMode {
		debugMode = "enabled"
	}
	tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Development mode")
	fmt.Fprintf(tw, "  Environment:\t%s\n", cfg.Environment)
	fmt.Fprintf(tw, "  Port:\t%d\n", cfg.Port)
	fmt.Fprintf(tw, "  Log level:\t%s\n", c.app.Level().Level())
	fmt.Fprintf(tw, "  Debug mode:\t%s\n", debugMode)
	if err := tw.Flush(); err != nil {
		return err
	}

	if !watch {
		return nil
	}
	return c.watch(ctx, cfg)
}

// watch reloads on every tick and prints each change until ctx is done.
// Changes applied by drift detection are reported too, since the printer
// is a watcher and compares against the last configuration it saw.
func (c *CLI) watch(ctx context.Context, initial config.Config) error {
	svc := c.app.Service()

	var mu sync.Mutex
	last := initial
	unsubscribe := svc.OnConfigChange(func(next config.Config) error {
		mu.Lock()
		defer mu.Unlock()

		diff := service.Compare(last, next)
		last = next
		for _, key := range diff.Keys() {
			change := diff[service.Key(key)]
			fmt.Fprintf(c.stdout, "changed %s: %s -> %s\n",
				key, describeValue(change.Old), describeValue(change.New))
		}
		return nil
	})
	defer unsubscribe()

	// Watchers may print from the drift goroutine; every write holds mu.
	c.printLocked(&mu, "Watching for configuration changes every %s (Ctrl+C to stop)\n", c.watchInterval)

	ticker := time.NewTicker(c.watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.printLocked(&mu, "Stopped watching\n")
			return nil
		case <-ticker.C:
			if _, err := svc.Reload(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				mu.Lock()
				fmt.Fprintf(c.stderr, "warning: %v\n", err)
				mu.Unlock()
			}
		}
	}
}

func (c *CLI) printLocked(mu *sync.Mutex, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(c.stdout, format, args...)
}
