package service

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/eugenenazirov/contacts-cli/internal/config"
)

func TestDetectDrift(t *testing.T) {
	cfg := config.Config{Environment: config.EnvDevelopment, LogLevel: config.LogLevelInfo, Port: 3000}

	tests := []struct {
		name string
		vars map[string]string
		want []string
	}{
		{"defaults match", nil, nil},
		{"explicit values match", map[string]string{config.EnvKeyEnvironment: "development", config.EnvKeyPort: "3000"}, nil},
		{"port changed", map[string]string{config.EnvKeyPort: "4000"}, []string{config.EnvKeyPort}},
		{"unreadable port", map[string]string{config.EnvKeyPort: "x"}, []string{config.EnvKeyPort}},
		{
			"all changed",
			map[string]string{config.EnvKeyEnvironment: "staging", config.EnvKeyPort: "1", config.EnvKeyLogLevel: "debug"},
			[]string{config.EnvKeyEnvironment, config.EnvKeyPort, config.EnvKeyLogLevel},
		},
		{"database changes are not polled", map[string]string{config.EnvKeyDatabaseHost: "db"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectDrift(config.MapLookup(tt.vars), cfg)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("detectDrift() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDriftTriggersReload(t *testing.T) {
	env := newTestEnv(nil)
	s := initialized(t, env, WithDriftIntervals(DriftIntervals{Development: 10 * time.Millisecond}))

	changed := make(chan int, 4)
	s.OnConfigChange(func(cfg config.Config) error {
		changed <- cfg.Port
		return nil
	})

	env.Set(config.EnvKeyPort, "4000")

	select {
	case port := <-changed:
		if port != 4000 {
			t.Fatalf("watcher saw port %d, want 4000", port)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("drift detection did not reload")
	}
}

func TestDriftSurvivesFailedReload(t *testing.T) {
	env := newTestEnv(nil)
	s := initialized(t, env, WithDriftIntervals(DriftIntervals{Development: 10 * time.Millisecond}))

	changed := make(chan int, 4)
	s.OnConfigChange(func(cfg config.Config) error {
		changed <- cfg.Port
		return nil
	})

	env.Set(config.EnvKeyPort, "0")
	time.Sleep(50 * time.Millisecond)

	port, err := Value[int](s, KeyPort)
	if err != nil || port != config.DefaultPort {
		t.Fatalf("failed drift reload replaced the snapshot: %d, %v", port, err)
	}

	env.Set(config.EnvKeyPort, "5000")
	select {
	case port := <-changed:
		if port != 5000 {
			t.Fatalf("watcher saw port %d, want 5000", port)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("drift detection stopped after a failed reload")
	}
}

func TestCleanupStopsDrift(t *testing.T) {
	env := newTestEnv(nil)
	s := initialized(t, env, WithDriftIntervals(DriftIntervals{Development: 10 * time.Millisecond}))
	s.Cleanup()

	env.Set(config.EnvKeyPort, "4000")
	time.Sleep(50 * time.Millisecond)

	port, _ := Value[int](s, KeyPort)
	if port != config.DefaultPort {
		t.Fatalf("drift reloaded after cleanup, port %d", port)
	}
}

func TestContextCancellationStopsDrift(t *testing.T) {
	env := newTestEnv(nil)
	s := newTestService(t, env, WithDriftIntervals(DriftIntervals{Development: 10 * time.Millisecond}))

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Initialize(ctx); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	cancel()
	time.Sleep(20 * time.Millisecond)

	env.Set(config.EnvKeyPort, "4000")
	time.Sleep(50 * time.Millisecond)

	port, _ := Value[int](s, KeyPort)
	if port != config.DefaultPort {
		t.Fatalf("drift reloaded after context cancellation, port %d", port)
	}
}
