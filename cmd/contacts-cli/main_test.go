package main

import (
	"bytes"
	"context"
	"os"
	osSignal "os/signal"
	"strings"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/contacts-cli/internal/config"
	apperrors "github.com/eugenenazirov/contacts-cli/internal/errors"
)

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "version",
			args:       []string{"version"},
			wantCode:   apperrors.ExitSuccess,
			wantStdout: "contacts-cli",
		},
		{
			name:       "unknown command",
			args:       []string{"bogus"},
			wantCode:   apperrors.ExitGeneral,
			wantStderr: "Run 'contacts-cli --help' for usage.",
		},
		{
			name:       "unsupported format",
			args:       []string{"config", "--format=xml"},
			wantCode:   apperrors.ExitGeneral,
			wantStderr: `unsupported format "xml"`,
		},
		{
			name:       "invalid environment",
			env:        map[string]string{"APP_ENV": "qa"},
			args:       []string{"config"},
			wantCode:   apperrors.ExitCritical,
			wantStderr: `invalid environment "qa"`,
		},
		{
			name:       "config",
			env:        map[string]string{"APP_ENV": "staging", "PORT": "8080"},
			args:       []string{"config", "--format", "json"},
			wantCode:   apperrors.ExitSuccess,
			wantStdout: `"port": 8080`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)

			if code != tt.wantCode {
				t.Fatalf("expected exit code %d, got %d (stderr: %s)", tt.wantCode, code, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Fatalf("expected %q in stdout, got %q", tt.wantStdout, stdout.String())
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Fatalf("expected %q in stderr, got %q", tt.wantStderr, stderr.String())
			}
		})
	}
}

func TestDevelopmentLogs(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want bool
	}{
		{name: "default", vars: nil, want: true},
		{name: "development", vars: map[string]string{"APP_ENV": "development"}, want: true},
		{name: "production", vars: map[string]string{"APP_ENV": "production"}, want: false},
		{name: "invalid", vars: map[string]string{"APP_ENV": "qa"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := developmentLogs(config.MapLookup(tt.vars)); got != tt.want {
				t.Fatalf("developmentLogs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSignalContextCancelsOnSignal(t *testing.T) {
	t.Cleanup(func() {
		signalNotify = osSignal.Notify
	})

	signalNotify = func(ch chan<- os.Signal, sig ...os.Signal) {
		go func() {
			ch <- syscall.SIGTERM
		}()
	}

	ctx, stop := signalContext(context.Background(), zaptest.NewLogger(t))
	defer stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("expected context to be cancelled by the signal")
	}
}

func TestSignalContextStop(t *testing.T) {
	t.Cleanup(func() {
		signalNotify = osSignal.Notify
	})
	signalNotify = func(chan<- os.Signal, ...os.Signal) {}

	ctx, stop := signalContext(context.Background(), zaptest.NewLogger(t))
	stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("expected stop to cancel the context")
	}
}
