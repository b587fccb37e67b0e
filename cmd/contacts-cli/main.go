package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/contacts-cli/internal/application"
	"github.com/eugenenazirov/contacts-cli/internal/cli"
	"github.com/eugenenazirov/contacts-cli/internal/config"
	apperrors "github.com/eugenenazirov/contacts-cli/internal/errors"
	"github.com/eugenenazirov/contacts-cli/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) (code int) {
	// Quiet until the configuration supplies LOG_LEVEL.
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	logger, err := logging.New(
		logging.WithLevel(level),
		logging.WithOutput(stderr),
		logging.WithDevelopment(developmentLogs(config.OSLookup)),
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: initialize logger: %v\n", err)
		return apperrors.ExitFatal
	}
	defer func() {
		_ = logger.Sync()
	}()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("unrecoverable failure",
				zap.Stringer("severity", apperrors.SeverityFatal),
				zap.Any("panic", r),
			)
			fmt.Fprintf(stderr, "fatal: %v\n", r)
			code = apperrors.ExitFatal
		}
	}()

	ctx, stop := signalContext(context.Background(), logger)
	defer stop()

	app := application.New(logger, application.WithLevel(level))
	defer app.Shutdown()

	err = cli.New(app, cli.WithOutput(stdout, stderr)).Run(ctx, args)
	return apperrors.ExitCode(err)
}

// developmentLogs selects console log output when the process environment
// names the development stage, which is also the default. The logger exists
// before --env-file is applied, so only the inherited environment counts.
func developmentLogs(lookup config.LookupFunc) bool {
	env, err := config.ReadEnvironment(lookup)
	return err == nil && env == config.EnvDevelopment
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(quit)
		select {
		case sig := <-quit:
			logger.Info("shutting down", zap.Stringer("signal", sig))
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
