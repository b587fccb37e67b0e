package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/eugenenazirov/contacts-cli/internal/application"
	apperrors "github.com/eugenenazirov/contacts-cli/internal/errors"
	"github.com/eugenenazirov/contacts-cli/internal/version"
)

// Name is the program name shown in usage output.
const Name = "contacts-cli"

// DefaultWatchInterval is how often `dev --watch` reloads the configuration.
const DefaultWatchInterval = 2 * time.Second

const unknownCommandPrefix = "expected command but got"

// CLI dispatches command lines to handlers backed by an App.
type CLI struct {
	app           *application.App
	stdout        io.Writer
	stderr        io.Writer
	loadEnv       func(filenames ...string) error
	watchInterval time.Duration
}

// Option configures a CLI.
type Option func(*CLI)

// WithOutput redirects standard output and standard error.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *CLI) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithEnvLoader replaces the dotenv loader used by --env-file.
func WithEnvLoader(load func(filenames ...string) error) Option {
	return func(c *CLI) {
		c.loadEnv = load
	}
}

// WithWatchInterval overrides the reload period of `dev --watch`.
func WithWatchInterval(d time.Duration) Option {
	return func(c *CLI) {
		c.watchInterval = d
	}
}

// New creates a CLI bound to app.
func New(app *application.App, opts ...Option) *CLI {
	c := &CLI{
		app:           app,
		stdout:        os.Stdout,
		stderr:        os.Stderr,
		loadEnv:       godotenv.Load,
		watchInterval: DefaultWatchInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// exitRequest carries a kingpin termination out of Parse.
type exitRequest struct {
	code int
}

type commandLine struct {
	app *kingpin.Application

	envFile *string

	config         *kingpin.CmdClause
	configFormat   *string
	configValidate *bool

	health        *kingpin.CmdClause
	healthVerbose *bool
	healthCheckDB *bool

	version *kingpin.CmdClause

	start       *kingpin.CmdClause
	startPort   *string
	startDaemon *bool

	dev      *kingpin.CmdClause
	devWatch *bool
	devDebug *bool
}

func (c *CLI) newCommandLine() *commandLine {
	app := kingpin.New(Name, "Contacts CLI - inspect and exercise the runtime configuration")
	app.UsageWriter(c.stdout)
	app.ErrorWriter(c.stderr)
	app.Terminate(func(code int) {
		panic(exitRequest{code: code})
	})
	app.HelpFlag.Short('h')
	app.Version(version.String())

	cl := &commandLine{app: app}
	cl.envFile = app.Flag("env-file", "Load environment variables from a dotenv file before reading configuration").PlaceHolder("PATH").String()

	cl.config = app.Command("config", "Show the current configuration")
	cl.configFormat = cl.config.Flag("format", "Output format (table, json, yaml)").Short('f').Default(formatTable).String()
	cl.configValidate = cl.config.Flag("validate", "Validate the configuration instead of printing it").Bool()

	cl.health = app.Command("health", "Report service health")
	cl.healthVerbose = cl.health.Flag("verbose", "Include environment, uptime and memory details").Short('v').Bool()
	cl.healthCheckDB = cl.health.Flag("check-db", "Ping the configured database").Bool()

	cl.version = app.Command("version", "Show version information")

	cl.start = app.Command("start", "Print the startup banner")
	cl.startPort = cl.start.Flag("port", "Port to announce instead of the configured one").Short('p').PlaceHolder("N").String()
	cl.startDaemon = cl.start.Flag("daemon", "Announce daemon mode").Short('d').Bool()

	cl.dev = app.Command("dev", "Print the development banner")
	cl.devWatch = cl.dev.Flag("watch", "Reload the configuration periodically and print changes").Short('w').Bool()
	cl.devDebug = cl.dev.Flag("debug", "Force debug logging").Bool()

	return cl
}

// Run parses args (without the program name) and executes the selected
// command. Any returned error has already been printed.
func (c *CLI) Run(ctx context.Context, args []string) error {
	cl := c.newCommandLine()

	command, exit, err := parse(cl.app, args)
	if exit != nil {
		if exit.code == 0 {
			return nil
		}
		return apperrors.Newf(apperrors.SeverityMedium, "usage error (status %d)", exit.code)
	}
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		if strings.HasPrefix(err.Error(), unknownCommandPrefix) {
			fmt.Fprintf(c.stderr, "Run '%s --help' for usage.\n", Name)
		}
		return apperrors.Wrap(apperrors.SeverityMedium, "parse arguments", err)
	}

	if err := c.dispatch(ctx, cl, command); err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		c.app.Logger().Debug("command failed",
			zap.String("command", command),
			zap.Stringer("severity", apperrors.SeverityOf(err)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func parse(app *kingpin.Application, args []string) (command string, exit *exitRequest, err error) {
	defer func() {
		if r := recover(); r != nil {
			req, ok := r.(exitRequest)
			if !ok {
				panic(r)
			}
			exit = &req
		}
	}()
	command, err = app.Parse(args)
	return command, nil, err
}

func (c *CLI) dispatch(ctx context.Context, cl *commandLine, command string) error {
	if *cl.envFile != "" {
		if err := c.loadEnv(*cl.envFile); err != nil {
			return apperrors.Wrap(apperrors.SeverityHigh, fmt.Sprintf("load env file %q", *cl.envFile), err)
		}
	}

	switch command {
	case cl.config.FullCommand():
		return c.runConfig(ctx, *cl.configFormat, *cl.configValidate)
	case cl.health.FullCommand():
		return c.runHealth(ctx, *cl.healthVerbose, *cl.healthCheckDB)
	case cl.version.FullCommand():
		return c.runVersion()
	case cl.start.FullCommand():
		return c.runStart(ctx, *cl.startPort, *cl.startDaemon)
	case cl.dev.FullCommand():
		return c.runDev(ctx, *cl.devWatch, *cl.devDebug)
	default:
		return apperrors.Newf(apperrors.SeverityMedium, "unknown command %q", command)
	}
}
