// Package commands implements the docsite CLI commands.
package commands

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docsite/internal/config"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/version"
	"github.com/alecthomas/kong"
)

// Global is shared state passed to every command's Run method.
type Global struct {
	// Out receives command output. Logs go to stderr.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Project file path" default:"docsite.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Check       CheckCmd   `cmd:"" help:"Resolve the site configuration and report problems"`
	Build       BuildCmd   `cmd:"" help:"Run the full pipeline and write plugin output and the build manifest"`
	Print       PrintCmd   `cmd:"" help:"Print the resolved site configuration"`
	Init        InitCmd    `cmd:"" help:"Write an example project file"`
	VersionInfo VersionCmd `cmd:"" name:"version" help:"Show version information"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := config.ParseLogLevel(os.Getenv(config.LogLevelEnv))
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// NewParser builds the command-line parser for cli. Extra options are
// applied after the defaults.
func NewParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	defaults := []kong.Option{
		kong.Name("docsite"),
		kong.Description("Resolve, check and build documentation site configurations."),
		kong.Vars{"version": version.String()},
	}
	return kong.New(cli, append(defaults, options...)...)
}

// Parse parses args. Failures are printed with a usage summary and returned
// as usage errors.
func Parse(parser *kong.Kong, args []string) (*kong.Context, error) {
	ctx, err := parser.Parse(args)
	if err == nil {
		return ctx, nil
	}
	var perr *kong.ParseError
	if errors.As(err, &perr) && perr.Context != nil {
		_ = perr.Context.PrintUsage(true)
	}
	return nil, ferrors.UsageError(err.Error()).
		WithHint("run 'docsite --help' for the full usage").
		Build()
}

// loadConfig loads the project file, classifying failures as configuration errors.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		b := ferrors.ConfigError("failed to load project file").WithCause(err).
			WithContext("config", path)
		if _, serr := os.Stat(path); errors.Is(serr, fs.ErrNotExist) {
			b = b.WithHint("run 'docsite init' to create one, or pass -c")
		}
		return nil, b.Build()
	}
	slog.Debug("Loaded project file", logfields.Config(path))
	return cfg, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
