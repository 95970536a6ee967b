package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/roach88/meditimer/internal/config"
	"github.com/roach88/meditimer/internal/countdown"
	"github.com/roach88/meditimer/internal/cue"
	"github.com/roach88/meditimer/internal/engine"
	"github.com/roach88/meditimer/internal/journal"
	"github.com/roach88/meditimer/internal/render"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Plain     bool
	DryRun    bool
	NoColor   bool
	Autostart bool

	// Ticks allows overriding the tick source (for testing).
	// If nil, defaults to engine.SystemTicks.
	Ticks engine.TickSource

	// Sessions allows overriding the session id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Sessions engine.SessionIDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [seconds]",
		Short: "Start an interactive countdown",
		Long: `Start an interactive meditation countdown.

Commands are read one per line from stdin:
  set <seconds>   commit a new duration (a bare number works too)
  start           start or resume
  pause           pause, keeping the remaining time
  reset           stop and restore the last committed duration
  quit            leave

The chime plays once when the countdown reaches zero. Reset stops it.

Example:
  meditimer run 300
  meditimer run 600 --autostart
  meditimer run 60 --plain --dry-run

At end of input a running countdown keeps going until it reaches zero;
otherwise the session ends. Ctrl-C always leaves immediately.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "print one line per update instead of redrawing the card")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "never play audio")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "disable color and pulsing")
	cmd.Flags().BoolVar(&opts.Autostart, "autostart", false, "start immediately when a duration is known")

	return cmd
}

func runSession(opts *RunOptions, args []string, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	logger := opts.newLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	initial := cfg.DefaultDuration
	if len(args) == 1 {
		n, err := countdown.ParseDuration(args[0])
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid duration", err)
		}
		initial = n
	}

	out := cmd.OutOrStdout()
	tty := isTerminal(out)

	engineOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithRenderer(newRenderer(opts, cfg, out, tty)),
		engine.WithNotifier(render.Notice{W: cmd.ErrOrStderr()}),
		engine.WithValidationMessage(cfg.ValidationMessage),
		engine.WithCue(newCue(opts, cfg, out, logger)),
	}
	if opts.Ticks != nil {
		engineOpts = append(engineOpts, engine.WithTickSource(opts.Ticks))
	}
	if opts.Sessions != nil {
		engineOpts = append(engineOpts, engine.WithSessionIDs(opts.Sessions))
	}
	if initial > 0 {
		engineOpts = append(engineOpts, engine.WithInitialDuration(initial))
	}

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	if cfg.Journal != "" {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := j.Close(); closeErr != nil {
				logger.Error("error closing journal", "error", closeErr)
			}
		}()
		last, err := j.LastSeq(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read journal", err)
		}
		engineOpts = append(engineOpts,
			engine.WithJournal(j),
			engine.WithClock(engine.NewClockAt(last)),
		)
		logger.Debug("journal enabled", "path", cfg.Journal, "last_seq", last)
	}

	eng := engine.New(engineOpts...)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	if opts.Autostart && initial > 0 {
		eng.Enqueue(engine.Start())
	}

	go func() {
		if readCommands(cmd.InOrStdin(), eng, logger) {
			eng.Stop()
			return
		}
		logger.Debug("end of input, waiting for countdown to settle")
		eng.StopWhenIdle()
	}()

	if err := eng.Run(ctx); err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return WrapExitError(ExitFailure, "engine error", err)
	}

	logger.Debug("session ended", "remaining", eng.Snapshot().State.Remaining)
	return nil
}

func newRenderer(opts *RunOptions, cfg config.Config, out io.Writer, tty bool) engine.Renderer {
	if opts.Plain {
		return &render.Plain{W: out}
	}
	return &render.Terminal{
		W:        out,
		Title:    cfg.Title,
		Image:    cfg.Image,
		Link:     cfg.Link,
		LinkText: cfg.LinkText,
		Clear:    tty,
		NoColor:  opts.NoColor || !tty,
	}
}

func newCue(opts *RunOptions, cfg config.Config, out io.Writer, logger *slog.Logger) engine.Cue {
	if opts.DryRun {
		return cue.Silent{Logger: logger}
	}
	return cue.Open(cfg.Alarm, out, logger)
}

// readCommands forwards stdin lines to the engine until EOF or quit.
// It reports whether the user asked to quit.
func readCommands(r io.Reader, eng *engine.Engine, logger *slog.Logger) (quit bool) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		c, quit, ok := parseCommand(scanner.Text())
		if quit {
			return true
		}
		if !ok {
			continue
		}
		if !eng.Enqueue(c) {
			return true
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("reading commands failed", "error", err)
	}
	return false
}

// parseCommand maps one input line to a command. Anything that is not a
// known verb is treated as a duration, so "300" means "set 300" and a typo
// surfaces as a validation notice rather than silently vanishing.
func parseCommand(line string) (c engine.Command, quit bool, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return engine.Command{}, false, false
	}

	verb, rest, _ := strings.Cut(line, " ")
	switch strings.ToLower(verb) {
	case "quit", "exit", "q":
		return engine.Command{}, true, false
	case "start":
		return engine.Start(), false, true
	case "pause":
		return engine.Pause(), false, true
	case "reset":
		return engine.Reset(), false, true
	case "set":
		return engine.SetDuration(rest), false, true
	default:
		return engine.SetDuration(line), false, true
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
