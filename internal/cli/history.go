package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/meditimer/internal/countdown"
	"github.com/roach88/meditimer/internal/journal"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
}

// SessionView is the JSON shape of one journal session.
type SessionView struct {
	ID         string    `json:"id"`
	Configured int       `json:"configured"`
	Display    string    `json:"display"`
	StartedAt  time.Time `json:"started_at"`
	Commands   int       `json:"commands"`
	Finished   bool      `json:"finished"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past sessions from the journal",
		Long: `List sessions recorded in the journal, oldest first.

A session begins each time a duration is committed. The journal is
enabled by the journal key in the config file; --db reads a specific
database instead.

Examples:
  meditimer history
  meditimer history --db ./sessions.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to journal database (default: journal from config)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	out := newReply(opts.RootOptions, cmd)

	path := opts.Database
	if path == "" {
		cfg, err := opts.loadConfig()
		if err != nil {
			return out.fail(CodeConfig, WrapExitError(ExitCommandError, "failed to load config", err), nil, nil)
		}
		path = cfg.Journal
	}
	if path == "" {
		return out.fail(CodeJournal,
			NewExitError(ExitCommandError, "no journal configured: set journal in the config file or pass --db"),
			nil, nil)
	}

	j, err := journal.Open(path)
	if err != nil {
		return out.fail(CodeJournal, WrapExitError(ExitCommandError, "failed to open journal", err),
			map[string]string{"path": path}, nil)
	}
	defer j.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sessions, err := j.Sessions(ctx)
	if err != nil {
		return out.fail(CodeJournal, WrapExitError(ExitFailure, "failed to read sessions", err),
			map[string]string{"path": path}, nil)
	}

	views := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, SessionView{
			ID:         s.ID,
			Configured: s.Configured,
			Display:    countdown.Format(s.Configured),
			StartedAt:  s.StartedAt,
			Commands:   s.Commands,
			Finished:   s.Finished,
		})
	}

	return out.ok(views, func(w io.Writer) error {
		return writeSessionTable(w, views)
	})
}

func writeSessionTable(w io.Writer, views []SessionView) error {
	if len(views) == 0 {
		fmt.Fprintln(w, "No sessions recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tDURATION\tCOMMANDS\tFINISHED\tSESSION")
	for _, v := range views {
		finished := "no"
		if v.Finished {
			finished = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			v.StartedAt.Local().Format("2006-01-02 15:04:05"),
			v.Display,
			v.Commands,
			finished,
			v.ID,
		)
	}
	return tw.Flush()
}
