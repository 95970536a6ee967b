package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/meditimer/internal/config"
	"github.com/roach88/meditimer/internal/countdown"
)

// FormattedDuration is one converted argument.
type FormattedDuration struct {
	Input   string `json:"input"`
	Seconds int    `json:"seconds"`
	Display string `json:"display"`
}

// NewFormatCommand creates the format command.
func NewFormatCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format <seconds>...",
		Short: "Print durations as MM:SS",
		Long: `Print each duration the way the countdown displays it.

Minutes are not capped at 59, so 3661 prints as 61:01. Input is
validated like the interactive set command: fractions truncate, a
positive value under one second counts as one, and zero or less is
rejected.

Examples:
  meditimer format 300
  meditimer format 90 3661 --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runFormat(opts *RootOptions, args []string, cmd *cobra.Command) error {
	out := newReply(opts, cmd)
	logger := opts.newLogger(cmd.ErrOrStderr(), config.Default())

	results := make([]FormattedDuration, 0, len(args))
	for _, arg := range args {
		n, err := countdown.ParseDuration(arg)
		if err != nil {
			return out.fail(CodeInvalidDuration,
				WrapExitError(ExitCommandError, "invalid duration", err),
				map[string]string{"input": arg}, nil)
		}
		logger.Debug("parsed duration", "input", arg, "seconds", n)
		results = append(results, FormattedDuration{
			Input:   arg,
			Seconds: n,
			Display: countdown.Format(n),
		})
	}

	return out.ok(results, func(w io.Writer) error {
		for _, r := range results {
			fmt.Fprintln(w, r.Display)
		}
		return nil
	})
}
