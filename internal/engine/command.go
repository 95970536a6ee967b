package engine

// CommandKind identifies what a Command asks the engine to do.
type CommandKind int

const (
	// CmdSetDuration commits a user-entered duration.
	CmdSetDuration CommandKind = iota + 1
	// CmdStart starts or resumes the countdown.
	CmdStart
	// CmdPause suspends the countdown.
	CmdPause
	// CmdReset restores the configured duration.
	CmdReset
	// CmdTick is one elapsed second. Only the engine's own timers enqueue it.
	CmdTick

	// cmdSettle wakes the loop after StopWhenIdle. It is never reduced.
	cmdSettle CommandKind = -1
)

// String returns the command name used in logs and the journal.
func (k CommandKind) String() string {
	switch k {
	case CmdSetDuration:
		return "set"
	case CmdStart:
		return "start"
	case CmdPause:
		return "pause"
	case CmdReset:
		return "reset"
	case CmdTick:
		return "tick"
	default:
		return "unknown"
	}
}

// Command is one unit of work for the Run loop.
type Command struct {
	Kind CommandKind

	// Input is the raw user text for CmdSetDuration.
	Input string

	// generation ties a CmdTick to the arming that scheduled it.
	generation uint64
}

// SetDuration builds a CmdSetDuration command from raw input.
func SetDuration(input string) Command {
	return Command{Kind: CmdSetDuration, Input: input}
}

// Start builds a CmdStart command.
func Start() Command { return Command{Kind: CmdStart} }

// Pause builds a CmdPause command.
func Pause() Command { return Command{Kind: CmdPause} }

// Reset builds a CmdReset command.
func Reset() Command { return Command{Kind: CmdReset} }

func tick(generation uint64) Command {
	return Command{Kind: CmdTick, generation: generation}
}
