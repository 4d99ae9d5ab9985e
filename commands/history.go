package commands

import (
	"errors"
	"fmt"
)

// History lists the numbered command history.
func History(env *Env, args []string) int {
	cmd := &SimpleCommand{
		Use:   "history [-c]",
		Short: "Display the command history.",
	}
	clear := cmd.Flags().Bool('c', "clear the history list")

	return cmd.Run(env, args, func() int {
		if env.History == nil {
			cmd.LogProgramError(env, errors.New("history is not available"))
			return StatusContinue
		}

		if *clear {
			env.History.Clear()
			return StatusContinue
		}

		base := env.History.Base()
		for i, line := range env.History.Entries() {
			fmt.Fprintf(env.Stdout(), "%5d  %s\n", base+i, line)
		}
		return StatusContinue
	})
}

var _ Builtin = History
