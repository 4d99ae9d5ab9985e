package commands

import (
	"fmt"
)

// Help prints a banner followed by the builtins.
func Help(env *Env, args []string) int {
	cmd := &SimpleCommand{
		Use:   "help",
		Short: "Show information about builtin commands.",
	}

	return cmd.Run(env, args, func() int {
		w := env.Stdout()
		fmt.Fprintln(w, "lsh, a small interactive shell")
		fmt.Fprintln(w, "Type program names and arguments, and hit enter.")
		fmt.Fprintln(w, "Pipelines (|), redirection (<, >, >>) and background jobs (&) are supported.")
		fmt.Fprintln(w, "The following are built in:")
		if env.Builtins != nil {
			for _, e := range env.Builtins.Entries() {
				fmt.Fprintf(w, "  %-8s %s\n", e.Name, e.Short)
			}
		}
		fmt.Fprintln(w, "Use the man command for information on other programs.")
		return StatusContinue
	})
}

// Exit terminates the shell.
func Exit(env *Env, args []string) int {
	return StatusExit
}

var _ Builtin = Help
var _ Builtin = Exit
