package commands

import (
	"fmt"

	"github.com/josephlewis42/lsh/core/vos"
)

// Type tells how each name would be interpreted as a command.
func Type(env *Env, args []string) int {
	cmd := &SimpleCommand{
		Use:   "type NAME...",
		Short: "Display information about command type.",
	}

	return cmd.Run(env, args, func() int {
		w := env.Stdout()
		for _, name := range cmd.Flags().Args() {
			if env.Aliases != nil {
				if value, ok := env.Aliases.Get(name); ok {
					fmt.Fprintf(w, "%s is aliased to `%s'\n", name, value)
					continue
				}
			}

			if env.Builtins != nil && env.Builtins.Has(name) {
				fmt.Fprintf(w, "%s is a shell builtin\n", name)
				continue
			}

			if path, err := vos.LookPath(env.Fs, env.Env, name); err == nil {
				fmt.Fprintf(w, "%s is %s\n", name, path)
				continue
			}

			fmt.Fprintf(env.Stderr(), "type: %s: not found\n", name)
		}
		return StatusContinue
	})
}

var _ Builtin = Type
