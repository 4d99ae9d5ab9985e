package commands

import (
	"fmt"
)

// Cd changes the shell's working directory, with no argument it prints it.
func Cd(env *Env, args []string) int {
	cmd := &SimpleCommand{
		Use:   "cd [DIR]",
		Short: "Change the shell working directory.",
	}

	return cmd.Run(env, args, func() int {
		dirs := cmd.Flags().Args()
		switch len(dirs) {
		case 0:
			fmt.Fprintln(env.Stdout(), env.Getwd())
		case 1:
			if err := env.Chdir(dirs[0]); err != nil {
				cmd.LogProgramError(env, err)
			}
		default:
			fmt.Fprintln(env.Stderr(), "cd: too many arguments")
		}
		return StatusContinue
	})
}

var _ Builtin = Cd
