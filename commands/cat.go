package commands

import (
	"io"
)

// Cat implements the UNIX cat command.
func Cat(env *Env, args []string) int {
	cmd := &SimpleCommand{
		Use:   "cat [FILE]...",
		Short: "Concatenate FILE(s) to standard output.",
	}

	return cmd.Run(env, args, func() int {
		return cmd.RunEachFileOrStdin(env, cmd.Flags().Args(), func(name string, fd io.Reader) error {
			_, err := io.Copy(env.Stdout(), fd)
			return err
		})
	})
}

var _ Builtin = Cat
