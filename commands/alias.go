package commands

import (
	"errors"
	"fmt"
	"strings"

	shlex "github.com/anmitsu/go-shlex"
)

// Alias defines or displays aliases.
//
//	alias              list every alias
//	alias NAME         show a single alias
//	alias NAME VALUE   define NAME
//	alias NAME=VALUE   define NAME, VALUE may be quoted
func Alias(env *Env, args []string) int {
	cmd := &SimpleCommand{
		Use:   "alias [NAME [VALUE]]",
		Short: "Define or display aliases.",
	}

	return cmd.Run(env, args, func() int {
		if env.Aliases == nil {
			cmd.LogProgramError(env, errors.New("aliases are not available"))
			return StatusContinue
		}

		args := cmd.Flags().Args()
		switch {
		case len(args) == 0:
			for _, entry := range env.Aliases.Entries() {
				fmt.Fprintf(env.Stdout(), "alias %s\n", entry)
			}

		case strings.Contains(args[0], "="):
			name, value, err := parseAssignment(strings.Join(args, " "))
			if err != nil {
				cmd.LogProgramError(env, err)
				break
			}
			if fields := strings.Fields(value); len(fields) > 1 {
				fmt.Fprintf(env.Stderr(), "alias: ignoring extra words for %s: %s\n", name, strings.Join(fields[1:], " "))
				value = fields[0]
			}
			if err := env.Aliases.Set(name, value); err != nil {
				cmd.LogProgramError(env, err)
			}

		case len(args) == 1:
			value, ok := env.Aliases.Get(args[0])
			if !ok {
				fmt.Fprintf(env.Stderr(), "alias: %s: not found\n", args[0])
				break
			}
			fmt.Fprintf(env.Stdout(), "alias %s='%s'\n", args[0], value)

		case len(args) == 2:
			if err := env.Aliases.Set(args[0], args[1]); err != nil {
				cmd.LogProgramError(env, err)
			}

		default:
			cmd.LogProgramError(env, errors.New("too many arguments"))
		}

		return StatusContinue
	})
}

// parseAssignment splits NAME=VALUE and unquotes VALUE.
func parseAssignment(arg string) (name, value string, err error) {
	name, raw, _ := strings.Cut(arg, "=")
	words, err := shlex.Split(raw, true)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", name, err)
	}
	if len(words) == 0 {
		return "", "", fmt.Errorf("%s: empty value", name)
	}
	return name, strings.Join(words, " "), nil
}

// Unalias removes aliases.
func Unalias(env *Env, args []string) int {
	cmd := &SimpleCommand{
		Use:   "unalias NAME...",
		Short: "Remove each NAME from the list of defined aliases.",
	}

	return cmd.Run(env, args, func() int {
		return cmd.RunEachArg(env, func(name string) error {
			if env.Aliases == nil || !env.Aliases.Remove(name) {
				return fmt.Errorf("%s: not found", name)
			}
			return nil
		})
	})
}

var _ Builtin = Alias
var _ Builtin = Unalias
