package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Grep prints lines containing a fixed string.
func Grep(env *Env, args []string) int {
	cmd := &SimpleCommand{
		Use:   "grep [-inv] PATTERN [FILE]...",
		Short: "Search files for lines containing PATTERN.",
	}

	invert := cmd.Flags().Bool('v', "Select lines not containing the pattern.")
	ignoreCase := cmd.Flags().Bool('i', "Match without regard to case.")
	showLineNumbers := cmd.Flags().Bool('n', "Show line numbers.")

	return cmd.Run(env, args, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			cmd.LogProgramError(env, errors.New("missing argument PATTERN"))
			return StatusContinue
		}

		pattern := args[0]
		matches := func(line string) bool {
			return strings.Contains(line, pattern)
		}
		if *ignoreCase {
			pattern = strings.ToLower(pattern)
			matches = func(line string) bool {
				return strings.Contains(strings.ToLower(line), pattern)
			}
		}

		files := args[1:]
		showFileName := len(files) > 1
		return cmd.RunEachFileOrStdin(env, files, func(name string, fd io.Reader) error {
			w := env.Stdout()

			scanner := bufio.NewScanner(fd)
			lineNo := 1
			for scanner.Scan() {
				line := scanner.Text()

				if matches(line) != *invert {
					if showFileName {
						fmt.Fprintf(w, "%s:", name)
					}

					if *showLineNumbers {
						fmt.Fprintf(w, "%d:", lineNo)
					}

					fmt.Fprintf(w, "%s\n", line)
				}
				lineNo++
			}

			return scanner.Err()
		})
	})
}

var _ Builtin = Grep
