package commands

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	unescapeOctal   = regexp.MustCompile(`\\0[0-8][0-8]?[0-8]?`)
	unescapeHex     = regexp.MustCompile(`\\x[0-9a-fA-F][0-9a-fA-F]?`)
	unescapeReplace = strings.NewReplacer(
		`\n`, "\n", // newline
		`\r`, "\r", // carriage return
		`\t`, "\t", // horizontal tab
		`\\`, `\`, // backslash literal
		`\b`, "\b", // backspace
		`\a`, "\a", // alert
		`\f`, "\f", // form feed
		`\v`, "\v", // vertical tab
	)
)

func unescape(s string) string {
	s = unescapeReplace.Replace(s)
	s = unescapeOctal.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 8, 8)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	s = unescapeHex.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 16, 8)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	return s
}

// Echo implements a limited echo command.
func Echo(env *Env, args []string) int {
	cmd := &SimpleCommand{
		Use:   "echo [-ne] [ARG] ...",
		Short: "Display a line of text.",
	}

	opt := cmd.Flags()
	noNewline := opt.Bool('n', "do not output the trailing newline")
	escaped := opt.Bool('e', "interpret backslash escapes")

	return cmd.Run(env, args, func() int {
		w := env.Stdout()
		for i, arg := range opt.Args() {
			if i > 0 {
				fmt.Fprint(w, " ")
			}

			if *escaped {
				arg = unescape(arg)
			}

			fmt.Fprint(w, arg)
		}

		if !*noNewline {
			fmt.Fprintln(w)
		}

		return StatusContinue
	})
}

var _ Builtin = Echo
