package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	getopt "github.com/pborman/getopt/v2"
)

func BytesToHuman(bytes int64) string {
	for _, e := range []struct {
		unit  string
		power int64
	}{
		{"P", 1e15},
		{"T", 1e12},
		{"G", 1e9},
		{"M", 1e6},
		{"K", 1e3},
	} {
		quotient := bytes / e.power
		switch {
		case quotient == 0:
			continue
		case quotient > 10:
			return fmt.Sprintf("%d%s", quotient, e.unit)
		default:
			return fmt.Sprintf("%0.1f%s", float64(bytes)/float64(e.power), e.unit)
		}
	}

	return fmt.Sprintf("%d", bytes)
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a sone line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool
	// NeverBail skips interacting with stdout/stderr on failure and
	// always runs the callback.
	NeverBail bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// Name is the first word of Use.
func (s *SimpleCommand) Name() string {
	if fields := strings.Fields(s.Use); len(fields) > 0 {
		return fields[0]
	}
	return "lsh"
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was succcessful call the callback.
//
// Flag errors and help keep the shell running.
func (s *SimpleCommand) Run(env *Env, args []string, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	err := opts.Getopt(args, nil)
	if err != nil {
		env.LogInvalidInvocation(args, err)
	}

	if err != nil && !s.NeverBail {
		fmt.Fprintf(env.Stderr(), "error: %s\n\n", err)

		s.PrintHelp(env.Stdout())
		return StatusContinue
	}

	if *s.ShowHelp {
		s.PrintHelp(env.Stdout())
		return StatusContinue
	}

	return callback()
}

// LogProgramError reports a runtime failure of the command on stderr.
func (s *SimpleCommand) LogProgramError(env *Env, err error) {
	fmt.Fprintf(env.Stderr(), "%s: %v\n", s.Name(), err)
}

// RunEachArg calls fn with every positional argument, errors are reported
// and don't stop the remaining arguments.
func (s *SimpleCommand) RunEachArg(env *Env, fn func(string) error) int {
	for _, arg := range s.Flags().Args() {
		if err := fn(arg); err != nil {
			s.LogProgramError(env, err)
		}
	}

	return StatusContinue
}

// RunEachFileOrStdin calls fn with each of the named files in turn, or with
// stdin if there are none. A "-" file also names stdin.
func (s *SimpleCommand) RunEachFileOrStdin(env *Env, files []string, fn func(name string, fd io.Reader) error) int {
	if len(files) == 0 {
		files = []string{"-"}
	}

	for _, name := range files {
		if name == "-" {
			if err := fn("(standard input)", env.Stdin()); err != nil {
				s.LogProgramError(env, err)
			}
			continue
		}

		fd, err := env.Fs.Open(name)
		if err != nil {
			s.LogProgramError(env, err)
			continue
		}
		if err := fn(name, fd); err != nil {
			s.LogProgramError(env, err)
		}
		fd.Close()
	}

	return StatusContinue
}

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var (
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
	ColorBoldCyan  = color.New(color.FgCyan, color.Bold)
	ColorBoldRed   = color.New(color.FgRed, color.Bold)
)

// ColorMode resolves an always|auto|never setting, auto colors only when f
// is a terminal.
func ColorMode(mode string, f *os.File) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	default:
		if f == nil || color.NoColor {
			return false
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
}

type ColorPrinter struct {
	value *string
	env   *Env
}

// Init sets up the flag and environment to determine the color output.
func (c *ColorPrinter) Init(flags *getopt.Set, env *Env) {
	c.env = env
	c.value = flags.EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{colorAlways, colorAuto, colorNever},
		colorAuto,
		"colorize the output (always|auto|never)")
}

func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case *c.value == colorNever:
		return false
	case *c.value == colorAlways:
		return true
	default:
		return c.env.Color
	}
}

func (c *ColorPrinter) Sprintf(color *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		// The global NoColor would otherwise win over --color=always.
		color.EnableColor()
		return color.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}
