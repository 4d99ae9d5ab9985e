package commands

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/josephlewis42/lsh/core/alias"
	"github.com/josephlewis42/lsh/core/history"
	"github.com/josephlewis42/lsh/core/vos"
	"github.com/spf13/afero"
)

const (
	// StatusExit is returned by a builtin to terminate the shell.
	StatusExit = 0
	// StatusContinue is returned by a builtin to keep reading commands.
	StatusContinue = 1
)

// Builtin is a command that runs inside the shell. The returned status
// decides whether the shell keeps running, see StatusExit.
type Builtin func(env *Env, args []string) int

// Env is everything a builtin can touch.
type Env struct {
	vos.VIO

	// Fs is the filesystem builtins read from.
	Fs afero.Fs
	// Env holds the environment variables, PATH is read from here.
	Env vos.VEnv

	Aliases  *alias.Table
	History  *history.History
	Builtins *Registry

	// Color is true if output should be colorized when a command's
	// --color flag is "auto".
	Color bool

	// Log receives invalid invocations, may be nil.
	Log *log.Logger
}

// Redirect returns a copy of the environment with stdin and stdout replaced
// where in and out are non-nil.
func (e *Env) Redirect(in, out *os.File) *Env {
	dup := *e
	// A nil *os.File must not become a non-nil interface.
	var r io.Reader
	var w io.Writer
	if in != nil {
		r = in
	}
	if out != nil {
		w = out
	}
	dup.VIO = vos.Redirect(e.VIO, r, w)
	return &dup
}

// LogInvalidInvocation records a command that was called incorrectly.
func (e *Env) LogInvalidInvocation(args []string, err error) {
	if e.Log != nil {
		e.Log.Printf("invalid invocation %q: %v", args, err)
	}
}

// Chdir changes the process working directory and updates PWD.
func (e *Env) Chdir(dir string) error {
	if err := os.Chdir(dir); err != nil {
		return err
	}
	if wd, err := os.Getwd(); err == nil && e.Env != nil {
		e.Env.Setenv("PWD", wd)
	}
	return nil
}

// Getwd gets the working directory.
func (e *Env) Getwd() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	if e.Env != nil {
		return e.Env.Getenv("PWD")
	}
	return "/"
}

// Entry is a single builtin in the registry.
type Entry struct {
	Name  string
	Short string
	Main  Builtin
}

// Registry is a fixed, ordered table of builtins.
type Registry struct {
	entries []Entry
}

// NewRegistry creates a registry holding the entries in the given order.
func NewRegistry(entries ...Entry) *Registry {
	return &Registry{entries: entries}
}

// DefaultRegistry returns the shell's builtins.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Entry{Name: "cd", Short: "Change the working directory.", Main: Cd},
		Entry{Name: "help", Short: "Show information about builtin commands.", Main: Help},
		Entry{Name: "exit", Short: "Exit the shell.", Main: Exit},
		Entry{Name: "ls", Short: "List directory contents.", Main: Ls},
		Entry{Name: "cat", Short: "Concatenate files to standard output.", Main: Cat},
		Entry{Name: "history", Short: "Display or clear the command history.", Main: History},
		Entry{Name: "grep", Short: "Print lines containing a pattern.", Main: Grep},
		Entry{Name: "echo", Short: "Display a line of text.", Main: Echo},
		Entry{Name: "type", Short: "Describe how a name would be interpreted.", Main: Type},
		Entry{Name: "alias", Short: "Define or display aliases.", Main: Alias},
		Entry{Name: "unalias", Short: "Remove aliases.", Main: Unalias},
	)
}

// Index returns the position of the named builtin or -1 if it doesn't exist.
func (r *Registry) Index(name string) int {
	for i, e := range r.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// Has checks if a builtin with the name exists.
func (r *Registry) Has(name string) bool {
	return r.Index(name) >= 0
}

// Lookup finds the named builtin.
func (r *Registry) Lookup(name string) (Builtin, bool) {
	if i := r.Index(name); i >= 0 {
		return r.entries[i].Main, true
	}
	return nil, false
}

// Names lists the builtins in registry order.
func (r *Registry) Names() []string {
	var out []string
	for _, e := range r.entries {
		out = append(out, e.Name)
	}
	return out
}

// Entries returns a copy of the registry contents.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// String lists the builtin names separated by spaces.
func (r *Registry) String() string {
	return strings.Join(r.Names(), " ")
}
