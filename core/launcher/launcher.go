// Package launcher starts commands as child processes and connects them into
// pipelines.
package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/josephlewis42/lsh/core/jobs"
)

// Proc describes one process to start.
type Proc struct {
	// Args holds the command line, Args[0] is the program name.
	Args []string
	// Builtin runs Args in a copy of the shell rather than looking up a
	// program.
	Builtin bool
}

// NotFoundError is reported when a program can't be found.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("'%s' is not a recognized command", e.Name)
}

// Launcher starts processes with the shell's standard streams as defaults.
type Launcher struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Self is the executable that runs builtins in a child process.
	Self string
	// ChildEnv produces the environment for builtin children.
	ChildEnv func() []string

	// Jobs tracks background processes.
	Jobs *jobs.Tracker

	// OnStart, if set, is called after each background job starts.
	OnStart func(proc Proc, job jobs.Job)
}

func (l *Launcher) stdin() *os.File {
	if l.Stdin != nil {
		return l.Stdin
	}
	return os.Stdin
}

func (l *Launcher) stdout() *os.File {
	if l.Stdout != nil {
		return l.Stdout
	}
	return os.Stdout
}

func (l *Launcher) stderr() *os.File {
	if l.Stderr != nil {
		return l.Stderr
	}
	return os.Stderr
}

// command builds the process for proc without starting it.
func (l *Launcher) command(proc Proc, stdin, stdout *os.File) (*exec.Cmd, error) {
	if len(proc.Args) == 0 {
		return nil, errors.New("empty command")
	}

	var cmd *exec.Cmd
	if proc.Builtin {
		if l.Self == "" {
			return nil, fmt.Errorf("%s: can't run builtin in a child process", proc.Args[0])
		}
		cmd = exec.Command(l.Self, proc.Args...)
		if l.ChildEnv != nil {
			cmd.Env = l.ChildEnv()
		}
	} else {
		path, err := exec.LookPath(proc.Args[0])
		if err != nil {
			return nil, &NotFoundError{Name: proc.Args[0]}
		}
		cmd = &exec.Cmd{
			Path: path,
			Args: proc.Args,
		}
	}

	// Only *os.File values are used so the child inherits the descriptors
	// directly and no copying goroutines are started.
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = l.stderr()
	return cmd, nil
}

// report writes a diagnostic for a failed stage.
func (l *Launcher) report(err error) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		fmt.Fprintln(l.stderr(), nf.Error())
		return
	}
	fmt.Fprintf(l.stderr(), "lsh: %v\n", err)
}

// Run starts a single process. in and out override the default streams when
// non-nil. In the foreground Run waits for the process to exit, otherwise it
// registers a job and returns immediately.
func (l *Launcher) Run(proc Proc, in, out *os.File, background bool) error {
	return l.RunPipeline([]Proc{proc}, in, out, background)
}

// RunPipeline starts procs connected stdout to stdin. in feeds the first
// process and out receives the last process's output when non-nil.
//
// A stage that fails to start is reported and skipped; its neighbours still
// run and see end of input or a closed pipe. The first such failure is
// returned after the pipeline finishes.
func (l *Launcher) RunPipeline(procs []Proc, in, out *os.File, background bool) error {
	if len(procs) == 0 {
		return nil
	}
	if in == nil {
		in = l.stdin()
	}
	if out == nil {
		out = l.stdout()
	}

	var (
		started  []*exec.Cmd
		startErr error
		prevRead *os.File
	)

	fail := func(err error) {
		l.report(err)
		if startErr == nil {
			startErr = err
		}
	}

	last := len(procs) - 1
	for i, proc := range procs {
		stdin := in
		if i > 0 {
			stdin = prevRead
		}

		stdout := out
		var nextRead, pipeWrite *os.File
		if i < last {
			r, w, err := os.Pipe()
			if err != nil {
				fail(fmt.Errorf("pipe: %w", err))
				if prevRead != nil {
					prevRead.Close()
				}
				break
			}
			nextRead, pipeWrite = r, w
			stdout = pipeWrite
		}

		cmd, err := l.command(proc, stdin, stdout)
		if err == nil {
			err = cmd.Start()
		}
		if err != nil {
			fail(err)
		} else {
			started = append(started, cmd)
			if background {
				l.detach(proc, cmd)
			}
		}

		// The children hold their own copies now; the shell must drop its
		// copies so readers see EOF when the writers exit.
		if pipeWrite != nil {
			pipeWrite.Close()
		}
		if prevRead != nil {
			prevRead.Close()
		}
		prevRead = nextRead
	}

	if !background {
		for _, cmd := range started {
			if err := cmd.Wait(); err != nil {
				var exitErr *exec.ExitError
				if !errors.As(err, &exitErr) {
					l.report(err)
				}
			}
		}
	}

	return startErr
}

// detach hands a started background process to the job tracker.
func (l *Launcher) detach(proc Proc, cmd *exec.Cmd) {
	pid := cmd.Process.Pid

	if l.Jobs == nil {
		// Nothing will collect it, so wait in the background.
		go cmd.Wait()
		fmt.Fprintf(l.stdout(), "[?] %d\n", pid)
		return
	}

	job := l.Jobs.Launched(pid)
	// The tracker reaps the process, exec must not wait for it.
	cmd.Process.Release()
	fmt.Fprintf(l.stdout(), "[%d] %d\n", job.Seq, pid)

	if l.OnStart != nil {
		l.OnStart(proc, job)
	}
}
