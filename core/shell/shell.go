package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/lsh/commands"
	"github.com/josephlewis42/lsh/core/alias"
	"github.com/josephlewis42/lsh/core/config"
	"github.com/josephlewis42/lsh/core/history"
	"github.com/josephlewis42/lsh/core/jobs"
	"github.com/josephlewis42/lsh/core/launcher"
	"github.com/josephlewis42/lsh/core/logger"
	"github.com/josephlewis42/lsh/core/vos"
	"github.com/spf13/afero"
)

// Shell is an interactive command interpreter.
type Shell struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Fs is used by builtins.
	Fs  afero.Fs
	Env vos.VEnv

	Aliases  *alias.Table
	History  *history.History
	Builtins *commands.Registry
	Jobs     *jobs.Tracker
	Launcher *launcher.Launcher

	// Events records what the shell runs.
	Events *logger.SessionLogger
	// Log receives diagnostics for the operator.
	Log *log.Logger

	// Prompt is the PS1 style template shown before each line.
	Prompt string
	// Color enables colored output.
	Color bool
}

// New creates a shell configured by cfg using the given standard streams.
// The shell must be closed when it's no longer needed.
func New(cfg *config.Configuration, stdin, stdout, stderr *os.File) (*Shell, error) {
	aliases, err := cfg.NewAliasTable()
	if err != nil {
		return nil, err
	}

	hist, err := cfg.OpenHistory()
	if err != nil {
		return nil, err
	}

	s := &Shell{
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		Fs:       afero.NewOsFs(),
		Env:      vos.NewOSEnv(),
		Aliases:  aliases,
		History:  hist,
		Builtins: commands.DefaultRegistry(),
		Jobs:     jobs.NewTracker(cfg.MaxBackgroundJobs),
		Events:   logger.NewDiscardLogger().Sessionless(),
		Log:      log.New(io.Discard, "[lsh] ", log.LstdFlags),
		Prompt:   cfg.Prompt,
		Color:    commands.ColorMode(cfg.Color, stdout),
	}

	self, err := launcher.Self()
	if err != nil {
		s.Log.Printf("builtins can't run in child processes: %v", err)
	}

	s.Launcher = &launcher.Launcher{
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		Self:     self,
		ChildEnv: s.childEnv,
		Jobs:     s.Jobs,
		OnStart: func(proc launcher.Proc, job jobs.Job) {
			s.record(&logger.JobStarted{Seq: job.Seq, Pid: job.Pid, Command: proc.Args})
		},
	}

	s.Jobs.Start()
	return s, nil
}

// Close stops tracking background jobs and saves the history.
func (s *Shell) Close() error {
	s.Jobs.Stop()
	return s.History.Persist()
}

// SetLogger sends diagnostics to l, the shell and job tracker share it.
func (s *Shell) SetLogger(l *log.Logger) {
	s.Log = l
	s.Jobs.Logger = l
}

func (s *Shell) record(event logger.LogType) {
	if err := s.Events.Record(event); err != nil {
		s.Log.Printf("recording event: %v", err)
	}
}

// Run reads lines from the terminal and executes them until end of input or
// a builtin asks to exit. It returns the process exit status.
func (s *Shell) Run() int {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 s.prompt(),
		Stdin:                  s.Stdin,
		Stdout:                 s.Stdout,
		Stderr:                 s.Stderr,
		HistoryLimit:           len(s.History.Entries()) + historyHeadroom,
		DisableAutoSaveHistory: true,
		AutoComplete:           s.completer(),
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
	})
	if err != nil {
		fmt.Fprintf(s.Stderr, "lsh: %v\n", err)
		return 1
	}
	defer rl.Close()

	for _, line := range s.History.Entries() {
		rl.SaveHistory(line)
	}
	s.History.OnRecord = func(line string) {
		rl.SaveHistory(line)
	}
	defer func() { s.History.OnRecord = nil }()

	return s.loop(func(prompt string) (string, error) {
		rl.SetPrompt(prompt)
		return rl.Readline()
	})
}

// historyHeadroom is how many lines a session can add to the line editor's
// history on top of what was loaded.
const historyHeadroom = 1000

// RunScript executes each line read from r without prompting.
func (s *Shell) RunScript(r io.Reader) int {
	scanner := bufio.NewScanner(r)
	return s.loop(func(string) (string, error) {
		if scanner.Scan() {
			return scanner.Text(), nil
		}
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	})
}

func (s *Shell) loop(readLine func(prompt string) (string, error)) int {
	for {
		s.reportJobs()

		line, err := readLine(s.prompt())
		switch {
		case err == io.EOF:
			return 0
		case errors.Is(err, readline.ErrInterrupt):
			// Interrupt clears line.
			continue
		case err != nil:
			s.Log.Printf("reading line: %v", err)
			fmt.Fprintf(s.Stderr, "lsh: %v\n", err)
			return 1
		case strings.TrimSpace(line) == "":
			continue
		}

		if _, err := s.History.Record(line); err != nil {
			s.Log.Printf("writing history: %v", err)
		}

		if !s.Execute(line) {
			return 0
		}
	}
}

// reportJobs prints background jobs that finished since the last call.
func (s *Shell) reportJobs() {
	for _, job := range s.Jobs.Report(s.Stdout) {
		s.record(&logger.JobDone{Seq: job.Seq, Pid: job.Pid})
	}
}

// completer completes builtin names and aliases for the first word.
func (s *Shell) completer() readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItemDynamic(func(string) []string {
			names := s.Builtins.Names()
			for _, entry := range s.Aliases.Entries() {
				names = append(names, entry.Name)
			}
			return names
		}),
	)
}

// builtinEnv is the environment for builtins run inside the shell.
func (s *Shell) builtinEnv() *commands.Env {
	return &commands.Env{
		VIO:      vos.NewVIOAdapter(s.Stdin, s.Stdout, s.Stderr),
		Fs:       s.Fs,
		Env:      s.Env,
		Aliases:  s.Aliases,
		History:  s.History,
		Builtins: s.Builtins,
		Color:    s.Color,
		Log:      s.Log,
	}
}
