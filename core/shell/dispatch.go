package shell

import (
	"fmt"

	"github.com/josephlewis42/lsh/commands"
	"github.com/josephlewis42/lsh/core/launcher"
	"github.com/josephlewis42/lsh/core/logger"
	"github.com/josephlewis42/lsh/core/vos"
)

// Execute runs a single command line and reports whether the shell should
// keep reading lines.
func (s *Shell) Execute(line string) bool {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return true
	}

	pipeline, err := Parse(tokens)
	if err != nil {
		fmt.Fprintf(s.Stderr, "lsh: %v\n", err)
		s.record(&logger.SyntaxError{Line: line, Error: err.Error()})
		return true
	}

	// Resolve before anything starts so children get their final arguments.
	ResolveAliases(pipeline, s.Aliases)

	redirects, err := pipeline.OpenRedirects()
	if err != nil {
		fmt.Fprintf(s.Stderr, "lsh: %v\n", err)
		return true
	}
	defer redirects.Close()

	if pipeline.Empty() {
		return true
	}

	if len(pipeline.Stages) == 1 {
		return s.executeSingle(pipeline.Stages[0], redirects, pipeline.Background)
	}

	s.executePipeline(pipeline, redirects)
	return true
}

func (s *Shell) executeSingle(args []string, redirects *Redirects, background bool) bool {
	builtin, isBuiltin := s.Builtins.Lookup(args[0])
	if !isBuiltin {
		s.launch([]launcher.Proc{s.proc(args, background)}, redirects, background)
		return true
	}

	s.record(&logger.RunCommand{Command: args, Builtin: true, Background: background})
	if background {
		s.launch([]launcher.Proc{{Args: args, Builtin: true}}, redirects, true)
		return true
	}

	env := s.builtinEnv().Redirect(redirects.In, redirects.Out)
	return builtin(env, args) != commands.StatusExit
}

func (s *Shell) executePipeline(pipeline *Pipeline, redirects *Redirects) {
	procs := make([]launcher.Proc, 0, len(pipeline.Stages))
	for _, stage := range pipeline.Stages {
		if s.Builtins.Has(stage[0]) {
			s.record(&logger.RunCommand{Command: stage, Builtin: true, Background: pipeline.Background})
			procs = append(procs, launcher.Proc{Args: stage, Builtin: true})
			continue
		}
		procs = append(procs, s.proc(stage, pipeline.Background))
	}

	s.launch(procs, redirects, pipeline.Background)
}

// proc describes an external program and records whether it can be found.
func (s *Shell) proc(args []string, background bool) launcher.Proc {
	path, err := vos.LookPath(s.Fs, s.Env, args[0])
	if err != nil {
		s.record(&logger.UnknownCommand{Command: args})
	} else {
		s.record(&logger.RunCommand{Command: args, ResolvedCommandPath: path, Background: background})
	}
	return launcher.Proc{Args: args}
}

func (s *Shell) launch(procs []launcher.Proc, redirects *Redirects, background bool) {
	// Failures have already been reported to the user by the launcher.
	if err := s.Launcher.RunPipeline(procs, redirects.In, redirects.Out, background); err != nil {
		s.Log.Printf("launching %d process(es): %v", len(procs), err)
	}
}
