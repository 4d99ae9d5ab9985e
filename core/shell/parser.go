package shell

import (
	"errors"
	"fmt"
)

// Operator tokens.
const (
	TokenPipe       = "|"
	TokenBackground = "&"
	TokenIn         = "<"
	TokenOut        = ">"
	TokenAppend     = ">>"
)

// ErrSyntax is matched by every error Parse returns.
var ErrSyntax = errors.New("syntax error")

// SyntaxError describes the token a line couldn't be parsed at.
type SyntaxError struct {
	// Token is quoted the way it's displayed.
	Token string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error near unexpected token %s", e.Token)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// RedirectOp is the kind of a redirection.
type RedirectOp int

const (
	// RedirectIn reads stdin from a file.
	RedirectIn RedirectOp = iota
	// RedirectOut truncates a file and writes stdout to it.
	RedirectOut
	// RedirectAppend appends stdout to a file.
	RedirectAppend
)

func (op RedirectOp) String() string {
	switch op {
	case RedirectIn:
		return TokenIn
	case RedirectOut:
		return TokenOut
	case RedirectAppend:
		return TokenAppend
	default:
		return fmt.Sprintf("RedirectOp(%d)", int(op))
	}
}

// Redirect is a single redirection as it was written.
type Redirect struct {
	Op   RedirectOp
	Path string
}

func (r Redirect) String() string {
	return r.Op.String() + " " + r.Path
}

func redirectOp(token string) (RedirectOp, bool) {
	switch token {
	case TokenIn:
		return RedirectIn, true
	case TokenOut:
		return RedirectOut, true
	case TokenAppend:
		return RedirectAppend, true
	default:
		return 0, false
	}
}

// Pipeline is a parsed command line.
type Pipeline struct {
	// Stages hold the argument lists of each command, in order. A line with
	// only redirections has a single empty stage.
	Stages [][]string
	// Background is set if the line contained '&'.
	Background bool
	// Redirects in the order they were written. Input redirections apply to
	// the first stage and output redirections to the last, whichever stage
	// they were written in.
	Redirects []Redirect
}

// Empty is true if there's nothing to run.
func (p *Pipeline) Empty() bool {
	return len(p.Stages) == 0 || (len(p.Stages) == 1 && len(p.Stages[0]) == 0)
}

// Parse builds a pipeline from tokens.
//
// Every '&' is removed and marks the pipeline as background, it doesn't need
// to be last. '|' splits stages. '<', '>' and '>>' take the following token
// as their path and both are removed from the stage.
func Parse(tokens []string) (*Pipeline, error) {
	out := &Pipeline{}

	var words []string
	for _, tok := range tokens {
		if tok == TokenBackground {
			out.Background = true
			continue
		}
		words = append(words, tok)
	}

	if len(words) == 0 {
		if out.Background {
			return nil, &SyntaxError{Token: "'&'"}
		}
		return out, nil
	}

	stage := []string{}
	endStage := func() {
		out.Stages = append(out.Stages, stage)
		stage = []string{}
	}

	for i := 0; i < len(words); i++ {
		tok := words[i]
		if tok == TokenPipe {
			endStage()
			continue
		}

		op, ok := redirectOp(tok)
		if !ok {
			stage = append(stage, tok)
			continue
		}

		if i+1 >= len(words) || words[i+1] == TokenPipe {
			return nil, &SyntaxError{Token: `"newline"`}
		}
		if _, ok := redirectOp(words[i+1]); ok {
			return nil, &SyntaxError{Token: "'" + words[i+1] + "'"}
		}
		out.Redirects = append(out.Redirects, Redirect{Op: op, Path: words[i+1]})
		i++
	}
	endStage()

	if len(out.Stages) > 1 {
		for _, s := range out.Stages {
			if len(s) == 0 {
				return nil, &SyntaxError{Token: "'|'"}
			}
		}
	}

	return out, nil
}
