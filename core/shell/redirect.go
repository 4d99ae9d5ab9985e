package shell

import (
	"os"
)

// Redirects holds the files opened for a pipeline.
type Redirects struct {
	In  *os.File
	Out *os.File
}

// OpenRedirects opens the pipeline's redirections in the order they were
// written. A later redirection of the same direction replaces an earlier one.
// On failure, files that were already opened are closed.
func (p *Pipeline) OpenRedirects() (*Redirects, error) {
	out := &Redirects{}

	for _, r := range p.Redirects {
		var (
			fd  *os.File
			err error
		)
		switch r.Op {
		case RedirectIn:
			fd, err = os.Open(r.Path)
		case RedirectOut:
			fd, err = os.OpenFile(r.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		case RedirectAppend:
			fd, err = os.OpenFile(r.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		}
		if err != nil {
			out.Close()
			return nil, err
		}

		if r.Op == RedirectIn {
			out.In.Close()
			out.In = fd
		} else {
			out.Out.Close()
			out.Out = fd
		}
	}

	return out, nil
}

// Close releases the shell's copies of the files. Children that were started
// with them keep their own.
func (r *Redirects) Close() error {
	var firstErr error
	for _, fd := range []*os.File{r.In, r.Out} {
		if fd == nil {
			continue
		}
		if err := fd.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.In, r.Out = nil, nil
	return firstErr
}
