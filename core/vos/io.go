package vos

import (
	"io"
	"os"
)

// VIOAdapter implements VIO over arbitrary readers and writers.
type VIOAdapter struct {
	IStdin  io.ReadCloser
	IStdout io.WriteCloser
	IStderr io.WriteCloser
}

// NewVIOAdapter creates a VIO, nil streams act like /dev/null.
func NewVIOAdapter(stdin io.Reader, stdout, stderr io.Writer) *VIOAdapter {
	return &VIOAdapter{
		IStdin:  toReadCloserOrDiscard(stdin),
		IStdout: toWriteCloserOrDiscard(stdout),
		IStderr: toWriteCloserOrDiscard(stderr),
	}
}

// NewOSIO creates a VIO connected to the process's standard streams.
func NewOSIO() VIO {
	return NewVIOAdapter(os.Stdin, os.Stdout, os.Stderr)
}

// Redirect returns a copy of base with stdin and stdout replaced by in and out
// when they're non-nil. Closing the returned streams never closes the
// replacements, their owner does that.
func Redirect(base VIO, in io.Reader, out io.Writer) VIO {
	redirected := &VIOAdapter{
		IStdin:  base.Stdin(),
		IStdout: base.Stdout(),
		IStderr: base.Stderr(),
	}
	if in != nil {
		redirected.IStdin = io.NopCloser(in)
	}
	if out != nil {
		redirected.IStdout = nopWriteCloser{out}
	}
	return redirected
}

var _ VIO = (*VIOAdapter)(nil)

func (pr *VIOAdapter) Stdin() io.ReadCloser {
	return pr.IStdin
}

func (pr *VIOAdapter) Stdout() io.WriteCloser {
	return pr.IStdout
}

func (pr *VIOAdapter) Stderr() io.WriteCloser {
	return pr.IStderr
}

func toWriteCloserOrDiscard(w io.Writer) io.WriteCloser {
	if w == nil {
		return &devNull{}
	}
	if wc, ok := w.(io.WriteCloser); ok {
		return wc
	}

	return nopWriteCloser{w}
}

func toReadCloserOrDiscard(r io.Reader) io.ReadCloser {
	if r == nil {
		return &devNull{}
	}
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}

	return io.NopCloser(r)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// devNull returns EOF for reads and discards writes.
type devNull struct{}

var _ io.ReadCloser = (*devNull)(nil)
var _ io.WriteCloser = (*devNull)(nil)

func (*devNull) Read([]byte) (int, error) {
	return 0, io.EOF
}

func (*devNull) Close() error {
	return nil
}

func (*devNull) Write(b []byte) (int, error) {
	return len(b), nil
}
