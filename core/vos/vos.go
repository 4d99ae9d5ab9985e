// Package vos provides the view of the operating system given to builtin
// commands: their standard streams, environment, and executable search.
package vos

import "io"

// VIO holds the standard streams of a command.
type VIO interface {
	Stdin() io.ReadCloser
	Stdout() io.WriteCloser
	Stderr() io.WriteCloser
}

// VEnv represents an environment.
type VEnv interface {
	// Setenv sets the value of the environment variable named by the key.
	Setenv(key, value string) error

	// Unsetenv unsets a single environment variable.
	Unsetenv(key string) error

	// LookupEnv retrieves the value of the environment variable named by the key.
	LookupEnv(key string) (string, bool)

	// Getenv retrieves the value of the environment variable named by the key.
	// It returns the value, which will be empty if the variable is not present.
	Getenv(key string) string

	// Environ returns a copy of strings representing the environment, in the
	// form "key=value".
	Environ() []string
}
