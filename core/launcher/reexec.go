package launcher

import (
	"os"
)

const (
	// EnvBuiltinChild marks a process started to run a single builtin.
	EnvBuiltinChild = "LSH_BUILTIN_CHILD"

	// EnvState carries the parent shell's state to a builtin child.
	EnvState = "LSH_STATE"
)

// IsBuiltinChild reports whether the current process was started by a
// Launcher to run a builtin. Programs embedding the shell must check this
// before doing anything else.
func IsBuiltinChild() bool {
	return os.Getenv(EnvBuiltinChild) == "1"
}

// Self returns the path used to start builtin children.
func Self() (string, error) {
	return os.Executable()
}

// ChildEnv returns the environment for a builtin child carrying state.
func ChildEnv(state string) []string {
	return append(os.Environ(), EnvBuiltinChild+"=1", EnvState+"="+state)
}
