package main

import (
	"os"

	"github.com/josephlewis42/lsh/cmd"
	"github.com/josephlewis42/lsh/core/launcher"
	"github.com/josephlewis42/lsh/core/shell"
)

func main() {
	// Builtins that run in a pipeline or the background re-execute the shell.
	if launcher.IsBuiltinChild() {
		os.Exit(shell.RunBuiltinChild(os.Args[1:]))
	}

	os.Exit(cmd.Execute())
}
