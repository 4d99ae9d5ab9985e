package shell

import (
	"fmt"
	"os"

	"github.com/josephlewis42/lsh/commands"
	"github.com/josephlewis42/lsh/core/alias"
	"github.com/josephlewis42/lsh/core/history"
	"github.com/josephlewis42/lsh/core/launcher"
	"github.com/josephlewis42/lsh/core/vos"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// State is the part of the shell a builtin child needs to behave like its
// parent.
type State struct {
	Aliases       []alias.Entry `json:"aliases,omitempty"`
	AliasCapacity int           `json:"alias_capacity,omitempty"`
	HistoryBase   int           `json:"history_base,omitempty"`
	History       []string      `json:"history,omitempty"`
	HistoryLimit  int           `json:"history_limit,omitempty"`
	Color         bool          `json:"color,omitempty"`
}

// EncodeState serializes the state for the child's environment.
func EncodeState(state State) (string, error) {
	out, err := yaml.Marshal(state)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DecodeState reverses EncodeState, an empty string is the zero State.
func DecodeState(encoded string) (State, error) {
	var state State
	if encoded == "" {
		return state, nil
	}
	err := yaml.UnmarshalStrict([]byte(encoded), &state)
	return state, err
}

// snapshot captures the state passed to builtin children.
func (s *Shell) snapshot() State {
	state := State{
		AliasCapacity: s.Aliases.Capacity(),
		Aliases:       s.Aliases.Entries(),
		Color:         s.Color,
	}
	if s.History != nil {
		state.HistoryBase = s.History.Base()
		state.History = s.History.Entries()
		state.HistoryLimit = len(state.History)
	}
	return state
}

// childEnv is the environment builtin children are started with.
func (s *Shell) childEnv() []string {
	state, err := EncodeState(s.snapshot())
	if err != nil {
		s.Log.Printf("encoding child state: %v", err)
	}
	return launcher.ChildEnv(state)
}

// RunBuiltinChild runs the builtin named by args[0] with the state of the
// parent shell and returns the status to exit with. It's called by processes
// where launcher.IsBuiltinChild is true.
func RunBuiltinChild(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "lsh: no builtin given")
		return 1
	}

	registry := commands.DefaultRegistry()
	builtin, ok := registry.Lookup(args[0])
	if !ok {
		fmt.Fprintln(os.Stderr, (&launcher.NotFoundError{Name: args[0]}).Error())
		return 1
	}

	state, err := DecodeState(os.Getenv(launcher.EnvState))
	if err != nil {
		fmt.Fprintf(os.Stderr, "lsh: reading parent state: %v\n", err)
	}

	capacity := state.AliasCapacity
	if capacity < len(state.Aliases) {
		capacity = len(state.Aliases)
	}
	aliases := alias.NewTable(capacity)
	if err := aliases.Load(state.Aliases); err != nil {
		fmt.Fprintf(os.Stderr, "lsh: %v\n", err)
	}

	hist := history.New(afero.NewMemMapFs(), "", state.HistoryLimit)
	hist.Restore(state.HistoryBase, state.History)

	env := &commands.Env{
		VIO:      vos.NewOSIO(),
		Fs:       afero.NewOsFs(),
		Env:      vos.NewOSEnv(),
		Aliases:  aliases,
		History:  hist,
		Builtins: registry,
		Color:    state.Color,
	}

	return builtin(env, args)
}
