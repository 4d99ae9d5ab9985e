package shell

import (
	"github.com/josephlewis42/lsh/core/alias"
)

// ResolveAliases replaces the first word of each stage with its alias value.
// Values are used verbatim and aren't themselves resolved.
func ResolveAliases(p *Pipeline, aliases *alias.Table) {
	if aliases == nil {
		return
	}

	for i, stage := range p.Stages {
		if len(stage) == 0 {
			continue
		}
		if value, ok := aliases.Get(stage[0]); ok {
			resolved := make([]string, 0, len(stage))
			resolved = append(resolved, value)
			p.Stages[i] = append(resolved, stage[1:]...)
		}
	}
}
