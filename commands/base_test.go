package commands

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/josephlewis42/lsh/core/alias"
	"github.com/josephlewis42/lsh/core/history"
	"github.com/josephlewis42/lsh/core/vos"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleBytesToHuman() {

	// < 1k is presented directly
	fmt.Println(BytesToHuman(512))

	// Multiples > 10 are shown without decimal.
	fmt.Println(BytesToHuman(23 * 10e8))

	// Multiples < 10 are shown with decimal.
	fmt.Println(BytesToHuman(5 * 1024))

	// Output: 512
	// 23G
	// 5.1K
}

// newTestEnv creates an environment over an in-memory filesystem:
//
//	/bin/sh            executable
//	/home/.hidden
//	/home/bin/tool     executable
//	/home/notes.txt
//	/home/other.txt
//
// The aliases ll and la expand to ls, and the history holds three lines.
// Stdout and stderr are both written to out.
func newTestEnv(t *testing.T, stdin string) (env *Env, out *bytes.Buffer) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/bin", 0755))
	require.NoError(t, afero.WriteFile(fs, "/bin/sh", []byte("#!"), 0755))
	require.NoError(t, afero.WriteFile(fs, "/home/.hidden", []byte("secret\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/home/bin/tool", []byte("#!"), 0755))
	require.NoError(t, afero.WriteFile(fs, "/home/notes.txt", []byte("first line\nsecond line\nthird match\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/home/other.txt", []byte("no match here\nnothing\n"), 0644))

	aliases := alias.NewTable(alias.DefaultCapacity)
	require.NoError(t, aliases.Set("ll", "ls"))
	require.NoError(t, aliases.Set("la", "ls"))

	hist := history.New(fs, "/.lsh_history", history.DefaultLimit)
	for _, line := range []string{"ls", "cd /tmp", "history"} {
		_, err := hist.Record(line)
		require.NoError(t, err)
	}

	out = &bytes.Buffer{}
	env = &Env{
		VIO:      vos.NewVIOAdapter(strings.NewReader(stdin), out, out),
		Fs:       fs,
		Env:      vos.NewMapEnvFromEnvList([]string{"PATH=/usr/bin:/bin", "HOME=/home"}),
		Aliases:  aliases,
		History:  hist,
		Builtins: DefaultRegistry(),
	}
	return env, out
}

type goldenTestSuite map[string]goldenTest

type goldenTest struct {
	Args  []string
	Stdin string
}

func (gts goldenTestSuite) Run(t *testing.T, cmd Builtin) {
	t.Helper()

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	for tn, tc := range gts {
		t.Run(tn, func(t *testing.T) {
			env, out := newTestEnv(t, tc.Stdin)

			status := cmd(env, tc.Args)

			assert.Equal(t, StatusContinue, status, "status")
			g.Assert(t, tn, out.Bytes())
		})
	}
}

func TestRegistry(t *testing.T) {
	registry := DefaultRegistry()

	assert.Equal(t, []string{"cd", "help", "exit", "ls", "cat", "history", "grep", "echo", "type", "alias", "unalias"}, registry.Names())
	assert.Equal(t, 0, registry.Index("cd"))
	assert.Equal(t, 10, registry.Index("unalias"))
	assert.Equal(t, -1, registry.Index("sh"))
	assert.True(t, registry.Has("grep"))
	assert.False(t, registry.Has("Grep"))

	_, ok := registry.Lookup("missing")
	assert.False(t, ok)

	for _, entry := range registry.Entries() {
		t.Run(entry.Name, func(t *testing.T) {
			if entry.Main == nil {
				t.Fatal("nil builtin", entry.Name)
			}
			assert.NotEmpty(t, entry.Short)
		})
	}
}

func TestExit(t *testing.T) {
	env, out := newTestEnv(t, "")

	assert.Equal(t, StatusExit, Exit(env, []string{"exit"}))
	assert.Empty(t, out.String())
}

func TestSimpleCommand_flagErrors(t *testing.T) {
	env, out := newTestEnv(t, "")

	status := Echo(env, []string{"echo", "-z"})

	assert.Equal(t, StatusContinue, status)
	assert.Contains(t, out.String(), "error: unknown option: -z")
	assert.Contains(t, out.String(), "usage: echo")
}

func TestSimpleCommand_help(t *testing.T) {
	env, out := newTestEnv(t, "")

	status := Cat(env, []string{"cat", "--help"})

	assert.Equal(t, StatusContinue, status)
	assert.Contains(t, out.String(), "usage: cat [FILE]...")
	assert.Contains(t, out.String(), "--help")
}

func TestEnv_Redirect(t *testing.T) {
	env, out := newTestEnv(t, "from stdin")

	// Nil files keep the original streams.
	same := env.Redirect(nil, nil)
	assert.Equal(t, StatusContinue, Echo(same, []string{"echo", "kept"}))
	assert.Equal(t, "kept\n", out.String())
	assert.Same(t, env.Aliases, same.Aliases)
}

func TestColorMode(t *testing.T) {
	assert.True(t, ColorMode("always", nil))
	assert.False(t, ColorMode("never", nil))
	assert.False(t, ColorMode("auto", nil))
}
