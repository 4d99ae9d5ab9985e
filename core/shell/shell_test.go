package shell

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/josephlewis42/lsh/core/config"
	"github.com/josephlewis42/lsh/core/launcher"
	"github.com/josephlewis42/lsh/core/logger"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Builtins in pipelines and the background re-execute the test binary.
	if launcher.IsBuiltinChild() {
		os.Exit(RunBuiltinChild(os.Args[1:]))
	}

	os.Exit(m.Run())
}

type testShell struct {
	*Shell

	dir    string
	stdout string
	stderr string
}

// newTestShell creates a shell with the default configuration reading from
// /dev/null and writing to files in a temporary directory.
func newTestShell(t *testing.T) *testShell {
	t.Helper()

	dir := t.TempDir()
	stdin, err := os.Open(os.DevNull)
	require.NoError(t, err)
	stdout, err := os.Create(filepath.Join(dir, ".stdout"))
	require.NoError(t, err)
	stderr, err := os.Create(filepath.Join(dir, ".stderr"))
	require.NoError(t, err)

	cfg := config.Default(afero.NewMemMapFs())
	cfg.Color = config.ColorNever

	sh, err := New(cfg, stdin, stdout, stderr)
	require.NoError(t, err)

	t.Cleanup(func() {
		sh.Close()
		stdin.Close()
		stdout.Close()
		stderr.Close()
	})

	return &testShell{
		Shell:  sh,
		dir:    dir,
		stdout: stdout.Name(),
		stderr: stderr.Name(),
	}
}

func (ts *testShell) path(name string) string {
	return filepath.Join(ts.dir, name)
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	return string(data)
}

func requireCommands(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available: %v", name, err)
		}
	}
}

func TestShell_Execute_foreground(t *testing.T) {
	requireCommands(t, "touch")
	ts := newTestShell(t)

	marker := ts.path("marker")
	assert.True(t, ts.Execute("touch "+marker))

	// The shell waited for the command before returning.
	_, err := os.Stat(marker)
	assert.NoError(t, err)
	assert.Empty(t, readFile(t, ts.stderr))
}

func TestShell_Execute_pipeline(t *testing.T) {
	requireCommands(t, "tr")
	ts := newTestShell(t)

	input := strings.Repeat("the quick brown fox\n", 5000)
	require.NoError(t, os.WriteFile(ts.path("in"), []byte(input), 0644))

	// Builtins on both ends run as children.
	assert.True(t, ts.Execute("cat "+ts.path("in")+" | tr a-z A-Z | cat > "+ts.path("out")))

	assert.Equal(t, strings.ToUpper(input), readFile(t, ts.path("out")))
	assert.Empty(t, readFile(t, ts.stderr))
}

func TestShell_Execute_redirectRoundTrip(t *testing.T) {
	requireCommands(t, "tr")
	ts := newTestShell(t)

	ts.Execute("echo round trip > " + ts.path("f"))
	ts.Execute("tr a-z A-Z < " + ts.path("f") + " > " + ts.path("g"))
	ts.Execute("cat < " + ts.path("g") + " >> " + ts.path("f"))

	assert.Equal(t, "round trip\nROUND TRIP\n", readFile(t, ts.path("f")))
	assert.Empty(t, readFile(t, ts.stdout))
}

func TestShell_Execute_background(t *testing.T) {
	requireCommands(t, "sleep")
	ts := newTestShell(t)

	start := time.Now()
	assert.True(t, ts.Execute("sleep 1 &"))
	assert.Less(t, int64(time.Since(start)), int64(900*time.Millisecond), "background job blocked")

	started := regexp.MustCompile(`^\[1\] (\d+)\n$`).FindStringSubmatch(readFile(t, ts.stdout))
	require.Len(t, started, 2, "missing job start line")
	pid := started[1]

	assert.Eventually(t, func() bool {
		return ts.Jobs.Live() == 0
	}, 10*time.Second, 20*time.Millisecond)

	ts.reportJobs()
	assert.Equal(t, "[1] "+pid+"\n[1]+ done "+pid+"\n", readFile(t, ts.stdout))

	// Reported once.
	ts.reportJobs()
	assert.Equal(t, "[1] "+pid+"\n[1]+ done "+pid+"\n", readFile(t, ts.stdout))
}

func TestShell_Execute_backgroundBuiltin(t *testing.T) {
	ts := newTestShell(t)

	assert.True(t, ts.Execute("echo from child > "+ts.path("out")+" &"))

	assert.Eventually(t, func() bool {
		data, _ := os.ReadFile(ts.path("out"))
		return string(data) == "from child\n"
	}, 10*time.Second, 20*time.Millisecond)
	assert.Contains(t, readFile(t, ts.stdout), "[1] ")
}

func TestShell_Execute_onlyBackground(t *testing.T) {
	ts := newTestShell(t)

	assert.True(t, ts.Execute("&"))

	assert.Equal(t, "lsh: syntax error near unexpected token '&'\n", readFile(t, ts.stderr))
	assert.Empty(t, readFile(t, ts.stdout))
	assert.Equal(t, 0, ts.Jobs.Live())
	assert.Equal(t, 0, ts.Jobs.Watching())
}

func TestShell_Execute_alias(t *testing.T) {
	ts := newTestShell(t)

	require.NoError(t, os.Mkdir(ts.path("subdir"), 0755))
	require.NoError(t, os.WriteFile(ts.path("subdir/file.txt"), nil, 0644))

	ts.Execute("alias ll ls")
	ts.Execute("ll " + ts.path("subdir"))

	assert.Equal(t, "file.txt\n", readFile(t, ts.stdout))
}

func TestShell_Execute_builtinSeesParentState(t *testing.T) {
	ts := newTestShell(t)

	ts.Execute("alias gg grep")
	ts.Execute("alias | cat > " + ts.path("out"))

	assert.Equal(t, "alias ll='ls'\nalias gg='grep'\n", readFile(t, ts.path("out")))
}

func TestShell_Execute_notFound(t *testing.T) {
	ts := newTestShell(t)

	assert.True(t, ts.Execute("no-such-command-lsh --flag"))

	assert.Equal(t, "'no-such-command-lsh' is not a recognized command\n", readFile(t, ts.stderr))
}

func TestShell_Execute_notFoundInPipeline(t *testing.T) {
	ts := newTestShell(t)

	// The other stages still run.
	assert.True(t, ts.Execute("echo hi | no-such-command-lsh | cat > "+ts.path("out")))

	assert.Equal(t, "'no-such-command-lsh' is not a recognized command\n", readFile(t, ts.stderr))
	assert.Equal(t, "", readFile(t, ts.path("out")))
}

func TestShell_Execute_redirectFailure(t *testing.T) {
	ts := newTestShell(t)
	missing := ts.path("missing/file")

	assert.True(t, ts.Execute("cat < "+missing))

	assert.Equal(t, "lsh: open "+missing+": no such file or directory\n", readFile(t, ts.stderr))
}

func TestShell_Execute_redirectOnly(t *testing.T) {
	ts := newTestShell(t)

	assert.True(t, ts.Execute("> "+ts.path("created")))

	assert.Equal(t, "", readFile(t, ts.path("created")))
}

func TestShell_Execute_exit(t *testing.T) {
	ts := newTestShell(t)

	assert.True(t, ts.Execute(""))
	assert.True(t, ts.Execute("echo keep going"))
	assert.False(t, ts.Execute("exit"))

	// exit in a child only ends the child.
	assert.True(t, ts.Execute("exit | cat"))
}

func TestShell_RunScript(t *testing.T) {
	ts := newTestShell(t)

	status := ts.RunScript(strings.NewReader("echo a\necho a\n\n   \necho b\nexit\necho after\n"))

	assert.Equal(t, 0, status)
	assert.Equal(t, "a\na\nb\n", readFile(t, ts.stdout))
	assert.Equal(t, []string{"echo a", "echo b", "exit"}, ts.History.Entries())
}

func TestShell_events(t *testing.T) {
	ts := newTestShell(t)
	buf := &bytes.Buffer{}
	ts.Events = logger.NewJsonLinesLogRecorder(buf).NewSession()

	ts.Execute("no-such-command-lsh")
	ts.Execute("ls |")
	ts.Execute("echo hi")

	report := logger.NewReport()
	require.NoError(t, logger.ReadJSONLinesLog(buf, report.Update))

	assert.Equal(t, 3, report.LogEntries)
	assert.Equal(t, 1, report.UnknownCommand.CommandNames.Get("no-such-command-lsh"))
	assert.Equal(t, 1, report.SyntaxError.Errors.Get("syntax error near unexpected token '|'", "ls |"))
	assert.Equal(t, 1, report.RunCommand.Builtins)
}

func TestShell_prompt(t *testing.T) {
	ts := newTestShell(t)

	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(wd) })

	home, err := filepath.EvalSymlinks(ts.dir)
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(home, "src"), 0755))
	require.NoError(t, os.Chdir(filepath.Join(home, "src")))
	ts.Env.Setenv("HOME", home)

	sign := "$"
	if os.Geteuid() == 0 {
		sign = "#"
	}

	ts.Prompt = `\w\$ `
	assert.Equal(t, "~/src"+sign+" ", ts.prompt())

	ts.Env.Setenv("HOME", "/nonexistent")
	assert.Equal(t, filepath.Join(home, "src")+sign+" ", ts.prompt())

	ts.Prompt = "> "
	assert.Equal(t, "> ", ts.prompt())
}

func TestState(t *testing.T) {
	ts := newTestShell(t)
	ts.History.Record("ls")
	ts.History.Record("echo hi")

	encoded, err := EncodeState(ts.snapshot())
	require.NoError(t, err)

	decoded, err := DecodeState(encoded)
	require.NoError(t, err)
	assert.Equal(t, ts.snapshot(), decoded)

	empty, err := DecodeState("")
	require.NoError(t, err)
	assert.Equal(t, State{}, empty)

	_, err = DecodeState("unknown_field: 1")
	assert.Error(t, err)
}
