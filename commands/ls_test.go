package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLs(t *testing.T) {
	cases := goldenTestSuite{
		"dir":      {Args: []string{"ls", "/home"}},
		"all":      {Args: []string{"ls", "-a", "/home"}},
		"narrow":   {Args: []string{"ls", "-w", "12", "/home"}},
		"multiple": {Args: []string{"ls", "/home/notes.txt", "/home/bin"}},
		"missing":  {Args: []string{"ls", "/nope"}},
	}

	cases.Run(t, Ls)
}

func TestLs_long(t *testing.T) {
	env, out := newTestEnv(t, "")

	assert.Equal(t, StatusContinue, Ls(env, []string{"ls", "-l", "/home/bin"}))

	assert.Contains(t, out.String(), "total 2\n")
	assert.Contains(t, out.String(), "-rwxr-xr-x")
	assert.Contains(t, out.String(), " tool\n")
}

func TestLs_color(t *testing.T) {
	env, out := newTestEnv(t, "")

	Ls(env, []string{"ls", "--color=always", "/home"})

	assert.Contains(t, out.String(), "\x1b[34;1mbin\x1b[0m")
}

func TestColumnize(t *testing.T) {
	env, _ := newTestEnv(t, "")
	paths, err := readDir(env.Fs, "/home")
	assert.NoError(t, err)

	// .hidden bin notes.txt other.txt
	assert.Equal(t, []int{7, 3, 9, 9}, columnize(paths, 80))
	assert.Equal(t, []int{7, 9}, columnize(paths, 20))
	assert.Equal(t, []int{9}, columnize(paths, 5))
}
