package history

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestHistory_Record(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := New(fs, "/home/user/.lsh_history", 0)

	var seen []string
	h.OnRecord = func(line string) {
		seen = append(seen, line)
	}

	for _, line := range []string{"ls", "ls", "", "   ", "pwd", "ls"} {
		_, err := h.Record(line)
		assert.Nil(t, err)
	}

	assert.Equal(t, []string{"ls", "pwd", "ls"}, h.Entries())
	assert.Equal(t, []string{"ls", "pwd", "ls"}, seen)

	contents, err := afero.ReadFile(fs, "/home/user/.lsh_history")
	assert.Nil(t, err)
	assert.Equal(t, "ls\npwd\nls\n", string(contents))
}

func TestHistory_duplicateSuppression(t *testing.T) {
	h := New(afero.NewMemMapFs(), "", 10)

	recorded, err := h.Record("echo hi")
	assert.Nil(t, err)
	assert.True(t, recorded)

	recorded, err = h.Record("echo hi")
	assert.Nil(t, err)
	assert.False(t, recorded)

	assert.Len(t, h.Entries(), 1)
}

func TestHistory_limit(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := New(fs, "hist", 3)

	for i := 0; i < 5; i++ {
		h.Record(fmt.Sprintf("cmd %d", i))
	}

	assert.Equal(t, []string{"cmd 2", "cmd 3", "cmd 4"}, h.Entries())
	assert.Equal(t, 3, h.Base())

	assert.Nil(t, h.Persist())
	contents, err := afero.ReadFile(fs, "hist")
	assert.Nil(t, err)
	assert.Equal(t, "cmd 2\ncmd 3\ncmd 4\n", string(contents))
}

func TestHistory_Load(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.Nil(t, afero.WriteFile(fs, "hist", []byte("a\n\nb\nc\n"), 0600))

	h := New(fs, "hist", 2)
	assert.Nil(t, h.Load())
	assert.Equal(t, []string{"b", "c"}, h.Entries())

	missing := New(fs, "does-not-exist", 2)
	assert.Nil(t, missing.Load())
	assert.Empty(t, missing.Entries())
}

func TestHistory_Clear(t *testing.T) {
	h := New(afero.NewMemMapFs(), "", 0)
	h.Record("a")
	h.Record("b")
	h.Clear()

	assert.Empty(t, h.Entries())
	assert.Equal(t, 3, h.Base())

	h.Restore(7, []string{"x", "y"})
	assert.Equal(t, 7, h.Base())
	assert.Equal(t, []string{"x", "y"}, h.Entries())
}
