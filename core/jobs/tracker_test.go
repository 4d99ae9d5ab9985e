package jobs

import (
	"bytes"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// fakeExits makes reap treat the given pids as exited.
func fakeExits(tr *Tracker, exited map[int]bool) {
	tr.wait4 = func(pid int) (bool, error) {
		return exited[pid], nil
	}
}

func TestTracker_numbering(t *testing.T) {
	tr := NewTracker(8)
	exited := make(map[int]bool)
	fakeExits(tr, exited)

	assert.Equal(t, Job{Seq: 1, Pid: 100, State: Running}, tr.Launched(100))
	assert.Equal(t, Job{Seq: 2, Pid: 200, State: Running}, tr.Launched(200))
	assert.Equal(t, 2, tr.Live())

	// The first job to finish takes the number of the live count before it
	// finished, not the number it was launched with.
	exited[100] = true
	tr.reap()
	assert.Equal(t, 1, tr.Live())

	exited[200] = true
	tr.reap()
	assert.Equal(t, 0, tr.Live())

	assert.Equal(t, []Job{
		{Seq: 1, Pid: 200, State: Completed},
		{Seq: 2, Pid: 100, State: Completed},
	}, tr.Drain())

	assert.Nil(t, tr.Drain(), "drain clears the completions")
}

func TestTracker_Report(t *testing.T) {
	tr := NewTracker(8)
	fakeExits(tr, map[int]bool{42: true})

	tr.Launched(42)
	tr.reap()

	buf := &bytes.Buffer{}
	reported := tr.Report(buf)
	assert.Len(t, reported, 1)
	assert.Equal(t, "[1]+ done 42\n", buf.String())

	buf.Reset()
	tr.Report(buf)
	assert.Empty(t, buf.String())
}

func TestTracker_overflow(t *testing.T) {
	tr := NewTracker(2)
	exited := map[int]bool{1: true, 2: true, 3: true}
	fakeExits(tr, exited)

	for pid := 1; pid <= 3; pid++ {
		tr.Launched(pid)
		tr.reap()
	}

	done := tr.Drain()
	require.Len(t, done, 2)
	assert.Equal(t, 3, done[0].Pid)
	assert.Equal(t, 2, done[1].Pid)
}

func TestTracker_goneChild(t *testing.T) {
	tr := NewTracker(2)
	tr.wait4 = func(pid int) (bool, error) {
		return false, unix.ECHILD
	}

	tr.Launched(7)
	tr.reap()

	assert.Equal(t, 0, tr.Watching())
	assert.Equal(t, []Job{{Seq: 1, Pid: 7, State: Completed}}, tr.Drain())
}

func TestTracker_sigchld(t *testing.T) {
	path, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not available:", err)
	}

	tr := NewTracker(4)
	tr.Start()
	defer tr.Stop()

	cmd := exec.Command(path)
	require.Nil(t, cmd.Start())
	job := tr.Launched(cmd.Process.Pid)
	assert.Equal(t, 1, job.Seq)

	assert.Eventually(t, func() bool {
		return tr.Live() == 0
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, []Job{{Seq: 1, Pid: cmd.Process.Pid, State: Completed}}, tr.Drain())
}
