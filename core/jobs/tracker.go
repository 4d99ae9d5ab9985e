// Package jobs tracks commands running in the background and reports them
// once they finish.
package jobs

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"
)

// DefaultCapacity is the number of finished, unreported jobs held if no
// capacity is configured.
const DefaultCapacity = 64

// State is the lifecycle state of a job.
type State int

const (
	Running State = iota
	Completed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Job is a background process.
type Job struct {
	Seq   int
	Pid   int
	State State
}

// Tracker records background jobs and collects their completions.
//
// Completions are observed asynchronously when the shell receives SIGCHLD.
// The notification path only updates the live counter, writes into a ring
// buffer allocated up front and raises a flag; formatting is left to Report,
// which the read-eval loop calls between prompts.
type Tracker struct {
	live    atomic.Int32
	pending atomic.Bool

	// ring holds completed jobs not yet reported.
	mu      sync.Mutex
	ring    []Job
	head    int
	count   int
	dropped int

	watchMu sync.Mutex
	watched map[int]struct{}

	sigs chan os.Signal
	kick chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup

	// wait4 reaps pid without blocking, it's swapped out in tests.
	wait4 func(pid int) (bool, error)

	Logger *log.Logger
}

// NewTracker creates a tracker that can hold capacity unreported jobs.
func NewTracker(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Tracker{
		ring:    make([]Job, capacity),
		watched: make(map[int]struct{}),
		kick:    make(chan struct{}, 1),
		wait4:   reapNoHang,
		Logger:  log.New(io.Discard, "", 0),
	}
}

func reapNoHang(pid int) (bool, error) {
	var status unix.WaitStatus
	for {
		wpid, err := unix.Wait4(pid, &status, unix.WNOHANG, nil)
		switch {
		case err == unix.EINTR:
			continue
		case err != nil:
			return false, err
		default:
			return wpid == pid, nil
		}
	}
}

// Start begins listening for SIGCHLD.
func (t *Tracker) Start() {
	if t.stop != nil {
		return
	}
	t.sigs = make(chan os.Signal, 1)
	t.stop = make(chan struct{})
	signal.Notify(t.sigs, syscall.SIGCHLD)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for {
			select {
			case <-t.stop:
				return
			case <-t.sigs:
			case <-t.kick:
			}
			t.reap()
		}
	}()
}

// Stop stops listening for SIGCHLD. Jobs still running are no longer
// observed.
func (t *Tracker) Stop() {
	if t.stop == nil {
		return
	}
	signal.Stop(t.sigs)
	close(t.stop)
	t.wg.Wait()
	t.stop = nil
}

// Launched records a newly started background process and returns its job.
// The sequence number is the number of live background jobs including this
// one.
func (t *Tracker) Launched(pid int) Job {
	seq := int(t.live.Add(1))

	t.watchMu.Lock()
	t.watched[pid] = struct{}{}
	t.watchMu.Unlock()

	// The child may have exited before it was watched, so check once now.
	select {
	case t.kick <- struct{}{}:
	default:
	}

	return Job{Seq: seq, Pid: pid, State: Running}
}

// reap collects every watched child that has exited.
func (t *Tracker) reap() {
	t.watchMu.Lock()
	defer t.watchMu.Unlock()

	for pid := range t.watched {
		exited, err := t.wait4(pid)
		if err == unix.ECHILD {
			// Someone else collected it, it's gone either way.
			exited, err = true, nil
		}
		if err != nil {
			t.Logger.Printf("wait4(%d): %v", pid, err)
			continue
		}
		if exited {
			delete(t.watched, pid)
			t.completed(pid)
		}
	}
}

// completed runs on the notification path.
func (t *Tracker) completed(pid int) {
	// The reported number is derived from the live count at completion time,
	// not from the number handed out at launch.
	seq := int(t.live.Add(-1)) + 1

	t.mu.Lock()
	if t.count == len(t.ring) {
		t.head = (t.head + 1) % len(t.ring)
		t.count--
		t.dropped++
	}
	t.ring[(t.head+t.count)%len(t.ring)] = Job{Seq: seq, Pid: pid, State: Completed}
	t.count++
	t.mu.Unlock()

	t.pending.Store(true)
}

// Live returns the number of background jobs that haven't finished.
func (t *Tracker) Live() int {
	return int(t.live.Load())
}

// Watching returns the number of processes still being watched.
func (t *Tracker) Watching() int {
	t.watchMu.Lock()
	defer t.watchMu.Unlock()
	return len(t.watched)
}

// Drain returns the completed jobs, most recent first, and forgets them.
func (t *Tracker) Drain() []Job {
	if !t.pending.Load() {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending.Store(false)
	if t.dropped > 0 {
		t.Logger.Printf("dropped %d background job completions, ring is full", t.dropped)
		t.dropped = 0
	}

	out := make([]Job, 0, t.count)
	for i := t.count - 1; i >= 0; i-- {
		out = append(out, t.ring[(t.head+i)%len(t.ring)])
	}
	t.head, t.count = 0, 0
	return out
}

// Report writes a line for each completed job to w.
func (t *Tracker) Report(w io.Writer) []Job {
	done := t.Drain()
	for _, job := range done {
		fmt.Fprintf(w, "[%d]+ %s %d\n", job.Seq, job.State, job.Pid)
	}
	return done
}
