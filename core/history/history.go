// Package history keeps the list of accepted command lines and their on-disk
// copy.
package history

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// DefaultLimit is the number of entries kept if no limit is configured.
const DefaultLimit = 100

// History is an append-only list of command lines backed by a file.
//
// The zero value is not usable, use New.
type History struct {
	fs    afero.Fs
	path  string
	limit int

	mu      sync.Mutex
	base    int
	entries []string

	// OnRecord, if set, is called with every newly recorded line.
	OnRecord func(line string)
}

// New creates a history stored at path in fsys. An empty path keeps the
// history in memory only.
func New(fsys afero.Fs, path string, limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{
		fs:    fsys,
		path:  path,
		limit: limit,
		base:  1,
	}
}

// Load reads previously persisted entries, a missing file is not an error.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	fd, err := h.fs.Open(h.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return err
	}
	defer fd.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	scanner := bufio.NewScanner(fd)
	for scanner.Scan() {
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			h.entries = append(h.entries, line)
		}
	}
	h.trim()
	return scanner.Err()
}

// trim drops the oldest entries past the limit, the caller must hold mu.
func (h *History) trim() {
	if extra := len(h.entries) - h.limit; extra > 0 {
		h.entries = append([]string(nil), h.entries[extra:]...)
		h.base += extra
	}
}

// Record adds line to the history unless it is blank or the same as the
// previous entry. New entries are appended to the history file immediately.
func (h *History) Record(line string) (bool, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return false, nil
	}

	h.mu.Lock()
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		h.mu.Unlock()
		return false, nil
	}
	h.entries = append(h.entries, line)
	h.trim()
	h.mu.Unlock()

	if h.OnRecord != nil {
		h.OnRecord(line)
	}

	return true, h.appendFile(line)
}

func (h *History) appendFile(line string) error {
	if h.path == "" {
		return nil
	}

	fd, err := h.fs.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := fd.WriteString(line + "\n"); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

// Entries returns a copy of the recorded lines, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Base is the number of the oldest entry still held.
func (h *History) Base() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.base
}

// Restore replaces the in-memory entries without touching the history file.
func (h *History) Restore(base int, entries []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if base < 1 {
		base = 1
	}
	h.base = base
	h.entries = append([]string(nil), entries...)
	h.trim()
}

// Clear removes all in-memory entries.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.base += len(h.entries)
	h.entries = nil
}

// Persist rewrites the history file with the retained entries.
func (h *History) Persist() error {
	if h.path == "" {
		return nil
	}

	var sb strings.Builder
	for _, line := range h.Entries() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	return afero.WriteFile(h.fs, h.path, []byte(sb.String()), 0600)
}
