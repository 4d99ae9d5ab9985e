package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       StrCounter `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand     RunCommandReport     `json:"run_command_report"`
	UnknownCommand UnknownCommandReport `json:"unknown_command_report"`
	SyntaxError    SyntaxErrorReport    `json:"syntax_error_report"`
	Jobs           JobReport            `json:"job_report"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		SyntaxError: SyntaxErrorReport{
			Errors: NewPathCounter("error", "line"),
		},
	}
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++
	if le.SessionID != "" {
		r.Sessions.Increment(le.SessionID)
	}

	switch event := le.GetLogType().(type) {
	case *RunCommand:
		r.RunCommand.update(event)
	case *UnknownCommand:
		r.UnknownCommand.update(event)
	case *SyntaxError:
		r.SyntaxError.update(event)
	case *JobStarted:
		r.Jobs.updateStarted(event)
	case *JobDone:
		r.Jobs.updateDone(event)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

type RunCommandReport struct {
	// Name of the resolved command
	ResolvedCommandPaths StrCounter `json:"resolved_command_names"`
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
	// Number of stages run as builtins.
	Builtins int `json:"builtins"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	if rc.ResolvedCommandPath != "" {
		r.ResolvedCommandPaths.Increment(rc.ResolvedCommandPath)
	}
	if len(rc.Command) > 0 {
		r.CommandNames.Increment(rc.Command[0])
	}
	if rc.Builtin {
		r.Builtins++
	}
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(logEntry *UnknownCommand) {
	if len(logEntry.Command) > 0 {
		r.CommandNames.Increment(logEntry.Command[0])
	}
}

type SyntaxErrorReport struct {
	Errors *PathCounter `json:"errors"`
}

func (r *SyntaxErrorReport) update(logEntry *SyntaxError) {
	if r.Errors == nil {
		r.Errors = NewPathCounter("error", "line")
	}
	r.Errors.Increment(logEntry.Error, strings.TrimSpace(logEntry.Line))
}

type JobReport struct {
	Started      int        `json:"started"`
	Done         int        `json:"done"`
	CommandNames StrCounter `json:"command_names"`
}

func (r *JobReport) updateStarted(js *JobStarted) {
	r.Started++
	if len(js.Command) > 0 {
		r.CommandNames.Increment(js.Command[0])
	}
}

func (r *JobReport) updateDone(*JobDone) {
	r.Done++
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for the key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of times each combination of values is seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the combination of values.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	var out []Count
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
