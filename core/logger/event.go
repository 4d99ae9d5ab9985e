package logger

// LogEntry is a single line of the event log. Exactly one of the event
// fields is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	RunCommand     *RunCommand     `json:"run_command,omitempty"`
	UnknownCommand *UnknownCommand `json:"unknown_command,omitempty"`
	SyntaxError    *SyntaxError    `json:"syntax_error,omitempty"`
	JobStarted     *JobStarted     `json:"job_started,omitempty"`
	JobDone        *JobDone        `json:"job_done,omitempty"`
}

// LogType is implemented by every event that can be stored in a LogEntry.
type LogType interface {
	setOn(le *LogEntry)
}

// GetLogType returns the event held by the entry or nil if there is none.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.RunCommand != nil:
		return le.RunCommand
	case le.UnknownCommand != nil:
		return le.UnknownCommand
	case le.SyntaxError != nil:
		return le.SyntaxError
	case le.JobStarted != nil:
		return le.JobStarted
	case le.JobDone != nil:
		return le.JobDone
	default:
		return nil
	}
}

// RunCommand is logged for each stage the shell starts.
type RunCommand struct {
	Command             []string `json:"command"`
	ResolvedCommandPath string   `json:"resolved_command_path,omitempty"`
	Builtin             bool     `json:"builtin,omitempty"`
	Background          bool     `json:"background,omitempty"`
}

func (e *RunCommand) setOn(le *LogEntry) { le.RunCommand = e }

// UnknownCommand is logged when a stage names neither a builtin nor a program.
type UnknownCommand struct {
	Command []string `json:"command"`
}

func (e *UnknownCommand) setOn(le *LogEntry) { le.UnknownCommand = e }

// SyntaxError is logged when a line can't be parsed.
type SyntaxError struct {
	Line  string `json:"line"`
	Error string `json:"error"`
}

func (e *SyntaxError) setOn(le *LogEntry) { le.SyntaxError = e }

// JobStarted is logged when a background process is registered.
type JobStarted struct {
	Seq     int      `json:"seq"`
	Pid     int      `json:"pid"`
	Command []string `json:"command"`
}

func (e *JobStarted) setOn(le *LogEntry) { le.JobStarted = e }

// JobDone is logged when a finished background job is reported.
type JobDone struct {
	Seq int `json:"seq"`
	Pid int `json:"pid"`
}

func (e *JobDone) setOn(le *LogEntry) { le.JobDone = e }
